// Package assist implements the widget copy assistant and submission
// notification writer backed by a generative-AI provider.
package assist

import "fmt"

// Suggestion is AI-proposed marketing copy for a contact widget.
type Suggestion struct {
	Titles      []string `json:"titles"`
	Description string   `json:"description"`
}

// Mode tells whether the service talks to a provider or answers from
// built-in fallbacks only.
type Mode int

const (
	// ModeDisabled answers every call with the deterministic fallback.
	ModeDisabled Mode = iota
	// ModeActive sends each call to the configured Generator.
	ModeActive
)

func (m Mode) String() string {
	switch m {
	case ModeActive:
		return "active"
	case ModeDisabled:
		return "disabled"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// FieldType is the JSON type of a structured-output field.
type FieldType string

const (
	// FieldString is a JSON string.
	FieldString FieldType = "string"
	// FieldStringArray is a JSON array of strings.
	FieldStringArray FieldType = "string_array"
)

// Field is one property of a structured-output object.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
}

// Schema describes the JSON object a structured request asks the model for.
// Generators translate it into their provider's schema dialect.
type Schema struct {
	Name        string
	Description string
	Fields      []Field
}

// RequiredNames returns the names of required fields in declaration order.
func (s Schema) RequiredNames() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

var suggestionSchema = Schema{
	Name:        "widget_suggestion",
	Description: "Call-to-action titles and a supportive sentence for a contact widget",
	Fields: []Field{
		{Name: "titles", Type: FieldStringArray, Required: true},
		{Name: "description", Type: FieldString, Required: true},
	},
}

// SuggestionSchema returns the schema requested for widget suggestions.
func SuggestionSchema() Schema {
	return suggestionSchema
}

// FallbackSuggestion returns the copy served when AI assistance is disabled.
// Each call returns a fresh value that callers may modify.
func FallbackSuggestion() *Suggestion {
	return &Suggestion{
		Titles: []string{
			"Get in Touch Today!",
			"We're Here to Help",
			"Let's Connect",
		},
		Description: "Choose your preferred way to reach us. We typically respond within 24 hours.",
	}
}

// FormatSubmission renders the plain notification used when the provider is
// disabled or fails.
func FormatSubmission(widgetName, channel, value string) string {
	return fmt.Sprintf("🚀 New Submission!\n\nWidget: %s\nChannel: %s\nContact: %s", widgetName, channel, value)
}
