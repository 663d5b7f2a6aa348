// Package domain contains core domain types for the widget service.
package domain

import (
	"time"
)

// Submission is a contact request sent through a widget, together with the
// Telegram notification written for it.
type Submission struct {
	ID          string    `json:"id"`
	WidgetName  string    `json:"widget_name"`
	Channel     string    `json:"channel"`
	Value       string    `json:"value"`
	Message     string    `json:"message"`
	AIGenerated bool      `json:"ai_generated"`
	CreatedAt   time.Time `json:"created_at"`
}
