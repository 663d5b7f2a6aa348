package assist

import "fmt"

func suggestionPrompt(description string) string {
	return fmt.Sprintf(
		`Given this widget description: "%s", suggest 3 catchy call-to-action titles and 1 supportive sentence to increase conversion.`,
		description,
	)
}

func submissionPrompt(widgetName, channel, value string) string {
	const format = `Simulate a Telegram Bot notification for a new feedback submission.
Widget: %s
Channel: %s
Value: %s
Format the output as a professional Telegram message with emojis.`

	return fmt.Sprintf(format, widgetName, channel, value)
}
