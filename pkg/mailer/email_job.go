package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// When Template is set the worker renders it with Data; otherwise HTML is
// used as-is.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "welcome" or "forgot_password"
	Data     map[string]any `json:"data,omitempty"`
}
