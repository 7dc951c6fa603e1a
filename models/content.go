package models

import "strings"

// NotificationContent is the immutable templated text of a notification.
// Subject and Body may contain {{var}} placeholders; Variables holds the
// substitution values. Interpolate always operates on the stored original, so
// repeated interpolation yields the same output.
type NotificationContent struct {
	Subject   string            `bson:"subject" json:"subject"`
	Body      string            `bson:"body" json:"body"`
	Variables map[string]string `bson:"variables,omitempty" json:"variables,omitempty"`
}

// NewNotificationContent builds content with a defensive copy of the variables.
func NewNotificationContent(subject, body string, variables map[string]string) NotificationContent {
	vars := make(map[string]string, len(variables))
	for k, v := range variables {
		vars[k] = v
	}
	return NotificationContent{
		Subject:   strings.TrimSpace(subject),
		Body:      strings.TrimSpace(body),
		Variables: vars,
	}
}

// Interpolate returns a new NotificationContent with every {{var}} placeholder
// replaced by its value from Variables. The receiver is never mutated.
func (c NotificationContent) Interpolate() NotificationContent {
	subject := c.Subject
	body := c.Body
	for name, value := range c.Variables {
		placeholder := "{{" + name + "}}"
		subject = strings.ReplaceAll(subject, placeholder, value)
		body = strings.ReplaceAll(body, placeholder, value)
	}
	return NotificationContent{
		Subject:   subject,
		Body:      body,
		Variables: c.Variables,
	}
}
