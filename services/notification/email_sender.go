package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"driveline/config"
	"driveline/models"
	"driveline/utils"

	"go.uber.org/zap"
)

// HTTPEmailSender delivers email through a transactional email HTTP API
// (Brevo-style JSON endpoint).
type HTTPEmailSender struct {
	client *http.Client
	apiURL string
	apiKey string
	from   string
	sender string
}

// NewHTTPEmailSender builds the default email transport from AppConfig.
func NewHTTPEmailSender() *HTTPEmailSender {
	return &HTTPEmailSender{
		client: &http.Client{Timeout: 10 * time.Second},
		apiURL: config.AppConfig.EmailAPIURL,
		apiKey: config.AppConfig.EmailAPIKey,
		from:   config.AppConfig.EmailFromAddr,
		sender: config.AppConfig.EmailFromName,
	}
}

type emailAPIRequest struct {
	Sender      emailAPIParty   `json:"sender"`
	To          []emailAPIParty `json:"to"`
	Subject     string          `json:"subject"`
	HTMLContent string          `json:"htmlContent"`
	TextContent string          `json:"textContent"`
}

type emailAPIParty struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type emailAPIResponse struct {
	MessageID string `json:"messageId"`
	Message   string `json:"message"`
}

// Send posts the message to the email API and maps the HTTP outcome onto a
// SendResult.
func (s *HTTPEmailSender) Send(ctx context.Context, msg EmailMessage) (SendResult, error) {
	payload, err := json.Marshal(emailAPIRequest{
		Sender:      emailAPIParty{Name: s.sender, Email: s.from},
		To:          []emailAPIParty{{Email: msg.To}},
		Subject:     msg.Subject,
		HTMLContent: msg.HTMLContent,
		TextContent: msg.TextContent,
	})
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to encode email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return SendResult{}, fmt.Errorf("email API request failed: %w", err)
	}
	defer resp.Body.Close()

	var apiResp emailAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		apiResp = emailAPIResponse{}
	}

	if resp.StatusCode >= 300 {
		utils.GetLogger().Warn("email API rejected message",
			zap.Int("status", resp.StatusCode), zap.String("message", apiResp.Message))
		return SendResult{Success: false, Error: fmt.Sprintf("email API returned %d: %s", resp.StatusCode, apiResp.Message)}, nil
	}

	return SendResult{Success: true, MessageID: apiResp.MessageID}, nil
}

// RenderTemplate wraps interpolated content in the standard HTML shell.
func (s *HTTPEmailSender) RenderTemplate(content models.NotificationContent) string {
	body := strings.ReplaceAll(content.Body, "\n", "<br>")
	return fmt.Sprintf(
		`<html><body><h2>%s</h2><p>%s</p><p>— The %s Team</p></body></html>`,
		content.Subject, body, s.sender,
	)
}
