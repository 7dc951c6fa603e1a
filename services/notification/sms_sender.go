package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"driveline/config"
	"driveline/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// HTTPSMSSender delivers SMS/WhatsApp messages through a provider HTTP API.
// Outbound sends are paced with a rate limiter so a large reminder wave
// cannot trip the provider's throughput cap.
type HTTPSMSSender struct {
	client  *http.Client
	apiURL  string
	apiKey  string
	limiter *rate.Limiter
}

// NewHTTPSMSSender builds the default SMS transport from AppConfig.
func NewHTTPSMSSender() *HTTPSMSSender {
	perMin := config.AppConfig.SMSRatePerMin
	if perMin <= 0 {
		perMin = 60
	}
	return &HTTPSMSSender{
		client:  &http.Client{Timeout: 10 * time.Second},
		apiURL:  config.AppConfig.SMSAPIURL,
		apiKey:  config.AppConfig.SMSAPIKey,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), perMin),
	}
}

type smsAPIRequest struct {
	To          string            `json:"to"`
	Message     string            `json:"message"`
	TemplateKey string            `json:"templateKey,omitempty"`
	Variables   map[string]string `json:"variables,omitempty"`
}

type smsAPIResponse struct {
	MessageID string `json:"messageId"`
	Error     string `json:"error"`
}

// Send posts the message to the SMS API and maps the outcome onto a
// SendResult. With no API URL configured (development), the message is logged
// and reported as sent.
func (s *HTTPSMSSender) Send(ctx context.Context, msg SMSMessage) (SendResult, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return SendResult{}, fmt.Errorf("sms rate limiter interrupted: %w", err)
	}

	if s.apiURL == "" {
		utils.GetLogger().Sugar().Infof("Sending SMS to %s: %s", msg.To, msg.Message)
		return SendResult{Success: true}, nil
	}

	payload, err := json.Marshal(smsAPIRequest{
		To:          msg.To,
		Message:     msg.Message,
		TemplateKey: msg.TemplateKey,
		Variables:   msg.Variables,
	})
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to encode sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return SendResult{}, fmt.Errorf("sms API request failed: %w", err)
	}
	defer resp.Body.Close()

	var apiResp smsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		apiResp = smsAPIResponse{}
	}

	if resp.StatusCode >= 300 {
		utils.GetLogger().Warn("sms API rejected message",
			zap.Int("status", resp.StatusCode), zap.String("error", apiResp.Error))
		return SendResult{Success: false, Error: fmt.Sprintf("sms API returned %d: %s", resp.StatusCode, apiResp.Error)}, nil
	}

	return SendResult{Success: true, MessageID: apiResp.MessageID}, nil
}
