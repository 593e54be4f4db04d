package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gymdesk/internal/config"
)

// GatewayNotifier delivers reminders through an HTTP SMS/WhatsApp gateway.
// Any gateway speaking a sendText-style JSON endpoint works behind it.
type GatewayNotifier struct {
	baseURL        string
	apiKey         string
	defaultCountry string
	client         *http.Client
}

func NewGatewayNotifier(cfg config.ReminderConfig) *GatewayNotifier {
	return &GatewayNotifier{
		baseURL:        strings.TrimRight(cfg.GatewayBaseURL, "/"),
		apiKey:         cfg.GatewayAPIKey,
		defaultCountry: cfg.DefaultCountry,
		client:         &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *GatewayNotifier) makeRequest(method, endpoint string, payload interface{}) error {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		bodyReader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, fmt.Sprintf("%s%s", s.baseURL, endpoint), bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// Notify sends the message as a single sendText call.
func (s *GatewayNotifier) Notify(name, phone, message string) error {
	return s.makeRequest("POST", "/api/sendText", map[string]string{
		"to":   NormalizePhone(phone, s.defaultCountry),
		"text": message,
	})
}

// NormalizePhone standardizes a stored phone number for the gateway:
// spaces and dashes removed, a leading "+" dropped, and a leading "0"
// replaced by the default country code.
func NormalizePhone(phone, defaultCountry string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.NewReplacer(" ", "", "-", "").Replace(phone)

	phone = strings.TrimPrefix(phone, "+")

	if strings.HasPrefix(phone, "0") {
		phone = defaultCountry + strings.TrimPrefix(phone, "0")
	}

	return phone
}
