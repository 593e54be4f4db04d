package services

import (
	"fmt"

	"go.uber.org/zap"

	"gymdesk/internal/config"
	"gymdesk/internal/models"
)

// Notifier delivers a reminder to a member. Implementations report only
// success or failure; the caller never retries.
type Notifier interface {
	Notify(name, phone, message string) error
}

// ReminderMessage builds the expiry reminder text for a member.
func ReminderMessage(m models.Member) string {
	return fmt.Sprintf(
		"Hi %s,\n\nYour %s membership at the gym is expiring on %s.\nPlease renew your membership to continue enjoying our services.\n\nThank you!",
		m.Name, m.PlanType.Display(), DateOnly(m.EndDate).Format("2006-01-02"))
}

// ConsoleNotifier is the stub delivery channel: it logs the message instead
// of sending it. Production deployments swap in the gateway notifier.
type ConsoleNotifier struct {
	log *zap.Logger
}

func NewConsoleNotifier(log *zap.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{log: log}
}

func (n *ConsoleNotifier) Notify(name, phone, message string) error {
	n.log.Info("reminder (console stub)",
		zap.String("name", name),
		zap.String("phone", phone),
		zap.String("message", message))
	return nil
}

// NewNotifier builds the configured delivery channel.
func NewNotifier(cfg config.ReminderConfig, log *zap.Logger) (Notifier, error) {
	switch cfg.Notifier {
	case "", "console":
		return NewConsoleNotifier(log), nil
	case "gateway":
		if cfg.GatewayBaseURL == "" {
			return nil, fmt.Errorf("NOTIFIER=gateway requires GATEWAY_BASE_URL")
		}
		return NewGatewayNotifier(cfg), nil
	default:
		return nil, fmt.Errorf("unknown notifier %q", cfg.Notifier)
	}
}
