package notify

import (
	"context"
	"log"
	"strings"

	"saturday-planner/internal/config"
)

// Result statuses.
const (
	StatusSent        = "sent"
	StatusFailed      = "failed"
	StatusNoSelection = "no_selection"
)

// Result is the status record returned by a notification send.
type Result struct {
	Status     string `json:"status"`
	Channel    string `json:"channel,omitempty"`
	Provider   string `json:"provider,omitempty"`
	MessageSID string `json:"message_sid,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Notifier delivers a message over a channel. Implementations are selected
// once at startup.
type Notifier interface {
	Send(ctx context.Context, channel, message string) (Result, error)
}

// NewNotifier picks the notification strategy from configuration. Twilio is
// only used with a real-looking account SID (they all start with "AC"), the
// same check the demo fallback has always keyed on.
func NewNotifier(cfg *config.Config) Notifier {
	switch {
	case cfg.NotificationChannel == "sms" && strings.HasPrefix(cfg.TwilioAccountSID, "AC"):
		return NewTwilioNotifier(cfg)
	case cfg.NotificationChannel == "telegram" && cfg.TelegramBotToken != "":
		n, err := NewTelegramNotifier(cfg)
		if err != nil {
			log.Printf("Warning: failed to init telegram notifier, using demo mode: %v", err)
			return NewConsoleNotifier()
		}
		return n
	default:
		return NewConsoleNotifier()
	}
}

// consoleNotifier logs the message instead of delivering it.
type consoleNotifier struct{}

// NewConsoleNotifier creates the demo-mode notifier.
func NewConsoleNotifier() Notifier {
	return &consoleNotifier{}
}

func (n *consoleNotifier) Send(_ context.Context, channel, message string) (Result, error) {
	log.Printf("DEMO: sending %s notification:\n%s", channel, message)
	return Result{
		Status:   StatusSent,
		Channel:  channel,
		Provider: "demo_mode",
	}, nil
}
