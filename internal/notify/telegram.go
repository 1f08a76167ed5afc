package notify

import (
	"context"
	"fmt"

	"saturday-planner/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegramNotifier delivers plan notifications to a Telegram chat.
type telegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier creates a Telegram notifier for the configured chat.
func NewTelegramNotifier(cfg *config.Config) (Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	return &telegramNotifier{
		api:    bot,
		chatID: cfg.TelegramChatID,
	}, nil
}

// Send posts the message to the configured chat.
func (n *telegramNotifier) Send(_ context.Context, channel, message string) (Result, error) {
	msg := tgbotapi.NewMessage(n.chatID, message)
	sent, err := n.api.Send(msg)
	if err != nil {
		return Result{}, fmt.Errorf("failed to send telegram message: %w", err)
	}

	return Result{
		Status:     StatusSent,
		Channel:    channel,
		Provider:   "telegram",
		MessageSID: fmt.Sprintf("%d", sent.MessageID),
	}, nil
}
