package notifier

import (
	"context"
	"fmt"

	"github.com/pfrederiksen/liga-rankings/internal/telegram"
	"github.com/pfrederiksen/liga-rankings/internal/views"
)

// TelegramNotifier sends digests to a Telegram chat
type TelegramNotifier struct {
	client *telegram.Client
}

// NewTelegramNotifier creates a notifier for the given bot and chat
func NewTelegramNotifier(botToken, chatID string, opts ...telegram.Option) (*TelegramNotifier, error) {
	client, err := telegram.NewClient(botToken, chatID, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating telegram client: %w", err)
	}
	return &TelegramNotifier{client: client}, nil
}

// Notify sends one message per digest, or a single summary for several rounds
func (n *TelegramNotifier) Notify(ctx context.Context, digests []views.RoundDigest) error {
	if len(digests) == 0 {
		return nil
	}

	messages := make([]string, 0, len(digests)+1)
	for _, d := range digests {
		messages = append(messages, telegram.FormatDigest(d))
	}
	if len(digests) > 1 {
		messages = append(messages, telegram.FormatSummary(digests))
	}

	for _, msg := range messages {
		if err := n.client.SendMessage(ctx, msg); err != nil {
			return fmt.Errorf("sending telegram message: %w", err)
		}
	}
	return nil
}
