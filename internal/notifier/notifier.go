package notifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pfrederiksen/liga-rankings/internal/config"
	"github.com/pfrederiksen/liga-rankings/internal/telegram"
	"github.com/pfrederiksen/liga-rankings/internal/views"
)

// Channel names accepted by New
const (
	ChannelDryRun   = "dry-run"
	ChannelTwitter  = "twitter"
	ChannelTelegram = "telegram"
)

var (
	// ErrUnknownChannel is returned by New for an unsupported channel name
	ErrUnknownChannel = errors.New("unknown notification channel")

	// ErrNotConfigured is returned by New when a channel's credentials are incomplete
	ErrNotConfigured = errors.New("notification channel not configured")
)

// Notifier defines the interface for posting round digests
type Notifier interface {
	// Notify posts one notification per digest
	Notify(ctx context.Context, digests []views.RoundDigest) error
}

// New builds the notifier for a channel from the loaded configuration.
// Dry runs write to out.
func New(channel string, cfg *config.Config, out io.Writer) (Notifier, error) {
	switch channel {
	case "", ChannelDryRun:
		return NewDryRunNotifier(out), nil
	case ChannelTwitter:
		if !cfg.TwitterConfigured() {
			return nil, fmt.Errorf("%w: twitter needs twitter_consumer_key, twitter_consumer_secret, twitter_access_token and twitter_access_secret", ErrNotConfigured)
		}
		return NewTwitterNotifier(Credentials{
			ConsumerKey:    cfg.TwitterConsumerKey,
			ConsumerSecret: cfg.TwitterConsumerSecret,
			AccessToken:    cfg.TwitterAccessToken,
			AccessSecret:   cfg.TwitterAccessSecret,
		})
	case ChannelTelegram:
		if !cfg.TelegramConfigured() {
			return nil, fmt.Errorf("%w: telegram needs telegram_bot_token and telegram_chat_id", ErrNotConfigured)
		}
		return NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID,
			telegram.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, channel)
	}
}
