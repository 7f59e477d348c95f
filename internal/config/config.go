// Package config defines the service configuration and how it is loaded.
//
// Values are layered from low to high precedence: defaults from New, an optional
// YAML file, then LIGA_* environment variables. A .env file in the working
// directory is read into the environment first when present.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/liga-rankings/internal/rounds"
	"github.com/pfrederiksen/liga-rankings/internal/scraper"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr is the dashboard listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StandingsURL is the season standings HTML page.
	StandingsURL string `koanf:"standings_url"`

	// RoundsURL is the per-round team search endpoint.
	RoundsURL string `koanf:"rounds_url"`

	UserAgent string `koanf:"user_agent"`

	// Rounds is the number of rounds in a season; BatchSize bounds how many
	// are fetched at once.
	Rounds     int           `koanf:"rounds"`
	BatchSize  int           `koanf:"batch_size"`
	BatchDelay time.Duration `koanf:"batch_delay"`

	RequestTimeout time.Duration `koanf:"request_timeout"`

	// SeedRetries is how many times a failed standings fetch is retried.
	SeedRetries uint64 `koanf:"seed_retries"`

	// TrackedUser picks the entry when a team name matches several users.
	TrackedUser string `koanf:"tracked_user"`

	// TrackedTeams are the teams shown in analytics when none are requested.
	TrackedTeams []string `koanf:"tracked_teams"`

	// RefreshInterval re-runs the fetch cycle while serving. Zero disables it.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// DataDir holds the rankings snapshot.
	DataDir string `koanf:"data_dir"`

	TwitterConsumerKey    string `koanf:"twitter_consumer_key"`
	TwitterConsumerSecret string `koanf:"twitter_consumer_secret"`
	TwitterAccessToken    string `koanf:"twitter_access_token"`
	TwitterAccessSecret   string `koanf:"twitter_access_secret"`

	TelegramBotToken string `koanf:"telegram_bot_token"`
	TelegramChatID   string `koanf:"telegram_chat_id"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":8080",
		StandingsURL:   scraper.StandingsURL,
		RoundsURL:      rounds.RankingURL,
		UserAgent:      scraper.UserAgent,
		Rounds:         30,
		BatchSize:      10,
		BatchDelay:     50 * time.Millisecond,
		RequestTimeout: 30 * time.Second,
		TrackedTeams:   []string{},
		DataDir:        "~/.liga-rankings",
	}
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.StandingsURL) == "":
		return fmt.Errorf("%w: standings_url must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.RoundsURL) == "":
		return fmt.Errorf("%w: rounds_url must not be empty", ErrInvalidConfig)
	case c.Rounds < 1:
		return fmt.Errorf("%w: rounds must be at least 1, got %d", ErrInvalidConfig, c.Rounds)
	case c.BatchSize < 1:
		return fmt.Errorf("%w: batch_size must be at least 1, got %d", ErrInvalidConfig, c.BatchSize)
	case c.BatchDelay < 0:
		return fmt.Errorf("%w: batch_delay must not be negative", ErrInvalidConfig)
	case c.RequestTimeout <= 0:
		return fmt.Errorf("%w: request_timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// TwitterConfigured reports whether every Twitter credential is set.
func (c *Config) TwitterConfigured() bool {
	return c.TwitterConsumerKey != "" && c.TwitterConsumerSecret != "" &&
		c.TwitterAccessToken != "" && c.TwitterAccessSecret != ""
}

// TelegramConfigured reports whether the Telegram bot token and chat are set.
func (c *Config) TelegramConfigured() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}
