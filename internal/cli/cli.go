package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pfrederiksen/liga-rankings/internal/aggregator"
	"github.com/pfrederiksen/liga-rankings/internal/config"
	"github.com/pfrederiksen/liga-rankings/internal/logger"
	"github.com/pfrederiksen/liga-rankings/internal/metrics"
	"github.com/pfrederiksen/liga-rankings/internal/rounds"
	"github.com/pfrederiksen/liga-rankings/internal/scraper"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess    = 0
	ExitError      = 1
	ExitIncomplete = 2
)

// ErrIncomplete is returned when a cycle finished without every round
var ErrIncomplete = errors.New("some rounds could not be fetched")

// globalOptions are the flags shared by every command
type globalOptions struct {
	configPath string
	logLevel   string
	verbose    bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	g := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "liga-rankings",
		Short: "Season and per-round rankings for a Liga Record fantasy league",
		Long: `Scrapes the season standings of a Liga Record fantasy league, fetches every
round for each team, and shows the rankings, positions history, first places
and prize pool as a web dashboard, on the command line, or as notifications.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "YAML config file (default $LIGA_CONFIG)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	cmd.PersistentFlags().BoolVar(&g.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newServeCmd(g), newFetchCmd(g), newNotifyCmd(g))

	return cmd
}

// setup loads the configuration and installs the default logger
func (g *globalOptions) setup(ctx context.Context, stderr io.Writer) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(ctx, g.configPath)
	if err != nil {
		return nil, nil, err
	}

	levelName := cfg.LogLevel
	if g.logLevel != "" {
		levelName = g.logLevel
	}
	if g.verbose {
		levelName = "debug"
	}
	level, err := logger.ParseLevel(levelName)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	log := logger.New(level, stderr)
	logger.SetDefault(log)
	return cfg, log, nil
}

// newAggregator wires the scrapers and the aggregator from cfg
func newAggregator(cfg *config.Config, log *logger.Logger, m *metrics.Manager, opts aggregator.Options) *aggregator.Aggregator {
	standings := scraper.New(
		scraper.WithURL(cfg.StandingsURL),
		scraper.WithUserAgent(cfg.UserAgent),
		scraper.WithTimeout(cfg.RequestTimeout),
	)
	roundClient := rounds.NewClient(
		rounds.WithBaseURL(cfg.RoundsURL),
		rounds.WithUserAgent(cfg.UserAgent),
		rounds.WithTimeout(cfg.RequestTimeout),
		rounds.WithTrackedUser(cfg.TrackedUser),
		rounds.WithLogger(log),
		rounds.WithMetrics(m),
	)

	opts.Rounds = cfg.Rounds
	opts.BatchSize = cfg.BatchSize
	opts.BatchDelay = cfg.BatchDelay
	opts.SeedRetries = cfg.SeedRetries
	opts.Logger = log
	opts.Metrics = m
	return aggregator.New(standings, roundClient, opts)
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, ErrIncomplete) {
			os.Exit(ExitIncomplete)
		}
		os.Exit(ExitError)
	}
}

// splitList splits a comma-separated flag value
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
