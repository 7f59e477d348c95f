package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/pfrederiksen/liga-rankings/internal/aggregator"
	"github.com/pfrederiksen/liga-rankings/internal/logger"
	"github.com/pfrederiksen/liga-rankings/internal/metrics"
	"github.com/pfrederiksen/liga-rankings/internal/storage"
	"github.com/pfrederiksen/liga-rankings/internal/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	addr      string
	noRestore bool
}

func newServeCmd(g *globalOptions) *cobra.Command {
	o := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the rankings dashboard",
		Long: `Serves the rankings dashboard, its JSON API and MCP endpoint. A fetch cycle
starts immediately and repeats every refresh_interval. Each finished cycle is
saved to the data directory and restored on the next start.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, g, o)
		},
	}

	cmd.Flags().StringVar(&o.addr, "addr", "", "Listen address (overrides config)")
	cmd.Flags().BoolVar(&o.noRestore, "no-restore", false, "Start empty instead of restoring the saved snapshot")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, g *globalOptions, o *serveOptions) error {
	cfg, log, err := g.setup(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if o.addr != "" {
		cfg.Addr = o.addr
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewManager(metrics.WithRegistry(registry))
	agg := newAggregator(cfg, log, m, aggregator.Options{
		OnReady: func(snap aggregator.Snapshot) {
			if err := store.SaveSnapshot(snap.Rankings, snap.CycleID); err != nil {
				log.Error("Failed to save rankings snapshot", logger.Fields{"path": store.Path()}, err)
			}
		},
	})

	if !o.noRestore {
		restoreSnapshot(agg, store, log)
	}

	go agg.RunEvery(ctx, cfg.RefreshInterval)

	server := web.NewServer(web.NewAggregatorSource(ctx, agg, log), web.Options{
		Addr:         cfg.Addr,
		Rounds:       cfg.Rounds,
		TrackedTeams: cfg.TrackedTeams,
		Metrics:      m,
		Logger:       log,
	})
	return server.ListenAndServe(ctx)
}

// restoreSnapshot seeds agg with the last saved rankings, if any
func restoreSnapshot(agg *aggregator.Aggregator, store *storage.Storage, log *logger.Logger) {
	snap, err := store.LoadSnapshot()
	if errors.Is(err, storage.ErrNoSnapshot) {
		return
	}
	if err != nil {
		log.Warn("Ignoring unreadable rankings snapshot", logger.Fields{"path": store.Path()}, err)
		return
	}
	if err := agg.Restore(snap.Rankings, snap.SavedTime()); err != nil {
		log.Warn("Could not restore rankings snapshot", nil, err)
		return
	}
	log.Info("Restored rankings snapshot", logger.Fields{
		"saved_at": snap.SavedAt,
		"rounds":   snap.Rounds,
	})
}
