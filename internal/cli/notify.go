package cli

import (
	"context"
	"fmt"

	"github.com/pfrederiksen/liga-rankings/internal/logger"
	"github.com/pfrederiksen/liga-rankings/internal/notifier"
	"github.com/pfrederiksen/liga-rankings/internal/storage"
	"github.com/pfrederiksen/liga-rankings/internal/team"
	"github.com/pfrederiksen/liga-rankings/internal/views"
	"github.com/spf13/cobra"
)

type notifyOptions struct {
	rounds  string
	channel string
	fetch   bool
}

func newNotifyCmd(g *globalOptions) *cobra.Command {
	o := &notifyOptions{}

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Post round digests to Twitter or Telegram",
		Long: `Builds a digest for each requested round (winner, paying teams and pool) from
the saved snapshot and posts it to a channel. Without --round the latest loaded
round is used. The dry-run channel prints the digests instead of posting.`,
		Example: `  liga-rankings notify --round 12 --channel telegram
  liga-rankings notify --round 10,11,12 --fetch
  liga-rankings notify --channel twitter`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runNotify(cmd.Context(), cmd, g, o)
		},
	}

	cmd.Flags().StringVarP(&o.rounds, "round", "r", "", "Comma-separated rounds to announce (default latest)")
	cmd.Flags().StringVarP(&o.channel, "channel", "c", notifier.ChannelDryRun, "Channel: dry-run, twitter or telegram")
	cmd.Flags().BoolVar(&o.fetch, "fetch", false, "Run a fetch cycle before building the digests")

	return cmd
}

func runNotify(ctx context.Context, cmd *cobra.Command, g *globalOptions, o *notifyOptions) error {
	cfg, log, err := g.setup(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	n, err := notifier.New(o.channel, cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return err
	}

	var rankings team.Rankings
	if o.fetch {
		rankings, err = fetchRankings(ctx, cfg, log, store)
		if err != nil {
			return err
		}
	} else {
		snap, err := store.LoadSnapshot()
		if err != nil {
			return fmt.Errorf("%w (run fetch first or pass --fetch)", err)
		}
		rankings = snap.Rankings
	}

	rounds := splitList(o.rounds)
	if len(rounds) == 0 {
		rounds = []string{latestRound(rankings)}
	}

	digests := make([]views.RoundDigest, 0, len(rounds))
	for _, round := range rounds {
		d, err := views.Digest(rankings, round)
		if err != nil {
			return err
		}
		digests = append(digests, d)
	}

	if err := n.Notify(ctx, digests); err != nil {
		return fmt.Errorf("notifying %s: %w", o.channel, err)
	}
	log.Info("Round digests sent", logger.Fields{"channel": o.channel, "rounds": rounds})
	return nil
}
