package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pfrederiksen/liga-rankings/internal/aggregator"
	"github.com/pfrederiksen/liga-rankings/internal/config"
	"github.com/pfrederiksen/liga-rankings/internal/logger"
	"github.com/pfrederiksen/liga-rankings/internal/metrics"
	"github.com/pfrederiksen/liga-rankings/internal/storage"
	"github.com/pfrederiksen/liga-rankings/internal/team"
	"github.com/pfrederiksen/liga-rankings/internal/views"
	"github.com/spf13/cobra"
)

type fetchOptions struct {
	round        string
	format       string
	sort         string
	totals       bool
	fromSnapshot bool
}

func newFetchCmd(g *globalOptions) *cobra.Command {
	o := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the rankings once and print a round",
		Long: `Runs one fetch cycle, saves the result to the data directory and prints the
rankings of a round. Without --round the latest loaded round is printed; round 0
is the season totals.

Exit codes:
  0 - every round was fetched
  1 - error occurred
  2 - the cycle finished but some rounds are missing`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFetch(cmd.Context(), cmd, g, o)
		},
	}

	cmd.Flags().StringVarP(&o.round, "round", "r", "", "Round to print (0 for season totals, default latest)")
	cmd.Flags().StringVarP(&o.format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().StringVarP(&o.sort, "sort", "s", "position", "Sort column: position, name, user or points (prefix - for descending)")
	cmd.Flags().BoolVar(&o.totals, "totals", false, "Order the round by season position with season points")
	cmd.Flags().BoolVar(&o.fromSnapshot, "from-snapshot", false, "Print the saved snapshot instead of fetching")

	return cmd
}

func runFetch(ctx context.Context, cmd *cobra.Command, g *globalOptions, o *fetchOptions) error {
	format, err := parseFormat(o.format)
	if err != nil {
		return err
	}
	column, desc, err := parseSortOrder(o.sort)
	if err != nil {
		return err
	}

	cfg, log, err := g.setup(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return err
	}

	var rankings team.Rankings
	fetchedAt := time.Now().UTC()
	if o.fromSnapshot {
		snap, err := store.LoadSnapshot()
		if err != nil {
			return err
		}
		rankings = snap.Rankings
		fetchedAt = snap.SavedTime()
	} else {
		rankings, err = fetchRankings(ctx, cfg, log, store)
		if err != nil {
			return err
		}
	}

	round := o.round
	if round == "" {
		round = latestRound(rankings)
	}
	if _, ok := rankings[round]; !ok {
		return fmt.Errorf("%w: round %s", storage.ErrRoundNotFound, round)
	}

	rows := views.Table(rankings, round)
	if o.totals {
		rows = views.TotalTable(rankings, round)
	}

	result := &OutputResult{
		FetchedAt:     fetchedAt,
		Round:         round,
		Totals:        o.totals && round != team.TotalsRound,
		RoundsLoaded:  len(rankings) - 1,
		MissingRounds: missingRounds(rankings, cfg.Rounds),
		Rows:          views.SortRows(rows, column, desc),
	}
	if err := WriteOutput(cmd.OutOrStdout(), result, format, g.verbose); err != nil {
		return err
	}

	if len(result.MissingRounds) > 0 {
		return fmt.Errorf("%w: %d of %d", ErrIncomplete, len(result.MissingRounds), cfg.Rounds)
	}
	return nil
}

// fetchRankings runs one cycle and saves the result
func fetchRankings(ctx context.Context, cfg *config.Config, log *logger.Logger, store *storage.Storage) (team.Rankings, error) {
	agg := newAggregator(cfg, log, metrics.NewManager(), aggregator.Options{})
	if err := agg.Run(ctx); err != nil {
		return nil, err
	}

	snap := agg.State().Snapshot()
	if err := store.SaveSnapshot(snap.Rankings, snap.CycleID); err != nil {
		return nil, err
	}
	log.Debug("Saved rankings snapshot", logger.Fields{"path": store.Path()})
	return snap.Rankings, nil
}

// latestRound returns the highest loaded round, or the totals when none is
func latestRound(r team.Rankings) string {
	latest := team.TotalsRound
	for _, round := range team.SortedRounds(r) {
		if n, err := strconv.Atoi(round); err == nil && n > 0 {
			latest = round
		}
	}
	return latest
}

// missingRounds lists the rounds 1..rounds not present in r
func missingRounds(r team.Rankings, rounds int) []string {
	var missing []string
	for i := 1; i <= rounds; i++ {
		if _, ok := r[team.RoundKey(i)]; !ok {
			missing = append(missing, team.RoundKey(i))
		}
	}
	return missing
}
