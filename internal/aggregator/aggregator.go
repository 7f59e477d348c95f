package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/pfrederiksen/liga-rankings/internal/logger"
	"github.com/pfrederiksen/liga-rankings/internal/metrics"
	"github.com/pfrederiksen/liga-rankings/internal/team"
)

const (
	DefaultRounds    = 30
	DefaultBatchSize = 10

	// Progress after the season standings are in, and the value reached
	// when every round has completed, before the final 100.
	ProgressFloor   = 5
	ProgressCeiling = 95
)

// ErrCycleRunning is returned by Run when another cycle has not finished
var ErrCycleRunning = errors.New("fetch cycle already running")

// StandingsFetcher fetches the season standings
type StandingsFetcher interface {
	FetchStandings(ctx context.Context) ([]team.Record, error)
}

// RoundFetcher fetches one round for the given teams
type RoundFetcher interface {
	FetchRound(ctx context.Context, names []string, round string) ([]team.Record, error)
}

// Options tunes a fetch cycle
type Options struct {
	Rounds      int
	BatchSize   int
	BatchDelay  time.Duration
	SeedRetries uint64
	Logger      *logger.Logger
	Metrics     *metrics.Manager

	// OnProgress is called with every new progress value, in order.
	OnProgress func(percent int)

	// OnReady is called with the final state after each successful cycle.
	OnReady func(snap Snapshot)
}

// Aggregator runs fetch cycles and owns the resulting State
type Aggregator struct {
	standings StandingsFetcher
	rounds    RoundFetcher
	opts      Options
	log       *logger.Logger
	state     *State
	running   atomic.Bool
}

// New creates an Aggregator. Zero option values take the package defaults.
func New(standings StandingsFetcher, rounds RoundFetcher, opts Options) *Aggregator {
	if opts.Rounds < 1 {
		opts.Rounds = DefaultRounds
	}
	if opts.BatchSize < 1 {
		opts.BatchSize = DefaultBatchSize
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	return &Aggregator{
		standings: standings,
		rounds:    rounds,
		opts:      opts,
		log:       log,
		state:     NewState(),
	}
}

// State returns the state the Aggregator publishes to
func (a *Aggregator) State() *State {
	return a.state
}

// Running reports whether a cycle is in progress
func (a *Aggregator) Running() bool {
	return a.running.Load()
}

// Restore publishes previously saved rankings as ready, e.g. at startup
func (a *Aggregator) Restore(rankings team.Rankings, savedAt time.Time) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrCycleRunning
	}
	defer a.running.Store(false)

	a.state.restore(rankings.Clone(), savedAt)
	a.opts.Metrics.SetRankingsSize(len(rankings), len(rankings[team.TotalsRound]))
	return nil
}

// Run executes one full fetch cycle. It fails only when the season standings
// cannot be fetched or ctx ends; rounds that fail are logged and left out.
func (a *Aggregator) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrCycleRunning
	}
	defer a.running.Store(false)

	return a.cycle(ctx)
}

// Start claims the cycle before returning and runs it in the background.
// It returns ErrCycleRunning if a cycle is already in progress.
func (a *Aggregator) Start(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrCycleRunning
	}

	go func() {
		defer a.running.Store(false)
		_ = a.cycle(ctx)
	}()
	return nil
}

// cycle runs one fetch cycle. The caller holds the running claim.
func (a *Aggregator) cycle(ctx context.Context) error {
	cycleID := uuid.NewString()
	log := a.log.With(logger.Fields{"cycle_id": cycleID})
	started := time.Now()

	a.state.begin(cycleID, started.UTC())
	a.opts.Metrics.SetProgress(0)
	log.Info("Fetch cycle started", logger.Fields{"rounds": a.opts.Rounds, "batch_size": a.opts.BatchSize})

	seed, err := a.fetchStandings(ctx)
	if err != nil {
		err = fmt.Errorf("fetching season standings: %w", err)
		a.fail(log, started, err)
		return err
	}

	teams := make([]string, 0, len(seed))
	for _, rec := range seed {
		teams = append(teams, rec.Name)
	}
	rankings := team.Rankings{team.TotalsRound: seed}
	a.state.seed(append([]string{}, teams...), rankings.Clone())
	a.progress(ProgressFloor)
	log.Info("Season standings loaded", logger.Fields{"teams": len(teams)})

	if err := a.fetchRounds(ctx, log, teams, rankings); err != nil {
		a.fail(log, started, err)
		return err
	}

	a.progress(100)
	a.state.finish(StatusReady, nil, time.Now().UTC())
	a.opts.Metrics.SetRankingsSize(len(rankings), len(teams))
	a.opts.Metrics.CycleFinished(string(StatusReady), time.Since(started))
	log.Info("Fetch cycle finished", logger.Fields{
		"rounds_loaded": len(rankings) - 1,
		"duration":      time.Since(started).String(),
	})

	if a.opts.OnReady != nil {
		a.opts.OnReady(a.state.Snapshot())
	}
	return nil
}

// RunEvery runs a cycle immediately and then every interval until ctx ends.
// Ticks that find a cycle running are skipped. Failed cycles are logged by
// the cycle itself and the loop keeps going.
func (a *Aggregator) RunEvery(ctx context.Context, interval time.Duration) {
	run := func() { _ = a.Run(ctx) }

	run()
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if a.Running() {
				a.log.Debug("Skipping scheduled cycle, one is already running", nil)
				continue
			}
			run()
		}
	}
}

// fetchStandings fetches the season standings, retrying only when configured
func (a *Aggregator) fetchStandings(ctx context.Context) ([]team.Record, error) {
	var seed []team.Record
	op := func() error {
		start := time.Now()
		recs, err := a.standings.FetchStandings(ctx)
		a.opts.Metrics.ObserveRequest(metrics.SourceStandings, err, time.Since(start))
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		seed = recs
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), a.opts.SeedRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return seed, nil
}

// roundResult is one round's outcome, kept in its own slot until the batch joins
type roundResult struct {
	key     string
	records []team.Record
	err     error
}

// fetchRounds fetches rounds 1..N in sequential batches and merges each
// batch into rankings once all of its rounds have settled.
func (a *Aggregator) fetchRounds(ctx context.Context, log *logger.Logger, teams []string, rankings team.Rankings) error {
	total := a.opts.Rounds
	var (
		mu        sync.Mutex
		completed int
	)

	for start := 1; start <= total; start += a.opts.BatchSize {
		if start > 1 && a.opts.BatchDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(a.opts.BatchDelay):
			}
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("fetch cycle cancelled: %w", err)
		}

		end := start + a.opts.BatchSize - 1
		if end > total {
			end = total
		}

		results := make([]roundResult, end-start+1)
		var wg sync.WaitGroup
		for round := start; round <= end; round++ {
			wg.Add(1)
			go func(slot int, key string) {
				defer wg.Done()
				recs, err := a.rounds.FetchRound(ctx, teams, key)
				results[slot] = roundResult{key: key, records: recs, err: err}

				mu.Lock()
				completed++
				a.progress(interpolate(completed, total))
				mu.Unlock()
			}(round-start, team.RoundKey(round))
		}
		wg.Wait()

		for _, res := range results {
			if res.err != nil {
				log.Warn("Round fetch failed", logger.Fields{"round": res.key}, res.err)
				a.opts.Metrics.RoundFailed()
				continue
			}
			rankings[res.key] = res.records
		}
		a.state.publish(rankings.Clone())
		log.Debug("Batch merged", logger.Fields{"from": start, "to": end})
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("fetch cycle cancelled: %w", err)
	}
	return nil
}

// interpolate maps completed/total rounds onto [ProgressFloor, ProgressCeiling]
func interpolate(completed, total int) int {
	if total <= 0 {
		return ProgressCeiling
	}
	return ProgressFloor + (ProgressCeiling-ProgressFloor)*completed/total
}

// progress publishes p; callers serialize calls so observers see them in order
func (a *Aggregator) progress(p int) {
	a.state.setProgress(p)
	a.opts.Metrics.SetProgress(p)
	if a.opts.OnProgress != nil {
		a.opts.OnProgress(p)
	}
}

func (a *Aggregator) fail(log *logger.Logger, started time.Time, err error) {
	a.state.finish(StatusError, err, time.Now().UTC())
	a.opts.Metrics.CycleFinished(string(StatusError), time.Since(started))
	log.Error("Fetch cycle failed", nil, err)
}
