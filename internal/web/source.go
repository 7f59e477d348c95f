package web

import (
	"context"

	"github.com/pfrederiksen/liga-rankings/internal/aggregator"
	"github.com/pfrederiksen/liga-rankings/internal/logger"
)

// Source provides the rankings the dashboard shows
type Source interface {
	// Snapshot returns a copy of the current aggregation state
	Snapshot() aggregator.Snapshot

	// Refresh starts a fetch cycle in the background. It returns
	// aggregator.ErrCycleRunning if one is already in progress.
	Refresh() error
}

// AggregatorSource serves an Aggregator's state and runs its cycles
type AggregatorSource struct {
	ctx context.Context
	agg *aggregator.Aggregator
	log *logger.Logger
}

// NewAggregatorSource creates a Source backed by agg. Cycles started by
// Refresh stop when ctx ends.
func NewAggregatorSource(ctx context.Context, agg *aggregator.Aggregator, log *logger.Logger) *AggregatorSource {
	if log == nil {
		log = logger.Default()
	}
	return &AggregatorSource{ctx: ctx, agg: agg, log: log}
}

// Snapshot returns the aggregator's current state
func (s *AggregatorSource) Snapshot() aggregator.Snapshot {
	return s.agg.State().Snapshot()
}

// Refresh starts a fetch cycle unless one is running. Failures are logged by
// the aggregator.
func (s *AggregatorSource) Refresh() error {
	if err := s.agg.Start(s.ctx); err != nil {
		return err
	}
	s.log.Info("Refresh started", nil)
	return nil
}
