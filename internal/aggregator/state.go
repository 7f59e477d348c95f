package aggregator

import (
	"sync"
	"time"

	"github.com/pfrederiksen/liga-rankings/internal/team"
)

// Status is the lifecycle stage of the rankings
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// Snapshot is a read-only copy of the aggregation state
type Snapshot struct {
	CycleID    string        `json:"cycle_id,omitempty"`
	Status     Status        `json:"status"`
	Progress   int           `json:"progress"`
	Error      string        `json:"error,omitempty"`
	Teams      []string      `json:"teams"`
	Rankings   team.Rankings `json:"rankings"`
	StartedAt  time.Time     `json:"started_at,omitempty"`
	FinishedAt time.Time     `json:"finished_at,omitempty"`
}

// Loading reports whether a cycle is in progress
func (s Snapshot) Loading() bool {
	return s.Status == StatusLoading
}

// State holds the rankings published by an Aggregator.
// Only the owning Aggregator writes to it.
type State struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewState creates an empty idle state
func NewState() *State {
	return &State{
		snap: Snapshot{
			Status:   StatusIdle,
			Teams:    []string{},
			Rankings: team.Rankings{},
		},
	}
}

// Snapshot returns a deep copy of the current state
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.snap
	out.Teams = append([]string{}, s.snap.Teams...)
	out.Rankings = s.snap.Rankings.Clone()
	return out
}

func (s *State) begin(cycleID string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.CycleID = cycleID
	s.snap.Status = StatusLoading
	s.snap.Progress = 0
	s.snap.Error = ""
	s.snap.StartedAt = at
	s.snap.FinishedAt = time.Time{}
}

// seed replaces the previous cycle's rankings with the season totals
func (s *State) seed(teams []string, rankings team.Rankings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Teams = teams
	s.snap.Rankings = rankings
}

func (s *State) publish(rankings team.Rankings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Rankings = rankings
}

// setProgress stores p unless it would move progress backwards
func (s *State) setProgress(p int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p > s.snap.Progress {
		s.snap.Progress = p
	}
}

func (s *State) finish(status Status, err error, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Status = status
	s.snap.FinishedAt = at
	if err != nil {
		s.snap.Error = err.Error()
	}
	if status == StatusReady {
		s.snap.Progress = 100
	}
}

func (s *State) restore(rankings team.Rankings, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Status = StatusReady
	s.snap.Progress = 100
	s.snap.Error = ""
	s.snap.Teams = rankings.Teams()
	s.snap.Rankings = rankings
	s.snap.FinishedAt = at
}
