package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/liga-rankings/internal/team"
)

// SnapshotFile is the name of the snapshot inside the data directory
const SnapshotFile = "rankings.json"

var (
	// ErrNoSnapshot is returned when nothing has been saved yet
	ErrNoSnapshot = errors.New("no rankings snapshot")

	// ErrRoundNotFound is returned when a requested round is not in the rankings
	ErrRoundNotFound = errors.New("round not in snapshot")
)

// Snapshot is the persisted form of a rankings mapping
type Snapshot struct {
	CycleID  string        `json:"cycle_id,omitempty"`
	SavedAt  string        `json:"saved_at"`
	Rounds   int           `json:"rounds"`
	Rankings team.Rankings `json:"rankings"`
}

// SavedTime parses SavedAt, returning the zero time when it is unset or malformed
func (s *Snapshot) SavedTime() time.Time {
	t, err := time.Parse(time.RFC3339, s.SavedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Storage handles persistence of rankings snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Path returns the path of the snapshot file
func (s *Storage) Path() string {
	return filepath.Join(s.dataDir, SnapshotFile)
}

// LoadSnapshot loads the snapshot from disk. Played rounds whose positions
// are not 1..N, as in hand-edited files, are re-ranked.
func (s *Storage) LoadSnapshot() (*Snapshot, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snapshot.Rankings == nil {
		snapshot.Rankings = team.Rankings{}
	}
	for round, records := range snapshot.Rankings {
		if round != team.TotalsRound && !team.IsDense(records) {
			snapshot.Rankings[round] = team.Rerank(records)
		}
	}

	return &snapshot, nil
}

// SaveSnapshot writes rankings to disk. The file is replaced atomically so a
// reader never sees a partial snapshot.
func (s *Storage) SaveSnapshot(rankings team.Rankings, cycleID string) error {
	snapshot := Snapshot{
		CycleID:  cycleID,
		SavedAt:  time.Now().UTC().Format(time.RFC3339),
		Rounds:   len(rankings) - 1,
		Rankings: rankings,
	}
	if snapshot.Rounds < 0 {
		snapshot.Rounds = 0
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(s.dataDir, SnapshotFile+".*")
	if err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}
