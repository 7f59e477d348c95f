package team

import (
	"sort"
	"strconv"
	"strings"
)

// TotalsRound is the round key holding season-cumulative standings.
const TotalsRound = "0"

// Record represents a team's standing within a single round
type Record struct {
	Position      string `json:"position"`
	TotalPosition string `json:"total_position,omitempty"`
	Name          string `json:"name"`
	User          string `json:"user"`
	Points        int    `json:"points"`
	TotalPoints   *int   `json:"total_points,omitempty"`
}

// Rankings maps round identifiers to the ordered records of that round
type Rankings map[string][]Record

// RoundKey returns the map key for a numbered round
func RoundKey(round int) string {
	return strconv.Itoa(round)
}

// ParsePosition parses a position string as a positive integer
func ParsePosition(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Clone returns a deep copy of the rankings
func (r Rankings) Clone() Rankings {
	if r == nil {
		return Rankings{}
	}
	out := make(Rankings, len(r))
	for round, records := range r {
		out[round] = CloneRecords(records)
	}
	return out
}

// Teams returns the team names of the season totals, in standings order
func (r Rankings) Teams() []string {
	totals := r[TotalsRound]
	names := make([]string, 0, len(totals))
	for _, rec := range totals {
		names = append(names, rec.Name)
	}
	return names
}

// SortedRounds returns the round keys in ascending numeric order.
// Keys that are not numbers sort after every numbered round.
func SortedRounds(r Rankings) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, errI := strconv.Atoi(keys[i])
		nj, errJ := strconv.Atoi(keys[j])
		switch {
		case errI == nil && errJ == nil:
			return ni < nj
		case errI == nil:
			return true
		case errJ == nil:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}

// CloneRecords copies a record slice, including the TotalPoints pointers
func CloneRecords(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	for i, rec := range records {
		out[i] = rec
		if rec.TotalPoints != nil {
			v := *rec.TotalPoints
			out[i].TotalPoints = &v
		}
	}
	return out
}

// Rerank sorts records ascending by their numeric Position and overwrites
// Position with the dense sequence 1..N. Records whose position cannot be
// parsed keep their relative order after all parsable ones.
func Rerank(records []Record) []Record {
	return rerankBy(records, func(rec Record) string { return rec.Position })
}

// RerankByTotal orders a round's records by season position and reports
// season points in Points, the way the totals table for a round is shown.
func RerankByTotal(records []Record) []Record {
	out := rerankBy(records, func(rec Record) string { return rec.TotalPosition })
	for i := range out {
		if out[i].TotalPoints != nil {
			out[i].Points = *out[i].TotalPoints
		} else {
			out[i].Points = 0
		}
	}
	return out
}

func rerankBy(records []Record, key func(Record) string) []Record {
	out := CloneRecords(records)
	if out == nil {
		out = []Record{}
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi, okI := ParsePosition(key(out[i]))
		pj, okJ := ParsePosition(key(out[j]))
		switch {
		case okI && okJ:
			return pi < pj
		case okI:
			return true
		default:
			return false
		}
	})

	for i := range out {
		out[i].Position = strconv.Itoa(i + 1)
	}
	return out
}

// IsDense reports whether the positions form the sequence 1..N in order
func IsDense(records []Record) bool {
	for i, rec := range records {
		if rec.Position != strconv.Itoa(i+1) {
			return false
		}
	}
	return true
}
