package views

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pfrederiksen/liga-rankings/internal/team"
)

// SeriesPoint holds the season position of each requested team after one round
type SeriesPoint struct {
	Round     int            `json:"round"`
	Positions map[string]int `json:"positions"`
}

// ChartRow flattens the point into a chart row keyed by SeriesKey
func (p SeriesPoint) ChartRow() map[string]any {
	row := map[string]any{"round": p.Round}
	for name, pos := range p.Positions {
		row[SeriesKey(name)] = pos
	}
	return row
}

// TeamCount is a per-team tally
type TeamCount struct {
	Team  string `json:"team"`
	Count int    `json:"count"`
}

// Share is one team's part of the prize pool
type Share struct {
	Team    string  `json:"team"`
	Amount  int     `json:"amount"`
	Percent float64 `json:"percent"`
}

// Pool is the prize pool over every played round
type Pool struct {
	Shares []Share `json:"shares"`
	Total  int     `json:"total"`
}

// PositionSeries returns, for each played round in numeric order, the season
// position of every requested team. A team matches the first record whose
// name starts with it. Rounds missing any requested team are left out.
func PositionSeries(r team.Rankings, teams []string) []SeriesPoint {
	series := []SeriesPoint{}
	for _, key := range playedRounds(r) {
		round, _ := strconv.Atoi(key)
		ranked := team.Rerank(byTotalPosition(r[key]))

		point := SeriesPoint{Round: round, Positions: make(map[string]int, len(teams))}
		complete := true
		for _, name := range teams {
			idx := findTeam(ranked, name)
			if idx < 0 {
				complete = false
				break
			}
			point.Positions[name] = idx + 1
		}
		if complete {
			series = append(series, point)
		}
	}
	return series
}

// FirstPlaces counts, per team, the played rounds it won. Teams that never
// won are dropped; the rest are sorted by count, highest first.
func FirstPlaces(r team.Rankings, teams []string) []TeamCount {
	counts := make([]TeamCount, 0, len(teams))
	for _, name := range teams {
		n := 0
		for _, key := range playedRounds(r) {
			records := r[key]
			if len(records) > 0 && strings.HasPrefix(records[0].Name, name) {
				n++
			}
		}
		if n > 0 {
			counts = append(counts, TeamCount{Team: name, Count: n})
		}
	}

	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	return counts
}

// PrizeAmount is what the team at a 1-based round position pays into the pool
func PrizeAmount(position int) int {
	switch {
	case position >= 1 && position <= 14:
		return 0
	case position >= 15 && position <= 19:
		return 1
	case position >= 20 && position <= 23:
		return 2
	case position >= 24 && position <= 27:
		return 3
	default:
		return 0
	}
}

// PrizePool sums, per team, the prize amounts of its positions over every
// played round. Teams owing nothing are dropped; the rest are sorted by
// amount, highest first, with their share of the total.
func PrizePool(r team.Rankings, teams []string) Pool {
	pool := Pool{Shares: make([]Share, 0, len(teams))}
	for _, name := range teams {
		amount := 0
		for _, key := range playedRounds(r) {
			if idx := findTeam(r[key], name); idx >= 0 {
				amount += PrizeAmount(idx + 1)
			}
		}
		if amount > 0 {
			pool.Shares = append(pool.Shares, Share{Team: name, Amount: amount})
			pool.Total += amount
		}
	}

	sort.SliceStable(pool.Shares, func(i, j int) bool { return pool.Shares[i].Amount > pool.Shares[j].Amount })
	for i := range pool.Shares {
		pool.Shares[i].Percent = float64(pool.Shares[i].Amount) / float64(pool.Total)
	}
	return pool
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// SeriesKey turns a team name into a chart series key: lowercase, with every
// run of other characters replaced by a single dash and no dash at either end.
func SeriesKey(name string) string {
	key := nonAlphanumeric.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(key, "-")
}

// playedRounds returns the round keys other than the season totals, in numeric order
func playedRounds(r team.Rankings) []string {
	keys := team.SortedRounds(r)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != team.TotalsRound {
			out = append(out, k)
		}
	}
	return out
}

// byTotalPosition copies records and orders them by season position
func byTotalPosition(records []team.Record) []team.Record {
	out := team.CloneRecords(records)
	for i := range out {
		out[i].Position = out[i].TotalPosition
	}
	return out
}

// findTeam returns the index of the first record whose name starts with name, or -1
func findTeam(records []team.Record, name string) int {
	for i, rec := range records {
		if strings.HasPrefix(rec.Name, name) {
			return i
		}
	}
	return -1
}
