package views

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/liga-rankings/internal/team"
)

// ErrUnknownColumn is returned for a sort column that tables do not have
var ErrUnknownColumn = errors.New("unknown sort column")

// Row is one line of a rendered round table
type Row struct {
	Position string `json:"position"`
	Name     string `json:"name"`
	User     string `json:"user"`
	Points   int    `json:"points"`
	Tier     int    `json:"tier"`
}

// Column identifies a sortable table column
type Column string

const (
	ColumnPosition Column = "position"
	ColumnName     Column = "name"
	ColumnUser     Column = "user"
	ColumnPoints   Column = "points"
)

// ParseColumn parses a column name, defaulting to position when empty
func ParseColumn(s string) (Column, error) {
	switch c := Column(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return ColumnPosition, nil
	case ColumnPosition, ColumnName, ColumnUser, ColumnPoints:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, s)
	}
}

// Table returns the rows of a round in stored order. Rows of played rounds
// carry their tier; the season totals have none.
func Table(r team.Rankings, round string) []Row {
	records := r[round]
	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		row := toRow(rec)
		if round != team.TotalsRound {
			row.Tier = RowTier(i)
		}
		rows = append(rows, row)
	}
	return rows
}

// TotalTable returns a played round ordered by season position, with season
// points. It is empty for the season totals and for rounds not loaded.
func TotalTable(r team.Rankings, round string) []Row {
	if round == team.TotalsRound {
		return []Row{}
	}
	records, ok := r[round]
	if !ok {
		return []Row{}
	}

	ranked := team.RerankByTotal(records)
	rows := make([]Row, 0, len(ranked))
	for _, rec := range ranked {
		rows = append(rows, toRow(rec))
	}
	return rows
}

// SortRows returns a copy of rows ordered by column. Ties keep their order.
func SortRows(rows []Row, column Column, desc bool) []Row {
	out := append([]Row{}, rows...)

	less := func(a, b Row) bool {
		switch column {
		case ColumnName:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case ColumnUser:
			return strings.ToLower(a.User) < strings.ToLower(b.User)
		case ColumnPoints:
			return a.Points < b.Points
		default:
			return positionLess(a.Position, b.Position)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

// RowTier is the highlight band of the row at index in a played round:
// 1 from index 14, 2 from index 19 and 3 from index 23 onwards.
func RowTier(index int) int {
	switch {
	case index >= 23:
		return 3
	case index >= 19:
		return 2
	case index >= 14:
		return 1
	default:
		return 0
	}
}

// RoundOptions lists the round keys a selector offers: totals, then 1..rounds
func RoundOptions(rounds int) []string {
	out := []string{team.TotalsRound}
	for i := 1; i <= rounds; i++ {
		out = append(out, team.RoundKey(i))
	}
	return out
}

func toRow(rec team.Record) Row {
	return Row{
		Position: rec.Position,
		Name:     rec.Name,
		User:     rec.User,
		Points:   rec.Points,
	}
}

// positionLess orders numeric positions first, then the rest lexically
func positionLess(a, b string) bool {
	pa, okA := team.ParsePosition(a)
	pb, okB := team.ParsePosition(b)
	switch {
	case okA && okB:
		return pa < pb
	case okA:
		return true
	case okB:
		return false
	}
	return a < b
}
