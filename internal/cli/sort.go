package cli

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/liga-rankings/internal/views"
)

// SortOrder is a --sort flag value: a column name, optionally prefixed
// with "-" for descending order (e.g. "-points").
type SortOrder string

const (
	SortByPosition SortOrder = "position"
	SortByName     SortOrder = "name"
	SortByUser     SortOrder = "user"
	SortByPoints   SortOrder = "points"
)

// parseSortOrder splits a --sort value into a table column and direction
func parseSortOrder(s string) (views.Column, bool, error) {
	s = strings.TrimSpace(s)
	desc := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	switch SortOrder(strings.ToLower(s)) {
	case "", SortByPosition:
		return views.ColumnPosition, desc, nil
	case SortByName:
		return views.ColumnName, desc, nil
	case SortByUser:
		return views.ColumnUser, desc, nil
	case SortByPoints:
		return views.ColumnPoints, desc, nil
	default:
		return "", false, fmt.Errorf("invalid sort: %s (must be position, name, user or points, optionally prefixed with -)", s)
	}
}
