package rounds

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pfrederiksen/liga-rankings/internal/team"
)

// searchPage is one element of the endpoint's top-level JSON array
type searchPage struct {
	Teams []apiTeam `json:"Teams"`
}

// apiTeam is a team entry as returned by the search endpoint
type apiTeam struct {
	NameUser      string     `json:"NameUser"`
	NameTeam      string     `json:"NameTeam"`
	PositionRound flexString `json:"PositionRound"`
	Position      flexString `json:"Position"`
	PointsRound   flexInt    `json:"PointsRound"`
	PointsTotal   *flexInt   `json:"PointsTotal"`
}

// toRecord converts an API entry into a team record carrying the upstream
// round position, which Rerank later replaces.
func (t apiTeam) toRecord() team.Record {
	rec := team.Record{
		Position:      string(t.PositionRound),
		TotalPosition: string(t.Position),
		Name:          orUnknown(t.NameTeam),
		User:          orUnknown(t.NameUser),
		Points:        int(t.PointsRound),
	}
	if t.PointsTotal != nil {
		v := int(*t.PointsTotal)
		rec.TotalPoints = &v
	}
	return rec
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

// flexString accepts a JSON string or number
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("decoding string: %w", err)
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	*f = flexString(string(data))
	return nil
}

// flexInt accepts a JSON number or a numeric string; empty values decode as 0
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("decoding number: %w", err)
		}
		s = strings.TrimSpace(unq)
	}
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("decoding number %q: %w", s, err)
	}
	*f = flexInt(math.Round(v))
	return nil
}
