package views

import (
	"errors"
	"fmt"

	"github.com/pfrederiksen/liga-rankings/internal/team"
)

// ErrRoundNotLoaded is returned when a digest is requested for a round that is
// not in the rankings or is the season totals
var ErrRoundNotLoaded = errors.New("round not loaded")

// Payer is a team that pays into the pool for a round
type Payer struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	User     string `json:"user"`
	Amount   int    `json:"amount"`
}

// RoundDigest summarizes one played round for notifications
type RoundDigest struct {
	Round  string      `json:"round"`
	Teams  int         `json:"teams"`
	Winner team.Record `json:"winner"`
	Payers []Payer     `json:"payers"`
	Pool   int         `json:"pool"`
}

// Digest summarizes a played round: its winner, the teams in a paying band and
// what the round adds to the pool.
func Digest(r team.Rankings, round string) (RoundDigest, error) {
	records, ok := r[round]
	if round == team.TotalsRound || !ok || len(records) == 0 {
		return RoundDigest{}, fmt.Errorf("%w: %q", ErrRoundNotLoaded, round)
	}

	d := RoundDigest{
		Round:  round,
		Teams:  len(records),
		Winner: records[0],
		Payers: []Payer{},
	}
	for i, rec := range records {
		amount := PrizeAmount(i + 1)
		if amount == 0 {
			continue
		}
		d.Payers = append(d.Payers, Payer{Position: i + 1, Name: rec.Name, User: rec.User, Amount: amount})
		d.Pool += amount
	}
	return d, nil
}
