package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pfrederiksen/liga-rankings/internal/aggregator"
	"github.com/pfrederiksen/liga-rankings/internal/team"
	"github.com/pfrederiksen/liga-rankings/internal/views"
)

// parseRound validates a round parameter; empty means the season totals
func parseRound(s string, rounds int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return team.TotalsRound, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || (rounds > 0 && n > rounds) {
		return "", fmt.Errorf("invalid round %q", s)
	}
	return strconv.Itoa(n), nil
}

// parseSort reads the sort column and direction
func parseSort(q url.Values) (views.Column, bool, error) {
	col, err := views.ParseColumn(q.Get("sort"))
	if err != nil {
		return "", false, err
	}
	desc, _ := strconv.ParseBool(q.Get("desc"))
	return col, desc, nil
}

// requestedTeams returns the teams named in ?teams=, else the tracked teams,
// else every team in the season standings
func requestedTeams(r *http.Request, opts Options, snap aggregator.Snapshot) []string {
	var teams []string
	for _, name := range strings.Split(r.URL.Query().Get("teams"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			teams = append(teams, name)
		}
	}
	if len(teams) > 0 {
		return teams
	}
	if len(opts.TrackedTeams) > 0 {
		return append([]string{}, opts.TrackedTeams...)
	}
	return append([]string{}, snap.Teams...)
}
