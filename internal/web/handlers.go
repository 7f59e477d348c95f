package web

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/pfrederiksen/liga-rankings/internal/aggregator"
	"github.com/pfrederiksen/liga-rankings/internal/team"
	"github.com/pfrederiksen/liga-rankings/internal/views"
	"github.com/unrolled/render"
)

type roundOption struct {
	Key      string
	Label    string
	Selected bool
}

type header struct {
	Label  string
	URL    string
	Active bool
	Desc   bool
}

type indexPage struct {
	Snapshot aggregator.Snapshot
	Round    string
	Rounds   []roundOption
	Headers  []header
	Rows     []views.Row
	Totals   []views.Row
}

type analyticsPage struct {
	Snapshot    aggregator.Snapshot
	Teams       []string
	Series      []views.SeriesPoint
	FirstPlaces []views.TeamCount
	Pool        views.Pool
}

func indexHandler(src Source, render *render.Render, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		round, err := parseRound(q.Get("round"), opts.Rounds)
		if err != nil {
			render.HTML(w, http.StatusBadRequest, "400", err.Error())
			return
		}
		col, desc, err := parseSort(q)
		if err != nil {
			render.HTML(w, http.StatusBadRequest, "400", err.Error())
			return
		}

		snap := src.Snapshot()
		_, loaded := snap.Rankings[round]
		if !loaded {
			switch snap.Status {
			case aggregator.StatusIdle, aggregator.StatusLoading:
				render.HTML(w, http.StatusOK, "loading", snap)
				return
			case aggregator.StatusError:
				render.HTML(w, http.StatusServiceUnavailable, "500", snap.Error)
				return
			}
		}

		page := indexPage{
			Snapshot: snap,
			Round:    round,
			Rounds:   roundOptions(opts.Rounds, round),
			Headers:  tableHeaders(round, col, desc),
			Rows:     views.SortRows(views.Table(snap.Rankings, round), col, desc),
		}
		if round != team.TotalsRound {
			page.Totals = views.SortRows(views.TotalTable(snap.Rankings, round), col, desc)
		}

		render.HTML(w, http.StatusOK, "index", page)
	}
}

func analyticsHandler(src Source, render *render.Render, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := src.Snapshot()
		if len(snap.Rankings) == 0 {
			if snap.Status == aggregator.StatusError {
				render.HTML(w, http.StatusServiceUnavailable, "500", snap.Error)
				return
			}
			render.HTML(w, http.StatusOK, "loading", snap)
			return
		}

		teams := requestedTeams(r, opts, snap)
		page := analyticsPage{
			Snapshot:    snap,
			Teams:       teams,
			Series:      views.PositionSeries(snap.Rankings, teams),
			FirstPlaces: views.FirstPlaces(snap.Rankings, teams),
			Pool:        views.PrizePool(snap.Rankings, teams),
		}
		render.HTML(w, http.StatusOK, "analytics", page)
	}
}

func healthHandler(render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func roundOptions(rounds int, selected string) []roundOption {
	keys := views.RoundOptions(rounds)
	out := make([]roundOption, 0, len(keys))
	for _, k := range keys {
		label := "Round " + k
		if k == team.TotalsRound {
			label = "Season totals"
		}
		out = append(out, roundOption{Key: k, Label: label, Selected: k == selected})
	}
	return out
}

// tableHeaders builds the column headers; clicking the active column flips its direction
func tableHeaders(round string, active views.Column, desc bool) []header {
	cols := []struct {
		col   views.Column
		label string
	}{
		{views.ColumnPosition, "#"},
		{views.ColumnName, "Team"},
		{views.ColumnUser, "User"},
		{views.ColumnPoints, "Points"},
	}

	out := make([]header, 0, len(cols))
	for _, c := range cols {
		isActive := c.col == active
		v := url.Values{}
		v.Set("round", round)
		v.Set("sort", string(c.col))
		if isActive && !desc {
			v.Set("desc", "1")
		}
		out = append(out, header{
			Label:  c.label,
			URL:    fmt.Sprintf("/?%s", v.Encode()),
			Active: isActive,
			Desc:   isActive && desc,
		})
	}
	return out
}
