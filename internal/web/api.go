package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pfrederiksen/liga-rankings/internal/aggregator"
	"github.com/pfrederiksen/liga-rankings/internal/team"
	"github.com/pfrederiksen/liga-rankings/internal/views"
	"github.com/unrolled/render"
)

type statusResponse struct {
	CycleID    string            `json:"cycle_id,omitempty"`
	Status     aggregator.Status `json:"status"`
	Progress   int               `json:"progress"`
	Loading    bool              `json:"loading"`
	Error      string            `json:"error,omitempty"`
	Teams      int               `json:"teams"`
	Rounds     []string          `json:"rounds"`
	StartedAt  *time.Time        `json:"started_at,omitempty"`
	FinishedAt *time.Time        `json:"finished_at,omitempty"`
}

type roundResponse struct {
	Round  string      `json:"round"`
	Totals bool        `json:"totals"`
	Rows   []views.Row `json:"rows"`
}

type seriesTeam struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

type seriesResponse struct {
	Teams  []seriesTeam        `json:"teams"`
	Points []views.SeriesPoint `json:"points"`
	Chart  []map[string]any    `json:"chart"`
}

func errorJSON(render *render.Render, w http.ResponseWriter, status int, msg string) {
	render.JSON(w, status, map[string]string{"error": msg})
}

func statusHandler(src Source, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := src.Snapshot()
		resp := statusResponse{
			CycleID:  snap.CycleID,
			Status:   snap.Status,
			Progress: snap.Progress,
			Loading:  snap.Loading(),
			Error:    snap.Error,
			Teams:    len(snap.Teams),
			Rounds:   team.SortedRounds(snap.Rankings),
		}
		if !snap.StartedAt.IsZero() {
			resp.StartedAt = &snap.StartedAt
		}
		if !snap.FinishedAt.IsZero() {
			resp.FinishedAt = &snap.FinishedAt
		}
		render.JSON(w, http.StatusOK, resp)
	}
}

func rankingsHandler(src Source, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, http.StatusOK, src.Snapshot().Rankings)
	}
}

func roundHandler(src Source, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		round, err := parseRound(chi.URLParam(r, "round"), 0)
		if err != nil {
			errorJSON(render, w, http.StatusBadRequest, err.Error())
			return
		}
		col, desc, err := parseSort(r.URL.Query())
		if err != nil {
			errorJSON(render, w, http.StatusBadRequest, err.Error())
			return
		}

		snap := src.Snapshot()
		if _, ok := snap.Rankings[round]; !ok {
			errorJSON(render, w, http.StatusNotFound, "round "+round+" not loaded")
			return
		}

		resp := roundResponse{Round: round}
		if r.URL.Query().Get("totals") == "1" && round != team.TotalsRound {
			resp.Totals = true
			resp.Rows = views.SortRows(views.TotalTable(snap.Rankings, round), col, desc)
		} else {
			resp.Rows = views.SortRows(views.Table(snap.Rankings, round), col, desc)
		}
		render.JSON(w, http.StatusOK, resp)
	}
}

func seriesHandler(src Source, render *render.Render, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := src.Snapshot()
		teams := requestedTeams(r, opts, snap)
		points := views.PositionSeries(snap.Rankings, teams)

		resp := seriesResponse{
			Teams:  make([]seriesTeam, 0, len(teams)),
			Points: points,
			Chart:  make([]map[string]any, 0, len(points)),
		}
		for _, name := range teams {
			resp.Teams = append(resp.Teams, seriesTeam{Name: name, Key: views.SeriesKey(name)})
		}
		for _, p := range points {
			resp.Chart = append(resp.Chart, p.ChartRow())
		}
		render.JSON(w, http.StatusOK, resp)
	}
}

func firstPlacesHandler(src Source, render *render.Render, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := src.Snapshot()
		render.JSON(w, http.StatusOK, views.FirstPlaces(snap.Rankings, requestedTeams(r, opts, snap)))
	}
}

func prizePoolHandler(src Source, render *render.Render, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := src.Snapshot()
		render.JSON(w, http.StatusOK, views.PrizePool(snap.Rankings, requestedTeams(r, opts, snap)))
	}
}

func refreshHandler(src Source, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := src.Refresh(); err != nil {
			if errors.Is(err, aggregator.ErrCycleRunning) {
				errorJSON(render, w, http.StatusConflict, err.Error())
				return
			}
			errorJSON(render, w, http.StatusInternalServerError, err.Error())
			return
		}
		render.JSON(w, http.StatusAccepted, map[string]string{"status": "started"})
	}
}
