package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pfrederiksen/liga-rankings/internal/aggregator"
	"github.com/pfrederiksen/liga-rankings/internal/team"
	"github.com/pfrederiksen/liga-rankings/internal/views"
)

const mcpVersion = "1.0.0"

// RoundRankingsArgs is the input schema for the round_rankings tool.
type RoundRankingsArgs struct {
	Round  int    `json:"round" jsonschema:"Round number (0 = season totals)"`
	Totals bool   `json:"totals,omitempty" jsonschema:"Order a played round by season position"`
	Sort   string `json:"sort,omitempty" jsonschema:"Sort column: position|name|user|points (default position)"`
	Desc   bool   `json:"desc,omitempty" jsonschema:"Sort descending"`
}

// TeamsArgs is the input schema for the per-team analytics tools.
type TeamsArgs struct {
	Teams []string `json:"teams,omitempty" jsonschema:"Team names or name prefixes (default: tracked teams)"`
}

func newMCPHandler(src Source, opts Options) http.Handler {
	server := newMCPServer(src, opts)
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
}

func newMCPServer(src Source, opts Options) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "liga-rankings",
			Version: mcpVersion,
		},
		nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "round_rankings",
		Description: "Rankings table of one round, or of the season totals",
	}, roundRankingsTool(src))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "first_places",
		Description: "How many rounds each team won",
	}, firstPlacesTool(src, opts))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "prize_pool",
		Description: "What each team owes the prize pool over the played rounds",
	}, prizePoolTool(src, opts))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "positions_series",
		Description: "Season position of each team after every played round",
	}, positionsSeriesTool(src, opts))

	return server
}

func roundRankingsTool(src Source) func(context.Context, *mcp.CallToolRequest, RoundRankingsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args RoundRankingsArgs) (*mcp.CallToolResult, any, error) {
		if args.Round < 0 {
			return toolError(fmt.Errorf("round must not be negative")), nil, nil
		}
		col, err := views.ParseColumn(args.Sort)
		if err != nil {
			return toolError(err), nil, nil
		}

		snap, err := readySnapshot(src)
		if err != nil {
			return toolError(err), nil, nil
		}

		round := team.RoundKey(args.Round)
		if _, ok := snap.Rankings[round]; !ok {
			return toolError(fmt.Errorf("round %s not loaded", round)), nil, nil
		}

		rows := views.Table(snap.Rankings, round)
		if args.Totals && round != team.TotalsRound {
			rows = views.TotalTable(snap.Rankings, round)
		}
		return toolJSON(roundResponse{
			Round:  round,
			Totals: args.Totals && round != team.TotalsRound,
			Rows:   views.SortRows(rows, col, args.Desc),
		})
	}
}

func firstPlacesTool(src Source, opts Options) func(context.Context, *mcp.CallToolRequest, TeamsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args TeamsArgs) (*mcp.CallToolResult, any, error) {
		snap, err := readySnapshot(src)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(views.FirstPlaces(snap.Rankings, toolTeams(args.Teams, opts, snap)))
	}
}

func prizePoolTool(src Source, opts Options) func(context.Context, *mcp.CallToolRequest, TeamsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args TeamsArgs) (*mcp.CallToolResult, any, error) {
		snap, err := readySnapshot(src)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(views.PrizePool(snap.Rankings, toolTeams(args.Teams, opts, snap)))
	}
}

func positionsSeriesTool(src Source, opts Options) func(context.Context, *mcp.CallToolRequest, TeamsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args TeamsArgs) (*mcp.CallToolResult, any, error) {
		snap, err := readySnapshot(src)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(views.PositionSeries(snap.Rankings, toolTeams(args.Teams, opts, snap)))
	}
}

// readySnapshot returns the snapshot once some rankings are available
func readySnapshot(src Source) (aggregator.Snapshot, error) {
	snap := src.Snapshot()
	if len(snap.Rankings) > 0 {
		return snap, nil
	}
	if snap.Status == aggregator.StatusError {
		return snap, fmt.Errorf("rankings unavailable: %s", snap.Error)
	}
	return snap, fmt.Errorf("rankings are still loading (%d%%)", snap.Progress)
}

func toolTeams(requested []string, opts Options, snap aggregator.Snapshot) []string {
	var teams []string
	for _, name := range requested {
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

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
