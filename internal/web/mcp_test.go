package web

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pfrederiksen/liga-rankings/internal/aggregator"
	"github.com/pfrederiksen/liga-rankings/internal/team"
	"github.com/pfrederiksen/liga-rankings/internal/views"
	"github.com/pfrederiksen/liga-rankings/internal/web/mockweb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return text.Text
}

func TestRoundRankingsTool(t *testing.T) {
	src := new(mockweb.Source)
	src.On("Snapshot").Return(fixtureSnapshot())
	tool := roundRankingsTool(src)
	ctx := context.Background()

	res, _, err := tool(ctx, nil, RoundRankingsArgs{Round: 1, Totals: true})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var got roundResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	assert.True(t, got.Totals)
	assert.Equal(t, "No Fear", got.Rows[0].Name)

	res, _, _ = tool(ctx, nil, RoundRankingsArgs{Round: 0, Sort: "name"})
	require.False(t, res.IsError)
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	assert.False(t, got.Totals)
	assert.Equal(t, "Last FC", got.Rows[0].Name)

	res, _, _ = tool(ctx, nil, RoundRankingsArgs{Round: 7})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "round 7 not loaded")

	res, _, _ = tool(ctx, nil, RoundRankingsArgs{Round: 1, Sort: "rank"})
	assert.True(t, res.IsError)
}

func TestTeamTools(t *testing.T) {
	src := new(mockweb.Source)
	src.On("Snapshot").Return(fixtureSnapshot())
	opts := Options{TrackedTeams: []string{"No Fear"}}
	ctx := context.Background()

	res, _, err := firstPlacesTool(src, opts)(ctx, nil, TeamsArgs{})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"team":"No Fear","count":1}]`, resultText(t, res))

	res, _, _ = firstPlacesTool(src, opts)(ctx, nil, TeamsArgs{Teams: []string{"Os Bravos", " "}})
	assert.JSONEq(t, `[{"team":"Os Bravos","count":1}]`, resultText(t, res))

	res, _, _ = prizePoolTool(src, opts)(ctx, nil, TeamsArgs{})
	assert.JSONEq(t, `{"shares":[],"total":0}`, resultText(t, res))

	res, _, _ = positionsSeriesTool(src, opts)(ctx, nil, TeamsArgs{})
	var series []views.SeriesPoint
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &series))
	require.Len(t, series, 2)
	assert.Equal(t, 1, series[1].Positions["No Fear"])
}

func TestTools_NotReady(t *testing.T) {
	src := new(mockweb.Source)
	src.On("Snapshot").Return(aggregator.Snapshot{Status: aggregator.StatusLoading, Progress: 30, Rankings: team.Rankings{}})

	res, _, err := prizePoolTool(src, Options{})(context.Background(), nil, TeamsArgs{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "still loading (30%)")
}

func TestMCPServer_Session(t *testing.T) {
	src := new(mockweb.Source)
	src.On("Snapshot").Return(fixtureSnapshot())
	ctx := context.Background()

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	server := newMCPServer(src, Options{})
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"first_places", "positions_series", "prize_pool", "round_rankings"}, names)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "round_rankings",
		Arguments: map[string]any{"round": 2},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), `"name": "No Fear"`)
}
