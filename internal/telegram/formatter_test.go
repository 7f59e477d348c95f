package telegram

import (
	"strings"
	"testing"

	"github.com/pfrederiksen/liga-rankings/internal/team"
	"github.com/pfrederiksen/liga-rankings/internal/views"
)

func TestFormatDigest(t *testing.T) {
	tests := []struct {
		name        string
		digest      views.RoundDigest
		contains    []string
		notContains []string
	}{
		{
			name: "round with payers",
			digest: views.RoundDigest{
				Round:  "7",
				Teams:  20,
				Winner: team.Record{Position: "1", Name: "No Fear", User: "joao", Points: 64},
				Payers: []views.Payer{
					{Position: 15, Name: "Os Bravos", User: "rita", Amount: 1},
					{Position: 20, Name: "Last FC", Amount: 2},
				},
				Pool: 3,
			},
			contains: []string{
				"<b>Round 7 results</b>",
				"🏆 <b>No Fear</b> (joao) - 64 pts",
				"<b>Pool: 3</b>",
				"15. Os Bravos <i>(rita)</i>: 1",
				"20. Last FC: 2",
				"20 teams",
				"#LigaRecord",
			},
			notContains: []string{"Nobody pays"},
		},
		{
			name: "round without payers",
			digest: views.RoundDigest{
				Round:  "1",
				Teams:  3,
				Winner: team.Record{Name: "A", Points: 10},
				Payers: []views.Payer{},
			},
			contains:    []string{"Nobody pays into the pool", "🏆 <b>A</b> - 10 pts"},
			notContains: []string{"Pool:"},
		},
		{
			name: "names are escaped",
			digest: views.RoundDigest{
				Round:  "2",
				Winner: team.Record{Name: "<Rock & Roll>", User: "a<b"},
			},
			contains:    []string{"&lt;Rock &amp; Roll&gt;", "(a&lt;b)"},
			notContains: []string{"<Rock"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDigest(tt.digest)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("FormatDigest() missing %q in:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(got, unwanted) {
					t.Errorf("FormatDigest() should not contain %q in:\n%s", unwanted, got)
				}
			}
		})
	}
}

func TestFormatSummary(t *testing.T) {
	if got := FormatSummary(nil); got != "No rounds to report" {
		t.Errorf("FormatSummary(nil) = %q", got)
	}

	got := FormatSummary([]views.RoundDigest{
		{Round: "1", Winner: team.Record{Name: "A"}, Pool: 4},
		{Round: "2", Winner: team.Record{Name: "B"}, Pool: 6},
	})
	for _, want := range []string{"2 round(s)", "Round 1: 🏆 A, pool 4", "Round 2: 🏆 B, pool 6", "Total: 10"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatSummary() missing %q in:\n%s", want, got)
		}
	}
}
