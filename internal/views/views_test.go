package views

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/pfrederiksen/liga-rankings/internal/team"
)

func intPtr(n int) *int { return &n }

// roundOf builds a played round from names in finishing order, giving each
// the matching season position from totals
func roundOf(names []string, totals map[string]int) []team.Record {
	out := make([]team.Record, 0, len(names))
	for i, name := range names {
		rec := team.Record{
			Position: strconv.Itoa(i + 1),
			Name:     name,
			User:     "u-" + name,
			Points:   100 - i,
		}
		if pos, ok := totals[name]; ok {
			rec.TotalPosition = strconv.Itoa(pos)
			rec.TotalPoints = intPtr(1000 - pos)
		}
		out = append(out, rec)
	}
	return out
}

func namedTeams(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("Team %02d", i+1)
	}
	return names
}

func TestPrizeAmount(t *testing.T) {
	tests := []struct {
		position int
		want     int
	}{
		{0, 0},
		{1, 0},
		{5, 0},
		{14, 0},
		{15, 1},
		{16, 1},
		{19, 1},
		{20, 2},
		{23, 2},
		{24, 3},
		{25, 3},
		{27, 3},
		{28, 0},
		{-1, 0},
	}
	for _, tt := range tests {
		if got := PrizeAmount(tt.position); got != tt.want {
			t.Errorf("PrizeAmount(%d) = %d, want %d", tt.position, got, tt.want)
		}
	}
}

func TestRowTier(t *testing.T) {
	tests := []struct {
		index int
		want  int
	}{
		{0, 0},
		{13, 0},
		{14, 1},
		{18, 1},
		{19, 2},
		{22, 2},
		{23, 3},
		{30, 3},
	}
	for _, tt := range tests {
		if got := RowTier(tt.index); got != tt.want {
			t.Errorf("RowTier(%d) = %d, want %d", tt.index, got, tt.want)
		}
	}
}

func TestTable(t *testing.T) {
	names := namedTeams(25)
	r := team.Rankings{
		"0": roundOf(names, nil),
		"3": roundOf(names, nil),
	}

	rows := Table(r, "3")
	if len(rows) != 25 {
		t.Fatalf("Table() returned %d rows, want 25", len(rows))
	}
	if rows[0].Tier != 0 || rows[14].Tier != 1 || rows[19].Tier != 2 || rows[24].Tier != 3 {
		t.Errorf("tiers = %d/%d/%d/%d, want 0/1/2/3", rows[0].Tier, rows[14].Tier, rows[19].Tier, rows[24].Tier)
	}

	for _, row := range Table(r, "0") {
		if row.Tier != 0 {
			t.Fatalf("season totals row %q has tier %d", row.Name, row.Tier)
		}
	}

	if got := Table(r, "9"); len(got) != 0 {
		t.Errorf("Table() for missing round = %v, want empty", got)
	}
}

func TestTotalTable(t *testing.T) {
	r := team.Rankings{
		"2": roundOf([]string{"A", "B", "C"}, map[string]int{"A": 3, "B": 1, "C": 2}),
	}

	rows := TotalTable(r, "2")
	if len(rows) != 3 {
		t.Fatalf("TotalTable() returned %d rows, want 3", len(rows))
	}
	wantNames := []string{"B", "C", "A"}
	for i, row := range rows {
		if row.Name != wantNames[i] {
			t.Errorf("row %d name = %q, want %q", i, row.Name, wantNames[i])
		}
		if row.Position != strconv.Itoa(i+1) {
			t.Errorf("row %d position = %q, want %d", i, row.Position, i+1)
		}
	}
	if rows[0].Points != 999 {
		t.Errorf("row 0 points = %d, want season points 999", rows[0].Points)
	}

	if r["2"][0].Name != "A" || r["2"][0].Position != "1" {
		t.Error("TotalTable() modified the rankings")
	}
	if got := TotalTable(r, "0"); len(got) != 0 {
		t.Errorf("TotalTable(totals) = %v, want empty", got)
	}
	if got := TotalTable(r, "7"); len(got) != 0 {
		t.Errorf("TotalTable(missing) = %v, want empty", got)
	}
}

func TestSortRows(t *testing.T) {
	rows := []Row{
		{Position: "2", Name: "bravo", User: "Zed", Points: 50},
		{Position: "10", Name: "Alpha", User: "amy", Points: 70},
		{Position: "1", Name: "charlie", User: "Bob", Points: 60},
	}

	tests := []struct {
		column Column
		desc   bool
		want   []string
	}{
		{ColumnPosition, false, []string{"charlie", "bravo", "Alpha"}},
		{ColumnPosition, true, []string{"Alpha", "bravo", "charlie"}},
		{ColumnName, false, []string{"Alpha", "bravo", "charlie"}},
		{ColumnUser, false, []string{"Alpha", "charlie", "bravo"}},
		{ColumnPoints, true, []string{"Alpha", "charlie", "bravo"}},
	}
	for _, tt := range tests {
		got := SortRows(rows, tt.column, tt.desc)
		for i, row := range got {
			if row.Name != tt.want[i] {
				t.Errorf("SortRows(%s, desc=%v)[%d] = %q, want %q", tt.column, tt.desc, i, row.Name, tt.want[i])
			}
		}
	}
	if rows[0].Name != "bravo" {
		t.Error("SortRows() reordered its input")
	}
}

func TestParseColumn(t *testing.T) {
	if c, err := ParseColumn(""); err != nil || c != ColumnPosition {
		t.Errorf("ParseColumn(\"\") = %q, %v", c, err)
	}
	if c, err := ParseColumn(" Points "); err != nil || c != ColumnPoints {
		t.Errorf("ParseColumn(Points) = %q, %v", c, err)
	}
	if _, err := ParseColumn("rank"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("ParseColumn(rank) error = %v, want ErrUnknownColumn", err)
	}
}

func TestPositionSeries(t *testing.T) {
	r := team.Rankings{
		"0":  roundOf([]string{"No Fear", "Bravos", "Other"}, nil),
		"10": roundOf([]string{"No Fear FC", "Bravos"}, map[string]int{"No Fear FC": 2, "Bravos": 1}),
		"2":  roundOf([]string{"Bravos", "Other", "No Fear FC"}, map[string]int{"Bravos": 3, "Other": 2, "No Fear FC": 1}),
		"3":  roundOf([]string{"Other"}, map[string]int{"Other": 1}),
	}

	series := PositionSeries(r, []string{"No Fear", "Bravos"})
	if len(series) != 2 {
		t.Fatalf("PositionSeries() returned %d points, want 2 (round 3 lacks teams): %+v", len(series), series)
	}

	if series[0].Round != 2 || series[1].Round != 10 {
		t.Errorf("rounds = %d,%d, want 2,10", series[0].Round, series[1].Round)
	}
	if series[0].Positions["No Fear"] != 1 || series[0].Positions["Bravos"] != 3 {
		t.Errorf("round 2 positions = %v", series[0].Positions)
	}
	if series[1].Positions["No Fear"] != 2 || series[1].Positions["Bravos"] != 1 {
		t.Errorf("round 10 positions = %v", series[1].Positions)
	}

	row := series[0].ChartRow()
	if row["round"] != 2 || row["no-fear"] != 1 || row["bravos"] != 3 {
		t.Errorf("ChartRow() = %v", row)
	}
}

func TestFirstPlaces(t *testing.T) {
	r := team.Rankings{
		"0": roundOf([]string{"C", "A", "B"}, nil),
		"1": roundOf([]string{"A", "B", "C"}, nil),
		"2": roundOf([]string{"B", "A", "C"}, nil),
		"3": roundOf([]string{"B", "C", "A"}, nil),
		"4": {},
	}

	got := FirstPlaces(r, []string{"A", "B", "C"})
	if len(got) != 2 {
		t.Fatalf("FirstPlaces() = %v, want 2 teams", got)
	}
	if got[0] != (TeamCount{Team: "B", Count: 2}) || got[1] != (TeamCount{Team: "A", Count: 1}) {
		t.Errorf("FirstPlaces() = %v, want [B:2 A:1]", got)
	}
}

func TestPrizePool(t *testing.T) {
	names := namedTeams(27)
	reversed := make([]string, len(names))
	for i, n := range names {
		reversed[len(names)-1-i] = n
	}
	r := team.Rankings{
		"0": roundOf(names, nil),
		"1": roundOf(names, nil),
		"2": roundOf(reversed, nil),
	}

	pool := PrizePool(r, []string{"Team 01", "Team 16", "Team 25", "Team 05"})

	// Team 01: 1st then 27th (3). Team 16: 16th (1) then 12th (0).
	// Team 25: 25th (3) then 3rd (0). Team 05: 5th then 23rd (2).
	want := map[string]int{"Team 01": 3, "Team 16": 1, "Team 25": 3, "Team 05": 2}
	if len(pool.Shares) != 4 {
		t.Fatalf("PrizePool() shares = %v", pool.Shares)
	}
	for _, s := range pool.Shares {
		if s.Amount != want[s.Team] {
			t.Errorf("%s amount = %d, want %d", s.Team, s.Amount, want[s.Team])
		}
	}
	if pool.Total != 9 {
		t.Errorf("Total = %d, want 9", pool.Total)
	}
	if pool.Shares[0].Team != "Team 01" || pool.Shares[3].Team != "Team 16" {
		t.Errorf("order = %v, want descending by amount", pool.Shares)
	}
	if p := pool.Shares[3].Percent; p < 0.111 || p > 0.112 {
		t.Errorf("Team 16 percent = %f, want 1/9", p)
	}
}

func TestPrizePool_DropsZeroAndMissing(t *testing.T) {
	r := team.Rankings{"1": roundOf([]string{"A", "B"}, nil)}

	pool := PrizePool(r, []string{"A", "Ghost"})
	if len(pool.Shares) != 0 || pool.Total != 0 {
		t.Errorf("PrizePool() = %+v, want empty", pool)
	}
}

func TestSeriesKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"No Fear", "no-fear"},
		{"  Os Bravos!! FC ", "os-bravos-fc"},
		{"Águias 2024", "guias-2024"},
		{"---", ""},
		{"abc", "abc"},
	}
	for _, tt := range tests {
		if got := SeriesKey(tt.in); got != tt.want {
			t.Errorf("SeriesKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDigest(t *testing.T) {
	names := namedTeams(20)
	r := team.Rankings{
		"0": roundOf(names, nil),
		"4": roundOf(names, nil),
	}

	d, err := Digest(r, "4")
	if err != nil {
		t.Fatalf("Digest() error = %v", err)
	}
	if d.Winner.Name != "Team 01" || d.Teams != 20 {
		t.Errorf("winner/teams = %q/%d", d.Winner.Name, d.Teams)
	}
	if len(d.Payers) != 6 {
		t.Fatalf("payers = %d, want 6 (positions 15-20)", len(d.Payers))
	}
	if d.Payers[0].Position != 15 || d.Payers[5].Amount != 2 {
		t.Errorf("payers = %+v", d.Payers)
	}
	if d.Pool != 7 {
		t.Errorf("Pool = %d, want 7", d.Pool)
	}

	if _, err := Digest(r, "0"); !errors.Is(err, ErrRoundNotLoaded) {
		t.Errorf("Digest(totals) error = %v", err)
	}
	if _, err := Digest(r, "9"); !errors.Is(err, ErrRoundNotLoaded) {
		t.Errorf("Digest(missing) error = %v", err)
	}
}

func TestRoundOptions(t *testing.T) {
	got := RoundOptions(3)
	want := []string{"0", "1", "2", "3"}
	if len(got) != len(want) {
		t.Fatalf("RoundOptions(3) = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RoundOptions(3) = %v, want %v", got, want)
		}
	}
}
