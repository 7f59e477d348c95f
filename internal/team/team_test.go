package team

import (
	"reflect"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestRerank(t *testing.T) {
	tests := []struct {
		name      string
		records   []Record
		wantNames []string
	}{
		{
			name: "sorted by upstream position",
			records: []Record{
				{Position: "2", Name: "A"},
				{Position: "1", Name: "C"},
			},
			wantNames: []string{"C", "A"},
		},
		{
			name: "gaps closed",
			records: []Record{
				{Position: "40", Name: "X"},
				{Position: "7", Name: "Y"},
				{Position: "12", Name: "Z"},
			},
			wantNames: []string{"Y", "Z", "X"},
		},
		{
			name: "numeric not lexical",
			records: []Record{
				{Position: "10", Name: "ten"},
				{Position: "9", Name: "nine"},
			},
			wantNames: []string{"nine", "ten"},
		},
		{
			name: "unparsable positions last and stable",
			records: []Record{
				{Position: "", Name: "blank"},
				{Position: "3", Name: "three"},
				{Position: "n/a", Name: "na"},
			},
			wantNames: []string{"three", "blank", "na"},
		},
		{
			name:      "empty",
			records:   nil,
			wantNames: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rerank(tt.records)

			names := make([]string, 0, len(got))
			for _, rec := range got {
				names = append(names, rec.Name)
			}
			if !reflect.DeepEqual(names, tt.wantNames) {
				t.Errorf("Rerank() order = %v, want %v", names, tt.wantNames)
			}
			if !IsDense(got) {
				t.Errorf("Rerank() positions not dense: %+v", got)
			}
		})
	}
}

func TestRerank_DoesNotMutateInput(t *testing.T) {
	in := []Record{{Position: "5", Name: "A"}, {Position: "2", Name: "B"}}
	Rerank(in)

	if in[0].Position != "5" || in[1].Position != "2" {
		t.Errorf("Rerank() mutated input: %+v", in)
	}
}

func TestRerankByTotal(t *testing.T) {
	in := []Record{
		{Position: "1", TotalPosition: "3", Name: "A", Points: 50, TotalPoints: intPtr(300)},
		{Position: "2", TotalPosition: "1", Name: "B", Points: 40, TotalPoints: intPtr(420)},
		{Position: "3", TotalPosition: "2", Name: "C", Points: 30},
	}

	got := RerankByTotal(in)

	want := []struct {
		pos    string
		name   string
		points int
	}{
		{"1", "B", 420},
		{"2", "C", 0},
		{"3", "A", 300},
	}
	for i, w := range want {
		if got[i].Position != w.pos || got[i].Name != w.name || got[i].Points != w.points {
			t.Errorf("RerankByTotal()[%d] = %+v, want pos=%s name=%s points=%d", i, got[i], w.pos, w.name, w.points)
		}
	}
}

func TestSortedRounds(t *testing.T) {
	r := Rankings{"10": nil, "2": nil, "0": nil, "1": nil, "x": nil}

	got := SortedRounds(r)
	want := []string{"0", "1", "2", "10", "x"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortedRounds() = %v, want %v", got, want)
	}
}

func TestRankings_Clone(t *testing.T) {
	orig := Rankings{"1": {{Position: "1", Name: "A", TotalPoints: intPtr(10)}}}

	clone := orig.Clone()
	clone["1"][0].Name = "changed"
	*clone["1"][0].TotalPoints = 99
	clone["2"] = []Record{}

	if orig["1"][0].Name != "A" {
		t.Error("Clone() shares record storage with original")
	}
	if *orig["1"][0].TotalPoints != 10 {
		t.Error("Clone() shares TotalPoints pointer with original")
	}
	if _, ok := orig["2"]; ok {
		t.Error("Clone() shares map with original")
	}
}

func TestRankings_Teams(t *testing.T) {
	r := Rankings{
		TotalsRound: {{Name: "A"}, {Name: "B"}},
		"1":         {{Name: "Z"}},
	}

	got := r.Teams()
	if !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("Teams() = %v, want [A B]", got)
	}

	if got := (Rankings{}).Teams(); len(got) != 0 {
		t.Errorf("Teams() on empty rankings = %v, want empty", got)
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"1", 1, true},
		{" 12 ", 12, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"", 0, false},
		{"1º", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePosition(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParsePosition(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
