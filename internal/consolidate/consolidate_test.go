package consolidate

import (
	"reflect"
	"testing"
)

func TestConsolidateCorroboratedPairSurvives(t *testing.T) {
	// Three advisors over 5 candidates: only (0,2) is voted twice.
	proposals := []MergeProposal{
		{Advisor: "claude", Indices: []int{0, 2}},
		{Advisor: "openai", Indices: []int{0, 2, 4}},
		{Advisor: "gemini", Indices: []int{1, 3}},
	}

	groups := New(2, 8).Consolidate(proposals, 5)

	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if !reflect.DeepEqual(groups[0].Indices, []int{0, 2}) {
		t.Errorf("group = %v, want [0 2]", groups[0].Indices)
	}
}

func TestConsolidateSingleAdvisorFallback(t *testing.T) {
	proposals := []MergeProposal{
		{Advisor: "claude", Indices: []int{1, 3}, Title: "Budget fight escalates"},
	}

	groups := New(2, 8).Consolidate(proposals, 5)

	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if !reflect.DeepEqual(groups[0].Indices, []int{1, 3}) {
		t.Errorf("group = %v, want [1 3]", groups[0].Indices)
	}
	if groups[0].Title != "Budget fight escalates" {
		t.Errorf("title = %q, want proposal title", groups[0].Title)
	}
}

func TestConsolidateNoSignal(t *testing.T) {
	c := New(2, 8)

	tests := []struct {
		name      string
		proposals []MergeProposal
		n         int
	}{
		{"no proposals", nil, 5},
		{"no candidates", []MergeProposal{{Advisor: "a", Indices: []int{0, 1}}}, 0},
		{"uncorroborated", []MergeProposal{
			{Advisor: "a", Indices: []int{0, 1}},
			{Advisor: "b", Indices: []int{2, 3}},
		}, 5},
	}
	for _, tt := range tests {
		if got := c.Consolidate(tt.proposals, tt.n); len(got) != 0 {
			t.Errorf("%s: got %v, want empty", tt.name, got)
		}
	}
}

func TestConsolidateInvalidIndicesFiltered(t *testing.T) {
	proposals := []MergeProposal{
		{Advisor: "a", Indices: []int{0, 2, 99, -1}},
		{Advisor: "b", Indices: []int{0, 2}},
	}

	groups := New(2, 8).Consolidate(proposals, 3)

	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if !reflect.DeepEqual(groups[0].Indices, []int{0, 2}) {
		t.Errorf("group = %v, want [0 2]", groups[0].Indices)
	}
}

func TestConsolidateCapsOversizedGroups(t *testing.T) {
	// Two advisors agree on a chain linking ten candidates.
	all := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	proposals := []MergeProposal{
		{Advisor: "a", Indices: all},
		{Advisor: "b", Indices: all},
	}

	groups := New(2, 8).Consolidate(proposals, 10)

	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if len(groups[0].Indices) != 8 {
		t.Errorf("group size = %d, want capped at 8", len(groups[0].Indices))
	}
	if !reflect.DeepEqual(groups[0].Indices, []int{0, 1, 2, 3, 4, 5, 6, 7}) {
		t.Errorf("group = %v, want lowest eight indices", groups[0].Indices)
	}
}

func TestConsolidateDeterministic(t *testing.T) {
	proposals := []MergeProposal{
		{Advisor: "a", Indices: []int{0, 1, 2}, Title: "First title"},
		{Advisor: "b", Indices: []int{1, 2}, Title: "Second title"},
		{Advisor: "c", Indices: []int{4, 5}},
		{Advisor: "a", Indices: []int{4, 5}},
	}

	c := New(2, 8)
	first := c.Consolidate(proposals, 6)
	for i := 0; i < 10; i++ {
		again := c.Consolidate(proposals, 6)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %v vs %v", i, first, again)
		}
	}
}

func TestConsolidateTitleFirstSeen(t *testing.T) {
	proposals := []MergeProposal{
		{Advisor: "a", Indices: []int{0, 1}},
		{Advisor: "b", Indices: []int{0, 1}, Title: "Voted title"},
	}

	groups := New(2, 8).Consolidate(proposals, 2)

	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].Title != "Voted title" {
		t.Errorf("title = %q, want %q", groups[0].Title, "Voted title")
	}
}
