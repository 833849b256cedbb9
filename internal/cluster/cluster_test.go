package cluster

import (
	"testing"

	"github.com/abelbrown/briefing/internal/feeds"
)

func TestGroupRelatedTitles(t *testing.T) {
	items := []feeds.Item{
		{Title: "Zuckerberg grilled about Meta"},
		{Title: "Mark Zuckerberg testifies in trial"},
		{Title: "Completely unrelated sports story"},
	}

	clusters := New(0.25).Group(items)

	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(clusters))
	}
	if len(clusters[0].Items) != 2 {
		t.Errorf("first cluster has %d items, want 2", len(clusters[0].Items))
	}
	if clusters[0].Title != "Zuckerberg grilled about Meta" {
		t.Errorf("lead title = %q, want seed's title", clusters[0].Title)
	}
	if len(clusters[1].Items) != 1 {
		t.Errorf("second cluster has %d items, want 1", len(clusters[1].Items))
	}
}

func TestGroupEveryItemAssignedOnce(t *testing.T) {
	items := []feeds.Item{
		{ID: "a", Title: "Central bank raises rates"},
		{ID: "b", Title: "Bank of England raises interest rates again"},
		{ID: "c", Title: "Wildfire spreads across northern forests"},
		{ID: "d", Title: "Electric vehicle sales surge in Europe"},
		{ID: "e", Title: "Wildfire evacuation orders expand in north"},
	}

	clusters := New(0.25).Group(items)

	seen := make(map[string]int)
	for _, c := range clusters {
		if len(c.Items) == 0 {
			t.Error("empty cluster emitted")
		}
		for _, it := range c.Items {
			seen[it.ID]++
		}
	}
	for _, it := range items {
		if seen[it.ID] != 1 {
			t.Errorf("item %s assigned %d times, want exactly 1", it.ID, seen[it.ID])
		}
	}
}

func TestGroupRelevanceOrderSeedsClusters(t *testing.T) {
	items := []feeds.Item{
		{Title: "Summit talks recap from Geneva", Relevance: 0.2},
		{Title: "Leaders reach breakthrough at Geneva summit talks", Relevance: 0.9},
	}

	clusters := New(0.25).Group(items)

	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	if clusters[0].Title != "Leaders reach breakthrough at Geneva summit talks" {
		t.Errorf("lead title = %q, want the higher-relevance item's", clusters[0].Title)
	}
}

func TestGroupDeterministicIDs(t *testing.T) {
	items := []feeds.Item{
		{Title: "Parliament approves Ukraine aid package"},
		{Title: "Ukraine aid package clears Parliament vote"},
	}

	a := New(0.25).Group(items)
	b := New(0.25).Group(items)

	if len(a) != len(b) {
		t.Fatalf("cluster counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Errorf("cluster %d ID differs across runs: %s vs %s", i, a[i].ID, b[i].ID)
		}
	}
	if a[0].ID == "" {
		t.Error("cluster ID is empty")
	}
}

func TestGroupEmptyInput(t *testing.T) {
	if got := New(0.25).Group(nil); got != nil {
		t.Errorf("Group(nil) = %v, want nil", got)
	}
}

func TestEntities(t *testing.T) {
	got := Entities("Mark Zuckerberg testifies before The Senate about Meta")
	for _, want := range []string{"mark", "zuckerberg", "senate", "meta"} {
		if !got[want] {
			t.Errorf("missing entity %q in %v", want, got)
		}
	}
	if got["the"] {
		t.Error("stopword 'The' should be excluded")
	}
	if got["testifies"] {
		t.Error("lowercase token should be excluded")
	}
}

func TestEntitiesNonASCII(t *testing.T) {
	got := Entities("Protesters gathered outside the Élysée in Paris über Österreich policy")
	for _, want := range []string{"élysée", "paris", "österreich"} {
		if !got[want] {
			t.Errorf("missing entity %q in %v", want, got)
		}
	}
	if got["über"] {
		t.Error("lowercase non-ASCII token should be excluded")
	}
}

func TestJaccardProperties(t *testing.T) {
	a := titleWords("central bank raises rates")
	b := titleWords("bank raises interest rates")

	if got := jaccard(a, a); got != 1.0 {
		t.Errorf("self similarity = %v, want 1.0", got)
	}
	if jaccard(a, b) != jaccard(b, a) {
		t.Error("jaccard is not symmetric")
	}
	if s := jaccard(a, b); s < 0 || s > 1 {
		t.Errorf("jaccard out of range: %v", s)
	}
	if jaccard(a, map[string]bool{}) != 0 {
		t.Error("similarity with empty set should be 0")
	}
}
