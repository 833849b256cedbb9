package syndication

import (
	"testing"

	"github.com/abelbrown/briefing/internal/feeds"
)

func item(source, title, summary string) feeds.Item {
	return feeds.Item{SourceName: source, Title: title, Summary: summary, Independent: true}
}

func TestIsWireService(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Reuters", true},
		{"reuters", true},
		{"AP News", true},
		{"  Xinhua  ", true},
		{"The Guardian", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsWireService(tt.name); got != tt.want {
			t.Errorf("IsWireService(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSignalOrigin(t *testing.T) {
	tests := []struct {
		title   string
		summary string
		want    string
	}{
		{"WASHINGTON (AP) — Senate passes funding bill", "", "AP"},
		{"Markets rally", "LONDON (Reuters) - Stocks climbed on Tuesday", "Reuters"},
		{"Quiet local story", "Nothing syndicated here", ""},
		{"Storm hits coast", "As Reuters reported earlier this week", "Reuters"},
	}
	for _, tt := range tests {
		got := signalOrigin(item("Any", tt.title, tt.summary))
		if got != tt.want {
			t.Errorf("signalOrigin(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestDetectRegistrySourceStaysIndependent(t *testing.T) {
	// An agency's own feed carries its own dateline; that must not
	// demote it.
	items := []feeds.Item{
		item("Reuters", "Markets rally on rate decision", "LONDON (Reuters) - Stocks climbed sharply on Tuesday after the decision"),
	}

	d := NewDetector(0.7, 3)
	d.Detect(items)

	if !items[0].Independent {
		t.Error("registered wire service should stay independent")
	}
	if items[0].WireOrigin != "Reuters" {
		t.Errorf("wire original origin = %q, want Reuters", items[0].WireOrigin)
	}
}

func TestDetectGroupOriginPrefersWireOrigin(t *testing.T) {
	// The elected original carries an AP dateline; its copies should be
	// attributed to AP, not to the republishing outlet.
	items := []feeds.Item{
		item("Outlet A", "WASHINGTON (AP) — Senate passes sweeping defense authorization bill", "The Senate passed a sweeping defense authorization bill funding military programs across multiple years with additional detail paragraphs"),
		item("Outlet B", "Senate passes sweeping defense authorization bill", "The Senate passed a sweeping defense authorization bill funding military programs across multiple years"),
		item("Outlet C", "Senate passes sweeping defense authorization bill", "The Senate passed a sweeping defense authorization bill funding military programs across multiple years"),
	}

	d := NewDetector(0.5, 3)
	d.Detect(items)

	for _, i := range []int{1, 2} {
		if items[i].WireOrigin != "AP" {
			t.Errorf("item %d origin = %q, want AP", i, items[i].WireOrigin)
		}
	}
}

func TestDetectSimilarityGroup(t *testing.T) {
	items := []feeds.Item{
		item("Reuters", "Central bank raises interest rates amid stubborn inflation pressure", "The central bank raised benchmark interest rates citing stubborn inflation pressure across consumer prices"),
		item("Outlet A", "Central bank raises interest rates amid stubborn inflation pressure", "The central bank raised benchmark interest rates citing stubborn inflation pressure across consumer prices"),
		item("Outlet B", "Central bank raises interest rates amid stubborn inflation pressure", "The central bank raised benchmark interest rates citing stubborn inflation pressure across consumer prices"),
		item("Outlet C", "Completely unrelated municipal election coverage tonight", "Voters headed to polling stations across several districts"),
	}

	d := NewDetector(0.7, 3)
	tagged := d.Detect(items)

	if tagged != 2 {
		t.Fatalf("tagged = %d, want 2", tagged)
	}
	if !items[0].Independent {
		t.Error("wire-service original should stay independent")
	}
	for _, i := range []int{1, 2} {
		if items[i].Independent {
			t.Errorf("item %d should be marked non-independent", i)
		}
		if items[i].WireOrigin != "Reuters" {
			t.Errorf("item %d origin = %q, want Reuters", i, items[i].WireOrigin)
		}
	}
	if !items[3].Independent {
		t.Error("unrelated item should stay independent")
	}
}

func TestDetectGroupBelowMinimumSize(t *testing.T) {
	items := []feeds.Item{
		item("Outlet A", "Central bank raises interest rates amid stubborn inflation pressure", "Benchmark interest rates climbed citing stubborn inflation pressure"),
		item("Outlet B", "Central bank raises interest rates amid stubborn inflation pressure", "Benchmark interest rates climbed citing stubborn inflation pressure"),
	}

	d := NewDetector(0.7, 3)
	if tagged := d.Detect(items); tagged != 0 {
		t.Errorf("tagged = %d, want 0 for pair below group minimum", tagged)
	}
	for i, it := range items {
		if !it.Independent {
			t.Errorf("item %d should stay independent", i)
		}
	}
}

func TestDetectKeepsExplicitOrigin(t *testing.T) {
	// One copy carries a dateline naming AFP; the group original is a
	// different outlet. The explicit tag must survive.
	items := []feeds.Item{
		item("Outlet A", "PARIS (AFP) — Government announces sweeping pension reform package", "The government announced sweeping pension reform measures affecting millions of workers nationwide today"),
		item("Outlet B", "Government announces sweeping pension reform package nationwide", "The government announced sweeping pension reform measures affecting millions of workers nationwide today with extended details"),
		item("Outlet C", "Government announces sweeping pension reform package nationwide", "The government announced sweeping pension reform measures affecting millions of workers nationwide today"),
	}

	d := NewDetector(0.5, 3)
	d.Detect(items)

	if items[0].WireOrigin != "AFP" {
		t.Errorf("explicit origin = %q, want AFP", items[0].WireOrigin)
	}
}

func TestDetectSkipsEmptyBodies(t *testing.T) {
	// Identical titles but no body text: too short to compare.
	items := []feeds.Item{
		item("Outlet A", "Breaking major incident downtown tonight", ""),
		item("Outlet B", "Breaking major incident downtown tonight", ""),
		item("Outlet C", "Breaking major incident downtown tonight", ""),
	}

	d := NewDetector(0.7, 3)
	if tagged := d.Detect(items); tagged != 0 {
		t.Errorf("tagged = %d, want 0 for bodyless items", tagged)
	}
}

func TestJaccard(t *testing.T) {
	a := map[string]bool{"alpha": true, "gamma": true, "delta": true}
	b := map[string]bool{"alpha": true, "gamma": true, "omega": true}
	got := jaccard(a, b)
	want := 2.0 / 4.0
	if got != want {
		t.Errorf("jaccard = %v, want %v", got, want)
	}
	if jaccard(nil, b) != 0 {
		t.Error("jaccard with empty set should be 0")
	}
}
