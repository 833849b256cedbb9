package feeds

import (
	"strings"
	"testing"
)

func TestRegistryWellFormed(t *testing.T) {
	reg := Registry()
	if len(reg) < 30 {
		t.Fatalf("registry has %d sources, expected a broad curated list", len(reg))
	}

	names := make(map[string]bool)
	urls := make(map[string]bool)
	for _, m := range reg {
		if m.Name == "" || m.URL == "" || m.Region == "" || m.Stance == "" || m.Language == "" {
			t.Errorf("incomplete source metadata: %+v", m)
		}
		if !strings.HasPrefix(m.URL, "http") {
			t.Errorf("%s: feed URL %q is not absolute", m.Name, m.URL)
		}
		if names[m.Name] {
			t.Errorf("duplicate source name %q", m.Name)
		}
		if urls[m.URL] {
			t.Errorf("duplicate feed URL %q", m.URL)
		}
		names[m.Name] = true
		urls[m.URL] = true
	}

	// The wire services the syndication pass elects as originals must
	// be present under their registry spellings.
	for _, want := range []string{"Reuters", "AP News"} {
		if !names[want] {
			t.Errorf("registry missing %s", want)
		}
	}
}

func TestSourceLabel(t *testing.T) {
	it := Item{SourceName: "Al Jazeera", Region: "Qatar/ME", Stance: "centre"}
	if got := it.SourceLabel(); got != "Al Jazeera (Qatar/ME, centre)" {
		t.Errorf("SourceLabel = %q", got)
	}
}
