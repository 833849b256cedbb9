package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/briefing/internal/feeds"
)

type fakeSource struct {
	name  string
	items []feeds.Item
	err   error
	delay time.Duration
}

func (f *fakeSource) Name() string { return f.name }
func (f *fakeSource) Meta() feeds.SourceMeta { return feeds.SourceMeta{Name: f.name} }
func (f *fakeSource) Fetch(ctx context.Context) ([]feeds.Item, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.items, f.err
}

func TestFetchAllJoinsSourcesInOrder(t *testing.T) {
	sources := []feeds.Source{
		&fakeSource{name: "a", items: []feeds.Item{{Title: "A1", URL: "https://a/1"}}},
		&fakeSource{name: "b", items: []feeds.Item{{Title: "B1", URL: "https://b/1"}}},
	}

	got := NewBatch(sources, 4, time.Second).FetchAll(context.Background())

	if len(got) != 2 {
		t.Fatalf("got %d items, want 2", len(got))
	}
	if got[0].Title != "A1" || got[1].Title != "B1" {
		t.Errorf("wrong order: %q, %q", got[0].Title, got[1].Title)
	}
}

func TestFetchAllSwallowsFailures(t *testing.T) {
	sources := []feeds.Source{
		&fakeSource{name: "down", err: errors.New("connection refused")},
		&fakeSource{name: "up", items: []feeds.Item{{Title: "OK", URL: "https://up/1"}}},
	}

	got := NewBatch(sources, 4, time.Second).FetchAll(context.Background())

	if len(got) != 1 || got[0].Title != "OK" {
		t.Errorf("got %v, want the single healthy item", got)
	}
}

func TestFetchAllDedupsByURL(t *testing.T) {
	shared := feeds.Item{Title: "Same story", URL: "https://example/story"}
	sources := []feeds.Source{
		&fakeSource{name: "a", items: []feeds.Item{shared}},
		&fakeSource{name: "b", items: []feeds.Item{shared, {Title: "Other", URL: "https://example/other"}}},
	}

	got := NewBatch(sources, 4, time.Second).FetchAll(context.Background())

	if len(got) != 2 {
		t.Errorf("got %d items, want 2 after URL dedup", len(got))
	}
}

func TestFetchAllRespectsTimeout(t *testing.T) {
	sources := []feeds.Source{
		&fakeSource{name: "slow", delay: 5 * time.Second, items: []feeds.Item{{URL: "https://slow/1"}}},
		&fakeSource{name: "fast", items: []feeds.Item{{Title: "Fast", URL: "https://fast/1"}}},
	}

	start := time.Now()
	got := NewBatch(sources, 4, 50*time.Millisecond).FetchAll(context.Background())

	if time.Since(start) > 2*time.Second {
		t.Error("slow source was not cut off by the per-fetch timeout")
	}
	if len(got) != 1 || got[0].Title != "Fast" {
		t.Errorf("got %v, want only the fast item", got)
	}
}

func TestFetchAllBoundsConcurrency(t *testing.T) {
	var sources []feeds.Source
	for i := 0; i < 10; i++ {
		sources = append(sources, &fakeSource{
			name:  fmt.Sprintf("s%d", i),
			delay: 10 * time.Millisecond,
			items: []feeds.Item{{URL: fmt.Sprintf("https://s%d/1", i)}},
		})
	}

	got := NewBatch(sources, 2, time.Second).FetchAll(context.Background())

	if len(got) != 10 {
		t.Errorf("got %d items, want 10", len(got))
	}
}

func TestCleanSummary(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "already clean text", "already clean text"},
		{"html stripped", "<p>Breaking <b>news</b> today</p>", "Breaking news today"},
		{"whitespace collapsed", "too   много\n\nspaces", "too много spaces"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		if got := CleanSummary(tt.in); got != tt.want {
			t.Errorf("%s: CleanSummary(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestCleanSummaryTruncates(t *testing.T) {
	long := strings.Repeat("word ", 200)
	got := CleanSummary(long)
	if len([]rune(got)) > maxSummaryLen {
		t.Errorf("summary length %d exceeds cap %d", len([]rune(got)), maxSummaryLen)
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("truncated summary should end with ellipsis")
	}
}
