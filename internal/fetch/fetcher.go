// Package fetch retrieves all configured feeds as one batch.
//
// Each feed is fetched by its own task inside a bounded errgroup. A slow or
// failing feed never blocks the others: failures are logged and swallowed,
// and whatever arrived proceeds into the pipeline.
package fetch

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/briefing/internal/feeds"
	"github.com/abelbrown/briefing/internal/logging"
)

// maxSummaryLen caps the stored excerpt length after HTML stripping.
const maxSummaryLen = 500

// Batch fetches a fixed set of sources with a concurrency ceiling.
type Batch struct {
	sources     []feeds.Source
	concurrency int
	timeout     time.Duration
}

// NewBatch creates a batch fetcher. If concurrency <= 0 a ceiling of 20 is
// used; if timeout <= 0 each fetch gets 30 seconds.
func NewBatch(sources []feeds.Source, concurrency int, timeout time.Duration) *Batch {
	if concurrency <= 0 {
		concurrency = 20
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Batch{sources: sources, concurrency: concurrency, timeout: timeout}
}

// FetchAll retrieves every source concurrently and joins the results.
// Items are deduplicated by URL; the first occurrence wins. The returned
// order is by source registration order, so repeated runs over identical
// feed content produce identical output.
func (b *Batch) FetchAll(ctx context.Context) []feeds.Item {
	results := make([][]feeds.Item, len(b.sources))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(b.concurrency)

	for i, src := range b.sources {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			fetchCtx, cancel := context.WithTimeout(ctx, b.timeout)
			defer cancel()

			items, err := src.Fetch(fetchCtx)
			if err != nil {
				// Per-source failures are expected; partial results proceed
				logging.Warn("Feed fetch failed", "source", src.Name(), "error", err)
				return nil
			}

			for j := range items {
				items[j].Summary = CleanSummary(items[j].Summary)
			}

			mu.Lock()
			results[i] = items
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait() // tasks never fail the group; errors reported per-source

	seen := make(map[string]bool)
	var all []feeds.Item
	for _, items := range results {
		for _, item := range items {
			if item.URL == "" || seen[item.URL] {
				continue
			}
			seen[item.URL] = true
			all = append(all, item)
		}
	}

	logging.Info("Fetch complete", "sources", len(b.sources), "items", len(all))
	return all
}

// CleanSummary strips HTML markup from a feed excerpt and truncates it.
func CleanSummary(s string) string {
	if s == "" {
		return ""
	}

	if strings.ContainsAny(s, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
		if err == nil {
			s = doc.Text()
		}
	}

	s = strings.Join(strings.Fields(s), " ")
	return truncate(s, maxSummaryLen)
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
// Rune-aware to avoid breaking UTF-8 characters.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
