// Package rss fetches items from RSS/Atom feeds via gofeed.
package rss

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/abelbrown/briefing/internal/feeds"
	"github.com/mmcdole/gofeed"
)

// maxItemsPerFeed bounds how many entries one feed can contribute per run.
const maxItemsPerFeed = 15

// Source fetches items from an RSS/Atom feed
type Source struct {
	meta   feeds.SourceMeta
	parser *gofeed.Parser
}

// New creates a new RSS source
func New(meta feeds.SourceMeta) *Source {
	return &Source{
		meta:   meta,
		parser: gofeed.NewParser(),
	}
}

func (s *Source) Name() string {
	return s.meta.Name
}

func (s *Source) Meta() feeds.SourceMeta {
	return s.meta
}

func (s *Source) Fetch(ctx context.Context) ([]feeds.Item, error) {
	feed, err := s.parser.ParseURLWithContext(s.meta.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", s.meta.URL, err)
	}

	entries := feed.Items
	if len(entries) > maxItemsPerFeed {
		entries = entries[:maxItemsPerFeed]
	}

	items := make([]feeds.Item, 0, len(entries))
	now := time.Now()

	for _, entry := range entries {
		if entry.Title == "" || entry.Link == "" {
			continue
		}

		// Stable identity derives from the canonical URL, not feed position
		id := fmt.Sprintf("%x", sha256.Sum256([]byte(entry.Link)))[:16]

		published := now
		if entry.PublishedParsed != nil {
			published = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			published = *entry.UpdatedParsed
		}

		summary := entry.Description
		if summary == "" && entry.Content != "" {
			summary = entry.Content
		}

		items = append(items, feeds.Item{
			ID:          id,
			SourceName:  s.meta.Name,
			SourceURL:   s.meta.URL,
			Title:       entry.Title,
			Summary:     summary,
			URL:         entry.Link,
			Region:      s.meta.Region,
			Stance:      s.meta.Stance,
			Language:    s.meta.Language,
			Published:   published,
			Fetched:     now,
			Independent: true,
		})
	}

	return items, nil
}
