package feeds

import (
	"context"
	"time"
)

// Item represents a single piece of content from any source.
// This is the unified type that flows through the pipeline. Items are
// immutable after fetch except for the syndication tags, which are owned
// by the syndication detector.
type Item struct {
	ID         string // stable, derived from the canonical URL
	SourceName string // "BBC News", "Al Jazeera"
	SourceURL  string // Feed URL
	Title      string
	Summary    string // Brief description/excerpt, HTML stripped
	URL        string // Link to original
	Region     string // "Canada", "USA-Tech", "Qatar/ME"
	Stance     string // "centre-left", "right", "industry", ...
	Language   string
	Published  time.Time
	Fetched    time.Time

	// Set by triage
	Topics    []string
	Relevance float64

	// Set by syndication detection
	WireOrigin  string // originating wire service, empty if none detected
	Independent bool   // false if republished wire content
}

// SourceLabel formats the item's provenance for prompts and digests.
func (it Item) SourceLabel() string {
	return it.SourceName + " (" + it.Region + ", " + it.Stance + ")"
}

// Source is the interface all feed sources implement
type Source interface {
	// Name returns human-readable source name
	Name() string

	// Meta returns the source's curated metadata
	Meta() SourceMeta

	// Fetch retrieves latest items from this source. Implementations
	// must respect context cancellation.
	Fetch(ctx context.Context) ([]Item, error)
}

// SourceMeta is the curated metadata attached to every source.
type SourceMeta struct {
	Name     string
	URL      string
	Region   string
	Stance   string
	Language string
}
