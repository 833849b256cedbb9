// Package card defines the finished briefing card and the merge used
// by cross-card dedup. Cards are value types; merging builds a new
// card rather than mutating the survivor, so a failed consolidation
// pass leaves the originals intact.
package card

import (
	"strings"
	"time"
)

// SelectedSource is one attributed source on a card.
type SelectedSource struct {
	Axis   string `json:"axis"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Region string `json:"region"`
	Stance string `json:"stance"`
}

// Card is one finished briefing story.
type Card struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	Topics    []string         `json:"topics"`
	Sources   []SelectedSource `json:"sources"`
	Facts     []string         `json:"facts"`
	Contexts  []string         `json:"contexts"`
	Unknowns  []string         `json:"unknowns"` // open questions, phrased as questions
	Disputes  string           `json:"disputes"` // what sources disagree on
	Framing   string           `json:"framing"`  // how coverage differs in emphasis
	Stars     int              `json:"stars"`    // importance, 1-5
	Depth     string           `json:"depth"`    // brief | standard | deep
	Heat      int              `json:"heat"`
	CreatedAt time.Time        `json:"created_at"`
}

// Merge folds the cards at absorbed indices into the card at base,
// returning the new merged card. Inputs are not modified. Sources are
// unioned by URL, facts by normalized prefix, contexts by equality,
// unknowns by question prefix. The base card's title, body, and
// narrative fields win; absorbed topics and stars only widen.
func Merge(cards []Card, base int, absorbed []int, title string) Card {
	merged := clone(cards[base])
	if title != "" {
		merged.Title = title
	}

	urls := make(map[string]bool)
	for _, s := range merged.Sources {
		urls[s.URL] = true
	}
	factKeys := make(map[string]bool)
	for _, f := range merged.Facts {
		factKeys[factKey(f)] = true
	}
	ctxSeen := make(map[string]bool)
	for _, c := range merged.Contexts {
		ctxSeen[c] = true
	}
	unknownKeys := make(map[string]bool)
	for _, u := range merged.Unknowns {
		unknownKeys[unknownKey(u)] = true
	}
	topics := make(map[string]bool)
	for _, t := range merged.Topics {
		topics[t] = true
	}

	for _, idx := range absorbed {
		if idx == base || idx < 0 || idx >= len(cards) {
			continue
		}
		other := cards[idx]
		for _, s := range other.Sources {
			if !urls[s.URL] {
				urls[s.URL] = true
				merged.Sources = append(merged.Sources, s)
			}
		}
		for _, f := range other.Facts {
			if k := factKey(f); !factKeys[k] {
				factKeys[k] = true
				merged.Facts = append(merged.Facts, f)
			}
		}
		for _, c := range other.Contexts {
			if !ctxSeen[c] {
				ctxSeen[c] = true
				merged.Contexts = append(merged.Contexts, c)
			}
		}
		for _, u := range other.Unknowns {
			if k := unknownKey(u); !unknownKeys[k] {
				unknownKeys[k] = true
				merged.Unknowns = append(merged.Unknowns, u)
			}
		}
		for _, tp := range other.Topics {
			if !topics[tp] {
				topics[tp] = true
				merged.Topics = append(merged.Topics, tp)
			}
		}
		if other.Disputes != "" && merged.Disputes == "" {
			merged.Disputes = other.Disputes
		}
		if other.Framing != "" && merged.Framing == "" {
			merged.Framing = other.Framing
		}
		if other.Stars > merged.Stars {
			merged.Stars = other.Stars
		}
	}
	return merged
}

func clone(c Card) Card {
	out := c
	out.Topics = append([]string(nil), c.Topics...)
	out.Sources = append([]SelectedSource(nil), c.Sources...)
	out.Facts = append([]string(nil), c.Facts...)
	out.Contexts = append([]string(nil), c.Contexts...)
	out.Unknowns = append([]string(nil), c.Unknowns...)
	return out
}

// factKey normalizes a fact for dedup: lowercase, first 50 characters.
func factKey(fact string) string {
	return prefixKey(fact, 50)
}

// unknownKey normalizes an open question: lowercase, first 40 characters.
func unknownKey(q string) string {
	return prefixKey(q, 40)
}

func prefixKey(s string, n int) string {
	s = strings.ToLower(strings.TrimSpace(s))
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}
