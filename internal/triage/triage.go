// Package triage assigns topics and a relevance signal to fetched
// items before clustering. Topics come from a keyword map over the
// title and excerpt; relevance blends recency with independence so
// fresh original reporting seeds clusters ahead of aging wire copies.
package triage

import (
	"strings"
	"time"

	"github.com/abelbrown/briefing/internal/feeds"
)

// topicOrder fixes the order topics appear on an item.
var topicOrder = []string{
	"politics", "economy", "conflict", "climate", "technology",
	"health", "science", "justice", "sports",
}

// topicKeywords maps a topic label to the lowercase markers that assign it.
var topicKeywords = map[string][]string{
	"politics": {"election", "parliament", "senate", "congress", "minister",
		"president", "vote", "coalition", "campaign", "legislation"},
	"economy": {"market", "inflation", "rates", "economy", "trade", "tariff",
		"gdp", "stocks", "earnings", "unemployment", "bank"},
	"conflict": {"war", "strike", "missile", "troops", "ceasefire", "military",
		"attack", "invasion", "hostage", "sanctions"},
	"climate": {"climate", "emissions", "wildfire", "flood", "drought",
		"hurricane", "heatwave", "renewable", "carbon"},
	"technology": {"ai", "artificial intelligence", "chip", "software",
		"startup", "cyber", "data breach", "silicon", "quantum"},
	"health": {"vaccine", "outbreak", "hospital", "virus", "cancer", "fda",
		"pandemic", "drug", "mental health"},
	"science": {"research", "study finds", "telescope", "spacecraft", "nasa",
		"species", "physics", "genome"},
	"justice": {"court", "trial", "ruling", "indictment", "lawsuit", "verdict",
		"prosecutor", "appeal"},
	"sports": {"championship", "league", "tournament", "olympic", "world cup",
		"playoff", "medal"},
}

// Tag fills Topics and Relevance in place and returns the items.
func Tag(items []feeds.Item) []feeds.Item {
	now := time.Now()
	for i := range items {
		items[i].Topics = Topics(items[i])
		items[i].Relevance = Relevance(items[i], now)
	}
	return items
}

// Topics returns the topic labels whose keywords appear in the item's
// title or excerpt, in fixed label order.
func Topics(item feeds.Item) []string {
	text := strings.ToLower(item.Title + " " + item.Summary)
	var out []string
	for _, topic := range topicOrder {
		for _, kw := range topicKeywords[topic] {
			if containsWord(text, kw) {
				out = append(out, topic)
				break
			}
		}
	}
	return out
}

// Relevance scores an item in [0,1]: a recency ramp over 48 hours,
// discounted for republished wire copy.
func Relevance(item feeds.Item, now time.Time) float64 {
	score := 1.0
	if !item.Published.IsZero() {
		age := now.Sub(item.Published)
		if age < 0 {
			age = 0
		}
		score = 1.0 - age.Hours()/48.0
		if score < 0 {
			score = 0
		}
	}
	if !item.Independent {
		score *= 0.5
	}
	return score
}

// containsWord matches kw against text on word boundaries so "ai"
// doesn't fire inside "said".
func containsWord(text, kw string) bool {
	idx := 0
	for {
		j := strings.Index(text[idx:], kw)
		if j < 0 {
			return false
		}
		start := idx + j
		end := start + len(kw)
		beforeOK := start == 0 || !isWordChar(text[start-1])
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}
