// Package syndication detects wire-service republication so that a
// story carried by thirty outlets doesn't count as thirty independent
// confirmations.
package syndication

import (
	"strings"

	"github.com/abelbrown/briefing/internal/feeds"
	"github.com/abelbrown/briefing/internal/logging"
)

// wireServices are agencies whose copy is republished wholesale. Names
// are matched case-insensitively against source names.
var wireServices = map[string]bool{
	"associated press":           true,
	"ap":                         true,
	"ap news":                    true,
	"reuters":                    true,
	"thomson reuters":            true,
	"afp":                        true,
	"agence france-presse":       true,
	"agence france presse":       true,
	"pa media":                   true,
	"press association":          true,
	"efe":                        true,
	"xinhua":                     true,
	"tass":                       true,
	"anadolu agency":             true,
	"upi":                        true,
	"united press international": true,
}

// wireSignals are textual markers of agency copy inside a title or
// summary, e.g. the "(AP)" dateline.
var wireSignals = []string{
	"(AP)", "(Reuters)", "(AFP)",
	"— AP", "— Reuters", "— AFP",
	"(PA)",
	"Associated Press", "Reuters reported",
}

// Detector groups near-identical items and tags republications.
type Detector struct {
	threshold float64 // Jaccard similarity to chain items together
	minGroup  int     // group size treated as unlabeled syndication
}

func NewDetector(threshold float64, minGroup int) *Detector {
	return &Detector{threshold: threshold, minGroup: minGroup}
}

// IsWireService reports whether the named source is a known agency.
func IsWireService(name string) bool {
	return wireServices[strings.ToLower(strings.TrimSpace(name))]
}

// Detect tags syndicated copies in place and returns the number of
// items marked as non-independent. Two paths mark an item: an explicit
// wire signal in its text, or membership in a group of near-identical
// items across distinct sources. Items from a registered agency are
// the originals themselves; they keep their independence and are never
// demoted by their own dateline.
func (d *Detector) Detect(items []feeds.Item) int {
	tagged := 0

	// Pass 1: registry match, then explicit wire signals.
	for i := range items {
		if IsWireService(items[i].SourceName) {
			items[i].WireOrigin = items[i].SourceName
			continue
		}
		if origin := signalOrigin(items[i]); origin != "" {
			items[i].Independent = false
			items[i].WireOrigin = origin
			tagged++
		}
	}

	// Pass 2: similarity groups. Greedy seed chaining over word sets;
	// an unclaimed item starts a group and pulls in every later
	// unclaimed item that clears the threshold against the seed.
	sets := make([]map[string]bool, len(items))
	for i := range items {
		sets[i] = wordSet(items[i])
	}

	claimed := make([]bool, len(items))
	for i := range items {
		// Items without a body are too short to compare.
		if claimed[i] || items[i].Summary == "" {
			continue
		}
		group := []int{i}
		for j := i + 1; j < len(items); j++ {
			if claimed[j] || items[j].Summary == "" {
				continue
			}
			if jaccard(sets[i], sets[j]) > d.threshold {
				group = append(group, j)
			}
		}
		if len(group) < d.minGroup {
			continue
		}
		for _, idx := range group {
			claimed[idx] = true
		}
		tagged += d.tagGroup(items, group)
	}

	if tagged > 0 {
		logging.Info("syndication detected", "tagged", tagged, "total", len(items))
	}
	return tagged
}

// tagGroup picks one original and marks the rest as republications.
// The original is a wire-service member when one is present, otherwise
// the member with the longest summary.
func (d *Detector) tagGroup(items []feeds.Item, group []int) int {
	original := group[0]
	found := false
	for _, idx := range group {
		if IsWireService(items[idx].SourceName) {
			original = idx
			found = true
			break
		}
	}
	if !found {
		for _, idx := range group {
			if len(items[idx].Summary) > len(items[original].Summary) {
				original = idx
			}
		}
	}

	origin := items[original].WireOrigin
	if origin == "" {
		origin = items[original].SourceName
	}
	tagged := 0
	for _, idx := range group {
		if idx == original {
			continue
		}
		// An earlier pass already named the true origin; keep it.
		if !items[idx].Independent || items[idx].WireOrigin != "" {
			continue
		}
		items[idx].Independent = false
		items[idx].WireOrigin = origin
		tagged++
	}
	return tagged
}

// signalOrigin scans an item's text for a wire marker and derives the
// agency name from it.
func signalOrigin(item feeds.Item) string {
	text := item.Title + " " + item.Summary
	for _, sig := range wireSignals {
		if strings.Contains(text, sig) {
			cleaned := strings.TrimSpace(strings.Trim(sig, "()—- "))
			fields := strings.Fields(cleaned)
			if len(fields) > 0 {
				return fields[0]
			}
		}
	}
	return ""
}

// wordSet builds the comparison vocabulary for one item: words of at
// least five characters from the lowercased title plus the first 200
// characters of the summary, punctuation stripped.
func wordSet(item feeds.Item) map[string]bool {
	summary := item.Summary
	if len(summary) > 200 {
		summary = summary[:200]
	}
	text := strings.ToLower(item.Title + " " + summary)

	set := make(map[string]bool)
	for _, w := range strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	}) {
		if len(w) >= 5 {
			set[w] = true
		}
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	inter := 0
	for w := range small {
		if large[w] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
