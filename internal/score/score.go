// Package score derives the audit-friendly heat profile of a finished
// card. Everything here is a pure function of the card's bound sources
// and text fields; no advisor output feeds the final numbers, so two
// runs over the same cards rank identically.
package score

import (
	"strings"

	"github.com/abelbrown/briefing/internal/card"
)

// HeatProfile summarizes a card's coverage shape.
type HeatProfile struct {
	Balance      string // leans_left | balanced | leans_right | unknown
	GeoDiversity int    // distinct macro-regions among bound sources
	Depth        string // brief-equivalent coverage depth: thin | moderate | deep
	Heat         int
	Contention   string // straight_news | split | contested
}

// stanceOrdinals maps editorial stance labels to a left/right ordinal.
// Unknown labels score 0.
var stanceOrdinals = map[string]int{
	"left":         -2,
	"centre-left":  -1,
	"centre":       0,
	"center":       0,
	"centre-right": 1,
	"right":        2,
	"libertarian":  1,
	"industry":     0,
	"religious":    1,
}

// regionGroups maps a region's hyphen-prefix to a macro-region.
var regionGroups = map[string]string{
	"Canada":             "North America",
	"USA":                "North America",
	"UK":                 "Europe",
	"Germany":            "Europe",
	"France":             "Europe",
	"Europe":             "Europe",
	"Qatar/ME":           "Middle East",
	"Israel":             "Middle East",
	"Saudi Arabia":       "Middle East",
	"Middle East/Africa": "Middle East",
	"Hong Kong":          "Asia-Pacific",
	"Japan":              "Asia-Pacific",
	"Singapore":          "Asia-Pacific",
	"Australia":          "Asia-Pacific",
	"India":              "Asia-Pacific",
	"East Africa":        "Africa",
	"Argentina":          "Latin America",
}

// sharpWords signal hard disagreement rather than mere difference in
// emphasis.
var sharpWords = []string{
	"contradict", "dispute", "deny", "reject", "opposite", "sharply",
	"starkly", "fundamentally", "conflicting", "contested", "denied",
	"opposing", "clashed",
}

// Profile computes the full heat profile for one card.
// sourceCount is the size of the originating cluster (total coverage),
// as opposed to the card's bound source list (selected coverage).
func Profile(c card.Card, sourceCount int) HeatProfile {
	return HeatProfile{
		Balance:      Balance(c.Sources),
		GeoDiversity: GeoDiversity(c.Sources),
		Depth:        Depth(c),
		Heat:         Heat(c, sourceCount),
		Contention:   Contention(c),
	}
}

// Balance averages the stance ordinals of the bound sources.
func Balance(sources []card.SelectedSource) string {
	if len(sources) == 0 {
		return "unknown"
	}
	sum := 0
	for _, s := range sources {
		sum += stanceOrdinals[strings.ToLower(s.Stance)]
	}
	avg := float64(sum) / float64(len(sources))
	switch {
	case avg < -0.5:
		return "leans_left"
	case avg > 0.5:
		return "leans_right"
	default:
		return "balanced"
	}
}

// GeoDiversity counts distinct macro-regions across bound sources.
// Regions without a mapping land in a shared "Other" bucket.
func GeoDiversity(sources []card.SelectedSource) int {
	seen := make(map[string]bool)
	for _, s := range sources {
		seen[MacroRegion(s.Region)] = true
	}
	return len(seen)
}

// MacroRegion maps a region label's hyphen-prefix to its macro-region.
func MacroRegion(region string) string {
	key := region
	if i := strings.Index(region, "-"); i > 0 {
		key = region[:i]
	}
	if group, ok := regionGroups[key]; ok {
		return group
	}
	return "Other"
}

// Depth rates how thoroughly the story was covered.
func Depth(c card.Card) string {
	hasDisputes := c.Disputes != ""
	hasFraming := c.Framing != ""
	switch {
	case len(c.Sources) >= 4 && hasDisputes && hasFraming:
		return "deep"
	case len(c.Sources) >= 2 && (hasDisputes || hasFraming):
		return "moderate"
	default:
		return "thin"
	}
}

// Heat is the fixed linear attention formula:
// 2·cluster size + 3·bound sources + 2·topics + 5 if disputed + 3·stars.
func Heat(c card.Card, sourceCount int) int {
	h := 2*sourceCount + 3*len(c.Sources) + 2*len(c.Topics) + 3*c.Stars
	if c.Disputes != "" {
		h += 5
	}
	return h
}

// Contention classifies how much the sources disagree. No recorded
// disagreement reads as straight news unless the framing note is
// substantial; sharp language across the disputes or framing notes
// upgrades split to contested.
func Contention(c card.Card) string {
	disputes := strings.ToLower(strings.TrimSpace(c.Disputes))
	none := disputes == "" ||
		strings.Contains(disputes, "no substantive") ||
		strings.Contains(disputes, "none identified")
	if none {
		if len(strings.TrimSpace(c.Framing)) >= 30 {
			return "split"
		}
		return "straight_news"
	}

	framing := strings.ToLower(c.Framing)
	sharp := 0
	for _, w := range sharpWords {
		if strings.Contains(disputes, w) || strings.Contains(framing, w) {
			sharp++
		}
	}
	if sharp >= 2 {
		return "contested"
	}
	return "split"
}
