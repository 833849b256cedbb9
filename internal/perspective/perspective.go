// Package perspective binds cluster members to viewpoint axes. An axis
// is an advisor-proposed angle on a story ("official account",
// "regional view"); the selector picks one source per axis while
// spreading region and stance as widely as the cluster allows.
package perspective

import (
	"strings"

	"github.com/abelbrown/briefing/internal/cluster"
	"github.com/abelbrown/briefing/internal/feeds"
)

// Axis is an advisor-proposed viewpoint on a story with the source
// names the advisor recommends for covering it.
type Axis struct {
	Label   string
	Sources []string
}

// Selected is one cluster member bound to an axis.
type Selected struct {
	Axis string
	Item feeds.Item
}

// MergeAxes folds together axes whose labels say the same thing.
// Advisors phrase the same angle differently; labels sharing more
// than 40% of their words are one axis with the recommended source
// lists unioned (first-seen order).
func MergeAxes(axes []Axis) []Axis {
	var merged []Axis
	for _, ax := range axes {
		folded := false
		for i := range merged {
			if labelOverlap(merged[i].Label, ax.Label) > 0.4 {
				merged[i].Sources = unionNames(merged[i].Sources, ax.Sources)
				folded = true
				break
			}
		}
		if !folded {
			merged = append(merged, Axis{Label: ax.Label, Sources: append([]string(nil), ax.Sources...)})
		}
	}
	return merged
}

// Select binds at most one cluster member per axis, in axis order.
// Candidates already bound to an earlier axis are ineligible. Scoring
// prefers a region and stance not yet represented in this pass; ties
// keep the first-listed candidate. Axes with no eligible candidate
// land in unmet. A pass yielding nothing falls back to the cluster's
// lead item under a synthetic axis, so every story ships with at
// least one attributed source.
func Select(cl cluster.Cluster, axes []Axis) (selected []Selected, unmet []string) {
	byName := make(map[string]feeds.Item)
	for _, it := range cl.Items {
		key := strings.ToLower(it.SourceName)
		if _, ok := byName[key]; !ok {
			byName[key] = it
		}
	}

	bound := make(map[string]bool)
	usedRegions := make(map[string]bool)
	usedStances := make(map[string]bool)

	for _, ax := range axes {
		best := feeds.Item{}
		bestScore := 0.0
		found := false
		for _, name := range ax.Sources {
			key := strings.ToLower(name)
			item, ok := byName[key]
			if !ok || bound[key] {
				continue
			}
			score := 1.0
			if !usedRegions[regionKey(item.Region)] {
				score += 0.5
			}
			if !usedStances[item.Stance] {
				score += 0.3
			}
			if score > bestScore {
				best = item
				bestScore = score
				found = true
			}
		}
		if !found {
			unmet = append(unmet, ax.Label)
			continue
		}
		bound[strings.ToLower(best.SourceName)] = true
		usedRegions[regionKey(best.Region)] = true
		usedStances[best.Stance] = true
		selected = append(selected, Selected{Axis: ax.Label, Item: best})
	}

	if len(selected) == 0 && len(cl.Items) > 0 {
		selected = append(selected, Selected{Axis: "Primary report", Item: cl.Items[0]})
	}
	return selected, unmet
}

// regionKey reduces a region label to its coarse prefix, e.g.
// "USA-National" and "USA-West" both key as "USA".
func regionKey(region string) string {
	if i := strings.Index(region, "-"); i > 0 {
		return region[:i]
	}
	return region
}

func labelOverlap(a, b string) float64 {
	aw := labelWords(a)
	bw := labelWords(b)
	if len(aw) == 0 || len(bw) == 0 {
		return 0
	}
	inter := 0
	for w := range aw {
		if bw[w] {
			inter++
		}
	}
	min := len(aw)
	if len(bw) < min {
		min = len(bw)
	}
	return float64(inter) / float64(min)
}

func labelWords(s string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		out[strings.Trim(w, ".,:;!?\"'()")] = true
	}
	return out
}

func unionNames(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	for _, n := range a {
		seen[strings.ToLower(n)] = true
	}
	out := a
	for _, n := range b {
		if !seen[strings.ToLower(n)] {
			seen[strings.ToLower(n)] = true
			out = append(out, n)
		}
	}
	return out
}
