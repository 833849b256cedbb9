// Package rank orders clustered stories by advisor importance ratings
// and applies the materiality cutoff, star mapping, depth tiers, and a
// soft topic-diversity adjustment near the top of the list.
package rank

import (
	"sort"

	"github.com/abelbrown/briefing/internal/cluster"
	"github.com/abelbrown/briefing/internal/logging"
)

// Rating is one advisor's 1-10 importance score for a cluster.
type Rating struct {
	Advisor string
	Index   int
	Score   float64
}

// Story is a cluster with its resolved importance.
type Story struct {
	Cluster    cluster.Cluster
	Importance float64 // averaged advisor rating, or size fallback
	Stars      int     // 1-5
	Depth      string  // brief | standard | deep
}

// Ranker applies the cutoff and story cap.
type Ranker struct {
	cutoff     float64
	maxStories int
}

func New(cutoff float64, maxStories int) *Ranker {
	if maxStories < 1 {
		maxStories = 1
	}
	return &Ranker{cutoff: cutoff, maxStories: maxStories}
}

// Rank averages the advisor ratings per cluster, drops stories below
// the materiality cutoff, sorts the rest by importance, and nudges the
// top of the list toward topic variety. A cluster no advisor rated
// falls back to its size as the score, capped at 10, so total advisor
// failure still yields a coverage-ordered briefing.
func (r *Ranker) Rank(clusters []cluster.Cluster, ratings []Rating) []Story {
	if len(clusters) == 0 {
		return nil
	}

	sums := make([]float64, len(clusters))
	counts := make([]int, len(clusters))
	for _, rt := range ratings {
		if rt.Index < 0 || rt.Index >= len(clusters) {
			continue
		}
		if rt.Score < 1 || rt.Score > 10 {
			continue
		}
		sums[rt.Index] += rt.Score
		counts[rt.Index]++
	}

	var stories []Story
	for i, cl := range clusters {
		var importance float64
		if counts[i] > 0 {
			importance = sums[i] / float64(counts[i])
			// The cutoff judges advisor verdicts only. The size
			// fallback always ships, so losing every advisor degrades
			// ordering rather than emptying the briefing.
			if importance < r.cutoff {
				continue
			}
		} else {
			importance = float64(len(cl.Items))
			if importance > 10 {
				importance = 10
			}
		}
		stories = append(stories, Story{
			Cluster:    cl,
			Importance: importance,
			Stars:      stars(importance),
			Depth:      depth(len(cl.Items), stars(importance)),
		})
	}

	sort.SliceStable(stories, func(i, j int) bool {
		return stories[i].Importance > stories[j].Importance
	})

	stories = diversify(stories)

	if len(stories) > r.maxStories {
		logging.Debug("story list capped", "kept", r.maxStories, "dropped", len(stories)-r.maxStories)
		stories = stories[:r.maxStories]
	}
	return stories
}

// stars maps an average 1-10 rating onto a 1-5 star scale.
func stars(importance float64) int {
	switch {
	case importance >= 8:
		return 5
	case importance >= 6:
		return 4
	case importance >= 4:
		return 3
	case importance >= 2:
		return 2
	default:
		return 1
	}
}

// depth picks the write-up tier from cluster size and stars. Thinly
// sourced stories never earn a deep treatment regardless of rating.
func depth(size, stars int) string {
	switch {
	case size <= 1:
		return "brief"
	case size <= 2:
		if stars >= 3 {
			return "standard"
		}
		return "brief"
	default:
		if stars >= 4 {
			return "deep"
		}
		if stars >= 3 {
			return "standard"
		}
		return "brief"
	}
}

// diversify breaks up a top-five monoculture: when at least four of
// the first five stories share a primary topic, the first later story
// with a different topic is promoted into the fifth slot, provided its
// importance is within 20% of the fifth story's.
func diversify(stories []Story) []Story {
	if len(stories) < 6 {
		return stories
	}

	topicCount := make(map[string]int)
	for _, s := range stories[:5] {
		topicCount[primaryTopic(s.Cluster)]++
	}
	dominant := ""
	for topic, n := range topicCount {
		if topic != "" && n >= 4 {
			dominant = topic
			break
		}
	}
	if dominant == "" {
		return stories
	}

	floor := 0.8 * stories[4].Importance
	for i := 5; i < len(stories); i++ {
		if primaryTopic(stories[i].Cluster) == dominant {
			continue
		}
		if stories[i].Importance < floor {
			break
		}
		promoted := stories[i]
		copy(stories[5:i+1], stories[4:i])
		stories[4] = promoted
		break
	}
	return stories
}

func primaryTopic(cl cluster.Cluster) string {
	for _, it := range cl.Items {
		if len(it.Topics) > 0 {
			return it.Topics[0]
		}
	}
	return ""
}
