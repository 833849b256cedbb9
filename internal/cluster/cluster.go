// Package cluster groups fetched items into candidate stories by
// lexical similarity. Clustering is deliberately cheap and local; the
// consolidation stage repairs over-splitting with advisor votes.
package cluster

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/abelbrown/briefing/internal/feeds"
)

// Cluster is a group of items judged to cover the same event.
type Cluster struct {
	ID    string
	Title string // the seed item's title leads the cluster
	Items []feeds.Item
}

// stopwords are capitalized tokens that carry no entity signal.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"after": true, "over": true, "into": true, "amid": true, "says": true,
	"will": true, "has": true, "have": true, "are": true, "was": true,
	"new": true, "how": true, "why": true, "what": true, "who": true,
	"this": true, "that": true, "his": true, "her": true, "its": true,
	"but": true, "not": true, "more": true, "than": true, "about": true,
}

// Clusterer groups items whose combined title and entity similarity
// clears a threshold.
type Clusterer struct {
	threshold float64
}

func New(threshold float64) *Clusterer {
	return &Clusterer{threshold: threshold}
}

// Group clusters items in a single greedy pass. Items are visited in
// descending relevance order (ties keep input order) so that the most
// relevant item of each story seeds its cluster and lends its title.
func (c *Clusterer) Group(items []feeds.Item) []Cluster {
	if len(items) == 0 {
		return nil
	}

	ordered := make([]feeds.Item, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Relevance > ordered[j].Relevance
	})

	type member struct {
		item     feeds.Item
		titleSet map[string]bool
		entities map[string]bool
	}
	members := make([]member, len(ordered))
	for i, it := range ordered {
		members[i] = member{
			item:     it,
			titleSet: titleWords(it.Title),
			entities: Entities(it.Title + " " + it.Summary),
		}
	}

	var clusters []Cluster
	claimed := make([]bool, len(members))
	for i := range members {
		if claimed[i] {
			continue
		}
		claimed[i] = true
		seed := members[i]
		group := []feeds.Item{seed.item}
		shared := make(map[string]int)

		for j := i + 1; j < len(members); j++ {
			if claimed[j] {
				continue
			}
			cand := members[j]
			s := 0.6*jaccard(seed.titleSet, cand.titleSet) + 0.4*overlap(seed.entities, cand.entities)
			if s > c.threshold {
				claimed[j] = true
				group = append(group, cand.item)
				for e := range cand.entities {
					if seed.entities[e] {
						shared[e]++
					}
				}
			}
		}

		clusters = append(clusters, Cluster{
			ID:    clusterID(seed.entities, shared),
			Title: seed.item.Title,
			Items: group,
		})
	}
	return clusters
}

// clusterID derives a stable identifier from the cluster's most shared
// entity tokens, falling back to the seed's entities for singletons.
func clusterID(seedEntities map[string]bool, shared map[string]int) string {
	var tokens []string
	if len(shared) > 0 {
		for e := range shared {
			tokens = append(tokens, e)
		}
		sort.Slice(tokens, func(i, j int) bool {
			if shared[tokens[i]] != shared[tokens[j]] {
				return shared[tokens[i]] > shared[tokens[j]]
			}
			return tokens[i] < tokens[j]
		})
	} else {
		for e := range seedEntities {
			tokens = append(tokens, e)
		}
		sort.Strings(tokens)
	}
	if len(tokens) > 5 {
		tokens = tokens[:5]
	}
	sort.Strings(tokens)

	h := sha256.Sum256([]byte(strings.Join(tokens, "|")))
	return hex.EncodeToString(h[:])[:12]
}

// Entities extracts the capitalized tokens of text, minus stopwords.
// A crude named-entity proxy that works well enough on headlines.
func Entities(text string) map[string]bool {
	out := make(map[string]bool)
	for _, tok := range strings.Fields(text) {
		tok = strings.Trim(tok, ".,:;!?\"'()[]—-")
		if utf8.RuneCountInString(tok) <= 2 {
			continue
		}
		r, _ := utf8.DecodeRuneInString(tok)
		if !unicode.IsUpper(r) {
			continue
		}
		lower := strings.ToLower(tok)
		if stopwords[lower] {
			continue
		}
		out[lower] = true
	}
	return out
}

func titleWords(title string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(title)) {
		w = strings.Trim(w, ".,:;!?\"'()[]—-")
		if w != "" {
			out[w] = true
		}
	}
	return out
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if b[w] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// overlap is intersection over the smaller set, which rewards a short
// headline that names the same actors as a longer one.
func overlap(a, b map[string]bool) float64 {
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
	return float64(inter) / float64(len(small))
}
