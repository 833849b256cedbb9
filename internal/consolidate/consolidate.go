// Package consolidate turns advisor merge proposals into trusted
// groups. A single advisor's suggestion is not acted on; pairs must be
// corroborated by enough independent votes before union-find links
// them. The same machinery consolidates event clusters into story arcs
// and finished cards into deduplicated cards.
package consolidate

import (
	"sort"

	"github.com/abelbrown/briefing/internal/logging"
)

// MergeProposal is one advisor's suggestion that a set of indices
// describe the same story. Discarded after consolidation.
type MergeProposal struct {
	Advisor string
	Indices []int
	Title   string // optional suggested title for the merged group
}

// ConsolidatedGroup is a corroborated merge of two or more indices.
type ConsolidatedGroup struct {
	Indices []int // sorted ascending
	Title   string
}

// mergeCapDefault bounds a single group so one noisy chain of votes
// cannot absorb the whole run.
const mergeCapDefault = 8

// Consolidator applies vote thresholds and the group-size cap.
type Consolidator struct {
	minVotes int
	mergeCap int
}

func New(minVotes, mergeCap int) *Consolidator {
	if minVotes < 1 {
		minVotes = 1
	}
	if mergeCap < 2 {
		mergeCap = mergeCapDefault
	}
	return &Consolidator{minVotes: minVotes, mergeCap: mergeCap}
}

type pair struct{ a, b int }

// Consolidate reduces proposals over n candidates to corroborated
// groups. Zero proposals, zero surviving pairs, and zero multi-member
// components are all the ordinary no-merge outcome: an empty slice,
// never an error. Proposals referencing indices outside [0,n) are
// filtered silently.
func (c *Consolidator) Consolidate(proposals []MergeProposal, n int) []ConsolidatedGroup {
	if n <= 0 || len(proposals) == 0 {
		return nil
	}

	votes := make(map[pair]int)
	titles := make(map[pair]string)
	var order []pair // first-seen order, for deterministic title pick
	advisors := make(map[string]bool)

	for _, prop := range proposals {
		indices := validIndices(prop.Indices, n)
		if len(indices) < 2 {
			continue
		}
		advisors[prop.Advisor] = true
		for i := 0; i < len(indices); i++ {
			for j := i + 1; j < len(indices); j++ {
				p := orderedPair(indices[i], indices[j])
				if votes[p] == 0 {
					order = append(order, p)
				}
				votes[p]++
				if titles[p] == "" && prop.Title != "" {
					titles[p] = prop.Title
				}
			}
		}
	}

	// With one respondent the vote threshold is unreachable by
	// construction; take that advisor's pairs rather than discard all
	// signal.
	threshold := c.minVotes
	if len(advisors) == 1 {
		threshold = 1
	}

	var surviving []pair
	for _, p := range order {
		if votes[p] >= threshold {
			surviving = append(surviving, p)
		}
	}
	if len(surviving) == 0 {
		return nil
	}

	uf := newUnionFind(n)
	for _, p := range surviving {
		uf.union(p.a, p.b)
	}

	components := make(map[int][]int)
	for i := 0; i < n; i++ {
		root := uf.find(i)
		components[root] = append(components[root], i)
	}

	var roots []int
	for root, members := range components {
		if len(members) >= 2 {
			roots = append(roots, root)
		}
	}
	sort.Ints(roots)

	var groups []ConsolidatedGroup
	for _, root := range roots {
		members := components[root]
		sort.Ints(members)
		if len(members) > c.mergeCap {
			logging.Warn("merge group capped", "size", len(members), "cap", c.mergeCap)
			members = members[:c.mergeCap]
		}
		groups = append(groups, ConsolidatedGroup{
			Indices: members,
			Title:   c.groupTitle(members, surviving, titles),
		})
	}
	return groups
}

// groupTitle returns the first non-empty voted title among the
// surviving pairs whose endpoints both sit in the group.
func (c *Consolidator) groupTitle(members []int, surviving []pair, titles map[pair]string) string {
	inGroup := make(map[int]bool, len(members))
	for _, m := range members {
		inGroup[m] = true
	}
	for _, p := range surviving {
		if inGroup[p.a] && inGroup[p.b] && titles[p] != "" {
			return titles[p]
		}
	}
	return ""
}

func validIndices(indices []int, n int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, idx := range indices {
		if idx < 0 || idx >= n || seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, idx)
	}
	return out
}

func orderedPair(a, b int) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a, b}
}

type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
}
