// Package pipeline runs one briefing end to end: fetch, syndication
// tagging, clustering, ranking, arc consolidation, per-story source
// selection, card assembly, cross-card dedup, scoring, and history.
//
// All engine stages after the fetch and advisor fan-outs are
// single-threaded and side-effect-free over their inputs; each story
// is processed to completion before the next begins, and the card
// dedup pass runs once over the fully assembled set.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/briefing/internal/advisor"
	"github.com/abelbrown/briefing/internal/card"
	"github.com/abelbrown/briefing/internal/cluster"
	"github.com/abelbrown/briefing/internal/config"
	"github.com/abelbrown/briefing/internal/consolidate"
	"github.com/abelbrown/briefing/internal/feeds"
	"github.com/abelbrown/briefing/internal/fetch"
	"github.com/abelbrown/briefing/internal/history"
	"github.com/abelbrown/briefing/internal/logging"
	"github.com/abelbrown/briefing/internal/perspective"
	"github.com/abelbrown/briefing/internal/rank"
	"github.com/abelbrown/briefing/internal/score"
	"github.com/abelbrown/briefing/internal/syndication"
	"github.com/abelbrown/briefing/internal/triage"
)

// Story is one finished briefing story with its profile and run delta.
type Story struct {
	Card    card.Card
	Profile score.HeatProfile
	Delta   history.Delta
	Streak  int
	Unmet   []string // perspective axes no source could serve
}

// Result is the output of one pipeline run.
type Result struct {
	Stories []Story
	Report  *Report
	Runtime time.Duration
}

// Pipeline wires the engine stages together.
type Pipeline struct {
	cfg     *config.Config
	sources []feeds.Source
	panel   *advisor.Panel
	store   *history.Store // optional; nil disables history
}

// New assembles a pipeline. store may be nil when history is disabled.
func New(cfg *config.Config, sources []feeds.Source, panel *advisor.Panel, store *history.Store) *Pipeline {
	return &Pipeline{cfg: cfg, sources: sources, panel: panel, store: store}
}

// Run executes one briefing. Advisor failures degrade quality, never
// the run: with zero advisors stories ship unmerged with lead-item
// attribution.
func (p *Pipeline) Run(ctx context.Context, mode string) (*Result, error) {
	start := time.Now()
	eng := p.cfg.Engine
	report := &Report{}

	// Fetch.
	stepStart := time.Now()
	batch := fetch.NewBatch(p.sources, eng.FetchConcurrency, time.Duration(eng.FetchTimeoutSeconds)*time.Second)
	items := batch.FetchAll(ctx)
	report.Add(StepReport{
		Step: "fetch", ItemsIn: len(p.sources), ItemsOut: len(items),
		Elapsed: time.Since(stepStart),
	})
	if len(items) == 0 {
		return &Result{Report: report, Runtime: time.Since(start)}, fmt.Errorf("no items fetched")
	}

	// Syndication tagging.
	stepStart = time.Now()
	detector := syndication.NewDetector(eng.SyndicationThreshold, eng.MinSyndicationGroup)
	tagged := detector.Detect(items)
	report.Add(StepReport{
		Step: "syndication", ItemsIn: len(items), ItemsOut: len(items),
		Notes:   fmt.Sprintf("%d tagged as republication", tagged),
		Elapsed: time.Since(stepStart),
	})

	// Topic and relevance triage, after syndication so wire copies
	// take the relevance discount.
	stepStart = time.Now()
	items = triage.Tag(items)
	report.Add(StepReport{
		Step: "triage", ItemsIn: len(items), ItemsOut: len(items),
		Elapsed: time.Since(stepStart),
	})

	// Clustering.
	stepStart = time.Now()
	clusters := cluster.New(eng.ClusterThreshold).Group(items)
	report.Add(StepReport{
		Step: "cluster", ItemsIn: len(items), ItemsOut: len(clusters),
		Elapsed: time.Since(stepStart),
	})

	// Importance ratings and ranking.
	stepStart = time.Now()
	ratings, rateTally := p.panel.Ratings(ctx, clusters)
	stories := rank.New(eng.MaterialityCutoff, eng.MaxStories).Rank(clusters, ratings)
	report.Add(StepReport{
		Step: "rank", ItemsIn: len(clusters), ItemsOut: len(stories),
		Calls: rateTally.Calls, Successes: rateTally.Successes, Failures: rateTally.Failures,
		Elapsed: time.Since(stepStart),
	})

	// Arc consolidation over the ranked clusters.
	stepStart = time.Now()
	ranked := make([]cluster.Cluster, len(stories))
	for i, s := range stories {
		ranked[i] = s.Cluster
	}
	proposals, mergeTally := p.panel.MergeProposals(ctx, ranked)
	consolidator := consolidate.New(eng.MinVotes, eng.MergeCap)
	groups := consolidator.Consolidate(proposals, len(stories))
	stories = mergeStories(stories, groups)
	report.Add(StepReport{
		Step: "arc-merge", ItemsIn: len(ranked), ItemsOut: len(stories),
		Calls: mergeTally.Calls, Successes: mergeTally.Successes, Failures: mergeTally.Failures,
		Notes:   fmt.Sprintf("%d merges", len(groups)),
		Elapsed: time.Since(stepStart),
	})

	// Per-story source selection and card assembly.
	stepStart = time.Now()
	var axisCalls, axisOK, axisFail int
	var scanCalls, scanOK, scanFail int
	cards := make([]card.Card, 0, len(stories))
	unmetByCard := make([][]string, 0, len(stories))
	clusterSizes := make([]int, 0, len(stories))
	for _, s := range stories {
		axes, tally := p.panel.PerspectiveAxes(ctx, s.Cluster)
		axisCalls += tally.Calls
		axisOK += tally.Successes
		axisFail += tally.Failures

		scan, scanTally := p.panel.ScanStory(ctx, s.Cluster)
		scanCalls += scanTally.Calls
		scanOK += scanTally.Successes
		scanFail += scanTally.Failures

		selected, unmet := perspective.Select(s.Cluster, axes)
		cards = append(cards, buildCard(s, selected, scan))
		unmetByCard = append(unmetByCard, unmet)
		clusterSizes = append(clusterSizes, len(s.Cluster.Items))
	}
	report.Add(StepReport{
		Step: "select", ItemsIn: len(stories), ItemsOut: len(cards),
		Calls: axisCalls, Successes: axisOK, Failures: axisFail,
		Elapsed: time.Since(stepStart),
	})
	report.Add(StepReport{
		Step: "scan", ItemsIn: len(cards), ItemsOut: len(cards),
		Calls: scanCalls, Successes: scanOK, Failures: scanFail,
	})

	// Cross-card dedup, after all per-story work is complete.
	stepStart = time.Now()
	dedupProposals, dedupTally := p.panel.MergeProposals(ctx, cardClusters(cards))
	dedupGroups := consolidator.Consolidate(dedupProposals, len(cards))
	cardsIn := len(cards)
	cards, unmetByCard, clusterSizes = mergeCards(cards, unmetByCard, clusterSizes, dedupGroups)
	report.Add(StepReport{
		Step: "card-dedup", ItemsIn: cardsIn, ItemsOut: len(cards),
		Calls: dedupTally.Calls, Successes: dedupTally.Successes, Failures: dedupTally.Failures,
		Elapsed: time.Since(stepStart),
	})

	// Scoring and history.
	stepStart = time.Now()
	var previous []history.StoredCard
	var recent []history.Run
	if p.store != nil {
		if runs, err := p.store.RecentRuns(24); err == nil {
			recent = runs
			if len(runs) > 0 {
				previous = runs[0].Cards
			}
		} else {
			logging.Warn("history unavailable", "error", err)
		}
	}

	out := make([]Story, 0, len(cards))
	for i, c := range cards {
		profile := score.Profile(c, clusterSizes[i])
		c.Heat = profile.Heat
		st := Story{
			Card:    c,
			Profile: profile,
			Delta:   history.DeltaNew,
			Unmet:   unmetByCard[i],
		}
		if p.store != nil {
			st.Delta = history.ClassifyDelta(c, previous)
			st.Streak = history.Streak(c, recent)
		}
		out = append(out, st)
	}
	report.Add(StepReport{
		Step: "score", ItemsIn: len(cards), ItemsOut: len(out),
		Elapsed: time.Since(stepStart),
	})

	runtime := time.Since(start)
	if p.store != nil {
		saved := make([]card.Card, len(out))
		for i, s := range out {
			saved[i] = s.Card
		}
		if _, err := p.store.SaveRun(mode, runtime, saved); err != nil {
			logging.Warn("history save failed", "error", err)
		}
	}

	logging.Info("run complete", "stories", len(out), "runtime", runtime.Round(time.Millisecond))
	return &Result{Stories: out, Report: report, Runtime: runtime}, nil
}

// mergeStories folds consolidated story arcs. Each group collapses
// into its lowest-index member, which keeps the group's items,
// widened topics, and the voted title when one exists.
func mergeStories(stories []rank.Story, groups []consolidate.ConsolidatedGroup) []rank.Story {
	if len(groups) == 0 {
		return stories
	}

	absorbed := make(map[int]bool)
	for _, g := range groups {
		base := g.Indices[0]
		largest := base
		largestSize := len(stories[base].Cluster.Items)
		for _, idx := range g.Indices[1:] {
			if len(stories[idx].Cluster.Items) > largestSize {
				largest = idx
				largestSize = len(stories[idx].Cluster.Items)
			}
			stories[base].Cluster.Items = append(stories[base].Cluster.Items, stories[idx].Cluster.Items...)
			if stories[idx].Importance > stories[base].Importance {
				stories[base].Importance = stories[idx].Importance
				stories[base].Stars = stories[idx].Stars
			}
			absorbed[idx] = true
		}
		// Voted title wins; otherwise the largest member's lead title.
		switch {
		case g.Title != "":
			stories[base].Cluster.Title = g.Title
		case largest != base:
			stories[base].Cluster.Title = stories[largest].Cluster.Title
		}
	}

	out := stories[:0]
	for i, s := range stories {
		if !absorbed[i] {
			out = append(out, s)
		}
	}
	return out
}

func buildCard(s rank.Story, selected []perspective.Selected, scan advisor.StoryScan) card.Card {
	c := card.Card{
		ID:        cardID(s.Cluster.ID),
		Title:     s.Cluster.Title,
		Facts:     scan.Facts,
		Contexts:  scan.Contexts,
		Unknowns:  scan.Unknowns,
		Disputes:  scan.Disputes,
		Framing:   scan.Framing,
		Stars:     s.Stars,
		Depth:     s.Depth,
		CreatedAt: time.Now().UTC(),
	}

	topics := make(map[string]bool)
	for _, it := range s.Cluster.Items {
		for _, t := range it.Topics {
			if !topics[t] {
				topics[t] = true
				c.Topics = append(c.Topics, t)
			}
		}
	}

	var body []string
	for _, sel := range selected {
		c.Sources = append(c.Sources, card.SelectedSource{
			Axis:   sel.Axis,
			Name:   sel.Item.SourceLabel(),
			URL:    sel.Item.URL,
			Region: sel.Item.Region,
			Stance: sel.Item.Stance,
		})
		if sel.Item.Summary != "" {
			body = append(body, sel.Item.Summary)
		}
	}
	c.Body = strings.Join(body, "\n\n")
	return c
}

func cardID(clusterID string) string {
	h := sha256.Sum256([]byte("card:" + clusterID))
	return hex.EncodeToString(h[:])[:12]
}

// cardClusters presents finished cards to the merge panel in the same
// shape as event clusters, so the one consolidator serves both passes.
func cardClusters(cards []card.Card) []cluster.Cluster {
	out := make([]cluster.Cluster, len(cards))
	for i, c := range cards {
		items := make([]feeds.Item, len(c.Sources))
		for j, s := range c.Sources {
			items[j] = feeds.Item{SourceName: s.Name, URL: s.URL}
		}
		out[i] = cluster.Cluster{ID: c.ID, Title: c.Title, Items: items}
	}
	return out
}

// mergeCards applies dedup groups with card.Merge and drops the
// absorbed cards, keeping the parallel bookkeeping slices aligned.
func mergeCards(cards []card.Card, unmet [][]string, sizes []int, groups []consolidate.ConsolidatedGroup) ([]card.Card, [][]string, []int) {
	if len(groups) == 0 {
		return cards, unmet, sizes
	}

	absorbed := make(map[int]bool)
	for _, g := range groups {
		base := g.Indices[0]
		rest := g.Indices[1:]
		cards[base] = card.Merge(cards, base, rest, g.Title)
		for _, idx := range rest {
			sizes[base] += sizes[idx]
			unmet[base] = append(unmet[base], unmet[idx]...)
			absorbed[idx] = true
		}
	}

	outCards := cards[:0]
	outUnmet := unmet[:0]
	outSizes := sizes[:0]
	for i := range cards {
		if absorbed[i] {
			continue
		}
		outCards = append(outCards, cards[i])
		outUnmet = append(outUnmet, unmet[i])
		outSizes = append(outSizes, sizes[i])
	}
	return outCards, outUnmet, outSizes
}
