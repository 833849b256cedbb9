package advisor

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/abelbrown/briefing/internal/cluster"
	"github.com/abelbrown/briefing/internal/consolidate"
	"github.com/abelbrown/briefing/internal/logging"
	"github.com/abelbrown/briefing/internal/perspective"
	"github.com/abelbrown/briefing/internal/rank"
)

// Panel fans one question out to every available advisor and collects
// whatever typed answers come back. Failures reduce the voter count;
// they are counted, logged, and otherwise ignored.
type Panel struct {
	manager *Manager
}

func NewPanel(m *Manager) *Panel {
	return &Panel{manager: m}
}

// Tally records how a fan-out round went, for the step report.
type Tally struct {
	Calls     int
	Successes int
	Failures  int
}

const (
	mergeSystemPrompt = `You review candidate news story groupings. Respond ONLY with a JSON array. Each element: {"indices": [..], "title": ".."} where indices are zero-based positions of entries that describe the SAME developing story, and title is a short combined headline. Only propose a group when you are confident. An empty array is a valid answer.`

	axesSystemPrompt = `You identify the distinct viewpoints needed to cover a news story fairly. Respond ONLY with a JSON array. Each element: {"label": "..", "sources": [".."]} where label names the viewpoint and sources lists outlet names, drawn only from the provided list, best suited to represent it. At most 5 axes.`

	ratingSystemPrompt = `You rate news stories for a daily briefing. Respond ONLY with a JSON array of numbers, one per story in order, each from 1 (ignore) to 10 (front page), judging global significance and reader impact.`

	scanSystemPrompt = `You analyze coverage of one news story across several outlets. Respond ONLY with a JSON object: {"facts": [".."], "contexts": [".."], "unknowns": [".."], "disputes": "..", "framing": ".."}. facts are confirmed specifics, contexts is background a reader needs, unknowns are open questions phrased as questions, disputes describes what the outlets substantively disagree on (empty string if nothing), framing describes how their emphasis differs (empty string if not notable).`
)

// StoryScan is an advisor's read of one story's coverage.
type StoryScan struct {
	Facts    []string `json:"facts"`
	Contexts []string `json:"contexts"`
	Unknowns []string `json:"unknowns"`
	Disputes string   `json:"disputes"`
	Framing  string   `json:"framing"`
}

// MergeProposals asks every advisor which clusters describe the same
// story.
func (p *Panel) MergeProposals(ctx context.Context, clusters []cluster.Cluster) ([]consolidate.MergeProposal, Tally) {
	if len(clusters) < 2 {
		return nil, Tally{}
	}

	var sb strings.Builder
	for i, cl := range clusters {
		fmt.Fprintf(&sb, "%d. %s (%d sources)\n", i, cl.Title, len(cl.Items))
	}
	prompt := "Candidate stories:\n" + sb.String()

	type parsed struct {
		Indices []int  `json:"indices"`
		Title   string `json:"title"`
	}

	var mu sync.Mutex
	var proposals []consolidate.MergeProposal
	tally := p.fanOut(ctx, Request{
		SystemPrompt: mergeSystemPrompt,
		UserPrompt:   prompt,
		MaxTokens:    1024,
	}, func(name, content string) error {
		var groups []parsed
		if err := ExtractJSON(content, &groups); err != nil {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		for _, g := range groups {
			if len(g.Indices) >= 2 {
				proposals = append(proposals, consolidate.MergeProposal{
					Advisor: name,
					Indices: g.Indices,
					Title:   g.Title,
				})
			}
		}
		return nil
	})
	return proposals, tally
}

// PerspectiveAxes asks every advisor what viewpoints one story needs,
// then folds equivalent labels together.
func (p *Panel) PerspectiveAxes(ctx context.Context, cl cluster.Cluster) ([]perspective.Axis, Tally) {
	names := make([]string, 0, len(cl.Items))
	seen := make(map[string]bool)
	for _, it := range cl.Items {
		if !seen[it.SourceName] {
			seen[it.SourceName] = true
			names = append(names, it.SourceName)
		}
	}

	prompt := fmt.Sprintf("Story: %s\nAvailable outlets: %s", cl.Title, strings.Join(names, ", "))

	type parsed struct {
		Label   string   `json:"label"`
		Sources []string `json:"sources"`
	}

	var mu sync.Mutex
	var axes []perspective.Axis
	tally := p.fanOut(ctx, Request{
		SystemPrompt: axesSystemPrompt,
		UserPrompt:   prompt,
		MaxTokens:    1024,
	}, func(name, content string) error {
		var raw []parsed
		if err := ExtractJSON(content, &raw); err != nil {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		for _, ax := range raw {
			if ax.Label != "" && len(ax.Sources) > 0 {
				axes = append(axes, perspective.Axis{Label: ax.Label, Sources: ax.Sources})
			}
		}
		return nil
	})
	return perspective.MergeAxes(axes), tally
}

// ScanStory asks advisors in priority order for the facts, open
// questions and disputes across one story's coverage. The first
// advisor that returns usable JSON wins.
func (p *Panel) ScanStory(ctx context.Context, cl cluster.Cluster) (StoryScan, Tally) {
	var sb strings.Builder
	for _, it := range cl.Items {
		summary := it.Summary
		if r := []rune(summary); len(r) > 400 {
			summary = string(r[:400])
		}
		fmt.Fprintf(&sb, "[%s] %s\n%s\n\n", it.SourceName, it.Title, summary)
	}

	req := Request{
		SystemPrompt: scanSystemPrompt,
		UserPrompt:   "Coverage:\n" + sb.String(),
		MaxTokens:    1024,
	}

	var tally Tally
	for _, prov := range p.manager.Available() {
		tally.Calls++
		resp, err := prov.Generate(ctx, req)
		if err == nil {
			var scan StoryScan
			if err = ExtractJSON(resp.Content, &scan); err == nil {
				tally.Successes++
				return scan, tally
			}
		}
		tally.Failures++
		logging.Warn("story scan failed", "provider", prov.Name(), "error", err)
	}
	return StoryScan{}, tally
}

// Ratings asks every advisor to score each cluster 1-10.
func (p *Panel) Ratings(ctx context.Context, clusters []cluster.Cluster) ([]rank.Rating, Tally) {
	if len(clusters) == 0 {
		return nil, Tally{}
	}

	var sb strings.Builder
	for i, cl := range clusters {
		fmt.Fprintf(&sb, "%d. %s (%d sources)\n", i+1, cl.Title, len(cl.Items))
	}
	prompt := "Stories:\n" + sb.String()

	var mu sync.Mutex
	var ratings []rank.Rating
	tally := p.fanOut(ctx, Request{
		SystemPrompt: ratingSystemPrompt,
		UserPrompt:   prompt,
		MaxTokens:    512,
	}, func(name, content string) error {
		var scores []float64
		if err := ExtractJSON(content, &scores); err != nil {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		for i, s := range scores {
			if i >= len(clusters) {
				break
			}
			ratings = append(ratings, rank.Rating{Advisor: name, Index: i, Score: s})
		}
		return nil
	})
	return ratings, tally
}

// fanOut sends the request to every available provider concurrently
// and hands each response to handle. A provider error or a handle
// error counts one failure.
func (p *Panel) fanOut(ctx context.Context, req Request, handle func(name, content string) error) Tally {
	providers := p.manager.Available()
	tally := Tally{Calls: len(providers)}
	if len(providers) == 0 {
		return tally
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, prov := range providers {
		wg.Add(1)
		go func(prov Provider) {
			defer wg.Done()
			resp, err := prov.Generate(ctx, req)
			if err == nil {
				err = handle(prov.Name(), resp.Content)
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				tally.Failures++
				logging.Warn("advisor call failed", "provider", prov.Name(), "error", err)
				return
			}
			tally.Successes++
		}(prov)
	}
	wg.Wait()
	return tally
}
