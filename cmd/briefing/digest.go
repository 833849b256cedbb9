package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/briefing/internal/history"
	"github.com/abelbrown/briefing/internal/pipeline"
)

// Digest styles
var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15"))

	starsStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	deltaStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	metaStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	sourceStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("39"))

	bodyStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Width(100)

	hotStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("203")).
		Bold(true)

	dividerStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))
)

// renderDigest formats the finished stories for the terminal.
func renderDigest(result *pipeline.Result) string {
	var sb strings.Builder

	for i, story := range result.Stories {
		c := story.Card

		header := fmt.Sprintf("%d. %s", i+1, c.Title)
		sb.WriteString(titleStyle.Render(header))
		sb.WriteString("  ")
		sb.WriteString(starsStyle.Render(strings.Repeat("★", c.Stars)))
		if story.Delta != history.DeltaNew {
			sb.WriteString("  ")
			sb.WriteString(deltaStyle.Render(deltaBadge(story)))
		}
		sb.WriteString("\n")

		meta := fmt.Sprintf("%s · %s · heat %d", c.Depth, story.Profile.Balance, c.Heat)
		if story.Profile.Contention != "straight_news" {
			meta += " · " + hotStyle.Render(story.Profile.Contention)
		}
		sb.WriteString(metaStyle.Render(meta))
		sb.WriteString("\n")

		if c.Body != "" {
			sb.WriteString(bodyStyle.Render(c.Body))
			sb.WriteString("\n")
		}

		if c.Disputes != "" {
			sb.WriteString(hotStyle.Render("  disputed: "))
			sb.WriteString(metaStyle.Render(c.Disputes))
			sb.WriteString("\n")
		}
		for _, q := range c.Unknowns {
			sb.WriteString(metaStyle.Render("  open: " + q))
			sb.WriteString("\n")
		}

		for _, src := range c.Sources {
			line := fmt.Sprintf("  %s — %s", src.Axis, src.Name)
			sb.WriteString(sourceStyle.Render(line))
			sb.WriteString("\n")
		}
		if len(story.Unmet) > 0 {
			sb.WriteString(metaStyle.Render("  unserved angles: " + strings.Join(story.Unmet, ", ")))
			sb.WriteString("\n")
		}

		if i < len(result.Stories)-1 {
			sb.WriteString(dividerStyle.Render(strings.Repeat("─", 60)))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(metaStyle.Render(result.Report.Summary()))
	return sb.String()
}

func deltaBadge(s pipeline.Story) string {
	switch s.Delta {
	case history.DeltaUpdated:
		return "UPDATED"
	case history.DeltaContinuing:
		if s.Streak > 1 {
			return fmt.Sprintf("DAY %d", s.Streak+1)
		}
		return "CONTINUING"
	default:
		return ""
	}
}
