package pipeline

import (
	"fmt"
	"strings"
	"time"
)

// StepReport records what one pipeline stage did, for the run summary.
type StepReport struct {
	Step      string
	ItemsIn   int
	ItemsOut  int
	Calls     int // advisor calls issued
	Successes int
	Failures  int
	Notes     string
	Elapsed   time.Duration
}

// Report accumulates per-step accounting across a run.
type Report struct {
	Steps []StepReport
}

func (r *Report) Add(s StepReport) {
	r.Steps = append(r.Steps, s)
}

// Summary renders the run accounting as aligned text lines.
func (r *Report) Summary() string {
	var sb strings.Builder
	for _, s := range r.Steps {
		fmt.Fprintf(&sb, "%-14s %4d -> %-4d", s.Step, s.ItemsIn, s.ItemsOut)
		if s.Calls > 0 {
			fmt.Fprintf(&sb, "  advisors %d ok / %d failed", s.Successes, s.Failures)
		}
		if s.Notes != "" {
			fmt.Fprintf(&sb, "  (%s)", s.Notes)
		}
		fmt.Fprintf(&sb, "  %s\n", s.Elapsed.Round(time.Millisecond))
	}
	return sb.String()
}
