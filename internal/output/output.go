// Package output renders a solve's results the way the host CLI reports
// them: a verdict line, a statistics block (human or machine rendering,
// keyed on verbosity), a timers line, and a parameter dump. All but the
// machine statistics line use the DIMACS-friendly "c <label>: <value>"
// comment-line style.
package output

import (
	"fmt"
	"io"

	"github.com/felipeblassioli/nusmv-sub005/internal/sim"
)

// PrintTimers writes the elapsed wall-clock time for a solve.
func PrintTimers(w io.Writer, elapsed float64) {
	fmt.Fprintf(w, "c time (sec): %f\n", elapsed)
}

// PrintStats renders s either as a human-readable block (verbosity > 0) or
// a single machine-parseable "k=v ..." line (verbosity == 0).
func PrintStats(w io.Writer, s sim.Stats, verbosity int) {
	if verbosity <= 0 {
		fmt.Fprintf(w, "decisions=%d propagations=%d pure=%d failed=%d conflicts=%d backtracks=%d backjumps=%d learned=%d pruned=%d replays=%d\n",
			s.Decisions, s.Propagations, s.PureLits, s.FailedLits, s.Conflicts, s.Backtracks, s.Backjumps, s.LearnedAdded, s.LearnedPruned, s.UnitReplays)
		return
	}
	fmt.Fprintf(w, "c decisions:     %d\n", s.Decisions)
	fmt.Fprintf(w, "c propagations:  %d\n", s.Propagations)
	fmt.Fprintf(w, "c pure literals: %d\n", s.PureLits)
	fmt.Fprintf(w, "c failed lits:   %d\n", s.FailedLits)
	fmt.Fprintf(w, "c conflicts:     %d\n", s.Conflicts)
	fmt.Fprintf(w, "c backtracks:    %d\n", s.Backtracks)
	fmt.Fprintf(w, "c backjumps:     %d\n", s.Backjumps)
	fmt.Fprintf(w, "c learned:       %d (pruned %d, unit replays %d)\n", s.LearnedAdded, s.LearnedPruned, s.UnitReplays)
}

// PrintParams dumps the heuristic, the main numeric parameters and the
// feature toggles of p, one per line, in the same "c <label>: <value>"
// style as the rest of this package. The other fields of p are not printed.
func PrintParams(w io.Writer, p sim.Params) {
	fmt.Fprintf(w, "c heuristic:        %s\n", p.Heuristic)
	fmt.Fprintf(w, "c solution-count:   %d\n", p.SolutionCount)
	fmt.Fprintf(w, "c learn-order:      %d\n", p.LearnOrder)
	fmt.Fprintf(w, "c indep-props:      %v\n", p.IndepProps)
	fmt.Fprintf(w, "c preprocess-level: %d\n", p.PreprocessLevel)
	fmt.Fprintf(w, "c random-seed:      %d\n", p.RandomSeed)
	fmt.Fprintf(w, "c horn-relaxation:  %v\n", p.HornRelaxation)
	fmt.Fprintf(w, "c pure-literal:     %v\n", p.PureLiteral)
	fmt.Fprintf(w, "c backjumping:      %v\n", p.Backjumping)
	fmt.Fprintf(w, "c learning:         %v\n", p.Learning)
}

// PrintResult writes the final verdict line.
func PrintResult(w io.Writer, status sim.Status) {
	fmt.Fprintf(w, "c status: %s\n", status)
}

// TracePrinter emits a one-line progress record every RunTraceInterval
// decisions. A zero or negative interval disables tracing.
type TracePrinter struct {
	w        io.Writer
	interval int
	last     int64
}

// NewTracePrinter returns a TracePrinter that writes to w, emitting a
// record every interval decisions. interval <= 0 disables it.
func NewTracePrinter(w io.Writer, interval int) *TracePrinter {
	return &TracePrinter{w: w, interval: interval}
}

// Tick reports the latest stats snapshot; it emits a record if enough
// decisions have elapsed since the last one.
func (t *TracePrinter) Tick(s sim.Stats) {
	if t == nil || t.interval <= 0 {
		return
	}
	if s.Decisions-t.last < int64(t.interval) {
		return
	}
	t.last = s.Decisions
	fmt.Fprintf(t.w, "c trace: decisions=%d conflicts=%d learned=%d\n", s.Decisions, s.Conflicts, s.LearnedAdded)
}
