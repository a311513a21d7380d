package sim

import (
	"math/rand"
	"time"
)

// Engine is the whole state of one DPLL search: the clause database,
// occurrence lists, trail, propagation worklists and counters, threaded
// explicitly through the search driver, builder and heuristics.
type Engine struct {
	params Params

	props      []Proposition
	modelProps []PropID // the subset the host declared independent

	clauses []Clause // original clauses, indexed by ClauseID for c.ID < len(clauses)
	learned []Clause // learned clauses live in a separate arena

	trail    []PropID
	trailLim []int // one entry per decision level: index into trail where it starts

	bcpStack []ClauseID
	mlfStack []PropID

	nhClauses []ClauseID // open non-Horn clauses, if HornRelaxation

	// openClauseCount tracks the number of original clauses not currently
	// satisfied; the formula is empty exactly when it reaches zero.
	openClauseCount int

	unitLearned []ClauseID // learned clauses currently unit

	// Conflict-analysis scratch.
	wrLits  []Literal
	litInWr *ResetSet

	// pending clause under construction by the Builder.
	pending       *Clause
	pendingHandle ClauseID
	pendingOccs   []pendingOcc // occurrences recorded so far, for tautology rewind

	// conflict holds a conflict clause produced when handleConflict reopens
	// a split by chronological backtracking, for Solve to route back into
	// conflict handling; noClause otherwise.
	conflict ClauseID

	rng *rand.Rand

	stats     Stats
	startTime time.Time

	fault *Fault

	// lastRedundant is the redundant-assignment count computed for the
	// most recently recorded model.
	lastRedundant int

	// cachedModelOrder is the fixed proposition sequence model vectors are
	// reported over, computed once on first use.
	cachedModelOrder []PropID

	// USRInput, when set, feeds the USR heuristic (debug/testing hook).
	// It is nil in production configurations.
	USRInput func() int

	// OnTick, when set, is called with a snapshot of Stats after every
	// decision so a caller can drive run-trace output (internal/output's
	// TracePrinter.Tick is the intended value) without this package
	// depending on anything beyond the standard library.
	OnTick func(Stats)
}

type pendingOcc struct {
	prop PropID
	sign bool
}

// Stats collects search counters.
type Stats struct {
	Decisions     int64
	Propagations  int64
	PureLits      int64
	FailedLits    int64
	Conflicts     int64
	Backtracks    int64
	Backjumps     int64
	LearnedAdded  int64
	LearnedPruned int64
	UnitReplays   int64

	modelsFound [][]bool
}

// NewEngine constructs an Engine with the given parameters. Parameters left
// as AskDefault (and the count, limit and seed fields left at zero) are
// resolved against DefaultParams.
func NewEngine(p Params) *Engine {
	rp := p.resolved()
	return &Engine{
		params:   rp,
		litInWr:  &ResetSet{},
		rng:      rand.New(rand.NewSource(rp.RandomSeed)),
		conflict: noClause,
	}
}

func (e *Engine) decisionLevel() int { return len(e.trailLim) }

// clauseAt dereferences a ClauseID against the right arena. Negative IDs
// select the learned arena (the Builder never hands those out; they are an
// internal convention used once learning begins).
func (e *Engine) clauseAt(id ClauseID) *Clause {
	if id < 0 {
		return &e.learned[learnedIndex(id)]
	}
	return &e.clauses[id]
}

// learned ClauseIDs are encoded as -(index+1) so that id 0 (a valid original
// clause handle) is never ambiguous with a learned handle.
func learnedID(idx int) ClauseID   { return ClauseID(-(idx + 1)) }
func learnedIndex(id ClauseID) int { return int(-id) - 1 }
func isLearnedID(id ClauseID) bool { return id < 0 }

func (e *Engine) propAt(id PropID) *Proposition { return &e.props[id] }

// NumVariables returns the number of propositions known to the engine.
func (e *Engine) NumVariables() int { return len(e.props) }

// NumClauses returns the number of original (non-learned) clauses.
func (e *Engine) NumClauses() int { return len(e.clauses) }

// SetProblemSize raises the configured variable and clause limits to at
// least the sizes announced by a parsed problem header.
func (e *Engine) SetProblemSize(nVars, nClauses int) {
	if nVars > e.params.MaxVarIndex {
		e.params.MaxVarIndex = nVars
	}
	if nClauses > e.params.MaxClauseCount {
		e.params.MaxClauseCount = nClauses
	}
}

// ClauseLiterals returns the literals of original clause i as signed
// 1-based DIMACS integers, for inspection and tests.
func (e *Engine) ClauseLiterals(i int) []int {
	lits := e.clauses[i].Literals
	out := make([]int, len(lits))
	for j, l := range lits {
		out[j] = l.Signed()
	}
	return out
}

// Stats returns a copy of the engine's running counters.
func (e *Engine) Stats() Stats { return e.stats }

// NumModelProps returns the number of propositions the host declared
// independent via DeclareIndependent (0 if none were declared, in which
// case every proposition is part of the model).
func (e *Engine) NumModelProps() int { return len(e.modelProps) }

// checkLimits enforces the soft CPU-time and memory limits.
// It is polled at coarse boundaries by the search driver, never mid
// propagation.
func (e *Engine) checkLimits() (timedOut, memOut bool) {
	if e.params.TimeLimitSec > 0 {
		if time.Since(e.startTime) > time.Duration(e.params.TimeLimitSec)*time.Second {
			timedOut = true
		}
	}
	if e.params.MemLimitMB > 0 {
		// The engine does not sample RSS directly (that is an OS/runtime
		// concern outside the core); instead it uses a
		// proxy based on the size of the clause database, which is the
		// dominant allocator in this engine.
		approxMB := (len(e.clauses) + len(e.learned)) * 64 / (1 << 20)
		if approxMB > e.params.MemLimitMB {
			memOut = true
		}
	}
	return
}
