package sim

import "time"

// Status is the result of a search.
type Status uint8

const (
	Unknown Status = iota
	Satisfiable
	Unsatisfiable
	TimeFail
	MemoryFail
	InternalFail
)

func (s Status) String() string {
	switch s {
	case Satisfiable:
		return "SATISFIABLE"
	case Unsatisfiable:
		return "UNSATISFIABLE"
	case TimeFail:
		return "TIME_FAIL"
	case MemoryFail:
		return "MEMORY_FAIL"
	case InternalFail:
		return "INTERNAL_FAIL"
	default:
		return "UNKNOWN"
	}
}

// Result carries the final outcome of a search, including the model(s)
// found for SAT instances.
type Result struct {
	Status    Status
	Models    [][]bool // one entry per model found, up to Params.SolutionCount
	Redundant int      // redundant trail entries on the last model found
	Fault     *Fault
}

// Solve runs the main DPLL loop until the requested number of satisfying
// assignments is found, the search space is exhausted, a resource limit
// trips, or a fault is raised. When enumeration exhausts the search space
// before the requested count, the status is Unsatisfiable with the models
// found so far attached.
func (e *Engine) Solve() Result {
	e.startTime = time.Now()

	want := e.params.SolutionCount
	if want <= 0 {
		want = 1
	}

	conflict := e.preprocess()

	for {
		if timedOut, memOut := e.checkLimits(); timedOut {
			return Result{Status: TimeFail, Models: e.collectedModels()}
		} else if memOut {
			return Result{Status: MemoryFail, Models: e.collectedModels()}
		}

		if conflict == noClause {
			conflict = e.BCP()
		}
		if conflict == noClause {
			conflict = e.MLF()
		}
		if conflict != noClause {
			if exhausted := e.handleConflict(conflict); exhausted {
				return Result{Status: Unsatisfiable, Models: e.collectedModels()}
			}
			conflict = e.conflict
			continue
		}

		if sat, verifyErr := e.ConsistencyCheck(); sat {
			if verifyErr != nil {
				e.fault = verifyErr
				return Result{Status: InternalFail, Fault: verifyErr, Models: e.collectedModels()}
			}
			e.recordModel()
			want--
			if want <= 0 {
				return Result{Status: Satisfiable, Models: e.collectedModels(), Redundant: e.lastRedundant}
			}
			_, c, ok := e.ChronologicalBacktrack()
			if !ok {
				// Enumeration exhausted before the requested count.
				return Result{Status: Unsatisfiable, Models: e.collectedModels(), Redundant: e.lastRedundant}
			}
			e.stats.Backtracks++
			conflict = c
			continue
		}

		dec, dConflict, ok := e.Choose()
		if dConflict != noClause {
			conflict = dConflict
			continue
		}
		if !ok {
			// A lookahead heuristic may have closed the formula (or queued
			// propagation work) through forced assignments before running
			// out of candidates; route back through the consistency check.
			if e.openClauseCount == 0 || len(e.bcpStack) > 0 || len(e.mlfStack) > 0 {
				continue
			}
			// Open clauses remain but every proposition is assigned: the
			// extend/retract bookkeeping has gone inconsistent.
			e.fault = throw(InternalError, LocHeuristic, "no branching candidate but %d clauses remain open", e.openClauseCount)
			return Result{Status: InternalFail, Fault: e.fault, Models: e.collectedModels()}
		}

		e.stats.Decisions++
		if e.OnTick != nil {
			e.OnTick(e.stats)
		}
		p := e.propAt(dec.Prop)
		p.Reason = noClause
		conflict = e.extendSplit(dec.Prop, Lift(dec.Sign), LeftSplit)
	}
}

// handleConflict routes a conflict clause through chronological backtrack or
// conflict-directed backjumping depending on Params.Backjumping. It reports
// whether the search space is exhausted; otherwise any immediate conflict
// produced while reopening a split is left in e.conflict.
func (e *Engine) handleConflict(conflict ClauseID) bool {
	e.stats.Conflicts++
	e.conflict = noClause

	if !e.params.Backjumping {
		e.stats.Backtracks++
		_, c, ok := e.ChronologicalBacktrack()
		if !ok {
			return true
		}
		e.conflict = c
		return false
	}

	e.stats.Backjumps++
	return !e.Backjump(conflict)
}

// ConsistencyCheck is the single point of "did we find a model?": it reports
// sat=true when no open clause remains. When sat is true it also runs
// solution verification; a non-nil fault there is a VerifyError.
func (e *Engine) ConsistencyCheck() (bool, *Fault) {
	if e.openClauseCount > 0 {
		return false, nil
	}
	return true, e.verify()
}

// verify re-derives the satisfied status of every clause directly from the
// proposition values, independent of the incrementally maintained
// Subsumer/OpenLits bookkeeping, and cross-checks the closed-clause count.
// It also computes the redundant-assignment count for the model about to be
// recorded.
func (e *Engine) verify() *Fault {
	closed := 0
	for i := range e.clauses {
		c := &e.clauses[i]
		satisfied := false
		for _, l := range c.Literals {
			if e.propAt(l.Prop()).Value == Lift(l.Sign()) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return throw(VerifyError, LocConsistency, "clause %d not satisfied by the reported assignment", c.ID)
		}
		if c.Subsumer == noProp {
			return throw(VerifyError, LocConsistency, "clause %d satisfied but recorded open", c.ID)
		}
		closed++
	}
	if closed != len(e.clauses)-e.openClauseCount {
		return throw(VerifyError, LocConsistency, "closed clause count mismatch: scanned %d, tracked %d", closed, len(e.clauses)-e.openClauseCount)
	}
	return nil
}

// redundantAssignments counts trail entries beyond the last one needed to
// close every clause: each closed clause's Subsumer names the proposition
// whose assignment closed it, so the last trail position any clause actually
// needed is the latest such subsumer's trail index.
func (e *Engine) redundantAssignments() int {
	pos := make(map[PropID]int, len(e.trail))
	for i, id := range e.trail {
		pos[id] = i
	}

	lastNeeded := -1
	for i := range e.clauses {
		c := &e.clauses[i]
		if c.Subsumer == noProp {
			continue
		}
		if idx, ok := pos[c.Subsumer]; ok && idx > lastNeeded {
			lastNeeded = idx
		}
	}
	if lastNeeded < 0 {
		return 0
	}
	return len(e.trail) - 1 - lastNeeded
}

// modelOrder returns the fixed sequence of propositions a model vector is
// reported over: the host's declared independent variables if any, else
// every live proposition in ascending variable-index order. The order is
// computed once and cached so repeated calls during enumeration always line
// up with the same variable at the same position.
func (e *Engine) modelOrder() []PropID {
	if e.cachedModelOrder != nil {
		return e.cachedModelOrder
	}
	ids := e.modelProps
	if len(ids) == 0 {
		for i := range e.props {
			if !e.props[i].removed {
				ids = append(ids, e.props[i].ID)
			}
		}
	}
	e.cachedModelOrder = ids
	return ids
}

// ModelVarIDs returns the 1-based DIMACS variable index corresponding to
// each position of a model vector returned by Solve, in the same order.
func (e *Engine) ModelVarIDs() []int {
	ids := e.modelOrder()
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id) + 1
	}
	return out
}

func (e *Engine) recordModel() {
	ids := e.modelOrder()
	model := make([]bool, 0, len(ids))
	for _, id := range ids {
		model = append(model, e.propAt(id).Value == True)
	}
	e.stats.modelsFound = append(e.stats.modelsFound, model)
	e.lastRedundant = e.redundantAssignments()
}

func (e *Engine) collectedModels() [][]bool { return e.stats.modelsFound }

// preprocess implements the preprocessing-strength parameter: 0 is a no-op
// (tautology and duplicate elimination already happened in the builder), 1
// additionally runs pure-literal fixing to fixpoint before the main loop, 2
// additionally runs one round of failed-literal detection over every
// proposition via the lookahead used by the Satz-family heuristics.
func (e *Engine) preprocess() ClauseID {
	if e.params.PreprocessLevel >= 1 {
		if conflict := e.MLF(); conflict != noClause {
			return conflict
		}
	}
	if e.params.PreprocessLevel >= 2 {
		for _, p := range e.candidates() {
			if e.propAt(p).Value != Unassigned {
				continue
			}
			if e.examine(Lit(p)).failed {
				if conflict := e.propagateForced(NegLit(p)); conflict != noClause {
					return conflict
				}
			} else if e.examine(NegLit(p)).failed {
				if conflict := e.propagateForced(Lit(p)); conflict != noClause {
					return conflict
				}
			}
		}
	}
	return noClause
}
