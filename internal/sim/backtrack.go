package sim

// Chronological backtrack and conflict-directed backjumping.

// flushStacks drops any pending propagation work, as both backtrack paths
// require before they start popping the trail.
func (e *Engine) flushStacks() {
	e.bcpStack = e.bcpStack[:0]
	for _, id := range e.mlfStack {
		p := e.propAt(id)
		p.onMLF = false
		p.pureTag = 0
	}
	e.mlfStack = e.mlfStack[:0]
}

// popTrailTop pops and retracts the top trail entry, dropping its decision
// level too if the entry was a split. Returns the retracted proposition.
func (e *Engine) popTrailTop() PropID {
	n := len(e.trail) - 1
	id := e.trail[n]
	e.trail = e.trail[:n]
	p := e.propAt(id)
	wasSplit := p.Mode.IsSplit()
	e.retract(id)
	if wasSplit {
		e.trailLim = e.trailLim[:len(e.trailLim)-1]
	}
	return id
}

// extendSplit opens a new decision level and assigns id under it.
func (e *Engine) extendSplit(id PropID, v Value, mode Mode) ClauseID {
	e.trailLim = append(e.trailLim, len(e.trail))
	p := e.propAt(id)
	p.Value = v
	p.Mode = mode
	p.Level = e.decisionLevel()
	return e.extend(id)
}

// ChronologicalBacktrack pops the trail, retracting each entry, until it
// reaches a LeftSplit, then flips that split to a RightSplit at the same
// decision level and re-extends it. Reports ok=false if the trail empties
// first (no open choice point remains). If re-extending the flipped split
// immediately produces a conflict, that clause is returned and the caller
// must route it back into conflict handling.
func (e *Engine) ChronologicalBacktrack() (PropID, ClauseID, bool) {
	e.flushStacks()

	for len(e.trail) > 0 {
		n := len(e.trail) - 1
		id := e.trail[n]
		p := e.propAt(id)

		if p.Mode != LeftSplit {
			e.popTrailTop()
			continue
		}

		e.trail = e.trail[:n]
		flipped := p.Value.Opposite()
		e.retract(id)
		e.trailLim = e.trailLim[:len(e.trailLim)-1]

		conflict := e.extendSplit(id, flipped, RightSplit)
		return id, conflict, true
	}

	return noProp, noClause, false
}

// initWr initializes the working reason with the literals of the conflict
// clause.
func (e *Engine) initWr(conflict ClauseID) {
	e.wrLits = e.wrLits[:0]
	e.litInWr.Clear()
	c := e.clauseAt(conflict)
	for _, l := range c.Literals {
		e.wrLits = append(e.wrLits, l)
		e.litInWr.Add(int(l.Prop()))
	}
}

// resolveWithWr eliminates p from the working reason by resolving it against
// reason: the reason's literals (other than the one over p) are unioned into
// wr, then p's entry is removed.
func (e *Engine) resolveWithWr(p PropID, reason ClauseID) {
	if reason != noClause {
		c := e.clauseAt(reason)
		for _, l := range c.Literals {
			if l.Prop() == p {
				continue
			}
			if !e.litInWr.Contains(int(l.Prop())) {
				e.litInWr.Add(int(l.Prop()))
				e.wrLits = append(e.wrLits, l)
			}
		}
	}
	e.removeFromWr(p)
}

func (e *Engine) removeFromWr(p PropID) {
	for i, l := range e.wrLits {
		if l.Prop() == p {
			last := len(e.wrLits) - 1
			e.wrLits[i] = e.wrLits[last]
			e.wrLits = e.wrLits[:last]
			return
		}
	}
}

// shouldLearn gates whether clause synthesis is attempted at all:
// relevance-bounded learning always attempts (the finer-grained level check
// happens in learnFromWr), size-bounded learning only when the candidate is
// already within LearnOrder.
func (e *Engine) shouldLearn() bool {
	if e.params.LearnType == RelevanceBounded {
		return true
	}
	return len(e.wrLits) <= e.params.LearnOrder
}

// learnFromWr commits the working reason as a learned clause in the
// database, updating occurrence lists and the unit-learned stack. Under
// relevance-bounded learning it aborts early when the candidate would be
// discarded on the very next backtrack anyway (its count of literals
// assigned at the current level already exceeds LearnOrder); it then
// returns noClause.
func (e *Engine) learnFromWr() ClauseID {
	if e.params.LearnType == RelevanceBounded {
		atCurrent := 0
		for _, l := range e.wrLits {
			q := e.propAt(l.Prop())
			if q.Value != Unassigned && q.Level == e.decisionLevel() {
				atCurrent++
				if atCurrent > e.params.LearnOrder {
					return noClause
				}
			}
		}
	}

	id := e.newLearnedFromWr(allowUnit)
	c := e.clauseAt(id)
	for _, l := range c.Literals {
		e.propAt(l.Prop()).occsFor(l.Sign()).addLearned(id)
	}
	if c.OpenLits == 1 {
		e.pushUnitLearned(c)
	}
	e.stats.LearnedAdded++
	return id
}

// makeReasonFromWr synthesizes a detached reason clause from the working
// reason: it lives in the learned arena but is linked into no occurrence
// list and never replayed, existing only so conflict analysis can resolve
// through the assignment it justifies. It is released when that assignment
// is retracted.
func (e *Engine) makeReasonFromWr() ClauseID {
	if len(e.wrLits) == 0 {
		return noClause
	}
	return e.newLearnedFromWr(forbidUnit)
}

func (e *Engine) newLearnedFromWr(unitLink int) ClauseID {
	lits := make([]Literal, len(e.wrLits))
	copy(lits, e.wrLits)

	idx := len(e.learned)
	id := learnedID(idx)
	e.learned = append(e.learned, Clause{
		ID:        id,
		Literals:  lits,
		OpenLits:  countOpen(e, lits),
		PosLitNum: countPos(lits),
		Subsumer:  noProp,
		Learned:   e.decisionLevel(),
		unitLink:  unitLink,
		nhIndex:   -1,
	})
	return id
}

func countOpen(e *Engine, lits []Literal) int {
	n := 0
	for _, l := range lits {
		if e.propAt(l.Prop()).Value == Unassigned {
			n++
		}
	}
	return n
}

func countPos(lits []Literal) int {
	n := 0
	for _, l := range lits {
		if l.Sign() {
			n++
		}
	}
	return n
}

// unlearn removes a learned clause from every occurrence list, from the
// unit-learned stack if present, and marks it dead.
func (e *Engine) unlearn(id ClauseID) {
	c := e.clauseAt(id)
	if c.removed {
		return
	}
	for _, l := range c.Literals {
		e.propAt(l.Prop()).occsFor(l.Sign()).removeLearned(id)
	}
	if c.unitLink >= 0 {
		e.removeFromUnitLearned(c)
	}
	c.removed = true
	e.stats.LearnedPruned++
}

// Backjump performs conflict-directed backjumping from the given conflict
// clause: it resolves the working reason backward through the trail,
// skipping splits that did not contribute to the conflict, learns along the
// way when enabled, and re-extends the most recent contributing split as a
// right-split carrying its synthesized reason. It reports ok=false when the
// working reason empties or the trail is exhausted (the formula is UNSAT).
// On ok=true the caller resumes the main search loop; units queued by the
// re-extension are left on bcpStack for it.
func (e *Engine) Backjump(conflict ClauseID) bool {
	e.flushStacks()
	e.initWr(conflict)

	// wrClause is the learned clause whose literals equal the current
	// working reason, when the most recent resolution step learned one.
	wrClause := noClause

	for len(e.trail) > 0 {
		n := len(e.trail) - 1
		id := e.trail[n]
		p := e.propAt(id)

		if e.litInWr.Contains(int(id)) {
			switch p.Mode {
			case Unit, RightSplit, Failed:
				e.trail = e.trail[:n]
				wasSplit := p.Mode.IsSplit()
				e.resolveWithWr(id, p.Reason)
				e.retract(id)
				if wasSplit {
					e.trailLim = e.trailLim[:len(e.trailLim)-1]
				}
				if len(e.wrLits) == 0 {
					return false // resolved the empty clause
				}
				wrClause = noClause
				if e.params.Learning && e.shouldLearn() {
					wrClause = e.learnFromWr()
				}
				continue

			case LeftSplit:
				e.trail = e.trail[:n]
				flipped := p.Value.Opposite()
				e.retract(id)
				e.trailLim = e.trailLim[:len(e.trailLim)-1]

				// Replay learned clauses that became unit above the level
				// being reopened.
				if e.params.Learning {
					if c, bad := e.replayUnitLearned(e.decisionLevel() + 1); bad {
						e.flushStacks()
						e.initWr(c)
						wrClause = noClause
						continue
					}
					if e.propAt(id).Value != Unassigned {
						// The replay assigned the split itself; resume the
						// search from here instead of flipping.
						return true
					}
				}

				reason := wrClause
				if reason == noClause {
					reason = e.makeReasonFromWr()
				}
				e.propAt(id).Reason = reason
				if c := e.extendSplit(id, flipped, RightSplit); c != noClause {
					e.flushStacks()
					e.initWr(c)
					wrClause = noClause
					continue
				}
				return true
			}
		}

		// Not in the working reason (or a pure-literal assignment, which can
		// never contribute to a conflict): skip it.
		e.popTrailTop()
	}

	return false
}

// replayUnitLearned pushes every learned clause that is currently unit and
// was learned at or above the given level back through BCP. If a replay
// derives a conflict it is returned with bad=true so the caller can continue
// backjumping from it.
func (e *Engine) replayUnitLearned(level int) (ClauseID, bool) {
	for i := len(e.unitLearned) - 1; i >= 0; i-- {
		if i >= len(e.unitLearned) {
			continue // the stack shrank under us
		}
		cid := e.unitLearned[i]
		if e.clauseAt(cid).Learned < level {
			continue
		}
		e.bcpStack = append(e.bcpStack, cid)
		e.stats.UnitReplays++
		if conflict := e.BCP(); conflict != noClause {
			return conflict, true
		}
	}
	return noClause, false
}
