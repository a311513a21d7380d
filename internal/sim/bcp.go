package sim

// BCP propagates the unit-clause rule to fixpoint. It returns the conflict
// clause if propagation derives an empty clause, or noClause on a clean
// fixpoint. The caller (not BCP) is responsible for clearing bcpStack
// afterwards.
func (e *Engine) BCP() ClauseID {
	for len(e.bcpStack) > 0 {
		n := len(e.bcpStack) - 1
		cid := e.bcpStack[n]
		e.bcpStack = e.bcpStack[:n]

		c := e.clauseAt(cid)
		if c.removed || c.Subsumer != noProp || c.OpenLits != 1 {
			continue // lost its eligibility while queued
		}

		lit, ok := findUnassignedLiteral(e, c)
		if !ok {
			// A learned clause can reach one open literal with every literal
			// assigned (the open one being satisfied); there is nothing to
			// propagate then.
			continue
		}

		p := e.propAt(lit.Prop())
		p.Value = Lift(lit.Sign())
		p.Mode = Unit
		p.Level = e.decisionLevel()
		p.Reason = cid
		e.stats.Propagations++

		if conflict := e.extend(p.ID); conflict != noClause {
			return conflict
		}
	}
	return noClause
}

// findUnassignedLiteral locates the single unassigned literal of a unit
// clause.
func findUnassignedLiteral(e *Engine, c *Clause) (Literal, bool) {
	for _, l := range c.Literals {
		p := e.propAt(l.Prop())
		if p.Value == Unassigned {
			return l, true
		}
	}
	return 0, false
}

// extend pushes p onto the trail and propagates the consequences of its
// newly-assigned value through every clause it occurs in. It returns the
// conflict clause, if any. The caller must have set Value, Mode, Level (and
// Reason where applicable) beforehand.
func (e *Engine) extend(id PropID) ClauseID {
	p := e.propAt(id)
	e.trail = append(e.trail, id)

	satSign := p.Value == True
	satOccs := p.occsFor(satSign)
	falseOccs := p.occsFor(!satSign)
	// The falsified occurrences carry positive literals exactly when p was
	// assigned false.
	falsifiedPos := !satSign

	// Subsumptions (original occurrences only; learned clauses are never
	// subsumed, only resolved).
	for _, cid := range satOccs.originals() {
		c := &e.clauses[cid]
		if c.Subsumer != noProp {
			continue
		}
		c.Subsumer = id
		e.openClauseCount--
		if e.params.HornRelaxation && c.isNonHorn() {
			e.untrackNonHorn(c)
		}
	}

	conflict := noClause

	// Resolutions (original occurrences).
	for _, cid := range falseOccs.originals() {
		c := &e.clauses[cid]
		if c.Subsumer != noProp {
			continue
		}
		c.OpenLits--
		switch c.OpenLits {
		case 1:
			e.bcpStack = append(e.bcpStack, cid)
		case 0:
			if conflict == noClause {
				conflict = cid
			}
			// Keep processing the remaining occurrences so retraction stays
			// in balance.
		}
		if falsifiedPos {
			if e.params.HornRelaxation && c.PosLitNum == 2 {
				e.untrackNonHorn(c)
			}
			c.PosLitNum--
		}
	}

	// Resolutions (learned occurrences).
	for _, cid := range falseOccs.learned() {
		c := e.clauseAt(cid)
		if c.removed {
			continue
		}
		c.OpenLits--
		switch c.OpenLits {
		case 1:
			e.bcpStack = append(e.bcpStack, cid)
			if c.unitLink == allowUnit {
				e.pushUnitLearned(c)
			}
		case 0:
			if conflict == noClause {
				conflict = cid
			}
			if c.unitLink >= 0 {
				e.removeFromUnitLearned(c)
			}
		}
	}

	return conflict
}

// retract is the exact inverse of extend: it undoes the bookkeeping done
// when p was assigned and clears its value. The caller pops p from the trail
// itself. Mode and Level are left stale, as nothing reads them for an
// unassigned proposition.
func (e *Engine) retract(id PropID) {
	p := e.propAt(id)

	// Right splits and failed literals own the reason clause synthesized for
	// them during conflict analysis; release it.
	if p.Mode == RightSplit || p.Mode == Failed {
		e.releaseReason(p)
	}

	satSign := p.Value == True
	satOccs := p.occsFor(satSign)
	falseOccs := p.occsFor(!satSign)
	falsifiedPos := !satSign

	p.Value = Unassigned

	for _, cid := range satOccs.originals() {
		c := &e.clauses[cid]
		if c.Subsumer != id {
			continue
		}
		c.Subsumer = noProp
		e.openClauseCount++
		if e.params.HornRelaxation && c.isNonHorn() {
			e.retrackNonHorn(c)
		}
	}

	for _, cid := range falseOccs.originals() {
		c := &e.clauses[cid]
		if c.Subsumer != noProp {
			continue
		}
		c.OpenLits++
		if falsifiedPos {
			if e.params.HornRelaxation && c.PosLitNum == 1 {
				e.retrackNonHorn(c)
			}
			c.PosLitNum++
		}
	}

	// Learned occurrences, iterated in reverse because unlearning compacts
	// the list in place.
	for i := len(falseOccs.handles) - 1; i >= falseOccs.split; i-- {
		cid := falseOccs.handles[i]
		c := e.clauseAt(cid)
		if c.removed {
			continue
		}
		c.OpenLits++
		if e.params.LearnType == RelevanceBounded && c.OpenLits > e.params.LearnOrder {
			e.unlearn(cid)
			continue
		}
		switch c.OpenLits {
		case 1:
			if c.unitLink == allowUnit {
				e.pushUnitLearned(c)
			}
		case 2:
			if c.unitLink >= 0 {
				e.removeFromUnitLearned(c)
			}
		}
	}
}

// releaseReason destroys a detached reason clause held by a right-split or
// failed-literal assignment. Reasons that were learned into the clause
// database outlive the assignment; relevance bounding prunes those.
func (e *Engine) releaseReason(p *Proposition) {
	if p.Reason != noClause && isLearnedID(p.Reason) {
		c := e.clauseAt(p.Reason)
		if c.unitLink == forbidUnit {
			c.removed = true
		}
	}
	p.Reason = noClause
}

func (e *Engine) untrackNonHorn(c *Clause) {
	if c.nhIndex < 0 {
		return
	}
	last := len(e.nhClauses) - 1
	e.nhClauses[c.nhIndex] = e.nhClauses[last]
	e.clauseAt(e.nhClauses[c.nhIndex]).nhIndex = c.nhIndex
	e.nhClauses = e.nhClauses[:last]
	c.nhIndex = -1
}

func (e *Engine) retrackNonHorn(c *Clause) {
	if c.nhIndex >= 0 {
		return
	}
	c.nhIndex = len(e.nhClauses)
	e.nhClauses = append(e.nhClauses, c.ID)
}

func (e *Engine) pushUnitLearned(c *Clause) {
	c.unitLink = len(e.unitLearned)
	e.unitLearned = append(e.unitLearned, c.ID)
}

func (e *Engine) removeFromUnitLearned(c *Clause) {
	i := c.unitLink
	last := len(e.unitLearned) - 1
	e.unitLearned[i] = e.unitLearned[last]
	e.clauseAt(e.unitLearned[i]).unitLink = i
	e.unitLearned = e.unitLearned[:last]
	c.unitLink = allowUnit
}

// MLF propagates pending pure literals to fixpoint, interleaving BCP so the
// units each fixing produces are propagated before the next pure literal. It
// is a no-op unless PureLiteral is enabled.
func (e *Engine) MLF() ClauseID {
	if !e.params.PureLiteral {
		return noClause
	}
	for len(e.mlfStack) > 0 {
		if e.openClauseCount == 0 {
			e.mlfStack = e.mlfStack[:0]
			break
		}

		n := len(e.mlfStack) - 1
		id := e.mlfStack[n]
		e.mlfStack = e.mlfStack[:n]

		p := e.propAt(id)
		if !p.onMLF || p.Value != Unassigned {
			continue // lost its eligibility while queued
		}
		p.onMLF = false
		if p.pureTag == 0 {
			continue
		}

		p.Value = Lift(p.pureTag > 0)
		if p.pureTag > 0 {
			p.Mode = PurePos
		} else {
			p.Mode = PureNeg
		}
		p.pureTag = 0
		p.Level = e.decisionLevel()
		p.Reason = noClause
		e.stats.PureLits++

		if conflict := e.extend(p.ID); conflict != noClause {
			return conflict
		}
		if conflict := e.BCP(); conflict != noClause {
			return conflict
		}
	}
	return noClause
}
