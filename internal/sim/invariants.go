package sim

import "fmt"

// CheckInvariants re-derives the engine's core bookkeeping from scratch and
// compares it against the incrementally maintained state. It is the debug
// counterpart to the consistency checks the search loop relies on at every
// step; callers (typically tests, or a host running in a debug
// configuration) invoke it between search steps, never on the hot path.
func (e *Engine) CheckInvariants() error {
	if err := e.checkOpenLits(); err != nil {
		return err
	}
	if err := e.checkOpenClauseCount(); err != nil {
		return err
	}
	if err := e.checkTrailLevelsMonotonic(); err != nil {
		return err
	}
	if err := e.checkNonHornIndex(); err != nil {
		return err
	}
	return e.checkUnitLearned()
}

// checkOpenLits confirms that for every open clause, OpenLits is the count
// of literals not yet falsified. Subsumed clauses are excluded: their
// bookkeeping is frozen while a satisfying assignment holds them closed.
func (e *Engine) checkOpenLits() error {
	check := func(c *Clause) error {
		want := 0
		for _, l := range c.Literals {
			v := e.propAt(l.Prop()).Value
			if v == Unassigned || v == Lift(l.Sign()) {
				want++
			}
		}
		if want != c.OpenLits {
			return fmt.Errorf("clause %d: OpenLits = %d, want %d", c.ID, c.OpenLits, want)
		}
		return nil
	}
	for i := range e.clauses {
		if e.clauses[i].Subsumer != noProp {
			continue
		}
		if err := check(&e.clauses[i]); err != nil {
			return err
		}
	}
	for i := range e.learned {
		c := &e.learned[i]
		if c.removed || c.unitLink == forbidUnit {
			continue
		}
		if err := check(c); err != nil {
			return err
		}
	}
	return nil
}

// checkOpenClauseCount confirms the running open-clause counter against a
// fresh scan of the Subsumer fields.
func (e *Engine) checkOpenClauseCount() error {
	open := 0
	for i := range e.clauses {
		if e.clauses[i].Subsumer == noProp {
			open++
		}
	}
	if open != e.openClauseCount {
		return fmt.Errorf("openClauseCount = %d, want %d", e.openClauseCount, open)
	}
	return nil
}

// checkTrailLevelsMonotonic confirms every trail entry's Level is
// non-decreasing from the bottom of the trail to the top.
func (e *Engine) checkTrailLevelsMonotonic() error {
	last := -1
	for _, id := range e.trail {
		lvl := e.propAt(id).Level
		if lvl < last {
			return fmt.Errorf("trail level decreased: prop %d has level %d after level %d", id, lvl, last)
		}
		last = lvl
	}
	return nil
}

// checkNonHornIndex confirms nhClauses contains exactly the currently-open
// original clauses with more than one positive literal, each back-linked at
// its recorded index. The index is only maintained under HornRelaxation.
func (e *Engine) checkNonHornIndex() error {
	if !e.params.HornRelaxation {
		return nil
	}
	for i := range e.clauses {
		c := &e.clauses[i]
		tracked := c.nhIndex >= 0
		want := c.Subsumer == noProp && c.isNonHorn()
		if tracked != want {
			return fmt.Errorf("clause %d: non-Horn tracking = %v, want %v (posLitNum %d)", c.ID, tracked, want, c.PosLitNum)
		}
		if tracked && e.nhClauses[c.nhIndex] != c.ID {
			return fmt.Errorf("clause %d: nhClauses[%d] holds %d", c.ID, c.nhIndex, e.nhClauses[c.nhIndex])
		}
	}
	return nil
}

// checkUnitLearned confirms unitLearned contains exactly the live learned
// clauses whose current OpenLits is 1, each back-linked at its recorded
// index.
func (e *Engine) checkUnitLearned() error {
	for i := range e.learned {
		c := &e.learned[i]
		if c.removed || c.unitLink == forbidUnit {
			continue
		}
		onStack := c.unitLink >= 0
		if (c.OpenLits == 1) != onStack {
			return fmt.Errorf("clause %d: OpenLits=%d but unitLearned membership=%v", c.ID, c.OpenLits, onStack)
		}
		if onStack && e.unitLearned[c.unitLink] != c.ID {
			return fmt.Errorf("clause %d: unitLearned[%d] holds %d", c.ID, c.unitLink, e.unitLearned[c.unitLink])
		}
	}
	return nil
}

// RetractAll undoes every assignment on the trail, in LIFO order, down to
// the builder-finalize state. It is used to verify the round-trip property
// that assigning then retracting everything returns the clause database to
// its starting point.
func (e *Engine) RetractAll() {
	e.flushStacks()
	for len(e.trail) > 0 {
		e.popTrailTop()
	}
}

// AllClausesOpen reports whether every live clause (original and learned)
// has OpenLits equal to its literal count and no Subsumer, the state
// expected immediately after RetractAll.
func (e *Engine) AllClausesOpen() bool {
	for i := range e.clauses {
		c := &e.clauses[i]
		if c.OpenLits != len(c.Literals) || c.Subsumer != noProp {
			return false
		}
	}
	for i := range e.learned {
		c := &e.learned[i]
		if c.removed || c.unitLink == forbidUnit {
			continue
		}
		if c.OpenLits != len(c.Literals) {
			return false
		}
	}
	return true
}
