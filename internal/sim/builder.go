package sim

// Builder implements incremental clause assembly: newClause → addLit* →
// commitClause. Exactly one clause may be pending at a time.

// AddLitResult is returned by AddLit to let the caller distinguish the
// silent outcomes (duplicate, tautology) from an ordinary append.
type AddLitResult uint8

const (
	Added AddLitResult = iota
	Duplicate
	Tautology
)

// NewClause opens a new pending clause and returns its handle. It fails if a
// clause is already pending.
func (e *Engine) NewClause() (ClauseID, error) {
	if e.pending != nil {
		return 0, throw(InternalError, LocBuilder, "a clause is already pending")
	}
	e.pending = &Clause{Learned: -1, Subsumer: noProp, unitLink: allowUnit, nhIndex: -1}
	e.pendingHandle = ClauseID(len(e.clauses))
	e.pendingOccs = e.pendingOccs[:0]
	return e.pendingHandle, nil
}

// AddLit adds a signed literal to the pending clause identified by h. Zero
// and out-of-range variable indices are rejected; duplicates are silently
// dropped; a literal whose negation is already present turns the whole
// pending clause into a destroyed tautology.
func (e *Engine) AddLit(h ClauseID, signed int) (AddLitResult, error) {
	if e.pending == nil || h != e.pendingHandle {
		return 0, throw(InternalError, LocBuilder, "no matching pending clause")
	}
	if signed == 0 {
		return 0, throw(InternalError, LocBuilder, "literal 0 is not a valid variable index")
	}
	v := abs(signed)
	if e.params.MaxVarIndex > 0 && v > e.params.MaxVarIndex {
		return 0, throw(InternalError, LocBuilder, "variable index %d exceeds configured maximum %d", v, e.params.MaxVarIndex)
	}

	lit := SignedLit(signed)
	for _, l := range e.pending.Literals {
		if l == lit {
			return Duplicate, nil
		}
		if l == lit.Opposite() {
			e.destroyPending()
			return Tautology, nil
		}
	}

	prop := e.propForVar(lit.Prop())
	e.pending.Literals = append(e.pending.Literals, lit)
	e.pending.OpenLits++
	if lit.Sign() {
		e.pending.PosLitNum++
	}
	e.recordPendingOcc(prop, lit.Sign())

	return Added, nil
}

// propForVar returns the proposition for variable id, creating it on demand.
func (e *Engine) propForVar(id PropID) *Proposition {
	for int(id) >= len(e.props) {
		e.props = append(e.props, Proposition{
			ID:         PropID(len(e.props)),
			Value:      Unassigned,
			Reason:     noClause,
			Level:      -1,
			modelIndex: -1,
		})
	}
	return &e.props[id]
}

func (e *Engine) recordPendingOcc(p *Proposition, sign bool) {
	p.occsFor(sign).addOriginal(e.pendingHandle)
	e.pendingOccs = append(e.pendingOccs, pendingOcc{prop: p.ID, sign: sign})
}

// destroyPending discards the pending clause and rewinds any occurrences
// already recorded for it (tautology handling).
func (e *Engine) destroyPending() {
	for _, occ := range e.pendingOccs {
		p := e.propAt(occ.prop)
		list := p.occsFor(occ.sign)
		list.handles = list.handles[:len(list.handles)-1]
		list.split = len(list.handles)
	}
	e.pending = nil
	e.pendingOccs = e.pendingOccs[:0]
}

// CommitClause finalizes the pending clause identified by h. An explicitly
// empty NewClause/CommitClause pair is discarded silently and returns 0. A
// tautology found by AddLit destroys the pending clause outright, so a later
// CommitClause on that handle returns an error rather than acting as a
// no-op.
func (e *Engine) CommitClause(h ClauseID) (int, error) {
	if e.pending == nil || h != e.pendingHandle {
		return 0, throw(InternalError, LocBuilder, "no matching pending clause")
	}
	c := e.pending
	e.pending = nil

	if len(c.Literals) == 0 {
		// discard; rewind the (empty) occurrence bookkeeping for symmetry.
		e.pendingOccs = e.pendingOccs[:0]
		return 0, nil
	}

	c.ID = ClauseID(len(e.clauses))
	e.clauses = append(e.clauses, *c)

	if c.OpenLits == 1 {
		e.bcpStack = append(e.bcpStack, c.ID)
	}
	if e.params.HornRelaxation && e.clauses[c.ID].isNonHorn() {
		e.clauses[c.ID].nhIndex = len(e.nhClauses)
		e.nhClauses = append(e.nhClauses, c.ID)
	}

	e.pendingOccs = e.pendingOccs[:0]
	return len(c.Literals), nil
}

// DeclareIndependent marks the given DIMACS-style (1-based, unsigned)
// variable index as a "model" / "independent" proposition
// modelProps): the host's model variables, which heuristics may restrict
// splitting to.
func (e *Engine) DeclareIndependent(varIdx int) {
	p := e.propForVar(PropID(varIdx - 1))
	if p.modelIndex >= 0 {
		return
	}
	p.modelIndex = len(e.modelProps)
	e.modelProps = append(e.modelProps, p.ID)
}

// Finalize runs the post-build pass: drop propositions
// without occurrences, freeze the original/learned occurrence-list split,
// seed pure literals onto mlfStack, and allocate search scratch space.
func (e *Engine) Finalize() {
	for i := range e.props {
		p := &e.props[i]
		if len(p.posOccs.handles) == 0 && len(p.negOccs.handles) == 0 {
			p.removed = true
			if p.modelIndex >= 0 {
				e.removeFromModelProps(p.ID)
			}
			continue
		}
		p.posOccs.freezeSplit()
		p.negOccs.freezeSplit()

		if e.params.PureLiteral {
			switch {
			case len(p.posOccs.handles) > 0 && len(p.negOccs.handles) == 0:
				p.pureTag = 1
				p.onMLF = true
				e.mlfStack = append(e.mlfStack, p.ID)
			case len(p.negOccs.handles) > 0 && len(p.posOccs.handles) == 0:
				p.pureTag = -1
				p.onMLF = true
				e.mlfStack = append(e.mlfStack, p.ID)
			}
		}
	}

	e.openClauseCount = len(e.clauses)

	e.wrLits = make([]Literal, 0, 64)
	for range e.props {
		e.litInWr.Expand()
	}
	e.conflict = noClause
}

func (e *Engine) removeFromModelProps(id PropID) {
	p := e.propAt(id)
	idx := p.modelIndex
	last := len(e.modelProps) - 1
	e.modelProps[idx] = e.modelProps[last]
	e.propAt(e.modelProps[idx]).modelIndex = idx
	e.modelProps = e.modelProps[:last]
	p.modelIndex = -1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
