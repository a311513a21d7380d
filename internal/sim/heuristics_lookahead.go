package sim

// Each BCP-based heuristic (Satz, Relsat, Unitie) uses a side-effect-free
// lookahead: examine extends a literal, propagates it to fixpoint, measures
// the effect, then undoes everything.

// examineResult reports what the lookahead observed.
type examineResult struct {
	failed    bool // propagating l derives a conflict (l is a failed literal)
	reduction int  // number of propagations the assignment triggered
}

// examine assigns l, propagates via BCP, measures the effect, then unwinds
// every assignment it made so the engine state is left untouched. When the
// propagation derives a conflict, the working reason is resolved backward
// through the lookahead trail on the way out, so that wrLits holds a reason
// clause for the forced opposite literal; propagateForced picks it up from
// there.
func (e *Engine) examine(l Literal) examineResult {
	mark := len(e.trail)
	p := e.propAt(l.Prop())

	p.Value = Lift(l.Sign())
	p.Mode = Failed
	p.Level = e.decisionLevel()
	p.Reason = noClause

	conflict := e.extend(p.ID)
	if conflict == noClause {
		conflict = e.BCP()
	}

	reduction := 0
	for _, id := range e.trail[mark:] {
		if e.propAt(id).Mode == Unit {
			reduction++
		}
	}

	if conflict != noClause {
		e.initWr(conflict)
		for len(e.trail) > mark {
			n := len(e.trail) - 1
			id := e.trail[n]
			e.trail = e.trail[:n]
			q := e.propAt(id)
			if e.litInWr.Contains(int(id)) && q.Reason != noClause {
				e.resolveWithWr(id, q.Reason)
			}
			e.retract(id)
		}
		e.bcpStack = e.bcpStack[:0]
		return examineResult{failed: true, reduction: reduction}
	}

	e.unwindTo(mark)
	e.bcpStack = e.bcpStack[:0]
	return examineResult{failed: false, reduction: reduction}
}

// unwindTo retracts every trail entry above mark, in LIFO order, without
// touching trailLim (a lookahead never crosses a decision boundary).
func (e *Engine) unwindTo(mark int) {
	for len(e.trail) > mark {
		n := len(e.trail) - 1
		id := e.trail[n]
		e.trail = e.trail[:n]
		e.retract(id)
	}
}

// propagateForced assigns l for real (a failed-literal assignment) and
// drives it through BCP. Under backjumping the working reason left behind by
// the failed examine of l's opposite becomes l's reason clause, so conflict
// analysis can resolve through it later.
func (e *Engine) propagateForced(l Literal) ClauseID {
	p := e.propAt(l.Prop())

	reason := noClause
	if e.params.Backjumping {
		reason = e.makeReasonFromWr()
	}
	p.Value = Lift(l.Sign())
	p.Mode = Failed
	p.Level = e.decisionLevel()
	p.Reason = reason
	e.stats.FailedLits++

	if conflict := e.extend(p.ID); conflict != noClause {
		return conflict
	}
	return e.BCP()
}

// binTernCounts counts, for one proposition, its open occurrences overall
// and in binary and ternary clauses, under each polarity (Satz step 1).
type binTernCounts struct {
	posAll, negAll   int
	posBin, negBin   int
	posTern, negTern int
}

func (e *Engine) countBinTern(v PropID) binTernCounts {
	var bt binTernCounts
	pos, neg := e.openOccs(v)
	bt.posAll, bt.negAll = len(pos), len(neg)
	for _, cid := range pos {
		switch e.clauseAt(cid).OpenLits {
		case 2:
			bt.posBin++
		case 3:
			bt.posTern++
		}
	}
	for _, cid := range neg {
		switch e.clauseAt(cid).OpenLits {
		case 2:
			bt.negBin++
		case 3:
			bt.negTern++
		}
	}
	return bt
}

// tagPure marks v as a pending pure literal (positive when pos is true) and
// queues it for the next MLF pass. Heuristics call this when their scoring
// pass discovers a proposition whose occurrences have collapsed to one
// polarity.
func (e *Engine) tagPure(v PropID, pos bool) {
	p := e.propAt(v)
	if p.onMLF || p.Value != Unassigned {
		return
	}
	if pos {
		p.pureTag = 1
	} else {
		p.pureTag = -1
	}
	p.onMLF = true
	e.mlfStack = append(e.mlfStack, v)
}

// chooseSatz implements the Satz lookahead heuristic: shortlist candidates
// by their binary-clause occurrences (PROP41, then PROP31), probe both
// polarities of each via BCP lookahead, and rank by the reduction counts.
// Pure literals discovered while counting are queued for MLF along the way.
func (e *Engine) chooseSatz(cands []PropID) (Decision, ClauseID, bool) {
	if len(cands) == 0 {
		return Decision{}, noClause, false
	}

	var qualified []satzCandidate

	for _, v := range cands {
		bt := e.countBinTern(v)
		if e.params.PureLiteral && (bt.posAll == 0 || bt.negAll == 0) {
			e.tagPure(v, bt.negAll == 0)
			continue
		}
		if bt.posBin+bt.negBin <= 3 || bt.posBin == 0 || bt.negBin == 0 {
			continue
		}

		// PROP41: probe each polarity via BCP lookahead.
		posLit, negLit := Lit(v), NegLit(v)
		resPos := e.examine(posLit)
		if resPos.failed {
			if conflict := e.propagateForced(negLit); conflict != noClause {
				return Decision{}, conflict, true
			}
			return e.chooseSatz(e.candidates())
		}
		resNeg := e.examine(negLit)
		if resNeg.failed {
			if conflict := e.propagateForced(posLit); conflict != noClause {
				return Decision{}, conflict, true
			}
			return e.chooseSatz(e.candidates())
		}

		qualified = append(qualified, satzCandidate{
			v:    v,
			posR: float64(resPos.reduction),
			negR: float64(resNeg.reduction),
		})
	}

	// PROP31: relax the qualification bar until the shortlist has enough
	// candidates.
	if len(qualified) < satzMinCandidates {
		for _, v := range cands {
			bt := e.countBinTern(v)
			if bt.posBin == 0 || bt.negBin == 0 {
				continue
			}
			if bt.posBin < 2 && bt.negBin < 2 {
				continue
			}
			if containsScored(qualified, v) || e.propAt(v).Value != Unassigned {
				continue
			}
			resPos := e.examine(Lit(v))
			if resPos.failed {
				if conflict := e.propagateForced(NegLit(v)); conflict != noClause {
					return Decision{}, conflict, true
				}
				return e.chooseSatz(e.candidates())
			}
			resNeg := e.examine(NegLit(v))
			if resNeg.failed {
				if conflict := e.propagateForced(Lit(v)); conflict != noClause {
					return Decision{}, conflict, true
				}
				return e.chooseSatz(e.candidates())
			}
			qualified = append(qualified, satzCandidate{v: v, posR: float64(resPos.reduction), negR: float64(resNeg.reduction)})
			if len(qualified) >= satzMinCandidates {
				break
			}
		}
	}

	// Still short: fall back to static weighting over every candidate.
	if len(qualified) < satzMinCandidates {
		for _, v := range cands {
			if containsScored(qualified, v) || e.propAt(v).Value != Unassigned {
				continue
			}
			posR, negR := e.examine0(v)
			qualified = append(qualified, satzCandidate{v: v, posR: posR, negR: negR})
		}
	}

	if len(qualified) == 0 {
		return Decision{}, noClause, false
	}

	best := qualified[0].v
	bestScore := -1.0
	for _, s := range qualified {
		score := s.posR*(s.negR*1024+1) + s.negR + 1
		if score > bestScore {
			bestScore = score
			best = s.v
		}
	}

	return Decision{Prop: best, Sign: true}, noClause, true
}

// satzMinCandidates is the shortlist floor below which Satz keeps relaxing
// its qualification criteria.
const satzMinCandidates = 10

// satzCandidate is one Satz shortlist entry.
type satzCandidate struct {
	v    PropID
	posR float64
	negR float64
}

func containsScored(qs []satzCandidate, v PropID) bool {
	for _, s := range qs {
		if s.v == v {
			return true
		}
	}
	return false
}

// examine0 is the cheap fallback weighting (Examine0): score each polarity
// by the clauses that would newly become binary if v were assigned the other
// way.
func (e *Engine) examine0(v PropID) (posR, negR float64) {
	pos, neg := e.openOccs(v)
	score := func(occs []ClauseID) float64 {
		var w float64
		for _, cid := range occs {
			if e.clauseAt(cid).OpenLits == 3 {
				w += 1
			}
		}
		return w
	}
	return score(pos), score(neg)
}

// chooseRelsat implements the Relsat heuristic: score by binary-clause
// occurrence products, probing each candidate for failed literals along the
// way, then pick uniformly among the candidates within 90% of the best.
func (e *Engine) chooseRelsat(cands []PropID) (Decision, ClauseID, bool) {
	if len(cands) == 0 {
		return Decision{}, noClause, false
	}

	type scored struct {
		v     PropID
		score float64
	}
	var scores []scored
	best := -1.0

	for _, v := range cands {
		bt := e.countBinTern(v)
		pos, neg := float64(bt.posBin), float64(bt.negBin)

		posLit, negLit := Lit(v), NegLit(v)
		if e.examine(posLit).failed {
			if conflict := e.propagateForced(negLit); conflict != noClause {
				return Decision{}, conflict, true
			}
			return e.chooseRelsat(e.candidates())
		}
		if e.examine(negLit).failed {
			if conflict := e.propagateForced(posLit); conflict != noClause {
				return Decision{}, conflict, true
			}
			return e.chooseRelsat(e.candidates())
		}

		score := 2*pos*neg + pos + neg + 1
		scores = append(scores, scored{v: v, score: score})
		if score > best {
			best = score
		}
	}

	threshold := 0.9 * best
	var pool []PropID
	for _, s := range scores {
		if s.score >= threshold {
			pool = append(pool, s.v)
		}
	}
	if len(pool) == 0 {
		pool = cands
	}
	chosen := pool[e.rng.Intn(len(pool))]

	return Decision{Prop: chosen, Sign: true}, noClause, true
}

// chooseUnitie implements the Unitie heuristic: probe both polarities of
// every candidate, score by the product of the reduction counts, and break
// ties toward the candidate whose two probes triggered the most unit
// propagations in total. The tie-break does not count subsumed clauses.
func (e *Engine) chooseUnitie(cands []PropID) (Decision, ClauseID, bool) {
	if len(cands) == 0 {
		return Decision{}, noClause, false
	}

	type scored struct {
		v        PropID
		score    float64
		subsumed int
	}
	var scores []scored
	best := -1.0

	for _, v := range cands {
		posLit, negLit := Lit(v), NegLit(v)

		resPos := e.examine(posLit)
		if resPos.failed {
			if conflict := e.propagateForced(negLit); conflict != noClause {
				return Decision{}, conflict, true
			}
			return e.chooseUnitie(e.candidates())
		}
		resNeg := e.examine(negLit)
		if resNeg.failed {
			if conflict := e.propagateForced(posLit); conflict != noClause {
				return Decision{}, conflict, true
			}
			return e.chooseUnitie(e.candidates())
		}

		pos, neg := float64(resPos.reduction), float64(resNeg.reduction)
		score := pos*neg*1024 + pos + neg + 1
		if e.params.HeuristicParam != 0 {
			score = pos*neg + float64(e.params.HeuristicParam)*(pos+neg)
		}
		subsumed := resPos.reduction + resNeg.reduction

		scores = append(scores, scored{v: v, score: score, subsumed: subsumed})
		if score > best {
			best = score
		}
	}

	var tied []scored
	for _, s := range scores {
		if s.score == best {
			tied = append(tied, s)
		}
	}
	chosen := tied[0]
	for _, s := range tied[1:] {
		if s.subsumed > chosen.subsumed {
			chosen = s
		}
	}

	return Decision{Prop: chosen.v, Sign: true}, noClause, true
}
