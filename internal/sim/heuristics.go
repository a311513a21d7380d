package sim

import "github.com/rhartert/yagh"

// Decision is what a branching heuristic returns: the chosen proposition
// and the sign to try first. Solve assigns it as a LeftSplit.
type Decision struct {
	Prop PropID
	Sign bool
}

// candidates returns the branching candidate set: every open proposition,
// or (if IndepProps is set) only those declared independent. When every
// independent proposition is already assigned but clauses remain open, the
// full open set is used so the search can still make progress.
func (e *Engine) candidates() []PropID {
	if e.params.IndepProps {
		out := make([]PropID, 0, len(e.modelProps))
		for _, id := range e.modelProps {
			if e.propAt(id).Value == Unassigned {
				out = append(out, id)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	out := make([]PropID, 0, len(e.props))
	for i := range e.props {
		p := &e.props[i]
		if !p.removed && p.Value == Unassigned {
			out = append(out, p.ID)
		}
	}
	return out
}

// openOccs returns the currently-open clauses (original only) in which id
// occurs, split by sign.
func (e *Engine) openOccs(id PropID) (pos, neg []ClauseID) {
	p := e.propAt(id)
	for _, cid := range p.posOccs.originals() {
		if e.clauseAt(cid).Subsumer == noProp {
			pos = append(pos, cid)
		}
	}
	for _, cid := range p.negOccs.originals() {
		if e.clauseAt(cid).Subsumer == noProp {
			neg = append(neg, cid)
		}
	}
	return
}

// Choose dispatches to the configured heuristic. It returns
// ok=false once there is no open proposition left to branch on.
//
// The inline lookahead heuristics (Satz, Relsat, Unitie) may themselves detect and propagate a failed literal; when that collapses the
// formula to UNSAT they return the conflict clause produced by the
// resulting extend/BCP instead of a Decision.
func (e *Engine) Choose() (Decision, ClauseID, bool) {
	cands := e.candidates()
	if len(cands) == 0 {
		return Decision{}, noClause, false
	}

	switch e.params.Heuristic {
	case HeuristicUSR:
		return e.chooseUSR(cands)
	case HeuristicRND:
		return e.chooseRND(cands)
	case HeuristicJW:
		return e.chooseJW(cands, false)
	case Heuristic2JW:
		return e.chooseJW(cands, true)
	case HeuristicBoehm:
		return e.chooseBoehm(cands)
	case HeuristicMOMS:
		return e.chooseMOMS(cands)
	case HeuristicSato:
		return e.chooseSato(cands)
	case HeuristicSatz:
		return e.chooseSatz(cands)
	case HeuristicRelsat:
		return e.chooseRelsat(cands)
	case HeuristicUnitie:
		return e.chooseUnitie(cands)
	default:
		return e.chooseBoehm(cands)
	}
}

// chooseUSR reads a signed integer supplied out-of-band through
// Engine.USRInput (debug only). If unset, it falls back to the
// first candidate with a positive sign.
func (e *Engine) chooseUSR(cands []PropID) (Decision, ClauseID, bool) {
	if e.USRInput != nil {
		signed := e.USRInput()
		return Decision{Prop: PropID(abs(signed) - 1), Sign: signed > 0}, noClause, true
	}
	return Decision{Prop: cands[0], Sign: true}, noClause, true
}

func (e *Engine) chooseRND(cands []PropID) (Decision, ClauseID, bool) {
	v := cands[e.rng.Intn(len(cands))]
	return Decision{Prop: v, Sign: e.rng.Intn(2) == 0}, noClause, true
}

// jwWeight computes the Jeroslow-Wang weight of the open clauses in occs:
// sum of 2^max(0, 6-|C|).
func jwWeight(e *Engine, occs []ClauseID) float64 {
	var w float64
	for _, cid := range occs {
		c := e.clauseAt(cid)
		n := 6 - c.OpenLits
		if n < 0 {
			n = 0
		}
		w += pow2(n)
	}
	return w
}

func pow2(n int) float64 {
	r := 1.0
	for i := 0; i < n; i++ {
		r *= 2
	}
	return r
}

// chooseJW implements JW and 2JW. combined selects 2JW's
// pos+neg scoring; false selects JW's max(pos,neg) scoring.
func (e *Engine) chooseJW(cands []PropID, combined bool) (Decision, ClauseID, bool) {
	best := cands[0]
	var bestScore float64 = -1
	bestSign := true

	for _, v := range cands {
		pos, neg := e.openOccs(v)
		wp, wn := jwWeight(e, pos), jwWeight(e, neg)

		var score float64
		var sign bool
		if combined {
			score = wp + wn
			sign = wp >= wn
		} else {
			if wp >= wn {
				score, sign = wp, true
			} else {
				score, sign = wn, false
			}
		}

		if score > bestScore {
			bestScore, best, bestSign = score, v, sign
		}
	}

	return Decision{Prop: best, Sign: bestSign}, noClause, true
}

// chooseBoehm implements the Boehm heuristic: maximize
// lexicographically (H, H'), H from clauses of the current minimum length,
// H' from all clauses, H = max*1 + min*2 on the per-proposition positive
// and negative counts.
func (e *Engine) chooseBoehm(cands []PropID) (Decision, ClauseID, bool) {
	minLen := -1
	for _, v := range cands {
		pos, neg := e.openOccs(v)
		for _, occs := range [2][]ClauseID{pos, neg} {
			for _, cid := range occs {
				n := e.clauseAt(cid).OpenLits
				if minLen < 0 || n < minLen {
					minLen = n
				}
			}
		}
	}

	const alpha, beta = 1.0, 2.0
	boehmH := func(posN, negN int) float64 {
		mx, mn := float64(posN), float64(negN)
		if mn > mx {
			mx, mn = mn, mx
		}
		return alpha*mx + beta*mn
	}

	best := cands[0]
	bestSign := true
	var bestH, bestHPrime float64 = -1, -1

	for _, v := range cands {
		pos, neg := e.openOccs(v)
		posMin, negMin := countLen(e, pos, minLen), countLen(e, neg, minLen)
		posAll, negAll := len(pos), len(neg)

		h := boehmH(posMin, negMin)
		hp := boehmH(posAll, negAll)

		if h > bestH || (h == bestH && hp > bestHPrime) {
			bestH, bestHPrime = h, hp
			best = v
			bestSign = posMin >= negMin
		}
	}

	return Decision{Prop: best, Sign: bestSign}, noClause, true
}

func countLen(e *Engine, occs []ClauseID, length int) int {
	n := 0
	for _, cid := range occs {
		if e.clauseAt(cid).OpenLits == length {
			n++
		}
	}
	return n
}

// momsScore computes MOMS: (pos+1)*(neg+1) on occurrence counts. Here
// pos/neg are simply the open-occurrence counts in clauses of the current
// minimum length.
func momsScore(pos, neg int) float64 {
	return float64(pos+1) * float64(neg+1)
}

// chooseMOMS implements MOMS over the full candidate set; Sato reuses the
// same scoring over its shortest-non-Horn subset via momsOn.
func (e *Engine) chooseMOMS(cands []PropID) (Decision, ClauseID, bool) {
	return e.momsOn(cands)
}

func (e *Engine) momsOn(subset []PropID) (Decision, ClauseID, bool) {
	minLen := -1
	for _, v := range subset {
		pos, neg := e.openOccs(v)
		for _, occs := range [2][]ClauseID{pos, neg} {
			for _, cid := range occs {
				n := e.clauseAt(cid).OpenLits
				if minLen < 0 || n < minLen {
					minLen = n
				}
			}
		}
	}

	best := subset[0]
	bestSign := true
	bestScore := -1.0

	for _, v := range subset {
		pos, neg := e.openOccs(v)
		posMin, negMin := countLen(e, pos, minLen), countLen(e, neg, minLen)
		score := momsScore(posMin, negMin)
		if score > bestScore {
			bestScore = score
			best = v
			bestSign = posMin >= negMin
		}
	}

	return Decision{Prop: best, Sign: bestSign}, noClause, true
}

// Sato mode-switch thresholds and caps.
const (
	satoNonHornRatioHigh = 0.2854
	satoNonHornRatioLow  = 0.0236
	satoMaxClauses       = 7
	satoMaxProps         = 7
)

// chooseSato implements the Sato heuristic: pick up to seven
// shortest open non-Horn clauses, collect up to seven of their
// propositions, apply MOMS on that subset.
func (e *Engine) chooseSato(cands []PropID) (Decision, ClauseID, bool) {
	ratio := 0.0
	if e.openClauseCount > 0 {
		ratio = float64(len(e.nhClauses)) / float64(e.openClauseCount)
	}

	if ratio < satoNonHornRatioLow || len(e.nhClauses) == 0 {
		// Too few non-Horn clauses to be worth special-casing: fall back
		// to plain MOMS over all candidates.
		return e.chooseMOMS(cands)
	}

	open := e.satoShortestOpenNonHorn()

	seen := map[PropID]bool{}
	subset := make([]PropID, 0, satoMaxProps)
	for _, cid := range open {
		for _, l := range e.clauseAt(cid).Literals {
			v := l.Prop()
			if e.propAt(v).Value != Unassigned || seen[v] {
				continue
			}
			seen[v] = true
			subset = append(subset, v)
			if len(subset) >= satoMaxProps {
				break
			}
		}
		if len(subset) >= satoMaxProps {
			break
		}
	}
	if len(subset) == 0 {
		subset = cands
	}

	dec, conflict, ok := e.momsOn(subset)
	if ratio < satoNonHornRatioHigh {
		dec.Sign = !dec.Sign
	}
	return dec, conflict, ok
}

// satoShortestOpenNonHorn returns up to satoMaxClauses open non-Horn
// clauses, shortest (fewest open literals) first, using a priority map
// keyed by clause handle with the open-literal count as the cost.
func (e *Engine) satoShortestOpenNonHorn() []ClauseID {
	h := yagh.New[int](len(e.clauses))
	for _, cid := range e.nhClauses {
		if e.clauseAt(cid).Subsumer == noProp {
			h.Put(int(cid), e.clauseAt(cid).OpenLits)
		}
	}
	out := make([]ClauseID, 0, satoMaxClauses)
	for len(out) < satoMaxClauses {
		next, ok := h.Pop()
		if !ok {
			break
		}
		out = append(out, ClauseID(next.Elem))
	}
	return out
}
