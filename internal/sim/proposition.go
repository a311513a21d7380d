package sim

// ClauseID indexes into the engine's dense clause arena.
type ClauseID int32

const noClause ClauseID = -1
const noProp PropID = -1

// occList is an occurrence list: a sequence of clause handles in which a
// proposition occurs under one polarity, partitioned into an original
// prefix and a learned suffix by an explicit split index.
type occList struct {
	handles []ClauseID
	split   int // handles[:split] are originals, handles[split:] are learned
}

// addOriginal appends a clause during the build phase, before finalize
// freezes the original/learned split. Callers must never call this after
// freezeSplit.
func (o *occList) addOriginal(c ClauseID) {
	o.handles = append(o.handles, c)
	o.split = len(o.handles)
}

// freezeSplit marks every clause currently in the list as original; it is
// called once per proposition by finalize.
func (o *occList) freezeSplit() { o.split = len(o.handles) }

func (o *occList) addLearned(c ClauseID) {
	o.handles = append(o.handles, c)
}

func (o *occList) removeLearned(c ClauseID) {
	for i := o.split; i < len(o.handles); i++ {
		if o.handles[i] == c {
			last := len(o.handles) - 1
			o.handles[i] = o.handles[last]
			o.handles = o.handles[:last]
			return
		}
	}
}

func (o *occList) originals() []ClauseID { return o.handles[:o.split] }
func (o *occList) learned() []ClauseID   { return o.handles[o.split:] }
func (o *occList) all() []ClauseID       { return o.handles }

// Proposition is a boolean variable known to the engine.
type Proposition struct {
	ID    PropID
	Value Value
	Mode  Mode
	Level int // decision depth at assignment time; -1 until first assigned, stale after retraction

	posOccs occList
	negOccs occList

	// Reason is the clause that forced this assignment during unit
	// propagation, or noClause for decisions.
	Reason ClauseID

	// modelIndex is this proposition's index in Engine.modelProps, or -1 if
	// it is not declared independent.
	modelIndex int

	// pureTag records a pending pure-literal tag: 0 = none, +1 = positive
	// only seen, -1 = negative only seen. Set when the proposition is pushed
	// to mlfStack; cleared when MLF assigns it or the pending pure-literal
	// work is flushed.
	pureTag int8
	onMLF   bool

	// removed marks a proposition dropped by finalize because it ended up
	// with no occurrences at all.
	removed bool
}

func (p *Proposition) occsFor(sign bool) *occList {
	if sign {
		return &p.posOccs
	}
	return &p.negOccs
}

// Clause is a disjunction of literals tracked by the engine.
type Clause struct {
	ID        ClauseID
	Literals  []Literal
	OpenLits  int // literals not yet falsified
	PosLitNum int // static-ish count of positive literals, maintained live

	// Subsumer is the proposition whose current value currently satisfies
	// this clause, or noProp if the clause is open.
	Subsumer PropID

	// Learned is -1 for original clauses, otherwise the decision level at
	// which this clause was learned.
	Learned int

	// unitLink is this clause's index in Engine.unitLearned when it is on
	// the unit-learned stack, allowUnit when it is eligible but not on the
	// stack, or forbidUnit for detached reason clauses whose becoming-unit
	// must never cause replay.
	unitLink int

	// nhIndex is this clause's index in Engine.nhClauses, or -1 when it is
	// not (or no longer) tracked there.
	nhIndex int

	// removed marks a learned clause that has been unlearned (or a detached
	// reason clause that has been released); its slot in Engine.learned is
	// retained for stable ClauseIDs but the clause itself is dead.
	removed bool
}

const (
	allowUnit  = -1
	forbidUnit = -2
)

func (c *Clause) isOriginal() bool { return c.Learned < 0 }

// isNonHorn reports whether this clause has more than one positive literal.
func (c *Clause) isNonHorn() bool { return c.PosLitNum > 1 }
