package sim

import "testing"

func newTestEngine() *Engine {
	return NewEngine(Params{MaxVarIndex: 20, MaxClauseCount: 20})
}

func TestBuilder_Tautology(t *testing.T) {
	e := newTestEngine()
	h, err := e.NewClause()
	if err != nil {
		t.Fatalf("NewClause(): %v", err)
	}
	if res, err := e.AddLit(h, 5); err != nil || res != Added {
		t.Fatalf("AddLit(+5) = (%v, %v), want (Added, nil)", res, err)
	}
	res, err := e.AddLit(h, -5)
	if err != nil {
		t.Fatalf("AddLit(-5): %v", err)
	}
	if res != Tautology {
		t.Errorf("AddLit(-5) = %v, want Tautology", res)
	}

	// The pending slot must be clear: a fresh NewClause succeeds.
	if _, err := e.NewClause(); err != nil {
		t.Errorf("NewClause() after tautology: %v, want nil", err)
	}
}

func TestBuilder_Duplicate(t *testing.T) {
	e := newTestEngine()
	h, _ := e.NewClause()
	if res, err := e.AddLit(h, 5); err != nil || res != Added {
		t.Fatalf("AddLit(+5) = (%v, %v), want (Added, nil)", res, err)
	}
	res, err := e.AddLit(h, 5)
	if err != nil {
		t.Fatalf("AddLit(+5) dup: %v", err)
	}
	if res != Duplicate {
		t.Errorf("AddLit(+5) dup = %v, want Duplicate", res)
	}
	n, err := e.CommitClause(h)
	if err != nil {
		t.Fatalf("CommitClause(): %v", err)
	}
	if n != 1 {
		t.Errorf("CommitClause() = %d literals, want 1 (duplicate dropped)", n)
	}
}

func TestBuilder_EmptyClauseIsNoop(t *testing.T) {
	e := newTestEngine()
	h, _ := e.NewClause()
	n, err := e.CommitClause(h)
	if err != nil {
		t.Fatalf("CommitClause(): %v", err)
	}
	if n != 0 {
		t.Errorf("CommitClause() on empty pending clause = %d, want 0", n)
	}
	if e.NumClauses() != 0 {
		t.Errorf("NumClauses() = %d, want 0 (empty clause discarded)", e.NumClauses())
	}
}

func TestBuilder_TautologyDestroysPendingClause(t *testing.T) {
	// addLit(+5); addLit(-5) rewinds the recorded occurrences and destroys
	// the pending clause itself.
	e := newTestEngine()
	h, _ := e.NewClause()
	e.AddLit(h, 5)
	if res, _ := e.AddLit(h, -5); res != Tautology {
		t.Fatalf("AddLit(-5): want Tautology")
	}
	if e.pending != nil {
		t.Fatalf("pending clause should have been destroyed by tautology")
	}
}

func TestBuilder_RejectsZeroLiteral(t *testing.T) {
	e := newTestEngine()
	h, _ := e.NewClause()
	if _, err := e.AddLit(h, 0); err == nil {
		t.Errorf("AddLit(0): want error")
	}
}

func TestBuilder_RejectsOutOfRangeVariable(t *testing.T) {
	e := newTestEngine()
	h, _ := e.NewClause()
	if _, err := e.AddLit(h, 21); err == nil {
		t.Errorf("AddLit(21) with MaxVarIndex=20: want error")
	}
}

func TestBuilder_RejectsSecondPendingClause(t *testing.T) {
	e := newTestEngine()
	if _, err := e.NewClause(); err != nil {
		t.Fatalf("NewClause(): %v", err)
	}
	if _, err := e.NewClause(); err == nil {
		t.Errorf("NewClause() while one is pending: want error")
	}
}

func TestBuilder_AddLitWrongHandle(t *testing.T) {
	e := newTestEngine()
	h, _ := e.NewClause()
	if _, err := e.AddLit(h+1, 1); err == nil {
		t.Errorf("AddLit() with mismatched handle: want error")
	}
}

func addClause(t *testing.T, e *Engine, lits ...int) {
	t.Helper()
	h, err := e.NewClause()
	if err != nil {
		t.Fatalf("NewClause(): %v", err)
	}
	for _, l := range lits {
		if _, err := e.AddLit(h, l); err != nil {
			t.Fatalf("AddLit(%d): %v", l, err)
		}
	}
	if _, err := e.CommitClause(h); err != nil {
		t.Fatalf("CommitClause(): %v", err)
	}
}

func TestFinalize_DropsOccurrencelessProposition(t *testing.T) {
	e := newTestEngine()
	addClause(t, e, 1, 2)
	// Declare variable 3 independent without ever using it in a clause.
	e.DeclareIndependent(3)
	e.Finalize()

	// NumVariables() reports arena size, not live-proposition count: the
	// dropped proposition keeps its slot (stable PropIDs), it is just
	// marked removed and pulled out of modelProps.
	if e.NumVariables() != 3 {
		t.Errorf("NumVariables() = %d, want 3 (arena keeps the dropped slot)", e.NumVariables())
	}
	if e.NumModelProps() != 0 {
		t.Errorf("NumModelProps() = %d, want 0", e.NumModelProps())
	}
}

func TestRoundTrip_AssignRetractRestoresOpenState(t *testing.T) {
	e := newTestEngine()
	addClause(t, e, 1, 2, 3)
	addClause(t, e, -1, 2)
	addClause(t, e, -2, 3)
	e.Finalize()

	if err := e.CheckInvariants(); err != nil {
		t.Fatalf("CheckInvariants() before solve: %v", err)
	}

	res := e.Solve()
	if res.Status != Satisfiable {
		t.Fatalf("Solve() = %v, want Satisfiable", res.Status)
	}

	e.RetractAll()
	if !e.AllClausesOpen() {
		t.Errorf("AllClausesOpen() after RetractAll: want true")
	}
	if err := e.CheckInvariants(); err != nil {
		t.Errorf("CheckInvariants() after RetractAll: %v", err)
	}
}

func TestEnumeration_TwoDistinctModels(t *testing.T) {
	e := NewEngine(Params{SolutionCount: 2, Backjumping: false, Learning: false})
	addClause(t, e, 1, 2)
	e.Finalize()

	res := e.Solve()
	if res.Status != Satisfiable {
		t.Fatalf("Solve() = %v, want Satisfiable", res.Status)
	}
	if len(res.Models) != 2 {
		t.Fatalf("len(Models) = %d, want 2", len(res.Models))
	}
	if res.Models[0][0] == res.Models[1][0] && res.Models[0][1] == res.Models[1][1] {
		t.Errorf("the two enumerated models are identical: %v", res.Models)
	}
	for i, m := range res.Models {
		if !m[0] && !m[1] {
			t.Errorf("model %d = %v does not satisfy (x1 v x2)", i, m)
		}
	}
}
