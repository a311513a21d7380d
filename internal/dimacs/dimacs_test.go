package dimacs

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/felipeblassioli/nusmv-sub005/internal/sim"
)

func loadInto(t *testing.T, filename string, gzipped bool) *sim.Engine {
	t.Helper()
	e := sim.NewEngine(sim.Params{})
	if err := LoadDIMACS(filename, gzipped, e); err != nil {
		t.Fatalf("LoadDIMACS(%q): %v", filename, err)
	}
	return e
}

var wantClauses = [][]int{
	{1, 2, 3},
	{1, 2, -3},
	{1, -2, 3},
	{-1, 2, 3},
	{-1, -2, 3},
	{-1, 2, -3},
	{1, -2, -3},
	{-1, -2, -3},
}

func clausesOf(e *sim.Engine) [][]int {
	out := make([][]int, e.NumClauses())
	for i := range out {
		out[i] = e.ClauseLiterals(i)
	}
	return out
}

func TestLoadDIMACS_cnf(t *testing.T) {
	e := loadInto(t, "testdata/test_instance.cnf", false)

	if got, want := e.NumVariables(), 3; got != want {
		t.Errorf("NumVariables() = %d, want %d", got, want)
	}
	if diff := cmp.Diff(wantClauses, clausesOf(e)); diff != "" {
		t.Errorf("clauses mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDIMACS_gzip(t *testing.T) {
	e := loadInto(t, "testdata/test_instance.cnf.gz", true)

	if diff := cmp.Diff(wantClauses, clausesOf(e)); diff != "" {
		t.Errorf("clauses mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDIMACS_noFile(t *testing.T) {
	e := sim.NewEngine(sim.Params{})
	if err := LoadDIMACS("testdata/does-not-exist.cnf", false, e); err == nil {
		t.Errorf("LoadDIMACS(): want error, got none")
	}
}

func TestLoadDIMACS_gzip_notGzipFile(t *testing.T) {
	e := sim.NewEngine(sim.Params{})
	if err := LoadDIMACS("testdata/test_instance.cnf", true, e); err == nil {
		t.Errorf("LoadDIMACS(): want error, got none")
	}
}

func TestLoadDIMACS_modelComment(t *testing.T) {
	e := loadInto(t, "testdata/test_instance_model.cnf", false)

	if got, want := e.NumModelProps(), 2; got != want {
		t.Errorf("NumModelProps() = %d, want %d", got, want)
	}
}

// The fixture encodes the full parity contradiction over its three
// variables, so solving it end-to-end must report UNSAT.
func TestLoadDIMACS_SolveEndToEnd(t *testing.T) {
	e := loadInto(t, "testdata/test_instance.cnf", false)
	e.Finalize()
	if res := e.Solve(); res.Status != sim.Unsatisfiable {
		t.Fatalf("Solve() = %v, want %v", res.Status, sim.Unsatisfiable)
	}
}

func TestParseModels(t *testing.T) {
	got, err := ParseModels("testdata/test_instance.models")
	if err != nil {
		t.Fatalf("ParseModels(): %v", err)
	}
	want := [][]bool{
		{true, true, false},
		{false, true, true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseModels() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteModel(t *testing.T) {
	var sb strings.Builder
	if err := WriteModel(&sb, nil, []bool{true, true, false}); err != nil {
		t.Fatalf("WriteModel(): %v", err)
	}
	if got, want := sb.String(), "v 1 2 -3 0\n"; got != want {
		t.Errorf("WriteModel() = %q, want %q", got, want)
	}
}
