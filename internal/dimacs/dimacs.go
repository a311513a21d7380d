// Package dimacs reads CNF instances in DIMACS text format directly into an
// internal/sim.Engine, and writes models back out in the DIMACS solution
// line convention ("v <lit> <lit> ... 0").
package dimacs

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	rdimacs "github.com/rhartert/dimacs"

	"github.com/felipeblassioli/nusmv-sub005/internal/sim"
)

func reader(filename string, gzipped bool) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			return nil, err
		}
	}
	return rc, nil
}

// engineBuilder adapts rdimacs.Builder to drive an *sim.Engine directly, so
// the DIMACS text is never materialized as an intermediate clause list.
type engineBuilder struct {
	e *sim.Engine
}

// Problem fills the engine's variable- and clause-count parameter slots from
// the "p cnf N M" header so instances larger than the configured defaults
// load without tripping the builder's index limit.
func (b *engineBuilder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("instances of type %q are not supported", problem)
	}
	b.e.SetProblemSize(nVars, nClauses)
	return nil
}

func (b *engineBuilder) Clause(tmpClause []int) error {
	h, err := b.e.NewClause()
	if err != nil {
		return err
	}
	for _, l := range tmpClause {
		res, err := b.e.AddLit(h, l)
		if err != nil {
			return err
		}
		if res == sim.Tautology {
			// The pending clause is already destroyed; drop the rest.
			return nil
		}
	}
	_, err = b.e.CommitClause(h)
	return err
}

// Comment recognizes the "model v1 v2 ... 0" extension: a comment line
// naming the DIMACS variable indices the host considers part of the model,
// terminated by a 0 like a clause line. Declaring a subset restricts
// branching heuristics to it; see Params.IndepProps.
func (b *engineBuilder) Comment(line string) error {
	fields := strings.Fields(line)
	if len(fields) > 0 && fields[0] == "c" {
		fields = fields[1:]
	}
	if len(fields) < 2 || fields[0] != "model" {
		return nil
	}
	for _, f := range fields[1:] {
		v, err := strconv.Atoi(f)
		if err != nil || v <= 0 {
			return nil
		}
		b.e.DeclareIndependent(v)
	}
	return nil
}

// LoadDIMACS reads a DIMACS CNF file (optionally gzip-compressed) from
// filename and builds its clauses directly into e.
func LoadDIMACS(filename string, gzipped bool, e *sim.Engine) error {
	rc, err := reader(filename, gzipped)
	if err != nil {
		return fmt.Errorf("error reading file %q: %s", filename, err)
	}
	defer rc.Close()

	return rdimacs.ReadBuilder(rc, &engineBuilder{e: e})
}

// WriteModel prints model in the DIMACS solution-line convention: one line
// starting with "v", the signed literal for every entry of model, and a
// trailing 0. varIDs gives the 1-based DIMACS variable index that each
// position of model corresponds to (sim.Engine.ModelVarIDs); if nil, model
// is assumed to cover variables 1..len(model) in order.
func WriteModel(w io.Writer, varIDs []int, model []bool) error {
	var sb strings.Builder
	sb.WriteString("v")
	for i, v := range model {
		id := i + 1
		if varIDs != nil {
			id = varIDs[i]
		}
		if v {
			fmt.Fprintf(&sb, " %d", id)
		} else {
			fmt.Fprintf(&sb, " %d", -id)
		}
	}
	sb.WriteString(" 0\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
