// Package bnb is the one conforming MIP backend this repository ships for
// internal/mipmodel.Backend: a depth-first branch-and-bound search over the
// model's binary variables, pruned by a box-bound relaxation (the
// objective's value if every constraint were ignored and every variable
// took its most favourable bound) and by interval constraint propagation
// (tightening each variable's bounds from the constraints that mention it,
// to a fixpoint, before branching further).
//
// This is the same clamp-to-feasible-window idiom the teacher's
// calculation package uses for capping (internal/calculation/capping.go),
// generalized from "one value, one window" to "many variables, many linear
// windows that reference each other."
package bnb

import (
	"time"

	"github.com/tolga/roomopt/internal/mipmodel"
)

// Solver implements mipmodel.Backend.
type Solver struct {
	// MaxNodes bounds the search when Options.TimeLimit is unset or very
	// generous, so a pathological model cannot spin forever. Zero means
	// no extra bound beyond the time limit.
	MaxNodes int
}

type term struct {
	coef float64
	v    int
}

type constraint struct {
	sense mipmodel.Sense
	rhs   float64
	terms []term
}

type varKind struct {
	binary bool
	fixed  bool
}

type search struct {
	vars        []varKind
	objCoef     []float64
	constraints []constraint
	byVar       [][]int // constraint indices touching each var; propagate scans every constraint and does not read it

	deadline time.Time
	nodes    int
	maxNodes int

	relGap float64

	haveIncumbent bool
	bestObj       float64
	bestVals      []float64
	globalBound   float64 // root relaxation bound, used to report a gap if time runs out

	favourable []float64 // scratch buffer reused across boxBound calls

	timedOut bool
}

// Optimize runs branch-and-bound to (attempt to) minimize m's objective.
func (s Solver) Optimize(m *mipmodel.Model, opts mipmodel.Options) mipmodel.Solution {
	n := m.NumVars()
	sr := &search{
		vars:     make([]varKind, n),
		objCoef:  make([]float64, n),
		byVar:    make([][]int, n),
		maxNodes: s.MaxNodes,
		relGap:   opts.RelativeGap,
	}
	if opts.TimeLimit > 0 {
		sr.deadline = time.Now().Add(opts.TimeLimit)
	}

	lb := make([]float64, n)
	ub := make([]float64, n)
	extractBounds(m, sr, lb, ub)

	for ci, c := range extractConstraints(m) {
		sr.constraints = append(sr.constraints, c)
		seen := map[int]bool{}
		for _, t := range c.terms {
			if !seen[t.v] {
				seen[t.v] = true
				sr.byVar[t.v] = append(sr.byVar[t.v], ci)
			}
		}
	}

	sr.globalBound = boxBound(sr, lb, ub)
	feasible := sr.propagate(lb, ub)
	if !feasible {
		return mipmodel.Solution{Status: mipmodel.StatusInfeasible}
	}
	sr.branch(lb, ub, 0)

	return sr.result(n)
}

func extractBounds(m *mipmodel.Model, sr *search, lb, ub []float64) {
	// mipmodel.Model keeps variable definitions unexported; reach them via
	// the small accessor below so this package stays decoupled from the
	// model's internal field layout.
	defs := mipmodel.VarDefs(m)
	for i, d := range defs {
		sr.vars[i] = varKind{binary: d.Binary, fixed: d.Fixed}
		if d.Fixed {
			lb[i], ub[i] = d.FixedVal, d.FixedVal
		} else {
			lb[i], ub[i] = d.LB, d.UB
		}
	}
	for _, t := range mipmodel.ObjectiveTerms(m) {
		sr.objCoef[t.Var] += t.Coef
	}
}

func extractConstraints(m *mipmodel.Model) []constraint {
	raw := mipmodel.ConstraintDefs(m)
	out := make([]constraint, len(raw))
	for i, c := range raw {
		terms := make([]term, len(c.Terms))
		for j, t := range c.Terms {
			terms[j] = term{coef: t.Coef, v: t.Var}
		}
		out[i] = constraint{sense: c.Sense, rhs: c.RHS, terms: terms}
	}
	return out
}
