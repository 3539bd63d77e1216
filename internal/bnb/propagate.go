package bnb

import (
	"math"

	"github.com/tolga/roomopt/internal/mipmodel"
)

const eps = 1e-7

// propagate tightens lb/ub to a fixpoint using each constraint in turn,
// rewritten as `sum(coef*x) <= rhs` (GreaterThanOrEqual is handled by
// negation, Equal by applying both directions). It reports false the
// moment any constraint proves infeasible under the current bounds.
func (sr *search) propagate(lb, ub []float64) bool {
	for iter := 0; iter < 50; iter++ {
		changed := false
		for _, c := range sr.constraints {
			switch c.sense {
			case mipmodel.LessThanOrEqual:
				ok, ch := tightenLE(c.terms, c.rhs, lb, ub, sr.vars)
				if !ok {
					return false
				}
				changed = changed || ch
			case mipmodel.GreaterThanOrEqual:
				ok, ch := tightenLE(negate(c.terms), -c.rhs, lb, ub, sr.vars)
				if !ok {
					return false
				}
				changed = changed || ch
			case mipmodel.Equal:
				ok, ch := tightenLE(c.terms, c.rhs, lb, ub, sr.vars)
				if !ok {
					return false
				}
				changed = changed || ch
				ok, ch = tightenLE(negate(c.terms), -c.rhs, lb, ub, sr.vars)
				if !ok {
					return false
				}
				changed = changed || ch
			}
		}
		if !changed {
			return true
		}
	}
	return true
}

func negate(terms []term) []term {
	out := make([]term, len(terms))
	for i, t := range terms {
		out[i] = term{coef: -t.coef, v: t.v}
	}
	return out
}

// tightenLE enforces sum(coef_i * x_i) <= rhs by narrowing each x_i's
// bound in turn, holding the others at whichever extreme makes the sum
// smallest (standard interval/bound-consistency propagation).
func tightenLE(terms []term, rhs float64, lb, ub []float64, vars []varKind) (ok bool, changed bool) {
	minSum := 0.0
	minContrib := make([]float64, len(terms))
	for i, t := range terms {
		if t.coef >= 0 {
			minContrib[i] = t.coef * lb[t.v]
		} else {
			minContrib[i] = t.coef * ub[t.v]
		}
		minSum += minContrib[i]
	}
	if minSum > rhs+eps {
		return false, false
	}
	for i, t := range terms {
		if t.coef == 0 {
			continue
		}
		maxAllowed := rhs - (minSum - minContrib[i])
		if t.coef > 0 {
			cand := maxAllowed / t.coef
			if vars[t.v].binary {
				cand = math.Floor(cand + eps)
			}
			if cand < ub[t.v]-eps {
				ub[t.v] = cand
				changed = true
			}
		} else {
			cand := maxAllowed / t.coef
			if vars[t.v].binary {
				cand = math.Ceil(cand - eps)
			}
			if cand > lb[t.v]+eps {
				lb[t.v] = cand
				changed = true
			}
		}
		if lb[t.v] > ub[t.v]+eps {
			return false, changed
		}
	}
	return true, changed
}
