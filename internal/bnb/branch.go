package bnb

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/tolga/roomopt/internal/mipmodel"
)

// boxBound is a valid (if loose) lower bound on the objective: every
// constraint is ignored and every variable takes whichever of its current
// bounds is most favourable. Ignoring constraints can only relax the
// problem, so this never overstates the true optimum. The bound itself is
// a plain dot product of the objective coefficients against this
// favourable point.
func boxBound(sr *search, lb, ub []float64) float64 {
	if sr.favourable == nil {
		sr.favourable = make([]float64, len(sr.objCoef))
	}
	favourable := sr.favourable
	for i, coef := range sr.objCoef {
		if coef > 0 {
			favourable[i] = lb[i]
		} else {
			favourable[i] = ub[i]
		}
	}
	return floats.Dot(sr.objCoef, favourable)
}

func (sr *search) timeUp() bool {
	if !sr.deadline.IsZero() && !time.Now().Before(sr.deadline) {
		return true
	}
	if sr.maxNodes > 0 && sr.nodes >= sr.maxNodes {
		return true
	}
	return false
}

// branch explores the search tree depth-first. lb/ub are this node's
// bounds (already propagated to a fixpoint by the caller).
func (sr *search) branch(lb, ub []float64, depth int) {
	if sr.timedOut {
		return
	}
	sr.nodes++
	if sr.timeUp() {
		sr.timedOut = true
		return
	}

	bound := boxBound(sr, lb, ub)
	if sr.haveIncumbent && bound >= sr.bestObj-eps {
		return
	}

	branchVar := -1
	for i, vk := range sr.vars {
		if vk.binary && ub[i]-lb[i] > eps {
			branchVar = i
			break
		}
	}

	if branchVar == -1 {
		sr.considerLeaf(lb, ub)
		return
	}

	first, second := 1.0, 0.0
	if sr.objCoef[branchVar] > 0 {
		first, second = 0.0, 1.0
	}
	for _, val := range [2]float64{first, second} {
		lb2 := append([]float64(nil), lb...)
		ub2 := append([]float64(nil), ub...)
		lb2[branchVar], ub2[branchVar] = val, val
		if sr.propagate(lb2, ub2) {
			sr.branch(lb2, ub2, depth+1)
		}
		if sr.timedOut {
			return
		}
	}
}

// considerLeaf is called once every binary variable is fixed. Continuous
// variables settle at the tightest lower bound propagation found for them
// (valid because every continuous variable this repository's planner
// builds carries a nonnegative objective coefficient, so the minimal
// feasible value is also the optimal one), then every constraint is
// re-checked jointly before accepting the point as a feasible solution.
func (sr *search) considerLeaf(lb, ub []float64) {
	values := make([]float64, len(lb))
	copy(values, lb)

	for _, c := range sr.constraints {
		if !satisfied(c, values) {
			return
		}
	}

	obj := 0.0
	for i, coef := range sr.objCoef {
		obj += coef * values[i]
	}
	if !sr.haveIncumbent || obj < sr.bestObj-eps {
		sr.haveIncumbent = true
		sr.bestObj = obj
		sr.bestVals = values
	}
}

func satisfied(c constraint, values []float64) bool {
	sum := 0.0
	for _, t := range c.terms {
		sum += t.coef * values[t.v]
	}
	switch c.sense {
	case mipmodel.LessThanOrEqual:
		return sum <= c.rhs+eps
	case mipmodel.GreaterThanOrEqual:
		return sum >= c.rhs-eps
	case mipmodel.Equal:
		return math.Abs(sum-c.rhs) <= eps
	default:
		return false
	}
}

// result translates the search outcome into a mipmodel.Solution, per the
// status semantics in spec §4.4/§7: optimal when the tree was exhausted,
// infeasible when it was exhausted with no incumbent, feasibleWithGap when
// time ran out but the incumbent is within the configured relative gap of
// the root relaxation bound, and timeout otherwise.
func (sr *search) result(n int) mipmodel.Solution {
	if !sr.timedOut {
		if sr.haveIncumbent {
			return mipmodel.NewSolution(mipmodel.StatusOptimal, sr.bestObj, sr.bestVals)
		}
		return mipmodel.NewSolution(mipmodel.StatusInfeasible, 0, make([]float64, n))
	}
	if !sr.haveIncumbent {
		return mipmodel.NewSolution(mipmodel.StatusTimeout, 0, make([]float64, n))
	}
	gap := relativeGap(sr.bestObj, sr.globalBound)
	if gap <= sr.relGap {
		return mipmodel.NewSolution(mipmodel.StatusFeasibleWithGap, sr.bestObj, sr.bestVals)
	}
	return mipmodel.NewSolution(mipmodel.StatusTimeout, sr.bestObj, sr.bestVals)
}

func relativeGap(obj, bound float64) float64 {
	if obj == 0 {
		return math.Abs(bound)
	}
	return math.Abs(obj-bound) / math.Abs(obj)
}
