// Package feasibility is the Feasibility Runner (spec §4.8): given a solved
// baseline plan and a problem's NewReservations, it pre-checks each
// candidate against the baseline's absolute max-stay table, splits the
// survivors into one-night fragments, and runs the Initial Plan Solver
// twice on the enlarged problem — once with every pre-existing stay pinned
// to its baseline room (Variant A, "Initial"), once fully free (Variant B,
// "Optimized") — to compare how much re-optimisation actually buys.
package feasibility

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tolga/roomopt/internal/dummygen"
	"github.com/tolga/roomopt/internal/mipmodel"
	"github.com/tolga/roomopt/internal/model"
	"github.com/tolga/roomopt/internal/planner"
	"github.com/tolga/roomopt/internal/restrictderive"
	"github.com/tolga/roomopt/internal/restrictfinal"
	"github.com/tolga/roomopt/internal/solvectx"
)

// RoomChangeCount is the number of room changes (coalesced-segment count
// minus one) a new reservation incurs in each variant; -1 means the
// reservation could not be placed in that variant at all.
type RoomChangeCount struct {
	Initial   int
	Optimized int
}

// Variant is one of the two C4 re-solves spec §4.8 step 3 runs.
type Variant struct {
	Context     *solvectx.Context
	Assignments map[int]string
	Status      mipmodel.Status
	Derived     *restrictderive.Derived
	Final       *restrictfinal.Final
}

// Outcome is everything the Result Assembler (C9) needs from one
// feasibility run.
type Outcome struct {
	// PreCheckFailures maps a NewReservations index to the explanatory
	// message spec §4.8 step 1 produces when the trial can't possibly fit
	// the baseline's absolute max-stay, without running any MIP.
	PreCheckFailures map[int]string

	VariantA *Variant
	VariantB *Variant

	RoomChanges map[int]RoomChangeCount

	// QualityInitial/QualityOptimized tally, for every non-fully-booked
	// day in the enlarged horizon, a histogram of MinStayCovering values —
	// spec §4.8 step 5.
	QualityInitial   map[int]int
	QualityOptimized map[int]int

	// splitGroupOf maps a NewReservations index (for entries that passed
	// the pre-check) to the split-group id its fragments share.
	splitGroupOf map[int]int
}

// AnyPlaced reports whether at least one new reservation survived the
// pre-check and was placed in Variant B.
func (o *Outcome) AnyPlaced() bool {
	for _, rc := range o.RoomChanges {
		if rc.Optimized >= 0 {
			return true
		}
	}
	return false
}

// CoalescedPlan returns variant's room assignment for new-reservation index
// i, coalescing consecutive one-night fragments that landed in the same
// room back into single labelled entries (spec §4.8 step 4). ok is false
// when i failed the pre-check.
func (o *Outcome) CoalescedPlan(variant *Variant, i int) (entries []model.PlanEntry, ok bool) {
	g, ok := o.splitGroupOf[i]
	if !ok {
		return nil, false
	}
	return coalesce(variant.Context, variant.Assignments, g), true
}

// Run executes spec §4.8 end to end. p is the full problem (including
// NewReservations); sc/baselineAssignment are the context and C4 result of
// the ordinary solve over p.Reservations alone.
func Run(p *model.Problem, sc *solvectx.Context, baselineAssignment map[int]string, backend mipmodel.Backend, opts mipmodel.Options) (*Outcome, error) {
	baselineDerived := restrictderive.Derive(sc, baselineAssignment, p.TestNewBooking)

	out := &Outcome{
		PreCheckFailures: map[int]string{},
		splitGroupOf:     map[int]int{},
	}
	var feasibleIdx []int
	for i, nr := range p.NewReservations {
		absMax := baselineDerived.AbsoluteMaxStayStartingOn[nr.Arrival]
		if nr.Length > absMax {
			out.PreCheckFailures[i] = fmt.Sprintf(
				"%s: requested %d night(s) starting %s but at most %d fit without re-optimization",
				nr.Name, nr.Length, nr.Arrival, absMax)
			continue
		}
		feasibleIdx = append(feasibleIdx, i)
	}
	if len(feasibleIdx) == 0 {
		return out, nil
	}

	augmented, splitGroupOf := buildAugmentedProblem(p, feasibleIdx)
	out.splitGroupOf = splitGroupOf

	ctxA, err := solvectx.Build(augmented)
	if err != nil {
		return nil, err
	}
	for i := range p.Reservations {
		if room, ok := baselineAssignment[i]; ok {
			ctxA.FixedForSolver[i] = room
		}
	}
	planA := planner.Plan(ctxA, dummygen.Generate(ctxA), backend, opts)
	out.VariantA = buildVariant(ctxA, planA)

	ctxB, err := solvectx.Build(augmented)
	if err != nil {
		return nil, err
	}
	planB := planner.Plan(ctxB, dummygen.Generate(ctxB), backend, opts)
	out.VariantB = buildVariant(ctxB, planB)

	out.RoomChanges = map[int]RoomChangeCount{}
	for _, i := range feasibleIdx {
		g := splitGroupOf[i]
		out.RoomChanges[i] = RoomChangeCount{
			Initial:   roomChangeCount(ctxA, planA, g),
			Optimized: roomChangeCount(ctxB, planB, g),
		}
	}

	out.QualityInitial = histogram(out.VariantA)
	out.QualityOptimized = histogram(out.VariantB)

	return out, nil
}

func buildVariant(sc *solvectx.Context, plan planner.Result) *Variant {
	derived := restrictderive.Derive(sc, plan.Assignments, false)
	final := restrictfinal.Derive(sc, derived, nil)
	return &Variant{
		Context:     sc,
		Assignments: plan.Assignments,
		Status:      plan.Status,
		Derived:     derived,
		Final:       final,
	}
}

func histogram(v *Variant) map[int]int {
	h := map[int]int{}
	for d, val := range v.Final.MinStayCovering {
		if v.Derived.FullyBookedDays[d] {
			continue
		}
		h[val]++
	}
	return h
}

// roomChangeCount implements spec §4.8 step 5's "count(split) − 1" per new
// reservation: -1 when the variant's solve didn't place it at all.
func roomChangeCount(sc *solvectx.Context, plan planner.Result, group int) int {
	if plan.Status == mipmodel.StatusInfeasible || plan.Status == mipmodel.StatusTimeout {
		return -1
	}
	idxs := sc.SplitGroups[group]
	if len(idxs) == 0 {
		return -1
	}
	segments := 1
	prevRoom := plan.Assignments[idxs[0]]
	for _, idx := range idxs[1:] {
		if room := plan.Assignments[idx]; room != prevRoom {
			segments++
			prevRoom = room
		}
	}
	return segments - 1
}

// coalesce merges consecutive same-room one-night fragments of split group
// g into single PlanEntry records.
func coalesce(sc *solvectx.Context, assignments map[int]string, g int) []model.PlanEntry {
	idxs := sc.SplitGroups[g]
	var out []model.PlanEntry
	for i := 0; i < len(idxs); {
		room := assignments[idxs[i]]
		start := sc.Stays[idxs[i]].Start
		j := i + 1
		for j < len(idxs) &&
			assignments[idxs[j]] == room &&
			sc.Stays[idxs[j]].Start == sc.Stays[idxs[j-1]].Start.Add(1) {
			j++
		}
		group := g
		out = append(out, model.PlanEntry{
			Room:       room,
			Arrival:    start.String(),
			Length:     j - i,
			SplitGroup: &group,
		})
		i = j
	}
	return out
}

// buildAugmentedProblem returns a copy of p whose Reservations carry every
// original reservation plus one-night fragments for each new reservation
// named in feasibleIdx, and the split-group id assigned to each.
func buildAugmentedProblem(p *model.Problem, feasibleIdx []int) (*model.Problem, map[int]int) {
	augmented := *p
	augmented.Reservations = append([]model.Reservation(nil), p.Reservations...)

	splitGroupOf := make(map[int]int, len(feasibleIdx))
	nextGroup := nextSplitGroupID(p.Reservations)
	for _, i := range feasibleIdx {
		nr := p.NewReservations[i]
		g := nextGroup
		nextGroup++
		splitGroupOf[i] = g
		for night := 0; night < nr.Length; night++ {
			frag := nr
			frag.ID = uuid.NewString()
			frag.Arrival = nr.Arrival.Add(night)
			frag.Length = 1
			frag.Locked = false
			frag.AssignedRoom = ""
			sg := g
			frag.SplitGroup = &sg
			augmented.Reservations = append(augmented.Reservations, frag)
		}
	}
	return &augmented, splitGroupOf
}

func nextSplitGroupID(res []model.Reservation) int {
	max := -1
	for _, r := range res {
		if r.SplitGroup != nil && *r.SplitGroup > max {
			max = *r.SplitGroup
		}
	}
	return max + 1
}
