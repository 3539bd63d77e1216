// Package result is the Result Assembler (spec §4.9): it turns a solved
// plan plus its derived/final restriction tables into the output document,
// performing the "stays avoided" classification and relabeling internal
// stay indices back onto the reservation names and ISO dates external
// callers expect.
package result

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/tolga/roomopt/internal/feasibility"
	"github.com/tolga/roomopt/internal/model"
	"github.com/tolga/roomopt/internal/planner"
	"github.com/tolga/roomopt/internal/restrictderive"
	"github.com/tolga/roomopt/internal/restrictfinal"
	"github.com/tolga/roomopt/internal/solvectx"
)

// Timing carries the wall-clock measurements spec §4.9 wants reported, in
// seconds.
type Timing struct {
	InitialOptimizationTime float64
	TotalTime               float64
}

// MissingInitialAssignment builds the spec §7 result for a solve that never
// reached the MIP because a reservation that had to be fixed had no usable
// room.
func MissingInitialAssignment(problemID string, names []string) *model.Result {
	return &model.Result{
		ProblemId: problemID,
		Succeeded: false,
		Message:   fmt.Sprintf("missing initial assignment for: %s", strings.Join(names, ", ")),
	}
}

// ProvenInfeasible builds the spec §7 result for an initial MIP that
// returned StatusInfeasible.
func ProvenInfeasible(problemID string) *model.Result {
	return &model.Result{
		ProblemId:                 problemID,
		Succeeded:                 false,
		CurrentScheduleInfeasible: true,
		Message:                   "no assignment exists that satisfies every lock and type constraint",
	}
}

// AssembleSolved builds the output document for one solved plan (spec
// §4.9): either the ordinary OptimizedPlan path, or — when
// p.RestrictionsForInitialPlan is set — the InitialPlan/InitialMinStays
// preview path (spec SPEC_FULL.md supplement 1).
func AssembleSolved(
	p *model.Problem,
	sc *solvectx.Context,
	plan planner.Result,
	derived *restrictderive.Derived,
	final *restrictfinal.Final,
	reOpt []model.ReOptimizedPlan,
	t Timing,
) *model.Result {
	byCA, byCD, byMax := staysAvoided(sc, derived, final)

	res := &model.Result{
		ProblemId:               p.ProblemID,
		Succeeded:               true,
		InitialOptimizationTime: t.InitialOptimizationTime,
		TotalTime:               t.TotalTime,
		ScheduleStart:           sc.ScheduleStart.String(),
		ScheduleEnd:             sc.ScheduleEnd.String(),
		Rooms:                   roomNumbers(sc),
		ClosedArrivals:          closedDates(final.ClosedArrival),
		ClosedDepartures:        closedDates(final.ClosedDeparture),
		MinStays:                intDates(final.MinStayCovering),
		MaxStays:                intDates(final.MaxStayCovering),
		NonAdjacentAssignments:  nonAdjacentNames(sc, plan),
		StaysAvoidedByCA:        byCA,
		StaysAvoidedByCD:        byCD,
		StaysAvoidedByMax:       byMax,
		ReOptimizedPlans:        reOpt,
	}

	if p.RestrictionsForInitialPlan {
		res.InitialPlan = PlanEntries(sc, plan.Assignments)
		res.InitialMinStays = intDates(derived.MinStayStartingOn)
	} else {
		res.OptimizedPlan = PlanEntries(sc, plan.Assignments)
	}
	return res
}

// AssembleFeasibility builds the output document for the Feasibility Runner
// path (spec §4.8/§4.9): new reservations are reported alongside the
// Variant B ("Optimized") plan, with a quality/room-change comparison
// against Variant A ("Initial").
func AssembleFeasibility(
	p *model.Problem,
	sc *solvectx.Context,
	baselinePlan planner.Result,
	baselineDerived *restrictderive.Derived,
	baselineFinal *restrictfinal.Final,
	outcome *feasibility.Outcome,
	reOpt []model.ReOptimizedPlan,
	t Timing,
) *model.Result {
	plan, derived, final := baselinePlan, baselineDerived, baselineFinal
	sctx := sc
	if outcome.VariantB != nil && outcome.AnyPlaced() {
		sctx = outcome.VariantB.Context
		plan = planner.Result{Status: outcome.VariantB.Status, Assignments: outcome.VariantB.Assignments}
		derived = outcome.VariantB.Derived
		final = outcome.VariantB.Final
	}

	res := AssembleSolved(p, sctx, plan, derived, final, reOpt, t)

	res.NewReservationInfeasible = len(outcome.PreCheckFailures) > 0
	var messages []string
	for i := range outcome.PreCheckFailures {
		messages = append(messages, outcome.PreCheckFailures[i])
	}

	if outcome.QualityInitial != nil || outcome.QualityOptimized != nil {
		res.QualityComparison = &model.QualityHistogram{
			Initial:       outcome.QualityInitial,
			Optimized:     outcome.QualityOptimized,
			MeanInitial:   weightedMeanCovering(outcome.QualityInitial),
			MeanOptimized: weightedMeanCovering(outcome.QualityOptimized),
		}
	}

	if len(outcome.RoomChanges) > 0 {
		res.RoomChangeComparison = make(map[string]model.RoomChangeCount, len(outcome.RoomChanges))
		for i, rc := range outcome.RoomChanges {
			name := p.NewReservations[i].Name
			res.RoomChangeComparison[name] = model.RoomChangeCount{Initial: rc.Initial, Optimized: rc.Optimized}
			if rc.Optimized < 0 {
				res.NewReservationInfeasible = true
				messages = append(messages, fmt.Sprintf("%s could not be placed even with re-optimization", name))
			}
		}
	}
	if len(messages) > 0 {
		res.Message = strings.Join(messages, "; ")
	}
	return res
}

// PlanEntries converts a room assignment into the labelled entries spec
// §4.9 wants: original reservation names, ISO arrival dates, and the
// adjacency-group/test/split-group metadata carried on each Stay.
func PlanEntries(sc *solvectx.Context, assignments map[int]string) []model.PlanEntry {
	entries := make([]model.PlanEntry, 0, len(assignments))
	for i, s := range sc.Stays {
		room, ok := assignments[i]
		if !ok {
			continue
		}
		entries = append(entries, model.PlanEntry{
			Name:       s.Name,
			Id:         s.ID,
			Room:       room,
			Arrival:    s.Start.String(),
			Length:     s.Length,
			AdjGroup:   s.AdjGroup,
			Test:       s.Test,
			SplitGroup: s.SplitGroup,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Arrival != entries[j].Arrival {
			return entries[i].Arrival < entries[j].Arrival
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

func roomNumbers(sc *solvectx.Context) []string {
	out := make([]string, len(sc.Rooms))
	for i, r := range sc.Rooms {
		out[i] = r.Number
	}
	sort.Strings(out)
	return out
}

func closedDates(m map[model.Date]bool) map[string]bool {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]bool, len(m))
	for d, v := range m {
		if v {
			out[d.String()] = true
		}
	}
	return out
}

func intDates(m map[model.Date]int) map[string]int {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]int, len(m))
	for d, v := range m {
		out[d.String()] = v
	}
	return out
}

func nonAdjacentNames(sc *solvectx.Context, plan planner.Result) map[string][]string {
	if len(plan.NonAdjacentPerGroup) == 0 {
		return nil
	}
	out := make(map[string][]string, len(plan.NonAdjacentPerGroup))
	for g, idxs := range plan.NonAdjacentPerGroup {
		names := make([]string, 0, len(idxs))
		for _, idx := range idxs {
			names = append(names, sc.Stays[idx].Name)
		}
		sort.Strings(names)
		out[g] = names
	}
	return out
}

// staysAvoided implements spec §4.9's "stays-avoided" analysis: for every
// non-fully-booked start day, every candidate length between the day's
// starting min-stay and its absolute max-stay is classified as avoided by
// MAX, CD, or CA, in that precedence, or not avoided at all.
func staysAvoided(sc *solvectx.Context, derived *restrictderive.Derived, final *restrictfinal.Final) (byCA, byCD, byMax map[string][]int) {
	byCA, byCD, byMax = map[string][]int{}, map[string][]int{}, map[string][]int{}
	for d := sc.ScheduleStart; d < sc.ScheduleEnd; d++ {
		if derived.FullyBookedDays[d] {
			continue
		}
		minL := derived.MinStayStartingOn[d]
		maxL := derived.AbsoluteMaxStayStartingOn[d]
		key := d.String()
		for l := minL; l <= maxL; l++ {
			end := d.Add(l)
			switch {
			case l > final.MaxCoveringAt(d):
				byMax[key] = append(byMax[key], l)
			case final.ClosedDeparture[end]:
				byCD[key] = append(byCD[key], l)
			case final.ClosedArrival[d]:
				byCA[key] = append(byCA[key], l)
			}
		}
	}
	return pruneEmpty(byCA), pruneEmpty(byCD), pruneEmpty(byMax)
}

func pruneEmpty(m map[string][]int) map[string][]int {
	for k, v := range m {
		if len(v) == 0 {
			delete(m, k)
		}
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

// weightedMeanCovering reduces a MinStayCovering histogram (value -> day
// count) to a single weighted-mean covering value, so the quality
// comparison carries a one-number summary alongside the full histogram.
func weightedMeanCovering(histogram map[int]int) float64 {
	if len(histogram) == 0 {
		return 0
	}
	values := make([]int, 0, len(histogram))
	for v := range histogram {
		values = append(values, v)
	}
	sort.Ints(values)

	x := make([]float64, len(values))
	w := make([]float64, len(values))
	for i, v := range values {
		x[i] = float64(v)
		w[i] = float64(histogram[v])
	}
	return stat.Mean(x, w)
}
