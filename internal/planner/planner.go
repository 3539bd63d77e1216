// Package planner is the Initial Plan Solver (spec §4.4): it builds the
// per-stay/per-room assignment MIP from a solver context and a set of
// dummy stays, hands it to a mipmodel.Backend, and translates the solution
// back into a room assignment plus the adjacency violations it produced.
package planner

import (
	"math"
	"sort"

	"github.com/tolga/roomopt/internal/mipmodel"
	"github.com/tolga/roomopt/internal/model"
	"github.com/tolga/roomopt/internal/solvectx"
)

// Result is what one C4 solve produces.
type Result struct {
	Status      mipmodel.Status
	Objective   float64
	Assignments map[int]string // real stay index -> room number

	// NonAdjacentPerGroup lists, per adjacency group, the stay indices whose
	// assigned room is not adjacent to any other stay's room in the group.
	NonAdjacentPerGroup map[string][]int
}

// gapLengthFactor is the "m" in spec §4.3/§4.4's "ℓ ≤ m·minStayByDay[d]"
// bound. Dummy generation already commits to m=3 (the union of the m=2..3
// range named in §4.3); the objective's own cutoff uses the same value so
// every dummy the generator produces also receives a finite gap coefficient.
const gapLengthFactor = 3

// Plan solves the assignment problem for ctx plus the supplied dummy
// stays. dummies are indexed contiguously after ctx.Stays, matching what
// internal/dummygen.Generate returns.
func Plan(ctx *solvectx.Context, dummies []solvectx.Stay, backend mipmodel.Backend, opts mipmodel.Options) Result {
	b := newBuilder(ctx, dummies)
	b.addStayVars()
	b.addGapCoefficients()
	b.addAssignmentConstraints()
	b.addCliqueConstraints()
	b.addAdjacencyConstraints()
	b.addSplitGroupConstraints()

	sol := backend.Optimize(b.model, opts)
	return b.extractResult(sol)
}

type builder struct {
	ctx     *solvectx.Context
	all     []solvectx.Stay // real stays followed by dummies, same index space as vars
	model   *mipmodel.Model
	vars    []map[string]mipmodel.Var // per stay index, room -> var (only allowable rooms)
	nAdjPen float64
}

func newBuilder(ctx *solvectx.Context, dummies []solvectx.Stay) *builder {
	all := make([]solvectx.Stay, 0, len(ctx.Stays)+len(dummies))
	all = append(all, ctx.Stays...)
	all = append(all, dummies...)
	return &builder{
		ctx:     ctx,
		all:     all,
		model:   mipmodel.NewModel(),
		vars:    make([]map[string]mipmodel.Var, len(all)),
		nAdjPen: 100 * math.Pow(2, float64(ctx.Problem.MinimumStay)),
	}
}

func (b *builder) isReal(stayIdx int) bool { return stayIdx < len(b.ctx.Stays) }

// addStayVars declares x[s,r] for every room a stay may occupy: real stays
// are restricted to their allowable room types, dummy stays are allowable
// in every type (spec §4.3). Locked/fixed rooms get a var even when the
// room's type would otherwise exclude it, since a fixed assignment always
// wins.
func (b *builder) addStayVars() {
	for i, s := range b.all {
		allowed := map[string]bool{}
		if b.isReal(i) {
			for _, t := range b.ctx.AllowableTypes[i] {
				allowed[t] = true
			}
		}
		rooms := map[string]mipmodel.Var{}
		for _, r := range b.ctx.Rooms {
			if !b.isReal(i) || allowed[r.Type] {
				if s.IsDummy {
					rooms[r.Number] = b.model.NewContinuousVar(0, 1)
				} else {
					rooms[r.Number] = b.model.NewBinaryVar()
				}
			}
		}
		if b.isReal(i) {
			if fixedRoom, ok := b.ctx.FixedRoomFor(i); ok {
				v, exists := rooms[fixedRoom]
				if !exists {
					v = b.model.NewBinaryVar()
					rooms[fixedRoom] = v
				}
				b.model.FixVar(v, 1)
			}
		}
		b.vars[i] = rooms
	}
}

// addAssignmentConstraints enforces that every real stay occupies exactly
// one room (spec §4.4 "Assignment"). Dummy stays have no such constraint:
// their occupancy is pinned down entirely by the per-day clique equalities.
func (b *builder) addAssignmentConstraints() {
	for i := range b.ctx.Stays {
		c := b.model.NewConstraint(mipmodel.Equal, 1)
		for _, v := range b.vars[i] {
			c.NewTerm(1, v)
		}
	}
}

// addCliqueConstraints enforces exactly one stay (real or dummy) per room
// per day across the schedule horizon (spec §4.4 "Cliques").
func (b *builder) addCliqueConstraints() {
	for d := b.ctx.ScheduleStart; d < b.ctx.ScheduleEnd; d++ {
		for _, r := range b.ctx.Rooms {
			c := b.model.NewConstraint(mipmodel.Equal, 1)
			for i, s := range b.all {
				if !s.Covers(d) {
					continue
				}
				if v, ok := b.vars[i][r.Number]; ok {
					c.NewTerm(1, v)
				}
			}
		}
	}
}

// addAdjacencyConstraints implements spec §4.4's soft adjacency
// constraints: a stay may occupy a non-adjacent room only by "spending"
// slack, and the group as a whole may spend at most one unit of slack per
// member.
func (b *builder) addAdjacencyConstraints() {
	groups := make([]string, 0, len(b.ctx.AdjacencyGroups))
	for g := range b.ctx.AdjacencyGroups {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	for _, g := range groups {
		members := b.ctx.AdjacencyGroups[g]
		if len(members) < 2 {
			continue
		}
		var groupSlacks []mipmodel.Var
		for _, s := range members {
			stayRooms := b.vars[s]
			var openSlacks []mipmodel.Var
			for room, v := range stayRooms {
				neighbours, hasNeighbours := b.ctx.RoomAdjacency[room]
				if !hasNeighbours {
					continue
				}
				o := b.model.NewContinuousVar(0, 1)
				openSlacks = append(openSlacks, o)
				groupSlacks = append(groupSlacks, o)

				c := b.model.NewConstraint(mipmodel.LessThanOrEqual, 0)
				c.NewTerm(1, v)
				c.NewTerm(-1, o)
				for _, other := range members {
					if other == s {
						continue
					}
					for nbr := range neighbours {
						if ov, ok := b.vars[other][nbr]; ok {
							c.NewTerm(-1, ov)
						}
					}
				}
			}

			atLeastOne := b.model.NewConstraint(mipmodel.GreaterThanOrEqual, 1)
			for room := range b.ctx.AdjacentRooms {
				if v, ok := stayRooms[room]; ok {
					atLeastOne.NewTerm(1, v)
				}
			}
			for _, o := range openSlacks {
				atLeastOne.NewTerm(1, o)
			}
		}

		if len(groupSlacks) > 0 {
			groupCap := b.model.NewConstraint(mipmodel.LessThanOrEqual, float64(len(members)))
			for _, o := range groupSlacks {
				groupCap.NewTerm(1, o)
			}
		}

		obj := b.model.Objective()
		for _, o := range groupSlacks {
			obj.NewTerm(b.nAdjPen, o)
		}
	}
}

// addSplitGroupConstraints implements spec §4.4's split-group coupling: a
// room-change indicator between every consecutive pair of fragments, and a
// single type-downgrade indicator per split group.
func (b *builder) addSplitGroupConstraints() {
	groupIDs := make([]int, 0, len(b.ctx.SplitGroups))
	for g := range b.ctx.SplitGroups {
		groupIDs = append(groupIDs, g)
	}
	sort.Ints(groupIDs)

	obj := b.model.Objective()
	for _, g := range groupIDs {
		idxs := b.ctx.SplitGroups[g]
		if len(idxs) < 2 {
			continue
		}
		typeOrder := b.ctx.Problem.Reservations[idxs[0]].TypeOrder
		rankOf := map[string]int{}
		for rank, t := range typeOrder {
			rankOf[t] = rank
		}
		var delta mipmodel.Var
		haveDelta := len(typeOrder) > 0
		if haveDelta {
			delta = b.model.NewContinuousVar(0, 1)
			obj.NewTerm(1, delta)
		}
		bigM := float64(len(typeOrder))

		for i := 0; i+1 < len(idxs); i++ {
			a, c := idxs[i], idxs[i+1]
			cVar := b.model.NewContinuousVar(0, 1)
			obj.NewTerm(100, cVar)

			rooms := map[string]bool{}
			for r := range b.vars[a] {
				rooms[r] = true
			}
			for r := range b.vars[c] {
				rooms[r] = true
			}
			for room := range rooms {
				va, hasA := b.vars[a][room]
				vc, hasC := b.vars[c][room]
				lhs1 := b.model.NewConstraint(mipmodel.LessThanOrEqual, 0)
				if hasA {
					lhs1.NewTerm(1, va)
				}
				if hasC {
					lhs1.NewTerm(-1, vc)
				}
				lhs1.NewTerm(-1, cVar)

				lhs2 := b.model.NewConstraint(mipmodel.LessThanOrEqual, 0)
				if hasC {
					lhs2.NewTerm(1, vc)
				}
				if hasA {
					lhs2.NewTerm(-1, va)
				}
				lhs2.NewTerm(-1, cVar)
			}

			if haveDelta && bigM > 0 {
				downgrade := b.model.NewConstraint(mipmodel.LessThanOrEqual, 0)
				for room, v := range b.vars[c] {
					downgrade.NewTerm(float64(rankOf[roomTypeOf(b.ctx, room)]), v)
				}
				for room, v := range b.vars[a] {
					downgrade.NewTerm(-float64(rankOf[roomTypeOf(b.ctx, room)]), v)
				}
				downgrade.NewTerm(-bigM, delta)
			}
		}
	}
}

func roomTypeOf(ctx *solvectx.Context, room string) string {
	return ctx.RoomsToType[room]
}

// addGapCoefficients applies each dummy stay's gap-length penalty to the
// objective (spec §4.4): long gaps are cheap, short ones expensive, so the
// solver only resorts to a short gap when no longer one is available.
func (b *builder) addGapCoefficients() {
	obj := b.model.Objective()
	for i := len(b.ctx.Stays); i < len(b.all); i++ {
		s := b.all[i]
		coef := gapCoeff(b.ctx, s.Start, s.Length)
		if coef == 0 {
			continue
		}
		for _, v := range b.vars[i] {
			obj.NewTerm(coef, v)
		}
	}
}

// gapCoeff implements spec §4.4's per-dummy objective weight.
func gapCoeff(ctx *solvectx.Context, d model.Date, length int) float64 {
	m := ctx.MinStayByDay[d]
	if length > gapLengthFactor*m {
		return 0
	}
	end := d.Add(length)
	if !(end < ctx.ScheduleEnd) {
		return 0
	}
	if !(d > ctx.ScheduleStart) {
		return 0
	}
	exp := m - length
	if length < m {
		exp++
	}
	return math.Pow(2, float64(exp))
}

// extractResult reads the solved variable values back into a room
// assignment per real stay and computes the adjacency-violation post-pass
// (spec §4.4 "Output"): a stay is reported only when its assigned room has
// no group-mate in its adjacency list at all, not merely when some other
// member happens to land somewhere non-adjacent — a stay with two
// group-mates, one adjacent and one not, is still satisfied.
func (b *builder) extractResult(sol mipmodel.Solution) Result {
	res := Result{
		Status:              sol.Status,
		Objective:           sol.Objective,
		Assignments:         map[int]string{},
		NonAdjacentPerGroup: map[string][]int{},
	}
	if sol.Status == mipmodel.StatusInfeasible || sol.Status == mipmodel.StatusTimeout {
		return res
	}

	for i := range b.ctx.Stays {
		best, bestVal := "", -1.0
		for room, v := range b.vars[i] {
			if val := sol.Value(v); val > bestVal {
				best, bestVal = room, val
			}
		}
		res.Assignments[i] = best
	}

	for g, members := range b.ctx.AdjacencyGroups {
		var violators []int
		for i := 0; i < len(members); i++ {
			ri := res.Assignments[members[i]]
			hasAdjacentMate := false
			for j := 0; j < len(members); j++ {
				if i == j {
					continue
				}
				rj := res.Assignments[members[j]]
				if ri == rj {
					hasAdjacentMate = true
					break
				}
				if _, ok := b.ctx.RoomAdjacency[ri][rj]; ok {
					hasAdjacentMate = true
					break
				}
			}
			if !hasAdjacentMate {
				violators = append(violators, members[i])
			}
		}
		if len(violators) == 0 {
			continue
		}
		sort.Ints(violators)
		res.NonAdjacentPerGroup[g] = violators
	}
	return res
}
