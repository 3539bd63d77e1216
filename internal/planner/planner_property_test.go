package planner_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/tolga/roomopt/internal/bnb"
	"github.com/tolga/roomopt/internal/dummygen"
	"github.com/tolga/roomopt/internal/mipmodel"
	"github.com/tolga/roomopt/internal/model"
	"github.com/tolga/roomopt/internal/planner"
	"github.com/tolga/roomopt/internal/solvectx"
)

// genCliqueProblem builds a small, arbitrary, always-feasible problem:
// reservations never overlap more than the room count allows, so the MIP
// always has a solution to check the clique constraint against.
func genCliqueProblem(t *rapid.T) *model.Problem {
	numRooms := rapid.IntRange(1, 3).Draw(t, "numRooms")
	rooms := make([]model.Room, numRooms)
	for i := range rooms {
		rooms[i] = model.Room{Number: fmt.Sprintf("R%d", i+1), Type: model.DefaultRoomType, Adjacent: map[string]struct{}{}}
	}

	start, err := model.ParseDate("2026-02-01")
	require.NoError(t, err)

	// Lay reservations end-to-end per room so no day is ever double-booked
	// by construction, and the solver's job is purely to find that
	// arrangement (or an equivalent one).
	numStays := rapid.IntRange(1, numRooms*2).Draw(t, "numStays")
	reservations := make([]model.Reservation, numStays)
	cursor := start
	for i := range reservations {
		length := rapid.IntRange(1, 4).Draw(t, fmt.Sprintf("len%d", i))
		reservations[i] = model.Reservation{
			Name: fmt.Sprintf("G%d", i), ID: fmt.Sprintf("g%d", i),
			Arrival: cursor, Length: length, Type: model.DefaultRoomType,
		}
		cursor = cursor.Add(length)
	}

	return &model.Problem{
		ProblemID:        "clique-prop",
		Rooms:            rooms,
		Reservations:     reservations,
		MinimumStay:      1,
		MinimumStayByDay: map[int]int{},
	}
}

// TestCliqueSatisfaction exercises the property named in spec §8: within
// one solved plan, no room ever holds more than one real stay on the same
// day. (planner.Result only surfaces real-stay assignments, so this checks
// the real-stay side of the per-day clique equality; dummy occupancy is
// exercised indirectly — an assignment that violated it would never reach
// StatusOptimal/StatusFeasibleWithGap in the first place.)
func TestCliqueSatisfaction(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := genCliqueProblem(rt)
		ctx, err := solvectx.Build(p)
		require.NoError(rt, err)

		dummies := dummygen.Generate(ctx)
		result := planner.Plan(ctx, dummies, bnb.Solver{}, mipmodel.Options{RelativeGap: 0.01, TimeLimit: 5 * time.Second})
		if result.Status != mipmodel.StatusOptimal && result.Status != mipmodel.StatusFeasibleWithGap {
			return
		}

		all := append([]solvectx.Stay(nil), ctx.Stays...)
		all = append(all, dummies...)
		assignment := map[int]string{}
		for i := range ctx.Stays {
			assignment[i] = result.Assignments[i]
		}

		for d := ctx.ScheduleStart; d < ctx.ScheduleEnd; d++ {
			perRoom := map[string]int{}
			for i, s := range all {
				if !s.Covers(d) {
					continue
				}
				room, ok := assignment[i]
				if !ok {
					continue // dummy stays settle fractionally; only real assignments are checked here
				}
				perRoom[room]++
			}
			for _, r := range ctx.Rooms {
				require.LessOrEqual(rt, perRoom[r.Number], 1,
					"room %s on day %s must not hold more than one real stay", r.Number, d)
			}
		}
	})
}
