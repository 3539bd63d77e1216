// Package dummygen synthesises dummy stays so that the Initial Plan
// Solver's per-day-per-room clique constraint ("exactly one stay — real or
// dummy — covers this room on this day") stays exactly satisfiable even on
// days with no real reservations.
package dummygen

import (
	"sort"

	"github.com/tolga/roomopt/internal/model"
	"github.com/tolga/roomopt/internal/solvectx"
)

// Generate returns the dummy stays for ctx, per spec §4.3. Dummy stays are
// appended after the real stays in index space; the caller removes them
// again once the solve is done (they are never part of a Result).
func Generate(ctx *solvectx.Context) []solvectx.Stay {
	arrivals := distinctSorted(ctx, func(s solvectx.Stay) model.Date { return s.Start })
	departures := distinctSorted(ctx, func(s solvectx.Stay) model.Date { return s.End })
	if len(arrivals) == 0 || len(departures) == 0 {
		return nil
	}
	firstDeparture := departures[0]
	lastArrival := arrivals[len(arrivals)-1]
	fullyBooked := preliminaryFullyBookedDays(ctx)

	var dummies []solvectx.Stay
	next := len(ctx.Stays)
	add := func(start model.Date, length int) {
		if length <= 0 {
			return
		}
		dummies = append(dummies, solvectx.Stay{
			Index:   next,
			Name:    "dummy",
			Start:   start,
			End:     start.Add(length),
			Length:  length,
			IsDummy: true,
		})
		next++
	}

	// Rule 1: fill the gap between each consecutive pair of distinct
	// arrival days that both fall at or before the first departure. The
	// schedule start and the first departure bound that sequence, so a room
	// that is idle from the start of the schedule is covered up to the first
	// departure.
	points := []model.Date{ctx.ScheduleStart}
	for _, a := range arrivals {
		if a <= firstDeparture && a > points[len(points)-1] {
			points = append(points, a)
		}
	}
	if firstDeparture > points[len(points)-1] {
		points = append(points, firstDeparture)
	}
	for i := 0; i+1 < len(points); i++ {
		a, b := points[i], points[i+1]
		if !checkInFeasibility(ctx, a, b.Sub(a)) {
			continue
		}
		add(a, b.Sub(a))
	}

	// Rule 2: fill from each distinct departure day at or after the last
	// arrival through the end of the schedule.
	for _, d := range departures {
		if d < lastArrival {
			continue
		}
		length := ctx.ScheduleEnd.Add(1).Sub(d)
		if length <= 0 {
			continue
		}
		add(d, length)
	}

	// Rule 3: between the first departure and the last arrival, add a
	// ladder of dummy lengths per day so the solver can trade off short
	// vs. long gaps through the objective's gap coefficient.
	for d := firstDeparture; d < lastArrival; d++ {
		if fullyBooked[d] {
			continue
		}
		maxLen := 3 * ctx.MinStayByDay[d]
		for length := 1; length <= maxLen; length++ {
			if int(d)+length > int(ctx.ScheduleEnd) {
				break
			}
			landsOn := d.Add(length)
			if fullyBooked[landsOn] {
				break
			}
			add(d, length)
		}
	}

	return dummies
}

// checkInFeasibility preserves the source's boundary quirk (spec §9): a
// dummy starting before MinStart is allowed through so long as it is long
// enough to cover the pre-start region, rather than being rejected outright
// for merely starting early.
func checkInFeasibility(ctx *solvectx.Context, day model.Date, length int) bool {
	if day >= ctx.MinStart {
		return true
	}
	return length >= ctx.MinStart.Sub(day)
}

func distinctSorted(ctx *solvectx.Context, key func(solvectx.Stay) model.Date) []model.Date {
	seen := map[model.Date]struct{}{}
	var out []model.Date
	for _, s := range ctx.Stays {
		d := key(s)
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// preliminaryFullyBookedDays computes, from the real reservations alone
// (no room assignment needed yet), the days on which every room is already
// spoken for. Occupancy does not depend on which room a stay ends up in,
// only on how many stays cover the day, so this can run before C4.
func preliminaryFullyBookedDays(ctx *solvectx.Context) map[model.Date]bool {
	counts := map[model.Date]int{}
	for _, s := range ctx.Stays {
		for d := s.Start; d < s.End; d++ {
			counts[d]++
		}
	}
	full := map[model.Date]bool{}
	numRooms := len(ctx.Rooms)
	for d, c := range counts {
		if c >= numRooms {
			full[d] = true
		}
	}
	return full
}
