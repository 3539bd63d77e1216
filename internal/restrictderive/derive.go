// Package restrictderive is the Initial Restrictions Deriver (spec §4.5):
// given a solved room assignment it walks the schedule horizon day by day
// and works out, per day, how long a new stay could start there, how short
// a gap was actually observed, and whether arrivals or departures are
// effectively closed.
//
// The day-by-day bookkeeping here is grounded directly in the gap-tracking
// original this repository's spec was distilled from, not in anything the
// teacher repo does — the teacher has no analogous per-day restriction
// engine, so this package follows the source's index-pointer walk
// (nextArrivalIndex/nextDepartureIndex per room) rather than inventing a
// new algorithm.
package restrictderive

import (
	"sort"

	"github.com/tolga/roomopt/internal/model"
	"github.com/tolga/roomopt/internal/solvectx"
)

// SmallGap is a (day, length) key for NumberOfSmallGapsPerDay.
type SmallGap struct {
	Day    model.Date
	Length int
}

// Derived holds every per-day flag and table computed from one room
// assignment.
type Derived struct {
	Occupancy                map[model.Date]int
	FullyBookedDays          map[model.Date]bool
	FullyBookedOrder         []model.Date // ascending, terminated by a ScheduleEnd sentinel
	AbsoluteMaxStayStartingOn map[model.Date]int
	MinStayStartingOn        map[model.Date]int
	FixedMaxStayStartingOn   map[model.Date]int
	NumberOfSmallGapsPerDay  map[SmallGap]int
	ClosedArrival            map[model.Date]bool
	ClosedDeparture          map[model.Date]bool
	FirstDepartureDay        model.Date

	// DayRoomsFirstFilled is the last day on which some room had not yet
	// received its first arrival (spec §4.7 uses it as the start of the
	// "every day fully open" span in MaxStayCoveringDay).
	DayRoomsFirstFilled model.Date
}

// Derive computes every C5 table for ctx given a stay->room assignment. If
// ignoreTest is set, test-flagged reservations are excluded from the
// occupancy and absolute-max-stay computation only (spec §4.8's pre-check
// variant); every other table always considers every real stay.
func Derive(ctx *solvectx.Context, assignments map[int]string, ignoreTest bool) *Derived {
	days := daysInHorizon(ctx)

	roomArrivals, roomDepartures := buildRoomSequences(ctx, assignments)

	d := &Derived{
		NumberOfSmallGapsPerDay: map[SmallGap]int{},
		ClosedArrival:           map[model.Date]bool{},
		ClosedDeparture:         map[model.Date]bool{},
		FirstDepartureDay:       ctx.MaxEnd,
		DayRoomsFirstFilled:     model.Date(-1),
	}
	for _, s := range ctx.Stays {
		if s.End < d.FirstDepartureDay {
			d.FirstDepartureDay = s.End
		}
	}

	d.computeOccupancyAndAbsoluteMax(ctx, days, ignoreTest)
	d.fillMinMaxStays(ctx, days, roomArrivals, roomDepartures)
	d.generateClosures(ctx, days, roomArrivals, roomDepartures)

	return d
}

func daysInHorizon(ctx *solvectx.Context) []model.Date {
	days := make([]model.Date, 0, int(ctx.ScheduleEnd-ctx.ScheduleStart))
	for d := ctx.ScheduleStart; d < ctx.ScheduleEnd; d++ {
		days = append(days, d)
	}
	return days
}

// buildRoomSequences returns, per room, the sorted arrival and departure
// days of every stay assigned to it, each ending with a sentinel at
// scheduleEnd+minStay+1 so an index walk never runs off the end of the
// slice (spec §4.5).
func buildRoomSequences(ctx *solvectx.Context, assignments map[int]string) (map[string][]model.Date, map[string][]model.Date) {
	arrivals := map[string][]model.Date{}
	departures := map[string][]model.Date{}
	for _, r := range ctx.Rooms {
		arrivals[r.Number] = nil
		departures[r.Number] = nil
	}
	for i, s := range ctx.Stays {
		room, ok := assignments[i]
		if !ok {
			continue
		}
		arrivals[room] = append(arrivals[room], s.Start)
		departures[room] = append(departures[room], s.End)
	}

	sentinel := ctx.ScheduleEnd.Add(ctx.Problem.MinimumStay + 1)
	for _, r := range ctx.Rooms {
		arrivals[r.Number] = append(arrivals[r.Number], sentinel)
		departures[r.Number] = append(departures[r.Number], sentinel)
		sortDates(arrivals[r.Number])
		sortDates(departures[r.Number])
	}
	return arrivals, departures
}

func sortDates(ds []model.Date) {
	sort.Slice(ds, func(i, j int) bool { return ds[i] < ds[j] })
}

// computeOccupancyAndAbsoluteMax implements spec §4.5's occupancy and
// absoluteMaxStayStartingOn tables.
func (d *Derived) computeOccupancyAndAbsoluteMax(ctx *solvectx.Context, days []model.Date, ignoreTest bool) {
	d.Occupancy = map[model.Date]int{}
	d.FullyBookedDays = map[model.Date]bool{}
	numRooms := len(ctx.Rooms)

	for _, day := range days {
		occ := 0
		for _, s := range ctx.Stays {
			if ignoreTest && s.Test {
				continue
			}
			if s.Start <= day && day < s.End {
				occ++
			}
		}
		d.Occupancy[day] = occ
		if occ == numRooms {
			d.FullyBookedDays[day] = true
			d.FullyBookedOrder = append(d.FullyBookedOrder, day)
		}
	}
	d.FullyBookedOrder = append(d.FullyBookedOrder, ctx.ScheduleEnd)

	d.AbsoluteMaxStayStartingOn = map[model.Date]int{}
	nextFull := 0
	for _, day := range days {
		for day >= d.FullyBookedOrder[nextFull] {
			nextFull++
		}
		d.AbsoluteMaxStayStartingOn[day] = int(d.FullyBookedOrder[nextFull] - day)
		if d.FullyBookedDays[day] {
			d.AbsoluteMaxStayStartingOn[day] = 0
		}
	}
}

// fillMinMaxStays implements spec §4.5's minStayStartingOn and
// fixedMaxStayStartingOn tables, plus the numberOfSmallGapsPerDay
// diagnostic, by walking each room's arrival/departure pointers forward in
// lockstep with the day loop.
func (d *Derived) fillMinMaxStays(ctx *solvectx.Context, days []model.Date, roomArrivals, roomDepartures map[string][]model.Date) {
	n := len(ctx.Rooms)
	nextArrivalIdx := make([]int, n)
	nextDepartureIdx := make([]int, n)
	filledForFirstTime := make([]bool, n)
	afterLastDeparture := make([]bool, n)

	naiveMax := map[model.Date]int{}
	minGaps := make([]int, len(days))
	horizonLen := int(ctx.ScheduleEnd - ctx.ScheduleStart)
	for i := range minGaps {
		minGaps[i] = horizonLen
	}

	for i, day := range days {
		naiveMax[day] = 0
		gapsObserved := map[int]int{}
		minStayForDay := ctx.MinStayByDay[day]

		for j, r := range ctx.Rooms {
			arr := roomArrivals[r.Number]
			dep := roomDepartures[r.Number]
			maxR, minR := 0, 0

			if day < arr[nextArrivalIdx[j]] {
				maxR = int(arr[nextArrivalIdx[j]] - day)
				minR = minInt(maxR, minStayForDay)
				naiveMax[day] = maxInt(naiveMax[day], maxR)
			}
			if day >= ctx.MaxEnd {
				naiveMax[day] = int(ctx.ScheduleEnd - day)
			}
			if day >= arr[0] {
				filledForFirstTime[j] = true
			}
			lastDepIdx := len(dep) - minInt(2, len(dep))
			if day >= dep[lastDepIdx] {
				afterLastDeparture[j] = true
			}

			if day == dep[nextDepartureIdx[j]] {
				nextArrivalIdx[j]++
				nextDepartureIdx[j]++
				if nextArrivalIdx[j] == len(arr) {
					maxR, minR = 0, 0
				} else {
					maxR = int(arr[nextArrivalIdx[j]] - day)
					minR = minInt(maxR, minStayForDay)
				}
				if minR > 0 {
					if minR < minStayForDay {
						gapsObserved[minR]++
					}
					minGaps[i] = minInt(minGaps[i], minR)
				}
				naiveMax[day] = maxInt(naiveMax[day], maxR)
			}
		}

		for length, count := range gapsObserved {
			d.NumberOfSmallGapsPerDay[SmallGap{Day: day, Length: length}] = count
		}
		if anyTrue(afterLastDeparture) {
			naiveMax[day] = minInt(naiveMax[day], len(days)-i)
		}
		if countTrue(filledForFirstTime) < n {
			d.DayRoomsFirstFilled = day
		}
	}

	d.FixedMaxStayStartingOn = naiveMax
	d.MinStayStartingOn = map[model.Date]int{}
	for i, day := range days {
		minStayForDay := ctx.MinStayByDay[day]
		v := minInt(minGaps[i], minStayForDay)
		if day < d.FirstDepartureDay {
			v = minStayForDay
		}
		d.MinStayStartingOn[day] = v
	}
}

// generateClosures implements spec §4.5's closedArrival/closedDeparture
// tables: a room opens arrival or departure at a day only under the
// specific gap conditions below; a day is closed overall only when every
// room stays closed.
func (d *Derived) generateClosures(ctx *solvectx.Context, days []model.Date, roomArrivals, roomDepartures map[string][]model.Date) {
	n := len(ctx.Rooms)
	nextArrivalIdx := make([]int, n)
	nextDepartureIdx := make([]int, n)
	startingDeparture := ctx.ScheduleStart.Add(-ctx.Problem.MinimumStay)

	for i, day := range days {
		minStayForDay := ctx.MinStayByDay[day]
		closedArrival := make([]bool, n)
		closedDeparture := make([]bool, n)
		for j := range closedArrival {
			closedArrival[j] = true
			closedDeparture[j] = true
		}

		for j, r := range ctx.Rooms {
			arr := roomArrivals[r.Number]
			dep := roomDepartures[r.Number]

			if day == dep[nextDepartureIdx[j]] && nextDepartureIdx[j] < len(dep)-1 {
				nextArrivalIdx[j]++
				nextDepartureIdx[j]++
			}

			previousDeparture := startingDeparture
			if nextDepartureIdx[j] > 0 {
				previousDeparture = dep[nextDepartureIdx[j]-1]
			}
			nextArrival := arr[minInt(nextArrivalIdx[j], len(arr)-1)]

			if nextArrival-day == 0 && day-previousDeparture > 0 {
				closedDeparture[j] = false
			}
			if i == len(days)-1 {
				closedDeparture[j] = false
			}
			minStayForPrevious := ctx.Problem.MinimumStay
			if v, ok := ctx.MinStayByDay[previousDeparture]; ok {
				minStayForPrevious = v
			}
			if int(day-previousDeparture) >= minStayForPrevious && int(nextArrival-day) >= minStayForDay {
				closedDeparture[j] = false
				closedArrival[j] = false
			}
			if day-previousDeparture == 0 && nextArrival-day > 0 {
				closedArrival[j] = false
			}
		}

		if allTrue(closedArrival) {
			d.ClosedArrival[day] = true
		}
		if allTrue(closedDeparture) {
			d.ClosedDeparture[day] = true
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func countTrue(bs []bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}

func anyTrue(bs []bool) bool {
	for _, b := range bs {
		if b {
			return true
		}
	}
	return false
}

func allTrue(bs []bool) bool {
	for _, b := range bs {
		if !b {
			return false
		}
	}
	return true
}
