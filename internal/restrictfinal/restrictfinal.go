// Package restrictfinal is the Final Restrictions component (spec §4.7): it
// projects the starting-day stay bounds C5/C6 produce onto covering-day
// bounds — "what does day d' see, given every stay that could start on or
// before it and still cover it" — and strips closed-arrival/departure flags
// and max-stay entries made redundant by the covering projection.
package restrictfinal

import (
	"github.com/tolga/roomopt/internal/model"
	"github.com/tolga/roomopt/internal/restrictderive"
	"github.com/tolga/roomopt/internal/solvectx"
)

// Final holds the per-day covering tables and the pruned closure flags,
// ready for the Result Assembler (spec §4.9) to key by ISO date.
type Final struct {
	MinStayCovering map[model.Date]int
	// MaxStayCovering holds only the days where the covering max differs
	// from the previous day or from that day's own starting-day max — spec
	// §4.7's "encode only transitions" pruning. Absent days repeat the
	// value of the nearest preceding present day.
	MaxStayCovering map[model.Date]int
	ClosedArrival   map[model.Date]bool
	ClosedDeparture map[model.Date]bool

	// denseMaxCovering is the same table before the transition-only prune,
	// kept for internal lookups (the stays-avoided analysis, spec §4.9,
	// needs the value for every day, not just where it changes).
	denseMaxCovering map[model.Date]int
}

// MaxCoveringAt returns the covering max-stay for day d, filling in days
// the transition-only MaxStayCovering map omits.
func (f *Final) MaxCoveringAt(d model.Date) int {
	return f.denseMaxCovering[d]
}

// Derive computes Final from a C5 Derived table and an optional C6
// tightened max-stay table. computedMax may be nil or partial: any day
// absent from it falls back to derived.FixedMaxStayStartingOn, exactly as
// spec §4.6 intends for days the runner never examined (fully booked or
// arrival-closed).
func Derive(sc *solvectx.Context, derived *restrictderive.Derived, computedMax map[model.Date]int) *Final {
	days := daysInHorizon(sc)
	horizonLen := int(sc.ScheduleEnd - sc.ScheduleStart)

	f := &Final{
		MinStayCovering: projectMin(sc, derived, days, horizonLen),
		ClosedArrival:   copyBoolMap(derived.ClosedArrival),
		ClosedDeparture: copyBoolMap(derived.ClosedDeparture),
	}
	maxCover := projectMax(sc, derived, computedMax, days, horizonLen)
	f.denseMaxCovering = maxCover

	pruneClosedArrival(f, derived)
	pruneFullyBooked(f, derived)
	f.MaxStayCovering = pruneMaxTransitions(days, maxCover, derived, computedMax)

	return f
}

func startingMax(derived *restrictderive.Derived, computedMax map[model.Date]int, d model.Date) int {
	if computedMax != nil {
		if v, ok := computedMax[d]; ok {
			return v
		}
	}
	return derived.FixedMaxStayStartingOn[d]
}

// projectMin implements spec §4.7's min-stay covering projection: for every
// start day d with starting min-stay m, every day in [d, d+m) records m if
// it is smaller than what it has already seen.
func projectMin(sc *solvectx.Context, derived *restrictderive.Derived, days []model.Date, horizonLen int) map[model.Date]int {
	cover := make(map[model.Date]int, len(days))
	for _, d := range days {
		cover[d] = horizonLen
	}
	for _, d := range days {
		m := derived.MinStayStartingOn[d]
		if m <= 0 {
			continue
		}
		for dp := d; dp < d.Add(m) && dp < sc.ScheduleEnd; dp++ {
			if m < cover[dp] {
				cover[dp] = m
			}
		}
	}
	return cover
}

// projectMax implements spec §4.7's max-stay covering projection: days
// before the first day every room has received its first arrival default
// to the full horizon length (no stay has covered them yet to constrain
// them); thereafter each start day's max-stay is recorded onto every day it
// covers, keeping the largest value seen.
func projectMax(sc *solvectx.Context, derived *restrictderive.Derived, computedMax map[model.Date]int, days []model.Date, horizonLen int) map[model.Date]int {
	cover := make(map[model.Date]int, len(days))
	for _, d := range days {
		if derived.DayRoomsFirstFilled >= 0 && d <= derived.DayRoomsFirstFilled {
			cover[d] = horizonLen
		}
	}
	for _, d := range days {
		M := startingMax(derived, computedMax, d)
		if M <= 0 {
			continue
		}
		for dp := d; dp < d.Add(M) && dp < sc.ScheduleEnd; dp++ {
			if M > cover[dp] {
				cover[dp] = M
			}
		}
	}
	return cover
}

// pruneClosedArrival drops closedArrival[d] when the min-stay already
// covering d forbids arriving there at all (spec §4.7 prune 1).
func pruneClosedArrival(f *Final, derived *restrictderive.Derived) {
	for d := range f.ClosedArrival {
		if f.MinStayCovering[d] > derived.AbsoluteMaxStayStartingOn[d] {
			delete(f.ClosedArrival, d)
		}
	}
}

// pruneFullyBooked drops the closure flags a fully-booked day makes
// redundant (spec §4.7 prune 2): a fully booked day can be neither an
// arrival nor a departure target, and the minStayStartingOn days right
// after it can't be a departure target either.
func pruneFullyBooked(f *Final, derived *restrictderive.Derived) {
	for fday := range derived.FullyBookedDays {
		delete(f.ClosedArrival, fday)
		delete(f.ClosedDeparture, fday)
		span := derived.MinStayStartingOn[fday.Add(1)]
		for i := 1; i <= span; i++ {
			delete(f.ClosedDeparture, fday.Add(i))
		}
	}
}

// pruneMaxTransitions keeps only the days where the covering max changes
// from the previous day or differs from that day's own starting-day max
// (spec §4.7 prune 3: "encode only transitions").
//
// spec.md §4.7 is followed literally here: drop when v == prevVal AND v ==
// startMax. The original source's FinalRestrictions.py instead keeps a day
// when v == startMax OR v != prevVal — i.e. it drops on the opposite
// startMax test (v == prevVal AND v != startMax) — and additionally drops
// every day with day <= ScheduleStart or day+startMax >= ScheduleEnd
// unconditionally, which spec.md does not mention. Per spec.md §9's
// instruction to preserve rather than silently resolve source ambiguities,
// this implementation follows spec.md's literal wording over the source's
// (see DESIGN.md's "Open Question decisions" for the recorded rationale)
// and does not add the source's extra unconditional drops, since spec.md
// never names them as part of this prune.
func pruneMaxTransitions(days []model.Date, maxCover map[model.Date]int, derived *restrictderive.Derived, computedMax map[model.Date]int) map[model.Date]int {
	pruned := make(map[model.Date]int, len(days))
	havePrev := false
	prevVal := 0
	for _, d := range days {
		v := maxCover[d]
		startMax := startingMax(derived, computedMax, d)
		if havePrev && v == prevVal && v == startMax {
			prevVal = v
			continue
		}
		pruned[d] = v
		prevVal = v
		havePrev = true
	}
	return pruned
}

func daysInHorizon(sc *solvectx.Context) []model.Date {
	days := make([]model.Date, 0, int(sc.ScheduleEnd-sc.ScheduleStart))
	for d := sc.ScheduleStart; d < sc.ScheduleEnd; d++ {
		days = append(days, d)
	}
	return days
}

func copyBoolMap(m map[model.Date]bool) map[model.Date]bool {
	out := make(map[model.Date]bool, len(m))
	for k, v := range m {
		if v {
			out[k] = v
		}
	}
	return out
}
