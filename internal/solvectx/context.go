// Package solvectx builds the derived indices a solve needs from a parsed
// Problem: the scheduling horizon, the per-day minimum-stay table, room
// type/adjacency maps, per-reservation allowable room types, and the
// fixed/locked room assignments a solve must respect.
package solvectx

import (
	"fmt"
	"sort"

	"github.com/tolga/roomopt/internal/model"
)

// Stay is the derived (startOrd, endOrd) interval for one reservation,
// keyed by a stable internal integer index.
type Stay struct {
	Index      int
	Name       string
	ID         string
	Start      model.Date
	End        model.Date // exclusive
	Length     int
	AdjGroup   string
	SplitGroup *int
	Test       bool
	Locked     bool
	IsDummy    bool
}

// Covers reports whether the stay's interval covers day d.
func (s Stay) Covers(d model.Date) bool {
	return !d.Before(s.Start) && d.Before(s.End)
}

// Context holds every index derived from a Problem for a single solve.
type Context struct {
	Problem *model.Problem

	MinStart      model.Date
	MaxStart      model.Date
	MaxEnd        model.Date
	ScheduleStart model.Date
	ScheduleEnd   model.Date

	MinStayByDay map[model.Date]int

	Rooms         []model.Room
	RoomByNumber  map[string]model.Room
	TypeToRooms   map[string][]string
	RoomsToType   map[string]string
	AdjacentRooms map[string]struct{} // rooms with at least one adjacency
	RoomAdjacency map[string]map[string]struct{}

	Stays          []Stay     // one per Problem.Reservations entry, same order/index
	AllowableTypes [][]string // per stay index, ordered when TypeOrder is set

	FixedRooms     map[int]string // stay index -> room, for locked reservations
	FixedForSolver map[int]string // stay index -> room, reservations the solver must not move

	AdjacencyGroups map[string][]int // group label -> stay indices, insertion order
	SplitGroups     map[int][]int    // split group id -> ordered stay indices

	CurrentReservationsWithoutAssignedRoom []string
}

// Build derives a Context from a Problem. The problem's
// RequestStartDate/RequestEndDate, when present, widen the schedule horizon.
func Build(p *model.Problem) (*Context, error) {
	ctx := &Context{
		Problem:         p,
		MinStayByDay:    map[model.Date]int{},
		RoomByNumber:    map[string]model.Room{},
		TypeToRooms:     map[string][]string{},
		RoomsToType:     map[string]string{},
		AdjacentRooms:   map[string]struct{}{},
		RoomAdjacency:   map[string]map[string]struct{}{},
		FixedRooms:      map[int]string{},
		FixedForSolver:  map[int]string{},
		AdjacencyGroups: map[string][]int{},
		SplitGroups:     map[int][]int{},
	}
	ctx.buildRoomIndex(p)
	ctx.buildStays(p)
	ctx.buildHorizon(p)
	ctx.buildMinStayByDay(p)
	if err := ctx.buildAllowableTypes(p); err != nil {
		return nil, err
	}
	ctx.buildFixedRooms(p)

	if len(ctx.CurrentReservationsWithoutAssignedRoom) > 0 {
		return ctx, fmt.Errorf("%w: %v", ErrMissingInitialAssignment, ctx.CurrentReservationsWithoutAssignedRoom)
	}
	return ctx, nil
}

func (c *Context) buildRoomIndex(p *model.Problem) {
	c.Rooms = p.Rooms
	for _, r := range p.Rooms {
		c.RoomByNumber[r.Number] = r
		c.TypeToRooms[r.Type] = append(c.TypeToRooms[r.Type], r.Number)
		c.RoomsToType[r.Number] = r.Type
		if len(r.Adjacent) > 0 {
			c.AdjacentRooms[r.Number] = struct{}{}
			adj := make(map[string]struct{}, len(r.Adjacent))
			for a := range r.Adjacent {
				if _, ok := c.RoomByNumber[a]; ok || roomExists(p, a) {
					adj[a] = struct{}{}
				}
			}
			c.RoomAdjacency[r.Number] = adj
		}
	}
	// A second pass is unnecessary: adjacency references are validated by
	// model.ParseProblem, so every entry already names a room in the set.
}

func roomExists(p *model.Problem, number string) bool {
	for _, r := range p.Rooms {
		if r.Number == number {
			return true
		}
	}
	return false
}

func (c *Context) buildStays(p *model.Problem) {
	c.Stays = make([]Stay, len(p.Reservations))
	for i, r := range p.Reservations {
		c.Stays[i] = Stay{
			Index:      i,
			Name:       r.Name,
			ID:         r.ID,
			Start:      r.Arrival,
			End:        r.End(),
			Length:     r.Length,
			AdjGroup:   r.AdjGroup,
			SplitGroup: r.SplitGroup,
			Test:       r.Test,
			Locked:     r.Locked,
		}
		if r.HasAdjGroup() {
			c.AdjacencyGroups[r.AdjGroup] = append(c.AdjacencyGroups[r.AdjGroup], i)
		}
		if r.SplitGroup != nil {
			c.SplitGroups[*r.SplitGroup] = append(c.SplitGroups[*r.SplitGroup], i)
		}
	}
	for g, idxs := range c.SplitGroups {
		sort.Slice(idxs, func(a, b int) bool { return c.Stays[idxs[a]].Start < c.Stays[idxs[b]].Start })
		c.SplitGroups[g] = idxs
	}
}

func (c *Context) buildHorizon(p *model.Problem) {
	minStart, maxStart, maxEnd := c.Stays[0].Start, c.Stays[0].Start, c.Stays[0].End
	for _, s := range c.Stays[1:] {
		minStart = model.Min(minStart, s.Start)
		maxStart = model.Max(maxStart, s.Start)
		maxEnd = model.Max(maxEnd, s.End)
	}
	c.MinStart, c.MaxStart, c.MaxEnd = minStart, maxStart, maxEnd

	scheduleStart, scheduleEnd := minStart, maxEnd
	if p.RequestStartDate != nil {
		scheduleStart = model.Min(scheduleStart, *p.RequestStartDate)
	}
	if p.RequestEndDate != nil {
		scheduleEnd = model.Max(scheduleEnd, *p.RequestEndDate)
	}
	c.ScheduleStart, c.ScheduleEnd = scheduleStart, scheduleEnd
}

func (c *Context) buildMinStayByDay(p *model.Problem) {
	for d := c.ScheduleStart; d <= c.ScheduleEnd; d++ {
		stay := p.MinimumStay
		if v, ok := p.MinimumStayByDay[int(d.Weekday())]; ok {
			stay = v
		}
		for _, dr := range p.MinimumStayByDate {
			if !d.Before(dr.Start) && !dr.End.Before(d) {
				stay = dr.MinimumStay
			}
		}
		c.MinStayByDay[d] = stay
	}
}
