package solvectx

import "github.com/tolga/roomopt/internal/model"

// buildFixedRooms computes, per spec §4.2:
//   - FixedRooms: locked reservations must occupy their assigned room.
//   - FixedForSolver: reservations entirely outside
//     [RequestStartDate, RequestEndDate] (when a request window is given)
//     must stay in their current room, because the solve is only
//     authorised to move reservations inside that window.
//
// Any reservation that would need to be fixed but carries no usable room
// is reported in CurrentReservationsWithoutAssignedRoom.
func (c *Context) buildFixedRooms(p *model.Problem) {
	for i, r := range p.Reservations {
		if r.Locked {
			if _, ok := c.RoomByNumber[r.AssignedRoom]; !ok {
				c.CurrentReservationsWithoutAssignedRoom = append(c.CurrentReservationsWithoutAssignedRoom, r.Name)
				continue
			}
			c.FixedRooms[i] = r.AssignedRoom
			continue
		}
		if c.outsideRequestWindow(r) {
			if _, ok := c.RoomByNumber[r.AssignedRoom]; !ok {
				c.CurrentReservationsWithoutAssignedRoom = append(c.CurrentReservationsWithoutAssignedRoom, r.Name)
				continue
			}
			c.FixedForSolver[i] = r.AssignedRoom
		}
	}
}

func (c *Context) outsideRequestWindow(r model.Reservation) bool {
	if c.Problem.RequestStartDate == nil && c.Problem.RequestEndDate == nil {
		return false
	}
	start := c.MinStart
	if c.Problem.RequestStartDate != nil {
		start = *c.Problem.RequestStartDate
	}
	end := c.MaxEnd
	if c.Problem.RequestEndDate != nil {
		end = *c.Problem.RequestEndDate
	}
	return r.End() <= start || r.Arrival >= end
}

// FixedRoomFor returns the room a stay must occupy (locked or out-of-window),
// and whether one exists.
func (c *Context) FixedRoomFor(stayIndex int) (string, bool) {
	if room, ok := c.FixedRooms[stayIndex]; ok {
		return room, true
	}
	room, ok := c.FixedForSolver[stayIndex]
	return room, ok
}
