package model

// DefaultRoomType is used for any room whose RoomType field is omitted in
// the input document.
const DefaultRoomType = "Default"

// Room is a physical room: its number, its type, and the set of room
// numbers physically adjacent to it.
type Room struct {
	Number   string
	Type     string
	Adjacent map[string]struct{}
}

// roomDoc is the wire shape of a room entry in the input document.
type roomDoc struct {
	RoomNumber    string   `json:"RoomNumber"`
	RoomType      string   `json:"RoomType,omitempty"`
	AdjacentRooms []string `json:"AdjacentRooms,omitempty"`
}

func roomFromDoc(d roomDoc) (Room, error) {
	if d.RoomNumber == "" {
		return Room{}, ErrMalformedRoom
	}
	t := d.RoomType
	if t == "" {
		t = DefaultRoomType
	}
	adj := make(map[string]struct{}, len(d.AdjacentRooms))
	for _, a := range d.AdjacentRooms {
		if a == "" {
			return Room{}, ErrMalformedRoom
		}
		adj[a] = struct{}{}
	}
	return Room{Number: d.RoomNumber, Type: t, Adjacent: adj}, nil
}

func (r Room) toDoc() roomDoc {
	adj := make([]string, 0, len(r.Adjacent))
	for a := range r.Adjacent {
		adj = append(adj, a)
	}
	return roomDoc{RoomNumber: r.Number, RoomType: r.Type, AdjacentRooms: adj}
}
