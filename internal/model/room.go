package model

// MaxRoomDim caps both axes of a room grid.
const MaxRoomDim = 1000

// ScreeningRoom represents an individual screening hall of the cinema.
// A room defines its seating layout as a rectangular grid of Rows by
// Cols seats.  Rooms are immutable once created.
//
// Fields:
//  ID   - unique identifier within the catalog.
//  Name - display name (e.g. "Room 1").
//  Rows - number of seating rows, 1 to MaxRoomDim.
//  Cols - number of seats per row, 1 to MaxRoomDim.
type ScreeningRoom struct {
	ID   int
	Name string
	Rows int
	Cols int
}

// TotalSeats returns the capacity of the room.
func (r ScreeningRoom) TotalSeats() int { return r.Rows * r.Cols }
