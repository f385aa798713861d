package model

import (
	"fmt"
	"sort"
)

// Seat is a (row, column) coordinate inside a screening room.  Both axes
// are 1-indexed, so the top-left seat of every room is {Row: 1, Col: 1}.
type Seat struct {
	Row int // seating row, 1..room.Rows
	Col int // seat within the row, 1..room.Cols
}

// String renders the seat as "(row, col)".
func (s Seat) String() string {
	return fmt.Sprintf("(%d, %d)", s.Row, s.Col)
}

// Within reports whether the seat lies inside the room's grid.
func (s Seat) Within(room ScreeningRoom) bool {
	return s.Row >= 1 && s.Row <= room.Rows && s.Col >= 1 && s.Col <= room.Cols
}

// Less orders seats row-major.
func (s Seat) Less(o Seat) bool {
	if s.Row != o.Row {
		return s.Row < o.Row
	}
	return s.Col < o.Col
}

// SortSeats sorts seats in place, row-major.
func SortSeats(seats []Seat) {
	sort.Slice(seats, func(i, j int) bool { return seats[i].Less(seats[j]) })
}
