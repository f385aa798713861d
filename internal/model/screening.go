package model

import "time"

// StartTimeLayout is the stored format of a screening start time.
const StartTimeLayout = "2006-01-02 15:04"

// MaxPrice caps the ticket price of a screening.
const MaxPrice = 1_000_000.0

// Screening represents one scheduled showing of a movie in a particular
// room.  It owns the seat-occupancy state for that showing: the set of
// reserved seats only ever grows, seats are never released.
//
// Fields:
//  ID        - unique identifier, increasing in creation order.
//  MovieID   - movie being shown.
//  RoomID    - room where the screening takes place.
//  StartTime - when the screening begins (minute precision when stored).
//  Price     - ticket price per seat, 0 to MaxPrice.
type Screening struct {
	ID        int
	MovieID   int
	RoomID    int
	StartTime time.Time
	Price     float64

	reserved map[Seat]struct{}
}

// NewScreening returns a screening with no reserved seats.
func NewScreening(id, movieID, roomID int, start time.Time, price float64) *Screening {
	return &Screening{
		ID:        id,
		MovieID:   movieID,
		RoomID:    roomID,
		StartTime: start,
		Price:     price,
		reserved:  make(map[Seat]struct{}),
	}
}

// IsSeatAvailable reports whether the seat has not been reserved yet.
func (s *Screening) IsSeatAvailable(seat Seat) bool {
	_, taken := s.reserved[seat]
	return !taken
}

// ReserveSeats reserves every seat in the batch or none of them.  The
// whole batch is checked first, so a conflict (including a seat repeated
// inside the batch) leaves the reserved set untouched and returns a
// *SeatUnavailableError for the first offending seat.
func (s *Screening) ReserveSeats(seats []Seat) error {
	seen := make(map[Seat]struct{}, len(seats))
	for _, seat := range seats {
		if _, dup := seen[seat]; dup || !s.IsSeatAvailable(seat) {
			return &SeatUnavailableError{Seat: seat}
		}
		seen[seat] = struct{}{}
	}
	if s.reserved == nil {
		s.reserved = make(map[Seat]struct{}, len(seats))
	}
	for _, seat := range seats {
		s.reserved[seat] = struct{}{}
	}
	return nil
}

// ReservedSeats returns the reserved seats in row-major order.
func (s *Screening) ReservedSeats() []Seat {
	out := make([]Seat, 0, len(s.reserved))
	for seat := range s.reserved {
		out = append(out, seat)
	}
	SortSeats(out)
	return out
}

// ReservedCount is the number of reserved seats.
func (s *Screening) ReservedCount() int { return len(s.reserved) }

// AvailableSeats lists every seat of the room grid that is not reserved,
// row-major with rows and columns starting at 1.
func (s *Screening) AvailableSeats(room ScreeningRoom) []Seat {
	out := make([]Seat, 0, room.TotalSeats())
	for row := 1; row <= room.Rows; row++ {
		for col := 1; col <= room.Cols; col++ {
			seat := Seat{Row: row, Col: col}
			if s.IsSeatAvailable(seat) {
				out = append(out, seat)
			}
		}
	}
	return out
}

// Clone returns a deep copy; the reserved set is not shared.
func (s *Screening) Clone() *Screening {
	c := *s
	c.reserved = make(map[Seat]struct{}, len(s.reserved))
	for seat := range s.reserved {
		c.reserved[seat] = struct{}{}
	}
	return &c
}
