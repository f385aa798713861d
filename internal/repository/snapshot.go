package repository

import (
	"fmt"

	"github.com/iliyamo/cinema-booking-manager/internal/model"
)

// Snapshot is a point-in-time deep copy of a catalog.  The storage layer
// serializes snapshots and hands decoded ones back to Restore.
type Snapshot struct {
	Name         string
	Movies       []model.Movie
	Rooms        []model.ScreeningRoom
	Screenings   []*model.Screening // reserved seats included
	Reservations []model.Reservation
}

// Snapshot copies the whole catalog under a single read lock, so the copy
// is internally consistent even while reservations are being made.
func (c *Cinema) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := Snapshot{
		Name:         c.name,
		Movies:       append([]model.Movie(nil), c.movies...),
		Rooms:        append([]model.ScreeningRoom(nil), c.rooms...),
		Screenings:   make([]*model.Screening, 0, len(c.screenings)),
		Reservations: make([]model.Reservation, 0, len(c.reservations)),
	}
	for _, s := range c.screenings {
		snap.Screenings = append(snap.Screenings, s.Clone())
	}
	for _, r := range c.reservations {
		snap.Reservations = append(snap.Reservations, r.Clone())
	}
	return snap
}

// Restore rebuilds a catalog from a snapshot and checks every catalog
// invariant on the way: unique ids, increasing screening and reservation
// ids, existing references, seats inside the room grid, reservation seats
// reserved on their screening and never shared by two reservations.  Any
// violation is reported as an error wrapping model.ErrPersistence.
func Restore(snap Snapshot) (*Cinema, error) {
	c := NewCinema(snap.Name)

	movieIDs := make(map[int]bool, len(snap.Movies))
	for _, m := range snap.Movies {
		if movieIDs[m.ID] {
			return nil, corrupt("duplicate movie id %d", m.ID)
		}
		if m.Duration <= 0 {
			return nil, corrupt("movie %d has non-positive duration %d", m.ID, m.Duration)
		}
		movieIDs[m.ID] = true
		c.movies = append(c.movies, m)
	}

	rooms := make(map[int]model.ScreeningRoom, len(snap.Rooms))
	for _, r := range snap.Rooms {
		if _, dup := rooms[r.ID]; dup {
			return nil, corrupt("duplicate room id %d", r.ID)
		}
		if r.Rows <= 0 || r.Cols <= 0 || r.Rows > model.MaxRoomDim || r.Cols > model.MaxRoomDim {
			return nil, corrupt("room %d has invalid size %dx%d", r.ID, r.Rows, r.Cols)
		}
		rooms[r.ID] = r
		c.rooms = append(c.rooms, r)
	}

	screenings := make(map[int]*model.Screening, len(snap.Screenings))
	lastScreening := 0
	for _, s := range snap.Screenings {
		if s == nil {
			return nil, corrupt("nil screening")
		}
		if s.ID <= lastScreening {
			return nil, corrupt("screening id %d is not increasing", s.ID)
		}
		lastScreening = s.ID
		if !movieIDs[s.MovieID] {
			return nil, corrupt("screening %d references unknown movie %d", s.ID, s.MovieID)
		}
		room, ok := rooms[s.RoomID]
		if !ok {
			return nil, corrupt("screening %d references unknown room %d", s.ID, s.RoomID)
		}
		if !(s.Price >= 0 && s.Price <= model.MaxPrice) {
			return nil, corrupt("screening %d has invalid price %v", s.ID, s.Price)
		}
		for _, seat := range s.ReservedSeats() {
			if !seat.Within(room) {
				return nil, corrupt("screening %d reserves seat %s outside room %d", s.ID, seat, room.ID)
			}
		}
		cp := s.Clone()
		screenings[s.ID] = cp
		c.screenings = append(c.screenings, cp)
	}

	owners := make(map[int]map[model.Seat]int)
	lastReservation := 0
	for _, r := range snap.Reservations {
		if r.ID <= lastReservation {
			return nil, corrupt("reservation id %d is not increasing", r.ID)
		}
		lastReservation = r.ID
		s, ok := screenings[r.ScreeningID]
		if !ok {
			return nil, corrupt("reservation %d references unknown screening %d", r.ID, r.ScreeningID)
		}
		if len(r.Seats) == 0 {
			return nil, corrupt("reservation %d has no seats", r.ID)
		}
		seatOwner := owners[s.ID]
		if seatOwner == nil {
			seatOwner = make(map[model.Seat]int)
			owners[s.ID] = seatOwner
		}
		for _, seat := range r.Seats {
			if s.IsSeatAvailable(seat) {
				return nil, corrupt("reservation %d holds seat %s not reserved on screening %d", r.ID, seat, s.ID)
			}
			if other, taken := seatOwner[seat]; taken {
				return nil, corrupt("seat %s of screening %d belongs to reservations %d and %d", seat, s.ID, other, r.ID)
			}
			seatOwner[seat] = r.ID
		}
		c.reservations = append(c.reservations, r.Clone())
	}
	return c, nil
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrPersistence, fmt.Sprintf(format, args...))
}
