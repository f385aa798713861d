// Package repository contains the in-memory catalog that owns every movie,
// screening room, screening and reservation of a cinema.  The catalog is
// the only place where a screening's reserved-seat set is mutated.  All
// collections are append-only; nothing is updated or deleted.
package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/iliyamo/cinema-booking-manager/internal/model"
)

// Cinema is the catalog aggregate.  It is safe for concurrent use: reads
// take a shared lock, appends take the exclusive lock.  Values returned by
// the query methods are copies, so callers can never mutate catalog state
// behind its back.
type Cinema struct {
	writeMu      sync.Mutex // serializes Update and the Add methods
	mu           sync.RWMutex
	name         string
	movies       []model.Movie
	rooms        []model.ScreeningRoom
	screenings   []*model.Screening
	reservations []model.Reservation
}

// NewCinema returns an empty catalog with the given display name.
func NewCinema(name string) *Cinema {
	return &Cinema{name: name}
}

// Name returns the display name of the cinema.
func (c *Cinema) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// AddMovie appends a movie.  Id uniqueness is the caller's concern.
func (c *Cinema) AddMovie(m model.Movie) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.movies = append(c.movies, m)
}

// AddRoom appends a screening room.
func (c *Cinema) AddRoom(r model.ScreeningRoom) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms = append(c.rooms, r)
}

// AddScreening appends a copy of the screening.  Movie and room references
// are validated by the admin service, not here.
func (c *Cinema) AddScreening(s *model.Screening) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screenings = append(c.screenings, s.Clone())
}

// AddReservation reserves the reservation's seats on its screening and
// appends it.  Nothing changes when the screening is unknown (ErrNotFound)
// or when any seat is already taken (*model.SeatUnavailableError).
func (c *Cinema) AddReservation(r model.Reservation) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.screeningLocked(r.ScreeningID)
	if s == nil {
		return model.NotFoundf("screening %d", r.ScreeningID)
	}
	if err := s.ReserveSeats(r.Seats); err != nil {
		return err
	}
	c.reservations = append(c.reservations, r.Clone())
	return nil
}

// PersistFunc writes a candidate catalog somewhere durable.
type PersistFunc func(ctx context.Context, candidate *Cinema) error

// Update applies fn to a private copy of the catalog, hands the copy to
// persist and only then makes it the live state.  When fn or persist
// fails the live catalog is untouched; a persist failure wraps
// model.ErrPersistence.  Readers see the previous state until the swap.
// fn must only touch tx; calling back into c deadlocks.
func (c *Cinema) Update(ctx context.Context, fn func(tx *Cinema) error, persist PersistFunc) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	tx := c.clone()
	if err := fn(tx); err != nil {
		return err
	}
	if persist != nil {
		if err := persist(ctx, tx); err != nil {
			return fmt.Errorf("%w: saving catalog: %w", model.ErrPersistence, err)
		}
	}

	c.mu.Lock()
	c.movies, c.rooms = tx.movies, tx.rooms
	c.screenings, c.reservations = tx.screenings, tx.reservations
	c.mu.Unlock()
	return nil
}

func (c *Cinema) clone() *Cinema {
	snap := c.Snapshot()
	return &Cinema{
		name:         snap.Name,
		movies:       snap.Movies,
		rooms:        snap.Rooms,
		screenings:   snap.Screenings,
		reservations: snap.Reservations,
	}
}

// Movies returns all movies in insertion order.
func (c *Cinema) Movies() []model.Movie {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Movie(nil), c.movies...)
}

// Rooms returns all screening rooms in insertion order.
func (c *Cinema) Rooms() []model.ScreeningRoom {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.ScreeningRoom(nil), c.rooms...)
}

// Screenings returns copies of all screenings in insertion order.
func (c *Cinema) Screenings() []*model.Screening {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*model.Screening, 0, len(c.screenings))
	for _, s := range c.screenings {
		out = append(out, s.Clone())
	}
	return out
}

// Reservations returns copies of all reservations in insertion order.
func (c *Cinema) Reservations() []model.Reservation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Reservation, 0, len(c.reservations))
	for _, r := range c.reservations {
		out = append(out, r.Clone())
	}
	return out
}

// MovieByID looks a movie up by id.
func (c *Cinema) MovieByID(id int) (model.Movie, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.movieLocked(id)
}

// RoomByID looks a screening room up by id.
func (c *Cinema) RoomByID(id int) (model.ScreeningRoom, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomLocked(id)
}

// ScreeningByID returns a copy of the screening, or false.
func (c *Cinema) ScreeningByID(id int) (*model.Screening, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.screeningLocked(id)
	if s == nil {
		return nil, false
	}
	return s.Clone(), true
}

// ReservationByID looks a reservation up by id.
func (c *Cinema) ReservationByID(id int) (model.Reservation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.reservations {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return model.Reservation{}, false
}

// ScreeningsByMovie returns the screenings of a movie in collection order.
func (c *Cinema) ScreeningsByMovie(movieID int) []*model.Screening {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*model.Screening
	for _, s := range c.screenings {
		if s.MovieID == movieID {
			out = append(out, s.Clone())
		}
	}
	return out
}

// ReservationsByScreening returns the reservations of a screening in
// collection order.
func (c *Cinema) ReservationsByScreening(screeningID int) []model.Reservation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []model.Reservation
	for _, r := range c.reservations {
		if r.ScreeningID == screeningID {
			out = append(out, r.Clone())
		}
	}
	return out
}

// AvailableSeats lists the free seats of a screening, row-major.  It fails
// with ErrNotFound when the screening or its room is unknown.
func (c *Cinema) AvailableSeats(screeningID int) ([]model.Seat, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.screeningLocked(screeningID)
	if s == nil {
		return nil, model.NotFoundf("screening %d", screeningID)
	}
	room, ok := c.roomLocked(s.RoomID)
	if !ok {
		return nil, model.NotFoundf("room %d", s.RoomID)
	}
	return s.AvailableSeats(room), nil
}

// NextMovieID returns one more than the highest movie id, 1 when empty.
func (c *Cinema) NextMovieID() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	highest := 0
	for _, m := range c.movies {
		if m.ID > highest {
			highest = m.ID
		}
	}
	return highest + 1
}

// NextRoomID returns one more than the highest room id, 1 when empty.
func (c *Cinema) NextRoomID() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	highest := 0
	for _, r := range c.rooms {
		if r.ID > highest {
			highest = r.ID
		}
	}
	return highest + 1
}

// NextScreeningID returns one more than the highest screening id, 1 when
// empty.
func (c *Cinema) NextScreeningID() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	highest := 0
	for _, s := range c.screenings {
		if s.ID > highest {
			highest = s.ID
		}
	}
	return highest + 1
}

// NextReservationID returns one more than the highest reservation id, 1
// when empty.
func (c *Cinema) NextReservationID() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	highest := 0
	for _, r := range c.reservations {
		if r.ID > highest {
			highest = r.ID
		}
	}
	return highest + 1
}

func (c *Cinema) screeningLocked(id int) *model.Screening {
	for _, s := range c.screenings {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (c *Cinema) roomLocked(id int) (model.ScreeningRoom, bool) {
	for _, r := range c.rooms {
		if r.ID == id {
			return r, true
		}
	}
	return model.ScreeningRoom{}, false
}

func (c *Cinema) movieLocked(id int) (model.Movie, bool) {
	for _, m := range c.movies {
		if m.ID == id {
			return m, true
		}
	}
	return model.Movie{}, false
}
