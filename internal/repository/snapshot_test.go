package repository

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-booking-manager/internal/model"
)

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	t.Parallel()
	c := seededCinema(t)
	require.NoError(t, c.AddReservation(model.Reservation{ID: 1, ScreeningID: 1, CustomerName: "Ann",
		CustomerEmail: "ann@example.com", Seats: []model.Seat{{Row: 2, Col: 2}}, Timestamp: showtime}))

	restored, err := Restore(c.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, c.Snapshot(), restored.Snapshot())
	assert.Equal(t, 2, restored.NextReservationID())
}

func TestRestoreRejectsInconsistentDocuments(t *testing.T) {
	t.Parallel()
	base := func() Snapshot {
		c := seededCinema(t)
		require.NoError(t, c.AddReservation(model.Reservation{ID: 1, ScreeningID: 1, Seats: []model.Seat{{Row: 1, Col: 1}}}))
		return c.Snapshot()
	}

	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{"duplicate movie", func(s *Snapshot) { s.Movies = append(s.Movies, s.Movies[0]) }},
		{"bad room size", func(s *Snapshot) { s.Rooms[0].Rows = 0 }},
		{"room too wide", func(s *Snapshot) { s.Rooms[0].Cols = model.MaxRoomDim + 1 }},
		{"room size overflows", func(s *Snapshot) { s.Rooms[0].Rows, s.Rooms[0].Cols = 3037000500, 3037000500 }},
		{"negative price", func(s *Snapshot) { s.Screenings[0].Price = -1 }},
		{"price too high", func(s *Snapshot) { s.Screenings[0].Price = math.MaxFloat64 }},
		{"price not a number", func(s *Snapshot) { s.Screenings[0].Price = math.NaN() }},
		{"unknown movie", func(s *Snapshot) { s.Screenings[0].MovieID = 77 }},
		{"unknown room", func(s *Snapshot) { s.Screenings[0].RoomID = 77 }},
		{"screening ids out of order", func(s *Snapshot) { s.Screenings[1].ID = 1 }},
		{"reserved seat outside room", func(s *Snapshot) {
			_ = s.Screenings[1].ReserveSeats([]model.Seat{{Row: 9, Col: 9}})
		}},
		{"reservation for unknown screening", func(s *Snapshot) { s.Reservations[0].ScreeningID = 77 }},
		{"reservation seat not reserved", func(s *Snapshot) { s.Reservations[0].Seats = []model.Seat{{Row: 4, Col: 4}} }},
		{"seat shared by two reservations", func(s *Snapshot) {
			s.Reservations = append(s.Reservations, model.Reservation{ID: 2, ScreeningID: 1, Seats: []model.Seat{{Row: 1, Col: 1}}})
		}},
		{"empty reservation", func(s *Snapshot) { s.Reservations[0].Seats = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := base()
			tt.mutate(&snap)
			c, err := Restore(snap)
			assert.Nil(t, c)
			assert.ErrorIs(t, err, model.ErrPersistence)
		})
	}
}
