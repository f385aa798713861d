package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-booking-manager/internal/model"
	"github.com/iliyamo/cinema-booking-manager/internal/queue"
	"github.com/iliyamo/cinema-booking-manager/internal/repository"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ReservationConfirmedEvent
	err    error
}

// switchSaver fails with err while it is set and remembers the last
// catalog it saved.
type switchSaver struct {
	mu    sync.Mutex
	err   error
	saved *repository.Cinema
}

func (s *switchSaver) Save(_ context.Context, c *repository.Cinema) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saved = c
	return nil
}

func (s *switchSaver) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *switchSaver) last() *repository.Cinema {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved
}

func (p *recordingPublisher) PublishReservationConfirmed(_ context.Context, ev queue.ReservationConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

// duneCinema builds the catalog of the booking scenario: one movie, a 5x5
// room and a screening priced at 50.
func duneCinema(t *testing.T) (*repository.Cinema, *model.Screening) {
	t.Helper()
	ctx := context.Background()
	c := repository.NewCinema("Test Cinema")
	admin := NewAdminService(c, nil)
	m, err := admin.AddMovie(ctx, "Dune", 155, "PG-13", "Spice must flow.")
	require.NoError(t, err)
	r, err := admin.AddRoom(ctx, "Room 1", 5, 5)
	require.NoError(t, err)
	s, err := admin.AddScreening(ctx, m.ID, r.ID, time.Date(2026, 3, 1, 19, 30, 0, 0, time.UTC), 50.0)
	require.NoError(t, err)
	return c, s
}

func TestMakeReservationScenario(t *testing.T) {
	t.Parallel()
	c, s := duneCinema(t)
	pub := &recordingPublisher{}
	svc := NewReservationService(c, nil, pub)
	fixed := time.Date(2026, 2, 20, 10, 0, 0, 500, time.UTC)
	svc.now = func() time.Time { return fixed }

	res, err := svc.MakeReservation(context.Background(), s.ID, "Ann Lee", "ann@example.com", []model.Seat{{Row: 1, Col: 1}, {Row: 1, Col: 2}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.ID)
	assert.Equal(t, fixed.Truncate(time.Second), res.Timestamp)

	current, ok := c.ScreeningByID(s.ID)
	require.True(t, ok)
	assert.Equal(t, 100.0, res.TotalPrice(current))

	_, err = svc.MakeReservation(context.Background(), s.ID, "Bob", "bob@example.com", []model.Seat{{Row: 1, Col: 1}})
	var seatErr *model.SeatUnavailableError
	require.True(t, errors.As(err, &seatErr))
	assert.Equal(t, model.Seat{Row: 1, Col: 1}, seatErr.Seat)
	assert.Len(t, c.Reservations(), 1)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "Dune", pub.events[0].MovieTitle)
	assert.Equal(t, []string{"(1, 1)", "(1, 2)"}, pub.events[0].SeatLabels)
	assert.Equal(t, 100.0, pub.events[0].TotalPrice)
	assert.Equal(t, "2026-03-01 19:30", pub.events[0].StartsAt)
}

func TestMakeReservationPartialConflictReservesNothing(t *testing.T) {
	t.Parallel()
	c, s := duneCinema(t)
	svc := NewReservationService(c, nil, nil)
	_, err := svc.MakeReservation(context.Background(), s.ID, "Ann", "ann@example.com", []model.Seat{{Row: 1, Col: 1}})
	require.NoError(t, err)

	_, err = svc.MakeReservation(context.Background(), s.ID, "Bob", "bob@example.com", []model.Seat{{Row: 1, Col: 1}, {Row: 1, Col: 2}})
	assert.ErrorIs(t, err, model.ErrSeatUnavailable)

	current, _ := c.ScreeningByID(s.ID)
	assert.True(t, current.IsSeatAvailable(model.Seat{Row: 1, Col: 2}))
	assert.Equal(t, 2, svc.NextID(), "a rejected request must not consume an id")
}

func TestMakeReservationUnknownScreening(t *testing.T) {
	t.Parallel()
	c, _ := duneCinema(t)
	svc := NewReservationService(c, nil, nil)
	_, err := svc.MakeReservation(context.Background(), 404, "Ann", "ann@example.com", []model.Seat{{Row: 1, Col: 1}})
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Empty(t, c.Reservations())
}

func TestMakeReservationValidation(t *testing.T) {
	t.Parallel()
	c, s := duneCinema(t)
	svc := NewReservationService(c, nil, nil)

	tests := []struct {
		name  string
		cust  string
		email string
		seats []model.Seat
	}{
		{"missing name", " ", "ann@example.com", []model.Seat{{Row: 1, Col: 1}}},
		{"missing email", "Ann", "", []model.Seat{{Row: 1, Col: 1}}},
		{"bad email", "Ann", "not-an-email", []model.Seat{{Row: 1, Col: 1}}},
		{"no seats", "Ann", "ann@example.com", nil},
		{"seat outside grid", "Ann", "ann@example.com", []model.Seat{{Row: 6, Col: 1}}},
		{"zero seat", "Ann", "ann@example.com", []model.Seat{{Row: 0, Col: 0}}},
		{"duplicate seat", "Ann", "ann@example.com", []model.Seat{{Row: 2, Col: 2}, {Row: 2, Col: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.MakeReservation(context.Background(), s.ID, tt.cust, tt.email, tt.seats)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
	assert.Empty(t, c.Reservations())
}

func TestReservationIDsAreSequential(t *testing.T) {
	t.Parallel()
	c, s := duneCinema(t)
	svc := NewReservationService(c, nil, nil)
	const n = 5
	for i := 1; i <= n; i++ {
		res, err := svc.MakeReservation(context.Background(), s.ID, "Ann", "ann@example.com", []model.Seat{{Row: i, Col: 1}})
		require.NoError(t, err)
		assert.Equal(t, i, res.ID)
	}
	assert.Equal(t, n+1, svc.NextID())
	assert.Equal(t, n+1, c.NextReservationID())

	// A service created later over the same catalog continues the sequence.
	again := NewReservationService(c, nil, nil)
	assert.Equal(t, n+1, again.NextID())
}

func TestPublishFailureKeepsReservation(t *testing.T) {
	t.Parallel()
	c, s := duneCinema(t)
	svc := NewReservationService(c, nil, &recordingPublisher{err: errors.New("broker down")})
	_, err := svc.MakeReservation(context.Background(), s.ID, "Ann", "ann@example.com", []model.Seat{{Row: 3, Col: 3}})
	require.NoError(t, err)
	assert.Len(t, c.Reservations(), 1)
}

func TestFailedSaveHoldsNoSeats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, s := duneCinema(t)
	store := &switchSaver{err: errors.New("disk full")}
	pub := &recordingPublisher{}
	svc := NewReservationService(c, store, pub)

	_, err := svc.MakeReservation(ctx, s.ID, "Ann", "ann@example.com", []model.Seat{{Row: 1, Col: 1}})
	assert.ErrorIs(t, err, model.ErrPersistence)
	assert.Empty(t, c.Reservations())
	current, _ := c.ScreeningByID(s.ID)
	assert.True(t, current.IsSeatAvailable(model.Seat{Row: 1, Col: 1}))
	assert.Equal(t, 1, svc.NextID())
	assert.Empty(t, pub.events, "nothing is announced for an unsaved booking")

	store.setErr(nil)
	res, err := svc.MakeReservation(ctx, s.ID, "Ann", "ann@example.com", []model.Seat{{Row: 1, Col: 1}})
	require.NoError(t, err, "the retry gets the same seat")
	assert.Equal(t, 1, res.ID)
	assert.Len(t, c.Reservations(), 1)
	assert.Len(t, store.last().Reservations(), 1)
	assert.Len(t, pub.events, 1)
}

func TestConcurrentReservationsOfSameSeat(t *testing.T) {
	t.Parallel()
	c, s := duneCinema(t)
	svc := NewReservationService(c, nil, nil)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.MakeReservation(context.Background(), s.ID, "Ann", "ann@example.com", []model.Seat{{Row: 4, Col: 4}, {Row: 4, Col: 5}})
			if err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
	assert.Len(t, c.ReservationsByScreening(s.ID), 1)
}
