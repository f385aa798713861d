// Package service implements the booking operations on top of the catalog:
// making reservations and the admin operations that create movies, rooms
// and screenings.  Both services own explicit id counters seeded from the
// catalog.
package service

import (
	"context"
	"log"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/cinema-booking-manager/internal/model"
	"github.com/iliyamo/cinema-booking-manager/internal/queue"
	"github.com/iliyamo/cinema-booking-manager/internal/repository"
)

// publishTimeout bounds how long a confirmed reservation waits on the broker.
const publishTimeout = 3 * time.Second

// ReservationService validates booking requests against current seat
// availability, saves them and commits them.  The availability check, the
// save and the commit run under one mutex, so two requests can never claim
// the same seat and a booking that was not saved never holds its seats.
type ReservationService struct {
	mu        sync.Mutex
	cinema    *repository.Cinema
	persist   repository.PersistFunc
	publisher Publisher        // optional
	now       func() time.Time // injectable for tests
	nextID    int
}

// NewReservationService binds the service to a catalog.  A nil store keeps
// bookings in memory only; a nil publisher emits no events.
func NewReservationService(cinema *repository.Cinema, store Saver, publisher Publisher) *ReservationService {
	if cinema == nil {
		panic("nil catalog passed to NewReservationService")
	}
	s := &ReservationService{
		cinema:    cinema,
		persist:   persistTo(store),
		publisher: publisher,
		now:       time.Now,
	}
	s.Reseed()
	return s
}

// Reseed resets the id counter from the catalog's highest reservation id.
func (s *ReservationService) Reseed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = s.cinema.NextReservationID()
}

// NextID is the id the next successful reservation will receive.
func (s *ReservationService) NextID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextID
}

// MakeReservation books seats on a screening for a customer.
//
// It fails with model.ErrValidation for a missing name, malformed email,
// empty or duplicated seat list, or a seat outside the room grid; with
// model.ErrNotFound when the screening is unknown; and with a
// *model.SeatUnavailableError for the first seat that is already reserved;
// and with model.ErrPersistence when the booking could not be saved.  A
// failed call changes nothing, so it can be retried with the same seats.
func (s *ReservationService) MakeReservation(ctx context.Context, screeningID int, name, email string, seats []model.Seat) (model.Reservation, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return model.Reservation{}, model.Validationf("customer name is required")
	}
	if email == "" {
		return model.Reservation{}, model.Validationf("customer email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return model.Reservation{}, model.Validationf("invalid customer email %q", email)
	}
	if len(seats) == 0 {
		return model.Reservation{}, model.Validationf("at least one seat is required")
	}

	var (
		res       model.Reservation
		screening *model.Screening
		room      model.ScreeningRoom
	)
	s.mu.Lock()
	err := s.cinema.Update(ctx, func(tx *repository.Cinema) error {
		var err error
		res, screening, room, err = s.commit(tx, screeningID, name, email, seats)
		return err
	}, s.persist)
	if err == nil {
		s.nextID++
	}
	s.mu.Unlock()
	if err != nil {
		return model.Reservation{}, err
	}

	s.publish(ctx, res, screening, room)
	return res, nil
}

// commit books the seats on the candidate catalog tx.  It runs with s.mu
// held.
func (s *ReservationService) commit(tx *repository.Cinema, screeningID int, name, email string, seats []model.Seat) (model.Reservation, *model.Screening, model.ScreeningRoom, error) {
	screening, ok := tx.ScreeningByID(screeningID)
	if !ok {
		return model.Reservation{}, nil, model.ScreeningRoom{}, model.NotFoundf("screening %d", screeningID)
	}
	room, ok := tx.RoomByID(screening.RoomID)
	if !ok {
		return model.Reservation{}, nil, model.ScreeningRoom{}, model.NotFoundf("room %d", screening.RoomID)
	}

	seen := make(map[model.Seat]bool, len(seats))
	for _, seat := range seats {
		if !seat.Within(room) {
			return model.Reservation{}, nil, room, model.Validationf("seat %s is outside room %q (%dx%d)", seat, room.Name, room.Rows, room.Cols)
		}
		if seen[seat] {
			return model.Reservation{}, nil, room, model.Validationf("seat %s requested twice", seat)
		}
		seen[seat] = true
	}
	for _, seat := range seats {
		if !screening.IsSeatAvailable(seat) {
			return model.Reservation{}, nil, room, &model.SeatUnavailableError{Seat: seat}
		}
	}

	res := model.Reservation{
		ID:            s.nextID,
		ScreeningID:   screeningID,
		CustomerName:  name,
		CustomerEmail: email,
		Seats:         append([]model.Seat(nil), seats...),
		Timestamp:     s.now().UTC().Truncate(time.Second),
	}
	if err := tx.AddReservation(res); err != nil {
		return model.Reservation{}, nil, room, err
	}
	return res, screening, room, nil
}

func (s *ReservationService) publish(ctx context.Context, res model.Reservation, screening *model.Screening, room model.ScreeningRoom) {
	if s.publisher == nil {
		return
	}
	movie, _ := s.cinema.MovieByID(screening.MovieID)
	labels := make([]string, 0, len(res.Seats))
	for _, seat := range res.Seats {
		labels = append(labels, seat.String())
	}
	ev := queue.ReservationConfirmedEvent{
		ReservationID: res.ID,
		ScreeningID:   res.ScreeningID,
		MovieTitle:    movie.Title,
		RoomName:      room.Name,
		StartsAt:      screening.StartTime.UTC().Format(model.StartTimeLayout),
		CustomerName:  res.CustomerName,
		CustomerEmail: res.CustomerEmail,
		SeatLabels:    labels,
		TotalPrice:    res.TotalPrice(screening),
		ConfirmedAt:   res.Timestamp.Format(model.TimestampLayout),
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.publisher.PublishReservationConfirmed(ctx, ev); err != nil {
		log.Printf("reservation: publish confirmation for reservation %d failed: %v", res.ID, err)
	}
}
