// Package storage serializes the catalog to a structured document and
// restores it.  The document layout is shared by every backend:
//
//	name: string
//	movies: [{id, title, duration, rating, description}]
//	screening_rooms: [{id, name, rows, cols}]
//	screenings: [{id, movie_id, room_id, start_time, price, reserved_seats}]
//	reservations: [{id, screening_id, customer_name, customer_email, seats, timestamp}]
//
// Seats are two-element [row, col] arrays.  start_time uses minute
// precision ("2006-01-02 15:04"), timestamp second precision
// ("2006-01-02 15:04:05"); both are written in UTC.
package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/cinema-booking-manager/internal/model"
	"github.com/iliyamo/cinema-booking-manager/internal/repository"
)

type document struct {
	Name         string           `json:"name" yaml:"name"`
	Movies       []movieDoc       `json:"movies" yaml:"movies"`
	Rooms        []roomDoc        `json:"screening_rooms" yaml:"screening_rooms"`
	Screenings   []screeningDoc   `json:"screenings" yaml:"screenings"`
	Reservations []reservationDoc `json:"reservations" yaml:"reservations"`
}

type movieDoc struct {
	ID          int    `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Duration    int    `json:"duration" yaml:"duration"`
	Rating      string `json:"rating" yaml:"rating"`
	Description string `json:"description" yaml:"description"`
}

type roomDoc struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Rows int    `json:"rows" yaml:"rows"`
	Cols int    `json:"cols" yaml:"cols"`
}

type screeningDoc struct {
	ID            int     `json:"id" yaml:"id"`
	MovieID       int     `json:"movie_id" yaml:"movie_id"`
	RoomID        int     `json:"room_id" yaml:"room_id"`
	StartTime     string  `json:"start_time" yaml:"start_time"`
	Price         float64 `json:"price" yaml:"price"`
	ReservedSeats [][]int `json:"reserved_seats" yaml:"reserved_seats,flow"`
}

type reservationDoc struct {
	ID            int     `json:"id" yaml:"id"`
	ScreeningID   int     `json:"screening_id" yaml:"screening_id"`
	CustomerName  string  `json:"customer_name" yaml:"customer_name"`
	CustomerEmail string  `json:"customer_email" yaml:"customer_email"`
	Seats         [][]int `json:"seats" yaml:"seats,flow"`
	Timestamp     string  `json:"timestamp" yaml:"timestamp"`
}

func encode(snap repository.Snapshot) document {
	doc := document{
		Name:         snap.Name,
		Movies:       make([]movieDoc, 0, len(snap.Movies)),
		Rooms:        make([]roomDoc, 0, len(snap.Rooms)),
		Screenings:   make([]screeningDoc, 0, len(snap.Screenings)),
		Reservations: make([]reservationDoc, 0, len(snap.Reservations)),
	}
	for _, m := range snap.Movies {
		doc.Movies = append(doc.Movies, movieDoc(m))
	}
	for _, r := range snap.Rooms {
		doc.Rooms = append(doc.Rooms, roomDoc(r))
	}
	for _, s := range snap.Screenings {
		doc.Screenings = append(doc.Screenings, screeningDoc{
			ID:            s.ID,
			MovieID:       s.MovieID,
			RoomID:        s.RoomID,
			StartTime:     s.StartTime.UTC().Format(model.StartTimeLayout),
			Price:         s.Price,
			ReservedSeats: seatPairs(s.ReservedSeats()),
		})
	}
	for _, r := range snap.Reservations {
		doc.Reservations = append(doc.Reservations, reservationDoc{
			ID:            r.ID,
			ScreeningID:   r.ScreeningID,
			CustomerName:  r.CustomerName,
			CustomerEmail: r.CustomerEmail,
			Seats:         seatPairs(r.Seats),
			Timestamp:     r.Timestamp.UTC().Format(model.TimestampLayout),
		})
	}
	return doc
}

// decode converts a parsed document back into a verified catalog.  Every
// failure wraps model.ErrPersistence.
func decode(doc document) (*repository.Cinema, error) {
	if strings.TrimSpace(doc.Name) == "" {
		return nil, malformed("catalog has no name")
	}
	snap := repository.Snapshot{Name: doc.Name}
	for _, m := range doc.Movies {
		snap.Movies = append(snap.Movies, model.Movie(m))
	}
	for _, r := range doc.Rooms {
		snap.Rooms = append(snap.Rooms, model.ScreeningRoom(r))
	}
	for _, sd := range doc.Screenings {
		start, err := time.ParseInLocation(model.StartTimeLayout, sd.StartTime, time.UTC)
		if err != nil {
			return nil, malformed("screening %d start_time %q: %v", sd.ID, sd.StartTime, err)
		}
		seats, err := seatsFrom(sd.ReservedSeats)
		if err != nil {
			return nil, malformed("screening %d reserved_seats: %v", sd.ID, err)
		}
		s := model.NewScreening(sd.ID, sd.MovieID, sd.RoomID, start, sd.Price)
		if err := s.ReserveSeats(seats); err != nil {
			return nil, malformed("screening %d reserved_seats: %v", sd.ID, err)
		}
		snap.Screenings = append(snap.Screenings, s)
	}
	for _, rd := range doc.Reservations {
		ts, err := time.ParseInLocation(model.TimestampLayout, rd.Timestamp, time.UTC)
		if err != nil {
			return nil, malformed("reservation %d timestamp %q: %v", rd.ID, rd.Timestamp, err)
		}
		seats, err := seatsFrom(rd.Seats)
		if err != nil {
			return nil, malformed("reservation %d seats: %v", rd.ID, err)
		}
		snap.Reservations = append(snap.Reservations, model.Reservation{
			ID:            rd.ID,
			ScreeningID:   rd.ScreeningID,
			CustomerName:  rd.CustomerName,
			CustomerEmail: rd.CustomerEmail,
			Seats:         seats,
			Timestamp:     ts,
		})
	}
	return repository.Restore(snap)
}

func seatPairs(seats []model.Seat) [][]int {
	out := make([][]int, 0, len(seats))
	for _, s := range seats {
		out = append(out, []int{s.Row, s.Col})
	}
	return out
}

func seatsFrom(pairs [][]int) ([]model.Seat, error) {
	out := make([]model.Seat, 0, len(pairs))
	for i, p := range pairs {
		if len(p) != 2 {
			return nil, fmt.Errorf("seat #%d has %d coordinates, want 2", i, len(p))
		}
		out = append(out, model.Seat{Row: p[0], Col: p[1]})
	}
	return out, nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrPersistence, fmt.Sprintf(format, args...))
}
