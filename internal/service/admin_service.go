package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/cinema-booking-manager/internal/model"
	"github.com/iliyamo/cinema-booking-manager/internal/repository"
)

// AdminService creates movies, rooms and screenings with fresh ids.  Each
// counter is seeded from its own collection and only advances once the
// new entity has been saved.
type AdminService struct {
	mu              sync.Mutex
	cinema          *repository.Cinema
	persist         repository.PersistFunc
	nextMovieID     int
	nextRoomID      int
	nextScreeningID int
}

// NewAdminService binds the service to a catalog.  The store may be nil,
// in which case writes stay in memory.
func NewAdminService(cinema *repository.Cinema, store Saver) *AdminService {
	if cinema == nil {
		panic("nil catalog passed to NewAdminService")
	}
	s := &AdminService{cinema: cinema, persist: persistTo(store)}
	s.Reseed()
	return s
}

// Reseed resets every counter from the catalog's current maxima.
func (s *AdminService) Reseed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMovieID = s.cinema.NextMovieID()
	s.nextRoomID = s.cinema.NextRoomID()
	s.nextScreeningID = s.cinema.NextScreeningID()
}

// AddMovie creates a movie.  Title is required and duration must be a
// positive number of minutes.
func (s *AdminService) AddMovie(ctx context.Context, title string, duration int, rating, description string) (model.Movie, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Movie{}, model.Validationf("title is required")
	}
	if duration <= 0 {
		return model.Movie{}, model.Validationf("duration must be a positive number of minutes, got %d", duration)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m := model.Movie{
		ID:          s.nextMovieID,
		Title:       title,
		Duration:    duration,
		Rating:      strings.TrimSpace(rating),
		Description: strings.TrimSpace(description),
	}
	err := s.cinema.Update(ctx, func(tx *repository.Cinema) error {
		tx.AddMovie(m)
		return nil
	}, s.persist)
	if err != nil {
		return model.Movie{}, err
	}
	s.nextMovieID++
	return m, nil
}

// AddRoom creates a screening room with a rows x cols seat grid.  Both
// axes must lie in 1..model.MaxRoomDim.
func (s *AdminService) AddRoom(ctx context.Context, name string, rows, cols int) (model.ScreeningRoom, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.ScreeningRoom{}, model.Validationf("room name is required")
	}
	if rows <= 0 || cols <= 0 {
		return model.ScreeningRoom{}, model.Validationf("rows and cols must be positive, got %dx%d", rows, cols)
	}
	if rows > model.MaxRoomDim || cols > model.MaxRoomDim {
		return model.ScreeningRoom{}, model.Validationf("rows and cols must not exceed %d, got %dx%d", model.MaxRoomDim, rows, cols)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r := model.ScreeningRoom{ID: s.nextRoomID, Name: name, Rows: rows, Cols: cols}
	err := s.cinema.Update(ctx, func(tx *repository.Cinema) error {
		tx.AddRoom(r)
		return nil
	}, s.persist)
	if err != nil {
		return model.ScreeningRoom{}, err
	}
	s.nextRoomID++
	return r, nil
}

// AddScreening schedules a movie in a room.  Both must exist
// (model.ErrNotFound); the start time must be set and the price must lie
// in 0..model.MaxPrice (model.ErrValidation).
func (s *AdminService) AddScreening(ctx context.Context, movieID, roomID int, start time.Time, price float64) (*model.Screening, error) {
	if start.IsZero() {
		return nil, model.Validationf("start time is required")
	}
	if price < 0 {
		return nil, model.Validationf("price must not be negative, got %.2f", price)
	}
	if !(price <= model.MaxPrice) {
		return nil, model.Validationf("price must not exceed %.2f, got %v", model.MaxPrice, price)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sc := model.NewScreening(s.nextScreeningID, movieID, roomID, start.Truncate(time.Minute), price)
	err := s.cinema.Update(ctx, func(tx *repository.Cinema) error {
		if _, ok := tx.MovieByID(movieID); !ok {
			return model.NotFoundf("movie %d", movieID)
		}
		if _, ok := tx.RoomByID(roomID); !ok {
			return model.NotFoundf("room %d", roomID)
		}
		tx.AddScreening(sc)
		return nil
	}, s.persist)
	if err != nil {
		return nil, err
	}
	s.nextScreeningID++
	return sc, nil
}
