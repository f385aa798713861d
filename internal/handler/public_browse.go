// Package handler exposes the HTTP handlers of the booking API.  This file
// holds the unauthenticated browse endpoints: movies, screenings, seat maps
// and reservation lookups.
package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-manager/internal/model"
	"github.com/iliyamo/cinema-booking-manager/internal/repository"
)

// PublicHandler serves read-only views of the catalog.
type PublicHandler struct {
	Cinema *repository.Cinema
	Now    func() time.Time // clock for the search time filter; time.Now when nil
}

func NewPublicHandler(cinema *repository.Cinema) *PublicHandler {
	if cinema == nil {
		panic("nil catalog passed to NewPublicHandler")
	}
	return &PublicHandler{Cinema: cinema}
}

// ListMovies returns {"cinema": name, "items": [...]} in catalog order.
func (h *PublicHandler) ListMovies(c echo.Context) error {
	movies := h.Cinema.Movies()
	out := make([]movieResp, 0, len(movies))
	for _, m := range movies {
		out = append(out, toMovie(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"cinema": h.Cinema.Name(), "items": out})
}

// ListScreeningsByMovie returns the screenings of one movie, 404 when the
// movie is unknown.
func (h *PublicHandler) ListScreeningsByMovie(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	movie, ok := h.Cinema.MovieByID(id)
	if !ok {
		return writeError(c, model.NotFoundf("movie %d", id))
	}
	screenings := h.Cinema.ScreeningsByMovie(id)
	out := make([]screeningResp, 0, len(screenings))
	for _, s := range screenings {
		out = append(out, toScreening(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"movie": toMovie(movie), "items": out})
}

// GetScreening returns a screening with its movie, room and seat counts.
func (h *PublicHandler) GetScreening(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	s, ok := h.Cinema.ScreeningByID(id)
	if !ok {
		return writeError(c, model.NotFoundf("screening %d", id))
	}
	movie, _ := h.Cinema.MovieByID(s.MovieID)
	room, _ := h.Cinema.RoomByID(s.RoomID)
	return c.JSON(http.StatusOK, screeningDetailResp{
		screeningResp: toScreening(s),
		Movie:         toMovie(movie),
		Room:          toRoom(room),
		Available:     room.TotalSeats() - s.ReservedCount(),
	})
}

// GetScreeningSeats returns the available and reserved seats, both
// row-major.
func (h *PublicHandler) GetScreeningSeats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	s, ok := h.Cinema.ScreeningByID(id)
	if !ok {
		return writeError(c, model.NotFoundf("screening %d", id))
	}
	room, _ := h.Cinema.RoomByID(s.RoomID)
	return c.JSON(http.StatusOK, seatMapResp{
		ScreeningID: s.ID,
		Rows:        room.Rows,
		Cols:        room.Cols,
		Available:   seatPairs(s.AvailableSeats(room)),
		Reserved:    seatPairs(s.ReservedSeats()),
	})
}

// GetReservation returns one reservation with its total price.
func (h *PublicHandler) GetReservation(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	r, ok := h.Cinema.ReservationByID(id)
	if !ok {
		return writeError(c, model.NotFoundf("reservation %d", id))
	}
	s, _ := h.Cinema.ScreeningByID(r.ScreeningID)
	return c.JSON(http.StatusOK, toReservation(r, s))
}
