package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-manager/internal/model"
	"github.com/iliyamo/cinema-booking-manager/internal/repository"
	"github.com/iliyamo/cinema-booking-manager/internal/service"
)

// AdminHandler manages the catalog.  Every route sits behind JWTAuth and
// RequireRole(ADMIN).
type AdminHandler struct {
	Admin  *service.AdminService
	Cinema *repository.Cinema
	// Purge drops cached public listings after a write.  Optional.
	Purge func(ctx context.Context) error
}

func NewAdminHandler(admin *service.AdminService, cinema *repository.Cinema) *AdminHandler {
	if admin == nil || cinema == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{Admin: admin, Cinema: cinema}
}

type movieReq struct {
	Title       string `json:"title"`
	Duration    int    `json:"duration"`
	Rating      string `json:"rating"`
	Description string `json:"description"`
}

type roomReq struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
	Cols int    `json:"cols"`
}

type screeningReq struct {
	MovieID   int     `json:"movie_id"`
	RoomID    int     `json:"room_id"`
	StartTime string  `json:"start_time"` // "YYYY-MM-DD HH:MM", UTC
	Price     float64 `json:"price"`
}

// CreateMovie adds a movie and returns it with 201.
func (h *AdminHandler) CreateMovie(c echo.Context) error {
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := writeContext(c)
	defer cancel()
	m, err := h.Admin.AddMovie(ctx, req.Title, req.Duration, req.Rating, req.Description)
	if err != nil {
		return writeError(c, err)
	}
	h.purge(c)
	return c.JSON(http.StatusCreated, toMovie(m))
}

// CreateRoom adds a screening room and returns it with 201.
func (h *AdminHandler) CreateRoom(c echo.Context) error {
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := writeContext(c)
	defer cancel()
	r, err := h.Admin.AddRoom(ctx, req.Name, req.Rows, req.Cols)
	if err != nil {
		return writeError(c, err)
	}
	h.purge(c)
	return c.JSON(http.StatusCreated, toRoom(r))
}

// CreateScreening schedules a movie in a room and returns it with 201.
func (h *AdminHandler) CreateScreening(c echo.Context) error {
	var req screeningReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	start, err := time.ParseInLocation(model.StartTimeLayout, strings.TrimSpace(req.StartTime), time.UTC)
	if err != nil {
		return writeError(c, model.Validationf("start_time must look like %q", model.StartTimeLayout))
	}
	ctx, cancel := writeContext(c)
	defer cancel()
	s, err := h.Admin.AddScreening(ctx, req.MovieID, req.RoomID, start, req.Price)
	if err != nil {
		return writeError(c, err)
	}
	h.purge(c)
	return c.JSON(http.StatusCreated, toScreening(s))
}

// ListRooms returns every room in catalog order.
func (h *AdminHandler) ListRooms(c echo.Context) error {
	rooms := h.Cinema.Rooms()
	out := make([]roomResp, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, toRoom(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListScreeningReservations returns the reservations of one screening with
// their totals and the screening's revenue.
func (h *AdminHandler) ListScreeningReservations(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	s, ok := h.Cinema.ScreeningByID(id)
	if !ok {
		return writeError(c, model.NotFoundf("screening %d", id))
	}
	reservations := h.Cinema.ReservationsByScreening(id)
	out := make([]reservationResp, 0, len(reservations))
	var revenue float64
	for _, r := range reservations {
		item := toReservation(r, s)
		revenue += item.TotalPrice
		out = append(out, item)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"screening": toScreening(s),
		"items":     out,
		"revenue":   revenue,
	})
}

// purge drops cached listings after a saved write.  A failure is logged
// only; entries expire on their own.
func (h *AdminHandler) purge(c echo.Context) {
	if h.Purge == nil {
		return
	}
	if err := h.Purge(c.Request().Context()); err != nil {
		log.Printf("handler: purging cached listings: %v", err)
	}
}
