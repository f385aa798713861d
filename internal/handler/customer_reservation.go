package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-manager/internal/repository"
	"github.com/iliyamo/cinema-booking-manager/internal/service"
)

// BookingHandler takes reservations from guests.
type BookingHandler struct {
	Reservations *service.ReservationService
	Cinema       *repository.Cinema
}

func NewBookingHandler(res *service.ReservationService, cinema *repository.Cinema) *BookingHandler {
	if res == nil || cinema == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Reservations: res, Cinema: cinema}
}

type reservationReq struct {
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	Seats         [][]int `json:"seats"`
}

// CreateReservation books seats on the screening in the path.  201 with the
// reservation and its total price; 400, 404 or 409 per the failure; 500
// when the booking could not be saved, in which case no seat is held.
func (h *BookingHandler) CreateReservation(c echo.Context) error {
	screeningID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	seats, err := seatsFromPairs(req.Seats)
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := writeContext(c)
	defer cancel()
	res, err := h.Reservations.MakeReservation(ctx, screeningID, req.CustomerName, req.CustomerEmail, seats)
	if err != nil {
		return writeError(c, err)
	}
	s, _ := h.Cinema.ScreeningByID(screeningID)
	return c.JSON(http.StatusCreated, toReservation(res, s))
}
