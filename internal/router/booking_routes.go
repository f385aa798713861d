package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-manager/internal/handler"
)

// RegisterBooking registers the reservation endpoint.  Guests book without
// an account; limiter, when non-nil, throttles each client.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, limiter echo.MiddlewareFunc) {
	var mw []echo.MiddlewareFunc
	if limiter != nil {
		mw = append(mw, limiter)
	}
	e.POST("/v1/screenings/:id/reservations", b.CreateReservation, mw...)
}
