package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-manager/internal/handler"
)

// RegisterRoutes registers the routes that need no dependencies.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated browse endpoints.  cache
// wraps the movie list only; pass nil to serve it uncached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	var movieMW []echo.MiddlewareFunc
	if cache != nil {
		movieMW = append(movieMW, cache)
	}
	e.GET("/v1/movies", p.ListMovies, movieMW...)
	e.GET("/v1/movies/:id/screenings", p.ListScreeningsByMovie)
	e.GET("/v1/screenings/:id", p.GetScreening)
	e.GET("/v1/screenings/:id/seats", p.GetScreeningSeats)
	e.GET("/v1/reservations/:id", p.GetReservation)
	e.GET("/v1/search/screenings", p.SearchScreenings)
}
