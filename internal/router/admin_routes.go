package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-manager/internal/handler"
	"github.com/iliyamo/cinema-booking-manager/internal/middleware"
	"github.com/iliyamo/cinema-booking-manager/internal/utils"
)

// RegisterAdmin registers the login endpoint and the ADMIN-scoped catalog
// endpoints under /v1/admin.
func RegisterAdmin(e *echo.Echo, a *handler.AuthHandler, o *handler.AdminHandler, jwtSecret string) {
	e.POST("/v1/admin/login", a.Login)

	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleAdmin),
	)

	// ---- Catalog ----
	g.POST("/movies", o.CreateMovie)
	g.GET("/rooms", o.ListRooms)
	g.POST("/rooms", o.CreateRoom)
	g.POST("/screenings", o.CreateScreening)

	// ---- Reservations ----
	g.GET("/screenings/:id/reservations", o.ListScreeningReservations)
}
