package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-manager/internal/model"
)

// saveTimeout bounds a write request, including the catalog save it
// triggers.
const saveTimeout = 10 * time.Second

// writeContext derives the context of a catalog write from the request.
func writeContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), saveTimeout)
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		return 0, model.Validationf("invalid %s %q", name, c.Param(name))
	}
	return id, nil
}

// writeError maps the error taxonomy onto status codes.
func writeError(c echo.Context, err error) error {
	var seatErr *model.SeatUnavailableError
	switch {
	case errors.As(err, &seatErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": seatErr.Error(),
			"seat":  seatPair(seatErr.Seat),
		})
	case errors.Is(err, model.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrPersistence):
		log.Printf("handler: error saving data: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save data"})
	default:
		log.Printf("handler: %s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
}
