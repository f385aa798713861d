package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-manager/internal/repository"
)

type searchRow struct {
	ID        int     `json:"id"`
	Title     string  `json:"title"`
	RoomID    int     `json:"room_id"`
	RoomName  string  `json:"room_name"`
	StartsAt  string  `json:"starts_at"`
	EndsAt    string  `json:"ends_at"`
	Price     float64 `json:"price"`
	Available int     `json:"available_count"`
}

// SearchScreenings filters screenings by ?title=, ?room= and
// ?time=upcoming|active|any, paged by ?page= and ?page_size= (max 100).
func (h *PublicHandler) SearchScreenings(c echo.Context) error {
	timeFilter := strings.ToLower(strings.TrimSpace(c.QueryParam("time")))
	if timeFilter == "" {
		timeFilter = "upcoming"
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	ps, _ := strconv.Atoi(c.QueryParam("page_size"))
	if ps < 1 {
		ps = 20
	}
	if ps > 100 {
		ps = 100
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	rows, total := h.Cinema.SearchScreenings(repository.ScreeningQuery{
		Title:      c.QueryParam("title"),
		Room:       c.QueryParam("room"),
		TimeFilter: timeFilter,
		Now:        now().UTC(),
		Page:       page,
		PageSize:   ps,
	})
	out := make([]searchRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, searchRow{
			ID:        r.ID,
			Title:     r.Title,
			RoomID:    r.RoomID,
			RoomName:  r.RoomName,
			StartsAt:  formatStart(r.StartsAt),
			EndsAt:    formatStart(r.EndsAt),
			Price:     r.Price,
			Available: r.Available,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data":      out,
		"total":     total,
		"page":      page,
		"page_size": ps,
	})
}
