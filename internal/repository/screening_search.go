package repository

import (
	"sort"
	"strings"
	"time"
)

// ScreeningQuery filters and pages a screening search.
type ScreeningQuery struct {
	Title      string // case-insensitive substring of the movie title
	Room       string // case-insensitive substring of the room name
	TimeFilter string // "upcoming" (default), "active" (not yet ended), "any"
	Now        time.Time
	Page       int // 1-based
	PageSize   int
}

// ScreeningRow is one search hit joined with its movie and room.
type ScreeningRow struct {
	ID        int
	Title     string
	RoomID    int
	RoomName  string
	StartsAt  time.Time
	EndsAt    time.Time // start plus movie duration
	Price     float64
	Available int
}

// SearchScreenings returns the requested page ordered by start time, then
// id, together with the total number of matches.
func (c *Cinema) SearchScreenings(q ScreeningQuery) ([]ScreeningRow, int) {
	title := strings.ToLower(strings.TrimSpace(q.Title))
	room := strings.ToLower(strings.TrimSpace(q.Room))

	c.mu.RLock()
	var rows []ScreeningRow
	for _, s := range c.screenings {
		m, _ := c.movieLocked(s.MovieID)
		r, _ := c.roomLocked(s.RoomID)
		if title != "" && !strings.Contains(strings.ToLower(m.Title), title) {
			continue
		}
		if room != "" && !strings.Contains(strings.ToLower(r.Name), room) {
			continue
		}
		ends := s.StartTime.Add(time.Duration(m.Duration) * time.Minute)
		switch strings.ToLower(q.TimeFilter) {
		case "any":
		case "active":
			if ends.Before(q.Now) {
				continue
			}
		default:
			if s.StartTime.Before(q.Now) {
				continue
			}
		}
		rows = append(rows, ScreeningRow{
			ID:        s.ID,
			Title:     m.Title,
			RoomID:    r.ID,
			RoomName:  r.Name,
			StartsAt:  s.StartTime,
			EndsAt:    ends,
			Price:     s.Price,
			Available: r.TotalSeats() - s.ReservedCount(),
		})
	}
	c.mu.RUnlock()

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].StartsAt.Equal(rows[j].StartsAt) {
			return rows[i].StartsAt.Before(rows[j].StartsAt)
		}
		return rows[i].ID < rows[j].ID
	})
	total := len(rows)
	from := (q.Page - 1) * q.PageSize
	if q.Page < 1 || q.PageSize < 1 || from >= total {
		return []ScreeningRow{}, total
	}
	to := from + q.PageSize
	if to > total {
		to = total
	}
	return rows[from:to], total
}
