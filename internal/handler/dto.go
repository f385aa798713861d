package handler

import (
	"time"

	"github.com/iliyamo/cinema-booking-manager/internal/model"
)

// Seats travel as [row, col] pairs in both directions.

type movieResp struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Duration    int    `json:"duration"`
	Rating      string `json:"rating"`
	Description string `json:"description"`
	Label       string `json:"label"`
}

func toMovie(m model.Movie) movieResp {
	return movieResp{
		ID:          m.ID,
		Title:       m.Title,
		Duration:    m.Duration,
		Rating:      m.Rating,
		Description: m.Description,
		Label:       m.String(),
	}
}

type roomResp struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Rows     int    `json:"rows"`
	Cols     int    `json:"cols"`
	Capacity int    `json:"capacity"`
}

func toRoom(r model.ScreeningRoom) roomResp {
	return roomResp{ID: r.ID, Name: r.Name, Rows: r.Rows, Cols: r.Cols, Capacity: r.TotalSeats()}
}

type screeningResp struct {
	ID        int     `json:"id"`
	MovieID   int     `json:"movie_id"`
	RoomID    int     `json:"room_id"`
	StartTime string  `json:"start_time"`
	Price     float64 `json:"price"`
	Reserved  int     `json:"reserved_count"`
}

func toScreening(s *model.Screening) screeningResp {
	return screeningResp{
		ID:        s.ID,
		MovieID:   s.MovieID,
		RoomID:    s.RoomID,
		StartTime: formatStart(s.StartTime),
		Price:     s.Price,
		Reserved:  s.ReservedCount(),
	}
}

type screeningDetailResp struct {
	screeningResp
	Movie     movieResp `json:"movie"`
	Room      roomResp  `json:"room"`
	Available int       `json:"available_count"`
}

type seatMapResp struct {
	ScreeningID int     `json:"screening_id"`
	Rows        int     `json:"rows"`
	Cols        int     `json:"cols"`
	Available   [][]int `json:"available"`
	Reserved    [][]int `json:"reserved"`
}

type reservationResp struct {
	ID            int     `json:"id"`
	ScreeningID   int     `json:"screening_id"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	Seats         [][]int `json:"seats"`
	Timestamp     string  `json:"timestamp"`
	TotalPrice    float64 `json:"total_price"`
}

// toReservation prices the reservation at the screening's current price.
func toReservation(r model.Reservation, s *model.Screening) reservationResp {
	out := reservationResp{
		ID:            r.ID,
		ScreeningID:   r.ScreeningID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		Seats:         seatPairs(r.Seats),
		Timestamp:     r.Timestamp.UTC().Format(model.TimestampLayout),
	}
	if s != nil {
		out.TotalPrice = r.TotalPrice(s)
	}
	return out
}

func formatStart(t time.Time) string { return t.UTC().Format(model.StartTimeLayout) }

func seatPair(s model.Seat) []int { return []int{s.Row, s.Col} }

func seatPairs(seats []model.Seat) [][]int {
	out := make([][]int, 0, len(seats))
	for _, s := range seats {
		out = append(out, seatPair(s))
	}
	return out
}

func seatsFromPairs(pairs [][]int) ([]model.Seat, error) {
	out := make([]model.Seat, 0, len(pairs))
	for i, p := range pairs {
		if len(p) != 2 {
			return nil, model.Validationf("seat #%d must be [row, col]", i+1)
		}
		out = append(out, model.Seat{Row: p[0], Col: p[1]})
	}
	return out, nil
}
