package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-booking-manager/internal/repository"
	"github.com/iliyamo/cinema-booking-manager/internal/service"
	"github.com/iliyamo/cinema-booking-manager/internal/storage"
)

// failingSaver rejects every save while failing is set.
type failingSaver struct {
	failing atomic.Bool
}

func (s *failingSaver) Save(context.Context, *repository.Cinema) error {
	if s.failing.Load() {
		return errors.New("disk full")
	}
	return nil
}

type fixture struct {
	e      *echo.Echo
	cinema *repository.Cinema
	admin  *AdminHandler
}

// newFixture mounts the handlers without auth middleware; route guarding is
// covered by the router tests.
func newFixture(t *testing.T, store service.Saver) *fixture {
	t.Helper()
	cinema := repository.NewCinema("Test Cinema")
	public := NewPublicHandler(cinema)
	booking := NewBookingHandler(service.NewReservationService(cinema, store, nil), cinema)
	admin := NewAdminHandler(service.NewAdminService(cinema, store), cinema)

	e := echo.New()
	e.GET("/v1/movies", public.ListMovies)
	e.GET("/v1/movies/:id/screenings", public.ListScreeningsByMovie)
	e.GET("/v1/screenings/:id", public.GetScreening)
	e.GET("/v1/screenings/:id/seats", public.GetScreeningSeats)
	e.GET("/v1/reservations/:id", public.GetReservation)
	e.POST("/v1/screenings/:id/reservations", booking.CreateReservation)
	e.POST("/v1/admin/movies", admin.CreateMovie)
	e.POST("/v1/admin/rooms", admin.CreateRoom)
	e.POST("/v1/admin/screenings", admin.CreateScreening)
	e.GET("/v1/admin/rooms", admin.ListRooms)
	e.GET("/v1/admin/screenings/:id/reservations", admin.ListScreeningReservations)
	return &fixture{e: e, cinema: cinema, admin: admin}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

// seed creates Dune in a 5x5 room at 2026-03-01 19:30 for 50.
func (f *fixture) seed(t *testing.T) {
	t.Helper()
	rec := f.do(http.MethodPost, "/v1/admin/movies", `{"title":"Dune","duration":155,"rating":"PG-13","description":"Spice must flow."}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = f.do(http.MethodPost, "/v1/admin/rooms", `{"name":"Room 1","rows":5,"cols":5}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = f.do(http.MethodPost, "/v1/admin/screenings", `{"movie_id":1,"room_id":1,"start_time":"2026-03-01 19:30","price":50}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestBookingFlow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cinema.json")
	store := storage.NewFileStore(path)
	f := newFixture(t, store)
	f.seed(t)

	movies := decode[struct {
		Cinema string      `json:"cinema"`
		Items  []movieResp `json:"items"`
	}](t, f.do(http.MethodGet, "/v1/movies", ""))
	assert.Equal(t, "Test Cinema", movies.Cinema)
	require.Len(t, movies.Items, 1)
	assert.Equal(t, "Dune (PG-13) - 155 min", movies.Items[0].Label)

	byMovie := decode[struct {
		Items []screeningResp `json:"items"`
	}](t, f.do(http.MethodGet, "/v1/movies/1/screenings", ""))
	require.Len(t, byMovie.Items, 1)
	assert.Equal(t, "2026-03-01 19:30", byMovie.Items[0].StartTime)

	rec := f.do(http.MethodPost, "/v1/screenings/1/reservations",
		`{"customer_name":"Ann Lee","customer_email":"ann@example.com","seats":[[1,1],[1,2]]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[reservationResp](t, rec)
	assert.Equal(t, 1, res.ID)
	assert.Equal(t, 100.0, res.TotalPrice)
	assert.Equal(t, [][]int{{1, 1}, {1, 2}}, res.Seats)

	rec = f.do(http.MethodPost, "/v1/screenings/1/reservations",
		`{"customer_name":"Bob","customer_email":"bob@example.com","seats":[[1,1]]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	conflict := decode[struct {
		Seat []int `json:"seat"`
	}](t, rec)
	assert.Equal(t, []int{1, 1}, conflict.Seat)

	seats := decode[seatMapResp](t, f.do(http.MethodGet, "/v1/screenings/1/seats", ""))
	assert.Len(t, seats.Available, 23)
	assert.Equal(t, [][]int{{1, 1}, {1, 2}}, seats.Reserved)
	assert.Equal(t, []int{1, 3}, seats.Available[0])

	detail := decode[screeningDetailResp](t, f.do(http.MethodGet, "/v1/screenings/1", ""))
	assert.Equal(t, 23, detail.Available)
	assert.Equal(t, 2, detail.Reserved)
	assert.Equal(t, "Room 1", detail.Room.Name)
	assert.Equal(t, 25, detail.Room.Capacity)

	got := decode[reservationResp](t, f.do(http.MethodGet, "/v1/reservations/1", ""))
	assert.Equal(t, "Ann Lee", got.CustomerName)
	assert.Equal(t, 100.0, got.TotalPrice)

	listing := decode[struct {
		Items   []reservationResp `json:"items"`
		Revenue float64           `json:"revenue"`
	}](t, f.do(http.MethodGet, "/v1/admin/screenings/1/reservations", ""))
	assert.Len(t, listing.Items, 1)
	assert.Equal(t, 100.0, listing.Revenue)

	reloaded, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Len(t, reloaded.Reservations(), 1)
	assert.Len(t, reloaded.Movies(), 1)
}

func TestCreateReservationRejections(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t)

	cases := []struct {
		name string
		path string
		body string
		want int
	}{
		{"bad id", "/v1/screenings/abc/reservations", `{"customer_name":"A","customer_email":"a@b.co","seats":[[1,1]]}`, http.StatusBadRequest},
		{"unknown screening", "/v1/screenings/9/reservations", `{"customer_name":"A","customer_email":"a@b.co","seats":[[1,1]]}`, http.StatusNotFound},
		{"malformed json", "/v1/screenings/1/reservations", `{"customer_name":`, http.StatusBadRequest},
		{"short seat", "/v1/screenings/1/reservations", `{"customer_name":"A","customer_email":"a@b.co","seats":[[1]]}`, http.StatusBadRequest},
		{"no seats", "/v1/screenings/1/reservations", `{"customer_name":"A","customer_email":"a@b.co","seats":[]}`, http.StatusBadRequest},
		{"bad email", "/v1/screenings/1/reservations", `{"customer_name":"A","customer_email":"nope","seats":[[1,1]]}`, http.StatusBadRequest},
		{"outside grid", "/v1/screenings/1/reservations", `{"customer_name":"A","customer_email":"a@b.co","seats":[[6,1]]}`, http.StatusBadRequest},
		{"duplicate seat", "/v1/screenings/1/reservations", `{"customer_name":"A","customer_email":"a@b.co","seats":[[2,2],[2,2]]}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, tc.path, tc.body)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
	assert.Empty(t, f.cinema.Reservations())
}

func TestSaveFailureIsReported(t *testing.T) {
	store := &failingSaver{}
	f := newFixture(t, store)
	f.seed(t)
	store.failing.Store(true)

	rec := f.do(http.MethodPost, "/v1/admin/movies", `{"title":"Arrival","duration":116}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to save data")
	assert.Len(t, f.cinema.Movies(), 1)

	const body = `{"customer_name":"Ann Lee","customer_email":"ann@example.com","seats":[[1,1]]}`
	for attempt := 1; attempt <= 2; attempt++ {
		rec = f.do(http.MethodPost, "/v1/screenings/1/reservations", body)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, "attempt %d: %s", attempt, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "failed to save data")
	}
	assert.Empty(t, f.cinema.Reservations())
	seats := decode[seatMapResp](t, f.do(http.MethodGet, "/v1/screenings/1/seats", ""))
	assert.Empty(t, seats.Reserved)

	store.failing.Store(false)
	rec = f.do(http.MethodPost, "/v1/screenings/1/reservations", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decode[reservationResp](t, rec).ID)
	rec = f.do(http.MethodPost, "/v1/admin/movies", `{"title":"Arrival","duration":116}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 2, decode[movieResp](t, rec).ID)
}

func TestCreateScreeningRejections(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(http.MethodPost, "/v1/admin/screenings", `{"movie_id":1,"room_id":1,"start_time":"2026-03-01 19:30","price":50}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	f.seed(t)
	rec = f.do(http.MethodPost, "/v1/admin/screenings", `{"movie_id":1,"room_id":1,"start_time":"March 1st","price":50}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = f.do(http.MethodPost, "/v1/admin/screenings", `{"movie_id":1,"room_id":1,"start_time":"2026-03-02 19:30","price":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = f.do(http.MethodPost, "/v1/admin/movies", `{"title":"","duration":10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = f.do(http.MethodPost, "/v1/admin/screenings", `{"movie_id":1,"room_id":1,"start_time":"2026-03-02 19:30","price":1e308}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = f.do(http.MethodPost, "/v1/admin/rooms", `{"name":"Tiny","rows":0,"cols":3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = f.do(http.MethodPost, "/v1/admin/rooms", `{"name":"Stadium","rows":20000,"cols":20000}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rooms := decode[struct {
		Items []roomResp `json:"items"`
	}](t, f.do(http.MethodGet, "/v1/admin/rooms", ""))
	assert.Len(t, rooms.Items, 1)
}

func TestBrowseNotFound(t *testing.T) {
	f := newFixture(t, nil)
	for _, path := range []string{"/v1/movies/1/screenings", "/v1/screenings/1", "/v1/screenings/1/seats", "/v1/reservations/1", "/v1/admin/screenings/1/reservations"} {
		assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, path, "").Code, path)
	}
}

func TestAdminWritesPurgeCache(t *testing.T) {
	f := newFixture(t, nil)
	purges := 0
	f.admin.Purge = func(context.Context) error { purges++; return nil }
	f.seed(t)
	assert.Equal(t, 3, purges)

	f.do(http.MethodPost, "/v1/admin/movies", `{"title":"","duration":10}`)
	assert.Equal(t, 3, purges, "rejected writes leave the cache alone")
}

func TestSearchScreenings(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t)
	rec := f.do(http.MethodPost, "/v1/admin/rooms", `{"name":"IMAX","rows":2,"cols":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = f.do(http.MethodPost, "/v1/admin/screenings", `{"movie_id":1,"room_id":2,"start_time":"2026-03-01 17:00","price":80}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	type page struct {
		Data  []searchRow `json:"data"`
		Total int         `json:"total"`
	}
	f.e.GET("/v1/search/screenings", func(c echo.Context) error {
		p := NewPublicHandler(f.cinema)
		p.Now = func() time.Time { return time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC) }
		return p.SearchScreenings(c)
	})

	upcoming := decode[page](t, f.do(http.MethodGet, "/v1/search/screenings?title=dune", ""))
	require.Equal(t, 1, upcoming.Total)
	assert.Equal(t, "2026-03-01 19:30", upcoming.Data[0].StartsAt)
	assert.Equal(t, "2026-03-01 22:05", upcoming.Data[0].EndsAt)

	active := decode[page](t, f.do(http.MethodGet, "/v1/search/screenings?time=active", ""))
	require.Equal(t, 2, active.Total)
	assert.Equal(t, "IMAX", active.Data[0].RoomName, "ordered by start time")
	assert.Equal(t, 4, active.Data[0].Available)

	paged := decode[page](t, f.do(http.MethodGet, "/v1/search/screenings?time=any&page=2&page_size=1", ""))
	assert.Equal(t, 2, paged.Total)
	require.Len(t, paged.Data, 1)
	assert.Equal(t, "Room 1", paged.Data[0].RoomName)

	none := decode[page](t, f.do(http.MethodGet, "/v1/search/screenings?room=vip&time=any", ""))
	assert.Equal(t, 0, none.Total)
	assert.Empty(t, none.Data)
}
