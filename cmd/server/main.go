package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/cinema-booking-manager/internal/config"
	"github.com/iliyamo/cinema-booking-manager/internal/handler"
	"github.com/iliyamo/cinema-booking-manager/internal/middleware"
	"github.com/iliyamo/cinema-booking-manager/internal/queue"
	"github.com/iliyamo/cinema-booking-manager/internal/router"
	"github.com/iliyamo/cinema-booking-manager/internal/service"
	"github.com/iliyamo/cinema-booking-manager/internal/storage"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore := openStore(ctx, cfg)
	defer closeStore()

	cinema := storage.Restore(ctx, st, cfg.CinemaName)
	log.Printf("catalog %q: %d movies, %d rooms, %d screenings, %d reservations",
		cinema.Name(), len(cinema.Movies()), len(cinema.Rooms()), len(cinema.Screenings()), len(cinema.Reservations()))

	var publisher service.Publisher
	if cfg.QueueEnabled {
		publisher = service.NewRabbitPublisher(cfg.RabbitURL)
		go func() {
			err := queue.StartReservationConsumer(ctx, cfg.RabbitURL, queue.BookingLogger{Path: cfg.BookingLog})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("booking-consumer: stopped: %v", err)
			}
		}()
	}

	reservations := service.NewReservationService(cinema, st, publisher)
	admin := service.NewAdminService(cinema, st)

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
	}
	cacheCfg := config.LoadCacheConfig()

	adminHandler := handler.NewAdminHandler(admin, cinema)
	adminHandler.Purge = func(ctx context.Context) error {
		return middleware.PurgeCache(ctx, rdb, cacheCfg.Prefix)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterRoutes(e)
	router.RegisterPublic(e, handler.NewPublicHandler(cinema), middleware.NewRedisCache(cacheCfg, rdb))
	router.RegisterBooking(e, handler.NewBookingHandler(reservations, cinema),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	router.RegisterAdmin(e, handler.NewAuthHandler(cfg), adminHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, storage=%s)", addr, cfg.Env, cfg.StorageDriver)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	// Requests are drained; write the final state once more.
	if err := st.Save(shutdownCtx, cinema); err != nil {
		log.Printf("storage: error saving data on shutdown: %v", err)
	}
}

// openStore picks the backend named by STORAGE_DRIVER.
func openStore(ctx context.Context, cfg config.Config) (storage.Store, func()) {
	if cfg.StorageDriver != config.StorageMySQL {
		log.Printf("storage: file %s", cfg.DataFile)
		return storage.NewFileStore(cfg.DataFile), func() {}
	}
	db, err := storage.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("storage: mysql connect: %v", err)
	}
	ms := storage.NewMySQLStore(db, cfg.CinemaName)
	if err := ms.EnsureSchema(ctx); err != nil {
		log.Fatalf("storage: %v", err)
	}
	log.Printf("storage: mysql %s:%s/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)
	return ms, func() { db.Close() }
}
