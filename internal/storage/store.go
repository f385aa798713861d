package storage

import (
	"context"
	"log"

	"github.com/iliyamo/cinema-booking-manager/internal/repository"
)

// Store persists whole catalogs.  Save replaces the stored catalog in one
// step.  Load returns (nil, nil) when nothing has been stored yet and an
// error wrapping model.ErrPersistence when the stored content is
// unreadable or violates a catalog invariant.
type Store interface {
	Save(ctx context.Context, c *repository.Cinema) error
	Load(ctx context.Context) (*repository.Cinema, error)
}

// Restore loads the catalog from s.  A missing or broken catalog is
// logged and replaced by an empty one named name, so startup never fails
// on bad state.
func Restore(ctx context.Context, s Store, name string) *repository.Cinema {
	c, err := s.Load(ctx)
	if err != nil {
		log.Printf("storage: error loading data, starting with an empty catalog: %v", err)
		return repository.NewCinema(name)
	}
	if c == nil {
		log.Printf("storage: no saved catalog, starting with an empty one")
		return repository.NewCinema(name)
	}
	return c
}
