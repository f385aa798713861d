package service

import (
	"context"

	"github.com/iliyamo/cinema-booking-manager/internal/repository"
)

// Saver writes a catalog durably.  storage.FileStore and storage.MySQLStore
// satisfy it.  The services hand it the candidate catalog of a write
// before that write becomes visible.
type Saver interface {
	Save(ctx context.Context, c *repository.Cinema) error
}

func persistTo(store Saver) repository.PersistFunc {
	if store == nil {
		return nil
	}
	return store.Save
}
