package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/iliyamo/cinema-booking-manager/internal/model"
	"github.com/iliyamo/cinema-booking-manager/internal/repository"
)

// FileStore keeps the catalog in a single file.  The format follows the
// file extension: .yaml/.yml for YAML, anything else for indented JSON.
type FileStore struct {
	path  string
	codec codec
	mu    sync.Mutex // serializes saves so a stale snapshot never lands last
}

// NewFileStore returns a store for the given path.  The file need not
// exist yet; its parent directory is created on the first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, codec: codecFor(path)}
}

// Path returns the target file.
func (s *FileStore) Path() string { return s.path }

// Save writes the catalog atomically.  The document goes to a temporary
// file in the same directory, is fsynced and then renamed over the
// target, so a crash leaves either the old or the new file, never a
// truncated one.
func (s *FileStore) Save(ctx context.Context, c *repository.Cinema) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.codec.marshal(encode(c.Snapshot()))
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	file, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary catalog file: %w", err)
	}
	temporaryPath := file.Name()

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary catalog file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary catalog file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary catalog file: %w", err)
	}
	if err := os.Rename(temporaryPath, s.path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming catalog file into place: %w", err)
	}

	// Sync the directory so the rename itself survives a power loss.
	if parent, err := os.Open(dir); err == nil {
		parent.Sync()
		parent.Close()
	}
	return nil
}

// Load reads and verifies the stored catalog.
func (s *FileStore) Load(ctx context.Context) (*repository.Cinema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", model.ErrPersistence, s.path, err)
	}
	var doc document
	if err := s.codec.unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", model.ErrPersistence, s.path, err)
	}
	c, err := decode(doc)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", s.path, err)
	}
	return c, nil
}
