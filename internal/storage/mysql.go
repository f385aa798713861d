package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/iliyamo/cinema-booking-manager/internal/model"
	"github.com/iliyamo/cinema-booking-manager/internal/repository"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true maps DATETIME to time.Time, loc=UTC keeps saved_at consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)
	return OpenDSN(dsn)
}

// OpenDSN is Open for a ready-made data source name.
func OpenDSN(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

const createSnapshotsTable = `
CREATE TABLE IF NOT EXISTS catalog_snapshots (
    name      VARCHAR(191) NOT NULL PRIMARY KEY,
    document  LONGTEXT     NOT NULL,
    saved_at  DATETIME     NOT NULL
) CHARACTER SET utf8mb4`

// MySQLStore keeps the catalog document as one row keyed by cinema name.
// Each save replaces the row inside a transaction, so readers see either
// the previous document or the new one.
type MySQLStore struct {
	db    *sql.DB
	name  string
	codec codec
}

// NewMySQLStore returns a store that reads and writes the row for name.
func NewMySQLStore(db *sql.DB, name string) *MySQLStore {
	return &MySQLStore{db: db, name: name, codec: jsonCodec{}}
}

// EnsureSchema creates the snapshot table when it is missing.
func (s *MySQLStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createSnapshotsTable); err != nil {
		return fmt.Errorf("creating catalog_snapshots: %w", err)
	}
	return nil
}

// Save upserts the current catalog document.
func (s *MySQLStore) Save(ctx context.Context, c *repository.Cinema) error {
	data, err := s.codec.marshal(encode(c.Snapshot()))
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `
        INSERT INTO catalog_snapshots (name, document, saved_at)
        VALUES (?, ?, ?)
        ON DUPLICATE KEY UPDATE document = VALUES(document), saved_at = VALUES(saved_at)`
	if _, err := tx.ExecContext(ctx, q, s.name, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("saving catalog %q: %w", s.name, err)
	}
	return tx.Commit()
}

// Load reads the document for the store's name.  A missing row means
// nothing has been saved yet.
func (s *MySQLStore) Load(ctx context.Context) (*repository.Cinema, error) {
	const q = `SELECT document FROM catalog_snapshots WHERE name = ?`
	var raw string
	err := s.db.QueryRowContext(ctx, q, s.name).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading catalog %q: %v", model.ErrPersistence, s.name, err)
	}
	var doc document
	if err := s.codec.unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing catalog %q: %v", model.ErrPersistence, s.name, err)
	}
	return decode(doc)
}
