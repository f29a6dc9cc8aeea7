package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
	"github.com/phrazzld/enlearn/internal/domain"
	"github.com/phrazzld/enlearn/internal/platform/logger"
	"github.com/phrazzld/enlearn/internal/store"
)

// Store implements store.EntryStore on a SQLite database file.
type Store struct {
	db   *sqlx.DB
	path string
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used when repairing records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Ensure Store implements store.EntryStore.
var _ store.EntryStore = (*Store)(nil)

type row struct {
	Position int64  `db:"position"`
	Record   string `db:"record"`
}

// Open opens (creating if needed) the database at path and applies migrations.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	log := logger.FromContext(ctx)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, store.NewStoreError("open", path, "failed to create directory", err)
	}

	db, err := sqlx.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, store.NewStoreError("open", path, "failed to open database", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, store.NewStoreError("open", path, "failed to connect to database", err)
	}

	if err := migrate(ctx, db, log); err != nil {
		_ = db.Close()
		return nil, store.NewStoreError("open", path, "failed to migrate database", err)
	}

	s := &Store{db: db, path: path, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	log.Debug("sqlite store opened", slog.String("path", path))
	return s, nil
}

// Location returns the database file path.
func (s *Store) Location() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads every row in position order, repairs records with missing
// fields and writes any repair back before returning.
func (s *Store) Load(ctx context.Context) ([]*domain.Entry, error) {
	log := logger.FromContext(ctx)

	var rows []row
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT position, record FROM entries ORDER BY position`); err != nil {
		return nil, store.NewStoreError("load", s.path, "failed to query entries", err)
	}

	records := make([]domain.Record, 0, len(rows))
	for _, r := range rows {
		rec, err := store.DecodeRecord(fmt.Sprintf("%s (row %d)", s.path, r.Position), []byte(r.Record))
		if err != nil {
			log.Error("stored entry is corrupted",
				slog.String("path", s.path),
				slog.Int64("position", r.Position),
				slog.String("error", err.Error()))
			return nil, err
		}
		records = append(records, rec)
	}

	entries, changed := store.Hydrate(records, s.now)
	if changed {
		if err := s.Save(ctx, entries); err != nil {
			return nil, err
		}
		log.Info("repaired entries with missing fields",
			slog.String("path", s.path),
			slog.Int("entry_count", len(entries)))
	}

	return entries, nil
}

// Save replaces all rows with entries in one transaction.
func (s *Store) Save(ctx context.Context, entries []*domain.Entry) error {
	err := runInTransaction(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
			return fmt.Errorf("failed to clear entries: %w", err)
		}

		stmt, err := tx.PreparexContext(ctx,
			`INSERT INTO entries (position, entry_id, record) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for i, e := range entries {
			data, err := store.EncodeRecord(e)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, i, e.ID, string(data)); err != nil {
				return fmt.Errorf("failed to insert entry %s: %w", e.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return store.NewStoreError("save", s.path, "failed to replace entries",
			errors.Join(store.ErrSaveFailed, err))
	}
	return nil
}
