// Package jsonfile stores the vocabulary collection as a single JSON file.
package jsonfile

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/phrazzld/enlearn/internal/domain"
	"github.com/phrazzld/enlearn/internal/platform/logger"
	"github.com/phrazzld/enlearn/internal/store"
	"github.com/spf13/afero"
)

// Store implements store.EntryStore on top of an afero filesystem.
type Store struct {
	fs   afero.Fs
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

// NewStore returns a Store for the file at path on fs.
func NewStore(fs afero.Fs, path string, opts ...Option) *Store {
	s := &Store{
		fs:   fs,
		path: path,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewOSStore returns a Store backed by the operating system filesystem.
func NewOSStore(path string, opts ...Option) *Store {
	return NewStore(afero.NewOsFs(), path, opts...)
}

// Location returns the file path.
func (s *Store) Location() string {
	return s.path
}

// Load reads and decodes the collection. A missing file is an empty
// collection. Repaired records are written back before returning.
func (s *Store) Load(ctx context.Context) ([]*domain.Entry, error) {
	log := logger.FromContext(ctx)

	exists, err := afero.Exists(s.fs, s.path)
	if err != nil {
		return nil, store.NewStoreError("load", s.path, "failed to stat file", err)
	}
	if !exists {
		log.Debug("storage file does not exist yet", slog.String("path", s.path))
		return []*domain.Entry{}, nil
	}

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, store.NewStoreError("load", s.path, "failed to read file", err)
	}

	records, err := store.DecodeCollection(s.path, data)
	if err != nil {
		log.Error("storage file is corrupted",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		return nil, err
	}

	entries, changed := store.Hydrate(records, s.now)
	if changed {
		if err := s.write(entries); err != nil {
			return nil, err
		}
		log.Info("repaired entries with missing fields",
			slog.String("path", s.path),
			slog.Int("entry_count", len(entries)))
	}

	return entries, nil
}

// Save atomically replaces the file with entries.
func (s *Store) Save(ctx context.Context, entries []*domain.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.write(entries)
}

// write encodes entries into a temporary file in the target directory and
// renames it over the target, so readers see either the old or the new file.
func (s *Store) write(entries []*domain.Entry) error {
	data, err := store.EncodeCollection(entries)
	if err != nil {
		return saveError(s.path, "failed to encode collection", err)
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return saveError(s.path, "failed to create directory", err)
	}

	tmp, err := afero.TempFile(s.fs, dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return saveError(s.path, "failed to create temporary file", err)
	}
	tmpName := tmp.Name()

	if err := writeAndClose(tmp, data); err != nil {
		_ = s.fs.Remove(tmpName)
		return saveError(s.path, "failed to write temporary file", err)
	}

	if err := s.fs.Rename(tmpName, s.path); err != nil {
		_ = s.fs.Remove(tmpName)
		return saveError(s.path, "failed to replace file", err)
	}

	return nil
}

func writeAndClose(f afero.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func saveError(path, message string, err error) error {
	return store.NewStoreError("save", path, message, errors.Join(store.ErrSaveFailed, err))
}
