package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/enlearn/internal/domain"
	"github.com/phrazzld/enlearn/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC) }

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(context.Background(), path, WithClock(fixedNow))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenEmptyDatabase(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "vocab.db")
	s := openTestStore(t, path)

	entries, err := s.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, path, s.Location())
}

func TestSaveLoadKeepsOrder(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "vocab.db")
	s := openTestStore(t, path)
	ctx := context.Background()

	var entries []*domain.Entry
	for _, w := range []string{"zebra", "apple", "mango"} {
		e, err := domain.NewEntry(w, "definition of "+w, "", fixedNow())
		require.NoError(t, err)
		entries = append(entries, e)
	}
	require.NoError(t, s.Save(ctx, entries))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, entries, loaded)

	require.NoError(t, s.Save(ctx, entries[1:]))
	loaded, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, entries[1:], loaded, "save replaces the whole collection")
}

func TestReopenPersists(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "vocab.db")
	ctx := context.Background()

	first, err := Open(ctx, path)
	require.NoError(t, err)
	e, err := domain.NewEntry("apple", "蘋果", "", fixedNow())
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, []*domain.Entry{e}))
	require.NoError(t, first.Close())

	second := openTestStore(t, path)
	loaded, err := second.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, e, loaded[0])
}

func TestLoadRepairsLegacyRows(t *testing.T) {
	t.Parallel()
	s := openTestStore(t, filepath.Join(t.TempDir(), "vocab.db"))
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (position, record) VALUES (0, '{"word":"apple","definition":"蘋果"}')`)
	require.NoError(t, err)

	entries, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].ID)
	assert.Equal(t, domain.Date("2024-03-05"), entries[0].NextReview)

	var entryID string
	require.NoError(t, s.db.GetContext(ctx, &entryID, `SELECT entry_id FROM entries WHERE position = 0`))
	assert.Equal(t, entries[0].ID, entryID, "repair is written back")

	again, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, entries, again)
}

func TestLoadCorruptedRow(t *testing.T) {
	t.Parallel()
	s := openTestStore(t, filepath.Join(t.TempDir(), "vocab.db"))
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, `INSERT INTO entries (position, record) VALUES (0, 'not json')`)
	require.NoError(t, err)

	_, err = s.Load(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrCorruptedStorage))
}

func TestRunInTransactionRollsBack(t *testing.T) {
	t.Parallel()
	s := openTestStore(t, filepath.Join(t.TempDir(), "vocab.db"))
	ctx := context.Background()

	e, err := domain.NewEntry("apple", "蘋果", "", fixedNow())
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, []*domain.Entry{e}))

	boom := errors.New("boom")
	err = runInTransaction(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 1, "rolled back delete leaves the row in place")
}

func TestRunInTransactionRepanics(t *testing.T) {
	t.Parallel()
	s := openTestStore(t, filepath.Join(t.TempDir(), "vocab.db"))

	assert.Panics(t, func() {
		_ = runInTransaction(context.Background(), s.db, func(context.Context, *sqlx.Tx) error {
			panic("boom")
		})
	})
}
