package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecord(id string, createdAt time.Time) domain.DocumentRecord {
	return domain.DocumentRecord{
		ID:           id,
		Filename:     "rc.pdf",
		MIMEType:     "application/pdf",
		DocumentType: "rate_confirmation",
		Identifiers:  map[string]string{"po_number": "PO-88421"},
		NumPages:     2,
		NumChunks:    5,
		CreatedAt:    createdAt,
	}
}

func TestSaveAndGet(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	want := sampleRecord("doc-1", now)
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Get(ctx, "doc-1")
	require.NoError(t, err)

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Filename, got.Filename)
	assert.Equal(t, want.MIMEType, got.MIMEType)
	assert.Equal(t, want.DocumentType, got.DocumentType)
	assert.Equal(t, want.Identifiers, got.Identifiers)
	assert.Equal(t, want.NumPages, got.NumPages)
	assert.Equal(t, want.NumChunks, got.NumChunks)
	assert.True(t, got.CreatedAt.Equal(now))
}

func TestGet_NotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.Get(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSave_ReplacesExistingRecord(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	rec := sampleRecord("doc-1", time.Now().UTC())
	require.NoError(t, store.Save(ctx, rec))

	rec.Filename = "rc-v2.pdf"
	rec.NumChunks = 9
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "rc-v2.pdf", got.Filename)
	assert.Equal(t, 9, got.NumChunks)

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestList_NewestFirst(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.Save(ctx, sampleRecord("old", base.Add(-2*time.Hour))))
	require.NoError(t, store.Save(ctx, sampleRecord("new", base)))
	require.NoError(t, store.Save(ctx, sampleRecord("mid", base.Add(-1*time.Hour))))

	got, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "mid", got[1].ID)
	assert.Equal(t, "old", got[2].ID)
}

func TestList_Empty(t *testing.T) {
	store := setupStore(t)

	got, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDelete(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleRecord("doc-1", time.Now().UTC())))
	require.NoError(t, store.Delete(ctx, "doc-1"))

	_, err := store.Get(ctx, "doc-1")
	require.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting a missing record is not an error.
	require.NoError(t, store.Delete(ctx, "doc-1"))
}

func TestSave_BackfillsCreatedAt(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	rec := sampleRecord("doc-1", time.Time{})
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestMigrate_Reopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), sampleRecord("doc-1", time.Now().UTC())))
	require.NoError(t, store.Close())

	// Migrations are idempotent on reopen and data survives.
	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", got.ID)
}
