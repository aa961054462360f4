package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *CredentialStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "tokens.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoad_Empty(t *testing.T) {
	store := openTestStore(t)

	blob, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Nil(t, blob)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []byte(`{"version":1}`)))
	require.NoError(t, store.Save(ctx, []byte(`{"version":1,"current":"ada"}`)))

	blob, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"version":1,"current":"ada"}`, string(blob))

	var rows int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM token_cache`).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestSave_IdenticalBlobLeavesRowUntouched(t *testing.T) {
	// Given a saved blob with a known timestamp
	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, []byte("blob")))
	_, err := store.db.Exec(`UPDATE token_cache SET updated_at = '2000-01-01 00:00:00' WHERE id = 1`)
	require.NoError(t, err)

	// When the same blob is saved again
	require.NoError(t, store.Save(ctx, []byte("blob")))

	// Then the row was not rewritten
	var untouched bool
	require.NoError(t, store.db.QueryRow(
		`SELECT updated_at = '2000-01-01 00:00:00' FROM token_cache WHERE id = 1`).Scan(&untouched))
	assert.True(t, untouched)
}

func TestOpen_InMemory(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(context.Background(), []byte("x")))
	blob, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x", string(blob))
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), []byte("kept")))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	blob, err := reopened.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "kept", string(blob))
}
