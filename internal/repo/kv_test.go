package repo_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/ourtrip/internal/domain"
	"github.com/pkordes/ourtrip/internal/repo"
	"github.com/pkordes/ourtrip/testutil"
)

// kvBackends returns one constructor per KV implementation. The Postgres
// entry skips itself when TEST_DATABASE_URL is not set.
func kvBackends() map[string]func(t *testing.T) repo.KV {
	return map[string]func(t *testing.T) repo.KV{
		"memory": func(t *testing.T) repo.KV {
			return repo.NewMemoryKV()
		},
		"file": func(t *testing.T) repo.KV {
			kv, err := repo.NewFileKV(t.TempDir())
			require.NoError(t, err)
			return kv
		},
		"sqlite": func(t *testing.T) repo.KV {
			return repo.NewSQLiteKV(testutil.NewSQLiteDB(t))
		},
		"postgres": func(t *testing.T) repo.KV {
			pool := testutil.NewPool(t)
			tx, err := pool.Begin(context.Background())
			require.NoError(t, err, "begin transaction")
			t.Cleanup(func() {
				// Rollback discards all changes made during the test.
				_ = tx.Rollback(context.Background())
			})
			return repo.NewPostgresKV(tx)
		},
	}
}

func TestKV_GetMissing(t *testing.T) {
	for name, newKV := range kvBackends() {
		t.Run(name, func(t *testing.T) {
			kv := newKV(t)

			_, err := kv.Get(context.Background(), "never-written")

			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestKV_PutThenGet(t *testing.T) {
	for name, newKV := range kvBackends() {
		t.Run(name, func(t *testing.T) {
			kv := newKV(t)
			ctx := context.Background()

			require.NoError(t, kv.Put(ctx, "ourtrip-trips", `[{"id":"1"}]`))
			got, err := kv.Get(ctx, "ourtrip-trips")

			require.NoError(t, err)
			assert.Equal(t, `[{"id":"1"}]`, got)
		})
	}
}

func TestKV_PutOverwrites(t *testing.T) {
	for name, newKV := range kvBackends() {
		t.Run(name, func(t *testing.T) {
			kv := newKV(t)
			ctx := context.Background()

			require.NoError(t, kv.Put(ctx, "k", "first"))
			require.NoError(t, kv.Put(ctx, "k", "second"))
			got, err := kv.Get(ctx, "k")

			require.NoError(t, err)
			assert.Equal(t, "second", got)
		})
	}
}

func TestKV_KeysAreIndependent(t *testing.T) {
	for name, newKV := range kvBackends() {
		t.Run(name, func(t *testing.T) {
			kv := newKV(t)
			ctx := context.Background()

			require.NoError(t, kv.Put(ctx, "a", "1"))
			require.NoError(t, kv.Put(ctx, "b", "2"))

			a, err := kv.Get(ctx, "a")
			require.NoError(t, err)
			b, err := kv.Get(ctx, "b")
			require.NoError(t, err)
			assert.Equal(t, "1", a)
			assert.Equal(t, "2", b)
		})
	}
}

func TestKV_LargeValue(t *testing.T) {
	for name, newKV := range kvBackends() {
		t.Run(name, func(t *testing.T) {
			kv := newKV(t)
			ctx := context.Background()
			value := strings.Repeat("x", 1<<20)

			require.NoError(t, kv.Put(ctx, "big", value))
			got, err := kv.Get(ctx, "big")

			require.NoError(t, err)
			assert.Len(t, got, len(value))
		})
	}
}

func TestFileKV_KeyCannotEscapeDir(t *testing.T) {
	dir := t.TempDir()
	kv, err := repo.NewFileKV(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, kv.Put(ctx, "../outside", "v"))
	got, err := kv.Get(ctx, "../outside")

	require.NoError(t, err)
	assert.Equal(t, "v", got)
	assert.NoFileExists(t, dir+"/../outside.json")
}

func TestFileKV_HonoursCancelledContext(t *testing.T) {
	kv, err := repo.NewFileKV(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, kv.Put(ctx, "k", "v"), context.Canceled)
	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
