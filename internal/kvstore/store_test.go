package kvstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) CloseableStore
	}{
		{
			name: "memory",
			setup: func(t *testing.T) CloseableStore {
				return NewMemoryStore()
			},
		},
		{
			name: "file",
			setup: func(t *testing.T) CloseableStore {
				store, err := NewFileStore(t.TempDir())
				require.NoError(t, err)
				return store
			},
		},
		{
			name: "badger in memory",
			setup: func(t *testing.T) CloseableStore {
				store, err := OpenBadgerStore(BadgerConfig{InMemory: true})
				require.NoError(t, err)
				return store
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := tt.setup(t)
			defer func() {
				assert.NoError(t, store.Close())
			}()

			_, err := store.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Set(ctx, "chapter.lessons.v1.1", `[{"lesson_no":1}]`))
			got, err := store.Get(ctx, "chapter.lessons.v1.1")
			require.NoError(t, err)
			assert.Equal(t, `[{"lesson_no":1}]`, got)

			require.NoError(t, store.Set(ctx, "chapter.lessons.v1.1", `[]`))
			got, err = store.Get(ctx, "chapter.lessons.v1.1")
			require.NoError(t, err)
			assert.Equal(t, `[]`, got)

			require.NoError(t, store.Remove(ctx, "chapter.lessons.v1.1"))
			_, err = store.Get(ctx, "chapter.lessons.v1.1")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.NoError(t, store.Remove(ctx, "never-set"))
		})
	}
}

func TestFileStore_KeysWithSeparators(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "a/b", "1"))
	got, err := store.Get(ctx, "a/b")
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	matches, err := filepath.Glob(filepath.Join(dir, "*"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "memory", opts: Options{Driver: DriverMemory}},
		{name: "default is memory", opts: Options{}},
		{name: "file", opts: Options{Driver: DriverFile, Path: t.TempDir()}},
		{name: "file without path", opts: Options{Driver: DriverFile}, wantErr: true},
		{name: "badger without path", opts: Options{Driver: DriverBadger}, wantErr: true},
		{name: "unknown", opts: Options{Driver: "redis"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, store.Close())
		})
	}
}
