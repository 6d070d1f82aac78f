package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_GetMissingKey(t *testing.T) {
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)

	value, ok, err := f.Get(context.Background(), "absent")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestFile_SetThenGet(t *testing.T) {
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, f.Set(ctx, "shop_settings", `{"accentColor":"#fff"}`))

	value, ok, err := f.Get(ctx, "shop_settings")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"accentColor":"#fff"}`, value)
}

func TestFile_OverwriteReplacesWholeValue(t *testing.T) {
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, f.Set(ctx, "k", "a much longer first value"))
	require.NoError(t, f.Set(ctx, "k", "short"))

	value, ok, _ := f.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "short", value)
}

func TestFile_EachKeyIsItsOwnFile(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, f.Set(ctx, "shop_products", "[]"))
	require.NoError(t, f.Set(ctx, "shop_orders", "[]"))

	// Corrupt one key on disk; the other must stay readable.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shop_products.json"), []byte("{garbage"), 0o644))

	value, ok, err := f.Get(ctx, "shop_orders")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", value)
}

func TestFile_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	require.NoError(t, err)

	require.NoError(t, f.Set(context.Background(), "k", "v"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "k.json", entries[0].Name())
}

func TestNewFile_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	_, err := NewFile(dir)

	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
