package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/DervexDev/wally-package-types/internal/model"
)

func TestLocalSourceFSAdapter_ReadWriteRoundTrip(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	path := m.Path(filepath.Join(t.TempDir(), "thunk.lua"))
	contents := []byte("return require(game.Shared.Signal)\n")

	require.NoError(t, adapter.WriteFile(path, contents, 0o644))

	read, err := adapter.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, contents, read)
}

func TestLocalSourceFSAdapter_ReadMissingFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	_, err := adapter.ReadFile(m.Path(filepath.Join(t.TempDir(), "absent.lua")))
	require.Error(t, err)
}

func TestLocalSourceFSAdapter_Canonicalize(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	dir := t.TempDir()
	file := filepath.Join(dir, "module.lua")
	require.NoError(t, os.WriteFile(file, []byte("return nil\n"), 0o644))

	expected, err := filepath.EvalSymlinks(file)
	require.NoError(t, err)

	t.Run("already absolute", func(t *testing.T) {
		canonical, err := adapter.Canonicalize(m.Path(file))
		require.NoError(t, err)
		assert.Equal(t, m.Path(expected), canonical)
	})

	t.Run("relative path", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)
		t.Cleanup(func() { _ = os.Chdir(wd) })
		require.NoError(t, os.Chdir(dir))

		canonical, err := adapter.Canonicalize("module.lua")
		require.NoError(t, err)
		assert.Equal(t, m.Path(expected), canonical)
	})

	t.Run("missing path fails", func(t *testing.T) {
		_, err := adapter.Canonicalize(m.Path(filepath.Join(dir, "absent.lua")))
		require.Error(t, err)
	})
}

func TestLocalSourceFSAdapter_CanonicalizeResolvesSymlinks(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	dir := t.TempDir()
	target := filepath.Join(dir, "target.lua")
	require.NoError(t, os.WriteFile(target, []byte("return nil\n"), 0o644))

	link := filepath.Join(dir, "link.lua")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	expected, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)

	canonical, err := adapter.Canonicalize(m.Path(link))
	require.NoError(t, err)
	assert.Equal(t, m.Path(expected), canonical)
}

func TestLocalSourceFSAdapter_DirEntries(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte("return 1\n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "_Index"), 0o755))

	entries, err := adapter.DirEntries(m.Path(dir))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	names := map[string]bool{}
	for _, entry := range entries {
		names[entry.Name()] = entry.IsDir()
	}

	assert.Equal(t, map[string]bool{"a.lua": false, "_Index": true}, names)
}

func TestLocalSourceFSAdapter_FileInfo(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	dir := t.TempDir()
	file := filepath.Join(dir, "a.lua")
	require.NoError(t, os.WriteFile(file, []byte("return 1\n"), 0o644))

	info, err := adapter.FileInfo(m.Path(file))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
	assert.Equal(t, "a.lua", info.Name())
}
