package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/DervexDev/wally-package-types/internal/model"
)

func writeSourcemap(t *testing.T, contents string) m.Path {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sourcemap.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	return m.Path(path)
}

func TestLocalSourcemapAdapter_Load(t *testing.T) {
	adapter := NewLocalSourcemapAdapter(NewLocalSourceFSAdapter())

	path := writeSourcemap(t, `{
		"name": "fixture",
		"className": "DataModel",
		"children": [
			{
				"name": "Packages",
				"className": "Folder",
				"children": [
					{"name": "Signal", "className": "ModuleScript", "filePaths": ["Packages/Signal.lua"]}
				]
			}
		]
	}`)

	root, err := adapter.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fixture", root.Name)
	assert.Equal(t, "DataModel", root.ClassName)

	packages := root.FindChild("Packages")
	require.NotNil(t, packages)

	signal := packages.FindChild("Signal")
	require.NotNil(t, signal)
	assert.Equal(t, []m.Path{"Packages/Signal.lua"}, signal.FilePaths)
	assert.True(t, signal.ContainsFile("Packages/Signal.lua"))
}

func TestLocalSourcemapAdapter_RejectsUnknownFields(t *testing.T) {
	adapter := NewLocalSourcemapAdapter(NewLocalSourceFSAdapter())

	path := writeSourcemap(t, `{"name": "fixture", "className": "DataModel", "instanceId": 7}`)

	_, err := adapter.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode sourcemap")
}

func TestLocalSourcemapAdapter_RejectsMalformedJSON(t *testing.T) {
	adapter := NewLocalSourcemapAdapter(NewLocalSourceFSAdapter())

	path := writeSourcemap(t, `{"name": "fixture"`)

	_, err := adapter.Load(path)
	require.Error(t, err)
}

func TestLocalSourcemapAdapter_MissingFile(t *testing.T) {
	adapter := NewLocalSourcemapAdapter(NewLocalSourceFSAdapter())

	_, err := adapter.Load(m.Path(filepath.Join(t.TempDir(), "absent.json")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read sourcemap")
}
