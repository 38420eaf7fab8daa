package adapter

import (
	"bytes"
	"encoding/json"
	"fmt"

	m "github.com/DervexDev/wally-package-types/internal/model"
)

// SourcemapAdapter loads the externally generated sourcemap that serves as
// the run's addressing namespace. Decoding is strict: a sourcemap that
// does not match the expected schema indicates the inputs are out of sync
// and the whole run must abort.
type SourcemapAdapter interface {
	Load(path m.Path) (*m.SourcemapNode, error)
}

// LocalSourcemapAdapter reads the sourcemap through a SourceFSAdapter and
// decodes it as JSON.
type LocalSourcemapAdapter struct {
	fs SourceFSAdapter
}

// NewLocalSourcemapAdapter constructs a LocalSourcemapAdapter.
func NewLocalSourcemapAdapter(fs SourceFSAdapter) *LocalSourcemapAdapter {
	return &LocalSourcemapAdapter{fs: fs}
}

// Load reads and strictly decodes the sourcemap file at path.
func (a *LocalSourcemapAdapter) Load(path m.Path) (*m.SourcemapNode, error) {
	contents, err := a.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sourcemap %s: %w", path, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(contents))
	decoder.DisallowUnknownFields()

	var root m.SourcemapNode
	if err := decoder.Decode(&root); err != nil {
		return nil, fmt.Errorf("decode sourcemap %s: %w", path, err)
	}

	return &root, nil
}
