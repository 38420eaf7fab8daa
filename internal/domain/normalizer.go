// Package domain provides the core link-resolution and rewriting logic.
package domain

import (
	"fmt"

	m "github.com/DervexDev/wally-package-types/internal/model"
)

// CanonicalizeFunc resolves a path to its canonical absolute form.
type CanonicalizeFunc func(m.Path) (m.Path, error)

// NormalizeSourcemap canonicalizes every file path in the tree and wires
// parent back-references, visiting each descendant exactly once. It runs
// once per run, before the tree is shared read-only with the per-thunk
// pipeline.
//
// A path that cannot be canonicalized means the sourcemap and the
// filesystem are out of sync, which is fatal for the whole run.
func NormalizeSourcemap(root *m.SourcemapNode, canonicalize CanonicalizeFunc) error {
	for i, path := range root.FilePaths {
		canonical, err := canonicalize(path)
		if err != nil {
			return fmt.Errorf("sourcemap node %q: canonicalize %s: %w", root.Name, path, err)
		}

		root.FilePaths[i] = canonical
	}

	for _, child := range root.Children {
		child.Parent = root

		if err := NormalizeSourcemap(child, canonicalize); err != nil {
			return err
		}
	}

	return nil
}
