package domain

import (
	"errors"
	"fmt"
	"path/filepath"

	m "github.com/DervexDev/wally-package-types/internal/model"
)

// Sentinel errors for path resolution. All of them are fatal for the run:
// a failing resolution means the sourcemap is stale relative to the
// filesystem or the thunk encodes a broken reference.
var (
	ErrNodeNotFound  = errors.New("node not found in sourcemap")
	ErrNoParent      = errors.New("no parent available")
	ErrChildNotFound = errors.New("unable to find child")
	ErrNoModuleFile  = errors.New("no module file at target node")
	ErrBadAnchor     = errors.New("require chain has no recognized anchor")
)

// IsModuleFile reports whether path is a Luau module source file.
// Recognition is purely extension-based; assets and metadata associated
// with the same node are never selected.
func IsModuleFile(path m.Path) bool {
	switch filepath.Ext(string(path)) {
	case ".lua", ".luau":
		return true
	default:
		return false
	}
}

// Locate finds the chain of nodes from root down to the node whose file
// paths contain the given canonical path. The search runs over an
// explicit stack of chains-so-far rather than recursion so deep
// hierarchies cannot exhaust the call stack; exploration order across
// children is unspecified, since at most one chain can match in a
// well-formed tree.
func Locate(root *m.SourcemapNode, path m.Path) (m.NodeChain, error) {
	stack := []m.NodeChain{{root}}

	for len(stack) > 0 {
		chain := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := chain.Tail()
		if node.ContainsFile(path) {
			return chain, nil
		}

		for _, child := range node.Children {
			next := make(m.NodeChain, len(chain), len(chain)+1)
			copy(next, chain)
			stack = append(stack, append(next, child))
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, path)
}

// Resolve consumes the components after the anchor, walking the hierarchy
// from the starting chain: Parent pops the chain's tail, any other name
// descends into the named child. The destination node's first module file
// is returned.
func Resolve(start m.NodeChain, components m.PathComponents) (m.Path, error) {
	chain := make(m.NodeChain, len(start))
	copy(chain, start)

	for _, component := range components[1:] {
		if component == m.ComponentParent {
			if len(chain) <= 1 {
				return "", fmt.Errorf("%w: %s", ErrNoParent, chain.Tail().Name)
			}

			chain = chain[:len(chain)-1]

			continue
		}

		child := chain.Tail().FindChild(string(component))
		if child == nil {
			return "", fmt.Errorf("%w: %s under %s", ErrChildNotFound, component, chain.Tail().Name)
		}

		chain = append(chain, child)
	}

	tail := chain.Tail()
	for _, path := range tail.FilePaths {
		if IsModuleFile(path) {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNoModuleFile, tail.Name)
}

// ResolveLink resolves a full require chain for the thunk at thunkPath.
// A script anchor starts from the thunk's own location in the hierarchy;
// a game anchor starts from the root.
func ResolveLink(root *m.SourcemapNode, thunkPath m.Path, components m.PathComponents) (m.Path, error) {
	var (
		start m.NodeChain
		err   error
	)

	switch components.Anchor() {
	case m.AnchorScript:
		start, err = Locate(root, thunkPath)
		if err != nil {
			return "", err
		}
	case m.AnchorGame:
		start = m.NodeChain{root}
	default:
		return "", fmt.Errorf("%w: %q", ErrBadAnchor, components.Anchor())
	}

	return Resolve(start, components)
}
