// Package model defines the data structures shared by the link pipeline.
package model

// Path represents a file system path.
type Path string

// Component is a single step of a require-path chain.
type Component string

// Anchor and navigation components recognized in require chains.
const (
	// AnchorScript addresses the chain relative to the requiring module.
	AnchorScript Component = "script"

	// AnchorGame addresses the chain relative to the project root.
	AnchorGame Component = "game"

	// ComponentParent steps one level up in the instance hierarchy.
	ComponentParent Component = "Parent"
)

// PathComponents is an ordered require chain. A well-formed chain is
// non-empty and starts with an anchor.
type PathComponents []Component

// Anchor returns the chain's first component, or "" for an empty chain.
func (pc PathComponents) Anchor() Component {
	if len(pc) == 0 {
		return ""
	}

	return pc[0]
}

// IsAnchor reports whether a component is one of the recognized anchors.
func IsAnchor(c Component) bool {
	return c == AnchorScript || c == AnchorGame
}

// OutcomeKind classifies the result of processing a single thunk.
type OutcomeKind string

// Available OutcomeKind values.
const (
	// OutcomeChanged means the thunk's link region was rewritten.
	OutcomeChanged OutcomeKind = "changed"
	// OutcomeUnchanged means the thunk already carries the canonical link.
	OutcomeUnchanged OutcomeKind = "unchanged"
	// OutcomeSkipped means the file holds no statically resolvable require.
	OutcomeSkipped OutcomeKind = "skipped"
)

// Outcome is the result of a link mutation. It is a complete replacement
// or nothing: Source carries the full rewritten file contents when Kind is
// OutcomeChanged and is nil otherwise.
type Outcome struct {
	Kind   OutcomeKind
	Source []byte
}

// RequireLink is the analyzer's view of a thunk's link: the require chain,
// the exact source text of the require call, and the byte offset where the
// canonical link region begins (the local binding when the return resolves
// through one, otherwise the return statement itself).
type RequireLink struct {
	Components  PathComponents
	CallText    string
	SpliceStart int
}

// LinkReport records the per-thunk result of a run for display and for
// check-mode drift reports.
type LinkReport struct {
	Thunk   Path        `yaml:"thunk"`
	Target  Path        `yaml:"target,omitempty"`
	Outcome OutcomeKind `yaml:"outcome"`
}
