package domain

import (
	"errors"

	m "github.com/DervexDev/wally-package-types/internal/model"
)

// ErrNotApplicable is the analyzer's soft result: the file's returned
// expression is not a statically resolvable require, so there is no link
// to fix. Callers skip such files instead of failing; every other error
// in this package aborts the run.
var ErrNotApplicable = errors.New("no statically resolvable require")

// requireName is the call the analyzer recognizes as a module link.
const requireName = "require"

// AnalyzeRequire extracts the require chain from the thunk's returned
// expression. It accepts the plain form `return require(<chain>)` and the
// wrapper form where the returned identifier is bound by a top-level
// `local NAME = require(<chain>)`; resolving through the binding is what
// keeps the pipeline idempotent after its own rewrites.
func AnalyzeRequire(thunk *m.Thunk) (m.RequireLink, error) {
	if len(thunk.Return.Exprs) == 0 {
		return m.RequireLink{}, ErrNotApplicable
	}

	expr := thunk.Return.Exprs[0]
	splice := thunk.Return.Start

	if expr.Kind == m.ExprIdentifier {
		binding := thunk.Local(expr.Name)
		if binding == nil {
			return m.RequireLink{}, ErrNotApplicable
		}

		expr = binding.Value
		splice = binding.Start
	}

	if expr.Kind != m.ExprCall || expr.Name != requireName || len(expr.Args) != 1 {
		return m.RequireLink{}, ErrNotApplicable
	}

	components, err := chainComponents(expr.Args[0])
	if err != nil {
		return m.RequireLink{}, err
	}

	return m.RequireLink{
		Components:  components,
		CallText:    expr.Text,
		SpliceStart: splice,
	}, nil
}

// chainComponents flattens a static index chain into ordered components.
// Each link must be a literal name (dot index or literal-string bracket
// index) and the chain must be rooted at a recognized anchor; any other
// shape is not applicable.
func chainComponents(expr *m.Expr) (m.PathComponents, error) {
	var reversed []m.Component

	for current := expr; ; {
		switch current.Kind {
		case m.ExprIdentifier:
			anchor := m.Component(current.Name)
			if !m.IsAnchor(anchor) {
				return nil, ErrNotApplicable
			}

			reversed = append(reversed, anchor)

			components := make(m.PathComponents, 0, len(reversed))
			for i := len(reversed) - 1; i >= 0; i-- {
				components = append(components, reversed[i])
			}

			return components, nil

		case m.ExprDotIndex, m.ExprBracketIndex:
			if current.Name == "" || current.Base == nil {
				return nil, ErrNotApplicable
			}

			reversed = append(reversed, m.Component(current.Name))
			current = current.Base

		default:
			return nil, ErrNotApplicable
		}
	}
}
