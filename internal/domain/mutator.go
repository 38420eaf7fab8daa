package domain

import (
	"bytes"
	"fmt"
	"strings"

	m "github.com/DervexDev/wally-package-types/internal/model"
)

// requiredModuleName is the binding name used by the canonical wrapper.
const requiredModuleName = "REQUIRED_MODULE"

// MutateLink decides whether the thunk already carries the canonical form
// of its link and rewrites it when it does not.
//
// The canonical form preserves the thunk's observable contract: requiring
// the thunk yields exactly what requiring the target directly would,
// including the target's exported types. With no exports the canonical
// link is the plain `return require(<chain>)`; otherwise it is the
// wrapper that re-exports every type through a local binding.
//
// Only the link region, from the splice start through the end of the
// return statement, is compared and replaced; bytes outside it are
// preserved untouched. An Unchanged outcome therefore guarantees the file
// is byte-for-byte stable. The decision depends only on the inputs, never
// on modification times.
func MutateLink(thunk *m.Thunk, link m.RequireLink, exports []m.TypeExport) (m.Outcome, error) {
	start, end := link.SpliceStart, thunk.Return.End
	if start < 0 || end > len(thunk.Source) || start > end {
		return m.Outcome{}, fmt.Errorf("link region [%d:%d] out of bounds for %d bytes", start, end, len(thunk.Source))
	}

	canonical := renderLink(link.CallText, exports)
	if string(thunk.Source[start:end]) == canonical {
		return m.Outcome{Kind: m.OutcomeUnchanged}, nil
	}

	var replaced bytes.Buffer

	replaced.Grow(len(thunk.Source) + len(canonical))
	replaced.Write(thunk.Source[:start])
	replaced.WriteString(canonical)
	replaced.Write(thunk.Source[end:])

	return m.Outcome{Kind: m.OutcomeChanged, Source: replaced.Bytes()}, nil
}

// renderLink produces the canonical link region text.
func renderLink(callText string, exports []m.TypeExport) string {
	if len(exports) == 0 {
		return "return " + callText
	}

	var b strings.Builder

	b.WriteString("local " + requiredModuleName + " = " + callText + "\n")

	for _, export := range exports {
		b.WriteString("export type " + export.Name)

		if export.Params != "" {
			b.WriteString("<" + export.Params + ">")
		}

		b.WriteString(" = " + requiredModuleName + "." + export.Name)

		if args := genericArguments(export.Params); args != "" {
			b.WriteString("<" + args + ">")
		}

		b.WriteString("\n")
	}

	b.WriteString("return " + requiredModuleName)

	return b.String()
}

// genericArguments reduces a declared generic parameter list to the
// argument list used on the right-hand side of a re-export: defaults are
// dropped, parameter names and `...` packs are kept.
// "T, U = string, V..." becomes "T, U, V...".
func genericArguments(params string) string {
	if params == "" {
		return ""
	}

	parts := splitTopLevel(params)
	args := make([]string, 0, len(parts))

	for _, part := range parts {
		name := part
		if idx := topLevelIndex(part, '='); idx >= 0 {
			name = part[:idx]
		}

		args = append(args, strings.TrimSpace(name))
	}

	return strings.Join(args, ", ")
}

// splitTopLevel splits on commas that are not nested inside angle
// brackets, parentheses, or braces.
func splitTopLevel(s string) []string {
	var (
		parts []string
		depth int
		start int
	)

	for i, r := range s {
		switch r {
		case '<', '(', '{':
			depth++
		case '>', ')', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}

	return append(parts, s[start:])
}

// topLevelIndex returns the index of the first unnested occurrence of c,
// or -1.
func topLevelIndex(s string, c rune) int {
	depth := 0

	for i, r := range s {
		switch r {
		case '<', '(', '{':
			depth++
		case '>', ')', '}':
			depth--
		default:
			if r == c && depth == 0 {
				return i
			}
		}
	}

	return -1
}
