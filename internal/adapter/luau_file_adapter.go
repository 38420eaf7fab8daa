package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/alexaandru/go-sitter-forest/luau"
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	m "github.com/DervexDev/wally-package-types/internal/model"
)

// Sentinel errors for Luau parsing.
var (
	// ErrThunkShape marks a file whose chunk does not end in a return
	// statement. Unlike the analyzer's not-applicable result, this is a
	// hard failure: files handed to ParseThunk are asserted to be thunks.
	ErrThunkShape = errors.New("thunk is not a trailing-return chunk")

	errNoRootNode = errors.New("luau parser: no root node")
	errPoolType   = errors.New("luau parser: pool returned unexpected type")
)

// Grammar node and field names. Confined to this file so the rest of the
// pipeline never sees tree-sitter shapes.
const (
	nodeReturnStatement = "return_statement"
	nodeExpressionList  = "expression_list"
	nodeVariableList    = "variable_list"
	nodeVariableDecl    = "variable_declaration"
	nodeFunctionCall    = "function_call"
	nodeDotIndex        = "dot_index_expression"
	nodeBracketIndex    = "bracket_index_expression"
	nodeIdentifier      = "identifier"
	nodeString          = "string"
	nodeStringContent   = "string_content"
	nodeTypeDefinition  = "type_definition"
	nodeComment         = "comment"
	nodeHashBang        = "hash_bang_line"

	tokenExport = "export"

	fieldTable     = "table"
	fieldField     = "field"
	fieldName      = "name"
	fieldArguments = "arguments"
)

// LuauFileAdapter encapsulates Luau-specific parsing so the domain layer
// can work on the neutral syntax IR in the model package.
type LuauFileAdapter interface {
	// ParseThunk parses a link file into its thunk form. Returns
	// ErrThunkShape when the chunk's last statement is not a return.
	ParseThunk(src []byte) (*m.Thunk, error)

	// ExportedTypes returns the exported type declarations of a module,
	// in source order.
	ExportedTypes(src []byte) ([]m.TypeExport, error)
}

// TreeSitterLuauAdapter is the concrete LuauFileAdapter backed by the
// tree-sitter Luau grammar. Parsers are pooled because the workflow fans
// thunks out across workers.
type TreeSitterLuauAdapter struct {
	pool sync.Pool
}

// NewTreeSitterLuauAdapter constructs a TreeSitterLuauAdapter.
func NewTreeSitterLuauAdapter() *TreeSitterLuauAdapter {
	lang := sitter.NewLanguage(luau.GetLanguage())

	return &TreeSitterLuauAdapter{
		pool: sync.Pool{
			New: func() any {
				parser := sitter.NewParser()
				parser.SetLanguage(lang)

				return parser
			},
		},
	}
}

func (a *TreeSitterLuauAdapter) parse(src []byte) (*sitter.Tree, error) {
	parser, ok := a.pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer a.pool.Put(parser)

	tree, err := parser.ParseString(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("luau parser: %w", err)
	}

	if tree.RootNode().IsNull() {
		tree.Close()
		return nil, errNoRootNode
	}

	return tree, nil
}

// ParseThunk parses src and extracts the thunk structure: top-level local
// bindings plus the mandatory trailing return statement.
func (a *TreeSitterLuauAdapter) ParseThunk(src []byte) (*m.Thunk, error) {
	tree, err := a.parse(src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	thunk := &m.Thunk{Source: src}

	var last sitter.Node

	haveLast := false

	for idx := range root.NamedChildCount() {
		stmt := root.NamedChild(idx)
		if t := stmt.Type(); t == nodeComment || t == nodeHashBang {
			continue
		}

		if stmt.Type() == nodeVariableDecl {
			if binding, ok := localBinding(stmt, src); ok {
				thunk.Locals = append(thunk.Locals, binding)
			}
		}

		last = stmt
		haveLast = true
	}

	if !haveLast || last.Type() != nodeReturnStatement {
		return nil, ErrThunkShape
	}

	thunk.Return = m.ReturnStmt{
		Start: int(last.StartByte()),
		End:   int(last.EndByte()),
	}

	for idx := range last.NamedChildCount() {
		child := last.NamedChild(idx)
		if child.Type() != nodeExpressionList {
			continue
		}

		for exprIdx := range child.NamedChildCount() {
			thunk.Return.Exprs = append(thunk.Return.Exprs, exprIR(child.NamedChild(exprIdx), src))
		}
	}

	return thunk, nil
}

// localBinding extracts a `local NAME = <expr>` statement. Multi-name or
// valueless declarations are not link material and are skipped.
func localBinding(stmt sitter.Node, src []byte) (m.LocalBinding, bool) {
	var names, values sitter.Node

	haveNames, haveValues := false, false

	var walk func(n sitter.Node)

	walk = func(n sitter.Node) {
		for idx := range n.NamedChildCount() {
			child := n.NamedChild(idx)

			switch child.Type() {
			case nodeVariableList:
				names = child
				haveNames = true
			case nodeExpressionList:
				values = child
				haveValues = true
			default:
				walk(child)
			}
		}
	}

	walk(stmt)

	if !haveNames || !haveValues || names.NamedChildCount() != 1 || values.NamedChildCount() != 1 {
		return m.LocalBinding{}, false
	}

	name := names.NamedChild(0)
	if name.Type() != nodeIdentifier {
		return m.LocalBinding{}, false
	}

	return m.LocalBinding{
		Name:  name.Content(src),
		Value: exprIR(values.NamedChild(0), src),
		Start: int(stmt.StartByte()),
		End:   int(stmt.EndByte()),
	}, true
}

// exprIR converts a CST expression into the model's expression IR. Shapes
// the analyzer does not understand collapse into ExprOpaque.
func exprIR(n sitter.Node, src []byte) *m.Expr {
	expr := &m.Expr{
		Text:  n.Content(src),
		Start: int(n.StartByte()),
		End:   int(n.EndByte()),
	}

	switch n.Type() {
	case nodeIdentifier:
		expr.Kind = m.ExprIdentifier
		expr.Name = expr.Text

	case nodeDotIndex:
		expr.Kind = m.ExprDotIndex
		expr.Base = exprIR(n.ChildByFieldName(fieldTable), src)
		expr.Name = n.ChildByFieldName(fieldField).Content(src)

	case nodeBracketIndex:
		field := n.ChildByFieldName(fieldField)
		if field.Type() != nodeString {
			expr.Kind = m.ExprOpaque
			return expr
		}

		expr.Kind = m.ExprBracketIndex
		expr.Base = exprIR(n.ChildByFieldName(fieldTable), src)
		expr.Name = stringLiteral(field, src)

	case nodeFunctionCall:
		expr.Kind = m.ExprCall

		if callee := n.ChildByFieldName(fieldName); !callee.IsNull() && callee.Type() == nodeIdentifier {
			expr.Name = callee.Content(src)
		}

		if args := n.ChildByFieldName(fieldArguments); !args.IsNull() {
			for idx := range args.NamedChildCount() {
				expr.Args = append(expr.Args, exprIR(args.NamedChild(idx), src))
			}
		}

	default:
		expr.Kind = m.ExprOpaque
	}

	return expr
}

// stringLiteral returns the content of a string node without quotes.
func stringLiteral(n sitter.Node, src []byte) string {
	for idx := range n.NamedChildCount() {
		child := n.NamedChild(idx)
		if child.Type() == nodeStringContent {
			return child.Content(src)
		}
	}

	// Empty strings have no content node.
	text := n.Content(src)

	return strings.Trim(text, `"'`)
}

// ExportedTypes scans the chunk's top-level statements for exported type
// declarations and returns them in source order.
func (a *TreeSitterLuauAdapter) ExportedTypes(src []byte) ([]m.TypeExport, error) {
	tree, err := a.parse(src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()

	var exports []m.TypeExport

	for idx := range root.NamedChildCount() {
		stmt := root.NamedChild(idx)
		if stmt.Type() != nodeTypeDefinition || !hasExportToken(stmt) {
			continue
		}

		export, ok := typeExport(stmt, src)
		if !ok {
			continue
		}

		exports = append(exports, export)
	}

	return exports, nil
}

// hasExportToken reports whether the declaration carries the `export`
// keyword. The keyword is an anonymous child token of the declaration.
func hasExportToken(n sitter.Node) bool {
	for idx := range n.ChildCount() {
		if n.Child(idx).Type() == tokenExport {
			return true
		}
	}

	return false
}

// typeExport extracts the declared name and raw generic parameter list.
// The name node may or may not span the parameter list depending on how
// the grammar carves up the declaration, so both shapes are handled.
func typeExport(n sitter.Node, src []byte) (m.TypeExport, bool) {
	name := n.ChildByFieldName(fieldName)
	if name.IsNull() {
		if n.NamedChildCount() == 0 {
			return m.TypeExport{}, false
		}

		name = n.NamedChild(0)
	}

	text := strings.TrimSpace(name.Content(src))
	if idx := strings.IndexByte(text, '<'); idx >= 0 {
		return m.TypeExport{
			Name:   strings.TrimSpace(text[:idx]),
			Params: genericParams(text[idx:]),
		}, true
	}

	export := m.TypeExport{Name: text}

	// Otherwise the generic parameter list sits between the name and the
	// top-level `=`. Reading it straight from the source text keeps
	// defaults and packs verbatim without modeling the type grammar.
	full := n.Content(src)
	offset := int(name.EndByte() - n.StartByte())

	if offset < 0 || offset > len(full) {
		return export, true
	}

	rest := strings.TrimSpace(full[offset:])
	if strings.HasPrefix(rest, "<") {
		export.Params = genericParams(rest)
	}

	return export, true
}

// genericParams returns the interior of the depth-matched angle-bracket
// list at the start of s, or "" when the brackets never close.
func genericParams(s string) string {
	depth := 0

	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return strings.TrimSpace(s[1:i])
			}
		}
	}

	return ""
}
