package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/DervexDev/wally-package-types/internal/model"
)

func TestMutateLink_PlainFormIsStableWithoutExports(t *testing.T) {
	src := "return require(script.Parent.Signal)\n"
	thunk := &m.Thunk{
		Source: []byte(src),
		Return: m.ReturnStmt{Start: 0, End: len(src) - 1},
	}
	link := m.RequireLink{CallText: "require(script.Parent.Signal)", SpliceStart: 0}

	outcome, err := MutateLink(thunk, link, nil)
	require.NoError(t, err)

	assert.Equal(t, m.OutcomeUnchanged, outcome.Kind)
	assert.Nil(t, outcome.Source)
}

func TestMutateLink_WrapsWhenTargetExportsTypes(t *testing.T) {
	src := "return require(script.Parent.Signal)\n"
	thunk := &m.Thunk{
		Source: []byte(src),
		Return: m.ReturnStmt{Start: 0, End: len(src) - 1},
	}
	link := m.RequireLink{CallText: "require(script.Parent.Signal)", SpliceStart: 0}
	exports := []m.TypeExport{
		{Name: "Connection"},
		{Name: "Signal", Params: "T..."},
	}

	outcome, err := MutateLink(thunk, link, exports)
	require.NoError(t, err)

	require.Equal(t, m.OutcomeChanged, outcome.Kind)
	assert.Equal(t,
		"local REQUIRED_MODULE = require(script.Parent.Signal)\n"+
			"export type Connection = REQUIRED_MODULE.Connection\n"+
			"export type Signal<T...> = REQUIRED_MODULE.Signal<T...>\n"+
			"return REQUIRED_MODULE\n",
		string(outcome.Source))
}

func TestMutateLink_CanonicalWrapperIsStable(t *testing.T) {
	src := "local REQUIRED_MODULE = require(game.Shared.Signal)\n" +
		"export type Connection = REQUIRED_MODULE.Connection\n" +
		"return REQUIRED_MODULE\n"
	thunk := &m.Thunk{
		Source: []byte(src),
		Return: m.ReturnStmt{Start: strings.Index(src, "return"), End: len(src) - 1},
	}
	link := m.RequireLink{CallText: "require(game.Shared.Signal)", SpliceStart: 0}
	exports := []m.TypeExport{{Name: "Connection"}}

	outcome, err := MutateLink(thunk, link, exports)
	require.NoError(t, err)

	assert.Equal(t, m.OutcomeUnchanged, outcome.Kind)
}

func TestMutateLink_PreservesBytesOutsideLinkRegion(t *testing.T) {
	src := "--!strict\n-- generated link\nreturn require(game.Shared.Maid)\n"
	returnStart := strings.Index(src, "return")
	thunk := &m.Thunk{
		Source: []byte(src),
		Return: m.ReturnStmt{Start: returnStart, End: len(src) - 1},
	}
	link := m.RequireLink{CallText: "require(game.Shared.Maid)", SpliceStart: returnStart}
	exports := []m.TypeExport{{Name: "Maid"}}

	outcome, err := MutateLink(thunk, link, exports)
	require.NoError(t, err)

	require.Equal(t, m.OutcomeChanged, outcome.Kind)
	assert.True(t, strings.HasPrefix(string(outcome.Source), "--!strict\n-- generated link\n"))
	assert.True(t, strings.HasSuffix(string(outcome.Source), "return REQUIRED_MODULE\n"))
}

func TestMutateLink_RewritesDriftedWrapper(t *testing.T) {
	src := "local REQUIRED_MODULE = require(game.Shared.Signal)\n" +
		"export type Stale = REQUIRED_MODULE.Stale\n" +
		"return REQUIRED_MODULE\n"
	thunk := &m.Thunk{
		Source: []byte(src),
		Return: m.ReturnStmt{Start: strings.Index(src, "return"), End: len(src) - 1},
	}
	link := m.RequireLink{CallText: "require(game.Shared.Signal)", SpliceStart: 0}
	exports := []m.TypeExport{{Name: "Connection"}}

	outcome, err := MutateLink(thunk, link, exports)
	require.NoError(t, err)

	require.Equal(t, m.OutcomeChanged, outcome.Kind)
	assert.NotContains(t, string(outcome.Source), "Stale")
	assert.Contains(t, string(outcome.Source), "export type Connection = REQUIRED_MODULE.Connection")
}

func TestMutateLink_RegionOutOfBounds(t *testing.T) {
	thunk := &m.Thunk{
		Source: []byte("return x\n"),
		Return: m.ReturnStmt{Start: 0, End: 40},
	}

	_, err := MutateLink(thunk, m.RequireLink{SpliceStart: 0}, nil)
	require.Error(t, err)
}

func TestGenericArguments(t *testing.T) {
	tests := []struct {
		params string
		want   string
	}{
		{"", ""},
		{"T", "T"},
		{"T...", "T..."},
		{"T, U", "T, U"},
		{"T, U = string, V...", "T, U, V..."},
		{"K, V = Map<string, number>", "K, V"},
		{"T = (string, number) -> boolean", "T"},
	}

	for _, test := range tests {
		t.Run(test.params, func(t *testing.T) {
			assert.Equal(t, test.want, genericArguments(test.params))
		})
	}
}
