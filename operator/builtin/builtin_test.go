package builtin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web-algebra/webalgebra/config"
	"github.com/web-algebra/webalgebra/dsl"
	"github.com/web-algebra/webalgebra/engine"
	"github.com/web-algebra/webalgebra/rdf"
	"github.com/web-algebra/webalgebra/walerr"

	_ "github.com/web-algebra/webalgebra/operator/builtin"
)

func newEvaluator() *engine.Evaluator {
	return engine.New(&config.Settings{})
}

func TestResolveURI(t *testing.T) {
	eval := newEvaluator()
	program := map[string]any{
		"@op": "ResolveURI",
		"args": map[string]any{
			"base":     map[string]any{"@op": "Uri", "args": map[string]any{"input": "http://example.org/a/b"}},
			"relative": "../c",
		},
	}
	result, err := eval.Eval(t.Context(), program)
	require.NoError(t, err)
	term, ok := result.(rdf.Term)
	require.True(t, ok)
	assert.True(t, term.IsIri())
	assert.Equal(t, "http://example.org/c", term.Value())
}

func TestEncodeForURI(t *testing.T) {
	eval := newEvaluator()
	program := map[string]any{"@op": "EncodeForURI", "args": map[string]any{"input": "a b/c"}}
	result, err := eval.Eval(t.Context(), program)
	require.NoError(t, err)
	term, ok := result.(rdf.Term)
	require.True(t, ok)
	assert.Equal(t, "a%20b%2Fc", term.Value())
}

func TestFilterPositionalValid(t *testing.T) {
	eval := newEvaluator()
	program := map[string]any{
		"@op":  "Filter",
		"args": map[string]any{"input": []any{10, 20, 30}, "expression": 2},
	}
	result, err := eval.Eval(t.Context(), program)
	require.NoError(t, err)
	term, ok := result.(rdf.Term)
	require.True(t, ok)
	assert.Equal(t, "20", term.Value())
}

func TestFilterPositionOutOfRangeIsOperationError(t *testing.T) {
	eval := newEvaluator()
	program := map[string]any{
		"@op":  "Filter",
		"args": map[string]any{"input": []any{10, 20, 30}, "expression": 0},
	}
	_, err := eval.Eval(t.Context(), program)
	require.Error(t, err)
	kind, ok := walerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, walerr.KindOperation, kind)
}

func TestForEachOverList(t *testing.T) {
	eval := newEvaluator()
	program := map[string]any{
		"@op": "ForEach",
		"args": map[string]any{
			"select":    []any{1, 2, 3},
			"operation": map[string]any{"@op": "Str", "args": map[string]any{"input": map[string]any{"@op": "Current"}}},
		},
	}
	result, err := eval.Eval(t.Context(), program)
	require.NoError(t, err)
	items, ok := result.([]dsl.Value)
	require.True(t, ok)
	require.Len(t, items, 3)
	term, ok := items[0].(rdf.Term)
	require.True(t, ok)
	assert.Equal(t, "1", term.Value())
}

func TestSubstitute(t *testing.T) {
	eval := newEvaluator()
	program := map[string]any{
		"@op": "Substitute",
		"args": map[string]any{
			"query":   "SELECT * WHERE { ?s ?p ?var1 }",
			"var":     "var1",
			"binding": map[string]any{"@op": "Uri", "args": map[string]any{"input": "http://example.org/x"}},
		},
	}
	result, err := eval.Eval(t.Context(), program)
	require.NoError(t, err)
	term, ok := result.(rdf.Term)
	require.True(t, ok)
	assert.Equal(t, "SELECT * WHERE { ?s ?p <http://example.org/x> }", term.Value())
}

func TestValueLookupFromResultRow(t *testing.T) {
	eval := newEvaluator()
	// Value{name} with a non-$ name resolves against the current
	// binding context, which a SPARQL result row supplies (spec.md
	// §4.3: "a SPARQL result row behaves as a map from variable name to
	// Term").
	row := rdf.Row{"s": rdf.NewIri("http://example.org/s")}
	program := map[string]any{"@op": "Value", "args": map[string]any{"name": "s"}}

	result, err := eval.Process(t.Context(), program, row, engine.NewVariableStack())
	require.NoError(t, err)
	term, ok := result.(rdf.Term)
	require.True(t, ok)
	assert.Equal(t, "http://example.org/s", term.Value())
}
