package engine_test

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

func TestProcessScalarPassthrough(t *testing.T) {
	eval := newEvaluator()
	stack := engine.NewVariableStack()

	result, err := eval.Process(t.Context(), "hello", nil, stack)
	require.NoError(t, err)
	term, ok := result.(rdf.Term)
	require.True(t, ok)
	assert.Equal(t, "hello", term.Value())
	assert.Equal(t, rdf.XSDString, term.Datatype())
}

func TestProcessUnknownOperatorIsProgramError(t *testing.T) {
	eval := newEvaluator()

	_, err := eval.Eval(t.Context(), map[string]any{"@op": "NoSuchOperator"})
	require.Error(t, err)
	kind, ok := walerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, walerr.KindProgram, kind)
}

// TestProcessJSONLDPassthroughRecursion exercises rule 2: an object with
// no @op recurses into every value, resolving nested operator nodes
// before the structure is handed back as plain JSON-LD.
func TestProcessJSONLDPassthroughRecursion(t *testing.T) {
	eval := newEvaluator()

	program := map[string]any{
		"@type": "http://example.org/Thing",
		"title": map[string]any{"@op": "Str", "args": map[string]any{"input": "hi"}},
	}
	result, err := eval.Eval(t.Context(), program)
	require.NoError(t, err)

	out, ok := result.(map[string]any)
	require.True(t, ok)
	typeTerm, ok := out["@type"].(rdf.Term)
	require.True(t, ok)
	assert.Equal(t, "http://example.org/Thing", typeTerm.Value())
	titleTerm, ok := out["title"].(rdf.Term)
	require.True(t, ok)
	assert.Equal(t, "hi", titleTerm.Value())
}

// TestForEachOverList exercises rule 3 (list sequencing) via ForEach:
// each element of select becomes Current in turn.
func TestForEachOverList(t *testing.T) {
	eval := newEvaluator()

	program := map[string]any{
		"@op": "ForEach",
		"args": map[string]any{
			"select":    []any{1, 2, 3},
			"operation": map[string]any{"@op": "Current"},
		},
	}
	result, err := eval.Eval(t.Context(), program)
	require.NoError(t, err)

	items, ok := result.([]dsl.Value)
	require.True(t, ok)
	require.Len(t, items, 3)
	for i, item := range items {
		term, ok := item.(rdf.Term)
		require.True(t, ok)
		assert.Equal(t, rdf.NewIntegerLiteral(int64(i+1)).Value(), term.Value())
	}
}

// TestVariableValueScoping exercises spec.md's variable-stack semantics:
// a binding made before a ForEach, in the same top-level variable stack
// (rule 3), is visible inside its operation. That a binding made inside
// the ForEach's pushed frame does not survive the loop is checked by
// TestVariableBoundInsideForEachDoesNotLeakOut.
func TestVariableValueScoping(t *testing.T) {
	eval := newEvaluator()

	program := []any{
		map[string]any{"@op": "Variable", "args": map[string]any{"name": "x", "value": 10}},
		map[string]any{
			"@op": "ForEach",
			"args": map[string]any{
				"select":    []any{1},
				"operation": map[string]any{"@op": "Value", "args": map[string]any{"name": "$x"}},
			},
		},
	}
	result, err := eval.Eval(t.Context(), program)
	require.NoError(t, err)

	steps, ok := result.([]dsl.Value)
	require.True(t, ok)
	require.Len(t, steps, 2)
	forEachResult, ok := steps[1].([]dsl.Value)
	require.True(t, ok)
	require.Len(t, forEachResult, 1)
	term, ok := forEachResult[0].(rdf.Term)
	require.True(t, ok)
	assert.Equal(t, "10", term.Value())
}

func TestVariableBoundInsideForEachDoesNotLeakOut(t *testing.T) {
	eval := newEvaluator()

	program := []any{
		map[string]any{
			"@op": "ForEach",
			"args": map[string]any{
				"select": []any{1},
				"operation": map[string]any{
					"@op":  "Variable",
					"args": map[string]any{"name": "y", "value": map[string]any{"@op": "Current"}},
				},
			},
		},
		map[string]any{"@op": "Value", "args": map[string]any{"name": "$y"}},
	}
	_, err := eval.Eval(t.Context(), program)
	require.Error(t, err)
	kind, ok := walerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, walerr.KindProgram, kind)
}
