package builtin

import (
	"context"
	"fmt"

	"github.com/web-algebra/webalgebra/dsl"
	"github.com/web-algebra/webalgebra/rdf"
	"github.com/web-algebra/webalgebra/walerr"
)

// variableOp implements Variable{name, value} (spec.md §4.3): evaluates
// value in the current scope, stores the raw result under name in the
// top frame, returns null. No new scope is pushed.
type variableOp struct{ context dsl.Value }

func newVariable(_ dsl.Settings, ctx dsl.Value) dsl.Operator { return &variableOp{context: ctx} }

func (o *variableOp) Metadata() dsl.Metadata {
	return dsl.Metadata{
		Name:        "Variable",
		Description: "Binds the evaluated value to name in the current scope.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"name": map[string]any{"type": "string"}, "value": map[string]any{}},
			"required":   []string{"name", "value"},
		},
	}
}

func (o *variableOp) ExecuteJSON(ctx context.Context, args dsl.Args) (dsl.Value, error) {
	name, err := requireString("Variable", "name", args)
	if err != nil {
		return nil, err
	}
	value, err := args.Require(ctx, "Variable", "value")
	if err != nil {
		return nil, err
	}
	args.Vars.Set(name, value)
	return nil, nil
}

// valueOp implements Value{name} (spec.md §4.3).
type valueOp struct{ context dsl.Value }

func newValue(_ dsl.Settings, ctx dsl.Value) dsl.Operator { return &valueOp{context: ctx} }

func (o *valueOp) Metadata() dsl.Metadata {
	return dsl.Metadata{
		Name:        "Value",
		Description: "Looks up name in the variable stack ($-prefixed) or the current binding context.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"name": map[string]any{"type": "string"}},
			"required":   []string{"name"},
		},
	}
}

func (o *valueOp) ExecuteJSON(ctx context.Context, args dsl.Args) (dsl.Value, error) {
	name, err := requireString("Value", "name", args)
	if err != nil {
		return nil, err
	}
	if len(name) > 0 && name[0] == '$' {
		v, ok := args.Vars.Get(name[1:])
		if !ok {
			return nil, walerr.Program("Value", name, fmt.Errorf("unbound variable %q", name))
		}
		return v, nil
	}
	return lookupBinding("Value", name, o.context)
}

// lookupBinding resolves a non-$ Value name against the current
// context, which behaves as a map from variable name to Term when it
// is a SPARQL result row (spec.md §4.3: "a SPARQL result row behaves as
// a map from variable name to Term").
func lookupBinding(op, name string, current dsl.Value) (dsl.Value, error) {
	switch ctx := current.(type) {
	case rdf.Row:
		t, ok := ctx.Get(name)
		if !ok {
			return nil, walerr.Program(op, name, fmt.Errorf("unbound variable %q", name))
		}
		return t, nil
	case nil:
		return nil, walerr.Program(op, name, fmt.Errorf("no current binding context"))
	default:
		return nil, walerr.Program(op, name, fmt.Errorf("current context has no named bindings (%T)", current))
	}
}

// currentOp implements Current{} (spec.md §4.3): returns the context
// item set by the nearest enclosing ForEach.
type currentOp struct{ context dsl.Value }

func newCurrent(_ dsl.Settings, ctx dsl.Value) dsl.Operator { return &currentOp{context: ctx} }

func (o *currentOp) Metadata() dsl.Metadata {
	return noArgsMetadata("Current", "Returns the current ForEach context item.")
}

func (o *currentOp) ExecuteJSON(_ context.Context, _ dsl.Args) (dsl.Value, error) {
	if o.context == nil {
		return nil, walerr.Program("Current", "", fmt.Errorf("no current context"))
	}
	return o.context, nil
}

// forEachOp implements ForEach{select, operation} (spec.md §4.3).
type forEachOp struct{ context dsl.Value }

func newForEach(_ dsl.Settings, ctx dsl.Value) dsl.Operator { return &forEachOp{context: ctx} }

func (o *forEachOp) Metadata() dsl.Metadata {
	return dsl.Metadata{
		Name:        "ForEach",
		Description: "Evaluates operation once per element of select, binding each as the new context.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"select": map[string]any{}, "operation": map[string]any{}},
			"required":   []string{"select", "operation"},
		},
	}
}

func (o *forEachOp) ExecuteJSON(ctx context.Context, args dsl.Args) (dsl.Value, error) {
	selected, err := args.Require(ctx, "ForEach", "select")
	if err != nil {
		return nil, err
	}
	items, err := asIterable("ForEach", "select", selected)
	if err != nil {
		return nil, err
	}
	operation, ok := args.Get("operation")
	if !ok {
		return nil, walerr.Program("ForEach", "operation", fmt.Errorf("missing required argument %q", "operation"))
	}

	args.Vars.Push()
	defer args.Vars.Pop()

	results := make([]dsl.Value, 0, len(items))
	for _, item := range items {
		r, err := evalIteration(ctx, args, operation, item)
		if err != nil {
			return nil, err
		}
		if r != nil {
			results = append(results, r)
		}
	}
	return results, nil
}

// evalIteration runs one ForEach iteration's operation with item bound
// as context. A list operation runs each element in sequence and keeps
// only the last non-null result; a single node keeps its own result
// (spec.md §4.3).
func evalIteration(ctx context.Context, args dsl.Args, operation any, item dsl.Value) (dsl.Value, error) {
	steps, isList := operation.([]any)
	if !isList {
		return args.EvalWithContext(ctx, operation, item)
	}
	var last dsl.Value
	for _, step := range steps {
		r, err := args.EvalWithContext(ctx, step, item)
		if err != nil {
			return nil, err
		}
		if r != nil {
			last = r
		}
	}
	return last, nil
}

// filterOp implements Filter{input, expression} (spec.md §4.3):
// 1-based positional filtering, XSLT-style.
type filterOp struct{ context dsl.Value }

func newFilter(_ dsl.Settings, ctx dsl.Value) dsl.Operator { return &filterOp{context: ctx} }

func (o *filterOp) Metadata() dsl.Metadata {
	return dsl.Metadata{
		Name:        "Filter",
		Description: "Selects the item at a 1-based integer position in input.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"input": map[string]any{}, "expression": map[string]any{}},
			"required":   []string{"input", "expression"},
		},
	}
}

func (o *filterOp) ExecuteJSON(ctx context.Context, args dsl.Args) (dsl.Value, error) {
	input, err := args.Require(ctx, "Filter", "input")
	if err != nil {
		return nil, err
	}
	items, err := asIterable("Filter", "input", input)
	if err != nil {
		return nil, err
	}

	exprRaw, err := args.Require(ctx, "Filter", "expression")
	if err != nil {
		return nil, err
	}
	exprTerm, ok := exprRaw.(rdf.Term)
	if !ok || !exprTerm.IsLiteral() || exprTerm.Datatype() != rdf.XSDInteger {
		return nil, walerr.Program("Filter", "expression", fmt.Errorf("unsupported filter expression (only integer position is supported)"))
	}
	var pos int
	if _, scanErr := fmt.Sscanf(exprTerm.Value(), "%d", &pos); scanErr != nil {
		return nil, walerr.Type("Filter", "expression", scanErr)
	}
	if pos < 1 || pos > len(items) {
		return nil, walerr.Operation("Filter", fmt.Errorf("position %d out of range [1,%d]", pos, len(items)))
	}
	return items[pos-1], nil
}

// executeOp implements Execute{operation}: evaluates a raw operator
// node passed as data (spec.md §4.3), so programs can be stored in
// variables and composed dynamically.
type executeOp struct{ context dsl.Value }

func newExecute(_ dsl.Settings, ctx dsl.Value) dsl.Operator { return &executeOp{context: ctx} }

func (o *executeOp) Metadata() dsl.Metadata {
	return dsl.Metadata{
		Name:        "Execute",
		Description: "Evaluates operation (a raw operator node passed as data) in the current context.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"operation": map[string]any{}},
			"required":   []string{"operation"},
		},
	}
}

func (o *executeOp) ExecuteJSON(ctx context.Context, args dsl.Args) (dsl.Value, error) {
	operation, ok := args.Get("operation")
	if !ok {
		return nil, walerr.Program("Execute", "operation", fmt.Errorf("missing required argument %q", "operation"))
	}
	return args.Eval(ctx, operation)
}
