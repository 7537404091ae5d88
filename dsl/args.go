package dsl

import "context"

// VarStack is the variable-stack contract operators use to implement
// Variable/Value/ForEach scoping (spec.md §4.2 "Variable stack
// semantics"). Push/Pop frame the scope of ForEach (Variable pushes no
// frame); Set writes into the top frame; Get searches top-to-bottom.
type VarStack interface {
	Push()
	Pop()
	Set(name string, v Value)
	Get(name string) (Value, bool)
}

// Args is what ExecuteJSON receives: the raw (unevaluated) "args" object
// of the operator node, an Eval callback that recursively runs
// process_json (engine.Evaluator.Process) against the current context and
// variable stack, and the VarStack itself for operators (Variable,
// ForEach) that need to read/write/scope it directly.
type Args struct {
	Raw   map[string]any
	Eval  func(ctx context.Context, json any) (Value, error)
	// EvalWithContext evaluates json with a different context item
	// (used by ForEach to bind the loop item as Current's context) but
	// the same variable stack.
	EvalWithContext func(ctx context.Context, json any, newContext Value) (Value, error)
	Vars  VarStack
	// Context is the "current item" visible to Current (spec.md §4.3).
	Context Value
}

// Get returns the raw JSON value of a named argument and whether it was
// present at all (distinguishing "argument omitted" from "argument is
// JSON null", which a caller may need for optional parameters).
func (a Args) Get(name string) (any, bool) {
	v, ok := a.Raw[name]
	return v, ok
}

// Require evaluates a named, mandatory argument and returns a
// ProgramError if it is absent (spec.md §4.8: "missing required
// argument").
func (a Args) Require(ctx context.Context, op, name string) (Value, error) {
	raw, ok := a.Get(name)
	if !ok {
		return nil, missingArg(op, name)
	}
	return a.Eval(ctx, raw)
}

// Optional evaluates a named argument if present, returning ok=false
// when it was omitted entirely.
func (a Args) Optional(ctx context.Context, name string) (Value, bool, error) {
	raw, ok := a.Get(name)
	if !ok {
		return nil, false, nil
	}
	v, err := a.Eval(ctx, raw)
	return v, true, err
}
