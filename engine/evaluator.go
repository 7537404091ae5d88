// Package engine implements process_json (spec.md §4.2): the recursive
// evaluator that drives operator dispatch, JSON-LD passthrough
// recursion, list sequencing, and variable-stack scoping. It is grounded
// on the teacher's dsl.Compiler (which walks a JSON DSL.Graph and
// dispatches to registry.Component instances) and, at the exact
// recursion-shape level, on original_source's Operation.process_json.
package engine

import (
	"context"
	"fmt"

	"github.com/web-algebra/webalgebra/dsl"
	"github.com/web-algebra/webalgebra/log"
	"github.com/web-algebra/webalgebra/rdf"
	"github.com/web-algebra/webalgebra/walerr"
)

// Evaluator drives a single program tree to a typed result. It holds the
// (read-only after startup) operator Registry and the immutable
// Settings record threaded to every operator instance (spec.md §4.2
// Inputs).
type Evaluator struct {
	Registry *dsl.Registry
	Settings dsl.Settings
}

// New returns an Evaluator bound to settings and the DefaultRegistry.
func New(settings dsl.Settings) *Evaluator {
	return &Evaluator{Registry: dsl.DefaultRegistry, Settings: settings}
}

// Eval evaluates a top-level program: a fresh VariableStack, no context
// item (Current fails until a ForEach establishes one).
func (e *Evaluator) Eval(ctx context.Context, program any) (dsl.Value, error) {
	return e.Process(ctx, program, nil, NewVariableStack())
}

// Process implements spec.md §4.2 process_json, rules 1-4 in order.
func (e *Evaluator) Process(ctx context.Context, node any, current dsl.Value, stack *VariableStack) (dsl.Value, error) {
	switch v := node.(type) {
	case map[string]any:
		if opName, ok := v["@op"]; ok {
			name, ok := opName.(string)
			if !ok {
				return nil, walerr.Program("", "@op", fmt.Errorf("@op must be a string, got %T", opName))
			}
			return e.dispatch(ctx, name, v["args"], current, stack)
		}
		// Rule 4: a SPARQL-Results-JSON binding object becomes a Term.
		if typ, ok := v["type"].(string); ok && (typ == "uri" || typ == "bnode" || typ == "literal") {
			if _, hasValue := v["value"]; hasValue {
				return rdf.FromJSON(v)
			}
		}
		// Rule 2: no @op — recurse into each value, same keys, so nested
		// operators inside JSON-LD are resolved before the structure is
		// handed to a graph codec.
		out := make(map[string]any, len(v))
		for k, val := range v {
			r, err := e.Process(ctx, val, current, stack)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil

	case []any:
		// Rule 3: evaluate in order, sharing one variable stack so that
		// Variable bindings from earlier elements are visible to later
		// ones (sequential composition).
		out := make([]dsl.Value, 0, len(v))
		for _, item := range v {
			r, err := e.Process(ctx, item, current, stack)
			if err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		return out, nil

	default:
		// Rule 4: scalar / already-typed value passthrough.
		return coerceScalar(v)
	}
}

// coerceScalar implements json_to_rdflib for values that are not
// operator nodes, objects, or lists: raw JSON scalars become Terms;
// values that are already Terms/Graphs/Results/lists (possible when an
// operator's raw args map already holds a nested Go value rather than
// freshly-decoded JSON) pass through unchanged.
func coerceScalar(v any) (dsl.Value, error) {
	switch v.(type) {
	case rdf.Term, *rdf.Graph, *rdf.Result, []dsl.Value, map[string]dsl.Value:
		return v, nil
	}
	return rdf.FromJSON(v)
}

func (e *Evaluator) dispatch(ctx context.Context, name string, rawArgs any, current dsl.Value, stack *VariableStack) (dsl.Value, error) {
	factory, ok := e.Registry.Get(name)
	if !ok {
		return nil, walerr.Program(name, "", fmt.Errorf("unknown operator: %s", name))
	}

	argsMap, err := asArgsMap(name, rawArgs)
	if err != nil {
		return nil, err
	}

	op := factory(e.Settings, current)
	log.Debugf("dispatch @op=%s args=%v", name, argsMap)

	args := dsl.Args{
		Raw: argsMap,
		Eval: func(ctx context.Context, json any) (dsl.Value, error) {
			return e.Process(ctx, json, current, stack)
		},
		EvalWithContext: func(ctx context.Context, json any, newContext dsl.Value) (dsl.Value, error) {
			return e.Process(ctx, json, newContext, stack)
		},
		Vars:    stack,
		Context: current,
	}

	result, err := op.ExecuteJSON(ctx, args)
	if err != nil {
		log.Errorf("@op=%s failed: %v", name, err)
		return nil, err
	}
	return result, nil
}

func asArgsMap(op string, rawArgs any) (map[string]any, error) {
	if rawArgs == nil {
		return map[string]any{}, nil
	}
	m, ok := rawArgs.(map[string]any)
	if !ok {
		return nil, walerr.Program(op, "args", fmt.Errorf("args must be a JSON object, got %T", rawArgs))
	}
	return m, nil
}
