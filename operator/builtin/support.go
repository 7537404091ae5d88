// Package builtin implements the control-flow, primitive, SPARQL
// substitution, SPARQL protocol, and Linked Data operators of spec.md
// §4.3-§4.7 (components C6-C10). Each operator is grounded on the
// teacher's Component pattern (a small struct constructed per call,
// holding settings/context, exposing Metadata()/ExecuteJSON()) and
// registers itself with dsl.DefaultRegistry from an init function, the
// way the teacher's tool packages self-register with tool.DefaultRegistry.
package builtin

import (
	"fmt"

	"github.com/web-algebra/webalgebra/config"
	"github.com/web-algebra/webalgebra/dsl"
	"github.com/web-algebra/webalgebra/rdf"
	"github.com/web-algebra/webalgebra/walerr"
)

// settingsOf type-asserts the Settings threaded through the evaluator
// (dsl.Settings = any) to the concrete *config.Settings every
// network-facing operator needs. A nil or wrong-typed settings value is
// a host programming error, not a program error, so it panics with a
// descriptive message rather than returning a walerr.
func settingsOf(s dsl.Settings) *config.Settings {
	cfg, ok := s.(*config.Settings)
	if !ok || cfg == nil {
		panic(fmt.Sprintf("builtin: expected *config.Settings, got %T", s))
	}
	return cfg
}

// asTerm type-checks v as an rdf.Term, the strict type check most
// operators perform on their evaluated arguments (spec.md §4.2:
// "execute_json ... performing a strict type check on the results").
func asTerm(op, arg string, v dsl.Value) (rdf.Term, error) {
	t, ok := v.(rdf.Term)
	if !ok {
		return rdf.Term{}, walerr.Type(op, arg, fmt.Errorf("expected a Term, got %T", v))
	}
	return t, nil
}

// asStringCompatible enforces spec.md §4.5's Str contract: an
// xsd:string, language-tagged, or otherwise plain-string Literal passes
// unchanged; anything else is a type error (callers that want implicit
// stringification of arbitrary Terms use the Str operator explicitly).
func asStringCompatible(op, arg string, v dsl.Value) (rdf.Term, error) {
	t, err := asTerm(op, arg, v)
	if err != nil {
		return rdf.Term{}, err
	}
	if !t.IsStringCompatible() {
		return rdf.Term{}, walerr.Type(op, arg, fmt.Errorf("expected a string-compatible literal, got %s", t.TypeName()))
	}
	return t, nil
}

func asGraph(op, arg string, v dsl.Value) (*rdf.Graph, error) {
	g, ok := v.(*rdf.Graph)
	if !ok {
		return nil, walerr.Type(op, arg, fmt.Errorf("expected a Graph, got %T", v))
	}
	return g, nil
}

// asIterable accepts either a list (already-evaluated []dsl.Value) or a
// *rdf.Result, the two iterable shapes ForEach/Filter operate over
// (spec.md §4.3).
func asIterable(op, arg string, v dsl.Value) ([]dsl.Value, error) {
	switch val := v.(type) {
	case []dsl.Value:
		return val, nil
	case *rdf.Result:
		items := make([]dsl.Value, len(val.Bindings))
		for i, row := range val.Bindings {
			items[i] = row
		}
		return items, nil
	default:
		return nil, walerr.Type(op, arg, fmt.Errorf("expected a list or Result, got %T", v))
	}
}

// requireString reads a raw, non-evaluated JSON string argument — used
// for structural parameters like Variable's `name` and Value's `name`
// that name a binding rather than contribute RDF data, so they are
// never run through Eval/json_to_rdflib.
func requireString(op, arg string, args dsl.Args) (string, error) {
	raw, ok := args.Get(arg)
	if !ok {
		return "", walerr.Program(op, arg, fmt.Errorf("missing required argument %q", arg))
	}
	s, ok := raw.(string)
	if !ok {
		return "", walerr.Type(op, arg, fmt.Errorf("expected a plain JSON string, got %T", raw))
	}
	return s, nil
}

// noArgsMetadata is a convenience for zero-argument operators
// (Current, STRUUID).
func noArgsMetadata(name, description string) dsl.Metadata {
	return dsl.Metadata{
		Name:        name,
		Description: description,
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
	}
}
