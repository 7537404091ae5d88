// Package dsl defines the operator contract (spec.md §4.1): every
// operator is a named, registry-discoverable type exposing a JSON input
// schema plus a JSON-driven ExecuteJSON. The package
// also holds the process-wide Registry (adapted from the teacher's
// dsl/registry.Registry, which maps component name -> Component the same
// way this Registry maps operator name -> Factory).
package dsl

import "context"

// Value is any typed value an operator can produce or consume: a
// rdf.Term, *rdf.Graph, *rdf.Result, a []Value (ForEach/Filter output),
// or a raw JSON value (only ever produced for $-prefixed Variable
// bindings, never for a binding-context lookup). Operators type-assert
// Value down to the concrete shape they need and fail fast on mismatch,
// per spec.md §4.2: "Type errors fail fast with a clear message".
type Value = any

// Metadata describes an operator's interface: its name, human
// description, and an advisory JSON input schema (spec.md §4.1 — the
// evaluator never validates arguments against this schema; it exists for
// documentation and for the MCP adapter's tool listing).
type Metadata struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// Operator is the interface every operator type implements. ExecuteJSON
// evaluates its raw JSON arguments (via the Evaluator passed through
// args.Eval), type-checks them and computes the operator's result; there
// is no separate Execute method. MCPRun is the optional external adapter
// (spec.md §4.1): it never participates in ExecuteJSON/process_json.
type Operator interface {
	Metadata() Metadata
	ExecuteJSON(ctx context.Context, args Args) (Value, error)
}

// MCPCapable is implemented by operators that expose an MCP adapter
// converting plain JSON arguments to/from typed Values, independent of
// ExecuteJSON/process_json (spec.md §4.1, §6).
type MCPCapable interface {
	Operator
	MCPRun(ctx context.Context, arguments map[string]any) (any, error)
}

// Factory constructs a fresh operator instance bound to the given
// Settings and context item. Operators are instantiated per call
// (spec.md §5: "operators are instantiated per call").
type Factory func(settings Settings, context Value) Operator

// Settings is the immutable configuration record threaded through every
// evaluation (spec.md §4.2: "settings (immutable config)"). The concrete
// type lives in package config; dsl only needs the empty interface to
// avoid an import cycle (config never needs to know about operators).
type Settings = any
