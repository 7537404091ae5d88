// Package mcp is the external MCP adapter surface (spec.md §6): it
// exposes every registered operator as an MCP tool, each tool's
// handler evaluating a one-operator program tree built from the tool
// call's plain JSON arguments, and serves that surface over HTTP.
// Grounded on the teacher's examples/mcp_tool/streamalbe_server pattern
// (mcp.NewServer, mcp.NewTool/WithString/WithDescription,
// server.RegisterTool, server.Handler() mounted behind a standard
// http.Handler), generalized from a fixed, hand-written tool list to
// one generated from dsl.Registry.ListMetadata so every operator is
// reachable without per-operator boilerplate.
package mcp

import (
	"context"
	"encoding/json"
	"net/http"

	mcpgo "trpc.group/trpc-go/trpc-mcp-go"

	"github.com/gorilla/mux"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/cors"

	"github.com/web-algebra/webalgebra/dsl"
	"github.com/web-algebra/webalgebra/engine"
	"github.com/web-algebra/webalgebra/rdf"
)

const serverName = "webalgebra"
const serverVersion = "0.1.0"

// maxConcurrentEvaluations bounds how many tool-call evaluations run at
// once; each evaluation can issue multiple outbound HTTP requests, so
// this is the backpressure point for the whole transport.
const maxConcurrentEvaluations = 64

// evaluationPool is shared by every tool handler. Submit blocks while
// the pool is at capacity; if Submit returns an error (e.g. the pool
// has been released), the evaluation runs on a new goroutine instead.
var evaluationPool, _ = ants.NewPool(maxConcurrentEvaluations)

// NewServer builds an mcp.Server advertising one tool per operator
// registered in eval.Registry, each dispatching through eval.
func NewServer(eval *engine.Evaluator) *mcpgo.Server {
	server := mcpgo.NewServer(serverName, serverVersion)
	for _, meta := range eval.Registry.ListMetadata() {
		server.RegisterTool(toolFor(meta), handlerFor(eval, meta.Name))
	}
	return server
}

// toolFor builds an mcp.Tool advertising meta's InputSchema properties
// as free-form string parameters — operator arguments are JSON program
// fragments (Terms, nested @op nodes, literals), not plain scalars, so
// every field is exposed as an opaque string and left to the
// operator's own evaluation/coercion rather than generating a typed
// mcp.With* option per JSON Schema "type".
func toolFor(meta dsl.Metadata) *mcpgo.Tool {
	opts := []mcpgo.ToolOption{mcpgo.WithDescription(meta.Description)}

	required := map[string]bool{}
	if req, ok := meta.InputSchema["required"].([]string); ok {
		for _, name := range req {
			required[name] = true
		}
	}
	if props, ok := meta.InputSchema["properties"].(map[string]any); ok {
		for field := range props {
			description := mcpgo.Description("JSON program fragment for " + field)
			if required[field] {
				opts = append(opts, mcpgo.WithString(field, description, mcpgo.Required()))
			} else {
				opts = append(opts, mcpgo.WithString(field, description))
			}
		}
	}

	return mcpgo.NewTool(meta.Name, opts...)
}

// handlerFor returns an MCP tool handler that builds the program tree
// {"@op": name, "args": arguments} from the call's arguments and
// evaluates it, converting the typed result to text. Evaluation runs
// on evaluationPool (bounded worker pool) rather than directly on the
// transport's request goroutine, so a burst of concurrent tool calls
// cannot spawn unbounded outbound HTTP work (grounded on the teacher's
// knowledge.BuiltinKnowledge.loadConcurrent: ants.Pool.Submit plus a
// result channel per submitted job).
func handlerFor(eval *engine.Evaluator, name string) func(context.Context, *mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return func(ctx context.Context, req *mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		program := map[string]any{"@op": name, "args": map[string]any(req.Params.Arguments)}

		type outcome struct {
			value any
			err   error
		}
		done := make(chan outcome, 1)
		submit := func() {
			value, err := eval.Eval(ctx, program)
			done <- outcome{value: value, err: err}
		}
		if err := evaluationPool.Submit(submit); err != nil {
			go submit()
		}

		select {
		case out := <-done:
			if out.err != nil {
				return mcpgo.NewErrorResult(out.err.Error()), nil
			}
			return mcpgo.NewTextResult(RenderValue(out.value)), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// RenderValue converts a dsl.Value to display text for an MCP tool
// result's text content (spec.md §6: "MCP tool results render the
// typed result as text").
func RenderValue(v any) string {
	switch t := v.(type) {
	case rdf.Term:
		return t.String()
	case *rdf.Graph:
		return renderGraph(t)
	case *rdf.Result:
		return renderResult(t)
	case []any:
		return renderList(t)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func renderGraph(g *rdf.Graph) string {
	var out []byte
	for _, tr := range g.Triples() {
		out = append(out, []byte(tr.Subject.String()+" "+tr.Predicate.String()+" "+tr.Object.String()+" .\n")...)
	}
	return string(out)
}

func renderResult(r *rdf.Result) string {
	b, _ := json.MarshalIndent(map[string]any{"vars": r.Vars, "bindings": rowsAsText(r.Bindings)}, "", "  ")
	return string(b)
}

func rowsAsText(rows []rdf.Row) []map[string]string {
	out := make([]map[string]string, len(rows))
	for i, row := range rows {
		m := make(map[string]string, len(row))
		for k, t := range row {
			m[k] = t.String()
		}
		out[i] = m
	}
	return out
}

func renderList(items []any) string {
	rendered := make([]string, len(items))
	for i, item := range items {
		rendered[i] = RenderValue(item)
	}
	b, _ := json.Marshal(rendered)
	return string(b)
}

// HTTPHandler mounts the MCP transport (eval's operators, exposed via
// NewServer) under /mcp, plus a /healthz liveness endpoint, behind
// gorilla/mux routing and rs/cors, the way the teacher's debugserver
// mounts its own handler set.
func HTTPHandler(eval *engine.Evaluator) http.Handler {
	server := NewServer(eval)

	router := mux.NewRouter()
	router.PathPrefix("/mcp").Handler(server.Handler())
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(router)
}

// ListenAndServe starts the MCP HTTP transport on addr.
func ListenAndServe(addr string, eval *engine.Evaluator) error {
	return http.ListenAndServe(addr, HTTPHandler(eval))
}
