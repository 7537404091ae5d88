package builtin

import (
	"context"
	"fmt"

	"github.com/web-algebra/webalgebra/dsl"
	"github.com/web-algebra/webalgebra/rdf"
	"github.com/web-algebra/webalgebra/walerr"
)

// bindingsOp implements Bindings{result} (SPEC_FULL.md §D): returns the
// binding rows of a Result as a plain list, the shape ForEach/Filter
// already iterate internally, exposed here as its own operator for
// composability.
type bindingsOp struct{ context dsl.Value }

func newBindings(_ dsl.Settings, ctx dsl.Value) dsl.Operator { return &bindingsOp{context: ctx} }

func (o *bindingsOp) Metadata() dsl.Metadata {
	return dsl.Metadata{Name: "Bindings", Description: "Returns the binding rows of a Result as a list."}
}

func (o *bindingsOp) ExecuteJSON(ctx context.Context, args dsl.Args) (dsl.Value, error) {
	v, err := args.Require(ctx, "Bindings", "result")
	if err != nil {
		return nil, err
	}
	result, ok := v.(*rdf.Result)
	if !ok {
		return nil, walerr.Type("Bindings", "result", fmt.Errorf("expected a Result, got %T", v))
	}
	rows := make([]dsl.Value, len(result.Bindings))
	for i, row := range result.Bindings {
		rows[i] = row
	}
	return rows, nil
}
