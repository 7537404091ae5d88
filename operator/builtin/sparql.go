package builtin

import (
	"bytes"
	"context"
	"fmt"

	"github.com/web-algebra/webalgebra/codec"
	"github.com/web-algebra/webalgebra/config"
	"github.com/web-algebra/webalgebra/dsl"
	"github.com/web-algebra/webalgebra/httpclient"
	"github.com/web-algebra/webalgebra/walerr"
)

// sparqlQueryOp implements SELECT/CONSTRUCT/DESCRIBE{endpoint, query}
// (spec.md §4.7): parse the query, choose accept header by form,
// delegate to the SPARQL client, hand the result to the matching codec.
type sparqlQueryOp struct {
	context    dsl.Value
	settings   *config.Settings
	name       string
	wantedForm httpclient.QueryForm
}

func newSELECT(s dsl.Settings, ctx dsl.Value) dsl.Operator {
	return &sparqlQueryOp{context: ctx, settings: settingsOf(s), name: "SELECT", wantedForm: httpclient.FormSolutions}
}

func newCONSTRUCT(s dsl.Settings, ctx dsl.Value) dsl.Operator {
	return &sparqlQueryOp{context: ctx, settings: settingsOf(s), name: "CONSTRUCT", wantedForm: httpclient.FormGraph}
}

func newDESCRIBE(s dsl.Settings, ctx dsl.Value) dsl.Operator {
	return &sparqlQueryOp{context: ctx, settings: settingsOf(s), name: "DESCRIBE", wantedForm: httpclient.FormGraph}
}

func (o *sparqlQueryOp) Metadata() dsl.Metadata {
	desc := map[httpclient.QueryForm]string{
		httpclient.FormSolutions: "Runs a SPARQL SELECT/ASK query against endpoint, returning a Result.",
		httpclient.FormGraph:     "Runs a SPARQL CONSTRUCT/DESCRIBE query against endpoint, returning a Graph.",
	}[o.wantedForm]
	return dsl.Metadata{
		Name:        o.name,
		Description: desc,
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"endpoint": map[string]any{"type": "string", "format": "iri"},
				"query":    map[string]any{"type": "string"},
			},
			"required": []string{"endpoint", "query"},
		},
	}
}

func (o *sparqlQueryOp) ExecuteJSON(ctx context.Context, args dsl.Args) (dsl.Value, error) {
	endpointV, err := args.Require(ctx, o.name, "endpoint")
	if err != nil {
		return nil, err
	}
	endpointT, err := asTerm(o.name, "endpoint", endpointV)
	if err != nil {
		return nil, err
	}
	if !endpointT.IsIri() {
		return nil, walerr.Type(o.name, "endpoint", fmt.Errorf("endpoint must be an Iri"))
	}
	queryV, err := args.Require(ctx, o.name, "query")
	if err != nil {
		return nil, err
	}
	queryT, err := asStringCompatible(o.name, "query", queryV)
	if err != nil {
		return nil, err
	}

	form, err := httpclient.DetectQueryForm(queryT.Value())
	if err != nil {
		return nil, err
	}
	if form != o.wantedForm {
		return nil, walerr.Program(o.name, "query", fmt.Errorf("query form does not match %s (expected %v, parsed %v)", o.name, o.wantedForm, form))
	}

	accept := "application/sparql-results+json"
	if form == httpclient.FormGraph {
		accept = "application/n-triples"
	}

	client, err := httpclient.NewSPARQLClient(o.settings)
	if err != nil {
		return nil, err
	}
	resp, err := client.Query(ctx, endpointT.Value(), queryT.Value(), accept)
	if err != nil {
		return nil, err
	}

	if form == httpclient.FormGraph {
		return codec.DecodeNTriples(bytes.NewReader(resp.Body))
	}
	return codec.DecodeSPARQLResultsJSON(bytes.NewReader(resp.Body))
}

// updateOp implements Update{endpoint, update} -> Result{status, url}
// (spec.md §4.7).
type updateOp struct {
	context  dsl.Value
	settings *config.Settings
}

func newUpdate(s dsl.Settings, ctx dsl.Value) dsl.Operator {
	return &updateOp{context: ctx, settings: settingsOf(s)}
}

func (o *updateOp) Metadata() dsl.Metadata {
	return dsl.Metadata{Name: "Update", Description: "Runs a SPARQL Update request against endpoint."}
}

func (o *updateOp) ExecuteJSON(ctx context.Context, args dsl.Args) (dsl.Value, error) {
	endpointV, err := args.Require(ctx, "Update", "endpoint")
	if err != nil {
		return nil, err
	}
	endpointT, err := asTerm("Update", "endpoint", endpointV)
	if err != nil {
		return nil, err
	}
	if !endpointT.IsIri() {
		return nil, walerr.Type("Update", "endpoint", fmt.Errorf("endpoint must be an Iri"))
	}
	updateV, err := args.Require(ctx, "Update", "update")
	if err != nil {
		return nil, err
	}
	updateT, err := asStringCompatible("Update", "update", updateV)
	if err != nil {
		return nil, err
	}

	client, err := httpclient.NewSPARQLClient(o.settings)
	if err != nil {
		return nil, err
	}
	resp, err := client.Update(ctx, endpointT.Value(), updateT.Value())
	if err != nil {
		return nil, err
	}
	return statusURLResult(resp.StatusCode, resp.URL), nil
}
