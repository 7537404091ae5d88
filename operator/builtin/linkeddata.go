package builtin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/web-algebra/webalgebra/codec"
	"github.com/web-algebra/webalgebra/config"
	"github.com/web-algebra/webalgebra/dsl"
	"github.com/web-algebra/webalgebra/httpclient"
	"github.com/web-algebra/webalgebra/rdf"
	"github.com/web-algebra/webalgebra/walerr"
)

const linkedDataAccept = "application/n-triples, text/turtle, application/ld+json, application/rdf+xml"

// decodeByContentType parses body per Content-Type, per spec.md §4.6
// ("GET{url} -> Graph ... Parse per Content-Type; unknown types fail").
func decodeByContentType(op, contentType string, body []byte) (*rdf.Graph, error) {
	mediaType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	switch mediaType {
	case "application/n-triples", "text/plain":
		return codec.DecodeNTriples(bytes.NewReader(body))
	case "text/turtle":
		return codec.DecodeTurtle(bytes.NewReader(body))
	case "application/rdf+xml":
		return codec.DecodeRDFXML(bytes.NewReader(body))
	case "application/ld+json":
		var doc any
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, walerr.Codec(op, err)
		}
		return codec.DecodeJSONLD(doc)
	default:
		return nil, walerr.Codec(op, fmt.Errorf("unsupported Content-Type: %q", contentType))
	}
}

func readAndCloseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, walerr.Network("httpclient.readAndCloseBody", err)
	}
	return b, nil
}

// statusURLResult builds the {status, url} Result shared by
// POST/PUT/PATCH/Update (spec.md §4.6-§4.7).
func statusURLResult(status int, effectiveURL string) *rdf.Result {
	row := rdf.Row{
		"status": rdf.NewIntegerLiteral(int64(status)),
		"url":    rdf.NewIri(effectiveURL),
	}
	return rdf.NewResult([]string{"status", "url"}, []rdf.Row{row})
}

// getOp implements GET{url} (spec.md §4.6).
type getOp struct {
	context  dsl.Value
	settings *config.Settings
}

func newGET(s dsl.Settings, ctx dsl.Value) dsl.Operator {
	return &getOp{context: ctx, settings: settingsOf(s)}
}

func (o *getOp) Metadata() dsl.Metadata {
	return dsl.Metadata{Name: "GET", Description: "Fetches an RDF document and parses it per Content-Type."}
}

func (o *getOp) ExecuteJSON(ctx context.Context, args dsl.Args) (dsl.Value, error) {
	urlV, err := args.Require(ctx, "GET", "url")
	if err != nil {
		return nil, err
	}
	urlT, err := asTerm("GET", "url", urlV)
	if err != nil {
		return nil, err
	}
	if !urlT.IsIri() {
		return nil, walerr.Type("GET", "url", fmt.Errorf("url must be an Iri"))
	}

	client, err := httpclient.NewLinkedDataClient(o.settings)
	if err != nil {
		return nil, err
	}
	resp, err := client.Get(ctx, urlT.Value(), linkedDataAccept)
	if err != nil {
		return nil, err
	}
	contentType := resp.Header.Get("Content-Type")
	body, err := readAndCloseBody(resp)
	if err != nil {
		return nil, err
	}
	return decodeByContentType("GET", contentType, body)
}

// postPutOp implements POST/PUT{url, data} -> Result{status, url}
// (spec.md §4.6), sharing one implementation since both serialize data
// as N-Triples and report the same result shape.
type postPutOp struct {
	context  dsl.Value
	settings *config.Settings
	method   string
}

func newPOST(s dsl.Settings, ctx dsl.Value) dsl.Operator {
	return &postPutOp{context: ctx, settings: settingsOf(s), method: "POST"}
}

func newPUT(s dsl.Settings, ctx dsl.Value) dsl.Operator {
	return &postPutOp{context: ctx, settings: settingsOf(s), method: "PUT"}
}

func (o *postPutOp) Metadata() dsl.Metadata {
	return dsl.Metadata{Name: o.method, Description: o.method + "s an N-Triples serialization of data to url."}
}

func (o *postPutOp) ExecuteJSON(ctx context.Context, args dsl.Args) (dsl.Value, error) {
	urlV, err := args.Require(ctx, o.method, "url")
	if err != nil {
		return nil, err
	}
	urlT, err := asTerm(o.method, "url", urlV)
	if err != nil {
		return nil, err
	}
	if !urlT.IsIri() {
		return nil, walerr.Type(o.method, "url", fmt.Errorf("url must be an Iri"))
	}
	dataV, err := args.Require(ctx, o.method, "data")
	if err != nil {
		return nil, err
	}
	graph, err := asGraph(o.method, "data", dataV)
	if err != nil {
		return nil, err
	}
	body, err := codec.EncodeNTriples(graph)
	if err != nil {
		return nil, err
	}

	client, err := httpclient.NewLinkedDataClient(o.settings)
	if err != nil {
		return nil, err
	}
	var resp *http.Response
	if o.method == "POST" {
		resp, err = client.Post(ctx, urlT.Value(), "application/n-triples", body)
	} else {
		resp, err = client.Put(ctx, urlT.Value(), "application/n-triples", body)
	}
	if err != nil {
		return nil, err
	}
	effectiveURL := urlT.Value()
	if resp.Request != nil && resp.Request.URL != nil {
		effectiveURL = resp.Request.URL.String()
	}
	status := resp.StatusCode
	_, _ = readAndCloseBody(resp)
	return statusURLResult(status, effectiveURL), nil
}

// patchOp implements PATCH{url, update} -> Result{status, url}
// (spec.md §4.6): body is a SPARQL update in application/sparql-update.
type patchOp struct {
	context  dsl.Value
	settings *config.Settings
}

func newPATCH(s dsl.Settings, ctx dsl.Value) dsl.Operator {
	return &patchOp{context: ctx, settings: settingsOf(s)}
}

func (o *patchOp) Metadata() dsl.Metadata {
	return dsl.Metadata{Name: "PATCH", Description: "Sends a SPARQL update body to url as application/sparql-update."}
}

func (o *patchOp) ExecuteJSON(ctx context.Context, args dsl.Args) (dsl.Value, error) {
	urlV, err := args.Require(ctx, "PATCH", "url")
	if err != nil {
		return nil, err
	}
	urlT, err := asTerm("PATCH", "url", urlV)
	if err != nil {
		return nil, err
	}
	if !urlT.IsIri() {
		return nil, walerr.Type("PATCH", "url", fmt.Errorf("url must be an Iri"))
	}
	updateV, err := args.Require(ctx, "PATCH", "update")
	if err != nil {
		return nil, err
	}
	updateT, err := asStringCompatible("PATCH", "update", updateV)
	if err != nil {
		return nil, err
	}

	client, err := httpclient.NewLinkedDataClient(o.settings)
	if err != nil {
		return nil, err
	}
	resp, err := client.Patch(ctx, urlT.Value(), "application/sparql-update", []byte(updateT.Value()))
	if err != nil {
		return nil, err
	}
	effectiveURL := urlT.Value()
	if resp.Request != nil && resp.Request.URL != nil {
		effectiveURL = resp.Request.URL.String()
	}
	status := resp.StatusCode
	_, _ = readAndCloseBody(resp)
	return statusURLResult(status, effectiveURL), nil
}
