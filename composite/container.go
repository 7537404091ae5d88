// Package composite implements the LinkedDataHub composite operators of
// spec.md §2 C11 and SPEC_FULL.md §D: higher-level flows that compose
// the core GET/PUT/PATCH/Merge primitives instead of adding new
// evaluation semantics. Each composite is grounded on the matching
// original_source/src/web_algebra/operations/linkeddatahub/*.py
// subclass (CreateContainer/CreateItem/generate_portal/install_package/
// batch_patch): the Python versions subclass PUT/Update directly; the
// Go versions hold an *httpclient.LinkedDataClient (the thing PUT/
// Update themselves wrap) and build the same JSON-LD payload shape,
// per spec.md §9's guidance against inheritance-based reuse in Go.
package composite

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strings"

	"github.com/web-algebra/webalgebra/codec"
	"github.com/web-algebra/webalgebra/config"
	"github.com/web-algebra/webalgebra/httpclient"
	"github.com/web-algebra/webalgebra/rdf"
	"github.com/web-algebra/webalgebra/walerr"
)

const ldhContext = `{
	"ldh": "https://w3id.org/atomgraph/linkeddatahub#",
	"dh": "https://www.w3.org/ns/ldt/document-hierarchy#",
	"rdf": "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
	"dct": "http://purl.org/dc/terms/",
	"sioc": "http://rdfs.org/sioc/ns#",
	"xsd": "http://www.w3.org/2001/XMLSchema#"
}`

func ldhContextMap() map[string]any {
	var m map[string]any
	_ = json.Unmarshal([]byte(ldhContext), &m)
	return m
}

// slugURL builds the trailing-slash child URL LinkedDataHub containers
// and items live at (create_container.py/create_item.py: "slug_str =
// urllib.parse.quote(slug or title); url = parent + slug_str + '/'").
func slugURL(parent, slug string) string {
	if !strings.HasSuffix(parent, "/") {
		parent += "/"
	}
	return parent + url.PathEscape(slug) + "/"
}

// Container creates a LinkedDataHub dh:Container document at a child
// URL of parent, named by slug (falling back to title), via PUT
// (create_container.py).
func Container(ctx context.Context, cfg *config.Settings, parent, title, slug, description string) (*rdf.Result, error) {
	const op = "composite.Container"
	if slug == "" {
		slug = title
	}
	target := slugURL(parent, slug)

	doc := map[string]any{
		"@context": ldhContextMap(),
		"@id":      target,
		"@type":    "dh:Container",
		"dct:title": title,
		"rdf:_1": map[string]any{
			"@type":     "ldh:Object",
			"rdf:value": map[string]any{"@id": "ldh:ChildrenView"},
		},
	}
	if description != "" {
		doc["dct:description"] = description
	}

	graph, err := codec.DecodeJSONLD(doc)
	if err != nil {
		return nil, walerr.Codec(op, err)
	}
	return putGraph(ctx, cfg, op, target, graph)
}

// Item creates a LinkedDataHub dh:Item document at a child URL of
// container, via PUT (create_item.py).
func Item(ctx context.Context, cfg *config.Settings, container, title, slug string) (*rdf.Result, error) {
	const op = "composite.Item"
	if slug == "" {
		slug = title
	}
	target := slugURL(container, slug)

	doc := map[string]any{
		"@context":  ldhContextMap(),
		"@id":       target,
		"@type":     "dh:Item",
		"dct:title": title,
	}

	graph, err := codec.DecodeJSONLD(doc)
	if err != nil {
		return nil, walerr.Codec(op, err)
	}
	return putGraph(ctx, cfg, op, target, graph)
}

func putGraph(ctx context.Context, cfg *config.Settings, op, target string, graph *rdf.Graph) (*rdf.Result, error) {
	client, err := httpclient.NewLinkedDataClient(cfg)
	if err != nil {
		return nil, err
	}
	body, err := codec.EncodeNTriples(graph)
	if err != nil {
		return nil, walerr.Codec(op, err)
	}
	resp, err := client.Put(ctx, target, "application/n-triples", body)
	if err != nil {
		return nil, err
	}
	effectiveURL := target
	if resp.Request != nil && resp.Request.URL != nil {
		effectiveURL = resp.Request.URL.String()
	}
	status := resp.StatusCode
	defer resp.Body.Close()
	_, _ = io.ReadAll(resp.Body)

	row := rdf.Row{
		"status": rdf.NewIntegerLiteral(int64(status)),
		"url":    rdf.NewIri(effectiveURL),
	}
	return rdf.NewResult([]string{"status", "url"}, []rdf.Row{row}), nil
}
