package composite

import (
	"context"

	"github.com/web-algebra/webalgebra/config"
	"github.com/web-algebra/webalgebra/httpclient"
	"github.com/web-algebra/webalgebra/rdf"
)

// BatchPatch sends a single SPARQL update covering multiple resources
// to endpoint, returning a {status, url} Result (batch_patch.py:
// BatchPATCH(Update) adds no execution logic of its own — it renames
// Update and documents a stricter convention: no GRAPH patterns, a
// WITH clause naming the target graph, and all-or-nothing application
// of the update as a single HTTP request).
func BatchPatch(ctx context.Context, cfg *config.Settings, endpoint, update string) (*rdf.Result, error) {
	client, err := httpclient.NewSPARQLClient(cfg)
	if err != nil {
		return nil, err
	}
	resp, err := client.Update(ctx, endpoint, update)
	if err != nil {
		return nil, err
	}
	row := rdf.Row{
		"status": rdf.NewIntegerLiteral(int64(resp.StatusCode)),
		"url":    rdf.NewIri(resp.URL),
	}
	return rdf.NewResult([]string{"status", "url"}, []rdf.Row{row}), nil
}
