package httpclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"

	"github.com/web-algebra/webalgebra/config"
	"github.com/web-algebra/webalgebra/walerr"
)

// QueryForm classifies a SPARQL request body so callers know whether to
// decode the response as a Result (solutions) or a Graph (spec.md §4.7
// "Query form is detected by parsing").
type QueryForm int

const (
	FormUnknown QueryForm = iota
	FormSolutions
	FormGraph
)

// DetectQueryForm classifies query by its leading keyword, skipping
// PREFIX/BASE declarations and comments, per spec.md §4.7: "SelectQuery/
// AskQuery -> solutions; ConstructQuery/DescribeQuery -> graph".
func DetectQueryForm(sparqlQuery string) (QueryForm, error) {
	kw := leadingKeyword(sparqlQuery)
	switch kw {
	case "SELECT", "ASK":
		return FormSolutions, nil
	case "CONSTRUCT", "DESCRIBE":
		return FormGraph, nil
	default:
		return FormUnknown, walerr.Program("httpclient.DetectQueryForm", "query", fmt.Errorf("unsupported query form: %q", kw))
	}
}

func leadingKeyword(q string) string {
	for _, line := range strings.Split(q, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		upper := strings.ToUpper(line)
		if strings.HasPrefix(upper, "PREFIX") || strings.HasPrefix(upper, "BASE") {
			continue
		}
		for _, kw := range []string{"SELECT", "ASK", "CONSTRUCT", "DESCRIBE"} {
			if strings.HasPrefix(upper, kw) {
				return kw
			}
		}
		fields := strings.Fields(upper)
		if len(fields) > 0 {
			return fields[0]
		}
	}
	return ""
}

// sparqlQueryParams is encoded with go-querystring for the GET-based
// SPARQL Protocol query operation (SPARQL 1.1 Protocol §2.1.1).
type sparqlQueryParams struct {
	Query string `url:"query"`
}

// sparqlUpdateParams is posted form-encoded for SPARQL Update (SPARQL
// 1.1 Protocol §2.2.2).
type sparqlUpdateParams struct {
	Update string `url:"update"`
}

// SPARQLClient issues SPARQL Protocol query/update requests (spec.md
// §4.7), sharing TLS and retry behavior with LinkedDataClient.
type SPARQLClient struct {
	HTTP *LinkedDataClient
}

// NewSPARQLClient builds a SPARQLClient from Settings.
func NewSPARQLClient(s *config.Settings) (*SPARQLClient, error) {
	ld, err := NewLinkedDataClient(s)
	if err != nil {
		return nil, err
	}
	return &SPARQLClient{HTTP: ld}, nil
}

// Query issues sparqlQuery against endpoint with the given Accept
// header, chosen by the caller from the query form (spec.md §4.7:
// SELECT/ASK -> application/sparql-results+json; CONSTRUCT/DESCRIBE ->
// application/n-triples).
func (c *SPARQLClient) Query(ctx context.Context, endpoint, sparqlQuery, accept string) (*httpResponseBody, error) {
	vals, err := query.Values(sparqlQueryParams{Query: sparqlQuery})
	if err != nil {
		return nil, walerr.Codec("httpclient.SPARQLClient.Query", err)
	}
	full := appendQuery(endpoint, vals)
	resp, err := c.HTTP.Get(ctx, full, accept)
	if err != nil {
		return nil, err
	}
	return readAndClose(resp)
}

// Update issues a SPARQL Update request against endpoint, returning the
// HTTP status and effective URL (spec.md §4.7 "Update{endpoint, update}
// -> Result with {status, url}").
func (c *SPARQLClient) Update(ctx context.Context, endpoint, sparqlUpdate string) (*httpResponseBody, error) {
	vals, err := query.Values(sparqlUpdateParams{Update: sparqlUpdate})
	if err != nil {
		return nil, walerr.Codec("httpclient.SPARQLClient.Update", err)
	}
	resp, err := c.HTTP.Post(ctx, endpoint, "application/x-www-form-urlencoded", []byte(vals.Encode()))
	if err != nil {
		return nil, err
	}
	return readAndClose(resp)
}

func appendQuery(endpoint string, vals url.Values) string {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + vals.Encode()
}
