package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/web-algebra/webalgebra/rdf"
	"github.com/web-algebra/webalgebra/walerr"
)

// sparqlResultsDoc mirrors the SPARQL 1.1 Query Results JSON Format
// (https://www.w3.org/TR/sparql11-results-json/), the wire shape
// consumed by SELECT/ASK responses (spec.md §6: "SPARQL SELECT/ASK
// responses are consumed as SPARQL Results JSON"). Decoding this shape
// is pure JSON structure matching, so it is hand-rolled on
// encoding/json rather than borrowed from the corpus — no pack library
// implements the SPARQL Results JSON format (DESIGN.md).
type sparqlResultsDoc struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []map[string]any `json:"bindings"`
	} `json:"results"`
	Boolean *bool `json:"boolean"`
}

// DecodeSPARQLResultsJSON parses a SPARQL Results JSON document (SELECT
// or ASK) into a Result. An ASK response's `boolean` is represented as
// a single-row, single-column ("boolean") Result carrying an
// xsd:boolean Literal, so callers can treat SELECT and ASK uniformly.
func DecodeSPARQLResultsJSON(r io.Reader) (*rdf.Result, error) {
	const op = "codec.DecodeSPARQLResultsJSON"
	var doc sparqlResultsDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, walerr.Codec(op, err)
	}

	if doc.Boolean != nil {
		row := rdf.Row{"boolean": rdf.NewBooleanLiteral(*doc.Boolean)}
		return rdf.NewResult([]string{"boolean"}, []rdf.Row{row}), nil
	}

	rows := make([]rdf.Row, 0, len(doc.Results.Bindings))
	for _, binding := range doc.Results.Bindings {
		row := make(rdf.Row, len(binding))
		for varName, raw := range binding {
			m, ok := raw.(map[string]any)
			if !ok {
				return nil, walerr.Codec(op, fmt.Errorf("binding for %q is not an object", varName))
			}
			term, err := rdf.FromJSON(m)
			if err != nil {
				return nil, walerr.Codec(op, err)
			}
			row[varName] = term
		}
		rows = append(rows, row)
	}
	return rdf.NewResult(doc.Head.Vars, rows), nil
}
