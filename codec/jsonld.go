package codec

import (
	"fmt"
	"strings"

	"github.com/piprate/json-gold/ld"

	"github.com/web-algebra/webalgebra/rdf"
	"github.com/web-algebra/webalgebra/walerr"
)

// DecodeJSONLD expands and flattens a JSON-LD document into a Graph via
// json-gold's ToRDF, the JSON-LD API's standard document->dataset path
// (spec.md §6: "JSON-LD ... accepted on GET").
func DecodeJSONLD(doc any) (*rdf.Graph, error) {
	const op = "codec.DecodeJSONLD"
	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions("")

	dataset, err := proc.ToRDF(doc, opts)
	if err != nil {
		return nil, walerr.Codec(op, err)
	}
	rdfDataset, ok := dataset.(*ld.RDFDataset)
	if !ok {
		return nil, walerr.Codec(op, fmt.Errorf("unexpected ToRDF result type %T", dataset))
	}

	g := rdf.NewGraph()
	for _, quads := range rdfDataset.Graphs {
		for _, q := range quads {
			t, err := fromJSONLDQuad(q)
			if err != nil {
				return nil, walerr.Codec(op, err)
			}
			g.Add(t)
		}
	}
	return g, nil
}

func fromJSONLDQuad(q *ld.Quad) (rdf.Triple, error) {
	s, err := fromJSONLDNode(q.Subject)
	if err != nil {
		return rdf.Triple{}, err
	}
	p, err := fromJSONLDNode(q.Predicate)
	if err != nil {
		return rdf.Triple{}, err
	}
	o, err := fromJSONLDNode(q.Object)
	if err != nil {
		return rdf.Triple{}, err
	}
	return rdf.Triple{Subject: s, Predicate: p, Object: o}, nil
}

func fromJSONLDNode(node ld.Node) (rdf.Term, error) {
	switch n := node.(type) {
	case *ld.IRI:
		return rdf.NewIri(n.Value), nil
	case *ld.BlankNode:
		return rdf.NewBlankNode(strings.TrimPrefix(n.Attribute, "_:")), nil
	case *ld.Literal:
		return rdf.NewLiteral(n.Value, n.Datatype, n.Language), nil
	default:
		return rdf.Term{}, fmt.Errorf("unsupported JSON-LD node kind %T", node)
	}
}
