// Package codec implements the wire-format converters of spec.md §4.2/
// §6 (component C2): N-Triples is the canonical body for PUT/POST/
// DELETE/PATCH payloads and for SPARQL CONSTRUCT/DESCRIBE responses;
// Turtle, RDF/XML and JSON-LD are accepted on GET; SPARQL SELECT/ASK
// responses are consumed as SPARQL Results JSON. N-Triples and Turtle
// are grounded on github.com/knakk/rdf (the parser `Senforsce-sparql`
// wires for the same job); JSON-LD is grounded on
// github.com/piprate/json-gold (`geoknoesis-rdf-go` lists it as its RDF
// foundation). RDF/XML has no corpus library, so it is hand-rolled on
// encoding/xml (DESIGN.md justifies this one stdlib exception).
package codec

import (
	"bytes"
	"fmt"
	"io"

	knakkrdf "github.com/knakk/rdf"

	"github.com/web-algebra/webalgebra/rdf"
	"github.com/web-algebra/webalgebra/walerr"
)

// DecodeNTriples parses an N-Triples document into a Graph.
func DecodeNTriples(r io.Reader) (*rdf.Graph, error) {
	return decodeTriples(r, knakkrdf.NTriples, "codec.DecodeNTriples")
}

// EncodeNTriples serializes g as N-Triples, the canonical outbound wire
// form (spec.md §6 "RDF on the wire").
func EncodeNTriples(g *rdf.Graph) ([]byte, error) {
	var buf bytes.Buffer
	enc := knakkrdf.NewTripleEncoder(&buf, knakkrdf.NTriples)
	for _, t := range g.Triples() {
		kt, err := toKnakkTriple(t)
		if err != nil {
			return nil, walerr.Codec("codec.EncodeNTriples", err)
		}
		if err := enc.Encode(kt); err != nil {
			return nil, walerr.Codec("codec.EncodeNTriples", err)
		}
	}
	if err := enc.Close(); err != nil {
		return nil, walerr.Codec("codec.EncodeNTriples", err)
	}
	return buf.Bytes(), nil
}

func decodeTriples(r io.Reader, format knakkrdf.Format, op string) (*rdf.Graph, error) {
	dec := knakkrdf.NewTripleDecoder(r, format)
	g := rdf.NewGraph()
	for {
		kt, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, walerr.Codec(op, err)
		}
		t, err := fromKnakkTriple(kt)
		if err != nil {
			return nil, walerr.Codec(op, err)
		}
		g.Add(t)
	}
	return g, nil
}

func fromKnakkTriple(kt knakkrdf.Triple) (rdf.Triple, error) {
	s, err := fromKnakkTerm(kt.Subj)
	if err != nil {
		return rdf.Triple{}, err
	}
	p, err := fromKnakkTerm(kt.Pred)
	if err != nil {
		return rdf.Triple{}, err
	}
	o, err := fromKnakkTerm(kt.Obj)
	if err != nil {
		return rdf.Triple{}, err
	}
	return rdf.Triple{Subject: s, Predicate: p, Object: o}, nil
}

func fromKnakkTerm(term knakkrdf.Term) (rdf.Term, error) {
	switch v := term.(type) {
	case knakkrdf.IRI:
		return rdf.NewIri(v.String()), nil
	case knakkrdf.Blank:
		return rdf.NewBlankNode(v.String()), nil
	case knakkrdf.Literal:
		dt := ""
		if v.DataType != (knakkrdf.IRI{}) {
			dt = v.DataType.String()
		}
		return rdf.NewLiteral(v.Val, dt, v.Lang), nil
	default:
		return rdf.Term{}, fmt.Errorf("unsupported term kind %T", term)
	}
}

func toKnakkTriple(t rdf.Triple) (knakkrdf.Triple, error) {
	s, err := toKnakkTerm(t.Subject)
	if err != nil {
		return knakkrdf.Triple{}, err
	}
	p, err := toKnakkTerm(t.Predicate)
	if err != nil {
		return knakkrdf.Triple{}, err
	}
	o, err := toKnakkTerm(t.Object)
	if err != nil {
		return knakkrdf.Triple{}, err
	}
	return knakkrdf.Triple{Subj: s, Pred: p, Obj: o}, nil
}

func toKnakkTerm(term rdf.Term) (knakkrdf.Term, error) {
	switch {
	case term.IsIri():
		return knakkrdf.NewIRI(term.Value())
	case term.IsBlankNode():
		return knakkrdf.NewBlank(term.Value())
	case term.IsLiteral():
		if term.Language() != "" {
			return knakkrdf.NewLangLiteral(term.Value(), term.Language())
		}
		dt, err := knakkrdf.NewIRI(term.Datatype())
		if err != nil {
			return nil, err
		}
		return knakkrdf.NewTypedLiteral(term.Value(), dt)
	default:
		return nil, fmt.Errorf("unsupported term in output graph: %s", term.String())
	}
}
