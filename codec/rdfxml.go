package codec

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/web-algebra/webalgebra/rdf"
	"github.com/web-algebra/webalgebra/walerr"
)

// rdfNS and related well-known RDF/XML element/attribute names.
const (
	rdfNS        = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	rdfRDF       = "RDF"
	rdfDescr     = "Description"
	attrAbout    = "about"
	attrResource = "resource"
	attrNodeID   = "nodeID"
	attrDatatype = "datatype"
	attrLang     = "lang" // xml:lang, matched by Local=="lang"
)

// DecodeRDFXML parses a (non-striped, basic) RDF/XML document into a
// Graph. It supports the common `rdf:Description`-per-resource shape
// with `rdf:about`/`rdf:nodeID` subjects and literal or rdf:resource
// objects — the subset the source's fixtures and most Linked Data
// servers emit. Typed-node shorthand (`<foaf:Person rdf:about=.../>`)
// and RDF/XML's full striping/collection grammar are out of scope: no
// corpus library implements RDF/XML (DESIGN.md), so this pragmatic
// decoder trades completeness for a dependency-free implementation of
// the common case.
func DecodeRDFXML(r io.Reader) (*rdf.Graph, error) {
	const op = "codec.DecodeRDFXML"
	dec := xml.NewDecoder(r)
	g := rdf.NewGraph()

	var subject rdf.Term
	haveSubject := false
	blankCounter := 0

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, walerr.Codec(op, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Space == rdfNS && (start.Name.Local == rdfRDF) {
			continue
		}

		isResourceElement := start.Name.Space == rdfNS && start.Name.Local == rdfDescr
		if isResourceElement || !haveSubject {
			subject, blankCounter = subjectFromAttrs(start.Attr, &blankCounter)
			haveSubject = true
			if isResourceElement {
				if err := decodeProperties(dec, subject, start, g, &blankCounter); err != nil {
					return nil, walerr.Codec(op, err)
				}
			}
			continue
		}
	}
	return g, nil
}

func subjectFromAttrs(attrs []xml.Attr, blankCounter *int) (rdf.Term, int) {
	for _, a := range attrs {
		switch {
		case a.Name.Space == rdfNS && a.Name.Local == attrAbout:
			return rdf.NewIri(a.Value), *blankCounter
		case a.Name.Space == rdfNS && a.Name.Local == attrNodeID:
			return rdf.NewBlankNode(a.Value), *blankCounter
		}
	}
	*blankCounter++
	return rdf.NewBlankNode(fmt.Sprintf("b%d", *blankCounter)), *blankCounter
}

// decodeProperties reads child elements of an rdf:Description element
// as predicate-object pairs until the matching end element, emitting a
// triple per property. Typed-node elements are not passed to it.
func decodeProperties(dec *xml.Decoder, subject rdf.Term, owner xml.StartElement, g *rdf.Graph, blankCounter *int) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			predicate := rdf.NewIri(el.Name.Space + el.Name.Local)
			obj, _, err := decodePropertyValue(dec, el, blankCounter)
			if err != nil {
				return err
			}
			g.Add(rdf.Triple{Subject: subject, Predicate: predicate, Object: obj})
		case xml.EndElement:
			if el.Name == owner.Name {
				return nil
			}
		}
	}
}

// decodePropertyValue reads one property element's value: an
// rdf:resource/rdf:nodeID reference (empty element, consumedAsResource
// true since there is no matching EndElement token pending), or a
// literal text value up to the EndElement.
func decodePropertyValue(dec *xml.Decoder, el xml.StartElement, blankCounter *int) (rdf.Term, bool, error) {
	for _, a := range el.Attr {
		if a.Name.Space == rdfNS && a.Name.Local == attrResource {
			drainToEnd(dec, el.Name)
			return rdf.NewIri(a.Value), true, nil
		}
		if a.Name.Space == rdfNS && a.Name.Local == attrNodeID {
			drainToEnd(dec, el.Name)
			return rdf.NewBlankNode(a.Value), true, nil
		}
	}

	datatype := ""
	lang := ""
	for _, a := range el.Attr {
		if a.Name.Space == rdfNS && a.Name.Local == attrDatatype {
			datatype = a.Value
		}
		if a.Name.Local == attrLang {
			lang = a.Value
		}
	}

	var text string
	for {
		tok, err := dec.Token()
		if err != nil {
			return rdf.Term{}, false, err
		}
		switch t := tok.(type) {
		case xml.CharData:
			text += string(t)
		case xml.EndElement:
			if t.Name == el.Name {
				return rdf.NewLiteral(text, datatype, lang), false, nil
			}
		}
	}
}

// drainToEnd consumes tokens up to (and including) the EndElement
// matching name, for property elements that used an attribute-only
// resource reference (no text/child content expected).
func drainToEnd(dec *xml.Decoder, name xml.Name) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		if end, ok := tok.(xml.EndElement); ok && end.Name == name {
			return
		}
	}
}
