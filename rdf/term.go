// Package rdf provides the tagged-variant RDF term model shared by every
// operator: IRIs, typed/language-tagged literals, and blank nodes, plus the
// Graph and Result aggregate types built from them.
package rdf

import (
	"fmt"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// Common XSD and RDF datatype IRIs used throughout the engine.
const (
	XSDString  = "http://www.w3.org/2001/XMLSchema#string"
	XSDInteger = "http://www.w3.org/2001/XMLSchema#integer"
	XSDDouble  = "http://www.w3.org/2001/XMLSchema#double"
	XSDBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
	RDFLangString = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
)

// Term is the tagged-variant RDF value: exactly one of Iri, Literal, or
// BlankNode is non-nil-shaped (Kind tells which). Term is an immutable
// value type; operators never mutate one after construction.
type Term struct {
	kind     termKind
	value    string // IRI absolute-uri, literal lexical form, or blank node id
	datatype string // literal datatype IRI; empty for Iri/BlankNode
	language string // literal BCP47 language tag; empty unless langString
}

type termKind uint8

const (
	kindIri termKind = iota
	kindLiteral
	kindBlankNode
)

// NewIri constructs an Iri term from an absolute URI string.
func NewIri(uri string) Term {
	return Term{kind: kindIri, value: uri}
}

// NewBlankNode constructs a BlankNode term scoped to whatever Graph or
// Result it appears in.
func NewBlankNode(id string) Term {
	return Term{kind: kindBlankNode, value: id}
}

// NewLiteral constructs a Literal term. A language tag forces datatype to
// rdf:langString per the invariant in spec.md §3; an empty datatype with no
// language defaults to xsd:string. The lexical form is normalized to NFC,
// matching SPARQL's string-literal comparison semantics.
func NewLiteral(lexical, datatype, language string) Term {
	lexical = norm.NFC.String(lexical)
	if language != "" {
		return Term{kind: kindLiteral, value: lexical, datatype: RDFLangString, language: language}
	}
	if datatype == "" {
		datatype = XSDString
	}
	return Term{kind: kindLiteral, value: lexical, datatype: datatype}
}

// NewStringLiteral is a convenience constructor for a plain xsd:string.
func NewStringLiteral(s string) Term {
	return NewLiteral(s, XSDString, "")
}

// NewIntegerLiteral constructs an xsd:integer literal.
func NewIntegerLiteral(i int64) Term {
	return NewLiteral(strconv.FormatInt(i, 10), XSDInteger, "")
}

// NewDoubleLiteral constructs an xsd:double literal.
func NewDoubleLiteral(f float64) Term {
	return NewLiteral(strconv.FormatFloat(f, 'g', -1, 64), XSDDouble, "")
}

// NewBooleanLiteral constructs an xsd:boolean literal.
func NewBooleanLiteral(b bool) Term {
	return NewLiteral(strconv.FormatBool(b), XSDBoolean, "")
}

// IsIri reports whether the term is an Iri.
func (t Term) IsIri() bool { return t.kind == kindIri }

// IsLiteral reports whether the term is a Literal.
func (t Term) IsLiteral() bool { return t.kind == kindLiteral }

// IsBlankNode reports whether the term is a BlankNode.
func (t Term) IsBlankNode() bool { return t.kind == kindBlankNode }

// Value returns the Iri's absolute URI, the Literal's lexical form, or the
// BlankNode's id, depending on Kind.
func (t Term) Value() string { return t.value }

// Datatype returns the Literal's datatype IRI. Empty for non-literals.
func (t Term) Datatype() string { return t.datatype }

// Language returns the Literal's BCP47 language tag, or "" if untagged.
func (t Term) Language() string { return t.language }

// IsStringCompatible reports whether the term is a Literal that Str()
// would return unchanged: xsd:string, any language-tagged literal, or a
// literal with an empty datatype (NewLiteral never builds this last
// case, since it defaults an empty datatype to xsd:string).
func (t Term) IsStringCompatible() bool {
	if t.kind != kindLiteral {
		return false
	}
	if t.language != "" {
		return true
	}
	return t.datatype == XSDString || t.datatype == ""
}

// String renders the term in a human-readable (non-SPARQL) form, used for
// log messages and error text.
func (t Term) String() string {
	switch t.kind {
	case kindIri:
		return fmt.Sprintf("<%s>", t.value)
	case kindBlankNode:
		return fmt.Sprintf("_:%s", t.value)
	case kindLiteral:
		if t.language != "" {
			return fmt.Sprintf("%q@%s", t.value, t.language)
		}
		if t.datatype != "" && t.datatype != XSDString {
			return fmt.Sprintf("%q^^<%s>", t.value, t.datatype)
		}
		return fmt.Sprintf("%q", t.value)
	default:
		return "<invalid-term>"
	}
}

// Equal reports whether two terms are the same kind and value/datatype/lang.
func (t Term) Equal(other Term) bool {
	return t.kind == other.kind && t.value == other.value &&
		t.datatype == other.datatype && t.language == other.language
}

// TypeName names the term's variant for use in TypeError messages.
func (t Term) TypeName() string {
	switch t.kind {
	case kindIri:
		return "Iri"
	case kindLiteral:
		return "Literal"
	case kindBlankNode:
		return "BlankNode"
	default:
		return "Unknown"
	}
}
