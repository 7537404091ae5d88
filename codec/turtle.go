package codec

import (
	"io"

	knakkrdf "github.com/knakk/rdf"

	"github.com/web-algebra/webalgebra/rdf"
)

// DecodeTurtle parses a Turtle document into a Graph (spec.md §6:
// Turtle is "accepted on GET" and is content-negotiated via
// text/turtle).
func DecodeTurtle(r io.Reader) (*rdf.Graph, error) {
	return decodeTriples(r, knakkrdf.Turtle, "codec.DecodeTurtle")
}
