package rdf

import "sort"

// Triple is a single RDF statement: Subject is Iri or BlankNode, Predicate
// is always Iri, Object is Iri, Literal, or BlankNode.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// key returns a value usable as a map key for set-membership.
func (t Triple) key() Triple { return t }

// Graph is an unordered set of triples. The zero value is an empty,
// usable graph. Graph is owned by value: combination operations (Merge)
// deep-copy rather than alias.
type Graph struct {
	triples map[Triple]struct{}
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{triples: make(map[Triple]struct{})}
}

// Add inserts a triple into the graph. Duplicate triples are no-ops
// (Graph is a set).
func (g *Graph) Add(t Triple) {
	if g.triples == nil {
		g.triples = make(map[Triple]struct{})
	}
	g.triples[t.key()] = struct{}{}
}

// Len returns the number of distinct triples in the graph.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.triples)
}

// Triples returns the graph's triples in a deterministic (sorted) order.
// The order is not semantically meaningful (Graph is unordered); sorting
// only makes output and test assertions reproducible.
func (g *Graph) Triples() []Triple {
	if g == nil {
		return nil
	}
	out := make([]Triple, 0, len(g.triples))
	for t := range g.triples {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return tripleLess(out[i], out[j])
	})
	return out
}

func tripleLess(a, b Triple) bool {
	if a.Subject.value != b.Subject.value {
		return a.Subject.value < b.Subject.value
	}
	if a.Predicate.value != b.Predicate.value {
		return a.Predicate.value < b.Predicate.value
	}
	return a.Object.value < b.Object.value
}

// Contains reports whether the graph contains exactly this triple.
func (g *Graph) Contains(t Triple) bool {
	if g == nil {
		return false
	}
	_, ok := g.triples[t.key()]
	return ok
}

// Merge returns the set union of triples(g1) ∪ triples(g2) ∪ ... as a new
// Graph. Blank nodes are NOT renamed across input graphs: a blank node id
// "b0" appearing in two input graphs is treated as the same node in the
// result. Callers that need rename-safe union must relabel blank nodes
// themselves before calling Merge (spec.md §4.5, §9 Open Questions).
func Merge(graphs ...*Graph) *Graph {
	out := NewGraph()
	for _, g := range graphs {
		if g == nil {
			continue
		}
		for t := range g.triples {
			out.Add(t)
		}
	}
	return out
}
