package rdf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web-algebra/webalgebra/rdf"
)

func TestNewLiteralDefaultsToXSDString(t *testing.T) {
	term := rdf.NewLiteral("foo", "", "")
	assert.Equal(t, rdf.XSDString, term.Datatype())
	assert.True(t, term.IsLiteral())
	assert.True(t, term.IsStringCompatible())
}

func TestNewLiteralLanguageForcesRDFLangString(t *testing.T) {
	term := rdf.NewLiteral("bonjour", rdf.XSDString, "fr")
	assert.Equal(t, rdf.RDFLangString, term.Datatype())
	assert.Equal(t, "fr", term.Language())
	assert.True(t, term.IsStringCompatible())
}

func TestNewLiteralNormalizesToNFC(t *testing.T) {
	// "e" + combining acute accent (NFD, two runes) normalizes to the
	// precomposed single-rune form (NFC).
	decomposed := "e\u0301"
	term := rdf.NewLiteral(decomposed, "", "")
	assert.Equal(t, "\u00e9", term.Value())
}

func TestTermEqualAndString(t *testing.T) {
	a := rdf.NewIri("http://example.org/a")
	b := rdf.NewIri("http://example.org/a")
	c := rdf.NewIri("http://example.org/b")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.Equal(t, "<http://example.org/a>", a.String())

	lit := rdf.NewIntegerLiteral(42)
	assert.Equal(t, `"42"^^<http://www.w3.org/2001/XMLSchema#integer>`, lit.String())

	bnode := rdf.NewBlankNode("b0")
	assert.Equal(t, "_:b0", bnode.String())
	assert.Equal(t, "BlankNode", bnode.TypeName())
}

func TestFromJSONScalars(t *testing.T) {
	s, err := rdf.FromJSON("hi")
	require.NoError(t, err)
	assert.Equal(t, rdf.XSDString, s.Datatype())

	i, err := rdf.FromJSON(7)
	require.NoError(t, err)
	assert.Equal(t, rdf.XSDInteger, i.Datatype())
	assert.Equal(t, "7", i.Value())

	f, err := rdf.FromJSON(1.5)
	require.NoError(t, err)
	assert.Equal(t, rdf.XSDDouble, f.Datatype())

	b, err := rdf.FromJSON(true)
	require.NoError(t, err)
	assert.Equal(t, rdf.XSDBoolean, b.Datatype())
	assert.Equal(t, "true", b.Value())

	_, err = rdf.FromJSON(nil)
	assert.Error(t, err)
}

func TestFromJSONBindingObjects(t *testing.T) {
	uri, err := rdf.FromJSON(map[string]any{"type": "uri", "value": "http://example.org/x"})
	require.NoError(t, err)
	assert.True(t, uri.IsIri())

	bnode, err := rdf.FromJSON(map[string]any{"type": "bnode", "value": "b1"})
	require.NoError(t, err)
	assert.True(t, bnode.IsBlankNode())

	lit, err := rdf.FromJSON(map[string]any{
		"type": "literal", "value": "3", "datatype": rdf.XSDInteger,
	})
	require.NoError(t, err)
	assert.Equal(t, rdf.XSDInteger, lit.Datatype())

	langLit, err := rdf.FromJSON(map[string]any{
		"type": "literal", "value": "bonjour", "xml:lang": "fr",
	})
	require.NoError(t, err)
	assert.Equal(t, "fr", langLit.Language())

	_, err = rdf.FromJSON(map[string]any{"type": "uri"})
	assert.Error(t, err)

	_, err = rdf.FromJSON(map[string]any{"type": "weird", "value": "x"})
	assert.Error(t, err)
}

func TestToJSONRoundTrip(t *testing.T) {
	iri := rdf.NewIri("http://example.org/x")
	assert.Equal(t, map[string]any{"type": "uri", "value": "http://example.org/x"}, rdf.ToJSON(iri))

	bnode := rdf.NewBlankNode("b0")
	assert.Equal(t, map[string]any{"type": "bnode", "value": "b0"}, rdf.ToJSON(bnode))

	typed := rdf.NewIntegerLiteral(5)
	assert.Equal(t, map[string]any{
		"type": "literal", "value": "5", "datatype": rdf.XSDInteger,
	}, rdf.ToJSON(typed))

	lang := rdf.NewLiteral("bonjour", "", "fr")
	assert.Equal(t, map[string]any{
		"type": "literal", "value": "bonjour", "xml:lang": "fr",
	}, rdf.ToJSON(lang))
}

func TestGraphAddLenContainsAndSortedTriples(t *testing.T) {
	g := rdf.NewGraph()
	assert.Equal(t, 0, g.Len())

	t1 := rdf.Triple{Subject: rdf.NewIri("http://ex/b"), Predicate: rdf.NewIri("http://ex/p"), Object: rdf.NewStringLiteral("v")}
	t2 := rdf.Triple{Subject: rdf.NewIri("http://ex/a"), Predicate: rdf.NewIri("http://ex/p"), Object: rdf.NewStringLiteral("v")}

	g.Add(t1)
	g.Add(t1) // duplicate, set semantics
	g.Add(t2)

	assert.Equal(t, 2, g.Len())
	assert.True(t, g.Contains(t1))
	assert.True(t, g.Contains(t2))

	sorted := g.Triples()
	require.Len(t, sorted, 2)
	assert.Equal(t, "http://ex/a", sorted[0].Subject.Value())
	assert.Equal(t, "http://ex/b", sorted[1].Subject.Value())
}

func TestMergeUnionsWithoutRenamingBlankNodes(t *testing.T) {
	g1 := rdf.NewGraph()
	g1.Add(rdf.Triple{Subject: rdf.NewBlankNode("b0"), Predicate: rdf.NewIri("http://ex/p"), Object: rdf.NewStringLiteral("1")})
	g2 := rdf.NewGraph()
	g2.Add(rdf.Triple{Subject: rdf.NewBlankNode("b0"), Predicate: rdf.NewIri("http://ex/p"), Object: rdf.NewStringLiteral("2")})

	merged := rdf.Merge(g1, g2)
	assert.Equal(t, 2, merged.Len())
	assert.True(t, merged.Contains(rdf.Triple{Subject: rdf.NewBlankNode("b0"), Predicate: rdf.NewIri("http://ex/p"), Object: rdf.NewStringLiteral("1")}))
}

func TestResultLenAndRowGet(t *testing.T) {
	row := rdf.Row{"s": rdf.NewIri("http://ex/s")}
	v, ok := row.Get("s")
	require.True(t, ok)
	assert.Equal(t, "http://ex/s", v.Value())

	_, ok = row.Get("missing")
	assert.False(t, ok)

	result := rdf.NewResult([]string{"s"}, []rdf.Row{row})
	assert.Equal(t, 1, result.Len())

	var nilResult *rdf.Result
	assert.Equal(t, 0, nilResult.Len())
}
