package builtin

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/web-algebra/webalgebra/dsl"
	"github.com/web-algebra/webalgebra/rdf"
	"github.com/web-algebra/webalgebra/walerr"
)

// substituteOp implements Substitute{query, var, binding} (spec.md
// §4.4): safe textual splicing of an RDF term into SPARQL query text.
// Grounded on the source's regex-based parameter substitution (the
// distilled spec explicitly carries over its "not fully
// SPARQL-syntax-aware" caveat), generalized to Go's regexp package.
type substituteOp struct{ context dsl.Value }

func newSubstitute(_ dsl.Settings, ctx dsl.Value) dsl.Operator { return &substituteOp{context: ctx} }

func (o *substituteOp) Metadata() dsl.Metadata {
	return dsl.Metadata{
		Name:        "Substitute",
		Description: "Splices binding's canonical SPARQL syntax for every occurrence of var in query.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query":   map[string]any{"type": "string"},
				"var":     map[string]any{"type": "string"},
				"binding": map[string]any{},
			},
			"required": []string{"query", "var", "binding"},
		},
	}
}

func (o *substituteOp) ExecuteJSON(ctx context.Context, args dsl.Args) (dsl.Value, error) {
	queryV, err := args.Require(ctx, "Substitute", "query")
	if err != nil {
		return nil, err
	}
	queryTerm, err := asStringCompatible("Substitute", "query", queryV)
	if err != nil {
		return nil, err
	}

	varName, err := requireString("Substitute", "var", args)
	if err != nil {
		return nil, err
	}
	varName = strings.TrimPrefix(strings.TrimPrefix(varName, "?"), "$")

	bindingV, err := args.Require(ctx, "Substitute", "binding")
	if err != nil {
		return nil, err
	}
	binding, err := asTerm("Substitute", "binding", bindingV)
	if err != nil {
		return nil, err
	}

	replacement, err := SPARQLSyntax(binding)
	if err != nil {
		return nil, err
	}

	pattern, err := regexp.Compile(`[?$]` + regexp.QuoteMeta(varName) + `\b`)
	if err != nil {
		return nil, walerr.Program("Substitute", "var", err)
	}
	result := pattern.ReplaceAllLiteralString(queryTerm.Value(), replacement)
	return rdf.NewStringLiteral(result), nil
}

// SPARQLSyntax renders t in canonical SPARQL term syntax (spec.md
// §4.4): an IRI as `<escaped-absolute-uri>`, a literal as
// `"lexical"^^<datatype>` / `"lexical"@lang` / a plain `"lexical"`, and
// a blank node as `_:id`. Substitute uses it to render the replacement
// text.
func SPARQLSyntax(t rdf.Term) (string, error) {
	switch {
	case t.IsIri():
		return fmt.Sprintf("<%s>", escapeIRI(t.Value())), nil
	case t.IsBlankNode():
		return "_:" + t.Value(), nil
	case t.IsLiteral():
		lex := escapeLiteral(t.Value())
		if t.Language() != "" {
			return fmt.Sprintf(`"%s"@%s`, lex, t.Language()), nil
		}
		if t.Datatype() != "" && t.Datatype() != rdf.XSDString {
			return fmt.Sprintf(`"%s"^^<%s>`, lex, t.Datatype()), nil
		}
		return fmt.Sprintf(`"%s"`, lex), nil
	default:
		return "", walerr.Type("SPARQLSyntax", "", fmt.Errorf("term has no SPARQL syntax: %s", t.String()))
	}
}

func escapeIRI(s string) string {
	return strings.NewReplacer("<", "%3C", ">", "%3E").Replace(s)
}

func escapeLiteral(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)
	return r.Replace(s)
}
