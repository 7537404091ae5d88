package builtin

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/web-algebra/webalgebra/dsl"
	"github.com/web-algebra/webalgebra/rdf"
	"github.com/web-algebra/webalgebra/walerr"
)

// strOp implements Str{input} (spec.md §4.5).
type strOp struct{ context dsl.Value }

func newStr(_ dsl.Settings, ctx dsl.Value) dsl.Operator { return &strOp{context: ctx} }

func (o *strOp) Metadata() dsl.Metadata {
	return dsl.Metadata{Name: "Str", Description: "Coerces a Term to an xsd:string literal (string-compatible inputs pass through unchanged)."}
}

func (o *strOp) ExecuteJSON(ctx context.Context, args dsl.Args) (dsl.Value, error) {
	v, err := args.Require(ctx, "Str", "input")
	if err != nil {
		return nil, err
	}
	t, err := asTerm("Str", "input", v)
	if err != nil {
		return nil, err
	}
	if t.IsStringCompatible() {
		return t, nil
	}
	return rdf.NewStringLiteral(t.Value()), nil
}

// uriOp implements Uri{input} (spec.md §4.5), equivalent to SPARQL URI().
type uriOp struct{ context dsl.Value }

func newUri(_ dsl.Settings, ctx dsl.Value) dsl.Operator { return &uriOp{context: ctx} }

func (o *uriOp) Metadata() dsl.Metadata {
	return dsl.Metadata{Name: "Uri", Description: "Returns Iri(str(input))."}
}

func (o *uriOp) ExecuteJSON(ctx context.Context, args dsl.Args) (dsl.Value, error) {
	v, err := args.Require(ctx, "Uri", "input")
	if err != nil {
		return nil, err
	}
	t, err := asTerm("Uri", "input", v)
	if err != nil {
		return nil, err
	}
	return rdf.NewIri(t.Value()), nil
}

// concatOp implements Concat{inputs: list} (spec.md §4.5).
type concatOp struct{ context dsl.Value }

func newConcat(_ dsl.Settings, ctx dsl.Value) dsl.Operator { return &concatOp{context: ctx} }

func (o *concatOp) Metadata() dsl.Metadata {
	return dsl.Metadata{Name: "Concat", Description: "Concatenates string-compatible literals into one xsd:string."}
}

func (o *concatOp) ExecuteJSON(ctx context.Context, args dsl.Args) (dsl.Value, error) {
	v, err := args.Require(ctx, "Concat", "inputs")
	if err != nil {
		return nil, err
	}
	list, ok := v.([]dsl.Value)
	if !ok {
		return nil, walerr.Type("Concat", "inputs", fmt.Errorf("expected a list, got %T", v))
	}
	var b strings.Builder
	for i, item := range list {
		t, err := asStringCompatible("Concat", fmt.Sprintf("inputs[%d]", i), item)
		if err != nil {
			return nil, err
		}
		b.WriteString(t.Value())
	}
	return rdf.NewStringLiteral(b.String()), nil
}

// encodeForURIOp implements EncodeForURI{input}: XPath encode-for-uri,
// which percent-encodes every character outside [A-Za-z0-9._~-] (no
// safe characters beyond the unreserved set).
type encodeForURIOp struct{ context dsl.Value }

func newEncodeForURI(_ dsl.Settings, ctx dsl.Value) dsl.Operator { return &encodeForURIOp{context: ctx} }

func (o *encodeForURIOp) Metadata() dsl.Metadata {
	return dsl.Metadata{Name: "EncodeForURI", Description: "Percent-encodes input per XPath encode-for-uri."}
}

func (o *encodeForURIOp) ExecuteJSON(ctx context.Context, args dsl.Args) (dsl.Value, error) {
	v, err := args.Require(ctx, "EncodeForURI", "input")
	if err != nil {
		return nil, err
	}
	t, err := asStringCompatible("EncodeForURI", "input", v)
	if err != nil {
		return nil, err
	}
	return rdf.NewStringLiteral(encodeForURI(t.Value())), nil
}

func encodeForURI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.' || c == '~':
		return true
	default:
		return false
	}
}

// replaceOp implements Replace{input, pattern, replacement} (spec.md
// §4.5): regex replace over string-compatible literals.
type replaceOp struct{ context dsl.Value }

func newReplace(_ dsl.Settings, ctx dsl.Value) dsl.Operator { return &replaceOp{context: ctx} }

func (o *replaceOp) Metadata() dsl.Metadata {
	return dsl.Metadata{Name: "Replace", Description: "Regex-replaces pattern with replacement in input."}
}

func (o *replaceOp) ExecuteJSON(ctx context.Context, args dsl.Args) (dsl.Value, error) {
	inputV, err := args.Require(ctx, "Replace", "input")
	if err != nil {
		return nil, err
	}
	input, err := asStringCompatible("Replace", "input", inputV)
	if err != nil {
		return nil, err
	}
	patternV, err := args.Require(ctx, "Replace", "pattern")
	if err != nil {
		return nil, err
	}
	pattern, err := asStringCompatible("Replace", "pattern", patternV)
	if err != nil {
		return nil, err
	}
	replacementV, err := args.Require(ctx, "Replace", "replacement")
	if err != nil {
		return nil, err
	}
	replacement, err := asStringCompatible("Replace", "replacement", replacementV)
	if err != nil {
		return nil, err
	}

	re, err := regexp.Compile(pattern.Value())
	if err != nil {
		return nil, walerr.Type("Replace", "pattern", err)
	}
	return rdf.NewStringLiteral(re.ReplaceAllString(input.Value(), xsdToGoReplacement(replacement.Value()))), nil
}

// xsdToGoReplacement rewrites XPath-style $1 backreferences to Go's
// regexp replacement syntax ($1 is already compatible; this exists so
// literal `$` characters the caller did not intend as a backreference
// are not silently misparsed by regexp.ReplaceAllString's own $-escaping).
func xsdToGoReplacement(s string) string {
	return strings.ReplaceAll(s, "$$", "$$$$")
}

// struuidOp implements STRUUID{} (spec.md §4.5): a fresh xsd:string
// UUIDv4 literal each call.
type struuidOp struct{ context dsl.Value }

func newSTRUUID(_ dsl.Settings, ctx dsl.Value) dsl.Operator { return &struuidOp{context: ctx} }

func (o *struuidOp) Metadata() dsl.Metadata {
	return noArgsMetadata("STRUUID", "Returns a fresh random UUIDv4 as an xsd:string literal.")
}

func (o *struuidOp) ExecuteJSON(_ context.Context, _ dsl.Args) (dsl.Value, error) {
	return rdf.NewStringLiteral(uuid.NewString()), nil
}

// resolveURIOp implements ResolveURI{base, relative} (spec.md §4.5):
// RFC 3986 reference resolution.
type resolveURIOp struct{ context dsl.Value }

func newResolveURI(_ dsl.Settings, ctx dsl.Value) dsl.Operator { return &resolveURIOp{context: ctx} }

func (o *resolveURIOp) Metadata() dsl.Metadata {
	return dsl.Metadata{Name: "ResolveURI", Description: "Resolves relative against base per RFC 3986."}
}

func (o *resolveURIOp) ExecuteJSON(ctx context.Context, args dsl.Args) (dsl.Value, error) {
	baseV, err := args.Require(ctx, "ResolveURI", "base")
	if err != nil {
		return nil, err
	}
	baseT, err := asTerm("ResolveURI", "base", baseV)
	if err != nil {
		return nil, err
	}
	if !baseT.IsIri() {
		return nil, walerr.Type("ResolveURI", "base", fmt.Errorf("base must be an Iri"))
	}
	relV, err := args.Require(ctx, "ResolveURI", "relative")
	if err != nil {
		return nil, err
	}
	relT, err := asStringCompatible("ResolveURI", "relative", relV)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(baseT.Value())
	if err != nil {
		return nil, walerr.Type("ResolveURI", "base", err)
	}
	rel, err := url.Parse(relT.Value())
	if err != nil {
		return nil, walerr.Type("ResolveURI", "relative", err)
	}
	return rdf.NewIri(base.ResolveReference(rel).String()), nil
}

// mergeOp implements Merge{graphs: list<Graph>} (spec.md §4.5): set
// union, blank nodes not renamed.
type mergeOp struct{ context dsl.Value }

func newMerge(_ dsl.Settings, ctx dsl.Value) dsl.Operator { return &mergeOp{context: ctx} }

func (o *mergeOp) Metadata() dsl.Metadata {
	return dsl.Metadata{Name: "Merge", Description: "Set-unions a list of Graphs. Blank nodes are not renamed."}
}

func (o *mergeOp) ExecuteJSON(ctx context.Context, args dsl.Args) (dsl.Value, error) {
	v, err := args.Require(ctx, "Merge", "graphs")
	if err != nil {
		return nil, err
	}
	list, ok := v.([]dsl.Value)
	if !ok {
		return nil, walerr.Type("Merge", "graphs", fmt.Errorf("expected a list, got %T", v))
	}
	graphs := make([]*rdf.Graph, len(list))
	for i, item := range list {
		g, err := asGraph("Merge", fmt.Sprintf("graphs[%d]", i), item)
		if err != nil {
			return nil, err
		}
		graphs[i] = g
	}
	return rdf.Merge(graphs...), nil
}
