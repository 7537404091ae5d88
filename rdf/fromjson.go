package rdf

import (
	"fmt"

	"github.com/web-algebra/webalgebra/walerr"
)

// FromJSON converts a scalar JSON value (or a SPARQL-Results-JSON-shaped
// binding object) into a Term, per spec.md §4.2 rule 4 (json_to_rdflib):
//
//   - {"type": "uri"|"bnode"|"literal", "value": ..., datatype?, "xml:lang"?}
//     is read as the corresponding Term.
//   - a bare string becomes Literal(str, xsd:string).
//   - int/float/bool become the matching XSD-typed Literal.
//
// Terms, Graphs, and Results passed in are returned unchanged by the
// caller (engine.Evaluator) before ever reaching FromJSON; FromJSON only
// handles the raw-JSON scalar/binding-object cases.
func FromJSON(v any) (Term, error) {
	switch val := v.(type) {
	case map[string]any:
		return bindingFromJSON(val)
	case string:
		return NewStringLiteral(val), nil
	case int:
		return NewIntegerLiteral(int64(val)), nil
	case int64:
		return NewIntegerLiteral(val), nil
	case float64:
		return NewDoubleLiteral(val), nil
	case bool:
		return NewBooleanLiteral(val), nil
	case nil:
		return Term{}, walerr.Type("FromJSON", "", fmt.Errorf("cannot convert null to a Term"))
	default:
		return Term{}, walerr.Type("FromJSON", "", fmt.Errorf("cannot convert %T to a Term", v))
	}
}

func bindingFromJSON(m map[string]any) (Term, error) {
	rawType, hasType := m["type"]
	rawValue, hasValue := m["value"]
	if !hasType || !hasValue {
		return Term{}, walerr.Type("FromJSON", "", fmt.Errorf("binding object missing 'type' or 'value': %v", m))
	}
	typeStr, _ := rawType.(string)
	valueStr := fmt.Sprint(rawValue)

	switch typeStr {
	case "uri":
		return NewIri(valueStr), nil
	case "bnode":
		return NewBlankNode(valueStr), nil
	case "literal", "typed-literal":
		datatype := ""
		if dt, ok := m["datatype"]; ok {
			datatype = fmt.Sprint(dt)
		}
		lang := ""
		if l, ok := m["xml:lang"]; ok {
			lang = fmt.Sprint(l)
		}
		return NewLiteral(valueStr, datatype, lang), nil
	default:
		return Term{}, walerr.Type("FromJSON", "", fmt.Errorf("unknown binding type: %q", typeStr))
	}
}

// ToJSON renders a Term in SPARQL-Results-JSON binding shape, the inverse
// of FromJSON/bindingFromJSON. No codec in this module calls it; it is
// the serialization direction of the binding shape that FromJSON reads.
func ToJSON(t Term) map[string]any {
	switch {
	case t.IsIri():
		return map[string]any{"type": "uri", "value": t.Value()}
	case t.IsBlankNode():
		return map[string]any{"type": "bnode", "value": t.Value()}
	default:
		out := map[string]any{"type": "literal", "value": t.Value()}
		if t.Language() != "" {
			out["xml:lang"] = t.Language()
		} else if t.Datatype() != "" && t.Datatype() != XSDString {
			out["datatype"] = t.Datatype()
		}
		return out
	}
}
