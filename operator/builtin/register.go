package builtin

import "github.com/web-algebra/webalgebra/dsl"

// init self-registers every builtin operator with dsl.DefaultRegistry,
// the way the teacher's tool packages register themselves with
// tool.DefaultRegistry from their own init functions.
func init() {
	register := func(name string, factory dsl.Factory, description string) {
		dsl.MustRegister(name, factory, dsl.Metadata{Name: name, Description: description})
	}

	register("Variable", newVariable, "Binds the evaluated value to name in the current scope.")
	register("Value", newValue, "Looks up name in the variable stack or the current binding context.")
	register("Current", newCurrent, "Returns the current ForEach context item.")
	register("ForEach", newForEach, "Evaluates operation once per element of select.")
	register("Filter", newFilter, "Selects the item at a 1-based integer position in input.")
	register("Execute", newExecute, "Evaluates a raw operator node passed as data.")

	register("Substitute", newSubstitute, "Splices a Term's SPARQL syntax into query text.")

	register("Str", newStr, "Coerces a Term to an xsd:string literal.")
	register("Uri", newUri, "Returns Iri(str(input)).")
	register("Concat", newConcat, "Concatenates string-compatible literals.")
	register("EncodeForURI", newEncodeForURI, "Percent-encodes per XPath encode-for-uri.")
	register("Replace", newReplace, "Regex-replaces pattern with replacement in input.")
	register("STRUUID", newSTRUUID, "Returns a fresh random UUIDv4 xsd:string literal.")
	register("ResolveURI", newResolveURI, "Resolves relative against base per RFC 3986.")
	register("Merge", newMerge, "Set-unions a list of Graphs.")

	register("GET", newGET, "Fetches an RDF document and parses it per Content-Type.")
	register("POST", newPOST, "POSTs an N-Triples serialization of data to url.")
	register("PUT", newPUT, "PUTs an N-Triples serialization of data to url, replacing the resource.")
	register("PATCH", newPATCH, "Sends a SPARQL update body to url as application/sparql-update.")

	register("SELECT", newSELECT, "Runs a SPARQL SELECT/ASK query, returning a Result.")
	register("CONSTRUCT", newCONSTRUCT, "Runs a SPARQL CONSTRUCT query, returning a Graph.")
	register("DESCRIBE", newDESCRIBE, "Runs a SPARQL DESCRIBE query, returning a Graph.")
	register("Update", newUpdate, "Runs a SPARQL Update request against endpoint.")

	register("Bindings", newBindings, "Returns the binding rows of a Result as a list.")
	register("SPARQLString", newSPARQLString, "Translates a natural-language instruction into a SPARQL query string via an LLM call.")
}
