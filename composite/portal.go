package composite

import (
	"context"
	"fmt"

	"github.com/web-algebra/webalgebra/codec"
	"github.com/web-algebra/webalgebra/config"
	"github.com/web-algebra/webalgebra/rdf"
)

// Portal generates a LinkedDataHub portal package from a SPARQL
// endpoint's ontology and installs it under parentContainer
// (generate_portal.py's GeneratePortal, condensed to the steps that
// carry new evaluation semantics: ExtractOntology -> package file
// upload -> root container creation; the template-rendering steps
// GenerateOntologyViews/GeneratePackageStylesheet/GenerateClassContainers
// stage local package files in the Python version and are out of
// scope for an HTTP-orchestration engine with no filesystem model).
func Portal(ctx context.Context, cfg *config.Settings, endpoint, packageName, filesContainer, parentContainer string) (*rdf.Result, error) {
	ontology, err := ExtractDatatypeProperties(ctx, cfg, endpoint)
	if err != nil {
		return nil, err
	}
	ontologyBody, err := codec.EncodeNTriples(ontology)
	if err != nil {
		return nil, err
	}

	files := []PackageFile{
		{Name: packageName + "-ns.nt", Content: ontologyBody, ContentType: "application/n-triples"},
	}
	uploaded, err := Package(ctx, cfg, filesContainer, files, []string{"*.nt"})
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Portal package %q (%d datatype property declaration(s), ontology file uploaded)",
		packageName, len(ontology.Triples()))
	if len(uploaded.Bindings) == 0 {
		description = fmt.Sprintf("Portal package %q (no package files uploaded)", packageName)
	}

	return Container(ctx, cfg, parentContainer, packageName, "", description)
}
