package composite_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web-algebra/webalgebra/composite"
	"github.com/web-algebra/webalgebra/config"
)

func testSettings() *config.Settings {
	return &config.Settings{InsecureSkipVerify: true, HTTPTimeout: 5 * time.Second}
}

func TestContainerPUTsExpectedURLAndType(t *testing.T) {
	var gotMethod, gotURL, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotURL = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		_, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	result, err := composite.Container(t.Context(), testSettings(), srv.URL, "My Blog", "my-blog", "a blog")
	require.NoError(t, err)
	require.Len(t, result.Bindings, 1)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/my-blog/", gotURL)
	assert.Equal(t, "application/n-triples", gotContentType)
	assert.Equal(t, "201", result.Bindings[0]["status"].Value())
}

func TestContainerFallsBackToTitleWhenSlugEmpty(t *testing.T) {
	var gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.EscapedPath()
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	_, err := composite.Container(t.Context(), testSettings(), srv.URL, "My Blog", "", "")
	require.NoError(t, err)
	assert.Equal(t, "/My%20Blog/", gotURL)
}

func TestItemPUTsUnderContainer(t *testing.T) {
	var gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.EscapedPath()
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	_, err := composite.Item(t.Context(), testSettings(), srv.URL+"/blog/", "First Post", "")
	require.NoError(t, err)
	assert.Equal(t, "/blog/First%20Post/", gotURL)
}

func TestBatchPatchPostsUpdate(t *testing.T) {
	var gotMethod string
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	result, err := composite.BatchPatch(t.Context(), testSettings(), srv.URL, "DELETE WHERE { ?s ?p ?o }")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Contains(t, gotBody, "update=")
	assert.Equal(t, "204", result.Bindings[0]["status"].Value())
}

func TestPackageUploadsOnlyMatchingFiles(t *testing.T) {
	var uploaded []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uploaded = append(uploaded, strings.TrimPrefix(r.URL.Path, "/"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	files := []composite.PackageFile{
		{Name: "ns.nt", Content: []byte("<a> <b> <c> ."), ContentType: "application/n-triples"},
		{Name: "layout.xsl", Content: []byte("<xsl/>"), ContentType: "text/xsl"},
	}
	result, err := composite.Package(t.Context(), testSettings(), srv.URL, files, []string{"*.nt"})
	require.NoError(t, err)
	require.Len(t, result.Bindings, 1)
	assert.Equal(t, []string{"ns.nt"}, uploaded)
}

func TestPackageErrorsWhenNoFileMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should be sent when nothing matches")
	}))
	defer srv.Close()

	files := []composite.PackageFile{{Name: "ns.nt", Content: []byte("x")}}
	_, err := composite.Package(t.Context(), testSettings(), srv.URL, files, []string{"*.xsl"})
	require.Error(t, err)
}

func TestExtractDatatypePropertiesParsesConstructResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/n-triples")
		_, _ = w.Write([]byte(`<http://ex.org/name> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/2002/07/owl#DatatypeProperty> .` + "\n"))
	}))
	defer srv.Close()

	graph, err := composite.ExtractDatatypeProperties(t.Context(), testSettings(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 1, graph.Len())
}
