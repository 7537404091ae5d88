package composite

import (
	"context"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/web-algebra/webalgebra/config"
	"github.com/web-algebra/webalgebra/httpclient"
	"github.com/web-algebra/webalgebra/rdf"
	"github.com/web-algebra/webalgebra/walerr"
)

// maxConcurrentUploads bounds how many package files upload at once,
// so a large bundle doesn't open one outbound connection per file.
const maxConcurrentUploads = 8

// PackageFile is one file of a LinkedDataHub package bundle (the
// Python pipeline's ns.ttl/layout.xsl/package.ttl triad plus arbitrary
// includes, generated by GenerateOntologyViews/GeneratePackageStylesheet/
// GeneratePackageMetadata and staged under ./packages/<name>/ before
// upload — generate_portal.py steps 3-5).
type PackageFile struct {
	Name        string
	Content     []byte
	ContentType string
}

// Package uploads the PackageFile entries whose Name matches any of
// patterns (doublestar glob syntax, e.g. "*.ttl", "**/*.xsl") to
// filesContainer via concurrent POSTs, returning a {file, status, url}
// Result row per uploaded file (generate_portal.py's UploadFile calls,
// generalized from a fixed three-file list to a glob-filtered set so a
// Package can carry an arbitrary file manifest). Uploads run on an
// errgroup bounded by maxConcurrentUploads, grounded on the executor
// pattern of pre-allocating a results slice by index and filling it
// from g.Go closures rather than appending under a lock.
func Package(ctx context.Context, cfg *config.Settings, filesContainer string, files []PackageFile, patterns []string) (*rdf.Result, error) {
	const op = "composite.Package"
	client, err := httpclient.NewLinkedDataClient(cfg)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(filesContainer, "/") {
		filesContainer += "/"
	}

	var matched []PackageFile
	for _, f := range files {
		if matchesAny(patterns, f.Name) {
			matched = append(matched, f)
		}
	}
	if matched == nil {
		return nil, walerr.Program(op, "files", errNoMatch(patterns))
	}

	rows := make([]rdf.Row, len(matched))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentUploads)
	for i, f := range matched {
		i, f := i, f
		g.Go(func() error {
			target := filesContainer + f.Name
			resp, err := client.Post(gctx, target, f.ContentType, f.Content)
			if err != nil {
				return err
			}
			effectiveURL := target
			if resp.Request != nil && resp.Request.URL != nil {
				effectiveURL = resp.Request.URL.String()
			}
			status := resp.StatusCode
			resp.Body.Close()
			rows[i] = rdf.Row{
				"file":   rdf.NewStringLiteral(f.Name),
				"status": rdf.NewIntegerLiteral(int64(status)),
				"url":    rdf.NewIri(effectiveURL),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rdf.NewResult([]string{"file", "status", "url"}, rows), nil
}

func matchesAny(patterns []string, name string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

type errNoMatchT struct{ patterns []string }

func (e errNoMatchT) Error() string {
	return "no package file matched patterns " + strings.Join(e.patterns, ", ")
}

func errNoMatch(patterns []string) error { return errNoMatchT{patterns: patterns} }
