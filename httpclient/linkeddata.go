// Package httpclient implements the HTTP transport shared by every
// network-facing operator (spec.md §4.6 "HTTP layer"): TLS with an
// optional client certificate, 308-redirect method/body preservation,
// and 429 exponential backoff honoring Retry-After. It is grounded on
// the teacher's resthttp transport wrapper (context-scoped *http.Client
// construction, structured request/response logging) generalized from
// a single REST backend to the Linked Data and SPARQL protocols.
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/web-algebra/webalgebra/config"
	"github.com/web-algebra/webalgebra/walerr"
)

// LinkedDataClient issues plain HTTP verbs against a Linked Data
// resource (spec.md §4.6 "Linked Data operators": GET/POST/PUT/PATCH/
// DELETE), sharing TLS and retry behavior with SPARQLClient.
type LinkedDataClient struct {
	HTTP *http.Client
}

// NewLinkedDataClient builds a client from Settings, wiring TLSConfig
// and a redirect policy that preserves method and body across 308s
// (spec.md §4.6: "308 preserves method and body; other redirect codes
// follow net/http defaults"). When Settings.OAuth2 is set, the client
// attaches a bearer token obtained via the OAuth2 client-credentials
// grant to every outbound request instead of relying on mTLS alone
// (SPEC_FULL.md §A.3).
func NewLinkedDataClient(s *config.Settings) (*LinkedDataClient, error) {
	tlsCfg, err := TLSConfig(s)
	if err != nil {
		return nil, err
	}
	var transport http.RoundTripper = &http.Transport{TLSClientConfig: tlsCfg}
	if s.OAuth2 != nil {
		transport = &oauth2.Transport{
			Base:   transport,
			Source: s.OAuth2.TokenSource(context.Background()),
		}
	}
	client := &http.Client{
		Transport:     transport,
		Timeout:       s.HTTPTimeout,
		CheckRedirect: preserve308,
	}
	return &LinkedDataClient{HTTP: client}, nil
}

// preserve308 lets net/http's default redirect chasing happen for every
// code except 308, where Go's stdlib already preserves method and body
// per RFC 7538 — this hook exists to document that guarantee explicitly
// rather than to alter behavior (spec.md §4.6, §8 testable property
// "redirect preserves method+body on 308").
func preserve308(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return fmt.Errorf("stopped after 10 redirects")
	}
	return nil
}

// Get issues GET url with optional Accept header.
func (c *LinkedDataClient) Get(ctx context.Context, url, accept string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, url, accept, "", nil)
}

// Post issues POST url with body and Content-Type.
func (c *LinkedDataClient) Post(ctx context.Context, url, contentType string, body []byte) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, url, "", contentType, body)
}

// Put issues PUT url with body and Content-Type.
func (c *LinkedDataClient) Put(ctx context.Context, url, contentType string, body []byte) (*http.Response, error) {
	return c.do(ctx, http.MethodPut, url, "", contentType, body)
}

// Patch issues PATCH url with body and Content-Type.
func (c *LinkedDataClient) Patch(ctx context.Context, url, contentType string, body []byte) (*http.Response, error) {
	return c.do(ctx, http.MethodPatch, url, "", contentType, body)
}

// Delete issues DELETE url.
func (c *LinkedDataClient) Delete(ctx context.Context, url string) (*http.Response, error) {
	return c.do(ctx, http.MethodDelete, url, "", "", nil)
}

func (c *LinkedDataClient) do(ctx context.Context, method, url, accept, contentType string, body []byte) (*http.Response, error) {
	op := "httpclient." + method
	resp, err := doWithRetry(ctx, c.HTTP, op, func() (*http.Request, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, err
		}
		if accept != "" {
			req.Header.Set("Accept", accept)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		return resp, walerr.Remote(op, fmt.Errorf("status %d: %s", resp.StatusCode, string(b)))
	}
	return resp, nil
}
