package httpclient

import (
	"io"
	"net/http"

	"github.com/web-algebra/webalgebra/walerr"
)

// httpResponseBody is the fully-drained result of an HTTP round trip:
// status code, effective URL after redirects, content type, and body
// bytes. Operators decode Body per ContentType (Linked Data GET) or
// build a {status, url} Result directly (POST/PUT/PATCH/Update), per
// spec.md §4.6-§4.7.
type httpResponseBody struct {
	StatusCode  int
	URL         string
	ContentType string
	Body        []byte
}

func readAndClose(resp *http.Response) (*httpResponseBody, error) {
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, walerr.Network("httpclient.readAndClose", err)
	}
	url := ""
	if resp.Request != nil && resp.Request.URL != nil {
		url = resp.Request.URL.String()
	}
	return &httpResponseBody{
		StatusCode:  resp.StatusCode,
		URL:         url,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        b,
	}, nil
}
