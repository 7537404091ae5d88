package httpclient_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web-algebra/webalgebra/config"
	"github.com/web-algebra/webalgebra/httpclient"
)

// TestGetRetriesOn429HonoringRetryAfter exercises spec.md's HTTP 429
// retry scenario: the first two responses are 429 with a one-second
// Retry-After, the third succeeds, and the client transparently
// retries rather than surfacing an error.
func TestGetRetriesOn429HonoringRetryAfter(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&attempts, 1)
		if n < 3 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client, err := httpclient.NewLinkedDataClient(&config.Settings{HTTPTimeout: 10 * time.Second})
	require.NoError(t, err)

	resp, err := client.Get(t.Context(), server.URL, "")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestGetSurfacesNon429ErrorsWithoutRetry(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := httpclient.NewLinkedDataClient(&config.Settings{HTTPTimeout: 10 * time.Second})
	require.NoError(t, err)

	_, err = client.Get(t.Context(), server.URL, "")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}
