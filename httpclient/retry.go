package httpclient

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/web-algebra/webalgebra/log"
	"github.com/web-algebra/webalgebra/walerr"
)

// maxBackoff is the retry ceiling named in spec.md §4.6/§5: "exponential
// backoff capped at 60s".
const maxBackoff = 60 * time.Second

// maxAttempts bounds the 429 retry loop (spec.md §5: "a max attempt
// count (≥5)").
const maxAttempts = 6

// doWithRetry performs a request built by newRequest, retrying on HTTP
// 429 with exponential backoff honoring Retry-After (seconds or
// HTTP-date) when present, capped at maxBackoff, up to maxAttempts total
// attempts. Any other status or transport error is returned immediately
// without retry (spec.md §4.8: "The HTTP layer recovers only 429 via
// retry; all other errors bubble").
func doWithRetry(ctx context.Context, client *http.Client, op string, newRequest func() (*http.Request, error)) (*http.Response, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	policy.MaxInterval = maxBackoff
	policy.Multiplier = 2

	for attempt := 1; ; attempt++ {
		req, err := newRequest()
		if err != nil {
			return nil, walerr.Network(op, err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, walerr.Network(op, err)
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		if attempt >= maxAttempts {
			drain(resp)
			return nil, walerr.Remote(op, tooManyRetriesError{attempts: attempt})
		}

		wait, ok := retryAfter(resp)
		if !ok {
			d, backoffErr := policy.NextBackOff()
			if backoffErr != nil {
				drain(resp)
				return nil, walerr.Remote(op, backoffErr)
			}
			wait = d
		}
		if wait > maxBackoff {
			wait = maxBackoff
		}
		drain(resp)

		log.Infof("%s: 429 received, attempt %d/%d, retrying in %s", op, attempt, maxAttempts, wait)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, walerr.Network(op, ctx.Err())
		case <-timer.C:
		}
	}
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body) //nolint:errcheck
	resp.Body.Close()
}

// retryAfter parses the Retry-After header: either an integer number of
// seconds or an HTTP-date (spec.md §4.6, §6). A zero value or a date in
// the past means "retry now". ok is false when the header is absent or
// unparseable, signalling the caller should fall back to the
// exponential policy.
func retryAfter(resp *http.Response) (time.Duration, bool) {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(h); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d, true
		}
		return 0, true
	}
	return 0, false
}

type tooManyRetriesError struct{ attempts int }

func (e tooManyRetriesError) Error() string {
	return "exceeded maximum retry attempts for HTTP 429"
}
