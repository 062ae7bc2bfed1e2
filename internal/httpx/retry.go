package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// Doer is the outbound call primitive. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to Doer.
type DoerFunc func(req *http.Request) (*http.Response, error)

func (f DoerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

var errTooManyRequests = errors.New("too many requests")

// RetryDoer repeats a request immediately while the upstream answers 429,
// up to MaxAttempts total attempts. Any other status, and transport errors,
// are returned as-is. When attempts run out the last 429 response is
// returned to the caller unread.
type RetryDoer struct {
	Next        Doer
	MaxAttempts int

	// OnRetry, if set, is called before each repeated attempt.
	OnRetry func(req *http.Request, attempt int)
}

// NewRetryDoer wraps next. maxAttempts below 1 is treated as 1.
func NewRetryDoer(next Doer, maxAttempts int, onRetry func(*http.Request, int)) *RetryDoer {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryDoer{Next: next, MaxAttempts: maxAttempts, OnRetry: onRetry}
}

func immediately() retry.Backoff {
	return retry.BackoffFunc(func() (time.Duration, bool) { return 0, false })
}

func (d *RetryDoer) Do(req *http.Request) (*http.Response, error) {
	var (
		last    *http.Response
		attempt int
	)

	b := retry.WithMaxRetries(uint64(d.MaxAttempts-1), immediately())
	err := retry.Do(req.Context(), b, func(ctx context.Context) error {
		attempt++
		attemptReq := req
		if attempt > 1 {
			drain(last)
			last = nil
			if d.OnRetry != nil {
				d.OnRetry(req, attempt)
			}
			var err error
			if attemptReq, err = rewind(req); err != nil {
				return err
			}
		}

		resp, err := d.Next.Do(attemptReq)
		if err != nil {
			return err
		}
		last = resp
		if resp.StatusCode == http.StatusTooManyRequests {
			return retry.RetryableError(errTooManyRequests)
		}
		return nil
	})

	if err != nil && !errors.Is(err, errTooManyRequests) {
		drain(last)
		return nil, err
	}
	return last, nil
}

func rewind(req *http.Request) (*http.Request, error) {
	r := req.Clone(req.Context())
	if req.Body == nil || req.GetBody == nil {
		return r, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	r.Body = body
	return r, nil
}

func drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
