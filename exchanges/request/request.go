package request

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/thrasher-corp/marketstream/log"
	"golang.org/x/time/rate"
)

var (
	errRequestSystemIsNil   = errors.New("request system is nil")
	errRequestItemNil       = errors.New("request item is nil")
	errInvalidPath          = errors.New("invalid path")
	errFailedToRetryRequest = errors.New("failed to retry request")
	errUnsuccessfulStatus   = errors.New("unsuccessful HTTP status code")
)

// New returns a new Requester
func New(name string, httpClient *http.Client, opts ...RequesterOption) *Requester {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	r := &Requester{
		name:        name,
		httpClient:  httpClient,
		retryPolicy: DefaultRetryPolicy,
		backoff:     LinearBackoff(100*time.Millisecond, 2*time.Second),
		maxRetries:  MaxRetryAttempts,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// WithLimiter applies a rate limiter shared by every request
func WithLimiter(l *rate.Limiter) RequesterOption {
	return func(r *Requester) { r.limiter = l }
}

// WithUserAgent sets the User-Agent header of every request
func WithUserAgent(ua string) RequesterOption {
	return func(r *Requester) { r.userAgent = ua }
}

// WithRetryPolicy overrides DefaultRetryPolicy
func WithRetryPolicy(p RetryPolicy) RequesterOption {
	return func(r *Requester) { r.retryPolicy = p }
}

// WithBackoff overrides the delay between retries
func WithBackoff(b Backoff) RequesterOption {
	return func(r *Requester) { r.backoff = b }
}

// WithMaxRetries sets the number of retries after the first attempt
func WithMaxRetries(n int) RequesterOption {
	return func(r *Requester) { r.maxRetries = n }
}

// SendPayload sends the request, retrying where the retry policy allows, and
// returns the response body of a 2xx response
func (r *Requester) SendPayload(ctx context.Context, item *Item) ([]byte, error) {
	if r == nil {
		return nil, errRequestSystemIsNil
	}
	if item == nil {
		return nil, errRequestItemNil
	}
	if item.Path == "" {
		return nil, errInvalidPath
	}

	for attempt := 1; ; attempt++ {
		if err := RateLimit(ctx, r.limiter); err != nil {
			return nil, err
		}

		req, err := r.newRequest(ctx, item)
		if err != nil {
			return nil, err
		}
		if item.Verbose {
			log.Debugf(log.RequestSys, "%s attempt %d request: %s %s", r.name, attempt, req.Method, item.Path)
		}

		resp, err := r.httpClient.Do(req)
		retry, checkErr := r.retryPolicy(resp, err)
		if checkErr != nil {
			return nil, checkErr
		}
		if retry {
			delay := r.backoff(attempt)
			var status string
			if resp != nil {
				if after := RetryAfter(resp, time.Now()); after > delay {
					delay = after
				}
				status = resp.Status
				r.drainBody(resp.Body)
			}
			if attempt > r.maxRetries {
				if err != nil {
					return nil, fmt.Errorf("%w: %w", errFailedToRetryRequest, err)
				}
				return nil, fmt.Errorf("%w, status: %s", errFailedToRetryRequest, status)
			}
			if item.Verbose {
				log.Warnf(log.RequestSys, "%s request has failed. Retrying request in %s, attempt %d", r.name, delay, attempt)
			}
			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err != nil {
			return nil, err
		}

		contents, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < http.StatusOK || resp.StatusCode > http.StatusAccepted {
			return nil, fmt.Errorf("%s %w: %d raw response: %s", r.name, errUnsuccessfulStatus, resp.StatusCode, contents)
		}
		if item.Verbose {
			log.Debugf(log.RequestSys, "%s HTTP status: %s, raw response: %s", r.name, resp.Status, contents)
		}
		return contents, nil
	}
}

func (r *Requester) newRequest(ctx context.Context, item *Item) (*http.Request, error) {
	method := item.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, item.Path, http.NoBody)
	if err != nil {
		return nil, err
	}
	for k, v := range item.Headers {
		req.Header.Add(k, v)
	}
	if r.userAgent != "" && req.Header.Get(userAgent) == "" {
		req.Header.Add(userAgent, r.userAgent)
	}
	return req, nil
}

func (r *Requester) drainBody(body io.ReadCloser) {
	defer body.Close()
	if _, err := io.Copy(io.Discard, io.LimitReader(body, drainBodyLimit)); err != nil {
		log.Errorf(log.RequestSys, "%s failed to drain request body %s", r.name, err)
	}
}
