package request

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// MaxRetryAttempts is the default number of retries for a failed request
	MaxRetryAttempts = 3
	// DefaultHTTPTimeout is used when no *http.Client is supplied
	DefaultHTTPTimeout = 15 * time.Second

	maxResponseSize = 50 * 1024 * 1024
	drainBodyLimit  = 100000
	userAgent       = "User-Agent"
)

// Requester sends rate limited HTTP requests on behalf of an exchange
type Requester struct {
	name        string
	httpClient  *http.Client
	limiter     *rate.Limiter
	userAgent   string
	retryPolicy RetryPolicy
	backoff     Backoff
	maxRetries  int
}

// RequesterOption is a function option for a Requester
type RequesterOption func(*Requester)

// Item is a single HTTP request
type Item struct {
	Method  string
	Path    string
	Headers map[string]string
	Verbose bool
}

// RetryPolicy determines whether the request should be retried
type RetryPolicy func(resp *http.Response, err error) (bool, error)

// Backoff determines how long to wait between request attempts
type Backoff func(attempt int) time.Duration
