package request

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"
)

const headerRetryAfter = "Retry-After"

// DefaultRetryPolicy retries timeouts, rate limited responses and any response
// carrying a Retry-After header. Other transport errors are returned.
func DefaultRetryPolicy(resp *http.Response, err error) (bool, error) {
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return true, nil
		}
		return false, err
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return true, nil
	}
	if resp.Header.Get(headerRetryAfter) != "" {
		return true, nil
	}
	return false, nil
}

// RetryAfter parses the Retry-After header as either seconds or an HTTP date,
// returning zero when it is absent or invalid
func RetryAfter(resp *http.Response, now time.Time) time.Duration {
	if resp == nil {
		return 0
	}
	after := resp.Header.Get(headerRetryAfter)
	if after == "" {
		return 0
	}
	if sec, err := strconv.ParseFloat(after, 64); err == nil {
		if sec < 0 {
			return 0
		}
		return time.Duration(sec * float64(time.Second))
	}
	if when, err := http.ParseTime(after); err == nil {
		if d := when.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

// LinearBackoff returns a Backoff growing by base per attempt up to max
func LinearBackoff(base, maxDelay time.Duration) Backoff {
	return func(attempt int) time.Duration {
		if d := base * time.Duration(attempt); d < maxDelay {
			return d
		}
		return maxDelay
	}
}
