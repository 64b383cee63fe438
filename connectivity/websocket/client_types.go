package websocket

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultHandshakeTimeout = 45 * time.Second
	defaultWriteTimeout     = 10 * time.Second
)

var (
	// ErrClosed is returned by Send and SendBinary once the connection pump has exited
	ErrClosed = errors.New("websocket connection closed")
	// ErrEndOfStream is returned by Receive once no more frames will ever arrive
	ErrEndOfStream = errors.New("websocket end of stream")

	errNilConfig         = errors.New("websocket config is nil")
	errInvalidURL        = errors.New("malformed ws or wss URL")
	errStreamEnded       = errors.New("websocket stream ended")
	errTooManyFailures   = errors.New("too many consecutive websocket failures")
	errRateLimitExceeded = errors.New("rate limit burst cannot admit a frame")
)

// Config defines the settings of a single websocket connection
type Config struct {
	// Name labels log lines and metrics, defaults to the URL host
	Name string
	URL  string
	// Header is sent with the handshake request
	Header   http.Header
	ProxyURL string

	HandshakeTimeout time.Duration
	// WriteTimeout bounds every individual frame write, defaults to ten seconds
	WriteTimeout time.Duration
	// ReadLimit is the maximum size of an inbound message in bytes, zero disables it
	ReadLimit int64

	// RateLimit paces outbound frames inside the connection pump
	RateLimit *rate.Limiter
	// MaxConsecutiveErrors ends the connection after that many consecutive per
	// frame failures. Zero keeps the connection open regardless.
	MaxConsecutiveErrors int

	Verbose bool
}

// ConnectError is returned when the transport or handshake fails during Connect
type ConnectError struct {
	URL string
	// StatusCode is the HTTP status of a rejected handshake, zero if none was received
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *ConnectError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("websocket connection: %v %v Error: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("websocket connection: %v Error: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error
func (e *ConnectError) Unwrap() error {
	return e.Err
}
