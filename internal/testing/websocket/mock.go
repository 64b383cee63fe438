// Package websocket provides a gorilla websocket server for tests
package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

// Handler responds to a single inbound message
type Handler func(tb testing.TB, msg []byte, c *gws.Conn) error

// OnConnect is run once the connection is upgraded and before any message is read
type OnConnect func(tb testing.TB, c *gws.Conn) error

var upgrader = gws.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

// WsMockUpgrader upgrades the request and feeds every inbound message to handler
// until the client goes away
func WsMockUpgrader(tb testing.TB, w http.ResponseWriter, r *http.Request, handler Handler) {
	tb.Helper()
	serve(tb, w, r, nil, handler)
}

// EchoHandler writes the message straight back as text
func EchoHandler(_ testing.TB, msg []byte, c *gws.Conn) error {
	return c.WriteMessage(gws.TextMessage, msg)
}

// NewServer starts a test server running onConnect and then handler for every
// connection. It is closed with the test.
func NewServer(tb testing.TB, onConnect OnConnect, handler Handler) *httptest.Server {
	tb.Helper()
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serve(tb, w, r, onConnect, handler)
	}))
	tb.Cleanup(s.Close)
	return s
}

// URL returns the websocket URL of a test server
func URL(s *httptest.Server) string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func serve(tb testing.TB, w http.ResponseWriter, r *http.Request, onConnect OnConnect, handler Handler) {
	tb.Helper()
	// Runs on the server goroutine, so failures are reported without FailNow
	c, err := upgrader.Upgrade(w, r, nil)
	if !assert.NoError(tb, err, "Upgrade should not error") {
		return
	}
	defer c.Close()

	if onConnect != nil {
		if err := onConnect(tb, c); err != nil {
			return
		}
	}
	for {
		_, p, err := c.ReadMessage()
		if err != nil {
			return
		}
		if handler == nil {
			continue
		}
		if err := handler(tb, p, c); err != nil {
			assert.NoError(tb, err, "handler should not error")
			return
		}
	}
}
