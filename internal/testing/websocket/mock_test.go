package websocket

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServerEcho(t *testing.T) {
	t.Parallel()
	s := NewServer(t, func(_ testing.TB, c *gws.Conn) error {
		return c.WriteMessage(gws.TextMessage, []byte("hello"))
	}, EchoHandler)

	c, resp, err := gws.DefaultDialer.DialContext(t.Context(), URL(s), nil)
	require.NoError(t, err, "Dial must not error")
	defer resp.Body.Close()
	defer c.Close()

	_, p, err := c.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(p))

	require.NoError(t, c.WriteMessage(gws.TextMessage, []byte("echo")))
	_, p, err = c.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "echo", string(p))
}

// recordingTB collects failures reported from server goroutines
type recordingTB struct {
	testing.TB
	mu     sync.Mutex
	errors []string
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Errorf(format string, args ...any) {
	r.mu.Lock()
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
	r.mu.Unlock()
}

func TestUpgradeFailureReported(t *testing.T) {
	t.Parallel()
	rec := &recordingTB{}
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WsMockUpgrader(rec, w, r, EchoHandler)
	}))
	defer s.Close()

	resp, err := http.Get(s.URL)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "a plain request must be rejected by the upgrader")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.errors, 1, "the failed upgrade must be reported without stopping the handler goroutine")
	assert.Contains(t, rec.errors[0], "Upgrade should not error")
}
