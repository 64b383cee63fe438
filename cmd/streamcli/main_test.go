package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/marketstream/currency"
	mockws "github.com/thrasher-corp/marketstream/internal/testing/websocket"
)

func TestParsePairs(t *testing.T) {
	t.Parallel()
	pairs, err := parsePairs("", []string{"BTC-USDT"})
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.True(t, pairs[0].Equal(currency.NewPair(currency.NewCode("BTC"), currency.NewCode("USDT"))))

	pairs, err = parsePairs("eth_btc, BTC-USDT,,eth_btc", []string{"LTC-USDT"})
	require.NoError(t, err)
	require.Len(t, pairs, 2, "flag must override configured pairs and drop duplicates")

	_, err = parsePairs("", nil)
	assert.ErrorIs(t, err, errNoPairs)

	_, err = parsePairs("BTC", nil)
	assert.Error(t, err)
}

func TestMetricsRouter(t *testing.T) {
	t.Parallel()
	s := httptest.NewServer(newRouter())
	defer s.Close()

	resp, err := http.Get(s.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")

	resp, err = http.Post(s.URL+"/metrics", "text/plain", nil)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestListenCommand(t *testing.T) {
	s := mockws.NewServer(t, nil, func(_ testing.TB, msg []byte, c *gws.Conn) error {
		if err := c.WriteMessage(gws.TextMessage, msg); err != nil {
			return err
		}
		return c.WriteMessage(gws.CloseMessage, gws.FormatCloseMessage(gws.CloseNormalClosure, "bye"))
	})

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.RunContext(t.Context(), []string{"streamcli", "listen", "--url", mockws.URL(s), "--send", "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out.String())

	err = newApp().RunContext(t.Context(), []string{"streamcli", "listen"})
	assert.ErrorIs(t, err, errURLRequired)
}

// cancelWriter cancels once the first frame has been printed
type cancelWriter struct {
	bytes.Buffer
	cancel context.CancelFunc
}

func (w *cancelWriter) Write(p []byte) (int, error) {
	defer w.cancel()
	return w.Buffer.Write(p)
}

func TestListenCommandInterrupted(t *testing.T) {
	s := mockws.NewServer(t, func(_ testing.TB, c *gws.Conn) error {
		return c.WriteMessage(gws.TextMessage, []byte("ready"))
	}, nil)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	out := &cancelWriter{cancel: cancel}
	app := newApp()
	app.Writer = out
	require.NoError(t, app.RunContext(ctx, []string{"streamcli", "listen", mockws.URL(s)}),
		"a cancelled context must disconnect cleanly")
	assert.Equal(t, "ready\n", out.String())
}
