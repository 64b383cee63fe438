package binance

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/marketstream/connectivity/websocket"
	exchange "github.com/thrasher-corp/marketstream/exchanges"
	"github.com/thrasher-corp/marketstream/exchanges/trade"
	mockws "github.com/thrasher-corp/marketstream/internal/testing/websocket"
	"github.com/thrasher-corp/marketstream/market"
)

const (
	tradePayload = `{"e":"trade","E":1672515782136,"s":"BTCUSDT","t":12345,"p":"16500.01","q":"0.0025","b":88,"a":50,"T":1672515782134,"m":true,"M":true}`
	depthPayload = `{"e":"depthUpdate","E":1672515782136,"s":"BTCUSDT","U":157,"u":160,"b":[["16500.00","1.5"],["16499.99","0"]],"a":[["16500.02","0.75"]]}`
)

// streamHandler acks subscriptions and then pushes market data, unsubscribes
// are rejected
func streamHandler(tb testing.TB, msg []byte, c *gws.Conn) error {
	var req WsRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		return err
	}
	if req.Method == methodUnsub {
		return c.WriteMessage(gws.TextMessage, fmt.Appendf(nil, `{"error":{"code":2,"msg":"Invalid request: unknown stream"},"id":%d}`, req.ID))
	}
	assert.Equal(tb, []string{"btcusdt@trade", "btcusdt@depth@100ms"}, req.Params)
	for _, p := range []string{
		fmt.Sprintf(`{"result":null,"id":%d}`, req.ID),
		`{"e":"kline","s":"BTCUSDT"}`,
		`{"e":"trade","s":"XRPUSDT","t":1,"p":"1","q":"1","T":1,"m":false}`,
		`not json`,
		tradePayload,
		`{"stream":"btcusdt@depth@100ms","data":` + depthPayload + `}`,
	} {
		if err := c.WriteMessage(gws.TextMessage, []byte(p)); err != nil {
			return err
		}
	}
	return nil
}

func newTestStream(t *testing.T) (*Exchange, *Stream) {
	t.Helper()
	s := mockws.NewServer(t, nil, streamHandler)
	e, err := New(&Config{WebsocketURL: mockws.URL(s), Websocket: websocket.Config{Name: t.Name()}})
	require.NoError(t, err, "New must not error")
	stream, err := e.NewStream(t.Context())
	require.NoError(t, err, "NewStream must not error")
	t.Cleanup(func() { assert.NoError(t, stream.Shutdown()) })
	return e, stream
}

func TestStreamEvents(t *testing.T) {
	t.Parallel()
	e, stream := newTestStream(t)
	btc, err := e.NewSecurity("BTC", "USDT")
	require.NoError(t, err)

	require.ErrorIs(t, stream.Subscribe(t.Context(), nil), errNoSecurities)
	require.NoError(t, stream.Subscribe(t.Context(), []*market.Security{btc}))
	subs := stream.GetSubscriptions()
	require.Len(t, subs, 1)
	assert.Equal(t, "BTCUSDT", subs[0].Symbol)

	ev, err := stream.NextEvent(t.Context())
	require.NoError(t, err, "acks and unknown payloads must be skipped")
	require.Equal(t, exchange.TradeEvent, ev.Type)
	td := ev.Trade
	require.NotNil(t, td)
	assert.Equal(t, "binance", td.Exchange)
	assert.True(t, td.Pair.Equal(btc.Pair))
	assert.Equal(t, "16500.01", td.Price.String())
	assert.Equal(t, "0.0025", td.Quantity.String())
	assert.Equal(t, int64(12345), td.TradeID)
	assert.Equal(t, trade.Sell, td.Side, "buyer maker trades are sells")
	assert.Equal(t, time.UnixMilli(1672515782134).UTC(), td.Timestamp)

	ev, err = stream.NextEvent(t.Context())
	require.NoError(t, err)
	require.Equal(t, exchange.OrderBookUpdateEvent, ev.Type)
	u := ev.OrderBookUpdate
	require.NotNil(t, u)
	assert.Equal(t, int64(157), u.FirstUpdateID)
	assert.Equal(t, int64(160), u.LastUpdateID)
	require.Len(t, u.Bids, 2)
	assert.Equal(t, "16500", u.Bids[0].Price.String())
	assert.True(t, u.Bids[1].Quantity.IsZero())
	require.Len(t, u.Asks, 1)
	assert.Equal(t, "0.75", u.Asks[0].Quantity.String())
	require.NoError(t, u.Validate())

	require.NoError(t, stream.Unsubscribe(t.Context(), []*market.Security{btc}))
	assert.Empty(t, stream.GetSubscriptions())
	_, err = stream.NextEvent(t.Context())
	require.ErrorIs(t, err, errSubscriptionFailed, "error acks must be returned")
	subs = stream.GetSubscriptions()
	require.Len(t, subs, 1, "a rejected unsubscribe must restore the subscription")
	assert.Equal(t, "BTCUSDT", subs[0].Symbol)
}

// rejectingHandler acks every request except subscriptions to ETHUSDT
func rejectingHandler(_ testing.TB, msg []byte, c *gws.Conn) error {
	var req WsRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		return err
	}
	for _, p := range req.Params {
		if p == "ethusdt@trade" {
			return c.WriteMessage(gws.TextMessage, fmt.Appendf(nil, `{"error":{"code":2,"msg":"Invalid request: unknown stream"},"id":%d}`, req.ID))
		}
	}
	return c.WriteMessage(gws.TextMessage, fmt.Appendf(nil, `{"result":null,"id":%d}`, req.ID))
}

func TestStreamRejectedSubscription(t *testing.T) {
	t.Parallel()
	s := mockws.NewServer(t, nil, rejectingHandler)
	e, err := New(&Config{WebsocketURL: mockws.URL(s), Websocket: websocket.Config{Name: t.Name()}})
	require.NoError(t, err, "New must not error")
	stream, err := e.NewStream(t.Context())
	require.NoError(t, err, "NewStream must not error")
	t.Cleanup(func() { assert.NoError(t, stream.Shutdown()) })

	btc, err := e.NewSecurity("BTC", "USDT")
	require.NoError(t, err)
	eth, err := e.NewSecurity("ETH", "USDT")
	require.NoError(t, err)
	require.NoError(t, stream.Subscribe(t.Context(), []*market.Security{btc}))
	require.NoError(t, stream.Subscribe(t.Context(), []*market.Security{eth, btc}))
	assert.Len(t, stream.GetSubscriptions(), 2)

	_, err = stream.NextEvent(t.Context())
	require.ErrorIs(t, err, errSubscriptionFailed)
	subs := stream.GetSubscriptions()
	require.Len(t, subs, 1, "only the securities added by the rejected request are removed")
	assert.Equal(t, "BTCUSDT", subs[0].Symbol)

	stream.mu.RLock()
	assert.Empty(t, stream.pending, "every ack must settle its request")
	stream.mu.RUnlock()
}

func TestStreamEnd(t *testing.T) {
	t.Parallel()
	_, stream := newTestStream(t)
	stream.conn.Disconnect()
	_, err := stream.NextEvent(t.Context())
	require.ErrorIs(t, err, websocket.ErrEndOfStream)
}

func TestStreamLimits(t *testing.T) {
	t.Parallel()
	e, stream := newTestStream(t)
	secs := make([]*market.Security, maxStreamsPerConnection/2+1)
	for i := range secs {
		s, err := e.NewSecurity(fmt.Sprintf("C%d", i), "USDT")
		require.NoError(t, err)
		secs[i] = s
	}
	require.ErrorIs(t, stream.Subscribe(t.Context(), secs), errTooManyStreams)
	assert.Empty(t, stream.GetSubscriptions())
}

func TestParse(t *testing.T) {
	t.Parallel()
	e, err := New(nil)
	require.NoError(t, err)
	s := newStream("binance", nil, false)
	btc, err := e.NewSecurity("BTC", "USDT")
	require.NoError(t, err)
	s.subscriptions[btc.Symbol] = btc

	ev, err := s.parse([]byte(`{"result":null,"id":7}`))
	require.NoError(t, err)
	assert.Nil(t, ev)

	_, err = s.parse([]byte(`{"error":{"code":1,"msg":"Invalid value type"},"id":7}`))
	require.ErrorIs(t, err, errSubscriptionFailed)
	assert.ErrorContains(t, err, "Invalid value type")

	eth, err := e.NewSecurity("ETH", "USDT")
	require.NoError(t, err)
	s.subscriptions[eth.Symbol] = eth
	s.pending[8] = pendingRequest{method: methodSubscribe, securities: []*market.Security{eth}}
	_, err = s.parse([]byte(`{"error":{"code":2,"msg":"Invalid request"},"id":8}`))
	require.ErrorIs(t, err, errSubscriptionFailed)
	assert.NotContains(t, s.subscriptions, eth.Symbol, "a rejected subscribe must be rolled back")
	assert.Contains(t, s.subscriptions, btc.Symbol)
	assert.Empty(t, s.pending)

	_, err = s.parse([]byte(`{"s":"BTCUSDT"}`))
	require.ErrorIs(t, err, errMalformedPayload)

	_, err = s.parse([]byte(`{"e":"trade","s":"ETHUSDT","t":1,"p":"1","q":"1","T":1,"m":false}`))
	require.ErrorIs(t, err, errUnknownSymbol)

	_, err = s.parse([]byte(`{"e":"trade","s":"BTCUSDT","t":1,"p":"abc","q":"1","T":1,"m":false}`))
	require.ErrorIs(t, err, errMalformedPayload)

	ev, err = s.parse([]byte(`{"e":"trade","s":"btcusdt","t":1,"p":"1.5","q":"2","T":1,"m":false}`))
	require.NoError(t, err)
	assert.Equal(t, trade.Buy, ev.Trade.Side)

	_, err = s.parse([]byte(`{"e":"depthUpdate","s":"BTCUSDT","U":1,"u":2,"b":[["1"]],"a":[]}`))
	require.ErrorIs(t, err, errMalformedPayload)

	ev, err = s.parse([]byte(`{"e":"depthUpdate","E":1,"s":"BTCUSDT","U":1,"u":2,"b":[],"a":[]}`))
	require.NoError(t, err)
	assert.Empty(t, ev.OrderBookUpdate.Bids)
}
