package binance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/buger/jsonparser"
	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/marketstream/connectivity/websocket"
	exchange "github.com/thrasher-corp/marketstream/exchanges"
	"github.com/thrasher-corp/marketstream/exchanges/orderbook"
	"github.com/thrasher-corp/marketstream/exchanges/trade"
	"github.com/thrasher-corp/marketstream/log"
	"github.com/thrasher-corp/marketstream/market"
)

// Stream is a raw market data stream connection. Subscriptions and events are
// carried over a single managed websocket client.
type Stream struct {
	name    string
	conn    *websocket.Client
	verbose bool

	requestID atomic.Int64

	mu            sync.RWMutex
	subscriptions map[string]*market.Security
	// pending holds the securities changed by each unacknowledged request so
	// a rejected request can be rolled back
	pending map[int64]pendingRequest
}

type pendingRequest struct {
	method     string
	securities []*market.Security
}

var _ exchange.Stream = (*Stream)(nil)

// NewStream connects a new raw stream
func (e *Exchange) NewStream(ctx context.Context) (*Stream, error) {
	cfg := e.wsConfig
	cfg.URL = e.wsURL
	if cfg.Name == "" {
		cfg.Name = e.name
	}
	if e.verbose {
		cfg.Verbose = true
	}
	conn, err := websocket.Connect(ctx, &cfg)
	if err != nil {
		return nil, err
	}
	return newStream(e.name, conn, e.verbose), nil
}

func newStream(name string, conn *websocket.Client, verbose bool) *Stream {
	return &Stream{
		name:          name,
		conn:          conn,
		verbose:       verbose,
		subscriptions: make(map[string]*market.Security),
		pending:       make(map[int64]pendingRequest),
	}
}

// Subscribe requests trade and depth streams for every security. The
// securities are reported by GetSubscriptions until Binance rejects the request.
func (s *Stream) Subscribe(ctx context.Context, securities []*market.Security) error {
	if len(securities) == 0 {
		return errNoSecurities
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var added []*market.Security
	for _, sec := range securities {
		if _, ok := s.subscriptions[sec.Symbol]; !ok {
			added = append(added, sec)
		}
	}
	if streams := (len(s.subscriptions) + len(added)) * 2; streams > maxStreamsPerConnection {
		return fmt.Errorf("%w: %d > %d", errTooManyStreams, streams, maxStreamsPerConnection)
	}
	id, err := s.send(ctx, methodSubscribe, securities)
	if err != nil {
		return err
	}
	for _, sec := range added {
		s.subscriptions[sec.Symbol] = sec
	}
	s.pending[id] = pendingRequest{method: methodSubscribe, securities: added}
	return nil
}

// Unsubscribe removes the trade and depth streams of every security
func (s *Stream) Unsubscribe(ctx context.Context, securities []*market.Security) error {
	if len(securities) == 0 {
		return errNoSecurities
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.send(ctx, methodUnsub, securities)
	if err != nil {
		return err
	}
	var removed []*market.Security
	for _, sec := range securities {
		if existing, ok := s.subscriptions[sec.Symbol]; ok {
			removed = append(removed, existing)
			delete(s.subscriptions, sec.Symbol)
		}
	}
	s.pending[id] = pendingRequest{method: methodUnsub, securities: removed}
	return nil
}

// GetSubscriptions returns the subscribed securities ordered by symbol
func (s *Stream) GetSubscriptions() []*market.Security {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subs := make([]*market.Security, 0, len(s.subscriptions))
	for _, sec := range s.subscriptions {
		subs = append(subs, sec)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].Symbol < subs[j].Symbol })
	return subs
}

// send must be called with mu held
func (s *Stream) send(ctx context.Context, method string, securities []*market.Security) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	req := WsRequest{
		Method: method,
		Params: streamNames(securities),
		ID:     s.requestID.Add(1),
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return 0, err
	}
	if s.verbose {
		log.Debugf(log.ExchangeSys, "%s websocket: sending %s", s.name, payload)
	}
	return req.ID, s.conn.Send(string(payload))
}

func streamNames(securities []*market.Security) []string {
	params := make([]string, 0, len(securities)*2)
	for _, sec := range securities {
		symbol := strings.ToLower(sec.Symbol)
		params = append(params, symbol+tradeStream, symbol+depthStream)
	}
	return params
}

// NextEvent returns the next trade or depth update. Subscription acks and
// payloads that are not market data are skipped. Once the connection has ended
// websocket.ErrEndOfStream is returned.
func (s *Stream) NextEvent(ctx context.Context) (*exchange.Event, error) {
	for {
		f, err := s.conn.Receive(ctx)
		if err != nil {
			return nil, err
		}
		ev, err := s.parse(f.Payload)
		if err != nil {
			if errors.Is(err, errSubscriptionFailed) {
				return nil, err
			}
			log.Warnf(log.ExchangeSys, "%s websocket: %v: %s", s.name, err, f.Payload)
			continue
		}
		if ev != nil {
			return ev, nil
		}
	}
}

// Shutdown closes the connection and waits for it to be released
func (s *Stream) Shutdown() error {
	s.conn.Disconnect()
	<-s.conn.Done()
	return nil
}

// parse returns a nil event for payloads that carry no market data
func (s *Stream) parse(payload []byte) (*exchange.Event, error) {
	// Combined stream envelopes wrap the event
	if data, dataType, _, err := jsonparser.Get(payload, "data"); err == nil && dataType == jsonparser.Object {
		payload = data
	}

	if _, _, _, err := jsonparser.Get(payload, "id"); err == nil {
		return nil, s.handleAck(payload)
	}

	eventType, err := jsonparser.GetString(payload, "e")
	if err != nil {
		return nil, fmt.Errorf("%w: missing event type", errMalformedPayload)
	}
	switch eventType {
	case eventTrade:
		td, err := s.parseTrade(payload)
		if err != nil {
			return nil, err
		}
		return &exchange.Event{Type: exchange.TradeEvent, Trade: td}, nil
	case eventDepth:
		u, err := s.parseDepth(payload)
		if err != nil {
			return nil, err
		}
		return &exchange.Event{Type: exchange.OrderBookUpdateEvent, OrderBookUpdate: u}, nil
	default:
		if s.verbose {
			log.Debugf(log.ExchangeSys, "%s websocket: unhandled event %q", s.name, eventType)
		}
		return nil, nil
	}
}

// handleAck settles the pending request, rolling back its subscription
// changes when Binance rejected it
func (s *Stream) handleAck(payload []byte) error {
	id, err := jsonparser.GetInt(payload, "id")
	if err != nil {
		return fmt.Errorf("%w: ack id: %w", errMalformedPayload, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.pending[id]
	delete(s.pending, id)

	errData, dataType, _, err := jsonparser.Get(payload, "error")
	if err != nil || dataType == jsonparser.Null {
		return nil
	}
	if ok {
		for _, sec := range req.securities {
			switch req.method {
			case methodSubscribe:
				delete(s.subscriptions, sec.Symbol)
			case methodUnsub:
				s.subscriptions[sec.Symbol] = sec
			}
		}
	}
	code, _ := jsonparser.GetInt(errData, "code")
	msg, _ := jsonparser.GetString(errData, "msg")
	return fmt.Errorf("%w: id %d code %d: %s", errSubscriptionFailed, id, code, msg)
}

func (s *Stream) lookup(symbol string) (*market.Security, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sec, ok := s.subscriptions[strings.ToUpper(symbol)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownSymbol, symbol)
	}
	return sec, nil
}

func (s *Stream) parseTrade(payload []byte) (*trade.Data, error) {
	symbol, err := jsonparser.GetString(payload, "s")
	if err != nil {
		return nil, fmt.Errorf("%w: trade symbol: %w", errMalformedPayload, err)
	}
	sec, err := s.lookup(symbol)
	if err != nil {
		return nil, err
	}
	tradeID, err := jsonparser.GetInt(payload, "t")
	if err != nil {
		return nil, fmt.Errorf("%w: trade id: %w", errMalformedPayload, err)
	}
	price, err := getDecimal(payload, "p")
	if err != nil {
		return nil, err
	}
	qty, err := getDecimal(payload, "q")
	if err != nil {
		return nil, err
	}
	ts, err := jsonparser.GetInt(payload, "T")
	if err != nil {
		return nil, fmt.Errorf("%w: trade time: %w", errMalformedPayload, err)
	}
	buyerMaker, err := jsonparser.GetBoolean(payload, "m")
	if err != nil {
		return nil, fmt.Errorf("%w: trade maker flag: %w", errMalformedPayload, err)
	}
	// A maker buyer means the seller hit the bid
	side := trade.Buy
	if buyerMaker {
		side = trade.Sell
	}
	return &trade.Data{
		Exchange:  s.name,
		Pair:      sec.Pair,
		Price:     price,
		Quantity:  qty,
		Timestamp: time.UnixMilli(ts).UTC(),
		TradeID:   tradeID,
		Side:      side,
	}, nil
}

func (s *Stream) parseDepth(payload []byte) (*orderbook.Update, error) {
	symbol, err := jsonparser.GetString(payload, "s")
	if err != nil {
		return nil, fmt.Errorf("%w: depth symbol: %w", errMalformedPayload, err)
	}
	sec, err := s.lookup(symbol)
	if err != nil {
		return nil, err
	}
	first, err := jsonparser.GetInt(payload, "U")
	if err != nil {
		return nil, fmt.Errorf("%w: first update id: %w", errMalformedPayload, err)
	}
	last, err := jsonparser.GetInt(payload, "u")
	if err != nil {
		return nil, fmt.Errorf("%w: last update id: %w", errMalformedPayload, err)
	}
	eventTime, _ := jsonparser.GetInt(payload, "E")
	bids, err := getLevels(payload, "b")
	if err != nil {
		return nil, err
	}
	asks, err := getLevels(payload, "a")
	if err != nil {
		return nil, err
	}
	return &orderbook.Update{
		Exchange:      s.name,
		Pair:          sec.Pair,
		Bids:          bids,
		Asks:          asks,
		FirstUpdateID: first,
		LastUpdateID:  last,
		Timestamp:     time.UnixMilli(eventTime).UTC(),
	}, nil
}

func getDecimal(payload []byte, keys ...string) (decimal.Decimal, error) {
	v, err := jsonparser.GetString(payload, keys...)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s: %w", errMalformedPayload, strings.Join(keys, "."), err)
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s: %w", errMalformedPayload, strings.Join(keys, "."), err)
	}
	return d, nil
}

func getLevels(payload []byte, key string) (orderbook.Entries, error) {
	var (
		levels   orderbook.Entries
		levelErr error
	)
	_, err := jsonparser.ArrayEach(payload, func(value []byte, _ jsonparser.ValueType, _ int, _ error) {
		if levelErr != nil {
			return
		}
		price, err := getDecimal(value, "[0]")
		if err != nil {
			levelErr = err
			return
		}
		qty, err := getDecimal(value, "[1]")
		if err != nil {
			levelErr = err
			return
		}
		levels = append(levels, orderbook.Entry{Price: price, Quantity: qty})
	}, key)
	if err != nil && !errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return nil, fmt.Errorf("%w: %s levels: %w", errMalformedPayload, key, err)
	}
	return levels, levelErr
}
