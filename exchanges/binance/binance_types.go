package binance

import (
	"errors"
	"net/http"

	"github.com/thrasher-corp/marketstream/connectivity/websocket"
	"golang.org/x/time/rate"
)

const (
	defaultName         = "binance"
	defaultRESTURL      = "https://api.binance.com"
	defaultWebsocketURL = "wss://stream.binance.com:9443/ws"

	exchangeInfoPath = "/api/v3/exchangeInfo"

	// maxStreamsPerConnection is the documented subscription limit of a
	// single raw stream connection
	maxStreamsPerConnection = 1024
	// wsMessagesPerSecond is the inbound message limit Binance enforces per
	// connection
	wsMessagesPerSecond = 5
	// restRequestsPerMinute keeps exchangeInfo polling well under the request
	// weight limit
	restRequestsPerMinute = 60

	statusTrading   = "TRADING"
	methodSubscribe = "SUBSCRIBE"
	methodUnsub     = "UNSUBSCRIBE"
	tradeStream     = "@trade"
	depthStream     = "@depth@100ms"
	eventTrade      = "trade"
	eventDepth      = "depthUpdate"
)

var (
	errNoSecurities        = errors.New("no securities supplied")
	errTooManyStreams      = errors.New("too many streams for a single connection")
	errSubscriptionFailed  = errors.New("subscription request failed")
	errUnknownSymbol       = errors.New("symbol not subscribed")
	errMalformedPayload    = errors.New("malformed stream payload")
	errExchangeInfoSymbols = errors.New("exchange info has no symbols")
)

// Config defines the settings of a Binance adapter
type Config struct {
	Name         string
	RESTURL      string
	WebsocketURL string
	HTTPClient   *http.Client
	// RESTRateLimit paces REST requests, defaults to restRequestsPerMinute
	RESTRateLimit *rate.Limiter
	// Websocket is the template for stream connections, the URL is always
	// taken from WebsocketURL
	Websocket websocket.Config
	Verbose   bool
}

// WsRequest is an outbound stream management request
type WsRequest struct {
	Method string   `json:"method"`
	Params []string `json:"params"`
	ID     int64    `json:"id"`
}
