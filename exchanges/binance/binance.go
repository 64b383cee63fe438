package binance

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/buger/jsonparser"
	"github.com/thrasher-corp/marketstream/connectivity/websocket"
	"github.com/thrasher-corp/marketstream/currency"
	exchange "github.com/thrasher-corp/marketstream/exchanges"
	"github.com/thrasher-corp/marketstream/exchanges/request"
	"github.com/thrasher-corp/marketstream/log"
	"github.com/thrasher-corp/marketstream/market"
)

// Exchange is the Binance spot adapter
type Exchange struct {
	name      string
	restURL   string
	wsURL     string
	wsConfig  websocket.Config
	requester *request.Requester
	venue     *market.Exchange
	verbose   bool
}

var _ exchange.Client = (*Exchange)(nil)

// New returns a Binance adapter, zero fields of cfg take the public endpoint
// defaults
func New(cfg *Config) (*Exchange, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	c := *cfg
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.RESTURL == "" {
		c.RESTURL = defaultRESTURL
	}
	if c.WebsocketURL == "" {
		c.WebsocketURL = defaultWebsocketURL
	}
	if c.RESTRateLimit == nil {
		c.RESTRateLimit = request.NewRateLimit(time.Minute, restRequestsPerMinute)
	}
	if c.Websocket.RateLimit == nil {
		c.Websocket.RateLimit = request.NewRateLimit(time.Second, wsMessagesPerSecond)
	}

	venue, err := market.NewExchange("Binance", market.NewCryptoCode("BINANCE"), market.XX, "UTC")
	if err != nil {
		return nil, err
	}
	return &Exchange{
		name:     c.Name,
		restURL:  strings.TrimSuffix(c.RESTURL, "/"),
		wsURL:    c.WebsocketURL,
		wsConfig: c.Websocket,
		requester: request.New(c.Name, c.HTTPClient,
			request.WithLimiter(c.RESTRateLimit),
			request.WithUserAgent("marketstream")),
		venue:   venue,
		verbose: c.Verbose,
	}, nil
}

// GetName returns the exchange name
func (e *Exchange) GetName() string {
	return e.name
}

// Venue returns the market venue every security of this exchange trades on
func (e *Exchange) Venue() *market.Exchange {
	return e.venue
}

// GetAllPairs returns every spot symbol that is currently trading
func (e *Exchange) GetAllPairs(ctx context.Context) ([]*market.Security, error) {
	body, err := e.requester.SendPayload(ctx, &request.Item{
		Path:    e.restURL + exchangeInfoPath,
		Verbose: e.verbose,
	})
	if err != nil {
		return nil, err
	}
	return e.parseExchangeInfo(body)
}

func (e *Exchange) parseExchangeInfo(body []byte) ([]*market.Security, error) {
	symbols, dataType, _, err := jsonparser.Get(body, "symbols")
	if err != nil || dataType != jsonparser.Array {
		return nil, fmt.Errorf("%s %w", e.name, errExchangeInfoSymbols)
	}

	var (
		securities []*market.Security
		parseErr   error
	)
	_, err = jsonparser.ArrayEach(symbols, func(value []byte, _ jsonparser.ValueType, _ int, _ error) {
		if parseErr != nil {
			return
		}
		status, _ := jsonparser.GetString(value, "status")
		if status != statusTrading {
			return
		}
		symbol, err := jsonparser.GetString(value, "symbol")
		if err != nil {
			parseErr = fmt.Errorf("%w: symbol: %w", errMalformedPayload, err)
			return
		}
		base, _ := jsonparser.GetString(value, "baseAsset")
		quote, _ := jsonparser.GetString(value, "quoteAsset")
		s, err := e.newSecurity(symbol, base, quote)
		if err != nil {
			parseErr = err
			return
		}
		securities = append(securities, s)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errMalformedPayload, err)
	}
	if parseErr != nil {
		return nil, parseErr
	}
	sort.Slice(securities, func(i, j int) bool { return securities[i].Symbol < securities[j].Symbol })
	if e.verbose {
		log.Debugf(log.ExchangeSys, "%s %d trading pairs", e.name, len(securities))
	}
	return securities, nil
}

// NewSecurity returns a spot security for the symbol and its assets
func (e *Exchange) NewSecurity(base, quote string) (*market.Security, error) {
	return e.newSecurity(strings.ToUpper(base+quote), base, quote)
}

func (e *Exchange) newSecurity(symbol, base, quote string) (*market.Security, error) {
	pair, err := currency.NewPairFromStrings(base, quote)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", e.name, symbol, err)
	}
	q, err := currency.Lookup(pair.Quote)
	if err != nil {
		q = currency.Currency{Code: pair.Quote, Name: pair.Quote.String()}
	}
	return &market.Security{
		Symbol:   strings.ToUpper(symbol),
		Name:     pair.Format("/", true).String(),
		Pair:     pair,
		Quote:    q,
		Exchange: e.venue,
		Type:     market.Crypto,
	}, nil
}
