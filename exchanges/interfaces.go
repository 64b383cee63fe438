package exchange

import (
	"context"

	"github.com/thrasher-corp/marketstream/exchanges/orderbook"
	"github.com/thrasher-corp/marketstream/exchanges/trade"
	"github.com/thrasher-corp/marketstream/market"
)

// EventType defines the payload carried by an Event
type EventType uint8

// Event types
const (
	TradeEvent EventType = iota + 1
	OrderBookUpdateEvent
)

// String implements the stringer interface
func (e EventType) String() string {
	switch e {
	case TradeEvent:
		return "trade"
	case OrderBookUpdateEvent:
		return "orderbook_update"
	default:
		return "unknown"
	}
}

// Event is a single normalised market data item. Exactly one of Trade or
// OrderBookUpdate is set, according to Type.
type Event struct {
	Type            EventType
	Trade           *trade.Data
	OrderBookUpdate *orderbook.Update
}

// Client enforces the request based functions of an exchange
type Client interface {
	// GetAllPairs returns every security currently tradeable on the exchange
	GetAllPairs(ctx context.Context) ([]*market.Security, error)
}

// Stream enforces the streaming functions of an exchange
type Stream interface {
	Subscribe(ctx context.Context, securities []*market.Security) error
	Unsubscribe(ctx context.Context, securities []*market.Security) error
	GetSubscriptions() []*market.Security
	// NextEvent blocks until the next event arrives, the stream ends or ctx
	// is done
	NextEvent(ctx context.Context) (*Event, error)
	Shutdown() error
}
