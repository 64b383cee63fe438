package trade

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/marketstream/currency"
)

// Side is the aggressor side of a trade
type Side uint8

// Trade sides
const (
	UnknownSide Side = iota
	Buy
	Sell
)

// String implements the stringer interface
func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Data defines a single executed trade
type Data struct {
	Exchange  string
	Pair      currency.Pair
	Price     decimal.Decimal
	Quantity  decimal.Decimal
	Timestamp time.Time
	TradeID   int64
	Side      Side
}
