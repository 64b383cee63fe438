package orderbook

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/marketstream/currency"
)

// Entry is a single price level, a zero quantity removes the level
type Entry struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// Entries defines a side of the book
type Entries []Entry

// Update is an incremental depth change as pushed by an exchange. Applying
// updates to a local book is left to consumers.
type Update struct {
	Exchange      string
	Pair          currency.Pair
	Bids          Entries
	Asks          Entries
	FirstUpdateID int64
	LastUpdateID  int64
	Timestamp     time.Time
}
