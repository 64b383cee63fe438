package trade

import (
	"time"

	"github.com/shopspring/decimal"
)

// sqliteTimeLayout sorts lexically in the same order as time
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// Data defines a persisted trade
type Data struct {
	ID        string
	Exchange  string
	Base      string
	Quote     string
	Price     decimal.Decimal
	Amount    decimal.Decimal
	Side      string
	TID       string
	Timestamp time.Time
}
