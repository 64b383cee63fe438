package trade

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	errExchangeNameUnset = errors.New("trade exchange name unset")
	errPairUnset         = errors.New("trade pair unset")
	errInvalidPrice      = errors.New("trade price must be positive")
	errInvalidQuantity   = errors.New("trade quantity must be positive")
	errInvalidSide       = errors.New("invalid trade side")
)

// ParseSide returns the side matching s, case insensitive
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(s) {
	case "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	}
	return UnknownSide, fmt.Errorf("%w: %q", errInvalidSide, s)
}

// Validate checks the trade is fit for persistence
func (d *Data) Validate() error {
	switch {
	case d.Exchange == "":
		return errExchangeNameUnset
	case d.Pair.IsEmpty():
		return errPairUnset
	case !d.Price.IsPositive():
		return fmt.Errorf("%w: %s", errInvalidPrice, d.Price)
	case !d.Quantity.IsPositive():
		return fmt.Errorf("%w: %s", errInvalidQuantity, d.Quantity)
	case d.Side != Buy && d.Side != Sell:
		return errInvalidSide
	}
	return nil
}

// Notional returns price multiplied by quantity
func (d *Data) Notional() decimal.Decimal {
	return d.Price.Mul(d.Quantity)
}
