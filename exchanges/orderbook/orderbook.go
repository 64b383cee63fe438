package orderbook

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	errUpdateIDOrder    = errors.New("last update id precedes first update id")
	errNegativeQuantity = errors.New("negative level quantity")
	errInvalidPrice     = errors.New("level price must be positive")
)

// Validate checks the update ids and every level
func (u *Update) Validate() error {
	if u.LastUpdateID < u.FirstUpdateID {
		return fmt.Errorf("%s %s: %w: %d < %d", u.Exchange, u.Pair, errUpdateIDOrder, u.LastUpdateID, u.FirstUpdateID)
	}
	if err := u.Bids.validate(); err != nil {
		return fmt.Errorf("%s %s bids: %w", u.Exchange, u.Pair, err)
	}
	if err := u.Asks.validate(); err != nil {
		return fmt.Errorf("%s %s asks: %w", u.Exchange, u.Pair, err)
	}
	return nil
}

func (e Entries) validate() error {
	for i := range e {
		if !e[i].Price.IsPositive() {
			return fmt.Errorf("%w: %s", errInvalidPrice, e[i].Price)
		}
		if e[i].Quantity.IsNegative() {
			return fmt.Errorf("%w: %s at %s", errNegativeQuantity, e[i].Quantity, e[i].Price)
		}
	}
	return nil
}

// Removals returns the levels that delete a price from the book
func (e Entries) Removals() Entries {
	var out Entries
	for i := range e {
		if e[i].Quantity.IsZero() {
			out = append(out, e[i])
		}
	}
	return out
}

// TotalQuantity sums the quantity across all levels
func (e Entries) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for i := range e {
		total = total.Add(e[i].Quantity)
	}
	return total
}
