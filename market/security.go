package market

import (
	"github.com/thrasher-corp/marketstream/currency"
)

// SecurityType is the kind of instrument a security represents
type SecurityType uint8

// Security types
const (
	Base SecurityType = iota
	Equity
	Option
	Commodity
	Future
	Forex
	CFD
	Index
	Crypto
	CryptoFuture
)

var securityTypeNames = [...]string{
	Base:         "base",
	Equity:       "equity",
	Option:       "option",
	Commodity:    "commodity",
	Future:       "future",
	Forex:        "forex",
	CFD:          "cfd",
	Index:        "index",
	Crypto:       "crypto",
	CryptoFuture: "cryptofuture",
}

// String implements the stringer interface
func (s SecurityType) String() string {
	if int(s) < len(securityTypeNames) {
		return securityTypeNames[s]
	}
	return "unknown"
}

// Security is a listed instrument priced in a quote currency
type Security struct {
	Symbol string
	Name   string
	// Pair holds the base and quote codes of a currency pair instrument
	Pair     currency.Pair
	Quote    currency.Currency
	Exchange *Exchange
	Type     SecurityType
}

// String returns the security symbol
func (s *Security) String() string {
	return s.Symbol
}
