package currency

import "fmt"

// Currency is an issued currency e.g. the United States Dollar
type Currency struct {
	Code   Code
	Name   string
	Symbol string
}

// Catalogued currencies
var (
	USD = Currency{Code: NewCode("USD"), Name: "United States Dollar", Symbol: "$"}
	KRW = Currency{Code: NewCode("KRW"), Name: "South Korean Won", Symbol: "₩"}
	EUR = Currency{Code: NewCode("EUR"), Name: "Euro", Symbol: "€"}
	JPY = Currency{Code: NewCode("JPY"), Name: "Japanese Yen", Symbol: "¥"}
)

var catalog = map[string]Currency{
	USD.Code.String(): USD,
	KRW.Code.String(): KRW,
	EUR.Code.String(): EUR,
	JPY.Code.String(): JPY,
}

// Lookup returns the catalogued currency for the code
func Lookup(c Code) (Currency, error) {
	if c.IsEmpty() {
		return Currency{}, ErrCurrencyCodeEmpty
	}
	cur, ok := catalog[c.Upper().String()]
	if !ok {
		return Currency{}, fmt.Errorf("%w: %s", ErrCurrencyNotFound, c)
	}
	return cur, nil
}

// String returns the currency code
func (c Currency) String() string {
	return c.Code.String()
}
