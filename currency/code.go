package currency

import (
	"encoding/json"
	"errors"
	"strings"
)

var (
	// ErrCurrencyCodeEmpty defines an error if the currency code is empty
	ErrCurrencyCodeEmpty = errors.New("currency code is empty")
	// ErrCurrencyNotFound returned when a currency is not found in the catalog
	ErrCurrencyNotFound = errors.New("currency code not found in list")
	// ErrCurrencyPairEmpty returned when a currency pair is empty
	ErrCurrencyPairEmpty = errors.New("currency pair is empty")
)

// EMPTYCODE is an unset code
var EMPTYCODE = Code{}

// Code defines a currency or asset code e.g. BTC. The symbol is always stored
// upper cased, lowerCase only changes how it is displayed.
type Code struct {
	symbol    string
	lowerCase bool
}

// NewCode returns a new currency code
func NewCode(c string) Code {
	return Code{symbol: strings.ToUpper(strings.TrimSpace(c))}
}

// String converts the code to string
func (c Code) String() string {
	if c.lowerCase {
		return strings.ToLower(c.symbol)
	}
	return c.symbol
}

// Lower flags the Code to use lower case formatting, but does not change the symbol
func (c Code) Lower() Code {
	c.lowerCase = true
	return c
}

// Upper flags the Code to use upper case formatting
func (c Code) Upper() Code {
	c.lowerCase = false
	return c
}

// IsEmpty returns true if the code is empty
func (c Code) IsEmpty() bool {
	return c.symbol == ""
}

// Equal returns if the code supplied is the same regardless of formatting
func (c Code) Equal(check Code) bool {
	return c.symbol == check.symbol
}

// UnmarshalJSON conforms type to the unmarshaler interface
func (c *Code) UnmarshalJSON(d []byte) error {
	var newcode string
	if err := json.Unmarshal(d, &newcode); err != nil {
		return err
	}
	*c = NewCode(newcode)
	return nil
}

// MarshalJSON conforms type to the marshaler interface
func (c Code) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}
