package currency

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Pair holds currency pair information
type Pair struct {
	Delimiter string `json:"delimiter,omitempty"`
	Base      Code   `json:"base,omitempty"`
	Quote     Code   `json:"quote,omitempty"`
}

var delimiters = []string{"_", "-", "/", ":"}

// NewPair returns a currency pair from currency codes
func NewPair(baseCurrency, quoteCurrency Code) Pair {
	return Pair{
		Base:  baseCurrency,
		Quote: quoteCurrency,
	}
}

// NewPairFromStrings returns a Pair without a delimiter
func NewPairFromStrings(baseCurrency, quoteCurrency string) (Pair, error) {
	if strings.TrimSpace(baseCurrency) == "" || strings.TrimSpace(quoteCurrency) == "" {
		return EMPTYPAIR, fmt.Errorf("%w: base %q quote %q", ErrCurrencyCodeEmpty, baseCurrency, quoteCurrency)
	}
	return NewPair(NewCode(baseCurrency), NewCode(quoteCurrency)), nil
}

// NewPairWithDelimiter returns a Pair with a delimiter
func NewPairWithDelimiter(base, quote, delimiter string) Pair {
	return Pair{
		Base:      NewCode(base),
		Quote:     NewCode(quote),
		Delimiter: delimiter,
	}
}

// NewPairDelimiter splits the desired currency string at delimiter and returns
// a Pair
func NewPairDelimiter(currencyPair, delimiter string) (Pair, error) {
	if delimiter == "" {
		return EMPTYPAIR, fmt.Errorf("cannot split %q: delimiter is empty", currencyPair)
	}
	base, quote, ok := strings.Cut(currencyPair, delimiter)
	if !ok {
		return EMPTYPAIR, fmt.Errorf("delimiter %q not found in currency pair string %q", delimiter, currencyPair)
	}
	p, err := NewPairFromStrings(base, quote)
	if err != nil {
		return EMPTYPAIR, err
	}
	p.Delimiter = delimiter
	return p, nil
}

// NewPairFromString converts a currency string into a Pair, with or without a
// delimiter. Without one the first three characters are taken as the base.
func NewPairFromString(currencyPair string) (Pair, error) {
	for _, d := range delimiters {
		if strings.Contains(currencyPair, d) {
			return NewPairDelimiter(currencyPair, d)
		}
	}
	if len(currencyPair) < 4 {
		return EMPTYPAIR, fmt.Errorf("%w: cannot split %q", ErrCurrencyPairEmpty, currencyPair)
	}
	return NewPairFromStrings(currencyPair[:3], currencyPair[3:])
}

// EMPTYPAIR is an unset pair
var EMPTYPAIR = Pair{}

// String returns a currency pair string
func (p Pair) String() string {
	return p.Base.String() + p.Delimiter + p.Quote.String()
}

// Lower converts the pair object to lowercase
func (p Pair) Lower() Pair {
	return Pair{
		Delimiter: p.Delimiter,
		Base:      p.Base.Lower(),
		Quote:     p.Quote.Lower(),
	}
}

// Upper converts the pair object to uppercase
func (p Pair) Upper() Pair {
	return Pair{
		Delimiter: p.Delimiter,
		Base:      p.Base.Upper(),
		Quote:     p.Quote.Upper(),
	}
}

// Format changes the currency based on user preferences overriding the default
// String() display
func (p Pair) Format(delimiter string, uppercase bool) Pair {
	newP := Pair{Base: p.Base, Quote: p.Quote, Delimiter: delimiter}
	if uppercase {
		return newP.Upper()
	}
	return newP.Lower()
}

// Equal compares two currency pairs and returns whether or not they are equal,
// formatting is ignored
func (p Pair) Equal(cPair Pair) bool {
	return p.Base.Equal(cPair.Base) && p.Quote.Equal(cPair.Quote)
}

// IsEmpty returns whether the pair is missing either currency code
func (p Pair) IsEmpty() bool {
	return p.Base.IsEmpty() || p.Quote.IsEmpty()
}

// UnmarshalJSON conforms type to the unmarshaler interface
func (p *Pair) UnmarshalJSON(d []byte) error {
	var pair string
	if err := json.Unmarshal(d, &pair); err != nil {
		return err
	}
	if pair == "" {
		*p = EMPTYPAIR
		return nil
	}
	newPair, err := NewPairFromString(pair)
	if err != nil {
		return err
	}
	*p = newPair
	return nil
}

// MarshalJSON conforms type to the marshaler interface
func (p Pair) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}
