package market

import (
	"errors"
	"fmt"
	"time"
	// Venue time zones must resolve without a system zoneinfo database
	_ "time/tzdata"
)

var (
	errExchangeNameEmpty = errors.New("exchange name is empty")
	errExchangeCodeEmpty = errors.New("exchange code is empty")
)

// CodeKind distinguishes the namespace of an exchange code
type CodeKind uint8

// Exchange code namespaces
const (
	// MICCode is an ISO 10383 market identifier code
	MICCode CodeKind = iota
	// CryptoCode is a cryptocurrency venue code, which has no ISO registry
	CryptoCode
)

// ExchangeCode identifies a venue
type ExchangeCode struct {
	Kind  CodeKind
	Value string
}

// NewMIC returns an ISO 10383 exchange code
func NewMIC(code string) ExchangeCode {
	return ExchangeCode{Kind: MICCode, Value: code}
}

// NewCryptoCode returns a cryptocurrency venue code
func NewCryptoCode(code string) ExchangeCode {
	return ExchangeCode{Kind: CryptoCode, Value: code}
}

// String implements the stringer interface
func (e ExchangeCode) String() string {
	return e.Value
}

// Exchange is a trading venue
type Exchange struct {
	name     string
	code     ExchangeCode
	country  Country
	location *time.Location
}

// NewExchange returns an exchange located in the named IANA time zone
func NewExchange(name string, code ExchangeCode, country Country, timezone string) (*Exchange, error) {
	if name == "" {
		return nil, errExchangeNameEmpty
	}
	if code.Value == "" {
		return nil, errExchangeCodeEmpty
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("exchange %s: %w", name, err)
	}
	return &Exchange{name: name, code: code, country: country, location: loc}, nil
}

// Name returns the exchange name
func (e *Exchange) Name() string { return e.name }

// Code returns the exchange code
func (e *Exchange) Code() ExchangeCode { return e.code }

// Country returns the jurisdiction of the exchange
func (e *Exchange) Country() Country { return e.country }

// Location returns the exchange time zone
func (e *Exchange) Location() *time.Location { return e.location }

// Time converts now into exchange local time
func (e *Exchange) Time(now time.Time) time.Time {
	return now.In(e.location)
}
