package asset

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrNotFound is returned when an asset id is not in the table
	ErrNotFound = errors.New("asset not found")
	// ErrInvalidClass is returned when parsing an unknown asset class
	ErrInvalidClass = errors.New("invalid asset class")
)

// Class is the broad category of an asset
type Class uint8

// Supported asset classes
const (
	Equity Class = iota
	Currency
	Cryptocurrency
)

// String returns the display name of the class
func (c Class) String() string {
	switch c {
	case Equity:
		return "Equity"
	case Currency:
		return "Currencies"
	case Cryptocurrency:
		return "Cryptocurrencies"
	default:
		return fmt.Sprintf("Class(%d)", uint8(c))
	}
}

// ParseClass returns the class matching the display name, case insensitive
func ParseClass(s string) (Class, error) {
	for _, c := range []Class{Equity, Currency, Cryptocurrency} {
		if strings.EqualFold(c.String(), s) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidClass, s)
}

// ID identifies an asset for the lifetime of the Table that issued it
type ID uint64

// Asset is an immutable tradeable instrument
type Asset struct {
	id     ID
	name   string
	symbol string
	class  Class
}

// New returns an asset, ids are normally assigned by a Table
func New(id ID, name, symbol string, class Class) *Asset {
	return &Asset{id: id, name: name, symbol: symbol, class: class}
}

// ID returns the asset identifier
func (a *Asset) ID() ID { return a.id }

// Name returns the full name of the asset e.g. Bitcoin
func (a *Asset) Name() string { return a.name }

// Symbol returns the asset symbol e.g. BTC
func (a *Asset) Symbol() string { return a.symbol }

// Class returns the asset class
func (a *Asset) Class() Class { return a.class }

// Equal reports whether both assets share the same id
func (a *Asset) Equal(b *Asset) bool {
	return a != nil && b != nil && a.id == b.id
}

// Table is a catalog of assets keyed by name and class. Ids are dense and
// start at zero. It is safe for concurrent use.
type Table struct {
	mu     sync.RWMutex
	assets []*Asset
	ids    map[string]ID
}

// NewTable returns an empty table
func NewTable() *Table {
	return &Table{ids: make(map[string]ID)}
}

func tableKey(name string, class Class) string {
	return name + "|" + class.String()
}

// Add registers an asset and returns its id. Adding the same name and class
// again returns the existing id, the symbol of the first registration is kept.
func (t *Table) Add(name, symbol string, class Class) ID {
	key := tableKey(name, class)
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.ids[key]; ok {
		return id
	}
	id := ID(len(t.assets))
	t.assets = append(t.assets, New(id, name, symbol, class))
	t.ids[key] = id
	return id
}

// Get returns the asset for the id
func (t *Table) Get(id ID) (*Asset, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if id >= ID(len(t.assets)) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return t.assets[id], nil
}

// Lookup returns the id of a registered name and class
func (t *Table) Lookup(name string, class Class) (ID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.ids[tableKey(name, class)]
	return id, ok
}

// Len returns the number of registered assets
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.assets)
}
