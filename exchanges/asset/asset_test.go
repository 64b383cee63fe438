package asset

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Equity", Equity.String())
	assert.Equal(t, "Currencies", Currency.String())
	assert.Equal(t, "Cryptocurrencies", Cryptocurrency.String())
	assert.Equal(t, "Class(9)", Class(9).String())
}

func TestParseClass(t *testing.T) {
	t.Parallel()
	c, err := ParseClass("cryptocurrencies")
	require.NoError(t, err)
	assert.Equal(t, Cryptocurrency, c)
	_, err = ParseClass("bonds")
	require.ErrorIs(t, err, ErrInvalidClass)
}

func TestAsset(t *testing.T) {
	t.Parallel()
	a := New(0, "Bitcoin", "BTC", Cryptocurrency)
	assert.Equal(t, ID(0), a.ID())
	assert.Equal(t, "Bitcoin", a.Name())
	assert.Equal(t, "BTC", a.Symbol())
	assert.Equal(t, Cryptocurrency, a.Class())
	assert.True(t, a.Equal(New(0, "Bitcoin", "BTC", Cryptocurrency)))
	assert.True(t, a.Equal(New(0, "Other", "OTH", Equity)), "equality is by id only")
	assert.False(t, a.Equal(New(1, "Bitcoin", "BTC", Cryptocurrency)))
	assert.False(t, a.Equal(nil))
}

func TestTableAdd(t *testing.T) {
	t.Parallel()
	table := NewTable()
	assert.Equal(t, ID(0), table.Add("United States Dollar", "USD", Currency))
	assert.Equal(t, ID(1), table.Add("Euro", "EUR", Currency))
	assert.Equal(t, ID(0), table.Add("United States Dollar", "USD", Currency))
	assert.Equal(t, ID(2), table.Add("United States Dollar", "USD", Equity), "same name in another class is a new asset")
	assert.Equal(t, 3, table.Len())

	id, ok := table.Lookup("Euro", Currency)
	assert.True(t, ok)
	assert.Equal(t, ID(1), id)
	_, ok = table.Lookup("Euro", Equity)
	assert.False(t, ok)
}

func TestTableGet(t *testing.T) {
	t.Parallel()
	table := NewTable()
	id := table.Add("United States Dollar", "USD", Currency)
	a, err := table.Get(id)
	require.NoError(t, err)
	assert.Equal(t, id, a.ID())
	assert.Equal(t, "United States Dollar", a.Name())
	assert.Equal(t, "USD", a.Symbol())
	assert.Equal(t, Currency, a.Class())

	id = table.Add("Euro", "EUR", Currency)
	a, err = table.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Euro", a.Name())

	_, err = table.Get(2)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTableConcurrentAdd(t *testing.T) {
	t.Parallel()
	table := NewTable()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, n := range []string{"Bitcoin", "Ether", "Tether"} {
				table.Add(n, n[:3], Cryptocurrency)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 3, table.Len())
	for id := range ID(3) {
		_, err := table.Get(id)
		require.NoError(t, err)
	}
}
