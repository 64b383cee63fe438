package currency

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPairFromStrings(t *testing.T) {
	t.Parallel()
	p, err := NewPairFromStrings("btc", "usdt")
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", p.String())
	assert.Equal(t, "btcusdt", p.Lower().String())

	_, err = NewPairFromStrings("", "usdt")
	require.ErrorIs(t, err, ErrCurrencyCodeEmpty)
}

func TestNewPairDelimiter(t *testing.T) {
	t.Parallel()
	p, err := NewPairDelimiter("eth-btc", "-")
	require.NoError(t, err)
	assert.Equal(t, "ETH-BTC", p.String())
	assert.Equal(t, "-", p.Delimiter)

	_, err = NewPairDelimiter("ethbtc", "-")
	require.Error(t, err)
	_, err = NewPairDelimiter("ethbtc", "")
	require.Error(t, err)
	_, err = NewPairDelimiter("eth-", "-")
	require.ErrorIs(t, err, ErrCurrencyCodeEmpty)
}

func TestNewPairFromString(t *testing.T) {
	t.Parallel()
	for s, want := range map[string]Pair{
		"BTC_USD": NewPairWithDelimiter("BTC", "USD", "_"),
		"btc/krw": NewPairWithDelimiter("BTC", "KRW", "/"),
		"LTC:EUR": NewPairWithDelimiter("LTC", "EUR", ":"),
		"ethusdt": NewPair(NewCode("ETH"), NewCode("USDT")),
	} {
		p, err := NewPairFromString(s)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(p), s)
		assert.Equal(t, want.Delimiter, p.Delimiter, s)
	}
	_, err := NewPairFromString("BTC")
	require.ErrorIs(t, err, ErrCurrencyPairEmpty)
}

func TestPairFormat(t *testing.T) {
	t.Parallel()
	p := NewPairWithDelimiter("BTC", "USDT", "-")
	assert.Equal(t, "btc_usdt", p.Format("_", false).String())
	assert.Equal(t, "BTCUSDT", p.Format("", true).String())
	assert.Equal(t, "-", p.Delimiter, "Format must not mutate the receiver")
	assert.True(t, p.Equal(p.Format("/", false)))
	assert.False(t, p.Equal(NewPairWithDelimiter("USDT", "BTC", "-")))
	assert.False(t, p.IsEmpty())
	assert.True(t, EMPTYPAIR.IsEmpty())
	assert.True(t, Pair{Base: NewCode("BTC")}.IsEmpty())
}

func TestPairJSON(t *testing.T) {
	t.Parallel()
	b, err := json.Marshal(NewPairWithDelimiter("btc", "usd", "-"))
	require.NoError(t, err)
	assert.Equal(t, `"BTC-USD"`, string(b))

	var p Pair
	require.NoError(t, json.Unmarshal([]byte(`"eth_btc"`), &p))
	assert.Equal(t, "ETH_BTC", p.String())
	require.NoError(t, json.Unmarshal([]byte(`""`), &p))
	assert.True(t, p.IsEmpty())
	require.Error(t, json.Unmarshal([]byte(`"x"`), &p))
	require.Error(t, json.Unmarshal([]byte(`{}`), &p))
}

func TestPairs(t *testing.T) {
	t.Parallel()
	pairs := Pairs{
		NewPairWithDelimiter("BTC", "USDT", "-"),
		NewPairWithDelimiter("ETH", "USDT", "-"),
		NewPairWithDelimiter("ETH", "BTC", "-"),
	}
	assert.Equal(t, []string{"BTC-USDT", "ETH-USDT", "ETH-BTC"}, pairs.Strings())
	assert.Equal(t, []string{"btcusdt", "ethusdt", "ethbtc"}, pairs.Format("", false).Strings())

	ethbtc := NewPair(NewCode("ETH"), NewCode("BTC"))
	assert.True(t, pairs.Contains(ethbtc, false))
	assert.False(t, pairs.Contains(ethbtc, true), "exact match must compare delimiters")
	assert.False(t, pairs.Contains(NewPair(NewCode("XRP"), NewCode("BTC")), false))

	removed := pairs.Remove(ethbtc)
	assert.Len(t, removed, 2)
	assert.False(t, removed.Contains(ethbtc, false))
	assert.Len(t, pairs, 3, "Remove must not modify the receiver")
}
