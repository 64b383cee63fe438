package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/marketstream/currency"
)

func TestCountry(t *testing.T) {
	t.Parallel()
	assert.Equal(t, US, Country("US"))
	assert.NotEqual(t, US, JP)
	assert.Equal(t, "KR", KR.String())
}

func TestExchange(t *testing.T) {
	t.Parallel()
	e, err := NewExchange("New York Stock Exchange", NewMIC("XNYS"), US, "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "New York Stock Exchange", e.Name())
	assert.Equal(t, NewMIC("XNYS"), e.Code())
	assert.Equal(t, MICCode, e.Code().Kind)
	assert.Equal(t, US, e.Country())
	assert.Equal(t, "America/New_York", e.Location().String())

	now := time.Now().UTC()
	local := e.Time(now)
	assert.True(t, local.Equal(now), "local time must be the same instant")
	assert.Equal(t, e.Location(), local.Location())

	_, err = NewExchange("", NewMIC("XNYS"), US, "UTC")
	require.ErrorIs(t, err, errExchangeNameEmpty)
	_, err = NewExchange("Binance", ExchangeCode{}, XX, "UTC")
	require.ErrorIs(t, err, errExchangeCodeEmpty)
	_, err = NewExchange("Binance", NewCryptoCode("BINANCE"), XX, "Mars/Olympus")
	require.Error(t, err)
}

func TestSecurity(t *testing.T) {
	t.Parallel()
	e, err := NewExchange("Korea Exchange", NewMIC("XKRX"), KR, "Asia/Seoul")
	require.NoError(t, err)
	s := &Security{Symbol: "005930", Name: "Samsung Electronics", Quote: currency.KRW, Exchange: e, Type: Equity}
	assert.Equal(t, "005930", s.String())
	assert.Equal(t, "equity", s.Type.String())
	assert.Equal(t, "cryptofuture", CryptoFuture.String())
	assert.Equal(t, "unknown", SecurityType(200).String())
	assert.Equal(t, "South Korean Won", s.Quote.Name)
}
