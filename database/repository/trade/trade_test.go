package trade

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/marketstream/currency"
	"github.com/thrasher-corp/marketstream/database"
	"github.com/thrasher-corp/marketstream/database/drivers"
	"github.com/thrasher-corp/marketstream/database/repository"
	"github.com/thrasher-corp/marketstream/exchanges/trade"
)

func newTestDB(t *testing.T) *database.Instance {
	t.Helper()
	db, err := database.Open(&database.Config{
		Enabled:           true,
		Driver:            database.DBSQLite3,
		ConnectionDetails: drivers.ConnectionDetails{Database: filepath.Join(t.TempDir(), "trade.db")},
	})
	require.NoError(t, err, "Open must not error")
	t.Cleanup(func() { assert.NoError(t, db.Close()) })
	require.NoError(t, Setup(t.Context(), db), "Setup must not error")
	return db
}

func TestInsertAndGetInRange(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	require.NoError(t, Setup(t.Context(), db), "Setup must be repeatable")

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	trades := make([]Data, 0, 5)
	for i := range 5 {
		trades = append(trades, Data{
			Exchange:  "Binance",
			Base:      "btc",
			Quote:     "usdt",
			Price:     decimal.RequireFromString("61000.5").Add(decimal.NewFromInt(int64(i))),
			Amount:    decimal.RequireFromString("0.00012"),
			Side:      "buy",
			TID:       string(rune('a' + i)),
			Timestamp: start.Add(time.Duration(i) * time.Second),
		})
	}
	require.NoError(t, Insert(t.Context(), db, trades...))
	for i := range trades {
		assert.NotEmpty(t, trades[i].ID, "ids must be assigned")
	}

	got, err := GetInRange(t.Context(), db, "binance", "BTC", "USDT", start.Add(time.Second), start.Add(3*time.Second))
	require.NoError(t, err)
	require.Len(t, got, 3, "range must be inclusive")
	assert.Equal(t, trades[1].ID, got[0].ID)
	assert.Equal(t, "binance", got[0].Exchange)
	assert.Equal(t, "BTC", got[0].Base)
	assert.Equal(t, "BUY", got[0].Side)
	assert.True(t, got[0].Price.Equal(decimal.RequireFromString("61001.5")))
	assert.True(t, got[0].Amount.Equal(decimal.RequireFromString("0.00012")))
	assert.True(t, got[2].Timestamp.Equal(start.Add(3*time.Second)))

	trades[0].ID = ""
	require.NoError(t, Insert(t.Context(), db, trades[0]), "duplicate trades must be skipped")
	got, err = GetInRange(t.Context(), db, "binance", "BTC", "USDT", start, start.Add(time.Minute))
	require.NoError(t, err)
	assert.Len(t, got, 5)

	got, err = GetInRange(t.Context(), db, "binance", "ETH", "USDT", start, start.Add(time.Minute))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInsertErrors(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	require.ErrorIs(t, Insert(t.Context(), db, Data{Base: "BTC"}), errExchangeNameUnset)

	var closed *database.Instance
	require.ErrorIs(t, Insert(t.Context(), closed, Data{Exchange: "binance"}), repository.ErrNotConnected)
	_, err := GetInRange(t.Context(), closed, "binance", "BTC", "USDT", time.Time{}, time.Now())
	require.ErrorIs(t, err, repository.ErrNotConnected)
	require.ErrorIs(t, Setup(t.Context(), closed), repository.ErrNotConnected)
}

func TestFromTrade(t *testing.T) {
	t.Parallel()
	now := time.Now()
	d := FromTrade(&trade.Data{
		Exchange:  "binance",
		Pair:      currency.NewPair(currency.NewCode("ETH"), currency.NewCode("BTC")),
		Price:     decimal.RequireFromString("0.05"),
		Quantity:  decimal.RequireFromString("3"),
		Timestamp: now,
		TradeID:   42,
		Side:      trade.Sell,
	})
	assert.Equal(t, "ETH", d.Base)
	assert.Equal(t, "BTC", d.Quote)
	assert.Equal(t, "SELL", d.Side)
	assert.Equal(t, "42", d.TID)
	assert.Equal(t, "3", d.Amount.String())
	assert.Equal(t, now, d.Timestamp)
}
