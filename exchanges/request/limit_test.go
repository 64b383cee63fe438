package request

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestNewRateLimit(t *testing.T) {
	t.Parallel()
	r := NewRateLimit(time.Second*10, 5)
	assert.Equal(t, rate.Limit(0.5), r.Limit())
	assert.Equal(t, 1, r.Burst())

	r = NewRateLimit(0, 5)
	assert.Equal(t, rate.Inf, r.Limit())

	r = NewRateLimit(time.Second, 0)
	assert.Equal(t, rate.Inf, r.Limit())
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	require.NoError(t, RateLimit(t.Context(), nil))

	l := NewRateLimit(time.Hour, 1)
	require.NoError(t, RateLimit(t.Context(), l), "first action must use the burst")

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	err := RateLimit(ctx, l)
	require.ErrorIs(t, err, ErrRateLimitWait)
	assert.ErrorIs(t, err, context.Canceled)
}
