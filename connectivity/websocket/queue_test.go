package websocket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameQueueOrder(t *testing.T) {
	t.Parallel()
	q := newFrameQueue()
	for _, s := range []string{"a", "b", "c"} {
		require.NoError(t, q.push(NewTextFrame(s)))
	}
	assert.Equal(t, 3, q.len())
	for _, s := range []string{"a", "b", "c"} {
		f, err := q.pop(t.Context())
		require.NoError(t, err)
		assert.Equal(t, s, f.Text())
	}
	_, ok := q.tryPop()
	assert.False(t, ok)
}

func TestFrameQueueClose(t *testing.T) {
	t.Parallel()
	q := newFrameQueue()
	require.NoError(t, q.push(NewTextFrame("left over")))
	assert.Equal(t, 1, q.close())
	assert.Zero(t, q.close(), "close must be idempotent")
	require.ErrorIs(t, q.push(NewTextFrame("late")), ErrClosed)

	f, err := q.pop(t.Context())
	require.NoError(t, err, "queued frames must be drained before end of stream")
	assert.Equal(t, "left over", f.Text())
	for range 3 {
		_, err = q.pop(t.Context())
		require.ErrorIs(t, err, ErrEndOfStream)
	}
}

func TestFrameQueuePopContext(t *testing.T) {
	t.Parallel()
	q := newFrameQueue()
	ctx, cancel := context.WithTimeout(t.Context(), time.Millisecond*10)
	defer cancel()
	_, err := q.pop(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFrameQueueConcurrentConsumers(t *testing.T) {
	t.Parallel()
	q := newFrameQueue()
	const consumers, frames = 4, 200

	var wg sync.WaitGroup
	results := make(chan string, frames)
	for range consumers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				f, err := q.pop(context.Background())
				if err != nil {
					return
				}
				results <- f.Text()
			}
		}()
	}
	for i := range frames {
		require.NoError(t, q.push(NewTextFrame(string(rune('a' + i%26)))))
	}
	assert.Eventually(t, func() bool { return q.len() == 0 }, time.Second*5, time.Millisecond)
	q.close()
	wg.Wait()
	close(results)
	assert.Len(t, results, frames)
}
