package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedDelay(t *testing.T) {
	fd := NewFixedDelay(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, fd.Wait(ctx))
	assert.Less(t, time.Since(start), 40*time.Millisecond, "first wait should not block")

	start = time.Now()
	require.NoError(t, fd.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)

	fd.Reset()
	start = time.Now()
	require.NoError(t, fd.Wait(ctx))
	assert.Less(t, time.Since(start), 40*time.Millisecond, "wait after reset should not block")
}

func TestFixedDelayCancelled(t *testing.T) {
	fd := NewFixedDelay(time.Hour)
	require.NoError(t, fd.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := fd.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTokenBucket(t *testing.T) {
	tb := NewTokenBucket(3, 100*time.Millisecond)

	for i := 0; i < 3; i++ {
		assert.True(t, tb.Allow(), "token %d should be available", i+1)
	}
	assert.False(t, tb.Allow(), "bucket should be exhausted")

	require.NoError(t, tb.Wait(context.Background()))

	tb.Reset()
	assert.Equal(t, tb.capacity, tb.tokens)
}

func TestTokenBucketCancelled(t *testing.T) {
	tb := NewTokenBucket(1, time.Hour)
	require.True(t, tb.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tb.Wait(ctx), context.Canceled)
}

func TestUnlimited(t *testing.T) {
	var l Limiter = Unlimited{}
	assert.NoError(t, l.Wait(context.Background()))
}
