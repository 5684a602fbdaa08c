package semaphore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemaphore_AcquireWithTimeout(t *testing.T) {
	s := New(2)
	ctx := context.Background()

	require.NoError(t, s.AcquireWithTimeout(ctx, 10*time.Millisecond))
	require.NoError(t, s.AcquireWithTimeout(ctx, 10*time.Millisecond))
	assert.Equal(t, 2, s.InUse())

	err := s.AcquireWithTimeout(ctx, 10*time.Millisecond)
	require.ErrorIs(t, err, ErrAcquireTimeout)

	s.Release()
	require.NoError(t, s.AcquireWithTimeout(ctx, 10*time.Millisecond))
}

func TestSemaphore_AcquireCanceled(t *testing.T) {
	s := New(1)
	require.NoError(t, s.AcquireWithTimeout(context.Background(), time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.AcquireWithTimeout(ctx, time.Second)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSemaphore_ZeroCapacity(t *testing.T) {
	s := New(0)
	require.NoError(t, s.AcquireWithTimeout(context.Background(), 10*time.Millisecond))
	assert.Equal(t, 1, s.InUse())
}
