package collector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kurihiro0119/portfolio-manifest/internal/errors"
)

func TestRateLimiter_UpdateAndCheck(t *testing.T) {
	rl := NewRateLimiter(0, nil)
	reset := time.Now().Add(time.Minute)

	rl.UpdateLimit(42, reset)

	remaining, gotReset, err := rl.CheckLimit()
	require.NoError(t, err)
	assert.Equal(t, 42, remaining)
	assert.True(t, reset.Equal(gotReset))
}

func TestRateLimiter_LowQuotaDoesNotBlock(t *testing.T) {
	rl := NewRateLimiter(0, nil)
	rl.UpdateLimit(5, time.Now().Add(time.Hour))

	start := time.Now()
	require.NoError(t, rl.Wait(context.Background()))
	require.NoError(t, rl.Wait(context.Background()))
	assert.Less(t, time.Since(start), time.Second)
}

func TestRateLimiter_ExhaustedQuotaFailsFast(t *testing.T) {
	rl := NewRateLimiter(0, nil)
	rl.UpdateLimit(0, time.Now().Add(time.Hour))

	start := time.Now()
	err := rl.Wait(context.Background())
	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, apperrors.IsRateLimited(err))
}

func TestRateLimiter_ExpiredResetDoesNotBlock(t *testing.T) {
	rl := NewRateLimiter(0, nil)
	rl.UpdateLimit(0, time.Now().Add(-time.Second))

	require.NoError(t, rl.Wait(context.Background()))
}

func TestRateLimiter_WaitHonorsContext(t *testing.T) {
	rl := NewRateLimiter(time.Hour, nil)
	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, rl.Wait(ctx), context.Canceled)
}
