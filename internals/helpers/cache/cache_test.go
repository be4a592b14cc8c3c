package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stats struct {
	Groups  int64 `json:"groups"`
	Mentees int64 `json:"mentees"`
}

func TestRemember_ComputesOnceThenHits(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	calls := 0
	compute := func() (stats, error) {
		calls++
		return stats{Groups: 3, Mentees: 10}, nil
	}

	first, err := Remember(ctx, c, "dashboard", time.Minute, compute)
	require.NoError(t, err)
	second, err := Remember(ctx, c, "dashboard", time.Minute, compute)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestRemember_Expiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()
	calls := 0
	compute := func() (int, error) { calls++; return calls, nil }

	_, _ = Remember(ctx, c, "k", time.Minute, compute)
	now = now.Add(2 * time.Minute)
	v, err := Remember(ctx, c, "k", time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestRemember_ErrorNotCached(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	boom := errors.New("db down")

	_, err := Remember(ctx, c, "k", time.Minute, func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	var out int
	assert.ErrorIs(t, c.GetJSON(ctx, "k", &out), ErrCacheMiss)
}

func TestNoopCache_AlwaysMisses(t *testing.T) {
	c := NewNoopCache()
	ctx := context.Background()
	require.NoError(t, c.SetJSON(ctx, "k", 1, time.Minute))
	var out int
	assert.ErrorIs(t, c.GetJSON(ctx, "k", &out), ErrCacheMiss)
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	require.NoError(t, c.SetJSON(ctx, "a", stats{Groups: 1}, 0))
	require.NoError(t, c.Delete(ctx, "a"))
	var out stats
	assert.ErrorIs(t, c.GetJSON(ctx, "a", &out), ErrCacheMiss)
}
