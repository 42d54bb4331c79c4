package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sped-tracker-api/internal/dto"
	"github.com/noah-isme/sped-tracker-api/internal/models"
)

type failingCacheRepo struct{ err error }

func (f failingCacheRepo) Get(ctx context.Context, key string, dest interface{}) error { return f.err }
func (f failingCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return f.err
}
func (f failingCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error { return f.err }

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, 0, nil, false)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "k", "v", 0))
	hit, err := svc.Get(ctx, "k", new(string))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, repo.data)
}

func TestCacheServiceNilReceiver(t *testing.T) {
	var svc *CacheService
	assert.False(t, svc.Enabled())
	svc.InvalidateSchedules(context.Background())
}

func TestCacheServiceRecordsHitRatio(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewCacheService(newMemoryCacheRepo(), metrics, time.Minute, nil, true)
	ctx := context.Background()

	var out string
	hit, err := svc.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(ctx, "k", "v", 0))
	hit, err = svc.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "v", out)
	assert.Equal(t, 0.5, testutil.ToFloat64(metrics.cacheHitRatio))
}

func TestCacheServiceSurfacesBackendErrors(t *testing.T) {
	svc := NewCacheService(failingCacheRepo{err: errors.New("redis down")}, nil, 0, nil, true)

	hit, err := svc.Get(context.Background(), "k", new(string))
	assert.Error(t, err)
	assert.False(t, hit)
	assert.Error(t, svc.Invalidate(context.Background(), "*"))
}

func TestCacheServiceWeekViewRoundTrip(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, nil, true)
	ctx := context.Background()

	_, ok := svc.WeekView(ctx, "s1")
	assert.False(t, ok)

	svc.StoreWeekView(ctx, "s1", dto.WeekView{Schedule: &models.Schedule{ID: "s1"}}, 0)
	view, ok := svc.WeekView(ctx, "s1")
	require.True(t, ok)
	assert.Equal(t, "s1", view.Schedule.ID)
	assert.Contains(t, repo.data, weekViewCacheKey("s1"))

	svc.InvalidateSchedules(ctx)
	_, ok = svc.WeekView(ctx, "s1")
	assert.False(t, ok)
}
