package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sped-tracker-api/internal/models"
	appErrors "github.com/noah-isme/sped-tracker-api/pkg/errors"
)

type memoryCacheRepo struct {
	mu          sync.Mutex
	data        map[string][]byte
	invalidated []string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{data: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = append(m.invalidated, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			delete(m.data, key)
		}
	}
	return nil
}

type scheduleFixture struct {
	svc     *ScheduleService
	store   *fakeStore
	cache   *memoryCacheRepo
	metrics *MetricsService
}

func newScheduleFixture() scheduleFixture {
	store := newFakeStore()
	cacheRepo := newMemoryCacheRepo()
	metrics := NewMetricsService()
	cache := NewCacheService(cacheRepo, metrics, time.Minute, nil, true)
	svc := NewScheduleService(fakeSchedules{store}, fakeInstances{store}, cache, metrics, nil, nil, ScheduleServiceConfig{})
	return scheduleFixture{svc: svc, store: store, cache: cacheRepo, metrics: metrics}
}

func TestBuildWeekViewBucketsByDay(t *testing.T) {
	monday, _ := models.ParseTimeOfDay("09:00")
	wednesday, _ := models.ParseTimeOfDay("10:00")
	instances := []models.ServiceInstance{
		{ID: "a", Day: models.Monday, TimeStart: &monday},
		{ID: "b", Day: models.Wednesday, TimeStart: &wednesday},
	}

	view := BuildWeekView(instances)

	require.Len(t, view.Days, 5)
	order := make([]models.Weekday, 0, 5)
	for _, d := range view.Days {
		order = append(order, d.Day)
	}
	assert.Equal(t, models.Weekdays, order)
	assert.Len(t, view.Day(models.Monday), 1)
	assert.Len(t, view.Day(models.Wednesday), 1)
	assert.Empty(t, view.Day(models.Tuesday))
	assert.Empty(t, view.Day(models.Thursday))
	assert.Empty(t, view.Day(models.Friday))
	assert.Same(t, &instances[0], view.Day(models.Monday)[0])
}

func TestBuildWeekViewKeepsInputOrder(t *testing.T) {
	instances := []models.ServiceInstance{
		{ID: "late", Day: models.Friday},
		{ID: "early", Day: models.Friday},
	}

	view := BuildWeekView(instances)
	friday := view.Day(models.Friday)
	require.Len(t, friday, 2)
	assert.Equal(t, "late", friday[0].ID)
	assert.Equal(t, "early", friday[1].ID)
}

func TestBuildSlotViewComparesRawHour(t *testing.T) {
	nine, _ := models.ParseTimeOfDay("09:15")
	one, _ := models.ParseTimeOfDay("13:00")
	instances := []models.ServiceInstance{
		{ID: "morning", Day: models.Tuesday, TimeStart: &nine},
		{ID: "afternoon", Day: models.Tuesday, TimeStart: &one},
		{ID: "untimed", Day: models.Tuesday},
	}

	view := BuildSlotView(instances)

	morning := view.Slot(models.Tuesday, "9 AM")
	require.Len(t, morning, 1)
	assert.Equal(t, "morning", morning[0].ID)
	assert.Empty(t, view.Slot(models.Tuesday, "1 PM"))

	placed := 0
	for _, day := range view.Days {
		require.Len(t, day.Slots, len(HourSlots))
		for _, slot := range day.Slots {
			placed += len(slot.Instances)
		}
	}
	assert.Equal(t, 1, placed)
}

func TestSetActiveLeavesSingleActiveSchedule(t *testing.T) {
	f := newScheduleFixture()
	a := f.store.addSchedule(true)
	b := f.store.addSchedule(false)

	activated, err := f.svc.SetActive(context.Background(), teacher, b.ID)
	require.NoError(t, err)
	assert.True(t, activated.Active)
	assert.False(t, f.store.schedules[a.ID].Active)
	assert.Equal(t, 1, f.store.activeCount())
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.scheduleActivations))
}

func TestConcurrentActivationsKeepOneActive(t *testing.T) {
	f := newScheduleFixture()
	var ids []string
	for i := 0; i < 8; i++ {
		ids = append(ids, f.store.addSchedule(false).ID)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, _ = f.svc.SetActive(context.Background(), teacher, id)
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, f.store.activeCount())
}

func TestSetActiveMissingSchedule(t *testing.T) {
	f := newScheduleFixture()

	_, err := f.svc.SetActive(context.Background(), teacher, "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, float64(0), testutil.ToFloat64(f.metrics.scheduleActivations))
}

func TestSetActiveRequiresUser(t *testing.T) {
	f := newScheduleFixture()
	s := f.store.addSchedule(false)

	_, err := f.svc.SetActive(context.Background(), anonymous, s.ID)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
	assert.Equal(t, 0, f.store.activeCount())
}

func TestCreateActiveScheduleClearsOthers(t *testing.T) {
	f := newScheduleFixture()
	old := f.store.addSchedule(true)

	created, err := f.svc.Create(context.Background(), teacher, ScheduleRequest{Title: "Spring", StartDate: "2024-01-08", EndDate: "2024-05-31", Active: true})
	require.NoError(t, err)
	assert.True(t, created.Active)
	assert.Equal(t, "t2", *created.TeacherID)
	assert.False(t, f.store.schedules[old.ID].Active)
	assert.Equal(t, 1, f.store.activeCount())
}

func TestCreateScheduleValidation(t *testing.T) {
	f := newScheduleFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, teacher, ScheduleRequest{Title: "Bad", StartDate: "2024-05-31", EndDate: "2024-01-08"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = f.svc.Create(ctx, teacher, ScheduleRequest{Title: "Bad", StartDate: "05/31/2024", EndDate: "2024-06-01"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Empty(t, f.store.schedules)
}

func TestUpdateScheduleDeactivates(t *testing.T) {
	f := newScheduleFixture()
	s := f.store.addSchedule(true)

	updated, err := f.svc.Update(context.Background(), teacher, s.ID, ScheduleRequest{Title: "Renamed", StartDate: "2024-01-08", EndDate: "2024-05-31"})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Equal(t, 0, f.store.activeCount())
	assert.Equal(t, "Renamed", f.store.schedules[s.ID].Title)
}

func TestWeekViewIsCachedUntilInstancesChange(t *testing.T) {
	f := newScheduleFixture()
	ctx := context.Background()
	s := f.store.addSchedule(true)
	first := f.store.addInstance("svc1", s.ID, models.Monday, "09:00", "09:45")

	view, hit, err := f.svc.WeekView(ctx, staff, s.ID)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, view.Day(models.Monday), 1)

	f.store.addInstance("svc1", s.ID, models.Tuesday, "10:00", "10:30")

	view, hit, err = f.svc.WeekView(ctx, staff, s.ID)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Empty(t, view.Day(models.Tuesday))
	assert.Equal(t, s.ID, view.Schedule.ID)

	instances := NewServiceInstanceService(fakeInstances{f.store}, f.svc.cache, nil, nil)
	require.NoError(t, instances.Delete(ctx, teacher, first.ID))

	view, hit, err = f.svc.WeekView(ctx, staff, s.ID)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, view.Day(models.Monday))
	assert.Len(t, view.Day(models.Tuesday), 1)
}

func TestWeekViewRequiresStaff(t *testing.T) {
	f := newScheduleFixture()
	s := f.store.addSchedule(false)

	_, _, err := f.svc.WeekView(context.Background(), teacher, s.ID)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestGetActiveWithoutActiveSchedule(t *testing.T) {
	f := newScheduleFixture()
	f.store.addSchedule(false)

	_, err := f.svc.GetActive(context.Background(), staff)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestDeleteScheduleDetachesInstances(t *testing.T) {
	f := newScheduleFixture()
	s := f.store.addSchedule(false)
	inst := f.store.addInstance("svc1", s.ID, models.Friday, "", "")

	require.NoError(t, f.svc.Delete(context.Background(), teacher, s.ID))
	assert.Nil(t, inst.ScheduleID)
	assert.Contains(t, f.cache.invalidated, scheduleCachePattern)
}
