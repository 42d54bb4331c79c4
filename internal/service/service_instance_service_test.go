package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sped-tracker-api/internal/models"
	appErrors "github.com/noah-isme/sped-tracker-api/pkg/errors"
)

const (
	serviceUUID  = "6f1c2a8e-8f44-4b0f-9d4e-0a4b7f1f5c10"
	scheduleUUID = "9a0e5d2b-7c3f-4e61-8b2a-5d6c7e8f9a01"
)

func timePtr(t *testing.T, raw string) *models.TimeOfDay {
	t.Helper()
	v, err := models.ParseTimeOfDay(raw)
	require.NoError(t, err)
	return &v
}

func TestServiceInstanceCreate(t *testing.T) {
	store := newFakeStore()
	cacheRepo := newMemoryCacheRepo()
	svc := NewServiceInstanceService(fakeInstances{store}, NewCacheService(cacheRepo, nil, 0, nil, true), nil, nil)

	inst, err := svc.Create(context.Background(), teacher, ServiceInstanceRequest{
		ServiceID:  serviceUUID,
		ScheduleID: scheduleUUID,
		Day:        models.Thursday,
		TimeStart:  timePtr(t, "11:30"),
		TimeEnd:    timePtr(t, "12:15"),
	})
	require.NoError(t, err)
	require.NotNil(t, inst.Duration())
	assert.Equal(t, 675, *inst.Duration())
	assert.Equal(t, []string{scheduleCachePattern}, cacheRepo.invalidated)
}

func TestServiceInstanceAcceptsReversedTimes(t *testing.T) {
	store := newFakeStore()
	svc := NewServiceInstanceService(fakeInstances{store}, nil, nil, nil)

	inst, err := svc.Create(context.Background(), teacher, ServiceInstanceRequest{
		ServiceID:  serviceUUID,
		ScheduleID: scheduleUUID,
		Day:        models.Monday,
		TimeStart:  timePtr(t, "10:00"),
		TimeEnd:    timePtr(t, "09:15"),
	})
	require.NoError(t, err)
	require.NotNil(t, inst.Duration())
	assert.Equal(t, 45, *inst.Duration())
}

func TestServiceInstanceCreateWithoutTimes(t *testing.T) {
	store := newFakeStore()
	svc := NewServiceInstanceService(fakeInstances{store}, nil, nil, nil)

	inst, err := svc.Create(context.Background(), teacher, ServiceInstanceRequest{ServiceID: serviceUUID, ScheduleID: scheduleUUID, Day: models.Friday})
	require.NoError(t, err)
	assert.Nil(t, inst.Duration())
}

func TestServiceInstanceValidation(t *testing.T) {
	store := newFakeStore()
	svc := NewServiceInstanceService(fakeInstances{store}, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, teacher, ServiceInstanceRequest{ServiceID: serviceUUID, ScheduleID: scheduleUUID, Day: "Sa"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Create(ctx, teacher, ServiceInstanceRequest{
		ServiceID: serviceUUID, ScheduleID: scheduleUUID, Day: models.Monday,
		TimeStart: timePtr(t, "10:00"), TimeEnd: timePtr(t, "09:00"),
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Create(ctx, anonymous, ServiceInstanceRequest{Day: "Sa"})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	assert.Empty(t, store.instances)
}

func TestServiceInstanceUpdateMissing(t *testing.T) {
	store := newFakeStore()
	svc := NewServiceInstanceService(fakeInstances{store}, nil, nil, nil)

	_, err := svc.Update(context.Background(), teacher, "missing", ServiceInstanceRequest{ServiceID: serviceUUID, ScheduleID: scheduleUUID, Day: models.Monday})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
