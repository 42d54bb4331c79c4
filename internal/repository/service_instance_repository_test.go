package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sped-tracker-api/internal/models"
)

func TestListScheduledByServiceIDs(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewServiceInstanceRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "service_id", "schedule_id", "day", "time_start", "time_end", "created_at", "updated_at", "schedule_active"}).
		AddRow("i1", "svc1", "sch1", "M", "09:00:00", "09:45:00", now, now, true).
		AddRow("i2", "svc1", nil, "W", nil, nil, now, now, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM service_instances si\n        LEFT JOIN schedules sc ON sc.id = si.schedule_id\n        WHERE si.service_id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(rows)

	instances, err := repo.ListScheduledByServiceIDs(context.Background(), []string{"svc1"})
	require.NoError(t, err)
	require.Len(t, instances, 2)

	require.NotNil(t, instances[0].ScheduleActive)
	assert.True(t, *instances[0].ScheduleActive)
	require.NotNil(t, instances[0].TimeStart)
	assert.Equal(t, 9, instances[0].TimeStart.Hour())
	assert.Equal(t, models.Monday, instances[0].Day)

	assert.Nil(t, instances[1].ScheduleActive)
	assert.Nil(t, instances[1].TimeStart)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListScheduledByServiceIDsEmpty(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewServiceInstanceRepository(db)

	instances, err := repo.ListScheduledByServiceIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, instances)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListEntriesBySchedule(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewServiceInstanceRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "service_id", "schedule_id", "day", "time_start", "time_end", "created_at", "updated_at", "subject", "service_type", "student_first_name", "student_last_name"}).
		AddRow("i1", "svc1", "sch1", "Th", "13:00:00", "13:30:00", now, now, "ELA", "PO", "Ada", "Lovelace").
		AddRow("i2", nil, "sch1", "F", nil, nil, now, now, nil, nil, nil, nil)
	mock.ExpectQuery("LEFT JOIN students st ON st.id = s.student_id").
		WithArgs("sch1").
		WillReturnRows(rows)

	entries, err := repo.ListEntriesBySchedule(context.Background(), "sch1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.NotNil(t, entries[0].Subject)
	assert.Equal(t, models.SubjectELA, *entries[0].Subject)
	assert.Equal(t, "Lovelace", *entries[0].StudentLastName)
	assert.Nil(t, entries[1].ServiceID)
	assert.Nil(t, entries[1].Subject)
}

func TestServiceInstanceRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewServiceInstanceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM service_instances WHERE id = $1")).
		WithArgs("i1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "i1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
