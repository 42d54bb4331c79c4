package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sped-tracker-api/internal/models"
	appErrors "github.com/noah-isme/sped-tracker-api/pkg/errors"
)

type userRepoStub struct {
	users   []models.User
	deleted []string
}

func (r *userRepoStub) List(ctx context.Context, req models.PageRequest) ([]models.User, int, error) {
	return r.users, len(r.users), nil
}

func (r *userRepoStub) Delete(ctx context.Context, id string) error {
	for _, u := range r.users {
		if u.ID == id {
			r.deleted = append(r.deleted, id)
			return nil
		}
	}
	return sql.ErrNoRows
}

func TestListTeachers(t *testing.T) {
	repo := &userRepoStub{users: []models.User{{ID: "t1"}, {ID: "t2"}}}
	svc := NewUserService(repo, nil, nil)

	users, page, err := svc.ListTeachers(context.Background(), staff, models.PageRequest{PageSize: 500})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, 20, page.PageSize)

	_, _, err = svc.ListTeachers(context.Background(), teacher, models.PageRequest{})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestDeleteTeacher(t *testing.T) {
	repo := &userRepoStub{users: []models.User{{ID: "t1"}, {ID: "t2"}}}
	svc := NewUserService(repo, nil, nil)
	ctx := context.Background()

	require.NoError(t, svc.DeleteTeacher(ctx, staff, "t2"))
	assert.Equal(t, []string{"t2"}, repo.deleted)

	assert.ErrorIs(t, svc.DeleteTeacher(ctx, staff, "t1"), appErrors.ErrValidation)
	assert.ErrorIs(t, svc.DeleteTeacher(ctx, staff, "ghost"), appErrors.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteTeacher(ctx, teacher, "t1"), appErrors.ErrForbidden)
}
