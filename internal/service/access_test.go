package service

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/sped-tracker-api/pkg/errors"
)

func TestLookupErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want *appErrors.Error
	}{
		{"no rows", sql.ErrNoRows, appErrors.ErrNotFound},
		{"malformed uuid", fmt.Errorf("find: %w", &pq.Error{Code: "22P02"}), appErrors.ErrNotFound},
		{"value too long", &pq.Error{Code: "22001"}, appErrors.ErrValidation},
		{"unique", &pq.Error{Code: "23505"}, appErrors.ErrConflict},
		{"connection", &pq.Error{Code: "08006"}, appErrors.ErrStorageUnavailable},
		{"other", &pq.Error{Code: "42601"}, appErrors.ErrInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, lookupError(tc.err, "missing", "failed"), tc.want)
		})
	}
}

func TestStoreErrorRejectsOversizedValue(t *testing.T) {
	err := storeError(&pq.Error{Code: "22001"}, "failed to create student")
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
}
