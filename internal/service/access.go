package service

import (
	"database/sql"
	"errors"

	"github.com/noah-isme/sped-tracker-api/internal/models"
	"github.com/noah-isme/sped-tracker-api/pkg/database"
	appErrors "github.com/noah-isme/sped-tracker-api/pkg/errors"
)

// requireUser rejects anonymous callers. Every mutation and every detail read
// goes through it before touching the payload or the store.
func requireUser(identity models.Identity) error {
	if identity.Anonymous() {
		return appErrors.Clone(appErrors.ErrUnauthorized, "login required")
	}
	return nil
}

// requireStaff additionally demands the staff flag, used by listings and
// detail pages.
func requireStaff(identity models.Identity) error {
	if err := requireUser(identity); err != nil {
		return err
	}
	if !identity.IsStaff {
		return appErrors.Clone(appErrors.ErrForbidden, "staff access required")
	}
	return nil
}

func validationError(err error, message string) error {
	return appErrors.WrapAs(err, appErrors.ErrValidation, message)
}

// storeError maps a repository failure onto the public error kinds.
func storeError(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case database.IsUnavailable(err):
		return appErrors.WrapAs(err, appErrors.ErrStorageUnavailable, message)
	case database.IsUniqueViolation(err):
		return appErrors.WrapAs(err, appErrors.ErrConflict, message)
	case database.IsDataException(err):
		return appErrors.WrapAs(err, appErrors.ErrValidation, "value rejected by storage")
	case database.IsForeignKeyViolation(err):
		return appErrors.WrapAs(err, appErrors.ErrValidation, "referenced record does not exist")
	default:
		return appErrors.WrapAs(err, appErrors.ErrInternal, message)
	}
}

// lookupError is storeError with sql.ErrNoRows reported as NotFound. An id
// that is not a UUID cannot name a row, so it is NotFound too.
func lookupError(err error, notFound, message string) error {
	if errors.Is(err, sql.ErrNoRows) || database.IsInvalidText(err) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return storeError(err, message)
}
