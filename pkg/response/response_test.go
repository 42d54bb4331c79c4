package response

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/sped-tracker-api/pkg/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, rec
}

func TestErrorHidesCause(t *testing.T) {
	c, rec := newContext()

	Error(c, appErrors.WrapAs(sql.ErrConnDone, appErrors.ErrStorageUnavailable, "failed to list students"))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), sql.ErrConnDone.Error())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.Len(t, c.Errors, 1)

	var body map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "STORAGE_UNAVAILABLE", body["error"]["code"])
}

func TestErrorClientKindsNotLogged(t *testing.T) {
	c, rec := newContext()

	Error(c, appErrors.Clone(appErrors.ErrNotFound, "student not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, c.Errors)
}

func TestJSONOmitsEmptyMeta(t *testing.T) {
	c, rec := newContext()

	JSON(c, http.StatusOK, map[string]int{"student_count": 2}, nil, map[string]interface{}{})

	assert.JSONEq(t, `{"data":{"student_count":2}}`, rec.Body.String())
}

func TestAttachment(t *testing.T) {
	c, rec := newContext()

	Attachment(c, "schedule-1.csv", "text/csv", []byte("Day\n"))

	assert.Equal(t, `attachment; filename="schedule-1.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Day\n", rec.Body.String())
}
