package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/rbc-sheets-api/pkg/errors"
	"github.com/noah-isme/rbc-sheets-api/pkg/sheets"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, rec
}

func TestJSONIncludesPagination(t *testing.T) {
	c, rec := newContext()

	JSON(c, http.StatusOK, []string{"a"}, &sheets.Pagination{Current: 2, Pages: 3, Total: 25, Limit: 10})

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(3), pagination["pages"])
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestErrorMapsStatusAndMessage(t *testing.T) {
	c, rec := newContext()

	Error(c, appErrors.Validation("Email is required"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Email is required", body.Message)
	assert.Equal(t, appErrors.ErrValidation.Code, body.Error.Code)
}

func TestErrorUnknownBecomesInternal(t *testing.T) {
	c, rec := newContext()

	Error(c, errors.New("googleapi: Error 403: forbidden"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "googleapi: Error 403")
	assert.Len(t, c.Errors, 1)
}
