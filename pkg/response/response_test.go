package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccessEnvelope(t *testing.T) {
	c, w := newTestContext()
	c.Set("request_id", "req-123")

	Success(c, http.StatusCreated, map[string]string{"name": "Asha"}, "created", nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "created", body["message"])
	assert.Equal(t, "req-123", body["request_id"])
	assert.Equal(t, float64(http.StatusCreated), body["status"])
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Asha", data["name"])
}

func TestSuccessDefaultsToOK(t *testing.T) {
	c, w := newTestContext()
	Success[any](c, 0, nil, "ok", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestErrorEnvelope(t *testing.T) {
	c, w := newTestContext()

	Error[any](c, http.StatusNotFound, "not found", map[string]string{"id": "missing"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "not found", body["message"])
	errDetails, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "missing", errDetails["id"])
	assert.NotContains(t, body, "data")
}

func TestAbortErrorStopsChain(t *testing.T) {
	c, w := newTestContext()

	AbortError(c, http.StatusUnauthorized, "missing access token", nil)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
}
