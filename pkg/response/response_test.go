package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusCreated, "Created", map[string]string{"id": "42"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, "Created", body.Message)
	assert.Empty(t, body.Code)
}

func TestFailCarriesCode(t *testing.T) {
	rec := httptest.NewRecorder()
	Conflict(rec, "SLOT_UNAVAILABLE", "Slot is not available")

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decode(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "SLOT_UNAVAILABLE", body.Code)
}

func TestDefaultMessages(t *testing.T) {
	tests := []struct {
		name   string
		write  func(w http.ResponseWriter)
		status int
		code   string
		msg    string
	}{
		{"not found", func(w http.ResponseWriter) { NotFound(w, "") }, http.StatusNotFound, "NOT_FOUND", "Resource not found"},
		{"unauthorized", func(w http.ResponseWriter) { Unauthorized(w, "") }, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized"},
		{"forbidden", func(w http.ResponseWriter) { Forbidden(w, "") }, http.StatusForbidden, "FORBIDDEN", "Forbidden"},
		{"internal", func(w http.ResponseWriter) { InternalServerError(w, "") }, http.StatusInternalServerError, "INTERNAL", "Internal server error"},
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "") }, http.StatusBadRequest, "BAD_REQUEST", "Bad request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)
			assert.Equal(t, tt.status, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.msg, body.Message)
		})
	}
}

func TestNewMeta(t *testing.T) {
	assert.Equal(t, 3, NewMeta(1, 10, 21).TotalPages)
	assert.Equal(t, 2, NewMeta(1, 10, 20).TotalPages)
	assert.Equal(t, 0, NewMeta(1, 0, 5).TotalPages)
}
