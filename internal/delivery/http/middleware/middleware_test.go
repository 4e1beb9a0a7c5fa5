package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinic-operations/config"
	"clinic-operations/internal/domain/entity"
	"clinic-operations/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWT() *jwt.JWTService {
	return jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Hour})
}

// echoStaff writes the staff id and role the middleware put in context.
var echoStaff = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, _ := GetStaffIDFromContext(r.Context())
	role, _ := GetRoleFromContext(r.Context())
	_ = json.NewEncoder(w).Encode(map[string]string{"id": id.String(), "role": string(role)})
})

func TestAuthenticate(t *testing.T) {
	svc := newJWT()
	auth := NewAuthMiddleware(svc).Authenticate(echoStaff)

	staffID := uuid.New()
	token, _, err := svc.GenerateAccessToken(staffID, "doctor")
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		auth.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, staffID.String(), body["id"])
		assert.Equal(t, "DOCTOR", body["role"])
	})

	other, _, err := jwt.NewJWTService(config.JWTConfig{Secret: "other", AccessExpiry: time.Hour}).GenerateAccessToken(staffID, "DOCTOR")
	require.NoError(t, err)
	unknownRole, _, err := svc.GenerateAccessToken(staffID, "JANITOR")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"foreign signature", "Bearer " + other},
		{"unknown role", "Bearer " + unknownRole},
		{"garbage", "Bearer not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			auth.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	guarded := RequireCashier(echoStaff)

	tests := []struct {
		name   string
		role   *entity.StaffRole
		status int
	}{
		{"cashier", ptr(entity.StaffRoleCashier), http.StatusOK},
		{"admin", ptr(entity.StaffRoleAdmin), http.StatusOK},
		{"doctor", ptr(entity.StaffRoleDoctor), http.StatusForbidden},
		{"anonymous", nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.role != nil {
				req = req.WithContext(WithStaff(req.Context(), uuid.New(), *tt.role))
			}
			rec := httptest.NewRecorder()
			guarded.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestLoggingRecordsStaff(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	svc := newJWT()
	staffID := uuid.New()
	token, _, err := svc.GenerateAccessToken(staffID, "ADMIN")
	require.NoError(t, err)

	chain := NewLoggingMiddleware(log).Handle(NewAuthMiddleware(svc).Authenticate(echoStaff))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	chain.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request served", entry["msg"])
	assert.Equal(t, staffID.String(), entry["staff_id"])
	assert.EqualValues(t, http.StatusOK, entry["status"])
	assert.Equal(t, "/api/v1/auth/me", entry["path"])
}

func TestCORSPreflight(t *testing.T) {
	called := false
	h := NewCORSMiddleware().Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/slots", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, called)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowList(t *testing.T) {
	h := NewCORSMiddleware("https://desk.clinic.test").Handle(echoStaff)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://desk.clinic.test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://desk.clinic.test", rec.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func ptr(r entity.StaffRole) *entity.StaffRole { return &r }
