package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/usecase"
	"clinic-operations/pkg/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", usecase.ErrInvoiceNotFound, http.StatusNotFound, "INVOICE_NOT_FOUND"},
		{"wrapped conflict", fmt.Errorf("book: %w", usecase.ErrSlotUnavailable), http.StatusConflict, "SLOT_UNAVAILABLE"},
		{"locked record", usecase.ErrRecordLocked, http.StatusLocked, "RECORD_LOCKED"},
		{"business rule", usecase.ErrAppointmentNotConfirmed, http.StatusUnprocessableEntity, "APPOINTMENT_NOT_CONFIRMED"},
		{"bad enum", fmt.Errorf("%w: role", entity.ErrInvalidEnum), http.StatusBadRequest, "INVALID_ENUM"},
		{"infrastructure", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err, "Something failed")

			assert.Equal(t, tt.status, rec.Code)
			var body response.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestWriteErrorHidesInfrastructureDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("pq: password authentication failed"), "Failed to get invoice")

	assert.NotContains(t, rec.Body.String(), "password")
	assert.Contains(t, rec.Body.String(), "Failed to get invoice")
}
