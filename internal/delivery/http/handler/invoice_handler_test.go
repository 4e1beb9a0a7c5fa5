package handler

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/usecase"
	"clinic-operations/pkg/response"
	"clinic-operations/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBilling struct {
	mock.Mock
}

func (m *mockBilling) invoice(args mock.Arguments) (*dto.InvoiceResponse, error) {
	inv, _ := args.Get(0).(*dto.InvoiceResponse)
	return inv, args.Error(1)
}

func (m *mockBilling) MaterializeInvoice(ctx context.Context, recordID uuid.UUID) (*dto.InvoiceResponse, error) {
	return m.invoice(m.Called(ctx, recordID))
}

func (m *mockBilling) RecomputeInvoice(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	return m.invoice(m.Called(ctx, id))
}

func (m *mockBilling) GetInvoice(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	return m.invoice(m.Called(ctx, id))
}

func (m *mockBilling) GetInvoiceByRecord(ctx context.Context, recordID uuid.UUID) (*dto.InvoiceResponse, error) {
	return m.invoice(m.Called(ctx, recordID))
}

func (m *mockBilling) SetExaminationFee(ctx context.Context, id uuid.UUID, req *dto.SetExaminationFeeRequest) (*dto.InvoiceResponse, error) {
	return m.invoice(m.Called(ctx, id, req))
}

func (m *mockBilling) Settle(ctx context.Context, id uuid.UUID, req *dto.SettleInvoiceRequest) (*dto.InvoiceResponse, error) {
	return m.invoice(m.Called(ctx, id, req))
}

func (m *mockBilling) Refund(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	return m.invoice(m.Called(ctx, id))
}

func (m *mockBilling) HandleGatewayCallback(ctx context.Context, req *dto.GatewayCallbackRequest) (*dto.GatewayCallbackResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*dto.GatewayCallbackResponse)
	return res, args.Error(1)
}

const testSecret = "gateway-secret"

func newInvoiceHandler(billing usecase.BillingUsecase) *InvoiceHandler {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewInvoiceHandler(billing, validator.NewValidator(), log, testSecret, false)
}

func callbackRequest(t *testing.T, payload interface{}, sign bool) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/gateway/callback", bytes.NewReader(body))
	if sign {
		req.Header.Set(SignatureHeader, hex.EncodeToString(Sign([]byte(testSecret), body)))
	}
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGatewayCallbackSignature(t *testing.T) {
	invoiceID := uuid.New()
	payload := dto.GatewayCallbackRequest{
		InvoiceID:              invoiceID,
		ExternalOrderReference: "ORD-1",
		AmountPaid:             decimal.NewFromInt(130000),
	}

	t.Run("unsigned", func(t *testing.T) {
		billing := new(mockBilling)
		rec := httptest.NewRecorder()
		newInvoiceHandler(billing).GatewayCallback(rec, callbackRequest(t, payload, false))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		billing.AssertNotCalled(t, "HandleGatewayCallback", mock.Anything, mock.Anything)
	})

	t.Run("tampered body", func(t *testing.T) {
		billing := new(mockBilling)
		req := callbackRequest(t, payload, true)
		tampered, err := json.Marshal(dto.GatewayCallbackRequest{
			InvoiceID:              invoiceID,
			ExternalOrderReference: "ORD-1",
			AmountPaid:             decimal.NewFromInt(1),
		})
		require.NoError(t, err)
		req.Body = io.NopCloser(bytes.NewReader(tampered))

		rec := httptest.NewRecorder()
		newInvoiceHandler(billing).GatewayCallback(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("signed", func(t *testing.T) {
		billing := new(mockBilling)
		billing.On("HandleGatewayCallback", mock.Anything, mock.MatchedBy(func(req *dto.GatewayCallbackRequest) bool {
			return req.InvoiceID == invoiceID && req.AmountPaid.Equal(decimal.NewFromInt(130000))
		})).Return(&dto.GatewayCallbackResponse{Acknowledged: true}, nil).Once()

		rec := httptest.NewRecorder()
		newInvoiceHandler(billing).GatewayCallback(rec, callbackRequest(t, payload, true))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Payment applied", decode(t, rec).Message)
		billing.AssertExpectations(t)
	})
}

func TestGatewayCallbackWithoutSecret(t *testing.T) {
	payload := dto.GatewayCallbackRequest{
		InvoiceID:              uuid.New(),
		ExternalOrderReference: "ORD-3",
		AmountPaid:             decimal.NewFromInt(20000),
	}
	log := logrus.New()
	log.SetOutput(io.Discard)

	t.Run("rejected by default", func(t *testing.T) {
		billing := new(mockBilling)
		h := NewInvoiceHandler(billing, validator.NewValidator(), log, "", false)

		rec := httptest.NewRecorder()
		h.GatewayCallback(rec, callbackRequest(t, payload, false))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		billing.AssertNotCalled(t, "HandleGatewayCallback", mock.Anything, mock.Anything)
	})

	t.Run("allowed when unsigned callbacks are enabled", func(t *testing.T) {
		billing := new(mockBilling)
		billing.On("HandleGatewayCallback", mock.Anything, mock.Anything).
			Return(&dto.GatewayCallbackResponse{Acknowledged: true}, nil).Once()
		h := NewInvoiceHandler(billing, validator.NewValidator(), log, "", true)

		rec := httptest.NewRecorder()
		h.GatewayCallback(rec, callbackRequest(t, payload, false))

		assert.Equal(t, http.StatusOK, rec.Code)
		billing.AssertExpectations(t)
	})
}

func TestGatewayCallbackOutcomes(t *testing.T) {
	payload := dto.GatewayCallbackRequest{
		InvoiceID:              uuid.New(),
		ExternalOrderReference: "ORD-2",
		AmountPaid:             decimal.NewFromInt(50000),
	}

	tests := []struct {
		name    string
		result  *dto.GatewayCallbackResponse
		err     error
		status  int
		message string
	}{
		{"replayed reference", &dto.GatewayCallbackResponse{Acknowledged: true, Duplicate: true}, nil, http.StatusOK, "Callback already processed"},
		{"paid another way", nil, usecase.ErrAlreadyPaid, http.StatusOK, "Invoice already paid"},
		{"amount mismatch", nil, usecase.ErrAmountMismatch, http.StatusUnprocessableEntity, ""},
		{"unknown invoice", nil, usecase.ErrInvoiceNotFound, http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			billing := new(mockBilling)
			billing.On("HandleGatewayCallback", mock.Anything, mock.Anything).Return(tt.result, tt.err)

			rec := httptest.NewRecorder()
			newInvoiceHandler(billing).GatewayCallback(rec, callbackRequest(t, payload, true))

			assert.Equal(t, tt.status, rec.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, decode(t, rec).Message)
			}
		})
	}
}

func TestGatewayCallbackValidation(t *testing.T) {
	billing := new(mockBilling)
	rec := httptest.NewRecorder()
	newInvoiceHandler(billing).GatewayCallback(rec, callbackRequest(t, map[string]interface{}{
		"external_order_reference": "ORD-3",
		"amount_paid":              "-5",
	}, true))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", body.Code)
	billing.AssertNotCalled(t, "HandleGatewayCallback", mock.Anything, mock.Anything)
}

func TestSettleHandler(t *testing.T) {
	invoiceID := uuid.New()

	t.Run("bad id", func(t *testing.T) {
		req := mux.SetURLVars(httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"payment_method":"CASH"}`)),
			map[string]string{"id": "not-a-uuid"})
		rec := httptest.NewRecorder()
		newInvoiceHandler(new(mockBilling)).Settle(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing method", func(t *testing.T) {
		req := mux.SetURLVars(httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{}`)),
			map[string]string{"id": invoiceID.String()})
		rec := httptest.NewRecorder()
		newInvoiceHandler(new(mockBilling)).Settle(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("already paid", func(t *testing.T) {
		billing := new(mockBilling)
		billing.On("Settle", mock.Anything, invoiceID, &dto.SettleInvoiceRequest{PaymentMethod: "QRIS"}).
			Return(nil, usecase.ErrAlreadyPaid)

		req := mux.SetURLVars(httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"payment_method":"QRIS"}`)),
			map[string]string{"id": invoiceID.String()})
		rec := httptest.NewRecorder()
		newInvoiceHandler(billing).Settle(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "ALREADY_PAID", decode(t, rec).Code)
		billing.AssertExpectations(t)
	})

	t.Run("settled", func(t *testing.T) {
		billing := new(mockBilling)
		billing.On("Settle", mock.Anything, invoiceID, mock.Anything).
			Return(&dto.InvoiceResponse{ID: invoiceID, PaymentStatus: "PAID"}, nil)

		req := mux.SetURLVars(httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"payment_method":"CASH"}`)),
			map[string]string{"id": invoiceID.String()})
		rec := httptest.NewRecorder()
		newInvoiceHandler(billing).Settle(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		data, ok := decode(t, rec).Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "PAID", data["payment_status"])
	})
}
