package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/usecase"
	"clinic-operations/pkg/response"
	"clinic-operations/pkg/validator"

	"github.com/sirupsen/logrus"
)

const (
	// SignatureHeader carries the hex HMAC-SHA256 of the raw callback body.
	SignatureHeader = "X-Gateway-Signature"

	maxCallbackBody = 64 << 10
)

type InvoiceHandler struct {
	billingUsecase usecase.BillingUsecase
	validator      *validator.CustomValidator
	log            *logrus.Logger
	gatewaySecret  []byte
	allowUnsigned  bool
}

func NewInvoiceHandler(billingUsecase usecase.BillingUsecase, validator *validator.CustomValidator, log *logrus.Logger, gatewaySecret string, allowUnsigned bool) *InvoiceHandler {
	return &InvoiceHandler{
		billingUsecase: billingUsecase,
		validator:      validator,
		log:            log,
		gatewaySecret:  []byte(gatewaySecret),
		allowUnsigned:  allowUnsigned,
	}
}

func (h *InvoiceHandler) MaterializeInvoice(w http.ResponseWriter, r *http.Request) {
	recordID, ok := pathID(w, r, "id", "record")
	if !ok {
		return
	}

	invoice, err := h.billingUsecase.MaterializeInvoice(r.Context(), recordID)
	if err != nil {
		writeError(w, err, "Failed to materialize invoice")
		return
	}

	response.Success(w, http.StatusOK, "Invoice materialized successfully", invoice)
}

func (h *InvoiceHandler) GetInvoiceByRecord(w http.ResponseWriter, r *http.Request) {
	recordID, ok := pathID(w, r, "id", "record")
	if !ok {
		return
	}

	invoice, err := h.billingUsecase.GetInvoiceByRecord(r.Context(), recordID)
	if err != nil {
		writeError(w, err, "Failed to get invoice")
		return
	}

	response.Success(w, http.StatusOK, "Invoice retrieved successfully", invoice)
}

func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.billingUsecase.GetInvoice(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get invoice")
		return
	}

	response.Success(w, http.StatusOK, "Invoice retrieved successfully", invoice)
}

func (h *InvoiceHandler) RecomputeInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.billingUsecase.RecomputeInvoice(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to recompute invoice")
		return
	}

	response.Success(w, http.StatusOK, "Invoice recomputed successfully", invoice)
}

func (h *InvoiceHandler) SetExaminationFee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "invoice")
	if !ok {
		return
	}

	var req dto.SetExaminationFeeRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	invoice, err := h.billingUsecase.SetExaminationFee(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to set examination fee")
		return
	}

	response.Success(w, http.StatusOK, "Examination fee updated successfully", invoice)
}

func (h *InvoiceHandler) Settle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "invoice")
	if !ok {
		return
	}

	var req dto.SettleInvoiceRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	invoice, err := h.billingUsecase.Settle(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to settle invoice")
		return
	}

	response.Success(w, http.StatusOK, "Invoice settled successfully", invoice)
}

func (h *InvoiceHandler) Refund(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.billingUsecase.Refund(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to refund invoice")
		return
	}

	response.Success(w, http.StatusOK, "Invoice refunded successfully", invoice)
}

// GatewayCallback applies a payment notification. Replays and notifications
// for an invoice paid some other way are acknowledged with 200 so the gateway
// stops retrying.
func (h *InvoiceHandler) GatewayCallback(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCallbackBody))
	if err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if !h.verifySignature(body, r.Header.Get(SignatureHeader)) {
		h.log.WithField("remote_addr", r.RemoteAddr).Warn("Gateway callback rejected: bad signature")
		response.Unauthorized(w, "Invalid signature")
		return
	}

	var req dto.GatewayCallbackRequest
	if err := json.Unmarshal(body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.billingUsecase.HandleGatewayCallback(r.Context(), &req)
	if err != nil {
		if errors.Is(err, usecase.ErrAlreadyPaid) {
			h.log.WithFields(logrus.Fields{
				"invoice_id": req.InvoiceID,
				"reference":  req.ExternalOrderReference,
			}).Warn("Gateway callback for an invoice already paid by another path")
			response.Success(w, http.StatusOK, "Invoice already paid", &dto.GatewayCallbackResponse{Acknowledged: true, Duplicate: true})
			return
		}
		writeError(w, err, "Failed to process callback")
		return
	}

	message := "Payment applied"
	if result.Duplicate {
		message = "Callback already processed"
	}
	response.Success(w, http.StatusOK, message, result)
}

// verifySignature rejects everything when no secret is configured, unless
// unsigned callbacks were explicitly allowed.
func (h *InvoiceHandler) verifySignature(body []byte, signature string) bool {
	if len(h.gatewaySecret) == 0 {
		return h.allowUnsigned
	}
	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(got, Sign(h.gatewaySecret, body))
}

// Sign computes the HMAC-SHA256 the gateway is expected to send.
func Sign(secret, body []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return mac.Sum(nil)
}
