package converter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/calendar"
	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrMalformedOrderedServices is returned when the compact service list
// cannot be parsed.
var ErrMalformedOrderedServices = errors.New("ordered_services must look like id:qty,id:qty")

// FormatOrderedServices renders service lines as "id:qty,id:qty" in
// position order. Lines must already be sorted by position.
func FormatOrderedServices(lines []entity.ServiceLine) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.ServiceID.String() + ":" + strconv.Itoa(l.Quantity)
	}
	return strings.Join(parts, ",")
}

// ParseOrderedServices is the inverse of FormatOrderedServices. Blank input
// yields an empty list. A missing quantity means 1. Quantities are not
// range-checked here.
func ParseOrderedServices(s string) ([]dto.ServiceLineRequest, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []dto.ServiceLineRequest{}, nil
	}

	items := strings.Split(s, ",")
	out := make([]dto.ServiceLineRequest, 0, len(items))
	for _, item := range items {
		idPart, qtyPart, hasQty := strings.Cut(strings.TrimSpace(item), ":")
		id, err := uuid.Parse(strings.TrimSpace(idPart))
		if err != nil {
			return nil, fmt.Errorf("%w: bad id %q", ErrMalformedOrderedServices, idPart)
		}
		qty := 1
		if hasQty {
			qty, err = strconv.Atoi(strings.TrimSpace(qtyPart))
			if err != nil {
				return nil, fmt.Errorf("%w: bad quantity %q", ErrMalformedOrderedServices, qtyPart)
			}
		}
		out = append(out, dto.ServiceLineRequest{ServiceID: id, Quantity: qty})
	}
	return out, nil
}

// CareRecordToResponse converts a record and, when given, its invoice.
func CareRecordToResponse(record *entity.CareEpisodeRecord, invoice *entity.Invoice) *dto.CareRecordResponse {
	if record == nil {
		return nil
	}

	prescriptions := make([]dto.PrescriptionLineResponse, len(record.Prescriptions))
	for i, l := range record.Prescriptions {
		prescriptions[i] = dto.PrescriptionLineResponse{
			ID:         l.ID,
			MedicineID: l.MedicineID,
			Quantity:   l.Quantity,
			Dosage:     l.Dosage,
			Days:       l.Days,
			UnitPrice:  l.UnitPrice,
			Amount:     l.Amount(),
		}
	}

	services := make([]dto.ServiceLineResponse, len(record.Services))
	for i, l := range record.Services {
		services[i] = dto.ServiceLineResponse{
			ID:        l.ID,
			ServiceID: l.ServiceID,
			Quantity:  l.Quantity,
			Position:  l.Position,
			UnitPrice: l.UnitPrice,
			Amount:    l.Amount(),
		}
	}

	return &dto.CareRecordResponse{
		ID:              record.ID,
		ReceptionID:     record.ReceptionID,
		DoctorID:        record.DoctorID,
		PatientID:       record.PatientID,
		ExaminedAt:      record.ExaminedAt,
		Symptoms:        record.Symptoms,
		Diagnosis:       record.Diagnosis,
		DiseaseType:     record.DiseaseType,
		Notes:           record.Notes,
		Prescriptions:   prescriptions,
		Services:        services,
		OrderedServices: FormatOrderedServices(record.Services),
		MedicineFee:     record.MedicineFee(),
		ServiceFee:      record.ServiceFee(),
		Invoice:         InvoiceToResponse(invoice, nil),
	}
}

// InvoiceToResponse converts an Invoice entity, attaching payment when present.
func InvoiceToResponse(inv *entity.Invoice, payment *entity.Payment) *dto.InvoiceResponse {
	if inv == nil {
		return nil
	}

	response := &dto.InvoiceResponse{
		ID:                inv.ID,
		RecordID:          inv.RecordID,
		PatientID:         inv.PatientID,
		InvoiceDate:       inv.InvoiceDate.Format(calendar.DateLayout),
		ExaminationFee:    inv.ExaminationFee,
		MedicineFee:       inv.MedicineFee,
		ServiceFee:        inv.ServiceFee,
		TotalAmount:       inv.TotalAmount,
		PaymentStatus:     string(inv.PaymentStatus),
		IssuedByStaffID:   inv.IssuedByStaffID,
		SettledBy:         inv.SettledBy,
		ExternalReference: inv.ExternalReference,
		PaidAt:            inv.PaidAt,
		RefundedAt:        inv.RefundedAt,
	}
	if inv.PaymentMethod != nil {
		method := string(*inv.PaymentMethod)
		response.PaymentMethod = &method
	}
	if payment != nil {
		response.Payment = &dto.PaymentResponse{
			ID:                payment.ID,
			Method:            string(payment.Method),
			Amount:            payment.Amount,
			SettledBy:         payment.SettledBy,
			ExternalReference: payment.ExternalReference,
			CreatedAt:         payment.CreatedAt,
		}
	}
	return response
}
