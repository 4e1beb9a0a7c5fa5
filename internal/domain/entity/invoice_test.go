package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestApplyFeesKeepsTotal(t *testing.T) {
	inv := &Invoice{PaymentStatus: PaymentStatusUnpaid}
	inv.ApplyFees(InvoiceFees{
		ExaminationFee: decimal.NewFromInt(50000),
		MedicineFee:    decimal.NewFromInt(30000),
		ServiceFee:     decimal.RequireFromString("12500.50"),
	})

	assert.True(t, inv.TotalAmount.Equal(decimal.RequireFromString("92500.50")))
	assert.True(t, inv.Fees().Total().Equal(inv.TotalAmount))
	assert.False(t, inv.LocksRecord())
}

func TestSettledBySame(t *testing.T) {
	cashier := uuid.New()
	ref := "ORD-1"
	cash := PaymentMethodCash
	gateway := PaymentMethodGateway

	paidCash := &Invoice{PaymentStatus: PaymentStatusPaid, PaymentMethod: &cash, SettledBy: &cashier}
	assert.True(t, paidCash.SettledBySame(Settlement{Method: PaymentMethodCash, SettledBy: &cashier}))
	assert.False(t, paidCash.SettledBySame(Settlement{Method: PaymentMethodCard, SettledBy: &cashier}))
	other := uuid.New()
	assert.False(t, paidCash.SettledBySame(Settlement{Method: PaymentMethodCash, SettledBy: &other}))
	assert.False(t, paidCash.SettledBySame(Settlement{Method: PaymentMethodCash}))

	paidOnline := &Invoice{PaymentStatus: PaymentStatusPaid, PaymentMethod: &gateway, ExternalReference: &ref}
	assert.True(t, paidOnline.SettledBySame(Settlement{Method: PaymentMethodGateway, ExternalReference: &ref}))
	otherRef := "ORD-2"
	assert.False(t, paidOnline.SettledBySame(Settlement{Method: PaymentMethodGateway, ExternalReference: &otherRef}))

	unpaid := &Invoice{PaymentStatus: PaymentStatusUnpaid}
	assert.False(t, unpaid.SettledBySame(Settlement{Method: PaymentMethodCash}))
	assert.True(t, (&Invoice{PaymentStatus: PaymentStatusRefunded}).LocksRecord())
}

func TestRecordFees(t *testing.T) {
	r := &CareEpisodeRecord{
		Prescriptions: []PrescriptionLine{
			{Quantity: 3, UnitPrice: decimal.NewFromInt(10000)},
			{Quantity: 1, UnitPrice: decimal.NewFromInt(2500)},
		},
		Services: []ServiceLine{{Quantity: 2, UnitPrice: decimal.NewFromInt(50000)}},
	}

	assert.True(t, r.MedicineFee().Equal(decimal.NewFromInt(32500)))
	assert.True(t, r.ServiceFee().Equal(decimal.NewFromInt(100000)))
	assert.True(t, r.HasBillableContent())
	assert.False(t, (&CareEpisodeRecord{}).HasBillableContent())
}
