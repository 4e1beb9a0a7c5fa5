package converter

import (
	"testing"

	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderedServices(t *testing.T) {
	a := uuid.MustParse("7b0f4a86-5f6e-4c3a-9a57-1d6f2b3c4d5e")
	b := uuid.MustParse("0c9d8e7f-6a5b-4c3d-8e2f-1a0b9c8d7e6f")

	tests := []struct {
		name    string
		input   string
		want    []uuid.UUID
		qty     []int
		wantErr bool
	}{
		{name: "blank", input: "  ", want: []uuid.UUID{}, qty: []int{}},
		{name: "two items keep order", input: b.String() + ":2," + a.String() + ":1", want: []uuid.UUID{b, a}, qty: []int{2, 1}},
		{name: "missing quantity defaults to one", input: a.String(), want: []uuid.UUID{a}, qty: []int{1}},
		{name: "spaces tolerated", input: " " + a.String() + " : 3 ", want: []uuid.UUID{a}, qty: []int{3}},
		{name: "zero quantity passes through", input: a.String() + ":0", want: []uuid.UUID{a}, qty: []int{0}},
		{name: "bad id", input: "nope:1", wantErr: true},
		{name: "bad quantity", input: a.String() + ":x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOrderedServices(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedOrderedServices)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i := range got {
				assert.Equal(t, tt.want[i], got[i].ServiceID)
				assert.Equal(t, tt.qty[i], got[i].Quantity)
			}
		})
	}
}

func TestFormatOrderedServicesRoundTrip(t *testing.T) {
	lines := []entity.ServiceLine{
		{ServiceID: uuid.New(), Quantity: 2, Position: 0},
		{ServiceID: uuid.New(), Quantity: 1, Position: 1},
	}

	text := FormatOrderedServices(lines)
	parsed, err := ParseOrderedServices(text)
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, lines[0].ServiceID, parsed[0].ServiceID)
	assert.Equal(t, 2, parsed[0].Quantity)
	assert.Equal(t, lines[1].ServiceID, parsed[1].ServiceID)
	assert.Equal(t, "", FormatOrderedServices(nil))
}

func TestCareRecordToResponseComputesFees(t *testing.T) {
	record := &entity.CareEpisodeRecord{
		ID: uuid.New(),
		Prescriptions: []entity.PrescriptionLine{
			{MedicineID: uuid.New(), Quantity: 3, UnitPrice: decimal.NewFromInt(1500)},
		},
		Services: []entity.ServiceLine{
			{ServiceID: uuid.New(), Quantity: 2, UnitPrice: decimal.NewFromInt(10000)},
		},
	}

	resp := CareRecordToResponse(record, nil)
	require.NotNil(t, resp)
	assert.True(t, decimal.NewFromInt(4500).Equal(resp.MedicineFee))
	assert.True(t, decimal.NewFromInt(20000).Equal(resp.ServiceFee))
	assert.True(t, decimal.NewFromInt(4500).Equal(resp.Prescriptions[0].Amount))
	assert.Nil(t, resp.Invoice)
	assert.Nil(t, CareRecordToResponse(nil, nil))
}
