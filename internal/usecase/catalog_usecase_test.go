package usecase

import (
	"context"
	"testing"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedicineCatalog(t *testing.T) {
	c := newClinic(t)
	admin := c.addStaff(t, entity.StaffRoleAdmin)
	ctx := asStaff(admin, entity.StaffRoleAdmin)

	created, err := c.catalog.CreateMedicine(ctx, &dto.MedicineRequest{
		Name: "Ibuprofen", Unit: "tablet", SalePrice: decimal.NewFromInt(3500), Stock: 40,
	})
	require.NoError(t, err)

	updated, err := c.catalog.UpdateMedicine(ctx, created.ID, &dto.MedicineRequest{
		Name: "Ibuprofen 400", Unit: "tablet", SalePrice: decimal.NewFromInt(4000), Stock: 35,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ibuprofen 400", updated.Name)
	assert.Equal(t, 35, updated.Stock)

	list, total, err := c.catalog.ListMedicines(ctx, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)

	_, err = c.catalog.CreateMedicine(ctx, &dto.MedicineRequest{Name: "Broken", SalePrice: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = c.catalog.UpdateMedicine(ctx, uuid.New(), &dto.MedicineRequest{Name: "Ghost", SalePrice: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrMedicineNotFound)

	require.NoError(t, c.catalog.DeleteMedicine(ctx, created.ID))
	_, err = c.catalog.GetMedicine(ctx, created.ID)
	assert.ErrorIs(t, err, ErrMedicineNotFound)
	assert.ErrorIs(t, c.catalog.DeleteMedicine(ctx, created.ID), ErrMedicineNotFound)

	logs, err := c.audit.GetAllAuditLogs(context.Background(), entity.AuditLogFilter{EntityName: "medicine", EntityID: created.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, 3, logs.Total)
	for _, l := range logs.Logs {
		require.NotNil(t, l.ActorID)
		assert.Equal(t, admin, *l.ActorID)
	}
}

func TestServiceCatalog(t *testing.T) {
	c := newClinic(t)
	ctx := context.Background()

	created, err := c.catalog.CreateService(ctx, &dto.ClinicServiceRequest{
		Name: "Blood panel", Description: "complete blood count", Price: decimal.NewFromInt(120000),
	})
	require.NoError(t, err)

	got, err := c.catalog.GetService(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(120000).Equal(got.Price))

	updated, err := c.catalog.UpdateService(ctx, created.ID, &dto.ClinicServiceRequest{Name: "Blood panel", Price: decimal.NewFromInt(130000)})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(130000).Equal(updated.Price))

	_, err = c.catalog.CreateService(ctx, &dto.ClinicServiceRequest{Name: "Broken", Price: decimal.NewFromInt(-10)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, total, err := c.catalog.ListServices(ctx, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	require.NoError(t, c.catalog.DeleteService(ctx, created.ID))
	_, err = c.catalog.GetService(ctx, created.ID)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestStaffAndPatients(t *testing.T) {
	c := newClinic(t)
	ctx := context.Background()

	doctor, err := c.people.CreateStaff(ctx, &dto.CreateStaffRequest{
		FullName: "Dr. Sari Wulandari", Email: "Sari@Clinic.test", Role: "doctor", Specialization: "general",
	})
	require.NoError(t, err)
	assert.Equal(t, "sari@clinic.test", doctor.Email)
	assert.Equal(t, string(entity.StaffRoleDoctor), doctor.Role)

	_, err = c.people.CreateStaff(ctx, &dto.CreateStaffRequest{FullName: "Someone Else", Email: "sari@clinic.test", Role: "NURSE"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	_, err = c.people.CreateStaff(ctx, &dto.CreateStaffRequest{FullName: "Nobody", Email: "x@clinic.test", Role: "JANITOR"})
	assert.ErrorIs(t, err, entity.ErrInvalidEnum)

	c.addStaff(t, entity.StaffRoleCashier)
	doctors, err := c.people.ListStaff(ctx, "DOCTOR")
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, doctor.ID, doctors[0].ID)
	everyone, err := c.people.ListStaff(ctx, "")
	require.NoError(t, err)
	assert.Len(t, everyone, 2)

	_, err = c.people.GetStaff(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrStaffNotFound)

	patient, err := c.people.CreatePatient(ctx, &dto.CreatePatientRequest{FullName: "Budi Santoso", DateOfBirth: "1990-04-12", Gender: "M"})
	require.NoError(t, err)
	assert.Equal(t, "1990-04-12", patient.DateOfBirth)
	c.addPatient(t, "Ani Lestari")

	_, err = c.people.CreatePatient(ctx, &dto.CreatePatientRequest{FullName: "Bad Date", DateOfBirth: "12/04/1990"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	found, err := c.people.SearchPatients(ctx, "santoso", 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, patient.ID, found[0].ID)

	_, err = c.people.GetPatient(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrPatientNotFound)
}
