package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/delivery/http/middleware"
	"clinic-operations/internal/domain/calendar"
	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/infrastructure/metrics"
	"clinic-operations/internal/repository/memory"
	"clinic-operations/internal/service"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var examinationFee = decimal.NewFromInt(50000)

// clinic wires every usecase against one in-memory store.
type clinic struct {
	store   *memory.Store
	metrics *metrics.ClinicMetrics

	calendar     CalendarUsecase
	appointments AppointmentUsecase
	receptions   ReceptionUsecase
	records      CareRecordUsecase
	billing      BillingUsecase
	catalog      CatalogUsecase
	people       StaffUsecase
	audit        AuditLogUsecase
}

func newClinic(t *testing.T) *clinic {
	return newClinicOn(t, memory.NewStore())
}

// newClinicOn builds a fresh set of usecases, with their own counters and
// locks, over an existing store.
func newClinicOn(t *testing.T, store *memory.Store) *clinic {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	m := metrics.NewClinicMetrics(prometheus.NewRegistry())
	audit := service.NewAuditService(log, store.AuditLogs())
	loc := time.UTC

	return &clinic{
		store:   store,
		metrics: m,
		calendar: NewCalendarUsecase(log, store, store.Staff(), store.Shifts(), store.Templates(), store.Slots(),
			audit, m, 60, loc),
		appointments: NewAppointmentUsecase(log, store, store.Patients(), store.Shifts(), store.Slots(), store.Appointments(),
			service.NewLocalSlotLocker(), audit, m, loc),
		receptions: NewReceptionUsecase(log, store, store.Patients(), store.Staff(), store.Appointments(),
			store.Receptions(), store.Records(), store.Slots(), store.Invoices(), service.NewLocalQueueService(),
			audit, m, examinationFee, loc),
		records: NewCareRecordUsecase(log, store, store.Records(), store.Medicines(), store.ClinicServices(),
			store.Invoices(), audit, examinationFee, loc),
		billing: NewBillingUsecase(log, store, store.Records(), store.Invoices(), store.Payments(), store.Callbacks(),
			store.Medicines(), audit, m, examinationFee, loc),
		catalog: NewCatalogUsecase(log, store, store.Medicines(), store.ClinicServices(), audit),
		people:  NewStaffUsecase(log, store, store.Staff(), store.Patients(), audit),
		audit:   NewAuditLogUsecase(log, store.AuditLogs()),
	}
}

func tomorrow() time.Time {
	return calendar.DateOf(time.Now(), time.UTC).AddDate(0, 0, 1)
}

func asStaff(id uuid.UUID, role entity.StaffRole) context.Context {
	return middleware.WithStaff(context.Background(), id, role)
}

func (c *clinic) addStaff(t *testing.T, role entity.StaffRole) uuid.UUID {
	t.Helper()
	staff, err := c.people.CreateStaff(context.Background(), &dto.CreateStaffRequest{
		FullName: "Staff " + uuid.NewString()[:8],
		Email:    uuid.NewString() + "@clinic.test",
		Role:     string(role),
	})
	require.NoError(t, err)
	return staff.ID
}

func (c *clinic) addPatient(t *testing.T, name string) uuid.UUID {
	t.Helper()
	patient, err := c.people.CreatePatient(context.Background(), &dto.CreatePatientRequest{FullName: name})
	require.NoError(t, err)
	return patient.ID
}

// addMorningShift creates an 08:00-12:00 shift with four one-hour slots.
func (c *clinic) addMorningShift(t *testing.T, staffID uuid.UUID, date time.Time) *dto.ShiftResponse {
	t.Helper()
	shift, err := c.calendar.CreateShift(context.Background(), &dto.CreateShiftRequest{
		StaffID:   staffID,
		WorkDate:  date.Format(calendar.DateLayout),
		Label:     "MORNING",
		StartTime: "08:00",
		EndTime:   "12:00",
	})
	require.NoError(t, err)
	return shift
}

func (c *clinic) addMedicine(t *testing.T, price int64, stock int) uuid.UUID {
	t.Helper()
	m, err := c.catalog.CreateMedicine(context.Background(), &dto.MedicineRequest{
		Name:      "Medicine " + uuid.NewString()[:8],
		Unit:      "tablet",
		SalePrice: decimal.NewFromInt(price),
		Stock:     stock,
	})
	require.NoError(t, err)
	return m.ID
}

func (c *clinic) addService(t *testing.T, price int64) uuid.UUID {
	t.Helper()
	s, err := c.catalog.CreateService(context.Background(), &dto.ClinicServiceRequest{
		Name:  "Service " + uuid.NewString()[:8],
		Price: decimal.NewFromInt(price),
	})
	require.NoError(t, err)
	return s.ID
}

// visit is a walk-in that has reached IN_EXAMINATION.
type visit struct {
	patientID   uuid.UUID
	doctorID    uuid.UUID
	receptionID uuid.UUID
	recordID    uuid.UUID
}

func (c *clinic) startVisit(t *testing.T) visit {
	t.Helper()
	receptionist := c.addStaff(t, entity.StaffRoleReceptionist)
	doctor := c.addStaff(t, entity.StaffRoleDoctor)
	patient := c.addPatient(t, "Walk In")

	reception, err := c.receptions.CheckIn(context.Background(), receptionist, &dto.CheckInRequest{PatientID: patient})
	require.NoError(t, err)

	record, err := c.receptions.StartExamination(context.Background(), reception.ID, doctor)
	require.NoError(t, err)

	return visit{patientID: patient, doctorID: doctor, receptionID: reception.ID, recordID: record.ID}
}

func (c *clinic) slotStatus(t *testing.T, id uuid.UUID) entity.SlotStatus {
	t.Helper()
	slot, err := c.store.Slots().FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, slot)
	return slot.Status
}
