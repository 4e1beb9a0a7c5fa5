package usecase

import (
	"context"
	"sync"
	"testing"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// confirmedAppointment books tomorrow 09:00 and confirms it.
func confirmedAppointment(t *testing.T, c *clinic, patient, doctor uuid.UUID) *dto.AppointmentResponse {
	t.Helper()
	c.addMorningShift(t, doctor, tomorrow())
	appointment, err := c.appointments.Book(context.Background(), bookRequest(patient, doctor, tomorrow(), "09:00"))
	require.NoError(t, err)
	confirmed, err := c.appointments.ChangeStatus(context.Background(), appointment.ID, &dto.ChangeAppointmentStatusRequest{Status: "CONFIRMED"})
	require.NoError(t, err)
	return confirmed
}

func TestWalkInVisitScenario(t *testing.T) {
	c := newClinic(t)
	v := c.startVisit(t)

	reception, err := c.receptions.GetReception(context.Background(), v.receptionID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ReceptionStatusInExamination), reception.Status)
	assert.Nil(t, reception.AppointmentID)

	done, err := c.receptions.Complete(context.Background(), v.receptionID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ReceptionStatusDone), done.Status)

	invoice, err := c.billing.GetInvoiceByRecord(context.Background(), v.recordID)
	require.NoError(t, err)
	assert.True(t, examinationFee.Equal(invoice.TotalAmount))
	assert.Equal(t, string(entity.PaymentStatusUnpaid), invoice.PaymentStatus)

	slots, err := c.calendar.ListSlots(context.Background(), entity.SlotFilter{})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAppointmentVisitCompletesSlot(t *testing.T) {
	c := newClinic(t)
	receptionist := c.addStaff(t, entity.StaffRoleReceptionist)
	doctor := c.addStaff(t, entity.StaffRoleDoctor)
	patient := c.addPatient(t, "Quang Vo")
	appointment := confirmedAppointment(t, c, patient, doctor)

	reception, err := c.receptions.CheckIn(context.Background(), receptionist, &dto.CheckInRequest{
		PatientID:     patient,
		AppointmentID: &appointment.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.ReceptionStatusWaiting), reception.Status)
	// Check-in leaves the slot alone.
	assert.Equal(t, entity.SlotStatusBooked, c.slotStatus(t, appointment.SlotID))

	_, err = c.receptions.StartExamination(context.Background(), reception.ID, doctor)
	require.NoError(t, err)
	assert.Equal(t, entity.SlotStatusBooked, c.slotStatus(t, appointment.SlotID))

	_, err = c.receptions.Complete(context.Background(), reception.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.SlotStatusCompleted, c.slotStatus(t, appointment.SlotID))
	got, err := c.appointments.GetAppointment(context.Background(), appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusCompleted), got.Status)
}

func TestCheckInRejections(t *testing.T) {
	c := newClinic(t)
	receptionist := c.addStaff(t, entity.StaffRoleReceptionist)
	doctor := c.addStaff(t, entity.StaffRoleDoctor)
	patient := c.addPatient(t, "Quang Vo")
	other := c.addPatient(t, "Someone Else")
	c.addMorningShift(t, doctor, tomorrow())

	scheduled, err := c.appointments.Book(context.Background(), bookRequest(patient, doctor, tomorrow(), "08:00"))
	require.NoError(t, err)
	confirmed, err := c.appointments.Book(context.Background(), bookRequest(patient, doctor, tomorrow(), "10:00"))
	require.NoError(t, err)
	_, err = c.appointments.ChangeStatus(context.Background(), confirmed.ID, &dto.ChangeAppointmentStatusRequest{Status: "CONFIRMED"})
	require.NoError(t, err)

	missing := uuid.New()
	tests := []struct {
		name         string
		receptionist uuid.UUID
		req          dto.CheckInRequest
		wantErr      error
	}{
		{name: "appointment not confirmed", receptionist: receptionist, req: dto.CheckInRequest{PatientID: patient, AppointmentID: &scheduled.ID}, wantErr: ErrAppointmentNotConfirmed},
		{name: "appointment of another patient", receptionist: receptionist, req: dto.CheckInRequest{PatientID: other, AppointmentID: &confirmed.ID}, wantErr: ErrAppointmentPatientMismatch},
		{name: "unknown appointment", receptionist: receptionist, req: dto.CheckInRequest{PatientID: patient, AppointmentID: &missing}, wantErr: ErrAppointmentNotFound},
		{name: "unknown patient", receptionist: receptionist, req: dto.CheckInRequest{PatientID: uuid.New()}, wantErr: ErrPatientNotFound},
		{name: "unknown receptionist", receptionist: uuid.New(), req: dto.CheckInRequest{PatientID: patient}, wantErr: ErrStaffNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.receptions.CheckIn(context.Background(), tt.receptionist, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	receptions, err := c.receptions.ListReceptions(context.Background(), entity.ReceptionFilter{})
	require.NoError(t, err)
	assert.Empty(t, receptions)
}

func TestCheckInTwiceForOneAppointment(t *testing.T) {
	c := newClinic(t)
	receptionist := c.addStaff(t, entity.StaffRoleReceptionist)
	doctor := c.addStaff(t, entity.StaffRoleDoctor)
	patient := c.addPatient(t, "Quang Vo")
	appointment := confirmedAppointment(t, c, patient, doctor)
	req := &dto.CheckInRequest{PatientID: patient, AppointmentID: &appointment.ID}

	first, err := c.receptions.CheckIn(context.Background(), receptionist, req)
	require.NoError(t, err)

	_, err = c.receptions.CheckIn(context.Background(), receptionist, req)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	// Once the first visit is cancelled the appointment may feed a new one.
	_, err = c.receptions.Cancel(context.Background(), first.ID)
	require.NoError(t, err)
	_, err = c.receptions.CheckIn(context.Background(), receptionist, req)
	assert.NoError(t, err)
}

func TestQueueNumbersIncrease(t *testing.T) {
	c := newClinic(t)
	receptionist := c.addStaff(t, entity.StaffRoleReceptionist)

	for want := 1; want <= 3; want++ {
		reception, err := c.receptions.CheckIn(context.Background(), receptionist,
			&dto.CheckInRequest{PatientID: c.addPatient(t, "Queued")})
		require.NoError(t, err)
		assert.Equal(t, want, reception.QueueNumber)
	}
}

func TestSyncQueueSkipsPersistedNumbers(t *testing.T) {
	c := newClinic(t)
	receptionist := c.addStaff(t, entity.StaffRoleReceptionist)
	_, err := c.receptions.CheckIn(context.Background(), receptionist, &dto.CheckInRequest{PatientID: c.addPatient(t, "First")})
	require.NoError(t, err)

	// A fresh process starts with an empty counter.
	restarted := newClinicOn(t, c.store)

	require.NoError(t, restarted.receptions.SyncQueue(context.Background()))
	second, err := restarted.receptions.CheckIn(context.Background(), receptionist, &dto.CheckInRequest{PatientID: c.addPatient(t, "Second")})
	require.NoError(t, err)
	assert.Equal(t, 2, second.QueueNumber)
}

func TestStartExamination(t *testing.T) {
	c := newClinic(t)
	receptionist := c.addStaff(t, entity.StaffRoleReceptionist)
	doctor := c.addStaff(t, entity.StaffRoleDoctor)
	nurse := c.addStaff(t, entity.StaffRoleNurse)

	checkIn := func() uuid.UUID {
		r, err := c.receptions.CheckIn(context.Background(), receptionist, &dto.CheckInRequest{PatientID: c.addPatient(t, "Exam")})
		require.NoError(t, err)
		return r.ID
	}

	t.Run("only doctors examine", func(t *testing.T) {
		id := checkIn()
		_, err := c.receptions.StartExamination(context.Background(), id, nurse)
		assert.ErrorIs(t, err, ErrNotClinician)
		_, err = c.receptions.StartExamination(context.Background(), id, uuid.New())
		assert.ErrorIs(t, err, ErrStaffNotFound)

		r, err := c.receptions.GetReception(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, string(entity.ReceptionStatusWaiting), r.Status)
	})

	t.Run("second start is rejected", func(t *testing.T) {
		id := checkIn()
		record, err := c.receptions.StartExamination(context.Background(), id, doctor)
		require.NoError(t, err)
		assert.Equal(t, id, record.ReceptionID)

		_, err = c.receptions.StartExamination(context.Background(), id, doctor)
		assert.ErrorIs(t, err, ErrAlreadyStarted)
	})

	t.Run("done reception cannot restart", func(t *testing.T) {
		id := checkIn()
		_, err := c.receptions.StartExamination(context.Background(), id, doctor)
		require.NoError(t, err)
		_, err = c.receptions.Complete(context.Background(), id)
		require.NoError(t, err)

		_, err = c.receptions.StartExamination(context.Background(), id, doctor)
		assert.ErrorIs(t, err, ErrAlreadyStarted)
	})

	t.Run("cancelled reception", func(t *testing.T) {
		id := checkIn()
		_, err := c.receptions.Cancel(context.Background(), id)
		require.NoError(t, err)

		_, err = c.receptions.StartExamination(context.Background(), id, doctor)
		assert.ErrorIs(t, err, ErrInvalidStateTransition)
	})

	t.Run("concurrent starts create one record", func(t *testing.T) {
		id := checkIn()
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			started int
		)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := c.receptions.StartExamination(context.Background(), id, doctor)
				if err == nil {
					mu.Lock()
					started++
					mu.Unlock()
					return
				}
				assert.ErrorIs(t, err, ErrAlreadyStarted)
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, started)
	})
}

func TestCompleteAndCancelRules(t *testing.T) {
	c := newClinic(t)
	receptionist := c.addStaff(t, entity.StaffRoleReceptionist)
	waiting, err := c.receptions.CheckIn(context.Background(), receptionist, &dto.CheckInRequest{PatientID: c.addPatient(t, "Waiting")})
	require.NoError(t, err)

	_, err = c.receptions.Complete(context.Background(), waiting.ID)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)

	v := c.startVisit(t)
	_, err = c.receptions.Cancel(context.Background(), v.receptionID)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)

	_, err = c.receptions.Cancel(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrReceptionNotFound)

	_, err = c.receptions.Complete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrReceptionNotFound)
}
