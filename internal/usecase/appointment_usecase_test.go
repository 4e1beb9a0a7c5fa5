package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/calendar"
	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookRequest(patient, doctor uuid.UUID, date time.Time, clock string) *dto.BookAppointmentRequest {
	return &dto.BookAppointmentRequest{
		PatientID: patient,
		StaffID:   doctor,
		Date:      date.Format(calendar.DateLayout),
		Time:      clock,
	}
}

func TestBookCancelScenario(t *testing.T) {
	c := newClinic(t)
	doctor := c.addStaff(t, entity.StaffRoleDoctor)
	patient := c.addPatient(t, "Minh Tran")
	shift := c.addMorningShift(t, doctor, tomorrow())
	nineOClock := shift.Slots[1]

	appointment, err := c.appointments.Book(context.Background(), bookRequest(patient, doctor, tomorrow(), "09:00"))
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusScheduled), appointment.Status)
	assert.Equal(t, nineOClock.ID, appointment.SlotID)
	assert.Equal(t, "Minh Tran", appointment.PatientName)
	assert.Equal(t, entity.SlotStatusBooked, c.slotStatus(t, nineOClock.ID))

	_, err = c.appointments.Book(context.Background(), bookRequest(patient, doctor, tomorrow(), "09:00"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	cancelled, err := c.appointments.ChangeStatus(context.Background(), appointment.ID,
		&dto.ChangeAppointmentStatusRequest{Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusCancelled), cancelled.Status)
	assert.Equal(t, entity.SlotStatusCancelled, c.slotStatus(t, nineOClock.ID))

	// A cancelled slot is never offered again.
	_, err = c.appointments.Book(context.Background(), bookRequest(patient, doctor, tomorrow(), "09:00"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	_, err = c.calendar.GenerateSlots(context.Background(), doctor, tomorrow(), entity.ShiftMorning)
	require.NoError(t, err)
	assert.Equal(t, entity.SlotStatusCancelled, c.slotStatus(t, nineOClock.ID))
}

func TestBookRejections(t *testing.T) {
	c := newClinic(t)
	doctor := c.addStaff(t, entity.StaffRoleDoctor)
	patient := c.addPatient(t, "Minh Tran")
	c.addMorningShift(t, doctor, tomorrow())
	yesterday := tomorrow().AddDate(0, 0, -2)
	c.addMorningShift(t, doctor, yesterday)

	tests := []struct {
		name    string
		req     *dto.BookAppointmentRequest
		wantErr error
	}{
		{name: "no slot at that time", req: bookRequest(patient, doctor, tomorrow(), "12:00"), wantErr: ErrSlotUnavailable},
		{name: "slot already started", req: bookRequest(patient, doctor, yesterday, "09:00"), wantErr: ErrSlotUnavailable},
		{name: "unknown patient", req: bookRequest(uuid.New(), doctor, tomorrow(), "09:00"), wantErr: ErrPatientNotFound},
		{name: "malformed time", req: bookRequest(patient, doctor, tomorrow(), "nine"), wantErr: ErrInvalidInput},
		{name: "malformed date", req: &dto.BookAppointmentRequest{PatientID: patient, StaffID: doctor, Date: "tomorrow", Time: "09:00"}, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.appointments.Book(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	all, err := c.appointments.ListAppointments(context.Background(), entity.AppointmentFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestBookAcceptsUnpaddedClock(t *testing.T) {
	c := newClinic(t)
	doctor := c.addStaff(t, entity.StaffRoleDoctor)
	patient := c.addPatient(t, "Minh Tran")
	c.addMorningShift(t, doctor, tomorrow())

	appointment, err := c.appointments.Book(context.Background(), bookRequest(patient, doctor, tomorrow(), "8:00"))
	require.NoError(t, err)
	assert.Equal(t, "08:00", appointment.Time)
}

func TestConcurrentBookingHasOneWinner(t *testing.T) {
	c := newClinic(t)
	doctor := c.addStaff(t, entity.StaffRoleDoctor)
	c.addMorningShift(t, doctor, tomorrow())

	const contenders = 16
	patients := make([]uuid.UUID, contenders)
	for i := range patients {
		patients[i] = c.addPatient(t, "Contender")
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	start := make(chan struct{})
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(patient uuid.UUID) {
			defer wg.Done()
			<-start
			_, err := c.appointments.Book(context.Background(), bookRequest(patient, doctor, tomorrow(), "10:00"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case assert.ErrorIs(t, err, ErrSlotUnavailable):
				conflicts++
			}
		}(patients[i])
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, contenders-1, conflicts)

	booked, err := c.appointments.ListAppointments(context.Background(), entity.AppointmentFilter{StaffID: doctor})
	require.NoError(t, err)
	assert.Len(t, booked, 1)
}

func TestChangeStatusTransitionTable(t *testing.T) {
	tests := []struct {
		name     string
		path     []string
		next     string
		wantErr  error
		wantSlot entity.SlotStatus
	}{
		{name: "confirm", next: "CONFIRMED", wantSlot: entity.SlotStatusBooked},
		{name: "confirm then complete", path: []string{"CONFIRMED"}, next: "COMPLETED", wantSlot: entity.SlotStatusCompleted},
		{name: "complete without confirm", next: "COMPLETED", wantErr: ErrInvalidStateTransition, wantSlot: entity.SlotStatusBooked},
		{name: "noshow is sweep only", next: "NO_SHOW", wantErr: ErrInvalidStateTransition, wantSlot: entity.SlotStatusBooked},
		{name: "cancel after confirm", path: []string{"CONFIRMED"}, next: "CANCELLED", wantErr: ErrInvalidStateTransition, wantSlot: entity.SlotStatusBooked},
		{name: "nothing leaves cancelled", path: []string{"CANCELLED"}, next: "CONFIRMED", wantErr: ErrInvalidStateTransition, wantSlot: entity.SlotStatusCancelled},
		{name: "unknown status", next: "LATE", wantErr: entity.ErrInvalidEnum, wantSlot: entity.SlotStatusBooked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClinic(t)
			doctor := c.addStaff(t, entity.StaffRoleDoctor)
			patient := c.addPatient(t, "Hoa Le")
			c.addMorningShift(t, doctor, tomorrow())

			appointment, err := c.appointments.Book(context.Background(), bookRequest(patient, doctor, tomorrow(), "11:00"))
			require.NoError(t, err)
			for _, step := range tt.path {
				_, err := c.appointments.ChangeStatus(context.Background(), appointment.ID, &dto.ChangeAppointmentStatusRequest{Status: step})
				require.NoError(t, err)
			}
			before, err := c.appointments.GetAppointment(context.Background(), appointment.ID)
			require.NoError(t, err)

			got, err := c.appointments.ChangeStatus(context.Background(), appointment.ID, &dto.ChangeAppointmentStatusRequest{Status: tt.next})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				after, err := c.appointments.GetAppointment(context.Background(), appointment.ID)
				require.NoError(t, err)
				assert.Equal(t, before.Status, after.Status)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.next, got.Status)
			}
			assert.Equal(t, tt.wantSlot, c.slotStatus(t, appointment.SlotID))
		})
	}
}

func TestChangeStatusUnknownAppointment(t *testing.T) {
	c := newClinic(t)
	_, err := c.appointments.ChangeStatus(context.Background(), uuid.New(), &dto.ChangeAppointmentStatusRequest{Status: "CONFIRMED"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestListAppointmentsFilters(t *testing.T) {
	c := newClinic(t)
	doctor := c.addStaff(t, entity.StaffRoleDoctor)
	minh := c.addPatient(t, "Minh Tran")
	hoa := c.addPatient(t, "Hoa Le")
	c.addMorningShift(t, doctor, tomorrow())

	first, err := c.appointments.Book(context.Background(), bookRequest(minh, doctor, tomorrow(), "08:00"))
	require.NoError(t, err)
	_, err = c.appointments.Book(context.Background(), bookRequest(hoa, doctor, tomorrow(), "09:00"))
	require.NoError(t, err)
	_, err = c.appointments.ChangeStatus(context.Background(), first.ID, &dto.ChangeAppointmentStatusRequest{Status: "CONFIRMED"})
	require.NoError(t, err)

	byName, err := c.appointments.ListAppointments(context.Background(), entity.AppointmentFilter{PatientName: "tRAN"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, minh, byName[0].PatientID)

	scheduled, err := c.appointments.ListAppointments(context.Background(), entity.AppointmentFilter{Status: entity.AppointmentStatusScheduled})
	require.NoError(t, err)
	require.Len(t, scheduled, 1)
	assert.Equal(t, hoa, scheduled[0].PatientID)
}

// seedPastAppointment books a slot that already started, bypassing the
// booking guard.
func seedPastAppointment(t *testing.T, c *clinic, status entity.AppointmentStatus) *entity.Appointment {
	t.Helper()
	ctx := context.Background()
	doctor := c.addStaff(t, entity.StaffRoleDoctor)
	patient := c.addPatient(t, "Absent Patient")
	yesterday := tomorrow().AddDate(0, 0, -2)
	shift := c.addMorningShift(t, doctor, yesterday)
	slot := shift.Slots[0]

	n, err := c.store.Slots().TransitionStatus(ctx, slot.ID, entity.SlotStatusAvailable, entity.SlotStatusBooked)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	startsAt, err := calendar.At(yesterday, slot.StartTime, time.UTC)
	require.NoError(t, err)
	appointment := &entity.Appointment{
		ID:              uuid.New(),
		PatientID:       patient,
		StaffID:         doctor,
		SlotID:          slot.ID,
		AppointmentDate: yesterday,
		AppointmentTime: slot.StartTime,
		StartsAt:        startsAt,
		Status:          status,
	}
	require.NoError(t, c.store.Appointments().Create(ctx, appointment))
	return appointment
}

func TestSweepNoShows(t *testing.T) {
	c := newClinic(t)
	missed := seedPastAppointment(t, c, entity.AppointmentStatusScheduled)
	confirmed := seedPastAppointment(t, c, entity.AppointmentStatusConfirmed)

	moved, err := c.appointments.SweepNoShows(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	got, err := c.appointments.GetAppointment(context.Background(), missed.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusNoShow), got.Status)
	assert.Equal(t, entity.SlotStatusCancelled, c.slotStatus(t, missed.SlotID))

	untouched, err := c.appointments.GetAppointment(context.Background(), confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusConfirmed), untouched.Status)
	assert.Equal(t, entity.SlotStatusBooked, c.slotStatus(t, confirmed.SlotID))

	again, err := c.appointments.SweepNoShows(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestSweepNoShowsRespectsCutoff(t *testing.T) {
	c := newClinic(t)
	missed := seedPastAppointment(t, c, entity.AppointmentStatusScheduled)

	moved, err := c.appointments.SweepNoShows(context.Background(), missed.StartsAt)
	require.NoError(t, err)
	assert.Zero(t, moved)
}

func TestConcurrentSweepsMoveEachAppointmentOnce(t *testing.T) {
	c := newClinic(t)
	for i := 0; i < 5; i++ {
		seedPastAppointment(t, c, entity.AppointmentStatusScheduled)
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			moved, err := c.appointments.SweepNoShows(context.Background(), time.Now())
			assert.NoError(t, err)
			mu.Lock()
			total += moved
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, total)
}
