package usecase

import (
	"context"
	"testing"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/calendar"
	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateShiftGeneratesSlots(t *testing.T) {
	c := newClinic(t)
	doctor := c.addStaff(t, entity.StaffRoleDoctor)

	shift := c.addMorningShift(t, doctor, tomorrow())

	require.Len(t, shift.Slots, 4)
	want := []string{"08:00", "09:00", "10:00", "11:00"}
	for i, slot := range shift.Slots {
		assert.Equal(t, want[i], slot.StartTime)
		assert.Equal(t, string(entity.SlotStatusAvailable), slot.Status)
		assert.False(t, slot.IsPast)
	}
	assert.Equal(t, "12:00", shift.Slots[3].EndTime)
}

func TestCreateShiftRejectsBadWindows(t *testing.T) {
	c := newClinic(t)
	doctor := c.addStaff(t, entity.StaffRoleDoctor)
	cashier := c.addStaff(t, entity.StaffRoleCashier)
	date := tomorrow().Format(calendar.DateLayout)

	tests := []struct {
		name    string
		req     dto.CreateShiftRequest
		wantErr error
	}{
		{
			name:    "end before start",
			req:     dto.CreateShiftRequest{StaffID: doctor, WorkDate: date, Label: "AFTERNOON", StartTime: "17:00", EndTime: "13:00"},
			wantErr: ErrConfiguration,
		},
		{
			name:    "unparseable clock",
			req:     dto.CreateShiftRequest{StaffID: doctor, WorkDate: date, Label: "AFTERNOON", StartTime: "1pm", EndTime: "17:00"},
			wantErr: ErrConfiguration,
		},
		{
			name:    "unknown label",
			req:     dto.CreateShiftRequest{StaffID: doctor, WorkDate: date, Label: "BRUNCH", StartTime: "10:00", EndTime: "11:00"},
			wantErr: entity.ErrInvalidEnum,
		},
		{
			name:    "non clinician",
			req:     dto.CreateShiftRequest{StaffID: cashier, WorkDate: date, Label: "MORNING", StartTime: "08:00", EndTime: "12:00"},
			wantErr: ErrNotClinician,
		},
		{
			name:    "unknown staff",
			req:     dto.CreateShiftRequest{StaffID: uuid.New(), WorkDate: date, Label: "MORNING", StartTime: "08:00", EndTime: "12:00"},
			wantErr: ErrStaffNotFound,
		},
		{
			name:    "bad date",
			req:     dto.CreateShiftRequest{StaffID: doctor, WorkDate: "02/05/2024", Label: "MORNING", StartTime: "08:00", EndTime: "12:00"},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.calendar.CreateShift(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateShiftRejectsOverlap(t *testing.T) {
	c := newClinic(t)
	doctor := c.addStaff(t, entity.StaffRoleDoctor)
	c.addMorningShift(t, doctor, tomorrow())

	_, err := c.calendar.CreateShift(context.Background(), &dto.CreateShiftRequest{
		StaffID:   doctor,
		WorkDate:  tomorrow().Format(calendar.DateLayout),
		Label:     "AFTERNOON",
		StartTime: "11:00",
		EndTime:   "15:00",
	})
	assert.ErrorIs(t, err, ErrShiftOverlap)

	_, err = c.calendar.CreateShift(context.Background(), &dto.CreateShiftRequest{
		StaffID:   doctor,
		WorkDate:  tomorrow().Format(calendar.DateLayout),
		Label:     "MORNING",
		StartTime: "06:00",
		EndTime:   "07:00",
	})
	assert.ErrorIs(t, err, ErrShiftOverlap)

	// The failed attempts left no stray slots behind.
	slots, err := c.calendar.ListSlots(context.Background(), entity.SlotFilter{StaffID: doctor})
	require.NoError(t, err)
	assert.Len(t, slots, 4)
}

func TestGenerateSlotsIsIdempotent(t *testing.T) {
	c := newClinic(t)
	doctor := c.addStaff(t, entity.StaffRoleDoctor)
	shift := c.addMorningShift(t, doctor, tomorrow())

	first, err := c.calendar.GenerateSlots(context.Background(), doctor, tomorrow(), entity.ShiftMorning)
	require.NoError(t, err)
	second, err := c.calendar.GenerateSlots(context.Background(), doctor, tomorrow(), entity.ShiftMorning)
	require.NoError(t, err)

	require.Len(t, first, 4)
	assert.Equal(t, first, second)
	for i := range first {
		assert.Equal(t, shift.Slots[i].ID, first[i].ID)
	}
}

func TestGenerateSlotsWithoutShiftIsEmpty(t *testing.T) {
	c := newClinic(t)
	doctor := c.addStaff(t, entity.StaffRoleDoctor)

	slots, err := c.calendar.GenerateSlots(context.Background(), doctor, tomorrow(), entity.ShiftEvening)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestInactiveShiftClosesBookingAndGeneration(t *testing.T) {
	c := newClinic(t)
	ctx := context.Background()
	doctor := c.addStaff(t, entity.StaffRoleDoctor)
	patient := c.addPatient(t, "Ana Lima")
	shift := c.addMorningShift(t, doctor, tomorrow())
	book := &dto.BookAppointmentRequest{
		PatientID: patient, StaffID: doctor, Date: tomorrow().Format(calendar.DateLayout), Time: "10:00",
	}

	closed, err := c.calendar.SetShiftStatus(ctx, shift.ID, &dto.ShiftStatusRequest{Status: "inactive"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.ShiftStatusInactive), closed.Status)

	_, err = c.calendar.GenerateSlots(ctx, doctor, tomorrow(), entity.ShiftMorning)
	assert.ErrorIs(t, err, ErrShiftInactive)

	_, err = c.appointments.Book(ctx, book)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Equal(t, entity.SlotStatusAvailable, c.slotStatus(t, shift.Slots[2].ID))

	reopened, err := c.calendar.SetShiftStatus(ctx, shift.ID, &dto.ShiftStatusRequest{Status: "ACTIVE"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.ShiftStatusActive), reopened.Status)

	_, err = c.appointments.Book(ctx, book)
	require.NoError(t, err)

	_, err = c.calendar.SetShiftStatus(ctx, uuid.New(), &dto.ShiftStatusRequest{Status: "INACTIVE"})
	assert.ErrorIs(t, err, ErrShiftNotFound)
	_, err = c.calendar.SetShiftStatus(ctx, shift.ID, &dto.ShiftStatusRequest{Status: "PAUSED"})
	assert.ErrorIs(t, err, entity.ErrInvalidEnum)
}

func TestGetDailySchedule(t *testing.T) {
	c := newClinic(t)
	doctor := c.addStaff(t, entity.StaffRoleDoctor)
	c.addMorningShift(t, doctor, tomorrow())

	schedule, err := c.calendar.GetDailySchedule(context.Background(), doctor, tomorrow())
	require.NoError(t, err)

	assert.False(t, schedule.IsPast)
	assert.False(t, schedule.IsToday)
	require.Len(t, schedule.Shifts, 1)
	assert.Len(t, schedule.Shifts[0].Slots, 4)

	yesterday := tomorrow().AddDate(0, 0, -2)
	past, err := c.calendar.GetDailySchedule(context.Background(), doctor, yesterday)
	require.NoError(t, err)
	assert.True(t, past.IsPast)
	assert.Empty(t, past.Shifts)
}

func TestDeleteShift(t *testing.T) {
	c := newClinic(t)
	doctor := c.addStaff(t, entity.StaffRoleDoctor)
	patient := c.addPatient(t, "Lan Pham")

	t.Run("booked slot blocks deletion", func(t *testing.T) {
		shift := c.addMorningShift(t, doctor, tomorrow())
		_, err := c.appointments.Book(context.Background(), &dto.BookAppointmentRequest{
			PatientID: patient, StaffID: doctor, Date: tomorrow().Format(calendar.DateLayout), Time: "09:00",
		})
		require.NoError(t, err)

		err = c.calendar.DeleteShift(context.Background(), shift.ID)
		assert.ErrorIs(t, err, ErrShiftInUse)

		slots, err := c.store.Slots().FindByShiftID(context.Background(), shift.ID)
		require.NoError(t, err)
		assert.Len(t, slots, 4)
	})

	t.Run("untouched shift is removed with its slots", func(t *testing.T) {
		date := tomorrow().AddDate(0, 0, 1)
		shift := c.addMorningShift(t, doctor, date)

		require.NoError(t, c.calendar.DeleteShift(context.Background(), shift.ID))

		slots, err := c.store.Slots().FindByShiftID(context.Background(), shift.ID)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("missing shift", func(t *testing.T) {
		assert.ErrorIs(t, c.calendar.DeleteShift(context.Background(), uuid.New()), ErrShiftNotFound)
	})
}

func TestSummarizeSlotsMergesContiguousRanges(t *testing.T) {
	c := newClinic(t)
	doctor := c.addStaff(t, entity.StaffRoleDoctor)
	c.addMorningShift(t, doctor, tomorrow())
	_, err := c.calendar.CreateShift(context.Background(), &dto.CreateShiftRequest{
		StaffID:   doctor,
		WorkDate:  tomorrow().Format(calendar.DateLayout),
		Label:     "AFTERNOON",
		StartTime: "13:00",
		EndTime:   "15:00",
	})
	require.NoError(t, err)

	rows, err := c.calendar.SummarizeSlots(context.Background(), doctor, tomorrow(), tomorrow())
	require.NoError(t, err)

	day := tomorrow().Format(calendar.DateLayout)
	assert.Equal(t, []dto.ScheduleRowResponse{
		{Day: day, Start: "08:00", End: "12:00", Slots: 4},
		{Day: day, Start: "13:00", End: "15:00", Slots: 2},
	}, rows)
}

func TestTemplatesPregenerateShifts(t *testing.T) {
	c := newClinic(t)
	doctor := c.addStaff(t, entity.StaffRoleDoctor)

	for _, day := range []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"} {
		_, err := c.calendar.CreateTemplate(context.Background(), &dto.CreateTemplateRequest{
			StaffID:   doctor,
			Weekday:   day,
			Label:     "AFTERNOON",
			StartTime: "13:00",
			EndTime:   "17:00",
		})
		require.NoError(t, err)
	}

	_, err := c.calendar.CreateTemplate(context.Background(), &dto.CreateTemplateRequest{
		StaffID: doctor, Weekday: "MON", Label: "AFTERNOON", StartTime: "13:00", EndTime: "17:00",
	})
	assert.ErrorIs(t, err, ErrShiftOverlap)

	created, err := c.calendar.PregenerateSlots(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	again, err := c.calendar.PregenerateSlots(context.Background(), 3)
	require.NoError(t, err)
	assert.Zero(t, again)

	slots, err := c.calendar.ListSlots(context.Background(), entity.SlotFilter{StaffID: doctor})
	require.NoError(t, err)
	assert.Len(t, slots, 12)

	rows, err := c.calendar.SummarizeTemplates(context.Background(), doctor)
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, dto.ScheduleRowResponse{Day: "MONDAY", Start: "13:00", End: "17:00", Slots: 4}, rows[0])
}
