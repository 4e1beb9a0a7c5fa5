package entity

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidEnum is returned by every Parse* function for values outside the closed set.
var ErrInvalidEnum = errors.New("invalid enum value")

// normalizeEnum uppercases and folds spaces/dashes into underscores so that
// "in-examination", "In Examination" and "IN_EXAMINATION" compare equal.
func normalizeEnum(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}

func parseEnum[T ~string](kind, raw string, values []T, aliases map[string]T) (T, error) {
	key := normalizeEnum(raw)
	for _, v := range values {
		if string(v) == key {
			return v, nil
		}
	}
	if v, ok := aliases[key]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("%w: %s %q", ErrInvalidEnum, kind, raw)
}

// SlotStatus is the occupancy state of a slot.
type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "AVAILABLE"
	SlotStatusBooked    SlotStatus = "BOOKED"
	SlotStatusCompleted SlotStatus = "COMPLETED"
	SlotStatusCancelled SlotStatus = "CANCELLED"
)

var slotStatuses = []SlotStatus{SlotStatusAvailable, SlotStatusBooked, SlotStatusCompleted, SlotStatusCancelled}

func ParseSlotStatus(raw string) (SlotStatus, error) {
	return parseEnum("slot status", raw, slotStatuses, map[string]SlotStatus{
		"FREE":     SlotStatusAvailable,
		"CANCELED": SlotStatusCancelled,
	})
}

func (s *SlotStatus) UnmarshalText(b []byte) error {
	v, err := ParseSlotStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
	AppointmentStatusNoShow    AppointmentStatus = "NOSHOW"
)

var appointmentStatuses = []AppointmentStatus{
	AppointmentStatusScheduled,
	AppointmentStatusConfirmed,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
	AppointmentStatusNoShow,
}

func ParseAppointmentStatus(raw string) (AppointmentStatus, error) {
	return parseEnum("appointment status", raw, appointmentStatuses, map[string]AppointmentStatus{
		"NO_SHOW":    AppointmentStatusNoShow,
		"CANCELED":   AppointmentStatusCancelled,
		"CHECKED_IN": AppointmentStatusConfirmed,
	})
}

func (s *AppointmentStatus) UnmarshalText(b []byte) error {
	v, err := ParseAppointmentStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ReceptionStatus is the state of a patient's visit.
type ReceptionStatus string

const (
	ReceptionStatusWaiting       ReceptionStatus = "WAITING"
	ReceptionStatusInExamination ReceptionStatus = "IN_EXAMINATION"
	ReceptionStatusDone          ReceptionStatus = "DONE"
	ReceptionStatusCancelled     ReceptionStatus = "CANCELLED"
)

var receptionStatuses = []ReceptionStatus{
	ReceptionStatusWaiting,
	ReceptionStatusInExamination,
	ReceptionStatusDone,
	ReceptionStatusCancelled,
}

func ParseReceptionStatus(raw string) (ReceptionStatus, error) {
	return parseEnum("reception status", raw, receptionStatuses, map[string]ReceptionStatus{
		"EXAMINING": ReceptionStatusInExamination,
		"COMPLETED": ReceptionStatusDone,
		"CANCELED":  ReceptionStatusCancelled,
	})
}

func (s *ReceptionStatus) UnmarshalText(b []byte) error {
	v, err := ParseReceptionStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// PaymentStatus is the settlement state of an invoice.
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "UNPAID"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

var paymentStatuses = []PaymentStatus{PaymentStatusUnpaid, PaymentStatusPaid, PaymentStatusRefunded}

func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	return parseEnum("payment status", raw, paymentStatuses, nil)
}

func (s *PaymentStatus) UnmarshalText(b []byte) error {
	v, err := ParsePaymentStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// PaymentMethod identifies how an invoice was settled.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodGateway      PaymentMethod = "GATEWAY"
)

var paymentMethods = []PaymentMethod{PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodGateway}

func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	return parseEnum("payment method", raw, paymentMethods, map[string]PaymentMethod{
		"TRANSFER": PaymentMethodBankTransfer,
		"ONLINE":   PaymentMethodGateway,
	})
}

func (m *PaymentMethod) UnmarshalText(b []byte) error {
	v, err := ParsePaymentMethod(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ShiftLabel names a working block within a day.
type ShiftLabel string

const (
	ShiftMorning   ShiftLabel = "MORNING"
	ShiftAfternoon ShiftLabel = "AFTERNOON"
	ShiftEvening   ShiftLabel = "EVENING"
)

var shiftLabels = []ShiftLabel{ShiftMorning, ShiftAfternoon, ShiftEvening}

func ParseShiftLabel(raw string) (ShiftLabel, error) {
	return parseEnum("shift", raw, shiftLabels, map[string]ShiftLabel{
		"AM":    ShiftMorning,
		"SANG":  ShiftMorning,
		"PM":    ShiftAfternoon,
		"CHIEU": ShiftAfternoon,
		"TOI":   ShiftEvening,
		"NIGHT": ShiftEvening,
	})
}

func (l *ShiftLabel) UnmarshalText(b []byte) error {
	v, err := ParseShiftLabel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// ShiftStatus toggles whether a shift is open for slot generation.
type ShiftStatus string

const (
	ShiftStatusActive   ShiftStatus = "ACTIVE"
	ShiftStatusInactive ShiftStatus = "INACTIVE"
)

func ParseShiftStatus(raw string) (ShiftStatus, error) {
	return parseEnum("shift status", raw, []ShiftStatus{ShiftStatusActive, ShiftStatusInactive}, nil)
}

func (s *ShiftStatus) UnmarshalText(b []byte) error {
	v, err := ParseShiftStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// StaffRole is the job function of a staff member.
type StaffRole string

const (
	StaffRoleAdmin        StaffRole = "ADMIN"
	StaffRoleDoctor       StaffRole = "DOCTOR"
	StaffRoleNurse        StaffRole = "NURSE"
	StaffRoleReceptionist StaffRole = "RECEPTIONIST"
	StaffRoleCashier      StaffRole = "CASHIER"
)

var staffRoles = []StaffRole{StaffRoleAdmin, StaffRoleDoctor, StaffRoleNurse, StaffRoleReceptionist, StaffRoleCashier}

func ParseStaffRole(raw string) (StaffRole, error) {
	return parseEnum("staff role", raw, staffRoles, map[string]StaffRole{
		"CLINICIAN":  StaffRoleDoctor,
		"RECEPTION":  StaffRoleReceptionist,
		"ACCOUNTANT": StaffRoleCashier,
	})
}

func (r *StaffRole) UnmarshalText(b []byte) error {
	v, err := ParseStaffRole(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// IsClinician reports whether the role may see patients.
func (r StaffRole) IsClinician() bool {
	return r == StaffRoleDoctor || r == StaffRoleNurse
}

// Weekday is an ISO-8601 day of week, Monday=1 through Sunday=7.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = map[string]Weekday{
	"MONDAY": Monday, "MON": Monday, "1": Monday,
	"TUESDAY": Tuesday, "TUE": Tuesday, "2": Tuesday,
	"WEDNESDAY": Wednesday, "WED": Wednesday, "3": Wednesday,
	"THURSDAY": Thursday, "THU": Thursday, "4": Thursday,
	"FRIDAY": Friday, "FRI": Friday, "5": Friday,
	"SATURDAY": Saturday, "SAT": Saturday, "6": Saturday,
	"SUNDAY": Sunday, "SUN": Sunday, "7": Sunday, "0": Sunday,
}

// ParseWeekday accepts English names, three-letter abbreviations and numeric
// strings (1-7 ISO, with 0 also meaning Sunday).
func ParseWeekday(raw string) (Weekday, error) {
	if w, ok := weekdayNames[normalizeEnum(raw)]; ok {
		return w, nil
	}
	return 0, fmt.Errorf("%w: weekday %q", ErrInvalidEnum, raw)
}

// WeekdayOf converts a time to its ISO weekday.
func WeekdayOf(t time.Time) Weekday {
	if t.Weekday() == time.Sunday {
		return Sunday
	}
	return Weekday(t.Weekday())
}

func (w Weekday) String() string {
	switch w {
	case Monday:
		return "MONDAY"
	case Tuesday:
		return "TUESDAY"
	case Wednesday:
		return "WEDNESDAY"
	case Thursday:
		return "THURSDAY"
	case Friday:
		return "FRIDAY"
	case Saturday:
		return "SATURDAY"
	case Sunday:
		return "SUNDAY"
	}
	return fmt.Sprintf("Weekday(%d)", int(w))
}

func (w *Weekday) UnmarshalText(b []byte) error {
	v, err := ParseWeekday(string(b))
	if err != nil {
		return err
	}
	*w = v
	return nil
}

func (w Weekday) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// Value stores weekdays as their ISO number.
func (w Weekday) Value() (driver.Value, error) {
	return int64(w), nil
}
