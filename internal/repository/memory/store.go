// Package memory is an in-process implementation of every repository. It
// backs STORAGE_DRIVER=memory and the usecase tests. A single mutex
// serialises transactions, and a failed transaction restores the snapshot
// taken when it began.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"clinic-operations/internal/domain/entity"
	domainRepo "clinic-operations/internal/domain/repository"

	"github.com/google/uuid"
)

type callbackKey struct {
	provider  string
	reference string
}

type tables struct {
	staff          map[uuid.UUID]entity.Staff
	patients       map[uuid.UUID]entity.Patient
	shifts         map[uuid.UUID]entity.ShiftSchedule
	templates      map[uuid.UUID]entity.ScheduleTemplate
	slots          map[uuid.UUID]entity.Slot
	appointments   map[uuid.UUID]entity.Appointment
	receptions     map[uuid.UUID]entity.Reception
	records        map[uuid.UUID]entity.CareEpisodeRecord
	prescriptions  map[uuid.UUID][]entity.PrescriptionLine
	serviceLines   map[uuid.UUID][]entity.ServiceLine
	medicines      map[uuid.UUID]entity.Medicine
	clinicServices map[uuid.UUID]entity.ClinicService
	invoices       map[uuid.UUID]entity.Invoice
	payments       map[uuid.UUID]entity.Payment
	callbacks      map[callbackKey]time.Time
	audit          []entity.AuditLog
	auditSeq       int64
}

func (t tables) clone() tables {
	return tables{
		staff:          maps.Clone(t.staff),
		patients:       maps.Clone(t.patients),
		shifts:         maps.Clone(t.shifts),
		templates:      maps.Clone(t.templates),
		slots:          maps.Clone(t.slots),
		appointments:   maps.Clone(t.appointments),
		receptions:     maps.Clone(t.receptions),
		records:        maps.Clone(t.records),
		prescriptions:  maps.Clone(t.prescriptions),
		serviceLines:   maps.Clone(t.serviceLines),
		medicines:      maps.Clone(t.medicines),
		clinicServices: maps.Clone(t.clinicServices),
		invoices:       maps.Clone(t.invoices),
		payments:       maps.Clone(t.payments),
		callbacks:      maps.Clone(t.callbacks),
		audit:          slices.Clone(t.audit),
		auditSeq:       t.auditSeq,
	}
}

// Store owns all tables. The zero value is not usable; call NewStore.
type Store struct {
	mu sync.Mutex
	t  tables
}

func NewStore() *Store {
	return &Store{t: tables{
		staff:          map[uuid.UUID]entity.Staff{},
		patients:       map[uuid.UUID]entity.Patient{},
		shifts:         map[uuid.UUID]entity.ShiftSchedule{},
		templates:      map[uuid.UUID]entity.ScheduleTemplate{},
		slots:          map[uuid.UUID]entity.Slot{},
		appointments:   map[uuid.UUID]entity.Appointment{},
		receptions:     map[uuid.UUID]entity.Reception{},
		records:        map[uuid.UUID]entity.CareEpisodeRecord{},
		prescriptions:  map[uuid.UUID][]entity.PrescriptionLine{},
		serviceLines:   map[uuid.UUID][]entity.ServiceLine{},
		medicines:      map[uuid.UUID]entity.Medicine{},
		clinicServices: map[uuid.UUID]entity.ClinicService{},
		invoices:       map[uuid.UUID]entity.Invoice{},
		payments:       map[uuid.UUID]entity.Payment{},
		callbacks:      map[callbackKey]time.Time{},
	}}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// lock takes the store mutex unless ctx already runs inside a transaction
// of this store, which holds it.
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.t.clone()
	committed := false
	defer func() {
		if !committed {
			s.t = snapshot
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		return err
	}
	committed = true
	return nil
}

func stamp(created, updated *time.Time) {
	now := time.Now()
	if created != nil && created.IsZero() {
		*created = now
	}
	if updated != nil {
		*updated = now
	}
}

var _ domainRepo.Transactor = (*Store)(nil)
