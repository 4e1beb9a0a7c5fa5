package bootstrap

import (
	"clinic-operations/internal/domain/repository"
	repoImpl "clinic-operations/internal/repository"
	"clinic-operations/internal/repository/memory"

	"gorm.io/gorm"
)

// Repositories groups every storage port the usecases depend on.
type Repositories struct {
	Tx           repository.Transactor
	Staff        repository.StaffRepository
	Patients     repository.PatientRepository
	Shifts       repository.ShiftScheduleRepository
	Templates    repository.ScheduleTemplateRepository
	Slots        repository.SlotRepository
	Appointments repository.AppointmentRepository
	Receptions   repository.ReceptionRepository
	Records      repository.CareRecordRepository
	Medicines    repository.MedicineRepository
	Services     repository.ClinicServiceRepository
	Invoices     repository.InvoiceRepository
	Payments     repository.PaymentRepository
	Callbacks    repository.ProcessedCallbackRepository
	AuditLogs    repository.AuditLogRepository
}

func NewPostgresRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Tx:           repoImpl.NewTransactor(db),
		Staff:        repoImpl.NewStaffRepository(db),
		Patients:     repoImpl.NewPatientRepository(db),
		Shifts:       repoImpl.NewShiftScheduleRepository(db),
		Templates:    repoImpl.NewScheduleTemplateRepository(db),
		Slots:        repoImpl.NewSlotRepository(db),
		Appointments: repoImpl.NewAppointmentRepository(db),
		Receptions:   repoImpl.NewReceptionRepository(db),
		Records:      repoImpl.NewCareRecordRepository(db),
		Medicines:    repoImpl.NewMedicineRepository(db),
		Services:     repoImpl.NewClinicServiceRepository(db),
		Invoices:     repoImpl.NewInvoiceRepository(db),
		Payments:     repoImpl.NewPaymentRepository(db),
		Callbacks:    repoImpl.NewProcessedCallbackRepository(db),
		AuditLogs:    repoImpl.NewAuditLogRepository(db),
	}
}

func NewMemoryRepositories(store *memory.Store) *Repositories {
	return &Repositories{
		Tx:           store,
		Staff:        store.Staff(),
		Patients:     store.Patients(),
		Shifts:       store.Shifts(),
		Templates:    store.Templates(),
		Slots:        store.Slots(),
		Appointments: store.Appointments(),
		Receptions:   store.Receptions(),
		Records:      store.Records(),
		Medicines:    store.Medicines(),
		Services:     store.ClinicServices(),
		Invoices:     store.Invoices(),
		Payments:     store.Payments(),
		Callbacks:    store.Callbacks(),
		AuditLogs:    store.AuditLogs(),
	}
}
