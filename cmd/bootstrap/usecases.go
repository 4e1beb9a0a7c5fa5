package bootstrap

import (
	"clinic-operations/config"
	"clinic-operations/internal/infrastructure/metrics"
	"clinic-operations/internal/service"
	"clinic-operations/internal/usecase"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type Usecases struct {
	Calendar     usecase.CalendarUsecase
	Appointments usecase.AppointmentUsecase
	Receptions   usecase.ReceptionUsecase
	Records      usecase.CareRecordUsecase
	Billing      usecase.BillingUsecase
	Catalog      usecase.CatalogUsecase
	Staff        usecase.StaffUsecase
	AuditLogs    usecase.AuditLogUsecase
}

// NewUsecases wires the usecase layer. With a nil redisClient the slot lock
// and queue counters stay in process, which is only safe for one replica.
func NewUsecases(cfg *config.Config, log *logrus.Logger, repos *Repositories, redisClient *redis.Client, m *metrics.ClinicMetrics) *Usecases {
	loc := cfg.App.Location()
	fee := cfg.Billing.ExaminationFee

	var (
		locker service.SlotLocker
		queue  service.QueueService
	)
	if redisClient != nil {
		locker = service.NewRedisSlotLocker(redisClient, cfg.Scheduling.BookingLockTTL, log)
		queue = service.NewRedisQueueService(redisClient, log)
	} else {
		locker = service.NewLocalSlotLocker()
		queue = service.NewLocalQueueService()
	}

	audit := service.NewAuditService(log, repos.AuditLogs)

	return &Usecases{
		Calendar: usecase.NewCalendarUsecase(log, repos.Tx, repos.Staff, repos.Shifts, repos.Templates, repos.Slots,
			audit, m, cfg.Scheduling.DefaultSlotMinutes, loc),
		Appointments: usecase.NewAppointmentUsecase(log, repos.Tx, repos.Patients, repos.Shifts, repos.Slots, repos.Appointments,
			locker, audit, m, loc),
		Receptions: usecase.NewReceptionUsecase(log, repos.Tx, repos.Patients, repos.Staff, repos.Appointments,
			repos.Receptions, repos.Records, repos.Slots, repos.Invoices, queue, audit, m, fee, loc),
		Records: usecase.NewCareRecordUsecase(log, repos.Tx, repos.Records, repos.Medicines, repos.Services,
			repos.Invoices, audit, fee, loc),
		Billing: usecase.NewBillingUsecase(log, repos.Tx, repos.Records, repos.Invoices, repos.Payments, repos.Callbacks,
			repos.Medicines, audit, m, fee, loc),
		Catalog:   usecase.NewCatalogUsecase(log, repos.Tx, repos.Medicines, repos.Services, audit),
		Staff:     usecase.NewStaffUsecase(log, repos.Tx, repos.Staff, repos.Patients, audit),
		AuditLogs: usecase.NewAuditLogUsecase(log, repos.AuditLogs),
	}
}
