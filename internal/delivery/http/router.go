package http

import (
	"net/http"

	"clinic-operations/internal/delivery/http/handler"
	"clinic-operations/internal/delivery/http/middleware"
	"clinic-operations/internal/domain/entity"
	"clinic-operations/pkg/response"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	router             *mux.Router
	scheduleHandler    *handler.ScheduleHandler
	appointmentHandler *handler.AppointmentHandler
	receptionHandler   *handler.ReceptionHandler
	recordHandler      *handler.RecordHandler
	invoiceHandler     *handler.InvoiceHandler
	catalogHandler     *handler.CatalogHandler
	staffHandler       *handler.StaffHandler
	auditLogHandler    *handler.AuditLogHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
	loggingMiddleware  *middleware.LoggingMiddleware
	gatherer           prometheus.Gatherer
}

type Handlers struct {
	Schedule    *handler.ScheduleHandler
	Appointment *handler.AppointmentHandler
	Reception   *handler.ReceptionHandler
	Record      *handler.RecordHandler
	Invoice     *handler.InvoiceHandler
	Catalog     *handler.CatalogHandler
	Staff       *handler.StaffHandler
	AuditLog    *handler.AuditLogHandler
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
	gatherer prometheus.Gatherer,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		scheduleHandler:    handlers.Schedule,
		appointmentHandler: handlers.Appointment,
		receptionHandler:   handlers.Reception,
		recordHandler:      handlers.Record,
		invoiceHandler:     handlers.Invoice,
		catalogHandler:     handlers.Catalog,
		staffHandler:       handlers.Staff,
		auditLogHandler:    handlers.AuditLog,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
		loggingMiddleware:  loggingMiddleware,
		gatherer:           gatherer,
	}
}

// gate restricts a single route to the given roles.
func gate(h http.HandlerFunc, roles ...entity.StaffRole) http.Handler {
	return middleware.RequireRole(roles...)(h)
}

func (r *Router) Setup() *mux.Router {
	r.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.NotFound(w, "Route not found")
	})
	r.router.Handle("/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Public
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)
	api.HandleFunc("/payments/gateway/callback", r.invoiceHandler.GatewayCallback).Methods(http.MethodPost)

	// Everything below needs a staff token
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	protected.HandleFunc("/auth/me", r.staffHandler.Me).Methods(http.MethodGet)

	// Calendar reads
	protected.HandleFunc("/staff/{id}/schedule", r.scheduleHandler.GetDailySchedule).Methods(http.MethodGet)
	protected.HandleFunc("/staff/{id}/schedule/summary", r.scheduleHandler.SummarizeSlots).Methods(http.MethodGet)
	protected.HandleFunc("/staff/{id}/shifts", r.scheduleHandler.ListShifts).Methods(http.MethodGet)
	protected.HandleFunc("/staff/{id}/templates", r.scheduleHandler.ListTemplates).Methods(http.MethodGet)
	protected.HandleFunc("/staff/{id}/templates/summary", r.scheduleHandler.SummarizeTemplates).Methods(http.MethodGet)
	protected.HandleFunc("/slots", r.scheduleHandler.ListSlots).Methods(http.MethodGet)

	// Catalog reads
	protected.HandleFunc("/medicines", r.catalogHandler.ListMedicines).Methods(http.MethodGet)
	protected.HandleFunc("/medicines/{id}", r.catalogHandler.GetMedicine).Methods(http.MethodGet)
	protected.HandleFunc("/services", r.catalogHandler.ListServices).Methods(http.MethodGet)
	protected.HandleFunc("/services/{id}", r.catalogHandler.GetService).Methods(http.MethodGet)

	billing := []entity.StaffRole{entity.StaffRoleCashier, entity.StaffRoleDoctor, entity.StaffRoleAdmin}

	// Patients
	protected.Handle("/patients", middleware.RequireFrontDesk(http.HandlerFunc(r.staffHandler.CreatePatient))).Methods(http.MethodPost)
	protected.HandleFunc("/patients", r.staffHandler.SearchPatients).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{id}", r.staffHandler.GetPatient).Methods(http.MethodGet)

	// Appointments
	protected.Handle("/appointments", middleware.RequireFrontDesk(http.HandlerFunc(r.appointmentHandler.Book))).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", r.appointmentHandler.ListAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	protected.Handle("/appointments/{id}/status", middleware.RequireFrontDesk(http.HandlerFunc(r.appointmentHandler.ChangeStatus))).Methods(http.MethodPatch)

	// Reception
	protected.Handle("/receptions", middleware.RequireFrontDesk(http.HandlerFunc(r.receptionHandler.CheckIn))).Methods(http.MethodPost)
	protected.HandleFunc("/receptions", r.receptionHandler.ListReceptions).Methods(http.MethodGet)
	protected.HandleFunc("/receptions/{id}", r.receptionHandler.GetReception).Methods(http.MethodGet)
	protected.Handle("/receptions/{id}/cancel", middleware.RequireFrontDesk(http.HandlerFunc(r.receptionHandler.Cancel))).Methods(http.MethodPost)
	protected.Handle("/receptions/{id}/start", middleware.RequireDoctor(http.HandlerFunc(r.receptionHandler.StartExamination))).Methods(http.MethodPost)
	protected.Handle("/receptions/{id}/complete", middleware.RequireDoctor(http.HandlerFunc(r.receptionHandler.Complete))).Methods(http.MethodPost)
	protected.HandleFunc("/receptions/{id}/record", r.recordHandler.GetRecordByReception).Methods(http.MethodGet)

	// Care records
	protected.HandleFunc("/records/{id}", r.recordHandler.GetRecord).Methods(http.MethodGet)
	protected.Handle("/records/{id}/notes", middleware.RequireDoctor(http.HandlerFunc(r.recordHandler.UpdateClinicalNotes))).Methods(http.MethodPut)
	protected.Handle("/records/{id}/prescriptions", middleware.RequireDoctor(http.HandlerFunc(r.recordHandler.AddPrescriptionLine))).Methods(http.MethodPost)
	protected.Handle("/records/{id}/prescriptions", middleware.RequireDoctor(http.HandlerFunc(r.recordHandler.ReplacePrescription))).Methods(http.MethodPut)
	protected.Handle("/records/{id}/prescriptions/{lineId}", middleware.RequireDoctor(http.HandlerFunc(r.recordHandler.RemovePrescriptionLine))).Methods(http.MethodDelete)
	protected.Handle("/records/{id}/services", middleware.RequireDoctor(http.HandlerFunc(r.recordHandler.AddServiceLine))).Methods(http.MethodPost)
	protected.Handle("/records/{id}/services", middleware.RequireDoctor(http.HandlerFunc(r.recordHandler.ReplaceServices))).Methods(http.MethodPut)
	protected.Handle("/records/{id}/services/{lineId}", middleware.RequireDoctor(http.HandlerFunc(r.recordHandler.RemoveServiceLine))).Methods(http.MethodDelete)

	// Billing
	protected.Handle("/records/{id}/invoice", gate(r.invoiceHandler.MaterializeInvoice, billing...)).Methods(http.MethodPost)
	protected.HandleFunc("/records/{id}/invoice", r.invoiceHandler.GetInvoiceByRecord).Methods(http.MethodGet)
	protected.HandleFunc("/invoices/{id}", r.invoiceHandler.GetInvoice).Methods(http.MethodGet)
	protected.Handle("/invoices/{id}/recompute", gate(r.invoiceHandler.RecomputeInvoice, billing...)).Methods(http.MethodPost)
	protected.Handle("/invoices/{id}/examination-fee", middleware.RequireCashier(http.HandlerFunc(r.invoiceHandler.SetExaminationFee))).Methods(http.MethodPut)
	protected.Handle("/invoices/{id}/settle", middleware.RequireCashier(http.HandlerFunc(r.invoiceHandler.Settle))).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/staff", r.staffHandler.CreateStaff).Methods(http.MethodPost)
	admin.HandleFunc("/staff", r.staffHandler.ListStaff).Methods(http.MethodGet)
	admin.HandleFunc("/staff/{id}", r.staffHandler.GetStaff).Methods(http.MethodGet)

	admin.HandleFunc("/shifts", r.scheduleHandler.CreateShift).Methods(http.MethodPost)
	admin.HandleFunc("/shifts/{id}", r.scheduleHandler.DeleteShift).Methods(http.MethodDelete)
	admin.HandleFunc("/shifts/{id}/status", r.scheduleHandler.SetShiftStatus).Methods(http.MethodPatch)
	admin.HandleFunc("/slots/generate", r.scheduleHandler.GenerateSlots).Methods(http.MethodPost)
	admin.HandleFunc("/templates", r.scheduleHandler.CreateTemplate).Methods(http.MethodPost)

	admin.HandleFunc("/medicines", r.catalogHandler.CreateMedicine).Methods(http.MethodPost)
	admin.HandleFunc("/medicines/{id}", r.catalogHandler.UpdateMedicine).Methods(http.MethodPut)
	admin.HandleFunc("/medicines/{id}", r.catalogHandler.DeleteMedicine).Methods(http.MethodDelete)
	admin.HandleFunc("/services", r.catalogHandler.CreateService).Methods(http.MethodPost)
	admin.HandleFunc("/services/{id}", r.catalogHandler.UpdateService).Methods(http.MethodPut)
	admin.HandleFunc("/services/{id}", r.catalogHandler.DeleteService).Methods(http.MethodDelete)

	admin.HandleFunc("/appointments/sweep-no-shows", r.appointmentHandler.SweepNoShows).Methods(http.MethodPost)
	admin.HandleFunc("/invoices/{id}/refund", r.invoiceHandler.Refund).Methods(http.MethodPost)

	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
