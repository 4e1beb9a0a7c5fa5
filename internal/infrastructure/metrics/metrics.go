package metrics

import "github.com/prometheus/client_golang/prometheus"

// ClinicMetrics exposes counters for the booking-to-billing flow.
type ClinicMetrics struct {
	bookingsTotal     *prometheus.CounterVec
	transitionsTotal  *prometheus.CounterVec
	noShowsTotal      prometheus.Counter
	slotsGenerated    prometheus.Counter
	settlementsTotal  *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

func NewClinicMetrics(reg prometheus.Registerer) *ClinicMetrics {
	m := &ClinicMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "bookings_total",
			Help:      "Booking attempts by result",
		}, []string{"result"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "workflow",
			Name:      "transitions_total",
			Help:      "Status transitions applied, by entity and target status",
		}, []string{"entity", "status"}),
		noShowsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "noshow_total",
			Help:      "Appointments moved to NOSHOW by the sweep",
		}),
		slotsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "slots_generated_total",
			Help:      "Slots inserted by shift creation and pre-generation",
		}),
		settlementsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "billing",
			Name:      "settlements_total",
			Help:      "Settlement attempts by payment method and outcome",
		}, []string{"method", "outcome"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "usecase",
			Name:      "operation_duration_seconds",
			Help:      "Latency of transactional operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.transitionsTotal, m.noShowsTotal, m.slotsGenerated, m.settlementsTotal, m.operationDuration)
	return m
}

func (m *ClinicMetrics) ObserveBooking(result string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(result).Inc()
}

func (m *ClinicMetrics) ObserveTransition(entity, status string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(entity, status).Inc()
}

func (m *ClinicMetrics) AddNoShows(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.noShowsTotal.Add(float64(n))
}

func (m *ClinicMetrics) AddSlotsGenerated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.slotsGenerated.Add(float64(n))
}

func (m *ClinicMetrics) ObserveSettlement(method, outcome string) {
	if m == nil {
		return
	}
	m.settlementsTotal.WithLabelValues(method, outcome).Inc()
}

func (m *ClinicMetrics) ObserveDuration(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.operationDuration.WithLabelValues(operation).Observe(seconds)
}
