package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics agrupa los collectors de la app. Todos los métodos aceptan receptor nil
// para que los servicios funcionen sin métricas en tests.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	AdoptionRequests *prometheus.CounterVec
	ImportRows       *prometheus.CounterVec
	QRCardsGenerated prometheus.Counter
	RemindersOverdue *prometheus.GaugeVec
	RateLimitHits    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total de requests HTTP por método, ruta y status",
			},
			[]string{"method", "route", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Latencia de requests HTTP en segundos",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
		AdoptionRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adoption_requests_total",
				Help: "Solicitudes de adopción por estado alcanzado",
			},
			[]string{"status"},
		),
		ImportRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "import_rows_total",
				Help: "Filas procesadas por importación CSV, por entidad y resultado",
			},
			[]string{"entity", "result"},
		),
		QRCardsGenerated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "qr_cards_generated_total",
				Help: "Tarjetas QR generadas para comercios",
			},
		),
		RemindersOverdue: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "reminders_overdue",
				Help: "Solicitudes vencidas en la última evaluación, por severidad",
			},
			[]string{"severity"},
		),
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_limit_hits_total",
				Help: "Requests rechazados por rate limit, por endpoint",
			},
			[]string{"endpoint"},
		),
	}
}

func (m *Metrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, statusLabel(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) RecordAdoptionStatus(status string) {
	if m == nil {
		return
	}
	m.AdoptionRequests.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordImportRows(entity string, imported, failed int) {
	if m == nil {
		return
	}
	m.ImportRows.WithLabelValues(entity, "ok").Add(float64(imported))
	m.ImportRows.WithLabelValues(entity, "error").Add(float64(failed))
}

func (m *Metrics) RecordQRCard() {
	if m == nil {
		return
	}
	m.QRCardsGenerated.Inc()
}

func (m *Metrics) SetRemindersOverdue(urgent, normal int) {
	if m == nil {
		return
	}
	m.RemindersOverdue.WithLabelValues("urgente").Set(float64(urgent))
	m.RemindersOverdue.WithLabelValues("normal").Set(float64(normal))
}

func (m *Metrics) RecordRateLimitHit(endpoint string) {
	if m == nil {
		return
	}
	m.RateLimitHits.WithLabelValues(endpoint).Inc()
}

// statusLabel agrupa códigos poco comunes por rango para acotar cardinalidad.
func statusLabel(code int) string {
	switch code {
	case 200, 201, 204, 400, 401, 403, 404, 409, 429, 500:
		return strconv.Itoa(code)
	}
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500 && code < 600:
		return "5xx"
	}
	return "unknown"
}
