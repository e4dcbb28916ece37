// Package metrics expone métricas Prometheus del servicio: peticiones HTTP y
// renders por formato.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/invoice-builder/internal/application/billing"
	"github.com/jhoicas/invoice-builder/internal/domain/entity"
)

const namespace = "invoice_builder"

// Metrics agrupa los colectores sobre un registro propio (no el global).
type Metrics struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	artifactBytes  *prometheus.HistogramVec
}

// New crea y registra los colectores.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP atendidas.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Documentos generados por formato y resultado.",
		}, []string{"format", "result"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duración del render por formato.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"format"}),
		artifactBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "artifact_size_bytes",
			Help:      "Tamaño de los artefactos generados.",
			Buckets:   prometheus.ExponentialBuckets(1024, 2, 10),
		}, []string{"format"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.renders,
		m.renderDuration,
		m.artifactBytes,
	)
	return m
}

// Registry devuelve el registro (tests y exportadores).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler sirve el formato de exposición de Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP registra una petición atendida.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// InstrumentRenderer envuelve un renderer midiendo duración, resultado y tamaño.
func (m *Metrics) InstrumentRenderer(format billing.Format, r billing.InvoiceRenderer) billing.InvoiceRenderer {
	return &instrumentedRenderer{m: m, format: string(format), next: r}
}

type instrumentedRenderer struct {
	m      *Metrics
	format string
	next   billing.InvoiceRenderer
}

func (r *instrumentedRenderer) Render(ctx context.Context, inv *entity.Invoice) (*billing.Artifact, error) {
	start := time.Now()
	art, err := r.next.Render(ctx, inv)
	r.m.renderDuration.WithLabelValues(r.format).Observe(time.Since(start).Seconds())
	if err != nil {
		r.m.renders.WithLabelValues(r.format, "error").Inc()
		return nil, err
	}
	r.m.renders.WithLabelValues(r.format, "ok").Inc()
	if art != nil {
		r.m.artifactBytes.WithLabelValues(r.format).Observe(float64(len(art.Content)))
	}
	return art, nil
}
