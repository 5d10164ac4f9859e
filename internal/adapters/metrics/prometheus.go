package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/alejandrodnm/dealmax/internal/engine"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dealmax"

// Prometheus implementa engine.Recorder sobre un registry inyectado.
type Prometheus struct {
	gatherer prometheus.Gatherer

	searches       *prometheus.CounterVec
	vehicles       *prometheus.CounterVec
	evaluated      *prometheus.CounterVec
	compliant      *prometheus.CounterVec
	misfits        *prometheus.CounterVec
	returned       *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	scenarios      *prometheus.CounterVec
	scenarioGross  *prometheus.HistogramVec
}

var _ engine.Recorder = (*Prometheus)(nil)

// NewPrometheus registra las métricas en reg. Con reg nil crea un registry propio.
func NewPrometheus(reg *prometheus.Registry) *Prometheus {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Prometheus{
		gatherer: reg,
		searches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Total number of deal searches per lender",
		}, []string{"lender"}),
		vehicles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vehicles_scanned_total",
			Help:      "Vehicles evaluated after inventory filtering",
		}, []string{"lender"}),
		evaluated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "structures_evaluated_total",
			Help:      "Vehicle and bundle combinations priced",
		}, []string{"lender"}),
		compliant: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compliant_deals_total",
			Help:      "Deal structures that passed DSR and LTV",
		}, []string{"lender"}),
		misfits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bundle_misfits_total",
			Help:      "Product bundles skipped for exceeding the lender product cap",
		}, []string{"lender"}),
		returned: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deals_returned_total",
			Help:      "Deals returned in rankings",
		}, []string{"lender"}),
		searchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of a deal search in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"lender"}),
		scenarios: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profit_scenarios_total",
			Help:      "Profit scenarios computed per lender",
		}, []string{"lender", "subvented"}),
		scenarioGross: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scenario_total_gross_dollars",
			Help:      "Total gross of computed profit scenarios",
			Buckets:   []float64{0, 1000, 2500, 5000, 7500, 10000, 15000, 20000, 30000},
		}, []string{"lender"}),
	}
}

// ObserveSearch registra una ejecución del maximizador.
func (p *Prometheus) ObserveSearch(s engine.SearchStats) {
	lender := string(s.Lender)
	p.searches.WithLabelValues(lender).Inc()
	p.vehicles.WithLabelValues(lender).Add(float64(s.Vehicles))
	p.evaluated.WithLabelValues(lender).Add(float64(s.Evaluated))
	p.compliant.WithLabelValues(lender).Add(float64(s.Compliant))
	p.misfits.WithLabelValues(lender).Add(float64(s.Misfit))
	p.returned.WithLabelValues(lender).Add(float64(s.Returned))
	p.searchDuration.WithLabelValues(lender).Observe(s.Duration.Seconds())
}

// ObserveScenario registra un escenario de beneficio.
func (p *Prometheus) ObserveScenario(lender string, subvented bool, totalGross float64) {
	p.scenarios.WithLabelValues(lender, strconv.FormatBool(subvented)).Inc()
	p.scenarioGross.WithLabelValues(lender).Observe(totalGross)
}

// Handler expone las métricas en formato de texto de Prometheus.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}

// Serve sirve /metrics en addr hasta que ctx se cancela.
func (p *Prometheus) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", p.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("metrics server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics.Serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics.Serve: shutdown: %w", err)
		}
		return nil
	}
}
