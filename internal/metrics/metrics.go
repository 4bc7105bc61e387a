// Package metrics exports adapter activity as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/llehouerou/demoplayer/internal/adapter"
)

const namespace = "demoplayer"

// Observer counts adapter events and forwards each of them to the next
// observer unchanged.
type Observer struct {
	next adapter.Observer

	stateTransitions  *prometheus.CounterVec
	intentTransitions *prometheus.CounterVec
	errors            *prometheus.CounterVec
	reachedEnd        prometheus.Counter
	dismissals        prometheus.Counter
	position          prometheus.Gauge
	state             *prometheus.GaugeVec
}

// NewObserver registers the adapter metrics on reg and wraps next. A nil
// next is treated as adapter.NopObserver.
func NewObserver(reg prometheus.Registerer, next adapter.Observer) *Observer {
	if next == nil {
		next = adapter.NopObserver{}
	}
	f := promauto.With(reg)
	return &Observer{
		next: next,
		stateTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_transitions_total",
			Help:      "Adapter state transitions by previous and new state",
		}, []string{"from", "to"}),
		intentTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intent_transitions_total",
			Help:      "Playback intent transitions by previous and new intent",
		}, []string{"from", "to"}),
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "playback_errors_total",
			Help:      "Playback failures reported by the engine, by error kind",
		}, []string{"kind"}),
		reachedEnd: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reached_end_total",
			Help:      "Streams played to their end",
		}),
		dismissals: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dismiss_requests_total",
			Help:      "Requests to close the player",
		}),
		position: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "position_seconds",
			Help:      "Playback position reported by the last progress poll",
		}),
		state: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state",
			Help:      "Current adapter state (1 for the active state)",
		}, []string{"state"}),
	}
}

func (o *Observer) OnStateChanged(from, to adapter.State) {
	o.stateTransitions.WithLabelValues(from.String(), to.String()).Inc()
	o.state.WithLabelValues(from.String()).Set(0)
	o.state.WithLabelValues(to.String()).Set(1)
	o.next.OnStateChanged(from, to)
}

func (o *Observer) OnIntentChanged(from, to adapter.Intent) {
	o.intentTransitions.WithLabelValues(from.String(), to.String()).Inc()
	o.next.OnIntentChanged(from, to)
}

func (o *Observer) OnError(err error) {
	o.errors.WithLabelValues(adapter.KindOf(err).String()).Inc()
	o.next.OnError(err)
}

func (o *Observer) OnReachedEnd() {
	o.reachedEnd.Inc()
	o.next.OnReachedEnd()
}

func (o *Observer) OnPositionChanged(seconds float64) {
	o.position.Set(seconds)
	o.next.OnPositionChanged(seconds)
}

func (o *Observer) OnRequestedDismiss(animated bool) {
	o.dismissals.Inc()
	o.next.OnRequestedDismiss(animated)
}

// Verify Observer implements adapter.Observer at compile time.
var _ adapter.Observer = (*Observer)(nil)

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics endpoint listening", zap.String("addr", ln.Addr().String()))
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
