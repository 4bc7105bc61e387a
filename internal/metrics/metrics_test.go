package metrics

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/llehouerou/demoplayer/internal/adapter"
)

func TestObserver_CountsAndForwards(t *testing.T) {
	reg := prometheus.NewRegistry()
	q := adapter.NewEventQueue()
	o := NewObserver(reg, q)

	o.OnStateChanged(adapter.StateUndefined, adapter.StateLoading)
	o.OnStateChanged(adapter.StateLoading, adapter.StateReadyToPlay)
	o.OnStateChanged(adapter.StateReadyToPlay, adapter.StateLoading)
	o.OnStateChanged(adapter.StateLoading, adapter.StateReadyToPlay)
	o.OnIntentChanged(adapter.IntentPaused, adapter.IntentRunning)
	o.OnError(adapter.ErrStreamInterruption)
	o.OnError(errors.New("mystery"))
	o.OnPositionChanged(12.5)
	o.OnReachedEnd()
	o.OnRequestedDismiss(false)

	if got := testutil.ToFloat64(o.stateTransitions.WithLabelValues("Loading", "ReadyToPlay")); got != 2 {
		t.Errorf("Loading->ReadyToPlay = %v, want 2", got)
	}
	if got := testutil.ToFloat64(o.intentTransitions.WithLabelValues("Paused", "Running")); got != 1 {
		t.Errorf("Paused->Running = %v, want 1", got)
	}
	if got := testutil.ToFloat64(o.errors.WithLabelValues("stream_interruption")); got != 1 {
		t.Errorf("stream_interruption errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(o.errors.WithLabelValues("undefined")); got != 1 {
		t.Errorf("undefined errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(o.position); got != 12.5 {
		t.Errorf("position = %v, want 12.5", got)
	}
	if got := testutil.ToFloat64(o.reachedEnd); got != 1 {
		t.Errorf("reached end = %v, want 1", got)
	}
	if got := testutil.ToFloat64(o.state.WithLabelValues("ReadyToPlay")); got != 1 {
		t.Errorf("state{ReadyToPlay} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(o.state.WithLabelValues("Loading")); got != 0 {
		t.Errorf("state{Loading} = %v, want 0", got)
	}

	if q.Len() != 10 {
		t.Errorf("forwarded events = %d, want 10", q.Len())
	}
}

func TestObserver_NilNext(t *testing.T) {
	o := NewObserver(prometheus.NewRegistry(), nil)

	// Must not panic.
	o.OnReachedEnd()
	o.OnRequestedDismiss(true)
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	o := NewObserver(reg, nil)
	o.OnStateChanged(adapter.StateUndefined, adapter.StateLoading)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	want := `demoplayer_state_transitions_total{from="Undefined",to="Loading"} 1`
	if !strings.Contains(string(body), want) {
		t.Errorf("body missing %q:\n%s", want, body)
	}
}

func TestServe_StopsWithContext(t *testing.T) {
	// Reserve a free port.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	reg := prometheus.NewRegistry()
	NewObserver(reg, nil)
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- Serve(ctx, addr, reg, zap.NewNop()) }()

	var resp *http.Response
	for range 50 {
		resp, err = http.Get("http://" + addr + "/metrics")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		cancel()
		t.Fatalf("GET /metrics failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not stop")
	}
}
