package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestMiddlewareCountsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(MetricsAndTracingMiddleware(noop.NewTracerProvider().Tracer("test")))
	r.Get("/things/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := RequestCounter.WithLabelValues("/things/{id}", http.MethodGet, "418")
	before := testutil.ToFloat64(counter)
	for _, id := range []string{"a", "b"} {
		rw := httptest.NewRecorder()
		r.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/things/"+id, nil))
		if rw.Code != http.StatusTeapot {
			t.Fatalf("expected 418, got %d", rw.Code)
		}
	}
	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Fatalf("expected 2 counted requests, got %v", got)
	}
}

func TestSetupServesMetrics(t *testing.T) {
	shutdown, promHandler, tracer, err := Setup(context.Background(), "")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer shutdown()
	if tracer == nil {
		t.Fatalf("expected tracer")
	}
	FetchCounter.WithLabelValues("ok").Inc()

	rw := httptest.NewRecorder()
	promHandler.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rw.Body.String(), "weatherapp_fetch_total") {
		t.Fatalf("expected fetch counter in metrics output")
	}
}
