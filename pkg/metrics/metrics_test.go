package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestLatencyHandlerPassesThrough(t *testing.T) {
	h := LatencyHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/tide", nil))

	if w.Code != http.StatusTeapot {
		t.Errorf("got status %d, wanted %d", w.Code, http.StatusTeapot)
	}
	if w.Body.String() != "short and stout" {
		t.Errorf("got body %q", w.Body.String())
	}
}

func TestLatencyHandlerRethrows(t *testing.T) {
	h := LatencyHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("wipeout")
	}))
	defer func() {
		if recover() == nil {
			t.Errorf("panic was swallowed")
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
}

func TestStatusRecorderDefault(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	if rec.code() != "200" {
		t.Errorf("got %q, wanted 200", rec.code())
	}
	rec.WriteHeader(http.StatusBadRequest)
	if rec.code() != "400" {
		t.Errorf("got %q, wanted 400", rec.code())
	}
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(dashboards.WithLabelValues("default"))
	ObserveDashboard("default")
	if got := testutil.ToFloat64(dashboards.WithLabelValues("default")); got != before+1 {
		t.Errorf("got %v, wanted %v", got, before+1)
	}

	ObserveTopChoice("Excellent")
	if got := testutil.ToFloat64(topChoices.WithLabelValues("Excellent")); got < 1 {
		t.Errorf("top choice not counted")
	}

	ObserveUserRequest(nil)
	ObserveUserRequest(uint(3))
	if testutil.ToFloat64(userRequests.WithLabelValues("anonymous")) < 1 ||
		testutil.ToFloat64(userRequests.WithLabelValues("known")) < 1 {
		t.Errorf("user requests not counted")
	}
}
