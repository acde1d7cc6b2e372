package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveQuery(t *testing.T) {
	before := testutil.ToFloat64(QueriesTotal.WithLabelValues("test"))
	ObserveQuery("test", time.Now())

	if got := testutil.ToFloat64(QueriesTotal.WithLabelValues("test")); got != before+1 {
		t.Errorf("QueriesTotal = %v, want %v", got, before+1)
	}
}

func TestSetSessions(t *testing.T) {
	SetSessions(7)
	if got := testutil.ToFloat64(SessionsActive); got != 7 {
		t.Errorf("SessionsActive = %v, want 7", got)
	}
}

func TestHandler_ExposesCollectors(t *testing.T) {
	DatasetRows.WithLabelValues("csv").Set(3)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `unisearch_dataset_rows{source="csv"} 3`) {
		t.Error("metrics output missing unisearch_dataset_rows")
	}
}
