package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordBatchCountsEntries(t *testing.T) {
	beforeBatches := testutil.ToFloat64(folderBatchesTotal)
	beforeEntries := testutil.ToFloat64(folderEntriesTotal)

	RecordBatch(3)
	RecordBatch(7)

	if got := testutil.ToFloat64(folderBatchesTotal) - beforeBatches; got != 2 {
		t.Fatalf("expected 2 batches, got %v", got)
	}
	if got := testutil.ToFloat64(folderEntriesTotal) - beforeEntries; got != 10 {
		t.Fatalf("expected 10 entries, got %v", got)
	}
}

func TestRecordDispatchLabelsMode(t *testing.T) {
	before := testutil.ToFloat64(previewDispatchTotal.WithLabelValues("code", "async"))
	RecordDispatch("code", false)
	if got := testutil.ToFloat64(previewDispatchTotal.WithLabelValues("code", "async")) - before; got != 1 {
		t.Fatalf("expected one async dispatch, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordReset()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "rview_preview_reset_total") {
		t.Fatal("metrics output missing reset counter")
	}
}
