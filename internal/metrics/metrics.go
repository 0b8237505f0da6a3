// Package metrics provides Prometheus metrics for preview dispatch and
// folder loading.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	previewDispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rview_preview_dispatch_total",
			Help: "Previewer runs started, by previewer and mode",
		},
		[]string{"previewer", "mode"},
	)

	previewSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rview_preview_skipped_total",
			Help: "Navigations that reused the displayed preview",
		},
	)

	previewCancelTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rview_preview_cancel_total",
			Help: "Asynchronous previewer runs cancelled before replacement",
		},
	)

	previewResetTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rview_preview_reset_total",
			Help: "Full preview resets",
		},
	)

	previewErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rview_preview_errors_total",
			Help: "Previewer runs that failed",
		},
		[]string{"previewer"},
	)

	folderLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rview_folder_loads_total",
			Help: "Folder loads by outcome",
		},
		[]string{"outcome"},
	)

	folderBatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rview_folder_batches_total",
			Help: "Part batches emitted by folder loads",
		},
	)

	folderEntriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rview_folder_entries_total",
			Help: "Directory entries emitted by folder loads",
		},
	)

	folderBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rview_folder_batch_size",
			Help:    "Entries per emitted batch",
			Buckets: prometheus.ExponentialBuckets(1, 4, 9),
		},
	)
)

// Folder load outcomes.
const (
	FolderStarted = "started"
	FolderFresh   = "fresh"
	FolderFailed  = "failed"
	FolderDone    = "done"
	FolderAborted = "aborted"
)

func RecordDispatch(previewer string, sync bool) {
	mode := "async"
	if sync {
		mode = "sync"
	}
	previewDispatchTotal.WithLabelValues(previewer, mode).Inc()
}

func RecordSkipped() {
	previewSkippedTotal.Inc()
}

func RecordCancel() {
	previewCancelTotal.Inc()
}

func RecordReset() {
	previewResetTotal.Inc()
}

func RecordPreviewError(previewer string) {
	previewErrorsTotal.WithLabelValues(previewer).Inc()
}

func RecordFolderLoad(outcome string) {
	folderLoadsTotal.WithLabelValues(outcome).Inc()
}

func RecordBatch(entries int) {
	folderBatchesTotal.Inc()
	folderEntriesTotal.Add(float64(entries))
	folderBatchSize.Observe(float64(entries))
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr until the server fails. It is meant to run
// in its own goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	err := http.ListenAndServe(addr, mux)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
