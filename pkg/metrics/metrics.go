// Package metrics holds the Prometheus collectors shared by the server and
// the thumbnail worker.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fm_uploads_total",
		Help: "Records created through upload, by kind.",
	}, []string{"kind"})

	uploadBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fm_upload_bytes_total",
		Help: "Decoded bytes written to the blob store by uploads.",
	})

	contentServedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fm_content_served_total",
		Help: "Content requests that returned bytes, by variant.",
	}, []string{"variant"})

	queueJobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fm_queue_jobs_total",
		Help: "Processing jobs handed to the queue, by outcome.",
	}, []string{"result"})

	thumbnailsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fm_thumbnails_total",
		Help: "Thumbnail jobs handled by the worker, by outcome.",
	}, []string{"result"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fm_http_requests_total",
		Help: "HTTP requests served, by method, route and status.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fm_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Queue outcomes.
const (
	ResultQueued  = "queued"
	ResultDropped = "dropped"
	ResultFailed  = "failed"
	ResultDone    = "done"
	ResultSkipped = "skipped"
)

func RecordUpload(kind string, size int) {
	uploadsTotal.WithLabelValues(kind).Inc()
	if size > 0 {
		uploadBytesTotal.Add(float64(size))
	}
}

// RecordContent counts a served content request. An empty size is the
// original bytes.
func RecordContent(size string) {
	if size == "" {
		size = "original"
	}
	contentServedTotal.WithLabelValues(size).Inc()
}

func RecordQueueJob(result string) {
	queueJobsTotal.WithLabelValues(result).Inc()
}

func RecordThumbnail(result string) {
	thumbnailsTotal.WithLabelValues(result).Inc()
}

// ObserveRequest records one HTTP request. Route should be the matched
// route pattern so ids do not explode cardinality.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// StatusRecorder captures the status code written by a handler.
type StatusRecorder struct {
	http.ResponseWriter
	Status int
}

func NewStatusRecorder(w http.ResponseWriter) *StatusRecorder {
	return &StatusRecorder{ResponseWriter: w, Status: http.StatusOK}
}

func (rw *StatusRecorder) WriteHeader(code int) {
	rw.Status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *StatusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
