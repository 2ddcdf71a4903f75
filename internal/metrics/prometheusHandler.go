package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var indexedChunks = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "docqa_indexed_chunks",
	Help: "Number of chunks in the active vector index",
})

var indexRebuilds = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "docqa_index_rebuilds_total",
	Help: "Index rebuild attempts labelled by outcome",
}, []string{"outcome"})

var uploadedFiles = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "docqa_uploaded_files",
	Help: "Number of files in the upload directory",
})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func NewStatusRecorder(w http.ResponseWriter) *HttpStatusRecorder {
	return &HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK}
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming handlers (the MCP endpoint) working behind the recorder.
func (r *HttpStatusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *HttpStatusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func SetIndexedChunks(n int) {
	indexedChunks.Set(float64(n))
}

func RecordRebuild(outcome string) {
	indexRebuilds.WithLabelValues(outcome).Inc()
}

func SetUploadedFiles(n int) {
	uploadedFiles.Set(float64(n))
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "process_request_duration_seconds",
	Help:    "Total time spent answering or rebuilding.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30, 60},
}, []string{"status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureRequestMetrics(label string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
