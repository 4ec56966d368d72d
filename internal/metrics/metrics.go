package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for blob-storage activity.
type Metrics struct {
	uploadsTotal     *prometheus.CounterVec
	uploadBytes      *prometheus.HistogramVec
	blobDeletesTotal *prometheus.CounterVec
}

// Delete outcomes recorded on blob_deletes_total.
const (
	DeleteOutcomeDeleted = "deleted"
	DeleteOutcomeMissing = "missing"
	DeleteOutcomeFailed  = "failed"
)

// NewMetrics creates and registers all storage metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		uploadsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modelhub_uploads_total",
				Help: "Total number of blobs written, by namespace",
			},
			[]string{"namespace"},
		),
		uploadBytes: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "modelhub_upload_bytes",
				Help:    "Size distribution of uploaded blobs in bytes",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 9),
			},
			[]string{"namespace"},
		),
		blobDeletesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modelhub_blob_deletes_total",
				Help: "Total number of blob delete attempts, by namespace and outcome",
			},
			[]string{"namespace", "outcome"},
		),
	}
}

// ObserveUpload records a successful blob write.
func (m *Metrics) ObserveUpload(namespace string, size int64) {
	if m == nil {
		return
	}
	m.uploadsTotal.WithLabelValues(namespace).Inc()
	m.uploadBytes.WithLabelValues(namespace).Observe(float64(size))
}

// ObserveBlobDelete records the outcome of a blob delete attempt. Failed
// best-effort deletes show up here as orphaned blobs to reclaim out of band.
func (m *Metrics) ObserveBlobDelete(namespace, outcome string) {
	if m == nil {
		return
	}
	m.blobDeletesTotal.WithLabelValues(namespace, outcome).Inc()
}
