package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/NEMYSESx/menu-ingest/internal/models"
)

const (
	OutcomeIndexed = "indexed"
	OutcomeEmpty   = "empty"
	OutcomeFailed  = "failed"
)

// Recorder holds the batch counters on its own registry. A nil *Recorder
// records nothing.
type Recorder struct {
	registry  *prometheus.Registry
	documents *prometheus.CounterVec
	indexed   *prometheus.CounterVec
	duration  prometheus.Histogram
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "menu_ingest",
			Name:      "documents_total",
			Help:      "Source documents processed, by outcome.",
		}, []string{"outcome"}),
		indexed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "menu_ingest",
			Name:      "index_documents_total",
			Help:      "Documents handed to the indexers, by document type.",
		}, []string{"document_type"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "menu_ingest",
			Name:      "document_duration_seconds",
			Help:      "Time spent turning one source document into records.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
	}
	r.registry.MustRegister(r.documents, r.indexed, r.duration)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) Document(outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.documents.WithLabelValues(outcome).Inc()
	r.duration.Observe(elapsed.Seconds())
}

func (r *Recorder) Indexed(docs []models.IndexDocument) {
	if r == nil {
		return
	}
	for _, doc := range docs {
		r.indexed.WithLabelValues(string(doc.DocumentType)).Inc()
	}
}

// Push sends the registry to a Prometheus Pushgateway. An empty URL is a no-op.
func (r *Recorder) Push(gatewayURL, job string) error {
	if r == nil || gatewayURL == "" {
		return nil
	}
	if err := push.New(gatewayURL, job).Gatherer(r.registry).Push(); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", gatewayURL, err)
	}
	return nil
}
