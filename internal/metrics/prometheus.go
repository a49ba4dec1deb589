package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the transcription adapter.
type Metrics struct {
	// Request metrics
	RequestsTotal   prometheus.Counter
	RequestFailures prometheus.Counter
	RequestDuration prometheus.Histogram

	// Segmentation metrics
	SourcesProcessed     prometheus.Counter
	SegmentationFailures prometheus.Counter
	ChunksGenerated      prometheus.Counter
	ChunkDuration        prometheus.Histogram
	ChunksPerSource      prometheus.Histogram

	// Inference metrics
	InferenceCalls     prometheus.Counter
	InferenceFailures  prometheus.Counter
	InferenceDuration  prometheus.Histogram
	InferenceBatchSize prometheus.Histogram
}

// New creates and registers all metrics on the given registerer. Callers own
// the registry, so tests and repeated constructions never collide.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "omniasr_requests_total",
			Help: "Total number of transcription requests",
		}),
		RequestFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "omniasr_request_failures_total",
			Help: "Total number of failed transcription requests",
		}),
		RequestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "omniasr_request_duration_seconds",
			Help:    "End-to-end duration of transcription requests",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~7 minutes
		}),

		SourcesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "omniasr_sources_processed_total",
			Help: "Total number of audio sources segmented",
		}),
		SegmentationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "omniasr_segmentation_failures_total",
			Help: "Total number of decode/resample failures during segmentation",
		}),
		ChunksGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "omniasr_chunks_generated_total",
			Help: "Total number of audio chunks generated",
		}),
		ChunkDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "omniasr_chunk_duration_seconds",
			Help:    "Duration of generated audio chunks",
			Buckets: prometheus.LinearBuckets(2.5, 2.5, 12), // 2.5s to 30s
		}),
		ChunksPerSource: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "omniasr_chunks_per_source",
			Help:    "Number of chunks produced per audio source",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8), // 1 to 128 chunks
		}),

		InferenceCalls: factory.NewCounter(prometheus.CounterOpts{
			Name: "omniasr_inference_calls_total",
			Help: "Total number of batched inference calls",
		}),
		InferenceFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "omniasr_inference_failures_total",
			Help: "Total number of failed inference calls",
		}),
		InferenceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "omniasr_inference_duration_seconds",
			Help:    "Duration of batched inference calls",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~7 minutes
		}),
		InferenceBatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "omniasr_inference_batch_chunks",
			Help:    "Number of chunks sent per inference call",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1 to 512 chunks
		}),
	}
}

// RecordRequest records a completed transcription request.
func (m *Metrics) RecordRequest(durationSeconds float64) {
	m.RequestsTotal.Inc()
	m.RequestDuration.Observe(durationSeconds)
}

// RecordRequestFailure records a failed transcription request.
func (m *Metrics) RecordRequestFailure() {
	m.RequestsTotal.Inc()
	m.RequestFailures.Inc()
}

// RecordSourceSegmented records a successfully segmented source and its chunks.
func (m *Metrics) RecordSourceSegmented(chunkCount int, chunkDurations []float64) {
	m.SourcesProcessed.Inc()
	m.ChunksPerSource.Observe(float64(chunkCount))
	for _, d := range chunkDurations {
		m.ChunksGenerated.Inc()
		m.ChunkDuration.Observe(d)
	}
}

// RecordSegmentationFailure records a decode or resample failure.
func (m *Metrics) RecordSegmentationFailure() {
	m.SegmentationFailures.Inc()
}

// RecordInference records a batched inference call.
func (m *Metrics) RecordInference(durationSeconds float64, chunkCount int, failed bool) {
	m.InferenceCalls.Inc()
	m.InferenceDuration.Observe(durationSeconds)
	m.InferenceBatchSize.Observe(float64(chunkCount))
	if failed {
		m.InferenceFailures.Inc()
	}
}
