package asr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/KazeFreeze/baltazar/internal/audio"
	"github.com/KazeFreeze/baltazar/internal/metrics"
)

// Input validation errors, reported before any decoding or inference begins.
var (
	ErrNoSources         = errors.New("no audio sources given")
	ErrLanguageCount     = errors.New("number of language tags must match number of audio sources")
	ErrUnsupportedSource = errors.New("audio source is neither a file reference nor a sample buffer")
	ErrMissingSampleRate = errors.New("sample rate required when audio source is a raw buffer")
	ErrEmptySource       = errors.New("audio source buffer contains no samples")
)

// Pipeline is the external inference capability. Implementations transcribe
// every chunk in one batched call and return transcripts one-to-one and
// order-preserving with the input chunks. batchSize is a hint about internal
// sub-batching, not enforced by this layer.
type Pipeline interface {
	Transcribe(ctx context.Context, chunks []audio.Chunk, languages []string, batchSize int) ([]string, error)
}

// DefaultBatchSize is the sub-batching hint used when a request does not
// specify one.
const DefaultBatchSize = 2

// Adapter wraps the inference pipeline with a simplified call surface:
// pass file paths or sample buffers, get back text. The adapter is created
// once per process and safe for sequential reuse; it holds no per-call state.
type Adapter struct {
	pipeline  Pipeline
	segmenter *audio.Segmenter
	logger    *slog.Logger
	metrics   *metrics.Metrics
	batchSize int
}

// Config contains adapter construction parameters.
type Config struct {
	Pipeline  Pipeline
	Decoder   audio.Decoder    // defaults to audio.WAVDecoder
	Logger    *slog.Logger     // defaults to slog.Default()
	Metrics   *metrics.Metrics // defaults to metrics on a private registry
	BatchSize int              // defaults to DefaultBatchSize
}

// New creates a transcription adapter.
func New(cfg Config) (*Adapter, error) {
	if cfg.Pipeline == nil {
		return nil, fmt.Errorf("pipeline cannot be nil")
	}

	decoder := cfg.Decoder
	if decoder == nil {
		decoder = audio.WAVDecoder{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := cfg.Metrics
	if m == nil {
		m = metrics.New(prometheus.NewRegistry())
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &Adapter{
		pipeline:  cfg.Pipeline,
		segmenter: audio.NewSegmenter(decoder),
		logger:    logger,
		metrics:   m,
		batchSize: batchSize,
	}, nil
}

// Request is a normalized transcription request. Languages holds either a
// single tag, broadcast to every source, or exactly one tag per source.
// Single controls the result shape and is set by the convenience entry
// points; it never changes processing.
type Request struct {
	Sources   []audio.Source
	Languages []string
	BatchSize int
	Single    bool
}

// Result carries one transcript per source in source order. Single mirrors
// the request shape so callers never inspect the value to tell a bare result
// from a one-element batch.
type Result struct {
	Single bool
	Texts  []string
}

// Text returns the transcript of a singular request.
func (r Result) Text() string {
	if len(r.Texts) == 0 {
		return ""
	}
	return r.Texts[0]
}

// TranscribeFile transcribes a single audio file and returns its transcript.
func (a *Adapter) TranscribeFile(ctx context.Context, path, language string) (string, error) {
	res, err := a.Transcribe(ctx, Request{
		Sources:   []audio.Source{audio.FromFile(path)},
		Languages: []string{language},
		Single:    true,
	})
	if err != nil {
		return "", err
	}
	return res.Text(), nil
}

// TranscribeBatch transcribes multiple sources in one batched inference call.
// A single language tag is broadcast to every source; otherwise languages
// must match sources one-to-one.
func (a *Adapter) TranscribeBatch(ctx context.Context, sources []audio.Source, languages []string) ([]string, error) {
	res, err := a.Transcribe(ctx, Request{Sources: sources, Languages: languages})
	if err != nil {
		return nil, err
	}
	return res.Texts, nil
}

// Transcribe runs the full pipeline for one request: normalize inputs,
// segment every source, issue exactly one batched inference call, and
// reassemble per-chunk transcripts into per-source results. Any failure
// aborts the whole request; there are no partial results.
func (a *Adapter) Transcribe(ctx context.Context, req Request) (Result, error) {
	start := time.Now()

	languages, err := a.normalize(req)
	if err != nil {
		a.metrics.RecordRequestFailure()
		return Result{}, err
	}

	// Segment every source in order, accumulating the flat chunk list, the
	// per-chunk language tags, and the per-source chunk counts. The plan is
	// the sole mechanism for regrouping flat inference output.
	var (
		chunks     []audio.Chunk
		chunkLangs []string
		plan       = make([]int, 0, len(req.Sources))
	)

	for i, src := range req.Sources {
		cs, err := a.segmenter.Segment(src)
		if err != nil {
			a.metrics.RecordSegmentationFailure()
			a.metrics.RecordRequestFailure()
			return Result{}, fmt.Errorf("source %d: %w", i, err)
		}

		durations := make([]float64, len(cs))
		for j, c := range cs {
			durations[j] = c.Duration()
			chunkLangs = append(chunkLangs, languages[i])
		}
		a.metrics.RecordSourceSegmented(len(cs), durations)

		chunks = append(chunks, cs...)
		plan = append(plan, len(cs))
	}

	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = a.batchSize
	}

	a.logger.Debug("dispatching inference batch",
		slog.Int("sources", len(req.Sources)),
		slog.Int("chunks", len(chunks)),
		slog.Int("batch_size", batchSize),
	)

	inferStart := time.Now()
	texts, err := a.pipeline.Transcribe(ctx, chunks, chunkLangs, batchSize)
	a.metrics.RecordInference(time.Since(inferStart).Seconds(), len(chunks), err != nil)
	if err != nil {
		a.metrics.RecordRequestFailure()
		return Result{}, fmt.Errorf("inference: %w", err)
	}

	texts, err = regroup(texts, plan)
	if err != nil {
		a.metrics.RecordRequestFailure()
		return Result{}, err
	}

	a.metrics.RecordRequest(time.Since(start).Seconds())
	a.logger.Debug("transcription complete",
		slog.Int("sources", len(req.Sources)),
		slog.Duration("elapsed", time.Since(start)),
	)

	return Result{Single: req.Single, Texts: texts}, nil
}

// normalize validates cardinality and source types, returning one language
// tag per source. It runs before any decoding so invalid requests fail fast.
func (a *Adapter) normalize(req Request) ([]string, error) {
	if len(req.Sources) == 0 {
		return nil, ErrNoSources
	}

	var languages []string
	switch {
	case len(req.Languages) == 1:
		languages = make([]string, len(req.Sources))
		for i := range languages {
			languages[i] = req.Languages[0]
		}
	case len(req.Languages) == len(req.Sources):
		languages = req.Languages
	default:
		return nil, fmt.Errorf("%w: %d tags for %d sources", ErrLanguageCount, len(req.Languages), len(req.Sources))
	}

	for i, src := range req.Sources {
		switch {
		case src.IsFile():
			// Decoded later; existence errors surface from the decoder.
		case src.HasSamples():
			if src.SampleRate() <= 0 {
				return nil, fmt.Errorf("source %d: %w", i, ErrMissingSampleRate)
			}
			if src.SampleCount() == 0 {
				return nil, fmt.Errorf("source %d: %w", i, ErrEmptySource)
			}
		default:
			return nil, fmt.Errorf("source %d: %w", i, ErrUnsupportedSource)
		}
	}

	return languages, nil
}
