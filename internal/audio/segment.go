package audio

import (
	"fmt"
)

// Decoder resolves a file reference into interleaved PCM samples plus the
// file's native channel count and sample rate.
type Decoder interface {
	Decode(path string) (samples []float64, channels, sampleRate int, err error)
}

// Chunk is a bounded-duration slice of a mono waveform at the target sample
// rate, sent as one unit to the inference pipeline.
type Chunk struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the chunk length in seconds.
func (c Chunk) Duration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}

// Segmenter turns audio sources into ordered chunk sequences: decode (for
// file sources), downmix to mono, resample to the target rate, and split
// into consecutive non-overlapping windows of at most MaxChunkSamples.
type Segmenter struct {
	decoder    Decoder
	targetRate int
	chunkSize  int
}

// NewSegmenter creates a segmenter using the given decoder for file sources.
func NewSegmenter(decoder Decoder) *Segmenter {
	return &Segmenter{
		decoder:    decoder,
		targetRate: TargetSampleRate,
		chunkSize:  MaxChunkSamples,
	}
}

// Segment produces the ordered, non-empty chunk sequence for one source.
// Chunks are emitted in strict left-to-right temporal order; concatenating
// their samples reproduces the resampled signal exactly.
func (s *Segmenter) Segment(src Source) ([]Chunk, error) {
	var (
		samples  []float64
		channels int
		rate     int
	)

	switch {
	case src.IsFile():
		var err error
		samples, channels, rate, err = s.decoder.Decode(src.Path())
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", src.Path(), err)
		}
	case src.HasSamples():
		samples = src.samples
		channels = src.channels
		rate = src.sampleRate
	default:
		return nil, fmt.Errorf("source is neither a file reference nor a sample buffer")
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("source contains no audio samples")
	}

	if channels > 1 {
		samples = downmix(samples, channels)
	}

	if rate != s.targetRate {
		resampled, err := Resample(samples, rate, s.targetRate)
		if err != nil {
			return nil, fmt.Errorf("resample %d Hz to %d Hz: %w", rate, s.targetRate, err)
		}
		samples = resampled
	}

	return s.split(samples), nil
}

// split slices the waveform into chunkSize windows, the final window shorter
// when the length is not an exact multiple. No padding, no overlap.
func (s *Segmenter) split(samples []float64) []Chunk {
	if len(samples) <= s.chunkSize {
		return []Chunk{{Samples: samples, SampleRate: s.targetRate}}
	}

	count := (len(samples) + s.chunkSize - 1) / s.chunkSize
	chunks := make([]Chunk, 0, count)

	for start := 0; start < len(samples); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(samples) {
			end = len(samples)
		}
		chunks = append(chunks, Chunk{Samples: samples[start:end], SampleRate: s.targetRate})
	}

	return chunks
}
