package audio

import (
	"fmt"
)

// Audio parameters the inference pipeline expects. Every source is normalized
// to this format before chunking.
const (
	// TargetSampleRate is the fixed sample rate all audio is resampled to.
	TargetSampleRate = 16000

	// MaxChunkSeconds bounds the duration of a single chunk. The model cards
	// advertise a 40 second context window, but 30 seconds is the boundary
	// the pipeline actually enforces, so chunking uses the conservative bound.
	MaxChunkSeconds = 30

	// MaxChunkSamples is the chunk size in samples at the target rate.
	MaxChunkSamples = TargetSampleRate * MaxChunkSeconds
)

// Source is a single audio input: either a file reference resolved through a
// Decoder at segmentation time, or an in-memory PCM buffer supplied by the
// caller. A Source is immutable once constructed.
type Source struct {
	path       string
	samples    []float64 // interleaved PCM across all channels
	channels   int
	sampleRate int
}

// FromFile creates a Source referring to an audio file on disk.
func FromFile(path string) Source {
	return Source{path: path}
}

// FromSamples creates a Source from a mono PCM buffer at the given sample rate.
func FromSamples(samples []float64, sampleRate int) Source {
	return Source{samples: samples, channels: 1, sampleRate: sampleRate}
}

// FromInterleaved creates a Source from an interleaved multi-channel PCM
// buffer. Channels are averaged down to mono during segmentation.
func FromInterleaved(samples []float64, channels, sampleRate int) (Source, error) {
	if channels < 1 {
		return Source{}, fmt.Errorf("channel count must be at least 1, got %d", channels)
	}
	return Source{samples: samples, channels: channels, sampleRate: sampleRate}, nil
}

// IsFile reports whether the source is a file reference.
func (s Source) IsFile() bool {
	return s.path != ""
}

// HasSamples reports whether the source carries an in-memory buffer.
func (s Source) HasSamples() bool {
	return s.samples != nil
}

// SampleCount returns the number of buffered samples, zero for file sources.
func (s Source) SampleCount() int {
	return len(s.samples)
}

// Path returns the file path for file sources, or "" for buffer sources.
func (s Source) Path() string {
	return s.path
}

// SampleRate returns the caller-supplied sample rate for buffer sources.
// File sources report their rate through the decoder instead.
func (s Source) SampleRate() int {
	return s.sampleRate
}

// downmix averages interleaved multi-channel samples to mono, one frame at a
// time. Averaging is lossy for true stereo content with distinct channel
// material; acceptable for speech, which is what the pipeline consumes.
func downmix(samples []float64, channels int) []float64 {
	if channels <= 1 {
		return samples
	}

	frames := len(samples) / channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += samples[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}

	return mono
}
