package audio

import (
	"fmt"
	"math"
)

// Resample converts a mono waveform from one sample rate to another using
// linear interpolation. The output length is ceil(len(samples) * toRate /
// fromRate). Linear interpolation trades some high-frequency fidelity for
// simplicity, which is adequate for speech headed into a 16 kHz pipeline.
func Resample(samples []float64, fromRate, toRate int) ([]float64, error) {
	if fromRate <= 0 {
		return nil, fmt.Errorf("source sample rate must be positive, got %d", fromRate)
	}

	if toRate <= 0 {
		return nil, fmt.Errorf("target sample rate must be positive, got %d", toRate)
	}

	if fromRate == toRate {
		out := make([]float64, len(samples))
		copy(out, samples)
		return out, nil
	}

	if len(samples) == 0 {
		return []float64{}, nil
	}

	outLen := int(math.Ceil(float64(len(samples)) * float64(toRate) / float64(fromRate)))
	out := make([]float64, outLen)

	step := float64(fromRate) / float64(toRate)
	for i := range out {
		pos := float64(i) * step
		j := int(pos)

		if j >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}

		frac := pos - float64(j)
		out[i] = samples[j]*(1-frac) + samples[j+1]*frac
	}

	return out, nil
}
