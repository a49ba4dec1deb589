package audio

import (
	"math"
	"testing"
)

func TestResampleSameRate(t *testing.T) {
	in := []float64{0.1, 0.2, 0.3, 0.4}

	out, err := Resample(in, 16000, 16000)
	if err != nil {
		t.Fatalf("Resample failed: %v", err)
	}

	if len(out) != len(in) {
		t.Fatalf("Expected %d samples, got %d", len(in), len(out))
	}

	for i := range in {
		if out[i] != in[i] {
			t.Errorf("Sample %d: expected %f, got %f", i, in[i], out[i])
		}
	}

	// Same-rate resampling must return a copy, not an alias
	out[0] = 99
	if in[0] == 99 {
		t.Error("Resample aliased the input slice")
	}
}

func TestResampleOutputLength(t *testing.T) {
	tests := []struct {
		name     string
		inLen    int
		fromRate int
		toRate   int
		expected int
	}{
		{"upsample 8k to 16k", 8000, 8000, 16000, 16000},
		{"downsample 44.1k to 16k", 44100, 44100, 16000, 16000},
		{"downsample odd length", 1001, 44100, 16000, int(math.Ceil(1001 * 16000.0 / 44100.0))},
		{"upsample one second 22.05k", 22050, 22050, 16000, 16000},
		{"single sample", 1, 8000, 16000, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := make([]float64, tt.inLen)
			out, err := Resample(in, tt.fromRate, tt.toRate)
			if err != nil {
				t.Fatalf("Resample failed: %v", err)
			}
			if len(out) != tt.expected {
				t.Errorf("Expected %d output samples, got %d", tt.expected, len(out))
			}
		})
	}
}

func TestResampleEmptyInput(t *testing.T) {
	out, err := Resample([]float64{}, 8000, 16000)
	if err != nil {
		t.Fatalf("Resample failed: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("Expected empty output, got %d samples", len(out))
	}
}

func TestResampleInvalidRates(t *testing.T) {
	in := []float64{0.1, 0.2}

	if _, err := Resample(in, 0, 16000); err == nil {
		t.Error("Expected error for zero source rate")
	}

	if _, err := Resample(in, 8000, -1); err == nil {
		t.Error("Expected error for negative target rate")
	}
}

func TestResamplePreservesRamp(t *testing.T) {
	// A linear ramp survives linear interpolation almost exactly
	in := make([]float64, 8000)
	for i := range in {
		in[i] = float64(i) / float64(len(in))
	}

	out, err := Resample(in, 8000, 16000)
	if err != nil {
		t.Fatalf("Resample failed: %v", err)
	}

	for i := 0; i < len(out)-2; i++ {
		expected := float64(i) / float64(len(out))
		if math.Abs(out[i]-expected) > 1e-3 {
			t.Fatalf("Sample %d: expected ~%f, got %f", i, expected, out[i])
		}
	}
}
