package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestEncodeWAVRoundTrip(t *testing.T) {
	samples := make([]float64, 1600)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/16000)
	}

	data, err := EncodeWAV(samples, 16000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	if len(data) != 44+len(samples)*2 {
		t.Errorf("Expected %d bytes, got %d", 44+len(samples)*2, len(data))
	}

	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write WAV file: %v", err)
	}

	decoded, channels, rate, err := WAVDecoder{}.Decode(path)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if channels != 1 {
		t.Errorf("Expected mono, got %d channels", channels)
	}
	if rate != 16000 {
		t.Errorf("Expected 16000 Hz, got %d", rate)
	}
	if len(decoded) != len(samples) {
		t.Fatalf("Expected %d samples, got %d", len(samples), len(decoded))
	}

	// 16-bit quantization leaves at most ~1/32768 of error per sample
	for i := range samples {
		if math.Abs(decoded[i]-samples[i]) > 1e-3 {
			t.Fatalf("Sample %d: expected %f, got %f", i, samples[i], decoded[i])
		}
	}
}

func TestEncodeWAVClampsOutOfRange(t *testing.T) {
	data, err := EncodeWAV([]float64{2.0, -2.0}, 16000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "clipped.wav")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write WAV file: %v", err)
	}

	decoded, _, _, err := WAVDecoder{}.Decode(path)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if decoded[0] < 0.99 || decoded[1] > -0.99 {
		t.Errorf("Expected full-scale clamped samples, got %v", decoded)
	}
}

func TestEncodeWAVValidation(t *testing.T) {
	if _, err := EncodeWAV(nil, 16000); err == nil {
		t.Error("Expected error for empty samples")
	}

	if _, err := EncodeWAV([]float64{0.1}, 0); err == nil {
		t.Error("Expected error for zero sample rate")
	}
}

func TestWAVDecoderMissingFile(t *testing.T) {
	_, _, _, err := WAVDecoder{}.Decode(filepath.Join(t.TempDir(), "nope.wav"))
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestWAVDecoderInvalidData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.wav")
	if err := os.WriteFile(path, []byte("this is not audio"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	_, _, _, err := WAVDecoder{}.Decode(path)
	if err == nil {
		t.Error("Expected error for invalid WAV data")
	}
}
