package asr

import (
	"fmt"
	"sort"
)

// ModelSize selects one of the published model checkpoints.
type ModelSize string

const (
	Model300M ModelSize = "300M"
	Model1B   ModelSize = "1B"
	Model3B   ModelSize = "3B"
	Model7B   ModelSize = "7B" // most accurate
)

var modelCards = map[ModelSize]string{
	Model300M: "omniASR_W2V_300M",
	Model1B:   "omniASR_W2V_1B",
	Model3B:   "omniASR_W2V_3B",
	Model7B:   "omniASR_LLM_7B",
}

// Valid reports whether the size names a published checkpoint.
func (m ModelSize) Valid() bool {
	_, ok := modelCards[m]
	return ok
}

// Card returns the model card identifier for the size.
func (m ModelSize) Card() (string, error) {
	card, ok := modelCards[m]
	if !ok {
		return "", fmt.Errorf("unknown model size %q (valid: 300M, 1B, 3B, 7B)", string(m))
	}
	return card, nil
}

// ModelInfo describes a loaded model checkpoint.
type ModelInfo struct {
	Size               ModelSize `json:"model_size"`
	Card               string    `json:"model_card"`
	SupportedLanguages string    `json:"supported_languages"`
	MaxAudioLength     string    `json:"max_audio_length"`
}

// InfoFor returns metadata for a model size. The cards advertise a 40 second
// maximum audio length, but the pipeline enforces 30 seconds per chunk; the
// segmenter uses the 30 second bound (see audio.MaxChunkSeconds).
func InfoFor(size ModelSize) (ModelInfo, error) {
	card, err := size.Card()
	if err != nil {
		return ModelInfo{}, err
	}
	return ModelInfo{
		Size:               size,
		Card:               card,
		SupportedLanguages: "1600+",
		MaxAudioLength:     "40 seconds",
	}, nil
}

// commonLanguages maps display names to xxx_Yyyy language tags. The tags are
// opaque to this layer and passed through to the inference pipeline; the
// model supports 1600+ languages beyond this list.
var commonLanguages = map[string]string{
	"English":            "eng_Latn",
	"Filipino/Tagalog":   "tgl_Latn",
	"Spanish":            "spa_Latn",
	"Chinese (Mandarin)": "cmn_Hans",
	"Japanese":           "jpn_Jpan",
	"Korean":             "kor_Hang",
	"German":             "deu_Latn",
	"French":             "fra_Latn",
	"Italian":            "ita_Latn",
	"Portuguese":         "por_Latn",
	"Russian":            "rus_Cyrl",
	"Arabic":             "arb_Arab",
	"Hindi":              "hin_Deva",
}

// CommonLanguages returns the commonly used language codes, keyed by display
// name.
func CommonLanguages() map[string]string {
	out := make(map[string]string, len(commonLanguages))
	for name, tag := range commonLanguages {
		out[name] = tag
	}
	return out
}

// CommonLanguageNames returns the display names in sorted order, for stable
// listings.
func CommonLanguageNames() []string {
	names := make([]string, 0, len(commonLanguages))
	for name := range commonLanguages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
