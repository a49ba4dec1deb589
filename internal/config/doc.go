// Package config provides configuration loading and validation for the
// transcription adapter. It handles YAML-based configuration with struct
// validation for the model, audio, transcription and logging sections.
package config
