package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete adapter configuration.
type Config struct {
	Model         ModelConfig         `yaml:"model"`
	Audio         AudioConfig         `yaml:"audio"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ModelConfig selects the model checkpoint and the device it runs on.
type ModelConfig struct {
	Size   string `yaml:"size"`   // 300M, 1B, 3B or 7B
	Device string `yaml:"device"` // cuda, cpu or auto
}

// AudioConfig contains audio preprocessing parameters.
type AudioConfig struct {
	TargetSampleRate int     `yaml:"target_sample_rate"`
	ChunkMaxDuration float64 `yaml:"chunk_max_duration"` // seconds
}

// TranscriptionConfig contains inference API configuration.
type TranscriptionConfig struct {
	Endpoint  string `yaml:"endpoint"`
	APIKey    string `yaml:"api_key"`
	Timeout   int    `yaml:"timeout"` // seconds
	BatchSize int    `yaml:"batch_size"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Default returns a configuration with working defaults for everything
// except the inference endpoint, which must be supplied by the caller.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Size:   "7B",
			Device: "auto",
		},
		Audio: AudioConfig{
			TargetSampleRate: 16000,
			ChunkMaxDuration: 30.0,
		},
		Transcription: TranscriptionConfig{
			Timeout:   300,
			BatchSize: 2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate performs comprehensive validation of the configuration.
func (c *Config) Validate() error {
	if err := c.Model.Validate(); err != nil {
		return fmt.Errorf("model config: %w", err)
	}

	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}

	if err := c.Transcription.Validate(); err != nil {
		return fmt.Errorf("transcription config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates model configuration.
func (m *ModelConfig) Validate() error {
	validSizes := map[string]bool{"300M": true, "1B": true, "3B": true, "7B": true}
	if !validSizes[m.Size] {
		return fmt.Errorf("size must be one of [300M, 1B, 3B, 7B], got '%s'", m.Size)
	}

	validDevices := map[string]bool{"cuda": true, "cpu": true, "auto": true}
	if !validDevices[m.Device] {
		return fmt.Errorf("device must be one of [cuda, cpu, auto], got '%s'", m.Device)
	}

	return nil
}

// Validate validates audio configuration.
func (a *AudioConfig) Validate() error {
	if a.TargetSampleRate != 16000 {
		return fmt.Errorf("target_sample_rate must be 16000 Hz for the inference pipeline, got %d", a.TargetSampleRate)
	}

	if a.ChunkMaxDuration != 30.0 {
		return fmt.Errorf("chunk_max_duration must be 30 seconds, the pipeline's context limit, got %f", a.ChunkMaxDuration)
	}

	return nil
}

// Validate validates transcription configuration.
func (t *TranscriptionConfig) Validate() error {
	if t.Endpoint == "" {
		return fmt.Errorf("endpoint cannot be empty")
	}

	if t.Timeout < 1 {
		return fmt.Errorf("timeout must be at least 1 second, got %d", t.Timeout)
	}

	if t.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1, got %d", t.BatchSize)
	}

	return nil
}

// Validate validates logging configuration.
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	return nil
}

// GetTimeoutDuration returns the transcription timeout as a time.Duration.
func (t *TranscriptionConfig) GetTimeoutDuration() time.Duration {
	return time.Duration(t.Timeout) * time.Second
}
