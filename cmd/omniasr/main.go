package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/KazeFreeze/baltazar/internal/asr"
	"github.com/KazeFreeze/baltazar/internal/audio"
	"github.com/KazeFreeze/baltazar/internal/config"
	"github.com/KazeFreeze/baltazar/internal/metrics"
	"github.com/KazeFreeze/baltazar/internal/transcription"
)

const (
	serviceName    = "omniasr"
	serviceVersion = "1.0.0"
)

// jsonOutput is the machine-readable CLI output shape.
type jsonOutput struct {
	Files          []string `json:"files"`
	Language       string   `json:"language"`
	Transcriptions []string `json:"transcriptions"`
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath    string
		language      string
		modelSize     string
		device        string
		batchSize     int
		endpoint      string
		apiKey        string
		outputPath    string
		jsonMode      bool
		listLanguages bool
		modelInfo     bool
	)

	flag.StringVar(&configPath, "config", "", "Path to configuration file (optional)")
	flag.StringVar(&language, "language", "eng_Latn", "Language code, e.g. eng_Latn or tgl_Latn (-l)")
	flag.StringVar(&language, "l", "eng_Latn", "Language code")
	// Model and device default to "" so unset flags never clobber config
	// file values; config defaults supply 7B/auto when neither is given.
	flag.StringVar(&modelSize, "model", "", "Model size: 300M|1B|3B|7B (default 7B) (-m)")
	flag.StringVar(&modelSize, "m", "", "Model size")
	flag.StringVar(&device, "device", "", "Device to use: cuda|cpu|auto (default auto)")
	flag.IntVar(&batchSize, "batch-size", 0, "Batch size for processing (-b)")
	flag.IntVar(&batchSize, "b", 0, "Batch size for processing")
	flag.StringVar(&endpoint, "endpoint", os.Getenv("OMNIASR_ENDPOINT"), "Inference API endpoint (or OMNIASR_ENDPOINT)")
	flag.StringVar(&apiKey, "api-key", os.Getenv("OMNIASR_API_KEY"), "Inference API key (or OMNIASR_API_KEY)")
	flag.StringVar(&outputPath, "output", "", "Output file (default: print to stdout) (-o)")
	flag.StringVar(&outputPath, "o", "", "Output file")
	flag.BoolVar(&jsonMode, "json", false, "Output as JSON")
	flag.BoolVar(&listLanguages, "list-languages", false, "List common language codes and exit")
	flag.BoolVar(&modelInfo, "model-info", false, "Show model information and exit")
	flag.Parse()

	if listLanguages {
		printLanguages()
		return 0
	}

	if modelInfo {
		size := modelSize
		if size == "" {
			size = config.Default().Model.Size
		}
		return printModelInfo(asr.ModelSize(size))
	}

	files := flag.Args()
	if len(files) == 0 {
		flag.Usage()
		fmt.Fprintln(os.Stderr, "\nError: no audio files specified")
		return 1
	}

	for _, path := range files {
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: file not found: %s\n", path)
			return 1
		}
	}

	cfg, err := buildConfig(configPath, modelSize, device, batchSize, endpoint, apiKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger := initLogger(cfg.Logging)
	logger.Info("starting transcription",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
		slog.String("model", cfg.Model.Size),
		slog.String("device", cfg.Model.Device),
		slog.Int("files", len(files)),
		slog.String("language", language),
	)

	card, err := asr.ModelSize(cfg.Model.Size).Card()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	client, err := transcription.NewClient(transcription.Config{
		Endpoint: cfg.Transcription.Endpoint,
		APIKey:   cfg.Transcription.APIKey,
		Model:    card,
		Device:   cfg.Model.Device,
		Timeout:  cfg.Transcription.GetTimeoutDuration(),
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create inference client: %v\n", err)
		return 1
	}

	adapter, err := asr.New(asr.Config{
		Pipeline:  client,
		Logger:    logger,
		Metrics:   metrics.New(prometheus.NewRegistry()),
		BatchSize: cfg.Transcription.BatchSize,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create adapter: %v\n", err)
		return 1
	}

	sources := make([]audio.Source, len(files))
	for i, path := range files {
		sources[i] = audio.FromFile(path)
	}

	texts, err := adapter.TranscribeBatch(context.Background(), sources, []string{language})
	if err != nil {
		logger.Error("transcription failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	output, err := formatOutput(files, language, texts, jsonMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(output), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to write output file: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stderr, "Output written to: %s\n", outputPath)
	} else {
		fmt.Println(output)
	}

	return 0
}

// buildConfig loads the config file when given, then applies CLI overrides.
func buildConfig(path, modelSize, device string, batchSize int, endpoint, apiKey string) (*config.Config, error) {
	var cfg *config.Config
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	if modelSize != "" {
		cfg.Model.Size = modelSize
	}
	if device != "" {
		cfg.Model.Device = device
	}
	if batchSize > 0 {
		cfg.Transcription.BatchSize = batchSize
	}
	if endpoint != "" {
		cfg.Transcription.Endpoint = endpoint
	}
	if apiKey != "" {
		cfg.Transcription.APIKey = apiKey
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// formatOutput renders transcripts as plain text or a JSON object with
// files, language and transcriptions in matching order.
func formatOutput(files []string, language string, texts []string, jsonMode bool) (string, error) {
	if jsonMode {
		data, err := json.MarshalIndent(jsonOutput{
			Files:          files,
			Language:       language,
			Transcriptions: texts,
		}, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode JSON output: %w", err)
		}
		return string(data), nil
	}

	var sb strings.Builder
	for i, text := range texts {
		if len(files) > 1 {
			fmt.Fprintf(&sb, "\n[%d] %s\n", i+1, files[i])
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

func printLanguages() {
	langs := asr.CommonLanguages()

	fmt.Println("\nCommonly Used Language Codes:")
	fmt.Println(strings.Repeat("-", 50))
	for _, name := range asr.CommonLanguageNames() {
		fmt.Printf("%-25s %s\n", name, langs[name])
	}
	fmt.Println("\nNote: 1600+ languages supported.")
}

func printModelInfo(size asr.ModelSize) int {
	info, err := asr.InfoFor(size)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Println("\nModel Information:")
	fmt.Println(strings.Repeat("-", 50))
	fmt.Printf("model_size: %s\n", info.Size)
	fmt.Printf("model_card: %s\n", info.Card)
	fmt.Printf("supported_languages: %s\n", info.SupportedLanguages)
	fmt.Printf("max_audio_length: %s\n", info.MaxAudioLength)
	return 0
}

// initLogger creates the structured logger from logging configuration.
// The CLI defaults to stderr so transcripts on stdout stay clean.
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var output *os.File
	switch cfg.Output {
	case "stdout":
		output = os.Stdout
	case "stderr", "":
		output = os.Stderr
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, falling back to stderr\n", cfg.Output, err)
			output = os.Stderr
		} else {
			output = file
		}
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
