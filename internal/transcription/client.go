package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/KazeFreeze/baltazar/internal/audio"
)

const userAgent = "baltazar/1.0"

// Config contains transcription client configuration.
type Config struct {
	Endpoint string
	APIKey   string
	Model    string // model card identifier sent with every request
	Device   string // "cuda", "cpu" or "auto"
	Timeout  time.Duration
}

// Client implements the inference pipeline capability over HTTP. One call
// carries every chunk of the batch; a failing response aborts the whole
// batch with no partial results and no retries.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
}

// response is the inference API reply: one transcript per chunk, in order.
type response struct {
	RequestID      string   `json:"request_id"`
	Transcriptions []string `json:"transcriptions"`
}

// NewClient creates a new inference HTTP client.
func NewClient(config Config, logger *slog.Logger) (*Client, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint cannot be empty")
	}

	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Minute
	}

	if config.Device == "" {
		config.Device = "auto"
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 90 * time.Second,
			},
		},
		logger: logger,
	}, nil
}

// Transcribe sends all chunks in one batched request and returns the
// per-chunk transcripts in input order.
func (c *Client) Transcribe(ctx context.Context, chunks []audio.Chunk, languages []string, batchSize int) ([]string, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no chunks to transcribe")
	}

	if len(languages) != len(chunks) {
		return nil, fmt.Errorf("got %d language tags for %d chunks", len(languages), len(chunks))
	}

	requestID := uuid.NewString()
	body, contentType, err := c.buildRequest(requestID, chunks, languages, batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to build inference request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	c.logger.Debug("sending inference request",
		slog.String("request_id", requestID),
		slog.Int("chunks", len(chunks)),
		slog.Int("batch_size", batchSize),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read inference response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("inference API error %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed response
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse inference response: %w", err)
	}

	if len(parsed.Transcriptions) != len(chunks) {
		return nil, fmt.Errorf("inference returned %d transcripts for %d chunks", len(parsed.Transcriptions), len(chunks))
	}

	return parsed.Transcriptions, nil
}

// buildRequest assembles the multipart body: one WAV part per chunk plus the
// request metadata fields.
func (c *Client) buildRequest(requestID string, chunks []audio.Chunk, languages []string, batchSize int) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for i, chunk := range chunks {
		wavData, err := audio.EncodeWAV(chunk.Samples, chunk.SampleRate)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode chunk %d: %w", i, err)
		}

		part, err := writer.CreateFormFile(fmt.Sprintf("chunk_%d", i), fmt.Sprintf("chunk_%d.wav", i))
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file for chunk %d: %w", i, err)
		}

		if _, err := part.Write(wavData); err != nil {
			return nil, "", fmt.Errorf("failed to write chunk %d: %w", i, err)
		}
	}

	langData, err := json.Marshal(languages)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode language tags: %w", err)
	}

	fields := map[string]string{
		"request_id":  requestID,
		"model":       c.config.Model,
		"device":      c.config.Device,
		"languages":   string(langData),
		"batch_size":  fmt.Sprintf("%d", batchSize),
		"chunk_count": fmt.Sprintf("%d", len(chunks)),
	}

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}
