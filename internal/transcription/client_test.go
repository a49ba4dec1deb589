package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/KazeFreeze/baltazar/internal/audio"
)

func testChunks(n int) []audio.Chunk {
	chunks := make([]audio.Chunk, n)
	for i := range chunks {
		chunks[i] = audio.Chunk{
			Samples:    make([]float64, 1600),
			SampleRate: audio.TargetSampleRate,
		}
	}
	return chunks
}

func testLanguages(n int) []string {
	langs := make([]string, n)
	for i := range langs {
		langs[i] = "eng_Latn"
	}
	return langs
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{}, nil); err == nil {
		t.Error("Expected error for empty endpoint")
	}

	c, err := NewClient(Config{Endpoint: "http://localhost:9000/v1/transcribe"}, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if c.config.Timeout != 5*time.Minute {
		t.Errorf("Expected default timeout of 5m, got %v", c.config.Timeout)
	}
	if c.config.Device != "auto" {
		t.Errorf("Expected default device auto, got %s", c.config.Device)
	}
}

func TestTranscribeSendsBatchedMultipart(t *testing.T) {
	var (
		gotAuth       string
		gotChunkFiles int
		gotFields     = map[string]string{}
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("Failed to parse multipart form: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		for name, files := range r.MultipartForm.File {
			if strings.HasPrefix(name, "chunk_") {
				gotChunkFiles += len(files)
			}
		}
		for _, key := range []string{"request_id", "model", "device", "languages", "batch_size", "chunk_count"} {
			gotFields[key] = r.FormValue(key)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"request_id":     r.FormValue("request_id"),
			"transcriptions": []string{"one", "two", "three"},
		})
	}))
	defer server.Close()

	client, err := NewClient(Config{
		Endpoint: server.URL,
		APIKey:   "secret",
		Model:    "omniASR_LLM_7B",
		Device:   "cuda",
	}, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	texts, err := client.Transcribe(context.Background(), testChunks(3), testLanguages(3), 2)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	if len(texts) != 3 || texts[0] != "one" || texts[2] != "three" {
		t.Errorf("Unexpected transcripts: %v", texts)
	}

	if gotAuth != "Bearer secret" {
		t.Errorf("Expected bearer auth, got %q", gotAuth)
	}
	if gotChunkFiles != 3 {
		t.Errorf("Expected 3 chunk files, got %d", gotChunkFiles)
	}
	if gotFields["model"] != "omniASR_LLM_7B" {
		t.Errorf("Expected model field, got %q", gotFields["model"])
	}
	if gotFields["device"] != "cuda" {
		t.Errorf("Expected device field, got %q", gotFields["device"])
	}
	if gotFields["batch_size"] != "2" {
		t.Errorf("Expected batch_size 2, got %q", gotFields["batch_size"])
	}
	if gotFields["chunk_count"] != "3" {
		t.Errorf("Expected chunk_count 3, got %q", gotFields["chunk_count"])
	}
	if gotFields["request_id"] == "" {
		t.Error("Expected a request_id field")
	}

	var langs []string
	if err := json.Unmarshal([]byte(gotFields["languages"]), &langs); err != nil {
		t.Fatalf("languages field is not JSON: %v", err)
	}
	if len(langs) != 3 || langs[0] != "eng_Latn" {
		t.Errorf("Unexpected languages field: %v", langs)
	}
}

func TestTranscribeHTTPErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, _ := NewClient(Config{Endpoint: server.URL}, nil)

	_, err := client.Transcribe(context.Background(), testChunks(1), testLanguages(1), 2)
	if err == nil {
		t.Fatal("Expected error for HTTP 500")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("Expected status code in error, got: %v", err)
	}
}

func TestTranscribeCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"transcriptions": ["only one"]}`)
	}))
	defer server.Close()

	client, _ := NewClient(Config{Endpoint: server.URL}, nil)

	_, err := client.Transcribe(context.Background(), testChunks(2), testLanguages(2), 2)
	if err == nil {
		t.Error("Expected error when transcript count does not match chunk count")
	}
}

func TestTranscribeInputValidation(t *testing.T) {
	client, _ := NewClient(Config{Endpoint: "http://localhost:9000"}, nil)

	if _, err := client.Transcribe(context.Background(), nil, nil, 2); err == nil {
		t.Error("Expected error for empty chunk list")
	}

	if _, err := client.Transcribe(context.Background(), testChunks(2), testLanguages(1), 2); err == nil {
		t.Error("Expected error for language/chunk count mismatch")
	}
}

func TestTranscribeNoRetry(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, _ := NewClient(Config{Endpoint: server.URL}, nil)

	_, err := client.Transcribe(context.Background(), testChunks(1), testLanguages(1), 2)
	if err == nil {
		t.Fatal("Expected error for HTTP 503")
	}
	if calls != 1 {
		t.Errorf("Failures must not be retried, got %d calls", calls)
	}
}
