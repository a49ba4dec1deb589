package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// Mock inference server for local development. Accepts the batched multipart
// request the adapter sends and returns one placeholder transcript per chunk.
//
// Usage: go run test_transcription_server.go
// Then:  omniasr --endpoint http://localhost:8899/v1/transcribe audio.wav

type transcribeResponse struct {
	RequestID      string   `json:"request_id"`
	Transcriptions []string `json:"transcriptions"`
}

func transcribeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(256 << 20); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	requestID := r.FormValue("request_id")
	model := r.FormValue("model")
	device := r.FormValue("device")
	batchSize := r.FormValue("batch_size")

	var languages []string
	if raw := r.FormValue("languages"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &languages); err != nil {
			http.Error(w, "Invalid languages field", http.StatusBadRequest)
			return
		}
	}

	chunkCount := 0
	for name, files := range r.MultipartForm.File {
		if len(name) > 6 && name[:6] == "chunk_" {
			chunkCount += len(files)
		}
	}

	log.Printf("request_id=%s model=%s device=%s batch_size=%s chunks=%d languages=%v",
		requestID, model, device, batchSize, chunkCount, languages)

	transcriptions := make([]string, chunkCount)
	for i := range transcriptions {
		lang := "eng_Latn"
		if i < len(languages) {
			lang = languages[i]
		}
		transcriptions[i] = fmt.Sprintf("[mock transcript %d, %s]", i, lang)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transcribeResponse{
		RequestID:      requestID,
		Transcriptions: transcriptions,
	})
}

func main() {
	http.HandleFunc("/v1/transcribe", transcribeHandler)

	addr := ":8899"
	log.Printf("Mock inference server listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}
