// Package asr implements the headless transcription adapter.
// It normalizes heterogeneous audio inputs and language tags into batched
// inference requests, dispatches them to a pipeline implementation, and
// reassembles per-chunk transcripts into per-source results.
package asr
