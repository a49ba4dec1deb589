// Package audio handles audio source normalization, resampling, and chunking.
// It resolves file references and raw PCM buffers into mono 16 kHz waveforms
// and splits them into bounded-duration chunks ready for batched inference.
package audio
