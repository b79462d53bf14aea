// Package tts speaks text through the Kokoro synthesis service.
//
// The Client covers the service's HTTP surface: waveform synthesis, voice
// listing, health, and duration predictions from the secondary timestamped
// model. The Synthesizer layers overflow recovery on top, halving a chunk at
// whitespace and retrying when the model's phoneme budget is exceeded.
package tts
