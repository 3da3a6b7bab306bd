// Package tts is the text-to-speech boundary. The pipeline treats synthesis
// as best-effort: a failed synthesis never blocks sentence creation.
package tts

import "context"

// Synthesizer converts text into spoken audio (mp3 bytes).
type Synthesizer interface {
	// Synthesize is a blocking, synchronous call with no retries.
	Synthesize(ctx context.Context, text, languageCode string) ([]byte, error)
	Name() string
}

// Disabled is the adapter used when TTS is turned off. It synthesizes nothing
// and reports ErrDisabled so callers can tell "off" from "failed".
type Disabled struct{}

func (Disabled) Synthesize(context.Context, string, string) ([]byte, error) {
	return nil, ErrDisabled
}

func (Disabled) Name() string { return "disabled" }
