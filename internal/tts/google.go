package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"otter.camp/lingot/internal/language"
)

// ErrDisabled is returned by the Disabled adapter.
var ErrDisabled = errors.New("tts is disabled")

const (
	defaultTimeout       = 20 * time.Second
	defaultBodyByteLimit = 8 * 1024 * 1024
)

// GoogleSynthesizer fetches mp3 audio from the public Google Translate
// text-to-speech endpoint.
type GoogleSynthesizer struct {
	endpoint string
	client   *http.Client
}

// NewGoogleSynthesizer builds a synthesizer against the given endpoint
/// (normally https://translate.google.com/translate_tts).
func NewGoogleSynthesizer(endpoint string, client *http.Client) (*GoogleSynthesizer, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, fmt.Errorf("tts endpoint is required")
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &GoogleSynthesizer{endpoint: trimmed, client: client}, nil
}

func (g *GoogleSynthesizer) Name() string { return "google" }

func (g *GoogleSynthesizer) Synthesize(ctx context.Context, text, languageCode string) ([]byte, error) {
	trimmedText := strings.TrimSpace(text)
	if trimmedText == "" {
		return nil, fmt.Errorf("text is required")
	}

	profile, ok := language.Lookup(languageCode)
	if !ok || !profile.TTSSupported {
		return nil, fmt.Errorf("language %q has no speech support", languageCode)
	}

	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", profile.Code)
	query.Set("q", trimmedText)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build tts request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tts audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("tts status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, defaultBodyByteLimit))
	if err != nil {
		return nil, fmt.Errorf("read tts body: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("tts returned empty audio")
	}
	return audio, nil
}
