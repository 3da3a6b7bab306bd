package tts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGoogleSynthesizer(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("tl"); got != "en" {
			t.Errorf("unexpected language param: %q", got)
		}
		if got := r.URL.Query().Get("q"); got != "hello world" {
			t.Errorf("unexpected text param: %q", got)
		}
		_, _ = w.Write([]byte("fake-mp3"))
	}))
	defer srv.Close()

	synth, err := NewGoogleSynthesizer(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("new synthesizer: %v", err)
	}

	audio, err := synth.Synthesize(context.Background(), "hello world", "en-US")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if string(audio) != "fake-mp3" {
		t.Fatalf("unexpected audio payload: %q", audio)
	}
}

func TestGoogleSynthesizerRejectsUnsupportedLanguage(t *testing.T) {
	t.Parallel()

	synth, err := NewGoogleSynthesizer("https://example.invalid/tts", nil)
	if err != nil {
		t.Fatalf("new synthesizer: %v", err)
	}
	if _, err := synth.Synthesize(context.Background(), "hello", "tlh"); err == nil {
		t.Fatalf("expected unsupported language to fail")
	}
}

func TestDisabled(t *testing.T) {
	t.Parallel()

	if _, err := (Disabled{}).Synthesize(context.Background(), "hello", "en"); err != ErrDisabled {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}
