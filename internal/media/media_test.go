package media

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestSaveAndRemoveAudio(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	userID := uuid.New()
	sentenceID := uuid.New()

	path, err := store.SaveAudio(userID, "en", sentenceID, []byte("mp3-bytes"))
	if err != nil {
		t.Fatalf("save audio: %v", err)
	}
	if !strings.HasSuffix(path, filepath.Join(userID.String(), "en", "audio", sentenceID.String()+".mp3")) {
		t.Fatalf("unexpected audio path: %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected audio file on disk: %v", err)
	}

	if err := store.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	// Removing twice must be a no-op, not an error.
	if err := store.Remove(path); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	path, err := store.SaveDocument(uuid.New(), "nl", uuid.New(), "Hallo wereld.\n")
	if err != nil {
		t.Fatalf("save document: %v", err)
	}

	text, err := store.ReadDocument(path)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	if text != "Hallo wereld.\n" {
		t.Fatalf("unexpected document text: %q", text)
	}
}

func TestRemoveBlankPath(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Remove(""); err != nil {
		t.Fatalf("expected blank path removal to be a no-op: %v", err)
	}
}
