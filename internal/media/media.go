// Package media manages on-disk files: uploaded documents and synthesized
// audio, laid out per user and language under a single root directory.
package media

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store resolves and manages paths under its root. All returned paths are
// relative to the process working directory (root included), so they can be
// stored as file references.
type Store struct {
	root string
}

func NewStore(root string) (*Store, error) {
	trimmed := strings.TrimSpace(root)
	if trimmed == "" {
		return nil, fmt.Errorf("media root is required")
	}
	return &Store{root: trimmed}, nil
}

// AudioPath is {root}/{user_id}/{language_code}/audio/{entity_id}.mp3.
func (s *Store) AudioPath(userID uuid.UUID, languageCode string, entityID uuid.UUID) string {
	return filepath.Join(s.root, userID.String(), languageCode, "audio", entityID.String()+".mp3")
}

// DocumentPath is {root}/{user_id}/{language_code}/docs/{document_id}.txt.
func (s *Store) DocumentPath(userID uuid.UUID, languageCode string, documentID uuid.UUID) string {
	return filepath.Join(s.root, userID.String(), languageCode, "docs", documentID.String()+".txt")
}

// SaveAudio writes synthesized audio and returns its path.
func (s *Store) SaveAudio(userID uuid.UUID, languageCode string, entityID uuid.UUID, data []byte) (string, error) {
	path := s.AudioPath(userID, languageCode, entityID)
	if err := writeFile(path, data); err != nil {
		return "", fmt.Errorf("save audio: %w", err)
	}
	return path, nil
}

// SaveDocument writes normalized document text and returns its path.
func (s *Store) SaveDocument(userID uuid.UUID, languageCode string, documentID uuid.UUID, text string) (string, error) {
	path := s.DocumentPath(userID, languageCode, documentID)
	if err := writeFile(path, []byte(text)); err != nil {
		return "", fmt.Errorf("save document: %w", err)
	}
	return path, nil
}

// ReadDocument returns the stored text of an uploaded document.
func (s *Store) ReadDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return string(data), nil
}

// Remove deletes a stored file. A file that is already gone is not an error:
// database cleanup must proceed regardless.
func (s *Store) Remove(path string) error {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil
	}
	if err := os.Remove(trimmed); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", trimmed, err)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
