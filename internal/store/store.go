// Package store defines the storage ports consumed by the rest of the
// application. Each port has interchangeable adapters (postgres, jsonfile,
// memory); internal/backend wires one set into a Container at process start.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"otter.camp/lingot/internal/model"
)

// ErrExists is returned when a create violates a uniqueness key. Callers are
// expected to fall back to a lookup (find-or-create), not treat it as fatal.
var ErrExists = errors.New("object already exists")

// ErrNotFound is returned when a lookup by key matches nothing.
var ErrNotFound = errors.New("object not found")

// IsNotFound reports whether err is a missing-object error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// UserStore manages user identities.
type UserStore interface {
	// CreateUser inserts a new user. Returns ErrExists when the username is taken.
	CreateUser(ctx context.Context, user model.User) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// FirstUser returns the earliest-created user, used for passwordless
	// single-user auto-login. Returns ErrNotFound when no user exists.
	FirstUser(ctx context.Context) (*model.User, error)
	CountUsers(ctx context.Context) (int64, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	SetUserLastLogin(ctx context.Context, id uuid.UUID, loginAt time.Time) error
}

// SessionStore manages login sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, userID uuid.UUID, expiresAt, now time.Time) (string, error)
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	TouchSession(ctx context.Context, sessionID string, seenAt time.Time) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// AppSettingsStore manages the process-wide settings singleton.
type AppSettingsStore interface {
	// GetAppSettings returns the singleton row, or ErrNotFound before first-run
	// configuration has happened.
	GetAppSettings(ctx context.Context) (*model.AppSettings, error)
	// SaveAppSettings creates or replaces the singleton row.
	SaveAppSettings(ctx context.Context, settings model.AppSettings) (*model.AppSettings, error)
}

// DocumentStore manages uploaded documents.
type DocumentStore interface {
	// CreateDocument inserts a new document. Returns ErrExists for a duplicate
	// (user, display name, language) triple.
	CreateDocument(ctx context.Context, doc model.Document) (*model.Document, error)
	GetDocument(ctx context.Context, id uuid.UUID) (*model.Document, error)
	FindDocument(ctx context.Context, userID uuid.UUID, displayName, languageCode string) (*model.Document, error)
	ListDocuments(ctx context.Context, userID uuid.UUID) ([]model.Document, error)
	SetDocumentFile(ctx context.Context, id uuid.UUID, filePath string) error
	DeleteDocument(ctx context.Context, id uuid.UUID) error
}

// SentenceStore manages deduplicated sentences.
type SentenceStore interface {
	// FindSentence looks up by the (user, language, text) dedup key.
	FindSentence(ctx context.Context, userID uuid.UUID, languageCode, text string) (*model.Sentence, error)
	CreateSentence(ctx context.Context, sentence model.Sentence) (*model.Sentence, error)
	GetSentence(ctx context.Context, id uuid.UUID) (*model.Sentence, error)
	SetSentenceAudio(ctx context.Context, id uuid.UUID, audioFile string) error
	DeleteSentence(ctx context.Context, id uuid.UUID) error
}

// WordStore manages deduplicated words.
type WordStore interface {
	// FindWord looks up by the (user, language, root word) dedup key.
	FindWord(ctx context.Context, userID uuid.UUID, languageCode, rootWord string) (*model.Word, error)
	CreateWord(ctx context.Context, word model.Word) (*model.Word, error)
	GetWord(ctx context.Context, id uuid.UUID) (*model.Word, error)
	ListWords(ctx context.Context, userID uuid.UUID, languageCode string) ([]model.Word, error)
	SetWordPartOfSpeech(ctx context.Context, id uuid.UUID, part model.PartOfSpeech) error
	SetWordAudio(ctx context.Context, id uuid.UUID, audioFile string) error
	DeleteWord(ctx context.Context, id uuid.UUID) error
}

// LinkStore manages the order-preserving join rows between documents,
// sentences, and words.
type LinkStore interface {
	CreateSentenceOrder(ctx context.Context, link model.SentenceOrder) error
	CreateWordOrder(ctx context.Context, link model.WordOrder) error

	// SentenceOrdersForDocument returns the document's sentence links ordered
	// by position.
	SentenceOrdersForDocument(ctx context.Context, documentID uuid.UUID) ([]model.SentenceOrder, error)
	// DocumentIDsForSentence returns every document still referencing the
	// sentence. Used by the cascade resolver to detect sharing.
	DocumentIDsForSentence(ctx context.Context, sentenceID uuid.UUID) ([]uuid.UUID, error)
	// WordOrdersForSentence returns the sentence's word links ordered by position.
	WordOrdersForSentence(ctx context.Context, sentenceID uuid.UUID) ([]model.WordOrder, error)
	// SentenceIDsForWord returns every sentence still referencing the word.
	SentenceIDsForWord(ctx context.Context, wordID uuid.UUID) ([]uuid.UUID, error)

	DeleteSentenceOrdersForDocument(ctx context.Context, documentID uuid.UUID) error
	DeleteWordOrdersForSentence(ctx context.Context, sentenceID uuid.UUID) error
}

// ConjugationStore manages inflected word forms.
type ConjugationStore interface {
	// CreateConjugation inserts a new form. Returns ErrExists for a duplicate
	// (user, language, text) triple. Adapters also create the form's
	// LearningTracker with status "unknown" in the same operation.
	CreateConjugation(ctx context.Context, conjugation model.Conjugation) (*model.Conjugation, error)
	FindConjugation(ctx context.Context, userID uuid.UUID, languageCode, text string) (*model.Conjugation, error)
	ListConjugationsForWord(ctx context.Context, wordID uuid.UUID) ([]model.Conjugation, error)
	DeleteConjugation(ctx context.Context, id uuid.UUID) error
}

// TrackerStore manages learning progress rows.
type TrackerStore interface {
	GetTracker(ctx context.Context, id uuid.UUID) (*model.LearningTracker, error)
	GetTrackerByConjugation(ctx context.Context, conjugationID uuid.UUID) (*model.LearningTracker, error)
	ListTrackersByStatus(ctx context.Context, userID uuid.UUID, languageCode string, status model.TrackerStatus) ([]model.LearningTracker, error)
	SetTrackerStatus(ctx context.Context, id uuid.UUID, status model.TrackerStatus) error
}
