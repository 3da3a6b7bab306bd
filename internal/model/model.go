// Package model holds the domain entities shared by every storage adapter.
package model

import (
	"time"

	"github.com/google/uuid"
)

// PartOfSpeech classifies a Word grammatically. Newly imported words start as
// PartUnknown until the user classifies them. Articles and prepositions are not
// listed on purpose: they rarely make sense on their own and should be folded
// into a noun, verb, or expression.
type PartOfSpeech string

const (
	PartUnknown     PartOfSpeech = "unknown"
	PartNoun        PartOfSpeech = "noun"
	PartPronoun     PartOfSpeech = "pronoun"
	PartAdjective   PartOfSpeech = "adjective"
	PartAdverb      PartOfSpeech = "adverb"
	PartVerb        PartOfSpeech = "verb"
	PartParticiple  PartOfSpeech = "participle"
	PartConjunction PartOfSpeech = "conjunction"
	PartExpression  PartOfSpeech = "expression"
)

// ValidPartOfSpeech reports whether value is a known classification.
func ValidPartOfSpeech(value PartOfSpeech) bool {
	switch value {
	case PartUnknown, PartNoun, PartPronoun, PartAdjective, PartAdverb,
		PartVerb, PartParticiple, PartConjunction, PartExpression:
		return true
	}
	return false
}

// TrackerStatus is the learning state of one conjugation for one user.
type TrackerStatus string

const (
	// StatusLearned means the user is comfortable with the form and does not
	// want to train on it anymore.
	StatusLearned TrackerStatus = "learned"
	// StatusCurrentlyLearning means the form is in the active rotation.
	StatusCurrentlyLearning TrackerStatus = "currently_learning"
	// StatusWaitingToLearn means the form has not been added to the rotation yet.
	StatusWaitingToLearn TrackerStatus = "waiting_to_learn"
	// StatusUnknown is the initial state of every tracker.
	StatusUnknown TrackerStatus = "unknown"
	// StatusHidden removes the form from the learning process entirely. Useful
	// for articles and prepositions, which are hard to learn out of context.
	StatusHidden TrackerStatus = "hidden"
)

// ValidTrackerStatus reports whether value is a known tracker status.
func ValidTrackerStatus(value TrackerStatus) bool {
	switch value {
	case StatusLearned, StatusCurrentlyLearning, StatusWaitingToLearn,
		StatusUnknown, StatusHidden:
		return true
	}
	return false
}

// User owns every other entity.
type User struct {
	ID           uuid.UUID  `json:"user_id"`
	Username     string     `json:"username"`
	DisplayName  string     `json:"display_name"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// Session is a server-side login session referenced by a cookie.
type Session struct {
	ID         string    `json:"session_id"`
	UserID     uuid.UUID `json:"user_id"`
	ExpiresAt  time.Time `json:"expires_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// AppSettings is the process-wide configuration singleton. At most one row
// ever exists.
type AppSettings struct {
	MultiuserMode          bool      `json:"multiuser_mode"`
	PasswordlessLogin      bool      `json:"passwordless_login"`
	ShowUsersOnLoginScreen bool      `json:"show_users_on_login_screen"`
	CreatedAt              time.Time `json:"created_at"`
}

// Document is a user-owned upload, unique per (user, display name, language).
type Document struct {
	ID           uuid.UUID `json:"document_id"`
	UserID       uuid.UUID `json:"user_id"`
	DisplayName  string    `json:"display_name"`
	LanguageCode string    `json:"language_code"`
	FilePath     string    `json:"file_path"`
	CreatedAt    time.Time `json:"created_at"`
}

// Sentence is one line of uploaded text, unique per (user, language, text).
// It is independent of any single document: several documents may reference
// the same sentence through SentenceOrder rows.
type Sentence struct {
	ID           uuid.UUID `json:"sentence_id"`
	UserID       uuid.UUID `json:"user_id"`
	LanguageCode string    `json:"language_code"`
	Text         string    `json:"text"`
	AudioFile    string    `json:"audio_file,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Word is a deduplicated token, unique per (user, language, root word).
type Word struct {
	ID           uuid.UUID    `json:"word_id"`
	UserID       uuid.UUID    `json:"user_id"`
	LanguageCode string       `json:"language_code"`
	RootWord     string       `json:"root_word"`
	PartOfSpeech PartOfSpeech `json:"part_of_speech"`
	AudioFile    string       `json:"audio_file,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Conjugation is one inflected form of a Word, unique per (user, language, text).
// Not every axis applies to every language; unused axes stay empty.
type Conjugation struct {
	ID           uuid.UUID `json:"conjugation_id"`
	UserID       uuid.UUID `json:"user_id"`
	WordID       uuid.UUID `json:"word_id"`
	LanguageCode string    `json:"language_code"`
	Text         string    `json:"text"`
	Article      string    `json:"article,omitempty"`
	Case         string    `json:"case,omitempty"`
	Person       string    `json:"person,omitempty"`
	Gender       string    `json:"gender,omitempty"`
	Plurality    string    `json:"plurality,omitempty"`
	Politeness   string    `json:"politeness,omitempty"`
	Tense        string    `json:"tense,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// LearningTracker is per-(user, conjugation) progress. We track conjugations
// rather than words so the user has to learn every form of a word.
type LearningTracker struct {
	ID            uuid.UUID     `json:"tracker_id"`
	UserID        uuid.UUID     `json:"user_id"`
	ConjugationID uuid.UUID     `json:"conjugation_id"`
	LanguageCode  string        `json:"language_code"`
	Status        TrackerStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}

// SentenceOrder records the position of a sentence within a document.
// Orders are 1-based and dense in upload order. The same sentence may appear
// in one document at several distinct positions.
type SentenceOrder struct {
	DocumentID uuid.UUID `json:"document_id"`
	SentenceID uuid.UUID `json:"sentence_id"`
	Order      int       `json:"order"`
}

// WordOrder records the position of a word within a sentence. Orders are
// 0-based and dense in token order.
type WordOrder struct {
	SentenceID uuid.UUID `json:"sentence_id"`
	WordID     uuid.UUID `json:"word_id"`
	Order      int       `json:"order"`
}
