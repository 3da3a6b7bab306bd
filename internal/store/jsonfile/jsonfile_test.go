package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otter.camp/lingot/internal/model"
	"otter.camp/lingot/internal/store"
)

func TestOpenCreatesEmptyDatabase(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "lingot.db.json")
	s, err := Open(path)
	require.NoError(t, err)

	count, err := s.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	// The file exists immediately and passes its own validation.
	_, err = Open(path)
	require.NoError(t, err)
}

func TestDataSurvivesReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lingot.db.json")

	s, err := Open(path)
	require.NoError(t, err)

	user, err := s.CreateUser(ctx, model.User{
		Username:     "Anna",
		DisplayName:  "Anna",
		PasswordHash: "$2a$10$fakehash",
	})
	require.NoError(t, err)

	doc, err := s.CreateDocument(ctx, model.Document{
		UserID:       user.ID,
		DisplayName:  "Dutch practice",
		LanguageCode: "nl",
	})
	require.NoError(t, err)

	sentence, err := s.CreateSentence(ctx, model.Sentence{
		UserID:       user.ID,
		LanguageCode: "nl",
		Text:         "De kat zit.",
	})
	require.NoError(t, err)
	require.NoError(t, s.CreateSentenceOrder(ctx, model.SentenceOrder{
		DocumentID: doc.ID,
		SentenceID: sentence.ID,
		Order:      1,
	}))

	word, err := s.CreateWord(ctx, model.Word{
		UserID:       user.ID,
		LanguageCode: "nl",
		RootWord:     "zitten",
		PartOfSpeech: model.PartVerb,
	})
	require.NoError(t, err)

	conjugation, err := s.CreateConjugation(ctx, model.Conjugation{
		UserID:       user.ID,
		WordID:       word.ID,
		LanguageCode: "nl",
		Text:         "zit",
		Person:       "third",
		Tense:        "present",
	})
	require.NoError(t, err)

	_, err = s.SaveAppSettings(ctx, model.AppSettings{MultiuserMode: true})
	require.NoError(t, err)

	reopened, err := Open(path)
	require.NoError(t, err)

	gotUser, err := reopened.GetUserByUsername(ctx, "anna")
	require.NoError(t, err)
	assert.Equal(t, user.ID, gotUser.ID)
	assert.Equal(t, "$2a$10$fakehash", gotUser.PasswordHash)

	gotDoc, err := reopened.FindDocument(ctx, user.ID, "Dutch practice", "nl")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, gotDoc.ID)

	links, err := reopened.SentenceOrdersForDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, sentence.ID, links[0].SentenceID)

	tracker, err := reopened.GetTrackerByConjugation(ctx, conjugation.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusUnknown, tracker.Status)

	settings, err := reopened.GetAppSettings(ctx)
	require.NoError(t, err)
	assert.True(t, settings.MultiuserMode)
}

func TestOpenRejectsInvalidFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "lingot.db.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 1, "users": "not an array"}`), 0o644))

	_, err := Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")
}

func TestOpenRejectsUnknownVersion(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "lingot.db.json")
	s, err := Open(path)
	require.NoError(t, err)
	s.db.Version = 2
	s.mu.Lock()
	require.NoError(t, s.save())
	s.mu.Unlock()

	_, err = Open(path)
	require.Error(t, err)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "lingot.db.json"))
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, model.User{Username: "sam"})
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, model.User{Username: "  SAM "})
	assert.ErrorIs(t, err, store.ErrExists)
}

func TestSessionExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "lingot.db.json"))
	require.NoError(t, err)

	now := time.Now().UTC()
	userID := uuid.New()

	live, err := s.CreateSession(ctx, userID, now.Add(time.Hour), now)
	require.NoError(t, err)
	expired, err := s.CreateSession(ctx, userID, now.Add(-time.Hour), now)
	require.NoError(t, err)

	removed, err := s.DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = s.GetSession(ctx, live)
	require.NoError(t, err)
	_, err = s.GetSession(ctx, expired)
	assert.True(t, store.IsNotFound(err))
}
