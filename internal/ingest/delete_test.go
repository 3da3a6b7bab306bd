package ingest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otter.camp/lingot/internal/model"
	"otter.camp/lingot/internal/store"
)

func TestDeleteDocumentRemovesEverythingItOwns(t *testing.T) {
	t.Parallel()

	svc, db, media, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	uploaded, err := svc.UploadDocument(ctx, UploadRequest{
		UserID:       userID,
		DisplayName:  "Solo",
		LanguageCode: "en",
		Content:      []byte("The cat sat.\nThe cat ran.\n"),
	})
	require.NoError(t, err)
	docPath := uploaded.Document.FilePath

	result, err := svc.DeleteDocument(ctx, uploaded.Document.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, result.SentencesDeleted)
	assert.Equal(t, 4, result.WordsDeleted)
	assert.Equal(t, 2, result.AudioRemoved)

	_, err = db.GetDocument(ctx, uploaded.Document.ID)
	assert.True(t, store.IsNotFound(err))

	words, err := db.ListWords(ctx, userID, "en")
	require.NoError(t, err)
	assert.Empty(t, words)

	// The document file and both sentence clips are gone from disk.
	assert.Contains(t, media.removed, docPath)
	assert.Empty(t, media.audio)
	assert.Empty(t, media.docs)
}

func TestDeleteDocumentKeepsSharedSentences(t *testing.T) {
	t.Parallel()

	svc, db, _, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.UploadDocument(ctx, UploadRequest{
		UserID:       userID,
		DisplayName:  "First",
		LanguageCode: "en",
		Content:      []byte("Shared line.\nOnly in first.\n"),
	})
	require.NoError(t, err)

	second, err := svc.UploadDocument(ctx, UploadRequest{
		UserID:       userID,
		DisplayName:  "Second",
		LanguageCode: "en",
		Content:      []byte("Shared line.\n"),
	})
	require.NoError(t, err)

	result, err := svc.DeleteDocument(ctx, first.Document.ID)
	require.NoError(t, err)

	// "Only in first." goes, "Shared line." stays for the second document.
	assert.Equal(t, 1, result.SentencesDeleted)

	links, err := db.SentenceOrdersForDocument(ctx, second.Document.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	shared, err := db.GetSentence(ctx, links[0].SentenceID)
	require.NoError(t, err)
	assert.Equal(t, "Shared line.", shared.Text)

	// The surviving sentence keeps its words.
	wordLinks, err := db.WordOrdersForSentence(ctx, links[0].SentenceID)
	require.NoError(t, err)
	assert.Len(t, wordLinks, 2)
}

func TestDeleteDocumentKeepsWordsUsedElsewhere(t *testing.T) {
	t.Parallel()

	svc, db, _, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	doomed, err := svc.UploadDocument(ctx, UploadRequest{
		UserID:       userID,
		DisplayName:  "Doomed",
		LanguageCode: "en",
		Content:      []byte("the cat sat"),
	})
	require.NoError(t, err)

	_, err = svc.UploadDocument(ctx, UploadRequest{
		UserID:       userID,
		DisplayName:  "Survivor",
		LanguageCode: "en",
		Content:      []byte("the dog ran"),
	})
	require.NoError(t, err)

	result, err := svc.DeleteDocument(ctx, doomed.Document.ID)
	require.NoError(t, err)

	// "the" is shared with the survivor's sentence and must stay.
	assert.Equal(t, 2, result.WordsDeleted)

	words, err := db.ListWords(ctx, userID, "en")
	require.NoError(t, err)
	roots := make([]string, 0, len(words))
	for _, word := range words {
		roots = append(roots, word.RootWord)
	}
	assert.ElementsMatch(t, []string{"the", "dog", "ran"}, roots)
}

func TestDeleteDocumentRemovesConjugationsAndTrackers(t *testing.T) {
	t.Parallel()

	svc, db, _, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	uploaded, err := svc.UploadDocument(ctx, UploadRequest{
		UserID:       userID,
		DisplayName:  "Verbs",
		LanguageCode: "en",
		Content:      []byte("run"),
	})
	require.NoError(t, err)

	word, err := db.FindWord(ctx, userID, "en", "run")
	require.NoError(t, err)

	conjugation, err := db.CreateConjugation(ctx, model.Conjugation{
		UserID:       userID,
		WordID:       word.ID,
		LanguageCode: "en",
		Text:         "ran",
		Tense:        "past",
	})
	require.NoError(t, err)

	tracker, err := db.GetTrackerByConjugation(ctx, conjugation.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusUnknown, tracker.Status)

	_, err = svc.DeleteDocument(ctx, uploaded.Document.ID)
	require.NoError(t, err)

	_, err = db.FindConjugation(ctx, userID, "en", "ran")
	assert.True(t, store.IsNotFound(err))
	_, err = db.GetTracker(ctx, tracker.ID)
	assert.True(t, store.IsNotFound(err))
}

func TestDeleteDocumentUnknownID(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestService(t)

	_, err := svc.DeleteDocument(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
}
