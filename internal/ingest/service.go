// Package ingest implements the document ingestion pipeline: text
// normalization, sentence and word deduplication, and the order-preserving
// join rows between them. The companion cascade resolver lives in delete.go.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"otter.camp/lingot/internal/langdetect"
	"otter.camp/lingot/internal/language"
	"otter.camp/lingot/internal/model"
	"otter.camp/lingot/internal/reader"
	"otter.camp/lingot/internal/store"
	"otter.camp/lingot/internal/textnorm"
	"otter.camp/lingot/internal/tts"
)

// MediaStore is the slice of internal/media the pipeline needs.
type MediaStore interface {
	SaveAudio(userID uuid.UUID, languageCode string, entityID uuid.UUID, data []byte) (string, error)
	SaveDocument(userID uuid.UUID, languageCode string, documentID uuid.UUID, text string) (string, error)
	ReadDocument(path string) (string, error)
	Remove(path string) error
}

// Service runs uploads through the pipeline. Everything is synchronous and
// single-threaded; there is no rollback across the pipeline. Re-running an
// upload after a partial failure is safe because every resolver is a
// find-or-create on a dedup key.
type Service struct {
	documents    store.DocumentStore
	sentences    store.SentenceStore
	words        store.WordStore
	links        store.LinkStore
	conjugations store.ConjugationStore

	media  MediaStore
	synth  tts.Synthesizer
	logger zerolog.Logger
}

func NewService(
	documents store.DocumentStore,
	sentences store.SentenceStore,
	words store.WordStore,
	links store.LinkStore,
	conjugations store.ConjugationStore,
	media MediaStore,
	synth tts.Synthesizer,
	logger zerolog.Logger,
) *Service {
	if synth == nil {
		synth = tts.Disabled{}
	}
	return &Service{
		documents:    documents,
		sentences:    sentences,
		words:        words,
		links:        links,
		conjugations: conjugations,
		media:        media,
		synth:        synth,
		logger:       logger,
	}
}

// UploadRequest is one document upload.
type UploadRequest struct {
	UserID      uuid.UUID
	DisplayName string
	// LanguageCode may be empty; the language is then detected from content.
	LanguageCode string
	// Filename is only used to sniff HTML uploads.
	Filename string
	Content  []byte
}

// UploadResult reports what the pipeline did.
type UploadResult struct {
	Document      *model.Document `json:"document"`
	Created       bool            `json:"created"`
	Sentences     int             `json:"sentences"`
	NewSentences  int             `json:"new_sentences"`
	Words         int             `json:"words"`
	NewWords      int             `json:"new_words"`
	AudioFailures int             `json:"audio_failures"`
}

// UploadDocument ingests one document. A re-upload of an existing
// (user, display name, language) document returns the stored document
// unchanged without reprocessing its text.
func (s *Service) UploadDocument(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return nil, fmt.Errorf("display name is required")
	}
	if len(req.Content) == 0 {
		return nil, fmt.Errorf("document content is required")
	}

	text := string(req.Content)
	if reader.LooksLikeHTML(req.Filename, req.Content) {
		extracted, err := reader.ExtractText(req.Content)
		if err != nil {
			return nil, fmt.Errorf("extract html upload: %w", err)
		}
		text = extracted
	}

	languageCode := language.NormalizeCode(req.LanguageCode)
	if languageCode == "" {
		languageCode = langdetect.Detect(text)
	}
	if !language.Supported(languageCode) {
		return nil, fmt.Errorf("language %q is not supported", req.LanguageCode)
	}

	doc, err := s.documents.CreateDocument(ctx, model.Document{
		UserID:       req.UserID,
		DisplayName:  displayName,
		LanguageCode: languageCode,
	})
	if errors.Is(err, store.ErrExists) {
		existing, findErr := s.documents.FindDocument(ctx, req.UserID, displayName, languageCode)
		if findErr != nil {
			return nil, fmt.Errorf("find existing document: %w", findErr)
		}
		return &UploadResult{Document: existing, Created: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	filePath, err := s.media.SaveDocument(req.UserID, languageCode, doc.ID, text)
	if err != nil {
		return nil, fmt.Errorf("store uploaded document: %w", err)
	}
	if err := s.documents.SetDocumentFile(ctx, doc.ID, filePath); err != nil {
		return nil, fmt.Errorf("record document file: %w", err)
	}
	doc.FilePath = filePath

	result := &UploadResult{Document: doc, Created: true}
	if err := s.processText(ctx, doc, text, result); err != nil {
		// Already-created rows stay committed; the resolvers make a retry
		// converge instead of duplicating.
		return result, err
	}

	s.logger.Info().
		Str("document_id", doc.ID.String()).
		Str("language", languageCode).
		Int("sentences", result.Sentences).
		Int("new_sentences", result.NewSentences).
		Int("words", result.Words).
		Int("new_words", result.NewWords).
		Int("audio_failures", result.AudioFailures).
		Msg("document ingested")

	return result, nil
}

func (s *Service) processText(ctx context.Context, doc *model.Document, text string, result *UploadResult) error {
	for idx, sentenceText := range textnorm.SplitSentences(text) {
		sentence, created, err := s.resolveSentence(ctx, doc.UserID, doc.LanguageCode, sentenceText, result)
		if err != nil {
			return fmt.Errorf("resolve sentence %d: %w", idx+1, err)
		}
		result.Sentences++
		if created {
			result.NewSentences++
		}

		if err := s.links.CreateSentenceOrder(ctx, model.SentenceOrder{
			DocumentID: doc.ID,
			SentenceID: sentence.ID,
			Order:      idx + 1,
		}); err != nil && !errors.Is(err, store.ErrExists) {
			return fmt.Errorf("link sentence %d: %w", idx+1, err)
		}

		for jdx, token := range textnorm.Tokenize(sentenceText) {
			word, wordCreated, err := s.resolveWord(ctx, doc.UserID, doc.LanguageCode, token)
			if err != nil {
				return fmt.Errorf("resolve word %q: %w", token, err)
			}
			result.Words++
			if wordCreated {
				result.NewWords++
			}

			if err := s.links.CreateWordOrder(ctx, model.WordOrder{
				SentenceID: sentence.ID,
				WordID:     word.ID,
				Order:      jdx,
			}); err != nil && !errors.Is(err, store.ErrExists) {
				return fmt.Errorf("link word %q: %w", token, err)
			}
		}
	}
	return nil
}

// resolveSentence finds or creates the sentence for the (user, language,
// text) key. Only a newly created sentence gets audio, and synthesis is
// best-effort: a failure leaves the row without audio.
func (s *Service) resolveSentence(ctx context.Context, userID uuid.UUID, languageCode, text string, result *UploadResult) (*model.Sentence, bool, error) {
	existing, err := s.sentences.FindSentence(ctx, userID, languageCode, text)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	sentence, err := s.sentences.CreateSentence(ctx, model.Sentence{
		UserID:       userID,
		LanguageCode: languageCode,
		Text:         text,
	})
	if errors.Is(err, store.ErrExists) {
		found, findErr := s.sentences.FindSentence(ctx, userID, languageCode, text)
		if findErr != nil {
			return nil, false, findErr
		}
		return found, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if !s.synthesizeSentenceAudio(ctx, sentence) {
		result.AudioFailures++
	}
	return sentence, true, nil
}

func (s *Service) synthesizeSentenceAudio(ctx context.Context, sentence *model.Sentence) bool {
	spoken := textnorm.StripPunctuation(sentence.Text)
	if spoken == "" {
		return true
	}

	audio, err := s.synth.Synthesize(ctx, spoken, sentence.LanguageCode)
	if errors.Is(err, tts.ErrDisabled) {
		return true
	}
	if err != nil {
		s.logger.Warn().Err(err).
			Str("sentence_id", sentence.ID.String()).
			Msg("sentence audio synthesis failed")
		return false
	}

	path, err := s.media.SaveAudio(sentence.UserID, sentence.LanguageCode, sentence.ID, audio)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("sentence_id", sentence.ID.String()).
			Msg("sentence audio save failed")
		return false
	}
	if err := s.sentences.SetSentenceAudio(ctx, sentence.ID, path); err != nil {
		s.logger.Warn().Err(err).
			Str("sentence_id", sentence.ID.String()).
			Msg("sentence audio record failed")
		return false
	}
	sentence.AudioFile = path
	return true
}

// resolveWord finds or creates the word for the (user, language, root word)
// key. An existing word keeps its classification no matter how the token is
// used here. Words get no eager audio.
func (s *Service) resolveWord(ctx context.Context, userID uuid.UUID, languageCode, rootWord string) (*model.Word, bool, error) {
	existing, err := s.words.FindWord(ctx, userID, languageCode, rootWord)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	word, err := s.words.CreateWord(ctx, model.Word{
		UserID:       userID,
		LanguageCode: languageCode,
		RootWord:     rootWord,
		PartOfSpeech: model.PartUnknown,
	})
	if errors.Is(err, store.ErrExists) {
		found, findErr := s.words.FindWord(ctx, userID, languageCode, rootWord)
		if findErr != nil {
			return nil, false, findErr
		}
		return found, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return word, true, nil
}
