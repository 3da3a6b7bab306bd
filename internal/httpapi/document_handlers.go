package httpapi

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"otter.camp/lingot/internal/ingest"
	"otter.camp/lingot/internal/model"
	"otter.camp/lingot/internal/store"
)

// maxUploadBytes caps one document upload. Uploads are plain text or a single
// HTML page, so this is generous.
const maxUploadBytes = 8 << 20

type documentSentence struct {
	SentenceID uuid.UUID      `json:"sentence_id"`
	Order      int            `json:"order"`
	Text       string         `json:"text"`
	AudioFile  string         `json:"audio_file,omitempty"`
	Words      []documentWord `json:"words"`
}

type documentWord struct {
	WordID       uuid.UUID          `json:"word_id"`
	Order        int                `json:"order"`
	RootWord     string             `json:"root_word"`
	PartOfSpeech model.PartOfSpeech `json:"part_of_speech"`
}

type documentDetail struct {
	Document  *model.Document    `json:"document"`
	Sentences []documentSentence `json:"sentences"`
}

func (s *Server) handleListDocuments(c echo.Context) error {
	p := currentPrincipal(c)

	docs, err := s.stores.Documents.ListDocuments(c.Request().Context(), p.User.ID)
	if err != nil {
		s.logger.Error().Err(err).Msg("list documents failed")
		return internalError(c, "Failed to load documents")
	}
	return success(c, map[string]any{"items": docs})
}

func (s *Server) handleUploadDocument(c echo.Context) error {
	p := currentPrincipal(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return failValidation(c, map[string]string{"file": "is required"})
	}
	if fileHeader.Size > maxUploadBytes {
		return failValidation(c, map[string]string{"file": "is too large"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		s.logger.Error().Err(err).Msg("open uploaded file failed")
		return internalError(c, "Failed to read upload")
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		s.logger.Error().Err(err).Msg("read uploaded file failed")
		return internalError(c, "Failed to read upload")
	}
	if len(content) > maxUploadBytes {
		return failValidation(c, map[string]string{"file": "is too large"})
	}

	displayName := strings.TrimSpace(c.FormValue("display_name"))
	if displayName == "" {
		base := filepath.Base(fileHeader.Filename)
		displayName = strings.TrimSuffix(base, filepath.Ext(base))
	}

	result, err := s.ingest.UploadDocument(c.Request().Context(), ingest.UploadRequest{
		UserID:       p.User.ID,
		DisplayName:  displayName,
		LanguageCode: c.FormValue("language_code"),
		Filename:     fileHeader.Filename,
		Content:      content,
	})
	if err != nil {
		// Pipeline errors name the offending input and are safe to show.
		return fail(c, http.StatusUnprocessableEntity, err.Error(), nil)
	}

	if result.Created {
		return successWithStatus(c, http.StatusCreated, result)
	}
	return success(c, result)
}

func (s *Server) handleDocumentDetail(c echo.Context) error {
	p := currentPrincipal(c)
	ctx := c.Request().Context()

	documentID, err := uuid.Parse(strings.TrimSpace(c.Param("document_id")))
	if err != nil {
		return failValidation(c, map[string]string{"document_id": "must be a UUID"})
	}

	doc, err := s.stores.Documents.GetDocument(ctx, documentID)
	if store.IsNotFound(err) || (err == nil && doc.UserID != p.User.ID) {
		return failNotFound(c, "Document not found")
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("load document failed")
		return internalError(c, "Failed to load document")
	}

	detail, err := s.buildDocumentDetail(c, doc)
	if err != nil {
		s.logger.Error().Err(err).Str("document_id", documentID.String()).Msg("assemble document detail failed")
		return internalError(c, "Failed to load document")
	}
	return success(c, detail)
}

func (s *Server) buildDocumentDetail(c echo.Context, doc *model.Document) (*documentDetail, error) {
	ctx := c.Request().Context()

	sentenceLinks, err := s.stores.Links.SentenceOrdersForDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	sentences := make([]documentSentence, 0, len(sentenceLinks))
	for _, link := range sentenceLinks {
		sentence, err := s.stores.Sentences.GetSentence(ctx, link.SentenceID)
		if err != nil {
			return nil, err
		}

		wordLinks, err := s.stores.Links.WordOrdersForSentence(ctx, sentence.ID)
		if err != nil {
			return nil, err
		}

		words := make([]documentWord, 0, len(wordLinks))
		for _, wordLink := range wordLinks {
			word, err := s.stores.Words.GetWord(ctx, wordLink.WordID)
			if err != nil {
				return nil, err
			}
			words = append(words, documentWord{
				WordID:       word.ID,
				Order:        wordLink.Order,
				RootWord:     word.RootWord,
				PartOfSpeech: word.PartOfSpeech,
			})
		}

		sentences = append(sentences, documentSentence{
			SentenceID: sentence.ID,
			Order:      link.Order,
			Text:       sentence.Text,
			AudioFile:  sentence.AudioFile,
			Words:      words,
		})
	}

	return &documentDetail{Document: doc, Sentences: sentences}, nil
}

func (s *Server) handleDeleteDocument(c echo.Context) error {
	p := currentPrincipal(c)
	ctx := c.Request().Context()

	documentID, err := uuid.Parse(strings.TrimSpace(c.Param("document_id")))
	if err != nil {
		return failValidation(c, map[string]string{"document_id": "must be a UUID"})
	}

	doc, err := s.stores.Documents.GetDocument(ctx, documentID)
	if store.IsNotFound(err) || (err == nil && doc.UserID != p.User.ID) {
		return failNotFound(c, "Document not found")
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("load document failed")
		return internalError(c, "Failed to delete document")
	}

	result, err := s.ingest.DeleteDocument(ctx, documentID)
	if store.IsNotFound(err) {
		return failNotFound(c, "Document not found")
	}
	if err != nil {
		s.logger.Error().Err(err).Str("document_id", documentID.String()).Msg("delete document failed")
		return internalError(c, "Failed to delete document")
	}
	return success(c, result)
}
