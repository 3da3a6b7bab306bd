package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"otter.camp/lingot/internal/model"
	"otter.camp/lingot/internal/store"
)

type partOfSpeechRequest struct {
	PartOfSpeech model.PartOfSpeech `json:"part_of_speech"`
}

type conjugationRequest struct {
	Text       string `json:"text"`
	Article    string `json:"article"`
	Case       string `json:"case"`
	Person     string `json:"person"`
	Gender     string `json:"gender"`
	Plurality  string `json:"plurality"`
	Politeness string `json:"politeness"`
	Tense      string `json:"tense"`
}

type trackerStatusRequest struct {
	Status model.TrackerStatus `json:"status"`
}

func (s *Server) handleListWords(c echo.Context) error {
	p := currentPrincipal(c)

	languageCode := strings.TrimSpace(c.QueryParam("language_code"))
	words, err := s.stores.Words.ListWords(c.Request().Context(), p.User.ID, languageCode)
	if err != nil {
		s.logger.Error().Err(err).Msg("list words failed")
		return internalError(c, "Failed to load words")
	}
	return success(c, map[string]any{"items": words})
}

// ownedWord loads the word and hides other users' words behind a 404.
func (s *Server) ownedWord(c echo.Context, param string) (*model.Word, error) {
	p := currentPrincipal(c)

	wordID, err := uuid.Parse(strings.TrimSpace(c.Param(param)))
	if err != nil {
		return nil, failValidation(c, map[string]string{param: "must be a UUID"})
	}

	word, err := s.stores.Words.GetWord(c.Request().Context(), wordID)
	if store.IsNotFound(err) || (err == nil && word.UserID != p.User.ID) {
		return nil, failNotFound(c, "Word not found")
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("load word failed")
		return nil, internalError(c, "Failed to load word")
	}
	return word, nil
}

func (s *Server) handleSetPartOfSpeech(c echo.Context) error {
	word, err := s.ownedWord(c, "word_id")
	if word == nil {
		return err
	}

	var req partOfSpeechRequest
	if err := decodeJSONBody(c, &req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error(), nil)
	}
	if !model.ValidPartOfSpeech(req.PartOfSpeech) {
		return failValidation(c, map[string]string{"part_of_speech": "is not a known classification"})
	}

	ctx := c.Request().Context()
	if err := s.stores.Words.SetWordPartOfSpeech(ctx, word.ID, req.PartOfSpeech); err != nil {
		s.logger.Error().Err(err).Str("word_id", word.ID.String()).Msg("classify word failed")
		return internalError(c, "Failed to classify word")
	}

	word.PartOfSpeech = req.PartOfSpeech
	return success(c, word)
}

func (s *Server) handleListConjugations(c echo.Context) error {
	word, err := s.ownedWord(c, "word_id")
	if word == nil {
		return err
	}

	conjugations, err := s.stores.Conjugations.ListConjugationsForWord(c.Request().Context(), word.ID)
	if err != nil {
		s.logger.Error().Err(err).Msg("list conjugations failed")
		return internalError(c, "Failed to load conjugations")
	}
	return success(c, map[string]any{"items": conjugations})
}

func (s *Server) handleCreateConjugation(c echo.Context) error {
	word, err := s.ownedWord(c, "word_id")
	if word == nil {
		return err
	}

	var req conjugationRequest
	if err := decodeJSONBody(c, &req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error(), nil)
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return failValidation(c, map[string]string{"text": "is required"})
	}

	ctx := c.Request().Context()
	conjugation, err := s.stores.Conjugations.CreateConjugation(ctx, model.Conjugation{
		UserID:       word.UserID,
		WordID:       word.ID,
		LanguageCode: word.LanguageCode,
		Text:         text,
		Article:      strings.TrimSpace(req.Article),
		Case:         strings.TrimSpace(req.Case),
		Person:       strings.TrimSpace(req.Person),
		Gender:       strings.TrimSpace(req.Gender),
		Plurality:    strings.TrimSpace(req.Plurality),
		Politeness:   strings.TrimSpace(req.Politeness),
		Tense:        strings.TrimSpace(req.Tense),
	})
	if errors.Is(err, store.ErrExists) {
		return fail(c, http.StatusConflict, "Conjugation already exists", nil)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("create conjugation failed")
		return internalError(c, "Failed to create conjugation")
	}

	tracker, err := s.stores.Trackers.GetTrackerByConjugation(ctx, conjugation.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("conjugation_id", conjugation.ID.String()).Msg("load tracker failed")
		return internalError(c, "Failed to create conjugation")
	}

	return successWithStatus(c, http.StatusCreated, map[string]any{
		"conjugation": conjugation,
		"tracker":     tracker,
	})
}

func (s *Server) handleDeleteConjugation(c echo.Context) error {
	p := currentPrincipal(c)
	ctx := c.Request().Context()

	conjugationID, err := uuid.Parse(strings.TrimSpace(c.Param("conjugation_id")))
	if err != nil {
		return failValidation(c, map[string]string{"conjugation_id": "must be a UUID"})
	}

	// Ownership is checked through the tracker: every conjugation has one.
	tracker, err := s.stores.Trackers.GetTrackerByConjugation(ctx, conjugationID)
	if store.IsNotFound(err) || (err == nil && tracker.UserID != p.User.ID) {
		return failNotFound(c, "Conjugation not found")
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("load tracker failed")
		return internalError(c, "Failed to delete conjugation")
	}

	if err := s.stores.Conjugations.DeleteConjugation(ctx, conjugationID); err != nil {
		if store.IsNotFound(err) {
			return failNotFound(c, "Conjugation not found")
		}
		s.logger.Error().Err(err).Msg("delete conjugation failed")
		return internalError(c, "Failed to delete conjugation")
	}
	return success(c, map[string]any{"deleted": true})
}

func (s *Server) handleListTrackers(c echo.Context) error {
	p := currentPrincipal(c)

	status := model.TrackerStatus(strings.TrimSpace(c.QueryParam("status")))
	if status == "" {
		status = model.StatusCurrentlyLearning
	}
	if !model.ValidTrackerStatus(status) {
		return failValidation(c, map[string]string{"status": "is not a known tracker status"})
	}

	languageCode := strings.TrimSpace(c.QueryParam("language_code"))
	trackers, err := s.stores.Trackers.ListTrackersByStatus(c.Request().Context(), p.User.ID, languageCode, status)
	if err != nil {
		s.logger.Error().Err(err).Msg("list trackers failed")
		return internalError(c, "Failed to load trackers")
	}
	return success(c, map[string]any{
		"items":  trackers,
		"status": status,
	})
}

func (s *Server) handleSetTrackerStatus(c echo.Context) error {
	p := currentPrincipal(c)
	ctx := c.Request().Context()

	trackerID, err := uuid.Parse(strings.TrimSpace(c.Param("tracker_id")))
	if err != nil {
		return failValidation(c, map[string]string{"tracker_id": "must be a UUID"})
	}

	var req trackerStatusRequest
	if err := decodeJSONBody(c, &req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error(), nil)
	}
	if !model.ValidTrackerStatus(req.Status) {
		return failValidation(c, map[string]string{"status": "is not a known tracker status"})
	}

	tracker, err := s.stores.Trackers.GetTracker(ctx, trackerID)
	if store.IsNotFound(err) || (err == nil && tracker.UserID != p.User.ID) {
		return failNotFound(c, "Tracker not found")
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("load tracker failed")
		return internalError(c, "Failed to update tracker")
	}

	if err := s.stores.Trackers.SetTrackerStatus(ctx, trackerID, req.Status); err != nil {
		s.logger.Error().Err(err).Msg("update tracker failed")
		return internalError(c, "Failed to update tracker")
	}

	tracker.Status = req.Status
	return success(c, tracker)
}
