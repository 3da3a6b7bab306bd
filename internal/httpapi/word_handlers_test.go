package httpapi

import (
	"context"
	"net/http"
	"testing"

	"otter.camp/lingot/internal/model"
)

func wordByRoot(t *testing.T, s *Server, user *model.User, languageCode, rootWord string) *model.Word {
	t.Helper()

	word, err := s.stores.Words.FindWord(context.Background(), user.ID, languageCode, rootWord)
	if err != nil {
		t.Fatalf("find word %q: %v", rootWord, err)
	}
	return word
}

func TestHandleListWordsFiltersByLanguage(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	user := createUser(t, server, "anna", "correct-horse")
	uploadDocument(t, server, user, "English", "The cat sat.\n")

	if _, err := server.stores.Words.CreateWord(context.Background(), model.Word{
		UserID:       user.ID,
		LanguageCode: "nl",
		RootWord:     "zitten",
	}); err != nil {
		t.Fatalf("create word: %v", err)
	}

	c, rec := authedContext(t, server, user, http.MethodGet, "/api/v1/words?language_code=nl", "")
	if err := server.handleListWords(c); err != nil {
		t.Fatalf("handleListWords returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}

	data := decodeJSend(t, rec)["data"].(map[string]any)
	items := data["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 Dutch word, got %d", len(items))
	}
	if items[0].(map[string]any)["root_word"] != "zitten" {
		t.Fatalf("unexpected word: %#v", items[0])
	}
}

func TestHandleSetPartOfSpeech(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	user := createUser(t, server, "anna", "correct-horse")
	uploadDocument(t, server, user, "Practice", "The cat sat.\n")
	word := wordByRoot(t, server, user, "en", "sat")

	c, rec := authedContext(
		t, server, user,
		http.MethodPut, "/api/v1/words/"+word.ID.String()+"/part-of-speech",
		`{"part_of_speech":"verb"}`,
	)
	c.SetParamNames("word_id")
	c.SetParamValues(word.ID.String())

	if err := server.handleSetPartOfSpeech(c); err != nil {
		t.Fatalf("handleSetPartOfSpeech returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	stored, err := server.stores.Words.GetWord(context.Background(), word.ID)
	if err != nil {
		t.Fatalf("load word: %v", err)
	}
	if stored.PartOfSpeech != model.PartVerb {
		t.Fatalf("expected verb, got %s", stored.PartOfSpeech)
	}
}

func TestHandleSetPartOfSpeechRejectsUnknownValue(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	user := createUser(t, server, "anna", "correct-horse")
	uploadDocument(t, server, user, "Practice", "The cat sat.\n")
	word := wordByRoot(t, server, user, "en", "sat")

	c, rec := authedContext(
		t, server, user,
		http.MethodPut, "/api/v1/words/"+word.ID.String()+"/part-of-speech",
		`{"part_of_speech":"interjection"}`,
	)
	c.SetParamNames("word_id")
	c.SetParamValues(word.ID.String())

	if err := server.handleSetPartOfSpeech(c); err != nil {
		t.Fatalf("handleSetPartOfSpeech returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleSetPartOfSpeechHidesOtherUsersWords(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	owner := createUser(t, server, "anna", "correct-horse")
	intruder := createUser(t, server, "bob", "another-pass")
	uploadDocument(t, server, owner, "Practice", "The cat sat.\n")
	word := wordByRoot(t, server, owner, "en", "sat")

	c, rec := authedContext(
		t, server, intruder,
		http.MethodPut, "/api/v1/words/"+word.ID.String()+"/part-of-speech",
		`{"part_of_speech":"verb"}`,
	)
	c.SetParamNames("word_id")
	c.SetParamValues(word.ID.String())

	if err := server.handleSetPartOfSpeech(c); err != nil {
		t.Fatalf("handleSetPartOfSpeech returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleCreateConjugation(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	user := createUser(t, server, "anna", "correct-horse")
	uploadDocument(t, server, user, "Practice", "The cat ran.\n")
	word := wordByRoot(t, server, user, "en", "ran")

	c, rec := authedContext(
		t, server, user,
		http.MethodPost, "/api/v1/words/"+word.ID.String()+"/conjugations",
		`{"text":"ran","tense":"past"}`,
	)
	c.SetParamNames("word_id")
	c.SetParamValues(word.ID.String())

	if err := server.handleCreateConjugation(c); err != nil {
		t.Fatalf("handleCreateConjugation returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d want %d, body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	data := decodeJSend(t, rec)["data"].(map[string]any)
	conjugation := data["conjugation"].(map[string]any)
	if conjugation["tense"] != "past" {
		t.Fatalf("unexpected conjugation: %#v", conjugation)
	}

	// The tracker is created alongside and starts as unknown.
	tracker := data["tracker"].(map[string]any)
	if tracker["status"] != string(model.StatusUnknown) {
		t.Fatalf("expected unknown tracker, got %#v", tracker)
	}
}

func TestHandleCreateConjugationDuplicate(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	user := createUser(t, server, "anna", "correct-horse")
	uploadDocument(t, server, user, "Practice", "The cat ran.\n")
	word := wordByRoot(t, server, user, "en", "ran")

	for i := 0; i < 2; i++ {
		c, rec := authedContext(
			t, server, user,
			http.MethodPost, "/api/v1/words/"+word.ID.String()+"/conjugations",
			`{"text":"ran","tense":"past"}`,
		)
		c.SetParamNames("word_id")
		c.SetParamValues(word.ID.String())

		if err := server.handleCreateConjugation(c); err != nil {
			t.Fatalf("handleCreateConjugation returned error: %v", err)
		}

		want := http.StatusCreated
		if i == 1 {
			want = http.StatusConflict
		}
		if rec.Code != want {
			t.Fatalf("attempt %d: unexpected status: got %d want %d", i, rec.Code, want)
		}
	}
}

func TestHandleCreateConjugationRequiresText(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	user := createUser(t, server, "anna", "correct-horse")
	uploadDocument(t, server, user, "Practice", "The cat ran.\n")
	word := wordByRoot(t, server, user, "en", "ran")

	c, rec := authedContext(
		t, server, user,
		http.MethodPost, "/api/v1/words/"+word.ID.String()+"/conjugations",
		`{"text":"  "}`,
	)
	c.SetParamNames("word_id")
	c.SetParamValues(word.ID.String())

	if err := server.handleCreateConjugation(c); err != nil {
		t.Fatalf("handleCreateConjugation returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleListConjugations(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	user := createUser(t, server, "anna", "correct-horse")
	uploadDocument(t, server, user, "Practice", "The cat ran.\n")
	word := wordByRoot(t, server, user, "en", "ran")

	for _, text := range []string{"ran", "runs"} {
		if _, err := server.stores.Conjugations.CreateConjugation(context.Background(), model.Conjugation{
			UserID:       user.ID,
			WordID:       word.ID,
			LanguageCode: "en",
			Text:         text,
		}); err != nil {
			t.Fatalf("create conjugation %q: %v", text, err)
		}
	}

	c, rec := authedContext(
		t, server, user,
		http.MethodGet, "/api/v1/words/"+word.ID.String()+"/conjugations", "",
	)
	c.SetParamNames("word_id")
	c.SetParamValues(word.ID.String())

	if err := server.handleListConjugations(c); err != nil {
		t.Fatalf("handleListConjugations returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}

	data := decodeJSend(t, rec)["data"].(map[string]any)
	items := data["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("expected 2 conjugations, got %d", len(items))
	}
}

func TestHandleDeleteConjugation(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	user := createUser(t, server, "anna", "correct-horse")
	uploadDocument(t, server, user, "Practice", "The cat ran.\n")
	word := wordByRoot(t, server, user, "en", "ran")

	conjugation, err := server.stores.Conjugations.CreateConjugation(context.Background(), model.Conjugation{
		UserID:       user.ID,
		WordID:       word.ID,
		LanguageCode: "en",
		Text:         "ran",
	})
	if err != nil {
		t.Fatalf("create conjugation: %v", err)
	}

	c, rec := authedContext(
		t, server, user,
		http.MethodDelete, "/api/v1/conjugations/"+conjugation.ID.String(), "",
	)
	c.SetParamNames("conjugation_id")
	c.SetParamValues(conjugation.ID.String())

	if err := server.handleDeleteConjugation(c); err != nil {
		t.Fatalf("handleDeleteConjugation returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	// Tracker goes with it.
	if _, err := server.stores.Trackers.GetTrackerByConjugation(context.Background(), conjugation.ID); err == nil {
		t.Fatalf("expected tracker to be deleted with the conjugation")
	}
}

func TestHandleDeleteConjugationHidesOtherUsers(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	owner := createUser(t, server, "anna", "correct-horse")
	intruder := createUser(t, server, "bob", "another-pass")
	uploadDocument(t, server, owner, "Practice", "The cat ran.\n")
	word := wordByRoot(t, server, owner, "en", "ran")

	conjugation, err := server.stores.Conjugations.CreateConjugation(context.Background(), model.Conjugation{
		UserID:       owner.ID,
		WordID:       word.ID,
		LanguageCode: "en",
		Text:         "ran",
	})
	if err != nil {
		t.Fatalf("create conjugation: %v", err)
	}

	c, rec := authedContext(
		t, server, intruder,
		http.MethodDelete, "/api/v1/conjugations/"+conjugation.ID.String(), "",
	)
	c.SetParamNames("conjugation_id")
	c.SetParamValues(conjugation.ID.String())

	if err := server.handleDeleteConjugation(c); err != nil {
		t.Fatalf("handleDeleteConjugation returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleListTrackersDefaultsToCurrentlyLearning(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	user := createUser(t, server, "anna", "correct-horse")
	uploadDocument(t, server, user, "Practice", "The cat ran.\n")
	word := wordByRoot(t, server, user, "en", "ran")

	conjugation, err := server.stores.Conjugations.CreateConjugation(context.Background(), model.Conjugation{
		UserID:       user.ID,
		WordID:       word.ID,
		LanguageCode: "en",
		Text:         "ran",
	})
	if err != nil {
		t.Fatalf("create conjugation: %v", err)
	}

	tracker, err := server.stores.Trackers.GetTrackerByConjugation(context.Background(), conjugation.ID)
	if err != nil {
		t.Fatalf("load tracker: %v", err)
	}
	if err := server.stores.Trackers.SetTrackerStatus(context.Background(), tracker.ID, model.StatusCurrentlyLearning); err != nil {
		t.Fatalf("set tracker status: %v", err)
	}

	c, rec := authedContext(t, server, user, http.MethodGet, "/api/v1/trackers", "")
	if err := server.handleListTrackers(c); err != nil {
		t.Fatalf("handleListTrackers returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}

	data := decodeJSend(t, rec)["data"].(map[string]any)
	items := data["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 tracker, got %d", len(items))
	}
	if data["status"] != string(model.StatusCurrentlyLearning) {
		t.Fatalf("unexpected status echo: %v", data["status"])
	}
}

func TestHandleListTrackersRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	user := createUser(t, server, "anna", "correct-horse")

	c, rec := authedContext(t, server, user, http.MethodGet, "/api/v1/trackers?status=memorized", "")
	if err := server.handleListTrackers(c); err != nil {
		t.Fatalf("handleListTrackers returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleSetTrackerStatus(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	user := createUser(t, server, "anna", "correct-horse")
	uploadDocument(t, server, user, "Practice", "The cat ran.\n")
	word := wordByRoot(t, server, user, "en", "ran")

	conjugation, err := server.stores.Conjugations.CreateConjugation(context.Background(), model.Conjugation{
		UserID:       user.ID,
		WordID:       word.ID,
		LanguageCode: "en",
		Text:         "ran",
	})
	if err != nil {
		t.Fatalf("create conjugation: %v", err)
	}
	tracker, err := server.stores.Trackers.GetTrackerByConjugation(context.Background(), conjugation.ID)
	if err != nil {
		t.Fatalf("load tracker: %v", err)
	}

	c, rec := authedContext(
		t, server, user,
		http.MethodPut, "/api/v1/trackers/"+tracker.ID.String()+"/status",
		`{"status":"learned"}`,
	)
	c.SetParamNames("tracker_id")
	c.SetParamValues(tracker.ID.String())

	if err := server.handleSetTrackerStatus(c); err != nil {
		t.Fatalf("handleSetTrackerStatus returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	stored, err := server.stores.Trackers.GetTracker(context.Background(), tracker.ID)
	if err != nil {
		t.Fatalf("load tracker: %v", err)
	}
	if stored.Status != model.StatusLearned {
		t.Fatalf("expected learned, got %s", stored.Status)
	}
}
