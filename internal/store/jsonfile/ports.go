package jsonfile

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"otter.camp/lingot/internal/model"
	"otter.camp/lingot/internal/store"
)

// --- UserStore ---

func (s *Store) CreateUser(_ context.Context, user model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := strings.ToLower(strings.TrimSpace(user.Username))
	for _, existing := range s.db.Users {
		if existing.Username == username {
			return nil, store.ErrExists
		}
	}

	user.Username = username
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.db.Users = append(s.db.Users, storedUser{User: user, PasswordHash: user.PasswordHash})
	if err := s.save(); err != nil {
		return nil, err
	}
	copied := user
	return &copied, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	username = strings.ToLower(strings.TrimSpace(username))
	for _, stored := range s.db.Users {
		if stored.Username == username {
			user := stored.User
			user.PasswordHash = stored.PasswordHash
			return &user, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetUserByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stored := range s.db.Users {
		if stored.ID == id {
			user := stored.User
			user.PasswordHash = stored.PasswordHash
			return &user, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FirstUser(ctx context.Context) (*model.User, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, store.ErrNotFound
	}
	first := users[0]
	return &first, nil
}

func (s *Store) CountUsers(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.db.Users)), nil
}

func (s *Store) ListUsers(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]model.User, 0, len(s.db.Users))
	for _, stored := range s.db.Users {
		user := stored.User
		user.PasswordHash = stored.PasswordHash
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].Username < users[j].Username
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (s *Store) SetUserLastLogin(_ context.Context, id uuid.UUID, loginAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.db.Users {
		if s.db.Users[i].ID == id {
			s.db.Users[i].LastLoginAt = &loginAt
			return s.save()
		}
	}
	return store.ErrNotFound
}

// --- SessionStore ---

func (s *Store) CreateSession(_ context.Context, userID uuid.UUID, expiresAt, now time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionID := uuid.NewString()
	s.db.Sessions = append(s.db.Sessions, model.Session{
		ID:         sessionID,
		UserID:     userID,
		ExpiresAt:  expiresAt,
		LastSeenAt: now,
	})
	if err := s.save(); err != nil {
		return "", err
	}
	return sessionID, nil
}

func (s *Store) GetSession(_ context.Context, sessionID string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, session := range s.db.Sessions {
		if session.ID == sessionID {
			copied := session
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.db.Sessions[:0]
	for _, session := range s.db.Sessions {
		if session.ID != sessionID {
			kept = append(kept, session)
		}
	}
	s.db.Sessions = kept
	return s.save()
}

func (s *Store) TouchSession(_ context.Context, sessionID string, seenAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.db.Sessions {
		if s.db.Sessions[i].ID == sessionID {
			s.db.Sessions[i].LastSeenAt = seenAt
			return s.save()
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	kept := s.db.Sessions[:0]
	for _, session := range s.db.Sessions {
		if session.ExpiresAt.After(now) {
			kept = append(kept, session)
		} else {
			removed++
		}
	}
	s.db.Sessions = kept
	if removed == 0 {
		return 0, nil
	}
	return removed, s.save()
}

// --- AppSettingsStore ---

func (s *Store) GetAppSettings(_ context.Context) (*model.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db.AppSettings == nil {
		return nil, store.ErrNotFound
	}
	copied := *s.db.AppSettings
	return &copied, nil
}

func (s *Store) SaveAppSettings(_ context.Context, settings model.AppSettings) (*model.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if settings.CreatedAt.IsZero() {
		settings.CreatedAt = time.Now().UTC()
	}
	s.db.AppSettings = &settings
	if err := s.save(); err != nil {
		return nil, err
	}
	copied := settings
	return &copied, nil
}

// --- DocumentStore ---

func (s *Store) CreateDocument(_ context.Context, doc model.Document) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normKey(doc.UserID.String(), doc.DisplayName, doc.LanguageCode)
	for _, existing := range s.db.Documents {
		if normKey(existing.UserID.String(), existing.DisplayName, existing.LanguageCode) == key {
			return nil, store.ErrExists
		}
	}

	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	s.db.Documents = append(s.db.Documents, doc)
	if err := s.save(); err != nil {
		return nil, err
	}
	copied := doc
	return &copied, nil
}

func (s *Store) GetDocument(_ context.Context, id uuid.UUID) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.db.Documents {
		if doc.ID == id {
			copied := doc
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindDocument(_ context.Context, userID uuid.UUID, displayName, languageCode string) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normKey(userID.String(), displayName, languageCode)
	for _, doc := range s.db.Documents {
		if normKey(doc.UserID.String(), doc.DisplayName, doc.LanguageCode) == key {
			copied := doc
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListDocuments(_ context.Context, userID uuid.UUID) ([]model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := make([]model.Document, 0)
	for _, doc := range s.db.Documents {
		if doc.UserID == userID {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].LanguageCode != docs[j].LanguageCode {
			return docs[i].LanguageCode < docs[j].LanguageCode
		}
		return docs[i].DisplayName < docs[j].DisplayName
	})
	return docs, nil
}

func (s *Store) SetDocumentFile(_ context.Context, id uuid.UUID, filePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.db.Documents {
		if s.db.Documents[i].ID == id {
			s.db.Documents[i].FilePath = filePath
			return s.save()
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteDocument(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.db.Documents {
		if s.db.Documents[i].ID == id {
			s.db.Documents = append(s.db.Documents[:i], s.db.Documents[i+1:]...)
			return s.save()
		}
	}
	return store.ErrNotFound
}

// --- SentenceStore ---

func (s *Store) FindSentence(_ context.Context, userID uuid.UUID, languageCode, text string) (*model.Sentence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sentence := range s.db.Sentences {
		if sentence.UserID == userID && sentence.LanguageCode == languageCode && sentence.Text == text {
			copied := sentence
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateSentence(_ context.Context, sentence model.Sentence) (*model.Sentence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.db.Sentences {
		if existing.UserID == sentence.UserID &&
			existing.LanguageCode == sentence.LanguageCode &&
			existing.Text == sentence.Text {
			return nil, store.ErrExists
		}
	}

	if sentence.ID == uuid.Nil {
		sentence.ID = uuid.New()
	}
	if sentence.CreatedAt.IsZero() {
		sentence.CreatedAt = time.Now().UTC()
	}
	s.db.Sentences = append(s.db.Sentences, sentence)
	if err := s.save(); err != nil {
		return nil, err
	}
	copied := sentence
	return &copied, nil
}

func (s *Store) GetSentence(_ context.Context, id uuid.UUID) (*model.Sentence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sentence := range s.db.Sentences {
		if sentence.ID == id {
			copied := sentence
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) SetSentenceAudio(_ context.Context, id uuid.UUID, audioFile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.db.Sentences {
		if s.db.Sentences[i].ID == id {
			s.db.Sentences[i].AudioFile = audioFile
			return s.save()
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteSentence(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.db.Sentences {
		if s.db.Sentences[i].ID == id {
			s.db.Sentences = append(s.db.Sentences[:i], s.db.Sentences[i+1:]...)
			return s.save()
		}
	}
	return store.ErrNotFound
}

// --- WordStore ---

func (s *Store) FindWord(_ context.Context, userID uuid.UUID, languageCode, rootWord string) (*model.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, word := range s.db.Words {
		if word.UserID == userID && word.LanguageCode == languageCode && word.RootWord == rootWord {
			copied := word
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateWord(_ context.Context, word model.Word) (*model.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.db.Words {
		if existing.UserID == word.UserID &&
			existing.LanguageCode == word.LanguageCode &&
			existing.RootWord == word.RootWord {
			return nil, store.ErrExists
		}
	}

	if word.ID == uuid.Nil {
		word.ID = uuid.New()
	}
	if word.PartOfSpeech == "" {
		word.PartOfSpeech = model.PartUnknown
	}
	if word.CreatedAt.IsZero() {
		word.CreatedAt = time.Now().UTC()
	}
	s.db.Words = append(s.db.Words, word)
	if err := s.save(); err != nil {
		return nil, err
	}
	copied := word
	return &copied, nil
}

func (s *Store) GetWord(_ context.Context, id uuid.UUID) (*model.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, word := range s.db.Words {
		if word.ID == id {
			copied := word
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListWords(_ context.Context, userID uuid.UUID, languageCode string) ([]model.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	words := make([]model.Word, 0)
	for _, word := range s.db.Words {
		if word.UserID != userID {
			continue
		}
		if languageCode != "" && word.LanguageCode != languageCode {
			continue
		}
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool { return words[i].RootWord < words[j].RootWord })
	return words, nil
}

func (s *Store) SetWordPartOfSpeech(_ context.Context, id uuid.UUID, part model.PartOfSpeech) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.db.Words {
		if s.db.Words[i].ID == id {
			s.db.Words[i].PartOfSpeech = part
			return s.save()
		}
	}
	return store.ErrNotFound
}

func (s *Store) SetWordAudio(_ context.Context, id uuid.UUID, audioFile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.db.Words {
		if s.db.Words[i].ID == id {
			s.db.Words[i].AudioFile = audioFile
			return s.save()
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteWord(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.db.Words {
		if s.db.Words[i].ID == id {
			s.db.Words = append(s.db.Words[:i], s.db.Words[i+1:]...)
			return s.save()
		}
	}
	return store.ErrNotFound
}

// --- LinkStore ---

func (s *Store) CreateSentenceOrder(_ context.Context, link model.SentenceOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.db.SentenceOrders {
		if existing == link {
			return store.ErrExists
		}
	}
	s.db.SentenceOrders = append(s.db.SentenceOrders, link)
	return s.save()
}

func (s *Store) CreateWordOrder(_ context.Context, link model.WordOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.db.WordOrders {
		if existing == link {
			return store.ErrExists
		}
	}
	s.db.WordOrders = append(s.db.WordOrders, link)
	return s.save()
}

func (s *Store) SentenceOrdersForDocument(_ context.Context, documentID uuid.UUID) ([]model.SentenceOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	links := make([]model.SentenceOrder, 0)
	for _, link := range s.db.SentenceOrders {
		if link.DocumentID == documentID {
			links = append(links, link)
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].Order < links[j].Order })
	return links, nil
}

func (s *Store) DocumentIDsForSentence(_ context.Context, sentenceID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := map[uuid.UUID]struct{}{}
	ids := make([]uuid.UUID, 0)
	for _, link := range s.db.SentenceOrders {
		if link.SentenceID != sentenceID {
			continue
		}
		if _, dup := seen[link.DocumentID]; dup {
			continue
		}
		seen[link.DocumentID] = struct{}{}
		ids = append(ids, link.DocumentID)
	}
	return ids, nil
}

func (s *Store) WordOrdersForSentence(_ context.Context, sentenceID uuid.UUID) ([]model.WordOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	links := make([]model.WordOrder, 0)
	for _, link := range s.db.WordOrders {
		if link.SentenceID == sentenceID {
			links = append(links, link)
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].Order < links[j].Order })
	return links, nil
}

func (s *Store) SentenceIDsForWord(_ context.Context, wordID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := map[uuid.UUID]struct{}{}
	ids := make([]uuid.UUID, 0)
	for _, link := range s.db.WordOrders {
		if link.WordID != wordID {
			continue
		}
		if _, dup := seen[link.SentenceID]; dup {
			continue
		}
		seen[link.SentenceID] = struct{}{}
		ids = append(ids, link.SentenceID)
	}
	return ids, nil
}

func (s *Store) DeleteSentenceOrdersForDocument(_ context.Context, documentID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.db.SentenceOrders[:0]
	for _, link := range s.db.SentenceOrders {
		if link.DocumentID != documentID {
			kept = append(kept, link)
		}
	}
	s.db.SentenceOrders = kept
	return s.save()
}

func (s *Store) DeleteWordOrdersForSentence(_ context.Context, sentenceID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.db.WordOrders[:0]
	for _, link := range s.db.WordOrders {
		if link.SentenceID != sentenceID {
			kept = append(kept, link)
		}
	}
	s.db.WordOrders = kept
	return s.save()
}

// --- ConjugationStore ---

func (s *Store) CreateConjugation(_ context.Context, conjugation model.Conjugation) (*model.Conjugation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.db.Conjugations {
		if existing.UserID == conjugation.UserID &&
			existing.LanguageCode == conjugation.LanguageCode &&
			existing.Text == conjugation.Text {
			return nil, store.ErrExists
		}
	}

	if conjugation.ID == uuid.Nil {
		conjugation.ID = uuid.New()
	}
	if conjugation.CreatedAt.IsZero() {
		conjugation.CreatedAt = time.Now().UTC()
	}
	s.db.Conjugations = append(s.db.Conjugations, conjugation)

	// Every new conjugation starts with an "unknown" tracker.
	s.db.Trackers = append(s.db.Trackers, model.LearningTracker{
		ID:            uuid.New(),
		UserID:        conjugation.UserID,
		ConjugationID: conjugation.ID,
		LanguageCode:  conjugation.LanguageCode,
		Status:        model.StatusUnknown,
		CreatedAt:     conjugation.CreatedAt,
	})

	if err := s.save(); err != nil {
		return nil, err
	}
	copied := conjugation
	return &copied, nil
}

func (s *Store) FindConjugation(_ context.Context, userID uuid.UUID, languageCode, text string) (*model.Conjugation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, conjugation := range s.db.Conjugations {
		if conjugation.UserID == userID && conjugation.LanguageCode == languageCode && conjugation.Text == text {
			copied := conjugation
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListConjugationsForWord(_ context.Context, wordID uuid.UUID) ([]model.Conjugation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conjugations := make([]model.Conjugation, 0)
	for _, conjugation := range s.db.Conjugations {
		if conjugation.WordID == wordID {
			conjugations = append(conjugations, conjugation)
		}
	}
	sort.Slice(conjugations, func(i, j int) bool { return conjugations[i].Text < conjugations[j].Text })
	return conjugations, nil
}

func (s *Store) DeleteConjugation(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	keptConjugations := s.db.Conjugations[:0]
	for _, conjugation := range s.db.Conjugations {
		if conjugation.ID == id {
			found = true
			continue
		}
		keptConjugations = append(keptConjugations, conjugation)
	}
	if !found {
		return store.ErrNotFound
	}
	s.db.Conjugations = keptConjugations

	keptTrackers := s.db.Trackers[:0]
	for _, tracker := range s.db.Trackers {
		if tracker.ConjugationID != id {
			keptTrackers = append(keptTrackers, tracker)
		}
	}
	s.db.Trackers = keptTrackers
	return s.save()
}

// --- TrackerStore ---

func (s *Store) GetTracker(_ context.Context, id uuid.UUID) (*model.LearningTracker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tracker := range s.db.Trackers {
		if tracker.ID == id {
			copied := tracker
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetTrackerByConjugation(_ context.Context, conjugationID uuid.UUID) (*model.LearningTracker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tracker := range s.db.Trackers {
		if tracker.ConjugationID == conjugationID {
			copied := tracker
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListTrackersByStatus(_ context.Context, userID uuid.UUID, languageCode string, status model.TrackerStatus) ([]model.LearningTracker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trackers := make([]model.LearningTracker, 0)
	for _, tracker := range s.db.Trackers {
		if tracker.UserID != userID || tracker.Status != status {
			continue
		}
		if languageCode != "" && tracker.LanguageCode != languageCode {
			continue
		}
		trackers = append(trackers, tracker)
	}
	sort.Slice(trackers, func(i, j int) bool {
		return trackers[i].CreatedAt.Before(trackers[j].CreatedAt)
	})
	return trackers, nil
}

func (s *Store) SetTrackerStatus(_ context.Context, id uuid.UUID, status model.TrackerStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.db.Trackers {
		if s.db.Trackers[i].ID == id {
			s.db.Trackers[i].Status = status
			return s.save()
		}
	}
	return store.ErrNotFound
}
