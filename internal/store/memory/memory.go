// Package memory is an in-memory storage adapter. It backs tests and the
// "memory" storage driver; nothing survives process exit.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"otter.camp/lingot/internal/model"
	"otter.camp/lingot/internal/store"
)

// Store implements every port in internal/store on top of plain maps.
type Store struct {
	mu sync.Mutex

	users       map[uuid.UUID]model.User
	sessions    map[string]model.Session
	appSettings *model.AppSettings

	documents    map[uuid.UUID]model.Document
	sentences    map[uuid.UUID]model.Sentence
	words        map[uuid.UUID]model.Word
	conjugations map[uuid.UUID]model.Conjugation
	trackers     map[uuid.UUID]model.LearningTracker

	sentenceOrders []model.SentenceOrder
	wordOrders     []model.WordOrder
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:        map[uuid.UUID]model.User{},
		sessions:     map[string]model.Session{},
		documents:    map[uuid.UUID]model.Document{},
		sentences:    map[uuid.UUID]model.Sentence{},
		words:        map[uuid.UUID]model.Word{},
		conjugations: map[uuid.UUID]model.Conjugation{},
		trackers:     map[uuid.UUID]model.LearningTracker{},
	}
}

func normKey(parts ...string) string {
	lowered := make([]string, 0, len(parts))
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(part)))
	}
	return strings.Join(lowered, "\x00")
}

// --- UserStore ---

func (s *Store) CreateUser(_ context.Context, user model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := strings.ToLower(strings.TrimSpace(user.Username))
	for _, existing := range s.users {
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
	s.users[user.ID] = user
	copied := user
	return &copied, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	username = strings.ToLower(strings.TrimSpace(username))
	for _, user := range s.users {
		if user.Username == username {
			copied := user
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetUserByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := user
	return &copied, nil
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
	return int64(len(s.users)), nil
}

func (s *Store) ListUsers(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]model.User, 0, len(s.users))
	for _, user := range s.users {
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

	user, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.LastLoginAt = &loginAt
	s.users[id] = user
	return nil
}

// --- SessionStore ---

func (s *Store) CreateSession(_ context.Context, userID uuid.UUID, expiresAt, now time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionID := uuid.NewString()
	s.sessions[sessionID] = model.Session{
		ID:         sessionID,
		UserID:     userID,
		ExpiresAt:  expiresAt,
		LastSeenAt: now,
	}
	return sessionID, nil
}

func (s *Store) GetSession(_ context.Context, sessionID string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := session
	return &copied, nil
}

func (s *Store) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *Store) TouchSession(_ context.Context, sessionID string, seenAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return store.ErrNotFound
	}
	session.LastSeenAt = seenAt
	s.sessions[sessionID] = session
	return nil
}

func (s *Store) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for id, session := range s.sessions {
		if !session.ExpiresAt.After(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// --- AppSettingsStore ---

func (s *Store) GetAppSettings(_ context.Context) (*model.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.appSettings == nil {
		return nil, store.ErrNotFound
	}
	copied := *s.appSettings
	return &copied, nil
}

func (s *Store) SaveAppSettings(_ context.Context, settings model.AppSettings) (*model.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if settings.CreatedAt.IsZero() {
		settings.CreatedAt = time.Now().UTC()
	}
	s.appSettings = &settings
	copied := settings
	return &copied, nil
}

// --- DocumentStore ---

func (s *Store) CreateDocument(_ context.Context, doc model.Document) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normKey(doc.UserID.String(), doc.DisplayName, doc.LanguageCode)
	for _, existing := range s.documents {
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
	s.documents[doc.ID] = doc
	copied := doc
	return &copied, nil
}

func (s *Store) GetDocument(_ context.Context, id uuid.UUID) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := doc
	return &copied, nil
}

func (s *Store) FindDocument(_ context.Context, userID uuid.UUID, displayName, languageCode string) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normKey(userID.String(), displayName, languageCode)
	for _, doc := range s.documents {
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
	for _, doc := range s.documents {
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

	doc, ok := s.documents[id]
	if !ok {
		return store.ErrNotFound
	}
	doc.FilePath = filePath
	s.documents[id] = doc
	return nil
}

func (s *Store) DeleteDocument(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.documents, id)
	return nil
}

// --- SentenceStore ---

func (s *Store) FindSentence(_ context.Context, userID uuid.UUID, languageCode, text string) (*model.Sentence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sentence := range s.sentences {
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

	for _, existing := range s.sentences {
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
	s.sentences[sentence.ID] = sentence
	copied := sentence
	return &copied, nil
}

func (s *Store) GetSentence(_ context.Context, id uuid.UUID) (*model.Sentence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sentence, ok := s.sentences[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := sentence
	return &copied, nil
}

func (s *Store) SetSentenceAudio(_ context.Context, id uuid.UUID, audioFile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sentence, ok := s.sentences[id]
	if !ok {
		return store.ErrNotFound
	}
	sentence.AudioFile = audioFile
	s.sentences[id] = sentence
	return nil
}

func (s *Store) DeleteSentence(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sentences[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.sentences, id)
	return nil
}

// --- WordStore ---

func (s *Store) FindWord(_ context.Context, userID uuid.UUID, languageCode, rootWord string) (*model.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, word := range s.words {
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

	for _, existing := range s.words {
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
	s.words[word.ID] = word
	copied := word
	return &copied, nil
}

func (s *Store) GetWord(_ context.Context, id uuid.UUID) (*model.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	word, ok := s.words[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := word
	return &copied, nil
}

func (s *Store) ListWords(_ context.Context, userID uuid.UUID, languageCode string) ([]model.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	words := make([]model.Word, 0)
	for _, word := range s.words {
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

	word, ok := s.words[id]
	if !ok {
		return store.ErrNotFound
	}
	word.PartOfSpeech = part
	s.words[id] = word
	return nil
}

func (s *Store) SetWordAudio(_ context.Context, id uuid.UUID, audioFile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	word, ok := s.words[id]
	if !ok {
		return store.ErrNotFound
	}
	word.AudioFile = audioFile
	s.words[id] = word
	return nil
}

func (s *Store) DeleteWord(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.words[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.words, id)
	return nil
}

// --- LinkStore ---

func (s *Store) CreateSentenceOrder(_ context.Context, link model.SentenceOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.sentenceOrders {
		if existing == link {
			return store.ErrExists
		}
	}
	s.sentenceOrders = append(s.sentenceOrders, link)
	return nil
}

func (s *Store) CreateWordOrder(_ context.Context, link model.WordOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.wordOrders {
		if existing == link {
			return store.ErrExists
		}
	}
	s.wordOrders = append(s.wordOrders, link)
	return nil
}

func (s *Store) SentenceOrdersForDocument(_ context.Context, documentID uuid.UUID) ([]model.SentenceOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	links := make([]model.SentenceOrder, 0)
	for _, link := range s.sentenceOrders {
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
	for _, link := range s.sentenceOrders {
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
	for _, link := range s.wordOrders {
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
	for _, link := range s.wordOrders {
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

	kept := s.sentenceOrders[:0]
	for _, link := range s.sentenceOrders {
		if link.DocumentID != documentID {
			kept = append(kept, link)
		}
	}
	s.sentenceOrders = kept
	return nil
}

func (s *Store) DeleteWordOrdersForSentence(_ context.Context, sentenceID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.wordOrders[:0]
	for _, link := range s.wordOrders {
		if link.SentenceID != sentenceID {
			kept = append(kept, link)
		}
	}
	s.wordOrders = kept
	return nil
}

// --- ConjugationStore ---

func (s *Store) CreateConjugation(_ context.Context, conjugation model.Conjugation) (*model.Conjugation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.conjugations {
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
	s.conjugations[conjugation.ID] = conjugation

	// Every new conjugation starts with an "unknown" tracker.
	tracker := model.LearningTracker{
		ID:            uuid.New(),
		UserID:        conjugation.UserID,
		ConjugationID: conjugation.ID,
		LanguageCode:  conjugation.LanguageCode,
		Status:        model.StatusUnknown,
		CreatedAt:     conjugation.CreatedAt,
	}
	s.trackers[tracker.ID] = tracker

	copied := conjugation
	return &copied, nil
}

func (s *Store) FindConjugation(_ context.Context, userID uuid.UUID, languageCode, text string) (*model.Conjugation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, conjugation := range s.conjugations {
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
	for _, conjugation := range s.conjugations {
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

	if _, ok := s.conjugations[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.conjugations, id)
	for trackerID, tracker := range s.trackers {
		if tracker.ConjugationID == id {
			delete(s.trackers, trackerID)
		}
	}
	return nil
}

// --- TrackerStore ---

func (s *Store) GetTracker(_ context.Context, id uuid.UUID) (*model.LearningTracker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tracker, ok := s.trackers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := tracker
	return &copied, nil
}

func (s *Store) GetTrackerByConjugation(_ context.Context, conjugationID uuid.UUID) (*model.LearningTracker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tracker := range s.trackers {
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
	for _, tracker := range s.trackers {
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

	tracker, ok := s.trackers[id]
	if !ok {
		return store.ErrNotFound
	}
	tracker.Status = status
	s.trackers[id] = tracker
	return nil
}
