package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"otter.camp/lingot/internal/model"
	"otter.camp/lingot/internal/store"
)

// --- DocumentStore ---

const documentColumns = `
	document_id,
	user_id,
	display_name,
	language_code,
	file_path,
	created_at
`

func scanDocument(row interface{ Scan(...any) error }) (*model.Document, error) {
	var doc model.Document
	if err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.DisplayName,
		&doc.LanguageCode,
		&doc.FilePath,
		&doc.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Store) CreateDocument(ctx context.Context, doc model.Document) (*model.Document, error) {
	const q = `
INSERT INTO lingot.documents (
	user_id,
	display_name,
	language_code,
	file_path
)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, display_name, language_code) DO NOTHING
RETURNING` + documentColumns

	created, err := scanDocument(s.queryRow(
		ctx, q,
		doc.UserID,
		strings.TrimSpace(doc.DisplayName),
		doc.LanguageCode,
		doc.FilePath,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrExists
		}
		return nil, fmt.Errorf("insert document: %w", err)
	}
	return created, nil
}

func (s *Store) GetDocument(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	const q = `
SELECT` + documentColumns + `
FROM lingot.documents
WHERE document_id = $1
LIMIT 1
`

	doc, err := scanDocument(s.queryRow(ctx, q, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return doc, nil
}

func (s *Store) FindDocument(ctx context.Context, userID uuid.UUID, displayName, languageCode string) (*model.Document, error) {
	const q = `
SELECT` + documentColumns + `
FROM lingot.documents
WHERE user_id = $1
	AND lower(display_name) = lower($2)
	AND language_code = $3
LIMIT 1
`

	doc, err := scanDocument(s.queryRow(ctx, q, userID, strings.TrimSpace(displayName), languageCode))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return doc, nil
}

func (s *Store) ListDocuments(ctx context.Context, userID uuid.UUID) ([]model.Document, error) {
	const q = `
SELECT` + documentColumns + `
FROM lingot.documents
WHERE user_id = $1
ORDER BY language_code, display_name
`

	rows, err := s.query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := make([]model.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

func (s *Store) SetDocumentFile(ctx context.Context, id uuid.UUID, filePath string) error {
	const q = `
UPDATE lingot.documents
SET file_path = $2
WHERE document_id = $1
`

	affected, err := s.exec(ctx, q, id, filePath)
	if err != nil {
		return fmt.Errorf("update document file path: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	const q = `
DELETE FROM lingot.documents
WHERE document_id = $1
`

	affected, err := s.exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- SentenceStore ---

const sentenceColumns = `
	sentence_id,
	user_id,
	language_code,
	text,
	audio_file,
	created_at
`

func scanSentence(row interface{ Scan(...any) error }) (*model.Sentence, error) {
	var sentence model.Sentence
	if err := row.Scan(
		&sentence.ID,
		&sentence.UserID,
		&sentence.LanguageCode,
		&sentence.Text,
		&sentence.AudioFile,
		&sentence.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &sentence, nil
}

func (s *Store) FindSentence(ctx context.Context, userID uuid.UUID, languageCode, text string) (*model.Sentence, error) {
	const q = `
SELECT` + sentenceColumns + `
FROM lingot.sentences
WHERE user_id = $1
	AND language_code = $2
	AND text = $3
LIMIT 1
`

	sentence, err := scanSentence(s.queryRow(ctx, q, userID, languageCode, text))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return sentence, nil
}

func (s *Store) CreateSentence(ctx context.Context, sentence model.Sentence) (*model.Sentence, error) {
	const q = `
INSERT INTO lingot.sentences (
	user_id,
	language_code,
	text,
	audio_file
)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, language_code, text) DO NOTHING
RETURNING` + sentenceColumns

	created, err := scanSentence(s.queryRow(
		ctx, q,
		sentence.UserID,
		sentence.LanguageCode,
		sentence.Text,
		sentence.AudioFile,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrExists
		}
		return nil, fmt.Errorf("insert sentence: %w", err)
	}
	return created, nil
}

func (s *Store) GetSentence(ctx context.Context, id uuid.UUID) (*model.Sentence, error) {
	const q = `
SELECT` + sentenceColumns + `
FROM lingot.sentences
WHERE sentence_id = $1
LIMIT 1
`

	sentence, err := scanSentence(s.queryRow(ctx, q, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return sentence, nil
}

func (s *Store) SetSentenceAudio(ctx context.Context, id uuid.UUID, audioFile string) error {
	const q = `
UPDATE lingot.sentences
SET audio_file = $2
WHERE sentence_id = $1
`

	affected, err := s.exec(ctx, q, id, audioFile)
	if err != nil {
		return fmt.Errorf("update sentence audio: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteSentence(ctx context.Context, id uuid.UUID) error {
	const q = `
DELETE FROM lingot.sentences
WHERE sentence_id = $1
`

	affected, err := s.exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete sentence: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- WordStore ---

const wordColumns = `
	word_id,
	user_id,
	language_code,
	root_word,
	part_of_speech,
	audio_file,
	created_at
`

func scanWord(row interface{ Scan(...any) error }) (*model.Word, error) {
	var word model.Word
	if err := row.Scan(
		&word.ID,
		&word.UserID,
		&word.LanguageCode,
		&word.RootWord,
		&word.PartOfSpeech,
		&word.AudioFile,
		&word.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &word, nil
}

func (s *Store) FindWord(ctx context.Context, userID uuid.UUID, languageCode, rootWord string) (*model.Word, error) {
	const q = `
SELECT` + wordColumns + `
FROM lingot.words
WHERE user_id = $1
	AND language_code = $2
	AND root_word = $3
LIMIT 1
`

	word, err := scanWord(s.queryRow(ctx, q, userID, languageCode, rootWord))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return word, nil
}

func (s *Store) CreateWord(ctx context.Context, word model.Word) (*model.Word, error) {
	if word.PartOfSpeech == "" {
		word.PartOfSpeech = model.PartUnknown
	}

	const q = `
INSERT INTO lingot.words (
	user_id,
	language_code,
	root_word,
	part_of_speech,
	audio_file
)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id, language_code, root_word) DO NOTHING
RETURNING` + wordColumns

	created, err := scanWord(s.queryRow(
		ctx, q,
		word.UserID,
		word.LanguageCode,
		word.RootWord,
		string(word.PartOfSpeech),
		word.AudioFile,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrExists
		}
		return nil, fmt.Errorf("insert word: %w", err)
	}
	return created, nil
}

func (s *Store) GetWord(ctx context.Context, id uuid.UUID) (*model.Word, error) {
	const q = `
SELECT` + wordColumns + `
FROM lingot.words
WHERE word_id = $1
LIMIT 1
`

	word, err := scanWord(s.queryRow(ctx, q, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return word, nil
}

func (s *Store) ListWords(ctx context.Context, userID uuid.UUID, languageCode string) ([]model.Word, error) {
	const q = `
SELECT` + wordColumns + `
FROM lingot.words
WHERE user_id = $1
	AND ($2 = '' OR language_code = $2)
ORDER BY root_word
`

	rows, err := s.query(ctx, q, userID, languageCode)
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	defer rows.Close()

	words := make([]model.Word, 0)
	for rows.Next() {
		word, err := scanWord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		words = append(words, *word)
	}
	return words, rows.Err()
}

func (s *Store) SetWordPartOfSpeech(ctx context.Context, id uuid.UUID, part model.PartOfSpeech) error {
	const q = `
UPDATE lingot.words
SET part_of_speech = $2
WHERE word_id = $1
`

	affected, err := s.exec(ctx, q, id, string(part))
	if err != nil {
		return fmt.Errorf("update word part of speech: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) SetWordAudio(ctx context.Context, id uuid.UUID, audioFile string) error {
	const q = `
UPDATE lingot.words
SET audio_file = $2
WHERE word_id = $1
`

	affected, err := s.exec(ctx, q, id, audioFile)
	if err != nil {
		return fmt.Errorf("update word audio: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteWord(ctx context.Context, id uuid.UUID) error {
	const q = `
DELETE FROM lingot.words
WHERE word_id = $1
`

	affected, err := s.exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete word: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- LinkStore ---

func (s *Store) CreateSentenceOrder(ctx context.Context, link model.SentenceOrder) error {
	const q = `
INSERT INTO lingot.sentence_orders (
	document_id,
	sentence_id,
	position
)
VALUES ($1, $2, $3)
ON CONFLICT (document_id, position) DO NOTHING
`

	affected, err := s.exec(ctx, q, link.DocumentID, link.SentenceID, link.Order)
	if err != nil {
		return fmt.Errorf("insert sentence order: %w", err)
	}
	if affected == 0 {
		return store.ErrExists
	}
	return nil
}

func (s *Store) CreateWordOrder(ctx context.Context, link model.WordOrder) error {
	const q = `
INSERT INTO lingot.word_orders (
	sentence_id,
	word_id,
	position
)
VALUES ($1, $2, $3)
ON CONFLICT (sentence_id, position) DO NOTHING
`

	affected, err := s.exec(ctx, q, link.SentenceID, link.WordID, link.Order)
	if err != nil {
		return fmt.Errorf("insert word order: %w", err)
	}
	if affected == 0 {
		return store.ErrExists
	}
	return nil
}

func (s *Store) SentenceOrdersForDocument(ctx context.Context, documentID uuid.UUID) ([]model.SentenceOrder, error) {
	const q = `
SELECT
	document_id,
	sentence_id,
	position
FROM lingot.sentence_orders
WHERE document_id = $1
ORDER BY position
`

	rows, err := s.query(ctx, q, documentID)
	if err != nil {
		return nil, fmt.Errorf("query sentence orders: %w", err)
	}
	defer rows.Close()

	links := make([]model.SentenceOrder, 0)
	for rows.Next() {
		var link model.SentenceOrder
		if err := rows.Scan(&link.DocumentID, &link.SentenceID, &link.Order); err != nil {
			return nil, fmt.Errorf("scan sentence order: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (s *Store) DocumentIDsForSentence(ctx context.Context, sentenceID uuid.UUID) ([]uuid.UUID, error) {
	const q = `
SELECT DISTINCT document_id
FROM lingot.sentence_orders
WHERE sentence_id = $1
`

	return s.queryIDs(ctx, q, sentenceID)
}

func (s *Store) WordOrdersForSentence(ctx context.Context, sentenceID uuid.UUID) ([]model.WordOrder, error) {
	const q = `
SELECT
	sentence_id,
	word_id,
	position
FROM lingot.word_orders
WHERE sentence_id = $1
ORDER BY position
`

	rows, err := s.query(ctx, q, sentenceID)
	if err != nil {
		return nil, fmt.Errorf("query word orders: %w", err)
	}
	defer rows.Close()

	links := make([]model.WordOrder, 0)
	for rows.Next() {
		var link model.WordOrder
		if err := rows.Scan(&link.SentenceID, &link.WordID, &link.Order); err != nil {
			return nil, fmt.Errorf("scan word order: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (s *Store) SentenceIDsForWord(ctx context.Context, wordID uuid.UUID) ([]uuid.UUID, error) {
	const q = `
SELECT DISTINCT sentence_id
FROM lingot.word_orders
WHERE word_id = $1
`

	return s.queryIDs(ctx, q, wordID)
}

func (s *Store) DeleteSentenceOrdersForDocument(ctx context.Context, documentID uuid.UUID) error {
	const q = `
DELETE FROM lingot.sentence_orders
WHERE document_id = $1
`

	if _, err := s.exec(ctx, q, documentID); err != nil {
		return fmt.Errorf("delete sentence orders: %w", err)
	}
	return nil
}

func (s *Store) DeleteWordOrdersForSentence(ctx context.Context, sentenceID uuid.UUID) error {
	const q = `
DELETE FROM lingot.word_orders
WHERE sentence_id = $1
`

	if _, err := s.exec(ctx, q, sentenceID); err != nil {
		return fmt.Errorf("delete word orders: %w", err)
	}
	return nil
}

func (s *Store) queryIDs(ctx context.Context, q string, arg any) ([]uuid.UUID, error) {
	rows, err := s.query(ctx, q, arg)
	if err != nil {
		return nil, fmt.Errorf("query ids: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
