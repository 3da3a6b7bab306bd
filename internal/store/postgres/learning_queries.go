package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"otter.camp/lingot/internal/model"
	"otter.camp/lingot/internal/store"
)

const conjugationColumns = `
	conjugation_id,
	user_id,
	word_id,
	language_code,
	text,
	article,
	gram_case,
	person,
	gender,
	plurality,
	politeness,
	tense,
	created_at
`

func scanConjugation(row interface{ Scan(...any) error }) (*model.Conjugation, error) {
	var c model.Conjugation
	if err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.WordID,
		&c.LanguageCode,
		&c.Text,
		&c.Article,
		&c.Case,
		&c.Person,
		&c.Gender,
		&c.Plurality,
		&c.Politeness,
		&c.Tense,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateConjugation inserts the form and its initial tracker in one
// transaction so a crash cannot leave a form without learning state.
func (s *Store) CreateConjugation(ctx context.Context, conjugation model.Conjugation) (*model.Conjugation, error) {
	const insertQ = `
INSERT INTO lingot.conjugations (
	user_id,
	word_id,
	language_code,
	text,
	article,
	gram_case,
	person,
	gender,
	plurality,
	politeness,
	tense
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (user_id, language_code, text) DO NOTHING
RETURNING` + conjugationColumns

	const trackerQ = `
INSERT INTO lingot.learning_trackers (
	user_id,
	conjugation_id,
	language_code,
	status
)
VALUES ($1, $2, $3, $4)
`

	var created *model.Conjugation
	err := s.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := tx.Raw(
			insertQ,
			conjugation.UserID,
			conjugation.WordID,
			conjugation.LanguageCode,
			conjugation.Text,
			conjugation.Article,
			conjugation.Case,
			conjugation.Person,
			conjugation.Gender,
			conjugation.Plurality,
			conjugation.Politeness,
			conjugation.Tense,
		).Row()

		inserted, err := scanConjugation(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return store.ErrExists
			}
			return fmt.Errorf("insert conjugation: %w", err)
		}

		if err := tx.Exec(
			trackerQ,
			inserted.UserID,
			inserted.ID,
			inserted.LanguageCode,
			string(model.StatusUnknown),
		).Error; err != nil {
			return fmt.Errorf("insert tracker: %w", err)
		}

		created = inserted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Store) FindConjugation(ctx context.Context, userID uuid.UUID, languageCode, text string) (*model.Conjugation, error) {
	const q = `
SELECT` + conjugationColumns + `
FROM lingot.conjugations
WHERE user_id = $1
	AND language_code = $2
	AND text = $3
LIMIT 1
`

	conjugation, err := scanConjugation(s.queryRow(ctx, q, userID, languageCode, text))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return conjugation, nil
}

func (s *Store) ListConjugationsForWord(ctx context.Context, wordID uuid.UUID) ([]model.Conjugation, error) {
	const q = `
SELECT` + conjugationColumns + `
FROM lingot.conjugations
WHERE word_id = $1
ORDER BY text
`

	rows, err := s.query(ctx, q, wordID)
	if err != nil {
		return nil, fmt.Errorf("query conjugations: %w", err)
	}
	defer rows.Close()

	conjugations := make([]model.Conjugation, 0)
	for rows.Next() {
		conjugation, err := scanConjugation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conjugation: %w", err)
		}
		conjugations = append(conjugations, *conjugation)
	}
	return conjugations, rows.Err()
}

// DeleteConjugation removes the form and its tracker together.
func (s *Store) DeleteConjugation(ctx context.Context, id uuid.UUID) error {
	return s.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM lingot.learning_trackers WHERE conjugation_id = $1`, id).Error; err != nil {
			return fmt.Errorf("delete tracker: %w", err)
		}
		res := tx.Exec(`DELETE FROM lingot.conjugations WHERE conjugation_id = $1`, id)
		if res.Error != nil {
			return fmt.Errorf("delete conjugation: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

// --- TrackerStore ---

const trackerColumns = `
	tracker_id,
	user_id,
	conjugation_id,
	language_code,
	status,
	created_at
`

func scanTracker(row interface{ Scan(...any) error }) (*model.LearningTracker, error) {
	var tracker model.LearningTracker
	if err := row.Scan(
		&tracker.ID,
		&tracker.UserID,
		&tracker.ConjugationID,
		&tracker.LanguageCode,
		&tracker.Status,
		&tracker.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &tracker, nil
}

func (s *Store) GetTracker(ctx context.Context, id uuid.UUID) (*model.LearningTracker, error) {
	const q = `
SELECT` + trackerColumns + `
FROM lingot.learning_trackers
WHERE tracker_id = $1
LIMIT 1
`

	tracker, err := scanTracker(s.queryRow(ctx, q, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return tracker, nil
}

func (s *Store) GetTrackerByConjugation(ctx context.Context, conjugationID uuid.UUID) (*model.LearningTracker, error) {
	const q = `
SELECT` + trackerColumns + `
FROM lingot.learning_trackers
WHERE conjugation_id = $1
LIMIT 1
`

	tracker, err := scanTracker(s.queryRow(ctx, q, conjugationID))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return tracker, nil
}

func (s *Store) ListTrackersByStatus(ctx context.Context, userID uuid.UUID, languageCode string, status model.TrackerStatus) ([]model.LearningTracker, error) {
	const q = `
SELECT` + trackerColumns + `
FROM lingot.learning_trackers
WHERE user_id = $1
	AND status = $2
	AND ($3 = '' OR language_code = $3)
ORDER BY created_at
`

	rows, err := s.query(ctx, q, userID, string(status), languageCode)
	if err != nil {
		return nil, fmt.Errorf("query trackers: %w", err)
	}
	defer rows.Close()

	trackers := make([]model.LearningTracker, 0)
	for rows.Next() {
		tracker, err := scanTracker(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tracker: %w", err)
		}
		trackers = append(trackers, *tracker)
	}
	return trackers, rows.Err()
}

func (s *Store) SetTrackerStatus(ctx context.Context, id uuid.UUID, status model.TrackerStatus) error {
	const q = `
UPDATE lingot.learning_trackers
SET status = $2
WHERE tracker_id = $1
`

	affected, err := s.exec(ctx, q, id, string(status))
	if err != nil {
		return fmt.Errorf("update tracker status: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
