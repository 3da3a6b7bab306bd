package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"otter.camp/lingot/internal/model"
	"otter.camp/lingot/internal/store"
)

const userColumns = `
	user_id,
	username,
	display_name,
	password_hash,
	created_at,
	last_login_at
`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var user model.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.DisplayName,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.LastLoginAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, user model.User) (*model.User, error) {
	const q = `
INSERT INTO lingot.users (
	username,
	display_name,
	password_hash
)
VALUES ($1, $2, $3)
ON CONFLICT (username) DO NOTHING
RETURNING` + userColumns

	created, err := scanUser(s.queryRow(
		ctx, q,
		strings.ToLower(strings.TrimSpace(user.Username)),
		strings.TrimSpace(user.DisplayName),
		user.PasswordHash,
	))
	if err != nil {
		// No row back from DO NOTHING means the username is taken.
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `
SELECT` + userColumns + `
FROM lingot.users
WHERE username = $1
LIMIT 1
`

	user, err := scanUser(s.queryRow(ctx, q, strings.ToLower(strings.TrimSpace(username))))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const q = `
SELECT` + userColumns + `
FROM lingot.users
WHERE user_id = $1
LIMIT 1
`

	user, err := scanUser(s.queryRow(ctx, q, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return user, nil
}

func (s *Store) FirstUser(ctx context.Context) (*model.User, error) {
	const q = `
SELECT` + userColumns + `
FROM lingot.users
ORDER BY created_at, username
LIMIT 1
`

	user, err := scanUser(s.queryRow(ctx, q))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return user, nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	const q = `SELECT COUNT(*) FROM lingot.users`

	var count int64
	if err := s.queryRow(ctx, q).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	const q = `
SELECT` + userColumns + `
FROM lingot.users
ORDER BY created_at, username
`

	rows, err := s.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (s *Store) SetUserLastLogin(ctx context.Context, id uuid.UUID, loginAt time.Time) error {
	const q = `
UPDATE lingot.users
SET last_login_at = $2
WHERE user_id = $1
`

	affected, err := s.exec(ctx, q, id, loginAt.UTC())
	if err != nil {
		return fmt.Errorf("update user last login: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- SessionStore ---

func (s *Store) CreateSession(ctx context.Context, userID uuid.UUID, expiresAt, now time.Time) (string, error) {
	const q = `
INSERT INTO lingot.sessions (
	user_id,
	expires_at,
	created_at,
	last_seen_at
)
VALUES ($1, $2, $3, $3)
RETURNING session_id::text
`

	var sessionID string
	if err := s.queryRow(ctx, q, userID, expiresAt.UTC(), now.UTC()).Scan(&sessionID); err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	return sessionID, nil
}

func (s *Store) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	const q = `
SELECT
	session_id::text,
	user_id,
	expires_at,
	last_seen_at
FROM lingot.sessions
WHERE session_id = $1::uuid
LIMIT 1
`

	var session model.Session
	if err := s.queryRow(ctx, q, strings.TrimSpace(sessionID)).Scan(
		&session.ID,
		&session.UserID,
		&session.ExpiresAt,
		&session.LastSeenAt,
	); err != nil {
		return nil, mapNoRows(err)
	}
	return &session, nil
}

func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	const q = `
DELETE FROM lingot.sessions
WHERE session_id = $1::uuid
`

	if _, err := s.exec(ctx, q, strings.TrimSpace(sessionID)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Store) TouchSession(ctx context.Context, sessionID string, seenAt time.Time) error {
	const q = `
UPDATE lingot.sessions
SET last_seen_at = $2
WHERE session_id = $1::uuid
`

	affected, err := s.exec(ctx, q, strings.TrimSpace(sessionID), seenAt.UTC())
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	const q = `
DELETE FROM lingot.sessions
WHERE expires_at <= $1
`

	affected, err := s.exec(ctx, q, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return affected, nil
}

// --- AppSettingsStore ---

func (s *Store) GetAppSettings(ctx context.Context) (*model.AppSettings, error) {
	const q = `
SELECT
	multiuser_mode,
	passwordless_login,
	show_users_on_login_screen,
	created_at
FROM lingot.app_settings
WHERE singleton_id = true
LIMIT 1
`

	var settings model.AppSettings
	if err := s.queryRow(ctx, q).Scan(
		&settings.MultiuserMode,
		&settings.PasswordlessLogin,
		&settings.ShowUsersOnLoginScreen,
		&settings.CreatedAt,
	); err != nil {
		return nil, mapNoRows(err)
	}
	return &settings, nil
}

func (s *Store) SaveAppSettings(ctx context.Context, settings model.AppSettings) (*model.AppSettings, error) {
	const q = `
INSERT INTO lingot.app_settings (
	singleton_id,
	multiuser_mode,
	passwordless_login,
	show_users_on_login_screen
)
VALUES (true, $1, $2, $3)
ON CONFLICT (singleton_id)
DO UPDATE SET
	multiuser_mode = EXCLUDED.multiuser_mode,
	passwordless_login = EXCLUDED.passwordless_login,
	show_users_on_login_screen = EXCLUDED.show_users_on_login_screen
RETURNING
	multiuser_mode,
	passwordless_login,
	show_users_on_login_screen,
	created_at
`

	var saved model.AppSettings
	if err := s.queryRow(
		ctx, q,
		settings.MultiuserMode,
		settings.PasswordlessLogin,
		settings.ShowUsersOnLoginScreen,
	).Scan(
		&saved.MultiuserMode,
		&saved.PasswordlessLogin,
		&saved.ShowUsersOnLoginScreen,
		&saved.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("upsert app settings: %w", err)
	}
	return &saved, nil
}
