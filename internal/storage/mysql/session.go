package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ops-console/internal/session"
	"ops-console/internal/storage"
)

func (s *Storage) SaveSession(ctx context.Context, sess *session.Session, expiresAt time.Time) error {
	const op = "storage.mysql.SaveSession"

	groups, err := json.Marshal(sess.Claims.Groups)
	if err != nil {
		return fmt.Errorf("%s: groups: %w", op, err)
	}

	var tokenExp sql.NullTime
	if !sess.Claims.ExpiresAt.IsZero() {
		tokenExp = sql.NullTime{Time: sess.Claims.ExpiresAt, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO console_sessions (id, token, username, email, groups_json, token_exp, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			token = VALUES(token),
			username = VALUES(username),
			email = VALUES(email),
			groups_json = VALUES(groups_json),
			token_exp = VALUES(token_exp),
			expires_at = VALUES(expires_at)`,
		sess.ID, sess.Token, sess.Claims.Username, sess.Claims.Email, string(groups),
		tokenExp, sess.CreatedAt.UTC(), expiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetSession(ctx context.Context, id string) (*session.Session, error) {
	const op = "storage.mysql.GetSession"

	var (
		sess     session.Session
		groups   string
		tokenExp sql.NullTime
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, token, username, email, groups_json, token_exp, created_at
		FROM console_sessions
		WHERE id = ? AND expires_at > ?`, id, time.Now().UTC(),
	).Scan(&sess.ID, &sess.Token, &sess.Claims.Username, &sess.Claims.Email, &groups, &tokenExp, &sess.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := json.Unmarshal([]byte(groups), &sess.Claims.Groups); err != nil {
		return nil, fmt.Errorf("%s: groups: %w", op, err)
	}
	if tokenExp.Valid {
		sess.Claims.ExpiresAt = tokenExp.Time.UTC()
	}

	return &sess, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id string) error {
	const op = "storage.mysql.DeleteSession"

	if _, err := s.db.ExecContext(ctx, `DELETE FROM console_sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// PurgeExpired removes sessions past their expiry and returns how many went.
func (s *Storage) PurgeExpired(ctx context.Context) (int64, error) {
	const op = "storage.mysql.PurgeExpired"

	res, err := s.db.ExecContext(ctx, `DELETE FROM console_sessions WHERE expires_at <= ?`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}
