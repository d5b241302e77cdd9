package model

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// Session is a row of the sessions table. The API key never reaches the database.
type Session struct {
	ID         string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	LastSeenAt time.Time
}

// Expired reports whether the session has expired at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (s *Session) CreateSession(db *sql.DB) error {
	_, err := db.Exec(
		`INSERT INTO sessions (id, created_at, expires_at, last_seen_at) VALUES (?, ?, ?, ?)`,
		s.ID, s.CreatedAt.Unix(), s.ExpiresAt.Unix(), s.LastSeenAt.Unix(),
	)
	return err
}

func GetSessionByID(db *sql.DB, id string) (*Session, error) {
	var s Session
	var createdAt, expiresAt, lastSeenAt int64
	err := db.QueryRow(
		`SELECT id, created_at, expires_at, last_seen_at FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &createdAt, &expiresAt, &lastSeenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.CreatedAt = time.Unix(createdAt, 0).UTC()
	s.ExpiresAt = time.Unix(expiresAt, 0).UTC()
	s.LastSeenAt = time.Unix(lastSeenAt, 0).UTC()
	return &s, nil
}

// TouchSession records activity on a session.
func TouchSession(db *sql.DB, id string, at time.Time) error {
	_, err := db.Exec(`UPDATE sessions SET last_seen_at = ? WHERE id = ?`, at.Unix(), id)
	return err
}

// DeleteSession removes a session; its portfolio and history go with it.
func DeleteSession(db *sql.DB, id string) error {
	_, err := db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// DeleteExpiredSessions removes every session expired at now and returns their ids.
func DeleteExpiredSessions(db *sql.DB, now time.Time) ([]string, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.Query(`SELECT id FROM sessions WHERE expires_at <= ?`, now.Unix())
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(ids) == 0 {
		return nil, nil
	}
	if _, err := tx.Exec(`DELETE FROM sessions WHERE expires_at <= ?`, now.Unix()); err != nil {
		return nil, err
	}
	return ids, tx.Commit()
}
