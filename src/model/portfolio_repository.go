package model

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/username/carteira/backend/src/models"
)

// StoredPortfolio is a persisted snapshot.
type StoredPortfolio struct {
	SessionID string
	Version   int64
	Portfolio models.Portfolio
	UpdatedAt time.Time
}

// PortfolioUpdate is one row of the update history.
type PortfolioUpdate struct {
	ID            int64     `json:"id"`
	SessionID     string    `json:"-"`
	Source        string    `json:"source"`
	Version       int64     `json:"version"`
	AcceptedCount int       `json:"acceptedCount"`
	DroppedCount  int       `json:"droppedCount"`
	TotalValue    float64   `json:"totalValue"`
	CreatedAt     time.Time `json:"createdAt"`
}

// SavePortfolio upserts the snapshot of a session.
func SavePortfolio(db *sql.DB, sessionID string, version int64, p models.Portfolio, at time.Time) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode portfolio: %w", err)
	}
	_, err = db.Exec(`
	INSERT INTO portfolios (session_id, version, payload, updated_at) VALUES (?, ?, ?, ?)
	ON CONFLICT(session_id) DO UPDATE SET version = excluded.version, payload = excluded.payload, updated_at = excluded.updated_at`,
		sessionID, version, string(payload), at.Unix(),
	)
	return err
}

func GetPortfolio(db *sql.DB, sessionID string) (*StoredPortfolio, error) {
	var sp StoredPortfolio
	var payload string
	var updatedAt int64
	err := db.QueryRow(
		`SELECT session_id, version, payload, updated_at FROM portfolios WHERE session_id = ?`, sessionID,
	).Scan(&sp.SessionID, &sp.Version, &payload, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(payload), &sp.Portfolio); err != nil {
		return nil, fmt.Errorf("failed to decode stored portfolio: %w", err)
	}
	sp.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &sp, nil
}

func (u *PortfolioUpdate) Insert(db *sql.DB) error {
	res, err := db.Exec(`
	INSERT INTO portfolio_updates (session_id, source, version, accepted_count, dropped_count, total_value, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.SessionID, u.Source, u.Version, u.AcceptedCount, u.DroppedCount, u.TotalValue, u.CreatedAt.Unix(),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

// GetPortfolioUpdates lists a session's updates, newest first.
func GetPortfolioUpdates(db *sql.DB, sessionID string, limit int) ([]PortfolioUpdate, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`
	SELECT id, session_id, source, version, accepted_count, dropped_count, total_value, created_at
	FROM portfolio_updates WHERE session_id = ? ORDER BY id DESC LIMIT ?`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	updates := []PortfolioUpdate{}
	for rows.Next() {
		var u PortfolioUpdate
		var createdAt int64
		if err := rows.Scan(&u.ID, &u.SessionID, &u.Source, &u.Version, &u.AcceptedCount, &u.DroppedCount, &u.TotalValue, &createdAt); err != nil {
			return nil, err
		}
		u.CreatedAt = time.Unix(createdAt, 0).UTC()
		updates = append(updates, u)
	}
	return updates, rows.Err()
}
