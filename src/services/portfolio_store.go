package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/carteira/backend/src/logger"
	"github.com/username/carteira/backend/src/model"
	"github.com/username/carteira/backend/src/models"
)

// Snapshot is an immutable view of a session's portfolio.
type Snapshot struct {
	Portfolio models.Portfolio
	Version   int64
	UpdatedAt time.Time
}

// PortfolioStore holds one snapshot per session. Reads and writes hand out
// deep copies; a write replaces the snapshot wholesale and bumps the version.
// When db is set every write goes through to SQLite.
type PortfolioStore struct {
	mu        sync.RWMutex
	snapshots *cache.Cache
	db        *sql.DB
	now       func() time.Time
}

func NewPortfolioStore(db *sql.DB, ttl time.Duration) *PortfolioStore {
	return &PortfolioStore{
		snapshots: cache.New(ttl, ttl),
		db:        db,
		now:       time.Now,
	}
}

func (s *PortfolioStore) cached(sessionID string) (*Snapshot, bool) {
	v, ok := s.snapshots.Get(sessionID)
	if !ok {
		return nil, false
	}
	return v.(*Snapshot), true
}

func copyOf(snap *Snapshot) *Snapshot {
	return &Snapshot{Portfolio: snap.Portfolio.Clone(), Version: snap.Version, UpdatedAt: snap.UpdatedAt}
}

// Get returns the session's snapshot, loading it from the database or seeding
// it on first access.
func (s *PortfolioStore) Get(ctx context.Context, sessionID string) (*Snapshot, error) {
	s.mu.RLock()
	snap, ok := s.cached(sessionID)
	s.mu.RUnlock()
	if ok {
		return copyOf(snap), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.loadLocked(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return copyOf(snap), nil
}

func (s *PortfolioStore) loadLocked(ctx context.Context, sessionID string) (*Snapshot, error) {
	if snap, ok := s.cached(sessionID); ok {
		return snap, nil
	}

	if s.db != nil {
		stored, err := model.GetPortfolio(s.db, sessionID)
		switch {
		case err == nil:
			snap := &Snapshot{Portfolio: stored.Portfolio, Version: stored.Version, UpdatedAt: stored.UpdatedAt}
			s.snapshots.SetDefault(sessionID, snap)
			return snap, nil
		case !errors.Is(err, model.ErrNotFound):
			return nil, fmt.Errorf("failed to load portfolio: %w", err)
		}
	}

	logger.FromContext(ctx).Info("Seeding portfolio for session")
	return s.writeLocked(sessionID, models.SeedPortfolio(), 1)
}

func (s *PortfolioStore) writeLocked(sessionID string, p models.Portfolio, version int64) (*Snapshot, error) {
	snap := &Snapshot{Portfolio: p.Clone(), Version: version, UpdatedAt: s.now().UTC()}
	if s.db != nil {
		if err := model.SavePortfolio(s.db, sessionID, snap.Version, snap.Portfolio, snap.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to persist portfolio: %w", err)
		}
	}
	s.snapshots.SetDefault(sessionID, snap)
	return snap, nil
}

// Replace swaps the session's snapshot for p. On a persistence error the
// previous snapshot stays in place.
func (s *PortfolioStore) Replace(ctx context.Context, sessionID string, p models.Portfolio) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadLocked(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	snap, err := s.writeLocked(sessionID, p, current.Version+1)
	if err != nil {
		return nil, err
	}
	return copyOf(snap), nil
}

// Reset restores the seed portfolio.
func (s *PortfolioStore) Reset(ctx context.Context, sessionID string) (*Snapshot, error) {
	return s.Replace(ctx, sessionID, models.SeedPortfolio())
}

// Forget drops the in-memory snapshot of a session.
func (s *PortfolioStore) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots.Delete(sessionID)
}
