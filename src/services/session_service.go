package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/carteira/backend/src/logger"
	"github.com/username/carteira/backend/src/model"
	"github.com/username/carteira/backend/src/security"
)

var (
	ErrAPIKeyRequired  = errors.New("api key is required")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// SessionToken is what a client receives when it opens a session.
type SessionToken struct {
	SessionID string    `json:"sessionId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionService owns session lifetime. The API key only lives inside the
// AIClients kept in memory, which expire together with the session.
type SessionService struct {
	db      *sql.DB
	auth    *security.AuthService
	clients *cache.Cache
	factory AIFactory
	aiBase  AIConfig
	store   *PortfolioStore
	tracker *OperationTracker
	now     func() time.Time
}

// NewSessionService wires the session lifecycle. aiBase supplies model and
// timeout; its APIKey is ignored.
func NewSessionService(db *sql.DB, auth *security.AuthService, factory AIFactory, aiBase AIConfig, store *PortfolioStore, tracker *OperationTracker) *SessionService {
	s := &SessionService{
		db:      db,
		auth:    auth,
		clients: cache.New(auth.TTL(), time.Minute),
		factory: factory,
		aiBase:  aiBase,
		store:   store,
		tracker: tracker,
		now:     time.Now,
	}
	s.clients.OnEvicted(func(sessionID string, _ any) {
		activeSessions.Dec()
		s.store.Forget(sessionID)
		s.tracker.Forget(sessionID)
	})
	return s
}

// Create opens a session for apiKey and seeds its portfolio.
func (s *SessionService) Create(ctx context.Context, apiKey string) (*SessionToken, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	cfg := s.aiBase
	cfg.APIKey = apiKey
	clients, err := s.factory(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure AI clients: %w", err)
	}

	sessionID := uuid.NewString()
	token, expiresAt, err := s.auth.GenerateToken(sessionID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	row := &model.Session{ID: sessionID, CreatedAt: now, ExpiresAt: expiresAt, LastSeenAt: now}
	if err := row.CreateSession(s.db); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.clients.Set(sessionID, clients, time.Until(expiresAt))
	activeSessions.Inc()

	if _, err := s.store.Get(ctx, sessionID); err != nil {
		s.End(ctx, sessionID)
		return nil, err
	}

	logger.FromContext(ctx).Info("Session created", "sessionID", sessionID, "expiresAt", expiresAt)
	return &SessionToken{SessionID: sessionID, Token: token, ExpiresAt: expiresAt}, nil
}

// Authenticate resolves a token to a live session id. A session whose key is
// no longer in memory (e.g. after a restart) is ended, since it can't reach
// the AI gateway and the key must be entered again.
func (s *SessionService) Authenticate(ctx context.Context, token string) (string, error) {
	sessionID, err := s.auth.ValidateToken(token)
	if err != nil {
		return "", err
	}

	row, err := model.GetSessionByID(s.db, sessionID)
	if errors.Is(err, model.ErrNotFound) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}

	now := s.now()
	if row.Expired(now) {
		s.End(ctx, sessionID)
		return "", ErrSessionExpired
	}

	if _, ok := s.clients.Get(sessionID); !ok {
		logger.FromContext(ctx).Info("Session has no API key in memory, ending it", "sessionID", sessionID)
		s.End(ctx, sessionID)
		return "", ErrSessionNotFound
	}

	if err := model.TouchSession(s.db, sessionID, now); err != nil {
		logger.FromContext(ctx).Warn("Failed to touch session", "sessionID", sessionID, "error", err)
	}
	return sessionID, nil
}

// AIClients returns the session's model-backed clients.
func (s *SessionService) AIClients(sessionID string) (*AIClients, error) {
	v, ok := s.clients.Get(sessionID)
	if !ok {
		return nil, ErrAINotReady
	}
	return v.(*AIClients), nil
}

// End closes a session and deletes everything stored for it.
func (s *SessionService) End(ctx context.Context, sessionID string) error {
	// OnEvicted clears the store and tracker when the entry existed.
	s.clients.Delete(sessionID)
	s.store.Forget(sessionID)
	s.tracker.Forget(sessionID)

	if err := model.DeleteSession(s.db, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	logger.FromContext(ctx).Info("Session ended", "sessionID", sessionID)
	return nil
}

// PurgeExpired deletes every expired session and returns how many were removed.
func (s *SessionService) PurgeExpired(ctx context.Context) (int, error) {
	s.clients.DeleteExpired()

	ids, err := model.DeleteExpiredSessions(s.db, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired sessions: %w", err)
	}
	for _, id := range ids {
		s.clients.Delete(id)
		s.store.Forget(id)
		s.tracker.Forget(id)
	}
	expiredSessionsPurged.Add(float64(len(ids)))
	return len(ids), nil
}
