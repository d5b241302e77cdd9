package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/carteira/backend/src/model"
	"github.com/username/carteira/backend/src/security"
)

type sessionFixture struct {
	svc     *SessionService
	db      *sql.DB
	store   *PortfolioStore
	tracker *OperationTracker
	configs []AIConfig
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	f := &sessionFixture{db: newTestDB(t)}
	f.store = NewPortfolioStore(f.db, time.Hour)
	f.tracker = NewOperationTracker(time.Hour)

	auth := security.NewAuthService([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	factory := func(_ context.Context, cfg AIConfig) (*AIClients, error) {
		f.configs = append(f.configs, cfg)
		return &AIClients{Advice: &stubAdvice{}}, nil
	}
	f.svc = NewSessionService(f.db, auth, factory, AIConfig{Model: "gemini-test", Timeout: time.Second}, f.store, f.tracker)
	return f
}

func TestSessionCreateAndAuthenticate(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	tok, err := f.svc.Create(ctx, "  my-key  ")
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	require.Len(t, f.configs, 1)
	assert.Equal(t, "my-key", f.configs[0].APIKey)
	assert.Equal(t, "gemini-test", f.configs[0].Model)

	sid, err := f.svc.Authenticate(ctx, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, tok.SessionID, sid)

	clients, err := f.svc.AIClients(sid)
	require.NoError(t, err)
	assert.NotNil(t, clients.Advice)

	// The portfolio was seeded and persisted.
	stored, err := model.GetPortfolio(f.db, sid)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version)
}

func TestSessionCreateRequiresKey(t *testing.T) {
	f := newSessionFixture(t)
	_, err := f.svc.Create(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrAPIKeyRequired)
	assert.Empty(t, f.configs)
}

func TestSessionAuthenticateRejectsBadToken(t *testing.T) {
	f := newSessionFixture(t)
	_, err := f.svc.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

func TestSessionEndRemovesEverything(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	tok, err := f.svc.Create(ctx, "key")
	require.NoError(t, err)
	require.NoError(t, f.tracker.Begin(tok.SessionID, OpValuation))

	require.NoError(t, f.svc.End(ctx, tok.SessionID))

	_, err = f.svc.Authenticate(ctx, tok.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.svc.AIClients(tok.SessionID)
	assert.ErrorIs(t, err, ErrAINotReady)
	assert.Equal(t, StatusIdle, f.tracker.State(tok.SessionID, OpValuation).Status)

	_, err = model.GetPortfolio(f.db, tok.SessionID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSessionWithoutKeyInMemoryIsEnded(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	tok, err := f.svc.Create(ctx, "key")
	require.NoError(t, err)

	// Simulates a restart: the row survives, the key does not.
	f.svc.clients.Flush()

	_, err = f.svc.Authenticate(ctx, tok.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = model.GetSessionByID(f.db, tok.SessionID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSessionPurgeExpired(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	tok, err := f.svc.Create(ctx, "key")
	require.NoError(t, err)

	n, err := f.svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	f.svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	job := NewSessionCleanupJob(f.svc)
	assert.Equal(t, "session_cleanup", job.Name())
	require.NoError(t, job.Run())

	_, err = model.GetSessionByID(f.db, tok.SessionID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = model.GetPortfolio(f.db, tok.SessionID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
