package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/username/carteira/backend/src/database"
	"github.com/username/carteira/backend/src/model"
	"github.com/username/carteira/backend/src/models"
	"github.com/username/carteira/backend/src/parsers"
	"github.com/username/carteira/backend/src/parsers/csvimport"
	"github.com/username/carteira/backend/src/processors"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func insertSession(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	now := time.Now().UTC()
	s := &model.Session{ID: id, CreatedAt: now, ExpiresAt: now.Add(time.Hour), LastSeenAt: now}
	require.NoError(t, s.CreateSession(db))
}

type stubAdvice struct {
	mu        sync.Mutex
	text      string
	err       error
	requests  []AdviceRequest
	valuation []models.ValuationResult
}

func (s *stubAdvice) RebalancingAdvice(_ context.Context, req AdviceRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return s.text, s.err
}

func (s *stubAdvice) ValuationAnalysis(_ context.Context, r models.ValuationResult) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valuation = append(s.valuation, r)
	return s.text, s.err
}

// clientSource serves the same clients for every session, or none.
type clientSource struct {
	clients *AIClients
}

func (c clientSource) AIClients(string) (*AIClients, error) {
	if c.clients == nil {
		return nil, ErrAINotReady
	}
	return c.clients, nil
}

func staticParser(assets []models.SimplifiedAsset, err error) parsers.PortfolioParser {
	return parsers.ParserFunc(func(context.Context, string) ([]models.SimplifiedAsset, error) {
		return assets, err
	})
}

var errStub = errors.New("stub failure")

type serviceFixture struct {
	svc     *PortfolioService
	store   *PortfolioStore
	tracker *OperationTracker
	advice  *stubAdvice
	db      *sql.DB
}

func newServiceFixture(t *testing.T, parser parsers.PortfolioParser, withAI bool) *serviceFixture {
	t.Helper()
	db := newTestDB(t)
	insertSession(t, db, "s1")

	store := NewPortfolioStore(db, time.Hour)
	tracker := NewOperationTracker(time.Hour)
	advice := &stubAdvice{text: "Mantenha a disciplina."}

	src := clientSource{}
	if withAI {
		src.clients = &AIClients{Advice: advice, Parser: parser}
	}

	svc := NewPortfolioService(store, src, tracker,
		processors.NewRebalancingProcessor(),
		processors.NewValuationProcessor(),
		processors.NewPortfolioProcessor(),
		csvimport.NewParser(),
		db, 20000)

	return &serviceFixture{svc: svc, store: store, tracker: tracker, advice: advice, db: db}
}
