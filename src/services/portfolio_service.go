package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/username/carteira/backend/src/logger"
	"github.com/username/carteira/backend/src/model"
	"github.com/username/carteira/backend/src/models"
	"github.com/username/carteira/backend/src/parsers"
	"github.com/username/carteira/backend/src/processors"
	"github.com/username/carteira/backend/src/security/validation"
)

const updateHistoryLimit = 50

// PortfolioService runs the portfolio operations of a session: reading,
// rebalancing, valuation and updates from pasted or uploaded text.
type PortfolioService struct {
	store          *PortfolioStore
	ai             AIClientSource
	tracker        *OperationTracker
	rebalancer     processors.RebalancingProcessor
	valuer         processors.ValuationProcessor
	reconstructor  processors.PortfolioProcessor
	csvParser      parsers.PortfolioParser
	db             *sql.DB
	maxPasteLength int
	now            func() time.Time
}

func NewPortfolioService(
	store *PortfolioStore,
	ai AIClientSource,
	tracker *OperationTracker,
	rebalancer processors.RebalancingProcessor,
	valuer processors.ValuationProcessor,
	reconstructor processors.PortfolioProcessor,
	csvParser parsers.PortfolioParser,
	db *sql.DB,
	maxPasteLength int,
) *PortfolioService {
	return &PortfolioService{
		store:          store,
		ai:             ai,
		tracker:        tracker,
		rebalancer:     rebalancer,
		valuer:         valuer,
		reconstructor:  reconstructor,
		csvParser:      csvParser,
		db:             db,
		maxPasteLength: maxPasteLength,
		now:            time.Now,
	}
}

func (s *PortfolioService) GetPortfolio(ctx context.Context, sessionID string) (*Snapshot, error) {
	return s.store.Get(ctx, sessionID)
}

func (s *PortfolioService) Reset(ctx context.Context, sessionID string) (*Snapshot, error) {
	snap, err := s.store.Reset(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.recordUpdate(ctx, sessionID, "reset", snap, nil)
	return snap, nil
}

func (s *PortfolioService) OperationStates(sessionID string) map[Operation]OperationState {
	return s.tracker.States(sessionID)
}

// Rebalance computes the contribution split on the current snapshot and then
// asks for a narrative. A narrative failure only adds a warning.
func (s *PortfolioService) Rebalance(ctx context.Context, sessionID string, req RebalancingRequest) (*RebalancingResponse, error) {
	log := logger.FromContext(ctx)

	if err := s.tracker.Begin(sessionID, OpRebalancing); err != nil {
		return nil, err
	}
	defer s.tracker.FailIfLoading(sessionID, OpRebalancing, MsgInterrupted)

	snap, err := s.store.Get(ctx, sessionID)
	if err != nil {
		s.tracker.Fail(sessionID, OpRebalancing, err.Error())
		return nil, err
	}

	selected := req.Selected
	if selected == nil {
		for _, cat := range snap.Portfolio.Categories() {
			selected = append(selected, cat.ID)
		}
	}

	totalValue := snap.Portfolio.TotalValue()
	result := s.rebalancer.Allocate(processors.RebalancingRequest{
		Portfolio:    snap.Portfolio,
		TotalValue:   totalValue,
		Contribution: req.Contribution,
		Selected:     selected,
	})

	resp := &RebalancingResponse{
		RebalancingResult: result,
		TotalValue:        totalValue,
		Contribution:      req.Contribution,
	}

	if result.Outcome != processors.OutcomeSuggested {
		if result.Outcome == processors.OutcomeNothingToCompute {
			s.tracker.Fail(sessionID, OpRebalancing, result.Message)
		} else {
			s.tracker.Succeed(sessionID, OpRebalancing, resp)
		}
		return resp, nil
	}

	clients, err := s.ai.AIClients(sessionID)
	if err != nil {
		log.Warn("AI clients unavailable for rebalancing advice", "error", err)
		resp.Warning = MsgAINotReady
		s.tracker.Succeed(sessionID, OpRebalancing, resp)
		return resp, nil
	}

	text, err := clients.Advice.RebalancingAdvice(ctx, AdviceRequest{
		Portfolio:             snap.Portfolio,
		Suggestions:           result.Suggestions,
		Contribution:          req.Contribution,
		SelectedCategoryNames: result.EligibleNames,
	})
	if err != nil {
		log.Error("Error fetching advice from Gemini", "error", err)
		resp.Warning = MsgAdviceFailed
	} else {
		n := RenderNarrative(text)
		resp.Advice = &n
	}

	s.tracker.Succeed(sessionID, OpRebalancing, resp)
	return resp, nil
}

// Evaluate validates the input, computes the valuation and asks for an
// analysis. An analysis failure keeps the figures and adds a warning.
func (s *PortfolioService) Evaluate(ctx context.Context, sessionID string, in models.ValuationInput) (*ValuationResponse, error) {
	log := logger.FromContext(ctx)

	in.Ticker = strings.ToUpper(strings.TrimSpace(in.Ticker))
	if err := validation.ValidateStruct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValuation, err)
	}
	if err := validation.ValidateTicker(in.Ticker, sessionID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValuation, err)
	}

	if err := s.tracker.Begin(sessionID, OpValuation); err != nil {
		return nil, err
	}
	defer s.tracker.FailIfLoading(sessionID, OpValuation, MsgInterrupted)

	resp := &ValuationResponse{ValuationResult: s.valuer.Evaluate(in)}

	clients, err := s.ai.AIClients(sessionID)
	if err != nil {
		log.Warn("AI clients unavailable for valuation analysis", "error", err)
		resp.Warning = MsgAINotReady
		s.tracker.Succeed(sessionID, OpValuation, resp)
		return resp, nil
	}

	text, err := clients.Advice.ValuationAnalysis(ctx, resp.ValuationResult)
	if err != nil {
		log.Error("Error during valuation analysis", "ticker", in.Ticker, "error", err)
		resp.Warning = MsgAnalysisFailed
	} else {
		n := RenderNarrative(text)
		resp.Analysis = &n
	}

	s.tracker.Succeed(sessionID, OpValuation, resp)
	return resp, nil
}

func (s *PortfolioService) parserFor(sessionID string, source parsers.Source) (parsers.PortfolioParser, error) {
	reg := parsers.Registry{parsers.SourceCSV: s.csvParser}
	if clients, err := s.ai.AIClients(sessionID); err == nil {
		reg[parsers.SourceAI] = clients.Parser
	} else if source == parsers.SourceAI {
		return nil, ErrAINotReady
	}
	return reg.Get(source)
}

// Update parses text, rebuilds the portfolio from the parsed assets and
// replaces the snapshot. On any error the previous snapshot is kept.
func (s *PortfolioService) Update(ctx context.Context, sessionID string, req UpdateRequest) (*UpdateResponse, error) {
	log := logger.FromContext(ctx)

	if req.Source == "" {
		req.Source = parsers.SourceAI
	}
	if err := validation.ValidatePasteLength(req.Text, s.maxPasteLength); err != nil {
		return nil, err
	}
	text := validation.SanitizePastedText(req.Text)
	if text == "" {
		return nil, ErrEmptyPortfolioText
	}

	parser, err := s.parserFor(sessionID, req.Source)
	if err != nil {
		return nil, err
	}

	if err := s.tracker.Begin(sessionID, OpPortfolioUpdate); err != nil {
		return nil, err
	}
	defer s.tracker.FailIfLoading(sessionID, OpPortfolioUpdate, MsgInterrupted)

	resp, err := s.update(ctx, sessionID, req.Source, parser, text)
	if err != nil {
		portfolioUpdatesTotal.WithLabelValues(string(req.Source), "error").Inc()
		s.tracker.Fail(sessionID, OpPortfolioUpdate, userMessage(err))
		log.Warn("Portfolio update failed", "source", req.Source, "error", err)
		return nil, err
	}

	portfolioUpdatesTotal.WithLabelValues(string(req.Source), "success").Inc()
	s.tracker.Succeed(sessionID, OpPortfolioUpdate, resp)
	return resp, nil
}

func (s *PortfolioService) update(ctx context.Context, sessionID string, source parsers.Source, parser parsers.PortfolioParser, text string) (*UpdateResponse, error) {
	parsed, err := parser.Parse(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	current, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	rebuilt, err := s.reconstructor.Reconstruct(parsed, current.Portfolio)
	if err != nil {
		return nil, err
	}
	droppedAssetsTotal.Add(float64(len(rebuilt.Dropped)))

	snap, err := s.store.Replace(ctx, sessionID, rebuilt.Portfolio)
	if err != nil {
		return nil, err
	}

	s.recordUpdate(ctx, sessionID, string(source), snap, rebuilt)
	logger.FromContext(ctx).Info("Portfolio updated", "source", source, "version", snap.Version, "accepted", rebuilt.Accepted, "dropped", len(rebuilt.Dropped))

	return &UpdateResponse{
		Portfolio: models.NewPortfolioView(snap.Portfolio, snap.Version),
		Accepted:  rebuilt.Accepted,
		Dropped:   rebuilt.Dropped,
	}, nil
}

// recordUpdate appends a history row. History is best effort.
func (s *PortfolioService) recordUpdate(ctx context.Context, sessionID, source string, snap *Snapshot, rebuilt *processors.ReconstructionResult) {
	if s.db == nil {
		return
	}
	u := &model.PortfolioUpdate{
		SessionID:  sessionID,
		Source:     source,
		Version:    snap.Version,
		TotalValue: snap.Portfolio.TotalValue(),
		CreatedAt:  s.now().UTC(),
	}
	if rebuilt != nil {
		u.AcceptedCount = rebuilt.Accepted
		u.DroppedCount = len(rebuilt.Dropped)
	} else {
		for _, cat := range snap.Portfolio {
			u.AcceptedCount += len(cat.Assets)
		}
	}
	if err := u.Insert(s.db); err != nil {
		logger.FromContext(ctx).Warn("Failed to record portfolio update", "error", err)
	}
}

func (s *PortfolioService) Updates(ctx context.Context, sessionID string) ([]model.PortfolioUpdate, error) {
	if s.db == nil {
		return []model.PortfolioUpdate{}, nil
	}
	return model.GetPortfolioUpdates(s.db, sessionID, updateHistoryLimit)
}

// userMessage maps an operation error to the text shown to the user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, processors.ErrNoAssetsParsed):
		return MsgNoAssetsParsed
	case errors.Is(err, ErrAINotReady):
		return MsgAINotReady
	case errors.Is(err, ErrEmptyPortfolioText):
		return MsgEmptyPortfolioText
	case errors.Is(err, ErrOperationInProgress):
		return MsgOperationInProgress
	default:
		return MsgParseFailed
	}
}
