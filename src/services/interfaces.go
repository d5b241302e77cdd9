package services

import (
	"context"
	"errors"

	"github.com/username/carteira/backend/src/model"
	"github.com/username/carteira/backend/src/models"
	"github.com/username/carteira/backend/src/parsers"
	"github.com/username/carteira/backend/src/processors"
)

// User-facing messages.
const (
	MsgAdviceFailed        = "Não foi possível obter a sugestão da IA. Por favor, tente novamente."
	MsgAnalysisFailed      = "Ocorreu um erro ao gerar a análise. Tente novamente."
	MsgValuationInput      = "Por favor, preencha o Ticker do Ativo e o Preço Atual."
	MsgEmptyPortfolioText  = "Por favor, cole os dados da sua carteira."
	MsgParseFailed         = "Ocorreu um erro ao analisar os dados. Verifique o formato e tente novamente."
	MsgNoAssetsParsed      = "A IA não conseguiu extrair nenhum ativo do texto fornecido. Tente formatar os dados de forma mais clara, como no exemplo."
	MsgOperationInProgress = "Uma solicitação igual já está em andamento. Aguarde a conclusão."
	MsgInterrupted         = "A operação foi interrompida. Tente novamente."
)

var (
	ErrEmptyPortfolioText = errors.New("portfolio text is empty")
	ErrInvalidValuation   = errors.New("invalid valuation input")
	ErrParseFailed        = errors.New("portfolio parsing failed")
)

// AIClientSource resolves the AI clients of a session.
type AIClientSource interface {
	AIClients(sessionID string) (*AIClients, error)
}

// RebalancingRequest is a contribution split request. A nil Selected means
// every category of the portfolio.
type RebalancingRequest struct {
	Contribution float64
	Selected     []models.CategoryID
}

// RebalancingResponse carries the allocation and, when available, the narrative.
type RebalancingResponse struct {
	processors.RebalancingResult
	TotalValue   float64    `json:"totalValue"`
	Contribution float64    `json:"contribution"`
	Advice       *Narrative `json:"advice,omitempty"`
	Warning      string     `json:"warning,omitempty"`
}

// ValuationResponse carries the computed figures and, when available, the analysis.
type ValuationResponse struct {
	models.ValuationResult
	Analysis *Narrative `json:"analysis,omitempty"`
	Warning  string     `json:"warning,omitempty"`
}

// UpdateRequest is raw portfolio text and the parser to read it with.
type UpdateRequest struct {
	Text   string
	Source parsers.Source
}

// UpdateResponse is the portfolio after a successful update.
type UpdateResponse struct {
	Portfolio models.PortfolioView  `json:"portfolio"`
	Accepted  int                   `json:"accepted"`
	Dropped   []models.DroppedAsset `json:"dropped"`
}

// PortfolioManager is the portfolio API the HTTP layer depends on.
type PortfolioManager interface {
	GetPortfolio(ctx context.Context, sessionID string) (*Snapshot, error)
	Reset(ctx context.Context, sessionID string) (*Snapshot, error)
	Rebalance(ctx context.Context, sessionID string, req RebalancingRequest) (*RebalancingResponse, error)
	Evaluate(ctx context.Context, sessionID string, in models.ValuationInput) (*ValuationResponse, error)
	Update(ctx context.Context, sessionID string, req UpdateRequest) (*UpdateResponse, error)
	Updates(ctx context.Context, sessionID string) ([]model.PortfolioUpdate, error)
	OperationStates(sessionID string) map[Operation]OperationState
}

// SessionManager is the session API the HTTP layer depends on.
type SessionManager interface {
	Create(ctx context.Context, apiKey string) (*SessionToken, error)
	Authenticate(ctx context.Context, token string) (string, error)
	End(ctx context.Context, sessionID string) error
}
