package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/username/carteira/backend/src/models"
	"github.com/username/carteira/backend/src/parsers"
	"github.com/username/carteira/backend/src/parsers/gemini"
	"github.com/username/carteira/backend/src/utils"
	"google.golang.org/genai"
)

// MsgAINotReady is shown when a session has no usable API key.
const MsgAINotReady = "A chave de API do Gemini não foi configurada. Por favor, atualize a página e insira sua chave para usar os recursos de IA."

var (
	ErrAINotReady      = errors.New("ai client not configured")
	ErrAIRequestFailed = errors.New("ai request failed")
)

// AIConfig is everything a session needs to reach Gemini.
type AIConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// AdviceRequest is the context sent with a rebalancing narrative request.
type AdviceRequest struct {
	Portfolio             models.Portfolio
	Suggestions           []models.RebalancingSuggestion
	Contribution          float64
	SelectedCategoryNames []string
}

// AdviceGateway produces narrative text. Failures never affect numeric results.
type AdviceGateway interface {
	RebalancingAdvice(ctx context.Context, req AdviceRequest) (string, error)
	ValuationAnalysis(ctx context.Context, result models.ValuationResult) (string, error)
}

// AIClients bundles the model-backed capabilities of one session.
type AIClients struct {
	Advice AdviceGateway
	Parser parsers.PortfolioParser
}

// AIFactory builds the clients of a session from its configuration.
type AIFactory func(ctx context.Context, cfg AIConfig) (*AIClients, error)

// GeminiClient is a gemini.Generator backed by the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, cfg AIConfig) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrAINotReady
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClient{client: client, model: cfg.Model}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAIRequestFailed, err)
	}
	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty response", ErrAIRequestFailed)
	}
	return text, nil
}

// NewGeminiAIClients is the production AIFactory.
func NewGeminiAIClients(ctx context.Context, cfg AIConfig) (*AIClients, error) {
	client, err := NewGeminiClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &AIClients{
		Advice: NewAdvisor(client),
		Parser: gemini.NewParser(withMetrics(client, "parse_portfolio")),
	}, nil
}

// Advisor implements AdviceGateway with plain-text prompts.
type Advisor struct {
	rebalancing gemini.Generator
	valuation   gemini.Generator
}

func NewAdvisor(gen gemini.Generator) *Advisor {
	return &Advisor{
		rebalancing: withMetrics(gen, "rebalancing_advice"),
		valuation:   withMetrics(gen, "valuation_analysis"),
	}
}

func (a *Advisor) RebalancingAdvice(ctx context.Context, req AdviceRequest) (string, error) {
	text, err := a.rebalancing.Generate(ctx, BuildRebalancingPrompt(req), nil)
	if err != nil {
		return "", fmt.Errorf("rebalancing advice: %w", err)
	}
	return text, nil
}

func (a *Advisor) ValuationAnalysis(ctx context.Context, result models.ValuationResult) (string, error) {
	text, err := a.valuation.Generate(ctx, BuildValuationPrompt(result), nil)
	if err != nil {
		return "", fmt.Errorf("valuation analysis: %w", err)
	}
	return text, nil
}

func formatPortfolioForPrompt(p models.Portfolio) string {
	lines := make([]string, 0, len(p))
	for _, cat := range p.Categories() {
		lines = append(lines, fmt.Sprintf("- %s: Valor Atual: %s, Alocação Meta: %s%%",
			cat.Name, utils.FormatBRL(cat.TotalValue), trimNumber(cat.TargetAllocation)))
	}
	return strings.Join(lines, "\n")
}

func formatSuggestionsForPrompt(suggestions []models.RebalancingSuggestion) string {
	if len(suggestions) == 0 {
		return "Nenhum aporte sugerido para as categorias selecionadas."
	}
	lines := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		lines = append(lines, fmt.Sprintf("- %s: Investir %s", s.CategoryName, utils.FormatBRL(s.AmountToInvest)))
	}
	return strings.Join(lines, "\n")
}

// trimNumber prints 10 as "10" and 12.5 as "12.5".
func trimNumber(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(utils.FormatFixed(v), "0"), ".")
}

// BuildRebalancingPrompt renders the advice prompt. The focus paragraph only
// appears when the user picked a subset of the categories.
func BuildRebalancingPrompt(req AdviceRequest) string {
	selectionContext := ""
	if len(req.SelectedCategoryNames) != len(req.Portfolio) {
		selectionContext = fmt.Sprintf("\n**Foco do Aporte:**\nO usuário optou por considerar apenas as seguintes categorias para o aporte deste mês: %s.\n",
			strings.Join(req.SelectedCategoryNames, ", "))
	}

	return fmt.Sprintf(`
Como um consultor de investimentos experiente, analise a seguinte situação e forneça um conselho conciso e encorajador em português do Brasil.

**Situação da Carteira:**
%s
%s
**Aporte Mensal:** %s

**Plano de Investimento Sugerido para este mês (com base na seleção do usuário):**
%s

**Sua Tarefa:**
Escreva uma breve análise (2-3 parágrafos) que:
1.  Explique de forma simples por que este plano de investimento (focado nas categorias selecionadas, se for o caso) ajuda o usuário a atingir seus objetivos de alocação.
2.  Reforce a importância da disciplina e da estratégia de rebalanceamento a longo prazo.
3.  Mantenha um tom profissional, positivo e motivador.
4.  NÃO use formatação markdown como títulos (#), negrito (**) ou itálico (*). Use apenas quebras de linha.
`, formatPortfolioForPrompt(req.Portfolio), selectionContext, utils.FormatBRL(req.Contribution), formatSuggestionsForPrompt(req.Suggestions))
}

// BuildValuationPrompt renders the valuation report prompt.
func BuildValuationPrompt(r models.ValuationResult) string {
	ticker := strings.ToUpper(r.Ticker)
	bazin := utils.FormatBRL(r.BazinPrice)
	graham := utils.FormatBRL(r.GrahamPrice)
	mos := utils.FormatPercent(r.MarginOfSafety)
	pl := utils.FormatFixed(r.PriceToEarnings)
	roe := utils.FormatFixed(r.ROE) + "%"

	return fmt.Sprintf(`
Você é um analista de investimentos fundamentalista, com foco em valor (Value Investing). Sua tarefa é analisar os dados de uma ação fornecida pelo usuário e gerar um relatório claro e objetivo em português do Brasil.

**Dados do Ativo:**
- Ticker: %[1]s
- Preço Atual: %[2]s

**Análise de Valuation:**
- Preço Teto (Método Bazin): %[3]s
- Preço Justo (Valor Intrínseco - Método Graham): %[4]s
- Margem de Segurança (Baseado em Graham): %[5]s

**Indicadores Fundamentalistas:**
- P/L (Preço/Lucro): %[6]s
- ROE (Retorno sobre o Patrimônio Líquido): %[7]s

**Seu Relatório de Análise:**

Baseado nos dados fornecidos, estruture sua análise da seguinte forma, sem usar markdown (sem #, **, *).

1.  **Valuation e Preço:**
    - Comente sobre o Preço Teto de Bazin. Explique o que o resultado de %[3]s significa para um investidor focado em dividendos, comparando-o com o preço atual.
    - Comente sobre o Preço Justo de Graham. Explique o que o valor intrínseco de %[4]s sugere sobre a ação estar potencialmente subvalorizada ou sobrevalorizada.
    - Analise a Margem de Segurança. Explique se a margem de %[5]s é considerada atrativa ou arriscada segundo os princípios do Value Investing.

2.  **Qualidade e Rentabilidade:**
    - Analise o P/L de %[6]s. Comente se ele sugere que a ação está "cara" ou "barata" em relação aos seus lucros e o que isso pode indicar sobre as expectativas do mercado.
    - Analise o ROE de %[7]s. Explique se este é um bom indicador da eficiência e rentabilidade da empresa.

3.  **Conclusão da Análise:**
    - Forneça um parágrafo de resumo que consolide a análise. Conclua se, com base estritamente nos números fornecidos, a ação %[1]s parece ser uma oportunidade interessante de investimento no momento, destacando os pontos mais fortes e os pontos de atenção.

**Importante:**
- Mantenha um tom neutro, educativo e profissional.
- Finalize o relatório com o seguinte aviso obrigatório em uma nova linha: 'Lembre-se: Esta é uma análise baseada em dados e não constitui uma recomendação de compra ou venda. Faça sua própria pesquisa.'
`, ticker, utils.FormatBRL(r.CurrentPrice), bazin, graham, mos, pl, roe)
}
