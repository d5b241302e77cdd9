// Package gemini parses free-form portfolio text with a Gemini model constrained
// to a JSON response schema.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/username/carteira/backend/src/models"
	"github.com/username/carteira/backend/src/parsers"
	"google.golang.org/genai"
)

// Generator issues one generateContent call and returns the response text.
type Generator interface {
	Generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
}

// Parser implements parsers.PortfolioParser on top of a Generator.
type Parser struct {
	gen Generator
}

func NewParser(gen Generator) *Parser {
	return &Parser{gen: gen}
}

// Parse asks the model to extract assets from text and validates its answer.
func (p *Parser) Parse(ctx context.Context, text string) ([]models.SimplifiedAsset, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   ResponseSchema(),
	}

	raw, err := p.gen.Generate(ctx, BuildPrompt(text), config)
	if err != nil {
		return nil, fmt.Errorf("gemini parser: %w", err)
	}
	return parsers.DecodeAssets(raw)
}

func categoryList() string {
	ids := make([]string, len(models.CategoryOrder))
	for i, id := range models.CategoryOrder {
		ids[i] = string(id)
	}
	return strings.Join(ids, ", ")
}

// BuildPrompt renders the extraction prompt around the user's text.
func BuildPrompt(text string) string {
	return fmt.Sprintf(`
Você é um assistente inteligente de finanças. Sua tarefa é extrair informações de ativos financeiros de um texto não estruturado e retorná-las em um formato JSON.

O texto a seguir contém uma lista de ativos de uma carteira de investimentos:
---
%s
---

Analise o texto e para cada ativo, extraia as seguintes informações:
1.  'ticker': O código do ativo (ex: "PETR4", "BTC", "VOO").
2.  'quantity': A quantidade de cotas ou unidades.
3.  'avgPrice': O preço médio de compra.
4.  'currentPrice': O preço atual de mercado do ativo.
5.  'category': A categoria do ativo. Deve ser OBRIGATORIAMENTE uma das seguintes opções: %s. Use o bom senso para classificar (ex: PETR4 é 'stocks', KISU11 é 'fiis', BTC é 'crypto', VOO é 'etfsInt').
6. 'currency': A moeda do ativo, deve ser 'BRL' ou 'USD'. Se não for especificado, assuma 'BRL' para ativos brasileiros e 'USD' para ativos internacionais.

Retorne o resultado como um array de objetos JSON, seguindo estritamente o schema fornecido.
`, text, categoryList())
}

// ResponseSchema is the array-of-assets schema the model must follow.
func ResponseSchema() *genai.Schema {
	asset := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"ticker":       {Type: genai.TypeString, Description: "O código de negociação do ativo. Ex: PETR4, BTC, VOO."},
			"quantity":     {Type: genai.TypeNumber, Description: "A quantidade de cotas ou unidades do ativo."},
			"avgPrice":     {Type: genai.TypeNumber, Description: "O preço médio de compra do ativo."},
			"currentPrice": {Type: genai.TypeNumber, Description: "O preço atual de mercado do ativo."},
			"category":     {Type: genai.TypeString, Description: "A categoria do ativo. Deve ser uma das seguintes: " + categoryList() + "."},
			"currency":     {Type: genai.TypeString, Description: "A moeda do ativo, BRL ou USD.", Enum: []string{string(models.CurrencyBRL), string(models.CurrencyUSD)}},
		},
		Required:         []string{"ticker", "quantity", "avgPrice", "currentPrice", "category", "currency"},
		PropertyOrdering: []string{"ticker", "quantity", "avgPrice", "currentPrice", "category", "currency"},
	}
	return &genai.Schema{Type: genai.TypeArray, Items: asset}
}
