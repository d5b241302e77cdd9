// Package parsers turns user-supplied portfolio text into flat asset records.
package parsers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/username/carteira/backend/src/models"
	"github.com/username/carteira/backend/src/security/validation"
)

// Source names a parser implementation.
type Source string

const (
	SourceAI  Source = "ai"
	SourceCSV Source = "csv"
)

var (
	// ErrMalformedResponse means the parser output could not be decoded or failed validation.
	ErrMalformedResponse = errors.New("malformed parser response")
	// ErrUnknownSource is returned by a Registry for an unregistered source.
	ErrUnknownSource = errors.New("unknown parser source")
)

// PortfolioParser extracts assets from raw text. Implementations either return
// records that all pass validation or an error.
type PortfolioParser interface {
	Parse(ctx context.Context, text string) ([]models.SimplifiedAsset, error)
}

// ParserFunc adapts a function to PortfolioParser.
type ParserFunc func(ctx context.Context, text string) ([]models.SimplifiedAsset, error)

func (f ParserFunc) Parse(ctx context.Context, text string) ([]models.SimplifiedAsset, error) {
	return f(ctx, text)
}

// Registry maps sources to parsers.
type Registry map[Source]PortfolioParser

// Get returns the parser for source.
func (r Registry) Get(source Source) (PortfolioParser, error) {
	p, ok := r[source]
	if !ok || p == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
	return p, nil
}

// DecodeAssets decodes a JSON array of assets as produced by a language model.
// Code fences, trailing commas and similar defects are repaired first. Every
// record must pass validation, otherwise the whole payload is rejected.
func DecodeAssets(raw string) ([]models.SimplifiedAsset, error) {
	payload := strings.TrimSpace(raw)
	if payload == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	var assets []models.SimplifiedAsset
	if err := json.Unmarshal([]byte(payload), &assets); err != nil {
		repaired, repairErr := jsonrepair.RepairJSON(payload)
		if repairErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, repairErr)
		}
		assets = nil
		if err := json.Unmarshal([]byte(repaired), &assets); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}

	for i := range assets {
		assets[i].Ticker = strings.TrimSpace(assets[i].Ticker)
		assets[i].Currency = models.Currency(strings.ToUpper(string(assets[i].Currency)))
		if err := validation.ValidateStruct(assets[i]); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformedResponse, i, err)
		}
	}
	return assets, nil
}
