// Package csvimport parses portfolio spreadsheets exported as CSV, the
// deterministic alternative to the model-backed parser.
package csvimport

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/username/carteira/backend/src/logger"
	"github.com/username/carteira/backend/src/models"
	"github.com/username/carteira/backend/src/security/validation"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrMissingColumns is returned when the header lacks a required column.
var ErrMissingColumns = errors.New("csv header is missing required columns")

// maxNumericValue bounds every numeric cell.
const maxNumericValue = 1e12

// dotThousands matches BR-grouped integers such as "1.000" or "1.234.567".
// A leading zero group ("0.125") stays a decimal.
var dotThousands = regexp.MustCompile(`^-?[1-9]\d{0,2}(\.\d{3})+$`)

type column int

const (
	colTicker column = iota
	colQuantity
	colAvgPrice
	colCurrentPrice
	colCategory
	colCurrency
)

// headerAliases maps normalized header names to columns. Normalization lowercases,
// strips accents and drops anything that is not a letter or digit.
var headerAliases = map[string]column{
	"ticker": colTicker, "ativo": colTicker, "codigo": colTicker, "papel": colTicker,
	"quantity": colQuantity, "quantidade": colQuantity, "qtd": colQuantity, "qtde": colQuantity,
	"avgprice": colAvgPrice, "precomedio": colAvgPrice, "pm": colAvgPrice,
	"currentprice": colCurrentPrice, "precoatual": colCurrentPrice, "cotacao": colCurrentPrice, "preco": colCurrentPrice,
	"category": colCategory, "categoria": colCategory, "classe": colCategory, "tipo": colCategory,
	"currency": colCurrency, "moeda": colCurrency,
}

var requiredColumns = []column{colTicker, colQuantity, colAvgPrice, colCurrentPrice, colCategory}

// categoryAliases maps normalized category labels to category ids.
var categoryAliases = map[string]models.CategoryID{
	"stocks": models.CategoryStocks, "acoes": models.CategoryStocks, "acao": models.CategoryStocks,
	"fiis": models.CategoryFIIs, "fii": models.CategoryFIIs, "fundosimobiliarios": models.CategoryFIIs,
	"crypto": models.CategoryCrypto, "cripto": models.CategoryCrypto, "criptomoedas": models.CategoryCrypto, "criptomoeda": models.CategoryCrypto,
	"etfs": models.CategoryETFs, "etf": models.CategoryETFs, "etfsnacionais": models.CategoryETFs,
	"etfsint": models.CategoryETFsInt, "etfsinternacionais": models.CategoryETFsInt, "etfinternacional": models.CategoryETFsInt,
	"treasury": models.CategoryTreasury, "tesouro": models.CategoryTreasury, "tesourodireto": models.CategoryTreasury,
	"fixedincome": models.CategoryFixedIncome, "rendafixa": models.CategoryFixedIncome,
}

// Parser reads CSV with a header row. Both "," and ";" separators are accepted,
// and numbers may use a decimal comma ("1.234,56").
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse implements parsers.PortfolioParser.
func (p *Parser) Parse(ctx context.Context, text string) ([]models.SimplifiedAsset, error) {
	return p.ParseReader(ctx, strings.NewReader(text))
}

// ParseReader parses CSV from r. Rows with unreadable cells are skipped and logged;
// the category is passed through untouched when it matches no alias so that
// reconstruction can report it as dropped.
func (p *Parser) ParseReader(ctx context.Context, r io.Reader) ([]models.SimplifiedAsset, error) {
	log := logger.FromContext(ctx)

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("csv parser: failed to read input: %w", err)
	}
	text := strings.TrimPrefix(string(content), "\ufeff")

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = detectSeparator(text)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("csv parser: failed to read CSV header: %w", err)
	}

	index, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv parser: failed to read all CSV records: %w", err)
	}

	var assets []models.SimplifiedAsset
	for i, record := range records {
		line := i + 2
		if isBlank(record) {
			continue
		}
		asset, err := toAsset(record, index)
		if err != nil {
			log.Warn("CSV parser: skipping row", "line", line, "error", err)
			continue
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

// detectSeparator picks ";" when the first line has more semicolons than commas.
func detectSeparator(text string) rune {
	first, _, _ := strings.Cut(text, "\n")
	if strings.Count(first, ";") > strings.Count(first, ",") {
		return ';'
	}
	return ','
}

func mapHeader(header []string) (map[column]int, error) {
	index := make(map[column]int)
	for i, h := range header {
		if c, ok := headerAliases[normalizeKey(h)]; ok {
			if _, seen := index[c]; !seen {
				index[c] = i
			}
		}
	}

	var missing []string
	names := []string{"ticker", "quantity", "avgPrice", "currentPrice", "category"}
	for i, c := range requiredColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, names[i])
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return index, nil
}

func cell(record []string, index map[column]int, c column) string {
	i, ok := index[c]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(strings.Trim(record[i], "\""))
}

func toAsset(record []string, index map[column]int) (models.SimplifiedAsset, error) {
	ticker := cell(record, index, colTicker)
	if err := validation.ValidateTicker(ticker, "csv"); err != nil {
		return models.SimplifiedAsset{}, err
	}

	quantity, err := parseNumber(cell(record, index, colQuantity), "quantity")
	if err != nil {
		return models.SimplifiedAsset{}, err
	}
	avgPrice, err := parseNumber(cell(record, index, colAvgPrice), "avgPrice")
	if err != nil {
		return models.SimplifiedAsset{}, err
	}
	currentPrice, err := parseNumber(cell(record, index, colCurrentPrice), "currentPrice")
	if err != nil {
		return models.SimplifiedAsset{}, err
	}

	asset := models.SimplifiedAsset{
		Ticker:       ticker,
		Quantity:     quantity,
		AvgPrice:     avgPrice,
		CurrentPrice: currentPrice,
		Category:     normalizeCategory(cell(record, index, colCategory)),
		Currency:     normalizeCurrency(cell(record, index, colCurrency)),
	}
	if err := validation.ValidateStruct(asset); err != nil {
		return models.SimplifiedAsset{}, err
	}
	return asset, nil
}

func parseNumber(s, field string) (float64, error) {
	return validation.ValidateFloatString(normalizeDecimalString(s), field, false, 0, maxNumericValue)
}

// normalizeDecimalString turns locale-formatted numbers into Go syntax. The last
// of "." or "," is the decimal separator when both appear and a lone "," is
// always decimal. Dots alone are thousands separators when every group after
// the first has three digits. Currency symbols and spaces are removed.
func normalizeDecimalString(s string) string {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.Trim(cleaned, "\"")
	for _, sym := range []string{"R$", "US$", "$", "%", "\u00a0", " "} {
		cleaned = strings.ReplaceAll(cleaned, sym, "")
	}

	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case lastComma >= 0 && lastDot >= 0:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case lastComma >= 0:
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case dotThousands.MatchString(cleaned):
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}
	return cleaned
}

func normalizeCategory(s string) string {
	if id, ok := categoryAliases[normalizeKey(s)]; ok {
		return string(id)
	}
	return strings.TrimSpace(s)
}

func normalizeCurrency(s string) models.Currency {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "BRL", "R$", "REAL", "REAIS":
		return models.CurrencyBRL
	case "USD", "US$", "$", "DOLAR":
		return models.CurrencyUSD
	}
	// Left as-is so validation rejects the row.
	return models.Currency(strings.ToUpper(strings.TrimSpace(s)))
}

// normalizeKey lowercases s, strips diacritics and keeps only letters and digits.
func normalizeKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
