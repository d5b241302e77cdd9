package utils

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders amount in the given ISO currency, e.g. "R$1.234,56".
// Unknown currencies fall back to a plain two-decimal number.
func FormatMoney(amount float64, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return FormatFixed(amount)
	}
	factor := decimal.New(1, int32(cur.Fraction))
	minor := decimal.NewFromFloat(amount).Mul(factor).Round(0).IntPart()
	return money.New(minor, currency).Display()
}

// FormatBRL is FormatMoney in reais.
func FormatBRL(amount float64) string {
	return FormatMoney(amount, money.BRL)
}

// FormatFixed renders v with exactly two decimals.
func FormatFixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatPercent renders a fraction as a percentage with two decimals, e.g. 0.397 -> "39.70%".
func FormatPercent(fraction float64) string {
	return decimal.NewFromFloat(fraction).Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}
