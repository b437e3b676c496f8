// Package money formatea montos decimal.Decimal en la moneda configurada.
package money

import (
	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Format muestra amount con símbolo y separadores de la moneda (ej. COP "$1.234,50", BRL "R$1.234,50").
// Monedas desconocidas se muestran con 2 decimales y el código al final.
func Format(amount decimal.Decimal, currency string) string {
	cur := gomoney.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}
