package currency

import (
	"github.com/shopspring/decimal"
)

// Static exchange rates, USD-pivoted: one USD buys rate units of the currency.
var usdRates = map[string]float64{
	"USD": 1,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 150.23,
	"CAD": 1.38,
	"AUD": 1.52,
}

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CAD": "CA$",
	"AUD": "A$",
}

// Money is an amount bound to its currency. Convert/ConvertMoney are the only
// way between currencies, so a display-currency figure can never be confused
// with the canonical USD one.
type Money struct {
	Amount   float64
	Currency string
}

func (m Money) String() string {
	return Format(m.Amount, m.Currency)
}

// rate returns the USD rate for code. Unknown codes silently fall back to 1,
// i.e. they are treated as USD.
func rate(code string) decimal.Decimal {
	if r, ok := usdRates[code]; ok {
		return decimal.NewFromFloat(r)
	}
	return decimal.NewFromInt(1)
}

// Convert pivots amount through USD and rounds half-up on the cent boundary.
// Identity when the currencies match.
func Convert(amount float64, fromCurrency, toCurrency string) float64 {
	if fromCurrency == toCurrency {
		return amount
	}
	converted := decimal.NewFromFloat(amount).
		Div(rate(fromCurrency)).
		Mul(rate(toCurrency)).
		Round(2)
	f, _ := converted.Float64()
	return f
}

func ConvertMoney(m Money, toCurrency string) Money {
	return Money{
		Amount:   Convert(m.Amount, m.Currency, toCurrency),
		Currency: toCurrency,
	}
}

// Format renders the amount with the currency symbol and two decimals.
// Unknown codes fall back to "$".
func Format(amount float64, code string) string {
	symbol, ok := symbols[code]
	if !ok {
		symbol = "$"
	}
	return symbol + decimal.NewFromFloat(amount).StringFixed(2)
}

// Rate exposes the static USD rate for a currency code (1 for unknown codes).
func Rate(code string) float64 {
	if r, ok := usdRates[code]; ok {
		return r
	}
	return 1
}

// Supported reports whether the code is part of the static rate table.
func Supported(code string) bool {
	_, ok := usdRates[code]
	return ok
}
