package rates

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RateSet maps quote currency codes to rates against a single base.
type RateSet map[string]float64

// Currency describes a currency offered to clients.
type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Flag   string `json:"flag"`
}

// SupportedCurrencies lists the currencies a sender can pick.
var SupportedCurrencies = []Currency{
	{Code: "USD", Name: "US Dollar", Symbol: "$", Flag: "🇺🇸"},
	{Code: "EUR", Name: "Euro", Symbol: "€", Flag: "🇪🇺"},
	{Code: "GBP", Name: "British Pound", Symbol: "£", Flag: "🇬🇧"},
	{Code: "INR", Name: "Indian Rupee", Symbol: "₹", Flag: "🇮🇳"},
	{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$", Flag: "🇨🇦"},
	{Code: "AUD", Name: "Australian Dollar", Symbol: "A$", Flag: "🇦🇺"},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥", Flag: "🇯🇵"},
}

// AllowList is the set of quote currencies kept from live responses.
var AllowList = []string{"USD", "EUR", "GBP", "INR", "CAD", "AUD", "JPY", "NGN", "KES", "PHP"}

// NormalizeCode upper-cases and trims a currency code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Round rounds v half away from zero to places decimals.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Convert multiplies amount by rate and rounds to cents.
func Convert(amount, rate float64) float64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(rate)).Round(2).InexactFloat64()
}

func filter(set RateSet, allow []string) RateSet {
	out := make(RateSet, len(allow))
	for _, code := range allow {
		if r, ok := set[code]; ok && r > 0 {
			out[code] = r
		}
	}
	return out
}
