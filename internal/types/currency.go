package types

import (
	"strings"

	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/shopspring/decimal"
)

// DEFAULT_PRECISION is used for currencies missing from the config table.
const DEFAULT_PRECISION = 2

// CurrencyConfig holds the display and rounding rules for a currency.
type CurrencyConfig struct {
	Precision int32
	Symbol    string
}

var currencyConfigs = map[string]CurrencyConfig{
	"usd": {Precision: 2, Symbol: "$"},
	"eur": {Precision: 2, Symbol: "€"},
	"gbp": {Precision: 2, Symbol: "£"},
	"aud": {Precision: 2, Symbol: "A$"},
	"cad": {Precision: 2, Symbol: "C$"},
	"inr": {Precision: 2, Symbol: "₹"},
	"idr": {Precision: 2, Symbol: "Rp"},
	"sgd": {Precision: 2, Symbol: "S$"},
	"thb": {Precision: 2, Symbol: "฿"},
	"myr": {Precision: 2, Symbol: "RM"},
	"php": {Precision: 2, Symbol: "₱"},
	"hkd": {Precision: 2, Symbol: "HK$"},
	"nzd": {Precision: 2, Symbol: "NZ$"},
	"brl": {Precision: 2, Symbol: "R$"},
	"chf": {Precision: 2, Symbol: "CHF"},
	"cny": {Precision: 2, Symbol: "¥"},
	"czk": {Precision: 2, Symbol: "Kč"},
	"dkk": {Precision: 2, Symbol: "kr"},
	"huf": {Precision: 2, Symbol: "Ft"},
	"ils": {Precision: 2, Symbol: "₪"},
	"mxn": {Precision: 2, Symbol: "MX$"},
	"nok": {Precision: 2, Symbol: "kr"},
	"pln": {Precision: 2, Symbol: "zł"},
	"ron": {Precision: 2, Symbol: "lei"},
	"rub": {Precision: 2, Symbol: "₽"},
	"sar": {Precision: 2, Symbol: "SR"},
	"sek": {Precision: 2, Symbol: "kr"},
	"try": {Precision: 2, Symbol: "₺"},
	"twd": {Precision: 2, Symbol: "NT$"},
	"zar": {Precision: 2, Symbol: "R"},
	"jpy": {Precision: 0, Symbol: "¥"},
	"krw": {Precision: 0, Symbol: "₩"},
	"vnd": {Precision: 0, Symbol: "₫"},
	"clp": {Precision: 0, Symbol: "CLP"},
}

// GetCurrencyConfig returns the config for a currency code, falling back to
// the default precision with the uppercased code as symbol.
func GetCurrencyConfig(currency string) CurrencyConfig {
	if config, ok := currencyConfigs[strings.ToLower(currency)]; ok {
		return config
	}
	return CurrencyConfig{Precision: DEFAULT_PRECISION, Symbol: strings.ToUpper(currency)}
}

func GetCurrencyPrecision(currency string) int32 {
	return GetCurrencyConfig(currency).Precision
}

func GetCurrencySymbol(currency string) string {
	return GetCurrencyConfig(currency).Symbol
}

// IsSupportedCurrency reports whether the code is in the configured set.
func IsSupportedCurrency(currency string) bool {
	_, ok := currencyConfigs[strings.ToLower(currency)]
	return ok
}

func ValidateCurrencyCode(currency string) error {
	if !IsSupportedCurrency(currency) {
		return ierr.NewError("unsupported currency code").
			WithHintf("Currency %q is not supported", currency).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// RoundToCurrencyPrecision rounds an amount to the currency's precision using
// round half away from zero. Amounts are kept unrounded through intermediate
// arithmetic and rounded exactly once, here, at persistence or display time.
func RoundToCurrencyPrecision(amount decimal.Decimal, currency string) decimal.Decimal {
	return amount.Round(GetCurrencyPrecision(currency))
}

// FormatAmountToStringWithPrecision renders an amount at currency precision,
// ex: FormatAmountToStringWithPrecision(d(1234.5), "usd") -> "1234.50".
func FormatAmountToStringWithPrecision(amount decimal.Decimal, currency string) string {
	return amount.StringFixed(GetCurrencyPrecision(currency))
}
