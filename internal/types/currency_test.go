package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundToCurrencyPrecision(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		expected string
	}{
		{name: "USD_TwoDecimals", amount: "10.275", currency: "usd", expected: "10.28"},
		{name: "EUR_TwoDecimals", amount: "10.274", currency: "eur", expected: "10.27"},
		{name: "INR_TwoDecimals", amount: "100.556", currency: "inr", expected: "100.56"},
		{name: "JPY_NoDecimals", amount: "1000.5", currency: "jpy", expected: "1001"},
		{name: "KRW_NoDecimals", amount: "1000.4", currency: "krw", expected: "1000"},
		{name: "VND_NoDecimals", amount: "99.5", currency: "vnd", expected: "100"},
		{name: "HalfRoundsUp", amount: "10.125", currency: "usd", expected: "10.13"},
		{name: "Negative_HalfAwayFromZero", amount: "-10.125", currency: "usd", expected: "-10.13"},
		{name: "Negative_BelowHalfTruncates", amount: "-10.124", currency: "usd", expected: "-10.12"},
		{name: "RepeatingThird", amount: "0.333333333", currency: "usd", expected: "0.33"},
		{name: "RepeatingTwoThirds", amount: "666.666666", currency: "jpy", expected: "667"},
		{name: "LargeAmount", amount: "999999999.999", currency: "usd", expected: "1000000000.00"},
		{name: "UnknownCurrencyDefaultsToTwo", amount: "5.555", currency: "xxx", expected: "5.56"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rounded := RoundToCurrencyPrecision(decimal.RequireFromString(tt.amount), tt.currency)
			assert.True(t, rounded.Equal(decimal.RequireFromString(tt.expected)),
				"%s %s: expected %s, got %s", tt.currency, tt.amount, tt.expected, rounded)
		})
	}

	t.Run("Idempotent", func(t *testing.T) {
		amount := decimal.RequireFromString("10.27")
		once := RoundToCurrencyPrecision(amount, "usd")
		twice := RoundToCurrencyPrecision(once, "usd")
		assert.True(t, once.Equal(twice))
		assert.True(t, once.Equal(amount))
	})

	t.Run("Zero", func(t *testing.T) {
		for _, currency := range []string{"usd", "jpy", "xxx"} {
			assert.True(t, RoundToCurrencyPrecision(decimal.Zero, currency).IsZero(), currency)
		}
	})
}

func TestFormatAmountToStringWithPrecision(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		expected string
	}{
		{"1234.5", "usd", "1234.50"},
		{"1234.5", "jpy", "1235"},
		{"0", "usd", "0.00"},
		{"84.746", "usd", "84.75"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected,
			FormatAmountToStringWithPrecision(decimal.RequireFromString(tt.amount), tt.currency),
			"%s %s", tt.currency, tt.amount)
	}
}

func TestCurrencyConfig(t *testing.T) {
	t.Run("ZeroDecimalCurrencies", func(t *testing.T) {
		for _, currency := range []string{"jpy", "krw", "vnd", "clp"} {
			assert.Equal(t, int32(0), GetCurrencyPrecision(currency), currency)
		}
	})

	t.Run("UnknownCurrencyFallsBack", func(t *testing.T) {
		assert.Equal(t, int32(DEFAULT_PRECISION), GetCurrencyPrecision("xxx"))
		assert.Equal(t, "XXX", GetCurrencySymbol("xxx"))
	})

	t.Run("Symbols", func(t *testing.T) {
		assert.Equal(t, "$", GetCurrencySymbol("usd"))
		assert.Equal(t, "€", GetCurrencySymbol("eur"))
		assert.Equal(t, "₹", GetCurrencySymbol("INR"), "lookup is case-insensitive")
	})
}

func TestValidateCurrencyCode(t *testing.T) {
	assert.NoError(t, ValidateCurrencyCode("usd"))
	assert.NoError(t, ValidateCurrencyCode("JPY"))
	assert.Error(t, ValidateCurrencyCode(""))
	assert.Error(t, ValidateCurrencyCode("bitcoin"))
}
