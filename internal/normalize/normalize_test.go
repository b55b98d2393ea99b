package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inex/internal/domain"
)

func TestDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"15/03/2024", "2024-03-15", true},
		{"15-03-2024", "2024-03-15", true},
		{"2024-03-15", "2024-03-15", true},
		{"March 15, 2024", "2024-03-15", true},
		{"not a date", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Date(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCurrency(t *testing.T) {
	amount, ok := Currency("EUR 1,250,000.00")
	require.True(t, ok)
	assert.Equal(t, domain.CurrencyAmount{Value: 1250000, Currency: "EUR"}, amount)

	amount, ok = Currency("USD 500.50")
	require.True(t, ok)
	assert.Equal(t, domain.CurrencyAmount{Value: 500.50, Currency: "USD"}, amount)

	_, ok = Currency("no money here")
	assert.False(t, ok)

	_, ok = Currency("1,000.00") // amount without a code
	assert.False(t, ok)
}

func TestNumber(t *testing.T) {
	n, ok := Number("1,234.56")
	require.True(t, ok)
	assert.Equal(t, 1234.56, n)

	n, ok = Number(" 42 ")
	require.True(t, ok)
	assert.Equal(t, 42.0, n)

	_, ok = Number("abc")
	assert.False(t, ok)
}

func TestText(t *testing.T) {
	assert.Equal(t, "Acme Corp Ltd", Text("ACME CORP LTD"))
	assert.Equal(t, "Mixed Case Stays", Text("Mixed Case Stays"))
	assert.Equal(t, "spaced out", Text("  spaced \t out  "))
	assert.Equal(t, "", Text("   "))
	// Digits-only values are left alone.
	assert.Equal(t, "12345", Text("12345"))
}

func TestValue_DegradesToRawString(t *testing.T) {
	v := Value("not a date", domain.ValueTypeDate)
	assert.Equal(t, domain.KindString, v.Kind())
	assert.Equal(t, "not a date", v.Str())

	v = Value("  padded  ", domain.ValueTypeString)
	assert.Equal(t, "padded", v.Str())

	v = Value("15/03/2024", domain.ValueTypeDate)
	assert.Equal(t, domain.KindDate, v.Kind())
	assert.Equal(t, "2024-03-15", v.Str())
}

func TestField_HeuristicSecondaryPass(t *testing.T) {
	t.Run("date_by_name", func(t *testing.T) {
		f := Field(domain.ExtractedField{
			FieldName:  "policy_period_start",
			Value:      domain.StringValue("15/03/2024"),
			Confidence: 0.8,
		})
		assert.Equal(t, domain.KindDate, f.Value.Kind())
		assert.Equal(t, "2024-03-15", f.Value.Str())
		assert.Equal(t, domain.ConfidenceMedium, f.ConfidenceLevel)
	})

	t.Run("currency_by_name", func(t *testing.T) {
		f := Field(domain.ExtractedField{
			FieldName: "coverage_amount",
			Value:     domain.StringValue("USD 100,000"),
		})
		assert.Equal(t, domain.KindCurrency, f.Value.Kind())
		assert.Equal(t, domain.CurrencyAmount{Value: 100000, Currency: "USD"}, f.Value.Currency())
	})

	t.Run("text_cleanup_default", func(t *testing.T) {
		f := Field(domain.ExtractedField{
			FieldName: "named_insured",
			Value:     domain.StringValue("ACME  CORP LTD"),
		})
		assert.Equal(t, "Acme Corp Ltd", f.Value.Str())
	})

	t.Run("typed_value_untouched", func(t *testing.T) {
		f := Field(domain.ExtractedField{
			FieldName: "launch_date",
			Value:     domain.DateValue("2024-03-15"),
		})
		assert.Equal(t, domain.KindDate, f.Value.Kind())
		assert.Equal(t, "2024-03-15", f.Value.Str())
	})
}
