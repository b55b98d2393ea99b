// Package normalize converts raw extracted values into canonical typed
// forms and assembles the fixed-schema submission record. Every
// normalization failure degrades to the untouched raw string; nothing
// here returns an error for low-quality data.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"inex/internal/domain"
)

var (
	currencyCodePattern   = regexp.MustCompile(`[A-Z]{3}`)
	currencyAmountPattern = regexp.MustCompile(`[0-9,]+(?:\.[0-9]{2})?`)
	whitespacePattern     = regexp.MustCompile(`\s+`)
)

// dateLayouts are fallbacks for strings dateparse cannot handle,
// mostly two-digit-year forms.
var dateLayouts = []string{
	"02/01/06",
	"02-01-06",
	"2/1/06",
	"2-1-06",
}

// Value normalizes a raw extracted string according to its declared
// type. Parse failures keep the trimmed raw string.
func Value(raw string, valueType domain.ValueType) domain.FieldValue {
	switch valueType {
	case domain.ValueTypeDate:
		if iso, ok := Date(raw); ok {
			return domain.DateValue(iso)
		}
	case domain.ValueTypeCurrency:
		if amount, ok := Currency(raw); ok {
			return domain.CurrencyValue(amount)
		}
	case domain.ValueTypeNumber:
		if n, ok := Number(raw); ok {
			return domain.NumberValue(n)
		}
	}
	return domain.StringValue(strings.TrimSpace(raw))
}

// Date parses a date flexibly (slash or dash separators, 2-or-4-digit
// years, day/month/year or month/day/year) into ISO-8601 form.
func Date(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if t, err := dateparse.ParseAny(s); err == nil {
		return t.Format("2006-01-02"), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// Currency extracts a 3-letter ISO 4217 code and a comma-separated
// amount from a raw value such as "EUR 1,250,000.00".
func Currency(s string) (domain.CurrencyAmount, bool) {
	code := currencyCodePattern.FindString(s)
	amountStr := currencyAmountPattern.FindString(s)
	if code == "" || amountStr == "" {
		return domain.CurrencyAmount{}, false
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(amountStr, ",", ""), 64)
	if err != nil {
		return domain.CurrencyAmount{}, false
	}
	return domain.CurrencyAmount{Value: amount, Currency: code}, true
}

// Number parses an integer or float with grouping commas stripped.
func Number(s string) (float64, bool) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	n, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Text collapses runs of whitespace and converts shouting-caps values to
// title case.
func Text(s string) string {
	s = whitespacePattern.ReplaceAllString(strings.TrimSpace(s), " ")
	if s != "" && s == strings.ToUpper(s) && s != strings.ToLower(s) {
		s = titleCase(s)
	}
	return s
}

func titleCase(s string) string {
	words := strings.Split(strings.ToLower(s), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Field applies the secondary, name-heuristic normalization pass to a
// field whose value is still a plain string — the case where the rule
// declared no precise type but the name implies one — and refreshes the
// confidence level bucket.
func Field(f domain.ExtractedField) domain.ExtractedField {
	if f.Value.Kind() == domain.KindString {
		name := strings.ToLower(f.FieldName)
		switch {
		case strings.Contains(name, "date") || strings.Contains(name, "period"):
			if iso, ok := Date(f.Value.Str()); ok {
				f.Value = domain.DateValue(iso)
			}
		case strings.Contains(name, "amount") || strings.Contains(name, "currency"):
			if amount, ok := Currency(f.Value.Str()); ok {
				f.Value = domain.CurrencyValue(amount)
			}
		default:
			f.Value = domain.StringValue(Text(f.Value.Str()))
		}
	}
	f.ConfidenceLevel = domain.LevelFor(f.Confidence)
	return f
}

// Fields applies Field to every extracted field, preserving order.
func Fields(fields []domain.ExtractedField) []domain.ExtractedField {
	out := make([]domain.ExtractedField, len(fields))
	for i, f := range fields {
		out[i] = Field(f)
	}
	return out
}
