package domain

import "strings"

// ConfidenceLevel buckets a blended confidence score.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"   // >= 0.90
	ConfidenceMedium ConfidenceLevel = "medium" // >= 0.75
	ConfidenceLow    ConfidenceLevel = "low"
)

// LevelFor returns the confidence level for a blended score.
func LevelFor(confidence float64) ConfidenceLevel {
	switch {
	case confidence >= 0.90:
		return ConfidenceHigh
	case confidence >= 0.75:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// ValueType declares how a field's raw value is normalized.
type ValueType string

const (
	ValueTypeString   ValueType = "string"
	ValueTypeDate     ValueType = "date"
	ValueTypeCurrency ValueType = "currency"
	ValueTypeNumber   ValueType = "number"
)

// ParseValueType maps a configured value_type string to a ValueType.
// Unknown or empty values fall back to string.
func ParseValueType(s string) ValueType {
	switch ValueType(strings.ToLower(strings.TrimSpace(s))) {
	case ValueTypeDate:
		return ValueTypeDate
	case ValueTypeCurrency:
		return ValueTypeCurrency
	case ValueTypeNumber:
		return ValueTypeNumber
	default:
		return ValueTypeString
	}
}

// InferValueType guesses a value type from a field name. This is the
// documented secondary path for rules that do not declare value_type;
// the explicit declaration always wins when present.
func InferValueType(fieldName string) ValueType {
	name := strings.ToLower(fieldName)
	switch {
	case strings.Contains(name, "date") || strings.Contains(name, "period"):
		return ValueTypeDate
	case strings.Contains(name, "amount") || strings.Contains(name, "currency") ||
		strings.Contains(name, "sum") || strings.Contains(name, "limit"):
		return ValueTypeCurrency
	case strings.Contains(name, "count") || strings.Contains(name, "quantity") ||
		strings.Contains(name, "number of"):
		return ValueTypeNumber
	default:
		return ValueTypeString
	}
}

// ExtractionMethodRuleBased is the only extraction method this pipeline
// implements; its fixed method confidence is 0.9.
const ExtractionMethodRuleBased = "rule-based"
