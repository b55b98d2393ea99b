package normalize

import (
	"fmt"

	"inex/internal/domain"
)

// lowConfidenceThreshold triggers a data-quality warning on the whole
// submission.
const lowConfidenceThreshold = 0.75

// requiredSlots must be filled for a submission to be considered valid.
var requiredSlots = []string{
	SlotUniqueMarketReference,
	SlotTypeOfInsurance,
	SlotNamedInsured,
}

// ValidationReport summarizes submission-level data-quality checks.
type ValidationReport struct {
	IsValid           bool     `json:"is_valid"`
	Errors            []string `json:"errors"`
	Warnings          []string `json:"warnings"`
	CompletenessScore float64  `json:"completeness_score"`
}

// ValidateSubmission checks a canonical submission for completeness and
// basic data quality. Validation never blocks the pipeline; callers
// decide what to do with an invalid report.
func ValidateSubmission(sub domain.InsuranceSubmission) ValidationReport {
	report := ValidationReport{}

	present := 0
	for _, slot := range requiredSlots {
		if slotValue(sub, slot).IsEmpty() {
			report.Errors = append(report.Errors, fmt.Sprintf("missing required field: %s", slot))
		} else {
			present++
		}
	}
	report.CompletenessScore = float64(present) / float64(len(requiredSlots))

	dateSlots := []struct {
		slot  string
		value domain.FieldValue
	}{
		{SlotPolicyPeriodStart, sub.PolicyPeriodStart},
		{SlotPolicyPeriodEnd, sub.PolicyPeriodEnd},
	}
	for _, ds := range dateSlots {
		if ds.value.IsEmpty() || ds.value.Kind() == domain.KindDate {
			continue
		}
		if _, ok := Date(ds.value.String()); !ok {
			report.Errors = append(report.Errors, fmt.Sprintf("invalid date format in %s: %s", ds.slot, ds.value.String()))
		}
	}

	if amount := sub.AmountOfInsurance; amount.Kind() == domain.KindCurrency {
		if amount.Currency().Value <= 0 {
			report.Errors = append(report.Errors, "insurance amount must be positive")
		}
	}

	if n := len(sub.ConfidenceMetrics.Fields); n > 0 {
		if avg := sub.ConfidenceMetrics.AverageConfidence; avg < lowConfidenceThreshold {
			report.Warnings = append(report.Warnings, fmt.Sprintf("low average confidence: %.3f", avg))
		}
	}

	report.IsValid = len(report.Errors) == 0
	return report
}

func slotValue(sub domain.InsuranceSubmission, slot string) domain.FieldValue {
	return *slotRef(&sub, slot)
}
