package normalize

import (
	"strings"

	"inex/internal/domain"
)

// Canonical slot names of the submission schema.
const (
	SlotUniqueMarketReference = "unique_market_reference"
	SlotTypeOfInsurance       = "type_of_insurance"
	SlotNamedInsured          = "named_insured"
	SlotPolicyPeriodStart     = "policy_period_start"
	SlotPolicyPeriodEnd       = "policy_period_end"
	SlotAmountOfInsurance     = "amount_of_insurance"
)

// synonymTable maps extracted field names onto canonical slots by
// case-insensitive substring containment, tested in order. Order matters:
// more specific keys come before their substrings ("named_insured" and
// "sum_insured" before "insured").
var synonymTable = []struct {
	key  string
	slot string
}{
	{"unique_market_reference", SlotUniqueMarketReference},
	{"umr", SlotUniqueMarketReference},
	{"type_of_insurance", SlotTypeOfInsurance},
	{"insurance_type", SlotTypeOfInsurance},
	{"amount_of_insurance", SlotAmountOfInsurance},
	{"sum_insured", SlotAmountOfInsurance},
	{"coverage_amount", SlotAmountOfInsurance},
	{"named_insured", SlotNamedInsured},
	{"insured", SlotNamedInsured},
	{"policy_period_start", SlotPolicyPeriodStart},
	{"start_date", SlotPolicyPeriodStart},
	{"effective_date", SlotPolicyPeriodStart},
	{"policy_period_end", SlotPolicyPeriodEnd},
	{"end_date", SlotPolicyPeriodEnd},
	{"expiry_date", SlotPolicyPeriodEnd},
}

// canonicalSlot returns the canonical slot for a field name, or "" when
// the name has no recognized mapping.
func canonicalSlot(fieldName string) string {
	name := strings.ToLower(fieldName)
	for _, entry := range synonymTable {
		if strings.Contains(name, entry.key) {
			return entry.slot
		}
	}
	return ""
}

// BuildSubmission maps extracted fields onto the fixed submission schema.
// The first field whose name maps to an empty slot fills it; later
// synonyms for an already-filled slot are dropped. Fields with no
// recognized mapping pass through under their own name. Per-slot
// confidences are aggregated alongside an average over all filled
// entries, pass-throughs included.
func BuildSubmission(fields []domain.ExtractedField) domain.InsuranceSubmission {
	sub := domain.InsuranceSubmission{}
	metrics := make(map[string]float64)

	for _, f := range fields {
		slot := canonicalSlot(f.FieldName)
		if slot != "" {
			if target := slotRef(&sub, slot); target.IsEmpty() {
				*target = f.Value
				metrics[slot] = f.Confidence
			}
			continue
		}
		if sub.Extra == nil {
			sub.Extra = make(map[string]domain.FieldValue)
		}
		if _, seen := sub.Extra[f.FieldName]; !seen {
			sub.Extra[f.FieldName] = f.Value
			metrics[f.FieldName] = f.Confidence
		}
	}

	sub.ConfidenceMetrics = domain.ConfidenceMetrics{Fields: metrics}
	if len(metrics) > 0 {
		var total float64
		for _, c := range metrics {
			total += c
		}
		sub.ConfidenceMetrics.AverageConfidence = total / float64(len(metrics))
	}
	return sub
}

func slotRef(sub *domain.InsuranceSubmission, slot string) *domain.FieldValue {
	switch slot {
	case SlotUniqueMarketReference:
		return &sub.UniqueMarketReference
	case SlotTypeOfInsurance:
		return &sub.TypeOfInsurance
	case SlotNamedInsured:
		return &sub.NamedInsured
	case SlotPolicyPeriodStart:
		return &sub.PolicyPeriodStart
	case SlotPolicyPeriodEnd:
		return &sub.PolicyPeriodEnd
	case SlotAmountOfInsurance:
		return &sub.AmountOfInsurance
	}
	panic("unknown canonical slot: " + slot)
}
