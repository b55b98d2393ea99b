package domain

import (
	"time"

	"github.com/google/uuid"
)

// BoundingBox is a token's position in normalized page coordinates.
// All values are in [0,1] relative to the page size.
type BoundingBox struct {
	X1 float64 `json:"x1" yaml:"x1"`
	Y1 float64 `json:"y1" yaml:"y1"`
	X2 float64 `json:"x2" yaml:"x2"`
	Y2 float64 `json:"y2" yaml:"y2"`
}

// Token is one recognized text span produced by the external recognizer.
// Tokens are immutable once created; their order is recognition order,
// not guaranteed reading order.
type Token struct {
	Text       string      `json:"text"`
	BBox       BoundingBox `json:"bbox"`
	Confidence float64     `json:"confidence"`
	Page       int         `json:"page"`
}

// Position is an expected (x, y) location on a page.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutAnchor describes where a keyword is expected to appear on the page.
type LayoutAnchor struct {
	Keyword   string   `json:"keyword"`
	Expected  Position `json:"expected_position"`
	Tolerance float64  `json:"tolerance"`
	Weight    float64  `json:"weight"`
}

// Thresholds are the per-template confidence thresholds a document must
// clear for the template to count as a match.
type Thresholds struct {
	KeywordMatch float64 `json:"keyword_match"`
	LayoutMatch  float64 `json:"layout_match"`
	OverallMatch float64 `json:"overall_match"`
}

// Template is a named layout/keyword profile against which a document is
// scored. Templates are immutable for the lifetime of a catalog snapshot.
type Template struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	RequiredKeywords []string       `json:"required_keywords"`
	OptionalKeywords []string       `json:"optional_keywords"`
	LayoutAnchors    []LayoutAnchor `json:"layout_anchors"`
	Thresholds       Thresholds     `json:"confidence_thresholds"`
}

// KeywordMatchDetails is the keyword-score breakdown for one template.
type KeywordMatchDetails struct {
	Confidence      float64  `json:"keyword_confidence"`
	MatchedRequired []string `json:"matched_required"`
	MatchedOptional []string `json:"matched_optional"`
	RequiredScore   float64  `json:"required_score"`
	OptionalScore   float64  `json:"optional_score"`
}

// AnchorHit records a layout anchor satisfied by a token.
type AnchorHit struct {
	Keyword  string   `json:"keyword"`
	Expected Position `json:"expected"`
	Actual   Position `json:"actual"`
	Weight   float64  `json:"weight"`
}

// LayoutMatchDetails is the layout-score breakdown for one template.
type LayoutMatchDetails struct {
	Confidence     float64     `json:"layout_confidence"`
	MatchedAnchors []AnchorHit `json:"matched_anchors"`
	TotalAnchors   int         `json:"total_anchors"`
	MatchedCount   int         `json:"matched_anchor_count"`
}

// MatchDetails is the structured breakdown behind a TemplateMatch.
type MatchDetails struct {
	Keyword    KeywordMatchDetails `json:"keyword_match"`
	Layout     LayoutMatchDetails  `json:"layout_match"`
	Thresholds Thresholds          `json:"thresholds"`
}

// TemplateMatch is the result of scoring one document against one
// template. Never mutated after creation.
type TemplateMatch struct {
	TemplateID      string       `json:"template_id"`
	Confidence      float64      `json:"confidence"`
	MatchedKeywords []string     `json:"matched_keywords"`
	IsMatch         bool         `json:"is_match"`
	Details         MatchDetails `json:"match_details"`
}

// MatchResult holds the ranked matches for one document. BestMatch is nil
// when no template cleared all three thresholds.
type MatchResult struct {
	BestMatch  *TemplateMatch  `json:"best_match"`
	AllMatches []TemplateMatch `json:"all_matches"`
}

// SearchRadius bounds the spatial candidate search around an anchor token.
type SearchRadius struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FieldRule describes how to locate and parse one named value from tokens.
type FieldRule struct {
	Name           string       `json:"field_name"`
	Patterns       []string     `json:"patterns"`
	AnchorKeywords []string     `json:"anchor_keywords"`
	SearchRadius   SearchRadius `json:"search_radius"`
	ValueType      ValueType    `json:"value_type"`
	Required       bool         `json:"required"`
}

// CurrencyAmount is a monetary amount with an ISO 4217 currency code.
type CurrencyAmount struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

// ExtractedField is one named value pulled out of a document, with full
// provenance. SourceTokens is never empty for a successful extraction.
type ExtractedField struct {
	FieldName        string          `json:"field_name"`
	RawValue         string          `json:"raw_value"`
	Value            FieldValue      `json:"value"`
	Confidence       float64         `json:"confidence"`
	ConfidenceLevel  ConfidenceLevel `json:"confidence_level"`
	SourceTokens     []Token         `json:"source_tokens"`
	ExtractionMethod string          `json:"extraction_method"`
}

// ConfidenceMetrics aggregates per-slot confidence for a submission.
type ConfidenceMetrics struct {
	AverageConfidence float64            `json:"average_confidence"`
	Fields            map[string]float64 `json:"fields"`
}

// InsuranceSubmission is the canonical fixed-schema output record.
// Slots hold a normalized value or the zero FieldValue when unfilled;
// fields with no recognized synonym mapping pass through in Extra.
type InsuranceSubmission struct {
	UniqueMarketReference FieldValue            `json:"unique_market_reference"`
	TypeOfInsurance       FieldValue            `json:"type_of_insurance"`
	NamedInsured          FieldValue            `json:"named_insured"`
	PolicyPeriodStart     FieldValue            `json:"policy_period_start"`
	PolicyPeriodEnd       FieldValue            `json:"policy_period_end"`
	AmountOfInsurance     FieldValue            `json:"amount_of_insurance"`
	Extra                 map[string]FieldValue `json:"extra,omitempty"`
	ConfidenceMetrics     ConfidenceMetrics     `json:"confidence_metrics"`
}

// ProcessingMetadata records per-document pipeline context for audit.
type ProcessingMetadata struct {
	PageCount  int      `json:"page_count"`
	TokenCount int      `json:"token_count"`
	TemplateID string   `json:"template_id"`
	Warnings   []string `json:"warnings,omitempty"`
}

// DocumentExtraction is the full per-document result: the ranked template
// match, every extracted field with provenance, and the canonical
// submission assembled from them.
type DocumentExtraction struct {
	DocumentID    uuid.UUID           `json:"document_id"`
	Filename      string              `json:"filename"`
	Fields        []ExtractedField    `json:"extracted_fields"`
	TemplateMatch *TemplateMatch      `json:"template_match"`
	Submission    InsuranceSubmission `json:"insurance_submission"`
	Metadata      ProcessingMetadata  `json:"processing_metadata"`
	CreatedAt     time.Time           `json:"created_at"`
}
