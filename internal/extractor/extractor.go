// Package extractor locates and parses named field values from a
// document's tokens using a template's field rules: spatial anchoring
// narrows the candidate tokens, ordered regex patterns pull out the raw
// value, and provenance is tracked back to the contributing tokens.
package extractor

import (
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"inex/internal/domain"
	"inex/internal/normalize"
)

const (
	// methodConfidence is the fixed confidence of a successful
	// rule-based pattern match, blended with recognition confidence.
	methodConfidence = 0.9

	ocrWeight    = 0.6
	methodWeight = 0.4
)

// Diagnostics carries non-fatal extraction conditions back to the
// caller. Required-field misses never abort the pipeline.
type Diagnostics struct {
	MissingRequired []string
}

// Warnings renders the diagnostics as human-readable strings.
func (d Diagnostics) Warnings() []string {
	if len(d.MissingRequired) == 0 {
		return nil
	}
	warnings := make([]string, 0, len(d.MissingRequired))
	for _, name := range d.MissingRequired {
		warnings = append(warnings, "required field not found: "+name)
	}
	return warnings
}

// Extractor runs field rules against token sets.
type Extractor struct {
	log *zap.Logger
}

// New creates an Extractor.
func New(log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{log: log}
}

// Extract applies every field rule to the token set. Fields whose
// patterns never match are omitted; required misses are recorded in the
// diagnostics. Rules are processed in sorted name order so the output
// is reproducible.
func (e *Extractor) Extract(tokens []domain.Token, rules map[string]domain.FieldRule) ([]domain.ExtractedField, Diagnostics) {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)

	var fields []domain.ExtractedField
	var diags Diagnostics

	for _, name := range names {
		rule := rules[name]
		field, ok := e.extractField(tokens, rule)
		if !ok {
			if rule.Required {
				diags.MissingRequired = append(diags.MissingRequired, name)
				e.log.Warn("required field not found", zap.String("field", name))
			}
			continue
		}
		fields = append(fields, field)
	}
	return fields, diags
}

func (e *Extractor) extractField(tokens []domain.Token, rule domain.FieldRule) (domain.ExtractedField, bool) {
	candidates := candidateTokens(tokens, rule)

	raw, src, ok := e.applyPatterns(candidates, rule)
	if !ok || len(src) == 0 {
		return domain.ExtractedField{}, false
	}

	var total float64
	for _, t := range src {
		total += t.Confidence
	}
	avgOCR := total / float64(len(src))
	confidence := avgOCR*ocrWeight + methodConfidence*methodWeight

	return domain.ExtractedField{
		FieldName:        rule.Name,
		RawValue:         raw,
		Value:            normalize.Value(raw, rule.ValueType),
		Confidence:       confidence,
		ConfidenceLevel:  domain.LevelFor(confidence),
		SourceTokens:     src,
		ExtractionMethod: domain.ExtractionMethodRuleBased,
	}, true
}

// candidateTokens narrows the token set to those near an anchor keyword.
// A token qualifies when its left edge is within the horizontal radius
// of some anchor's right edge and its top edge within the vertical
// radius of that anchor's top edge. When no anchor token is found (or
// nothing lies in range) the whole token set is used instead — a missing
// anchor must not fail the field.
func candidateTokens(tokens []domain.Token, rule domain.FieldRule) []domain.Token {
	if len(rule.AnchorKeywords) == 0 {
		return tokens
	}

	var anchors []domain.Token
	for _, t := range tokens {
		text := strings.ToLower(t.Text)
		for _, keyword := range rule.AnchorKeywords {
			if strings.Contains(text, strings.ToLower(keyword)) {
				anchors = append(anchors, t)
				break
			}
		}
	}
	if len(anchors) == 0 {
		return tokens
	}

	var nearby []domain.Token
	for _, t := range tokens {
		for _, anchor := range anchors {
			xDist := abs(t.BBox.X1 - anchor.BBox.X2)
			yDist := abs(t.BBox.Y1 - anchor.BBox.Y1)
			if xDist <= rule.SearchRadius.X && yDist <= rule.SearchRadius.Y {
				nearby = append(nearby, t)
				break
			}
		}
	}
	if len(nearby) == 0 {
		return tokens
	}
	return nearby
}

// applyPatterns joins the candidate texts with single spaces and tries
// each pattern in order; the first match wins. The raw value is capture
// group one when the pattern has one, else the whole match. Contributing
// tokens are recovered by rebuilding character offsets from the join
// order and testing overlap with the match span — approximate, since the
// original whitespace is not preserved.
func (e *Extractor) applyPatterns(candidates []domain.Token, rule domain.FieldRule) (string, []domain.Token, bool) {
	texts := make([]string, len(candidates))
	for i, t := range candidates {
		texts[i] = t.Text
	}
	joined := strings.Join(texts, " ")

	for _, pattern := range rule.Patterns {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			e.log.Warn("invalid field pattern",
				zap.String("field", rule.Name),
				zap.String("pattern", pattern),
				zap.Error(err))
			continue
		}
		loc := re.FindStringSubmatchIndex(joined)
		if loc == nil {
			continue
		}
		matchStart, matchEnd := loc[0], loc[1]
		raw := joined[matchStart:matchEnd]
		if len(loc) > 2 && loc[2] >= 0 {
			raw = joined[loc[2]:loc[3]]
		}

		var src []domain.Token
		pos := 0
		for i, t := range candidates {
			tokenStart := pos
			tokenEnd := pos + len(t.Text)
			if !(tokenEnd < matchStart || tokenStart > matchEnd) {
				src = append(src, candidates[i])
			}
			pos = tokenEnd + 1 // joining space
		}
		return raw, src, true
	}
	return "", nil, false
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
