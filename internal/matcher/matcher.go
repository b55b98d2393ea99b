// Package matcher scores a document's token set against every known
// template and ranks the results. Templates are evaluated independently;
// a token can count toward any number of templates.
package matcher

import (
	"math"
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"go.uber.org/zap"

	"inex/internal/domain"
)

const (
	// fuzzyThreshold is the minimum partial-ratio score (0-100 scale)
	// for a keyword to count as present in the document.
	fuzzyThreshold = 70

	requiredWeight = 0.8
	optionalWeight = 0.2

	keywordWeight = 0.7
	layoutWeight  = 0.3

	// neutralLayoutConfidence is used when a template defines no layout
	// anchors and layout conformance cannot be evaluated.
	neutralLayoutConfidence = 0.5
)

// Matcher evaluates token sets against template definitions.
type Matcher struct {
	log *zap.Logger
}

// New creates a Matcher.
func New(log *zap.Logger) *Matcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Matcher{log: log}
}

// Match scores tokens against every template and returns the ranked
// results. BestMatch is the highest-confidence template that cleared all
// three of its thresholds, or nil if none did. An empty token set is not
// an error; every template is still scored (and scores low).
func (m *Matcher) Match(tokens []domain.Token, templates map[string]domain.Template) domain.MatchResult {
	lowered := make([]string, len(tokens))
	for i, t := range tokens {
		lowered[i] = strings.ToLower(t.Text)
	}

	// Evaluate in sorted id order so ranking ties resolve by definition
	// order, deterministically.
	ids := make([]string, 0, len(templates))
	for id := range templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	matches := make([]domain.TemplateMatch, 0, len(ids))
	for _, id := range ids {
		matches = append(matches, m.matchTemplate(tokens, lowered, templates[id]))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})

	result := domain.MatchResult{AllMatches: matches}
	for i := range matches {
		if matches[i].IsMatch {
			best := matches[i]
			result.BestMatch = &best
			break
		}
	}

	if result.BestMatch != nil {
		m.log.Info("template match found",
			zap.String("template_id", result.BestMatch.TemplateID),
			zap.Float64("confidence", result.BestMatch.Confidence))
	} else {
		m.log.Info("no template match", zap.Int("templates_tested", len(matches)))
	}
	return result
}

func (m *Matcher) matchTemplate(tokens []domain.Token, lowered []string, tpl domain.Template) domain.TemplateMatch {
	kw := scoreKeywords(lowered, tpl)
	layout := scoreLayout(tokens, lowered, tpl)

	overall := kw.Confidence*keywordWeight + layout.Confidence*layoutWeight

	isMatch := kw.Confidence >= tpl.Thresholds.KeywordMatch &&
		layout.Confidence >= tpl.Thresholds.LayoutMatch &&
		overall >= tpl.Thresholds.OverallMatch

	matched := make([]string, 0, len(kw.MatchedRequired)+len(kw.MatchedOptional))
	matched = append(matched, kw.MatchedRequired...)
	matched = append(matched, kw.MatchedOptional...)

	return domain.TemplateMatch{
		TemplateID:      tpl.ID,
		Confidence:      overall,
		MatchedKeywords: matched,
		IsMatch:         isMatch,
		Details: domain.MatchDetails{
			Keyword:    kw,
			Layout:     layout,
			Thresholds: tpl.Thresholds,
		},
	}
}

// scoreKeywords computes the fuzzy keyword score for one template. A
// keyword counts as matched when its best partial-ratio score against any
// single token reaches fuzzyThreshold.
func scoreKeywords(lowered []string, tpl domain.Template) domain.KeywordMatchDetails {
	matchedRequired := matchKeywords(lowered, tpl.RequiredKeywords)
	matchedOptional := matchKeywords(lowered, tpl.OptionalKeywords)

	// A template that defines no keywords of a class is not penalized
	// for that class.
	requiredScore := 1.0
	if len(tpl.RequiredKeywords) > 0 {
		requiredScore = float64(len(matchedRequired)) / float64(len(tpl.RequiredKeywords))
	}
	optionalScore := 1.0
	if len(tpl.OptionalKeywords) > 0 {
		optionalScore = float64(len(matchedOptional)) / float64(len(tpl.OptionalKeywords))
	}

	return domain.KeywordMatchDetails{
		Confidence:      requiredScore*requiredWeight + optionalScore*optionalWeight,
		MatchedRequired: matchedRequired,
		MatchedOptional: matchedOptional,
		RequiredScore:   requiredScore,
		OptionalScore:   optionalScore,
	}
}

func matchKeywords(lowered []string, keywords []string) []string {
	matched := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		kwLower := strings.ToLower(keyword)
		best := 0
		for _, text := range lowered {
			if score := fuzzy.PartialRatio(kwLower, text); score > best {
				best = score
			}
		}
		if best >= fuzzyThreshold {
			matched = append(matched, keyword)
		}
	}
	return matched
}

// scoreLayout computes the weighted anchor score. An anchor is satisfied
// by the first token that fuzzy-matches its keyword and whose top-left
// corner lies within the anchor's tolerance on both axes independently.
func scoreLayout(tokens []domain.Token, lowered []string, tpl domain.Template) domain.LayoutMatchDetails {
	if len(tpl.LayoutAnchors) == 0 {
		return domain.LayoutMatchDetails{Confidence: neutralLayoutConfidence}
	}

	var totalWeight, matchedWeight float64
	var hits []domain.AnchorHit

	for _, anchor := range tpl.LayoutAnchors {
		kwLower := strings.ToLower(anchor.Keyword)
		totalWeight += anchor.Weight

		for i, t := range tokens {
			if fuzzy.PartialRatio(kwLower, lowered[i]) < fuzzyThreshold {
				continue
			}
			if math.Abs(t.BBox.X1-anchor.Expected.X) > anchor.Tolerance ||
				math.Abs(t.BBox.Y1-anchor.Expected.Y) > anchor.Tolerance {
				continue
			}
			hits = append(hits, domain.AnchorHit{
				Keyword:  kwLower,
				Expected: anchor.Expected,
				Actual:   domain.Position{X: t.BBox.X1, Y: t.BBox.Y1},
				Weight:   anchor.Weight,
			})
			matchedWeight += anchor.Weight
			break
		}
	}

	confidence := 0.0
	if totalWeight > 0 {
		confidence = matchedWeight / totalWeight
	}
	return domain.LayoutMatchDetails{
		Confidence:     confidence,
		MatchedAnchors: hits,
		TotalAnchors:   len(tpl.LayoutAnchors),
		MatchedCount:   len(hits),
	}
}
