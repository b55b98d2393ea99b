package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inex/internal/domain"
)

func token(text string, x1, y1 float64) domain.Token {
	return domain.Token{
		Text:       text,
		BBox:       domain.BoundingBox{X1: x1, Y1: y1, X2: x1 + 0.2, Y2: y1 + 0.02},
		Confidence: 0.95,
	}
}

func TestMatch_EmptyRequiredKeywordsScoreFull(t *testing.T) {
	templates := map[string]domain.Template{
		"anchors_only": {
			ID: "anchors_only",
			LayoutAnchors: []domain.LayoutAnchor{
				{Keyword: "header", Expected: domain.Position{X: 0.1, Y: 0.1}, Tolerance: 0.3, Weight: 1},
			},
			Thresholds: domain.Thresholds{KeywordMatch: 0.7, LayoutMatch: 0.6, OverallMatch: 0.75},
		},
	}
	tokens := []domain.Token{token("Header", 0.1, 0.1)}

	result := New(zap.NewNop()).Match(tokens, templates)

	require.Len(t, result.AllMatches, 1)
	details := result.AllMatches[0].Details.Keyword
	assert.Equal(t, 1.0, details.RequiredScore)
	assert.Equal(t, 1.0, details.OptionalScore)
	assert.Equal(t, 1.0, details.Confidence)
}

func TestMatch_NoAnchorsNeutralLayout(t *testing.T) {
	templates := map[string]domain.Template{
		"keywords_only": {
			ID:               "keywords_only",
			RequiredKeywords: []string{"policy schedule"},
			Thresholds:       domain.Thresholds{KeywordMatch: 0.7, LayoutMatch: 0.4, OverallMatch: 0.75},
		},
	}
	tokens := []domain.Token{token("Policy Schedule", 0.1, 0.1)}

	result := New(zap.NewNop()).Match(tokens, templates)

	require.Len(t, result.AllMatches, 1)
	assert.Equal(t, 0.5, result.AllMatches[0].Details.Layout.Confidence)
}

func TestMatch_AllThreeThresholdsRequired(t *testing.T) {
	// Exact keyword hit, no anchors: keyword 1.0, layout 0.5,
	// overall 1.0*0.7 + 0.5*0.3 = 0.85.
	base := domain.Template{
		ID:               "t",
		RequiredKeywords: []string{"alpha"},
	}
	tokens := []domain.Token{token("alpha corp", 0.1, 0.1)}

	tests := []struct {
		name       string
		thresholds domain.Thresholds
		wantMatch  bool
	}{
		{"all_pass", domain.Thresholds{KeywordMatch: 0.7, LayoutMatch: 0.4, OverallMatch: 0.8}, true},
		{"overall_fails", domain.Thresholds{KeywordMatch: 0.7, LayoutMatch: 0.4, OverallMatch: 0.9}, false},
		{"layout_fails", domain.Thresholds{KeywordMatch: 0.7, LayoutMatch: 0.6, OverallMatch: 0.8}, false},
		{"keyword_fails", domain.Thresholds{KeywordMatch: 1.1, LayoutMatch: 0.4, OverallMatch: 0.8}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := base
			tpl.Thresholds = tt.thresholds
			result := New(zap.NewNop()).Match(tokens, map[string]domain.Template{"t": tpl})

			require.Len(t, result.AllMatches, 1)
			assert.InDelta(t, 0.85, result.AllMatches[0].Confidence, 1e-9)
			assert.Equal(t, tt.wantMatch, result.AllMatches[0].IsMatch)
			if tt.wantMatch {
				require.NotNil(t, result.BestMatch)
				assert.Equal(t, "t", result.BestMatch.TemplateID)
			} else {
				assert.Nil(t, result.BestMatch)
			}
		})
	}
}

func TestMatch_AnchorToleranceBothAxes(t *testing.T) {
	tpl := domain.Template{
		ID: "layout",
		LayoutAnchors: []domain.LayoutAnchor{
			{Keyword: "reference", Expected: domain.Position{X: 0.1, Y: 0.2}, Tolerance: 0.05, Weight: 2},
			{Keyword: "insured", Expected: domain.Position{X: 0.1, Y: 0.4}, Tolerance: 0.05, Weight: 1},
		},
		Thresholds: domain.Thresholds{KeywordMatch: 0.0, LayoutMatch: 0.6, OverallMatch: 0.0},
	}
	// First anchor within tolerance, second off on the y axis only.
	tokens := []domain.Token{
		token("Reference", 0.12, 0.18),
		token("Insured", 0.1, 0.5),
	}

	result := New(zap.NewNop()).Match(tokens, map[string]domain.Template{"layout": tpl})

	require.Len(t, result.AllMatches, 1)
	layout := result.AllMatches[0].Details.Layout
	assert.InDelta(t, 2.0/3.0, layout.Confidence, 1e-9)
	assert.Equal(t, 2, layout.TotalAnchors)
	assert.Equal(t, 1, layout.MatchedCount)
	require.Len(t, layout.MatchedAnchors, 1)
	assert.Equal(t, "reference", layout.MatchedAnchors[0].Keyword)
	assert.Equal(t, domain.Position{X: 0.12, Y: 0.18}, layout.MatchedAnchors[0].Actual)
}

func TestMatch_StandardInsuranceDocument(t *testing.T) {
	tpl := domain.Template{
		ID:               "standard_insurance",
		RequiredKeywords: []string{"unique market reference", "named insured"},
		LayoutAnchors: []domain.LayoutAnchor{
			{Keyword: "unique market reference", Expected: domain.Position{X: 0.1, Y: 0.2}, Tolerance: 0.3, Weight: 3},
			{Keyword: "named insured", Expected: domain.Position{X: 0.1, Y: 0.3}, Tolerance: 0.3, Weight: 2},
		},
		Thresholds: domain.Thresholds{KeywordMatch: 0.7, LayoutMatch: 0.6, OverallMatch: 0.75},
	}
	tokens := []domain.Token{
		token("Unique Market Reference:", 0.1, 0.2),
		token("UMR1234567890", 0.4, 0.2),
		token("Named Insured:", 0.1, 0.3),
		token("Acme Corp Ltd", 0.4, 0.3),
	}

	result := New(zap.NewNop()).Match(tokens, map[string]domain.Template{"standard_insurance": tpl})

	require.NotNil(t, result.BestMatch)
	best := result.BestMatch
	assert.Equal(t, "standard_insurance", best.TemplateID)
	assert.True(t, best.IsMatch)
	assert.Equal(t, 1.0, best.Details.Keyword.RequiredScore)
	assert.Equal(t, 1.0, best.Details.Layout.Confidence)
	assert.InDelta(t, 1.0, best.Confidence, 1e-9)
	assert.ElementsMatch(t, []string{"unique market reference", "named insured"}, best.MatchedKeywords)
}

func TestMatch_ZeroTokens(t *testing.T) {
	templates := map[string]domain.Template{
		"a": {
			ID:               "a",
			RequiredKeywords: []string{"policy"},
			Thresholds:       domain.Thresholds{KeywordMatch: 0.7, LayoutMatch: 0.6, OverallMatch: 0.75},
		},
		"b": {
			ID:               "b",
			RequiredKeywords: []string{"launch"},
			LayoutAnchors: []domain.LayoutAnchor{
				{Keyword: "launch", Expected: domain.Position{X: 0.1, Y: 0.1}, Tolerance: 0.3, Weight: 1},
			},
			Thresholds: domain.Thresholds{KeywordMatch: 0.7, LayoutMatch: 0.6, OverallMatch: 0.75},
		},
	}

	result := New(zap.NewNop()).Match(nil, templates)

	assert.Nil(t, result.BestMatch)
	require.Len(t, result.AllMatches, 2)
	for _, m := range result.AllMatches {
		assert.False(t, m.IsMatch)
		assert.Less(t, m.Confidence, 0.75)
		assert.Empty(t, m.Details.Keyword.MatchedRequired)
	}
}

func TestMatch_RankingIsDeterministic(t *testing.T) {
	// Two identically-defined templates tie on confidence; the ranked
	// order falls back to definition (id) order.
	def := domain.Template{
		RequiredKeywords: []string{"cargo"},
		Thresholds:       domain.Thresholds{KeywordMatch: 0.7, LayoutMatch: 0.4, OverallMatch: 0.8},
	}
	a, b := def, def
	a.ID, b.ID = "a_template", "b_template"
	templates := map[string]domain.Template{"b_template": b, "a_template": a}
	tokens := []domain.Token{token("Cargo Manifest", 0.1, 0.1)}

	for i := 0; i < 10; i++ {
		result := New(zap.NewNop()).Match(tokens, templates)
		require.Len(t, result.AllMatches, 2)
		assert.Equal(t, "a_template", result.AllMatches[0].TemplateID)
		assert.Equal(t, "b_template", result.AllMatches[1].TemplateID)
		require.NotNil(t, result.BestMatch)
		assert.Equal(t, "a_template", result.BestMatch.TemplateID)
	}
}

func TestMatch_ConfidenceWithinUnitRange(t *testing.T) {
	templates := map[string]domain.Template{
		"t": {
			ID:               "t",
			RequiredKeywords: []string{"one", "two", "three"},
			OptionalKeywords: []string{"four"},
			LayoutAnchors: []domain.LayoutAnchor{
				{Keyword: "one", Expected: domain.Position{X: 0.1, Y: 0.1}, Tolerance: 0.3, Weight: 2},
			},
			Thresholds: domain.Thresholds{KeywordMatch: 0.7, LayoutMatch: 0.6, OverallMatch: 0.75},
		},
	}
	tokens := []domain.Token{token("one", 0.1, 0.1), token("four", 0.4, 0.4)}

	result := New(zap.NewNop()).Match(tokens, templates)

	require.Len(t, result.AllMatches, 1)
	m := result.AllMatches[0]
	assert.GreaterOrEqual(t, m.Confidence, 0.0)
	assert.LessOrEqual(t, m.Confidence, 1.0)
	assert.GreaterOrEqual(t, m.Details.Keyword.Confidence, 0.0)
	assert.LessOrEqual(t, m.Details.Keyword.Confidence, 1.0)
	assert.GreaterOrEqual(t, m.Details.Layout.Confidence, 0.0)
	assert.LessOrEqual(t, m.Details.Layout.Confidence, 1.0)
}

func TestMatch_FirstTokenSatisfiesAnchor(t *testing.T) {
	tpl := domain.Template{
		ID: "t",
		LayoutAnchors: []domain.LayoutAnchor{
			{Keyword: "total", Expected: domain.Position{X: 0.5, Y: 0.5}, Tolerance: 0.2, Weight: 1},
		},
		Thresholds: domain.Thresholds{KeywordMatch: 0.0, LayoutMatch: 0.6, OverallMatch: 0.0},
	}
	// Both tokens fuzzy-match; the first in token order that also lies
	// within tolerance wins.
	tokens := []domain.Token{
		token("Total", 0.9, 0.9), // out of tolerance
		token("Total", 0.55, 0.45),
		token("Total", 0.5, 0.5),
	}

	result := New(zap.NewNop()).Match(tokens, map[string]domain.Template{"t": tpl})

	layout := result.AllMatches[0].Details.Layout
	require.Len(t, layout.MatchedAnchors, 1)
	assert.Equal(t, domain.Position{X: 0.55, Y: 0.45}, layout.MatchedAnchors[0].Actual)
}
