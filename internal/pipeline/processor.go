// Package pipeline runs one document's tokens through template matching,
// field extraction, and normalization. Each stage is pure with respect to
// its inputs plus the read-only catalog snapshot, so independent callers
// can process documents concurrently.
package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"inex/internal/catalog"
	"inex/internal/domain"
	"inex/internal/extractor"
	"inex/internal/matcher"
	"inex/internal/metrics"
	"inex/internal/normalize"
)

// Processor orchestrates match -> extract -> normalize for one document.
type Processor struct {
	catalog   *catalog.Catalog
	matcher   *matcher.Matcher
	extractor *extractor.Extractor
	log       *zap.Logger
}

// NewProcessor creates a Processor over a catalog.
func NewProcessor(cat *catalog.Catalog, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{
		catalog:   cat,
		matcher:   matcher.New(log),
		extractor: extractor.New(log),
		log:       log,
	}
}

// Process runs the full pipeline for one document's token set. A
// document no template matches is not an error: the result carries a nil
// template match, no fields, and an empty submission. The only error
// conditions are an unloadable catalog and a matched template with no
// field rules.
func (p *Processor) Process(filename string, tokens []domain.Token, pageCount int) (*domain.DocumentExtraction, error) {
	snap, err := p.catalog.Snapshot()
	if err != nil {
		metrics.DocumentsProcessedTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	doc := &domain.DocumentExtraction{
		DocumentID: uuid.New(),
		Filename:   filename,
		Metadata: domain.ProcessingMetadata{
			PageCount:  pageCount,
			TokenCount: len(tokens),
		},
		CreatedAt: time.Now().UTC(),
	}

	start := time.Now()
	result := p.matcher.Match(tokens, snap.Templates)
	metrics.StageDurationSeconds.WithLabelValues("match").Observe(time.Since(start).Seconds())

	doc.TemplateMatch = result.BestMatch
	if result.BestMatch == nil {
		doc.Submission = normalize.BuildSubmission(nil)
		metrics.DocumentsProcessedTotal.WithLabelValues("unmatched").Inc()
		p.log.Info("document did not match any template",
			zap.String("document_id", doc.DocumentID.String()),
			zap.String("filename", filename))
		return doc, nil
	}

	templateID := result.BestMatch.TemplateID
	doc.Metadata.TemplateID = templateID
	metrics.TemplateMatchesTotal.WithLabelValues(templateID).Inc()

	rules, ok := snap.Rules[templateID]
	if !ok {
		metrics.DocumentsProcessedTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("template %q: %w", templateID, domain.ErrNoRulesForTemplate)
	}

	start = time.Now()
	fields, diags := p.extractor.Extract(tokens, rules)
	metrics.StageDurationSeconds.WithLabelValues("extract").Observe(time.Since(start).Seconds())
	metrics.FieldsExtractedTotal.Add(float64(len(fields)))
	metrics.RequiredFieldMissesTotal.Add(float64(len(diags.MissingRequired)))

	start = time.Now()
	fields = normalize.Fields(fields)
	doc.Fields = fields
	doc.Submission = normalize.BuildSubmission(fields)
	metrics.StageDurationSeconds.WithLabelValues("normalize").Observe(time.Since(start).Seconds())

	doc.Metadata.Warnings = diags.Warnings()
	metrics.DocumentsProcessedTotal.WithLabelValues("matched").Inc()

	p.log.Info("document processed",
		zap.String("document_id", doc.DocumentID.String()),
		zap.String("filename", filename),
		zap.String("template_id", templateID),
		zap.Int("fields_extracted", len(fields)),
		zap.Int("required_misses", len(diags.MissingRequired)))
	return doc, nil
}
