// Package export renders document extraction results as CSV and XLSX
// report bytes. Output goes to an io.Writer; persistence belongs to the
// caller.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"inex/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (12 columns).
var columns = []string{
	"Document ID",
	"Filename",
	"Template",
	"Unique Market Reference",
	"Type of Insurance",
	"Named Insured",
	"Policy Period Start",
	"Policy Period End",
	"Amount of Insurance",
	"Currency",
	"Average Confidence",
	"Warnings",
}

// Writer wraps csv.Writer for exporting extraction results as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteExtractions converts a batch of extraction results to CSV rows
// and writes them.
func (w *Writer) WriteExtractions(docs []domain.DocumentExtraction) error {
	for i := range docs {
		if err := w.csv.Write(extractionToRow(&docs[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func extractionToRow(doc *domain.DocumentExtraction) []string {
	sub := doc.Submission
	amount, currency := amountCells(sub.AmountOfInsurance)
	return []string{
		doc.DocumentID.String(),
		doc.Filename,
		doc.Metadata.TemplateID,
		sub.UniqueMarketReference.String(),
		sub.TypeOfInsurance.String(),
		sub.NamedInsured.String(),
		sub.PolicyPeriodStart.String(),
		sub.PolicyPeriodEnd.String(),
		amount,
		currency,
		fmt.Sprintf("%.3f", sub.ConfidenceMetrics.AverageConfidence),
		strings.Join(doc.Metadata.Warnings, "; "),
	}
}

// amountCells splits the amount slot into numeric and currency-code
// cells; a raw unparsed value lands in the amount cell verbatim.
func amountCells(v domain.FieldValue) (string, string) {
	if v.Kind() == domain.KindCurrency {
		c := v.Currency()
		return fmt.Sprintf("%.2f", c.Value), c.Currency
	}
	return v.String(), ""
}
