package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"inex/internal/domain"
)

const fieldsSheet = "Fields"

var fieldColumns = []any{
	"Document ID",
	"Field",
	"Raw Value",
	"Normalized Value",
	"Confidence",
	"Level",
	"Method",
	"Source Tokens",
}

// BuildWorkbook renders extraction results as an XLSX workbook with a
// submissions sheet and a per-field provenance sheet. The caller owns
// writing (and closing) the file.
func BuildWorkbook(docs []domain.DocumentExtraction, sheetName string) (*excelize.File, error) {
	if sheetName == "" {
		sheetName = "Submissions"
	}
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	for i := range docs {
		row := extractionToRow(&docs[i])
		cells := make([]any, len(row))
		for j, c := range row {
			cells[j] = c
		}
		axis := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetName, axis, &cells); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := writeFieldsSheet(f, docs); err != nil {
		return nil, err
	}
	return f, nil
}

// writeFieldsSheet adds the provenance sheet: one row per extracted
// field across all documents.
func writeFieldsSheet(f *excelize.File, docs []domain.DocumentExtraction) error {
	if _, err := f.NewSheet(fieldsSheet); err != nil {
		return fmt.Errorf("creating fields sheet: %w", err)
	}
	if err := f.SetSheetRow(fieldsSheet, "A1", &fieldColumns); err != nil {
		return fmt.Errorf("writing fields header: %w", err)
	}

	row := 2
	for i := range docs {
		doc := &docs[i]
		for _, field := range doc.Fields {
			cells := []any{
				doc.DocumentID.String(),
				field.FieldName,
				field.RawValue,
				field.Value.String(),
				field.Confidence,
				string(field.ConfidenceLevel),
				field.ExtractionMethod,
				len(field.SourceTokens),
			}
			axis := fmt.Sprintf("A%d", row)
			if err := f.SetSheetRow(fieldsSheet, axis, &cells); err != nil {
				return fmt.Errorf("writing fields row %d: %w", row, err)
			}
			row++
		}
	}
	return nil
}
