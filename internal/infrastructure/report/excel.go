// Package report writes benchmark sweeps to spreadsheet files.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/raglab/docchat/internal/core/domain"
)

var header = []any{"Embedding Model", "LLM", "Question", "Answer", "Latency (s)", "Error"}

// ExcelWriter persists benchmark results as a single-sheet xlsx
// workbook, one row per (model, question) cell in sweep order. It
// implements ports.ResultWriter.
type ExcelWriter struct{}

func NewExcelWriter() *ExcelWriter {
	return &ExcelWriter{}
}

func (w *ExcelWriter) Write(path string, results []domain.BenchmarkResult) error {
	book := excelize.NewFile()
	defer book.Close()

	sheet := book.GetSheetName(book.GetActiveSheetIndex())
	if err := book.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	for i, result := range results {
		row := []any{
			result.EmbeddingModel,
			result.LLM,
			result.Question,
			result.Answer,
			result.LatencySeconds,
			result.Err,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d cell name: %w", i+2, err)
		}
		if err := book.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write result row %d: %w", i+2, err)
		}
	}

	if err := book.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}
