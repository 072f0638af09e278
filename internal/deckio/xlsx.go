package deckio

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/flashcard-ai/backend/internal/models"
)

const sheetName = "Cards"

// ParseXLSX reads candidate cards from the first sheet of a workbook,
// under the same column contract as CSV.
func ParseXLSX(r io.Reader) ([]RowCandidate, []models.RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("empty sheet")
	}

	cols, err := headerIndex(rows[0])
	if err != nil {
		return nil, nil, err
	}

	var candidates []RowCandidate
	var rowErrs []models.RowError
	for i, record := range rows[1:] {
		row := i + 2
		candidate, err := parseRecord(record, cols)
		if err != nil {
			rowErrs = append(rowErrs, models.RowError{Row: row, Reason: err.Error()})
			continue
		}
		candidates = append(candidates, RowCandidate{Row: row, Candidate: candidate})
	}
	return candidates, rowErrs, nil
}

// WriteXLSX writes cards as a single-sheet workbook.
func WriteXLSX(w io.Writer, cards []models.Card) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &Headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, card := range cards {
		record := cardRecord(card)
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetName, cell, &record); err != nil {
			return fmt.Errorf("write card %s: %w", card.ID, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
