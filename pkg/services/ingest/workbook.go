package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/de-tools/variation-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

var (
	ErrInvalidWorkbook = errors.New("invalid workbook")
	ErrNoSheets        = errors.New("workbook has no sheets")
)

// IsInvalidInput reports whether err comes from an unreadable or malformed spreadsheet
// rather than from the environment.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidWorkbook) || errors.Is(err, ErrNoSheets) || errors.Is(err, ErrMissingColumn)
}

// Table is the first worksheet of a workbook: the header row and the data rows below it.
// Cells are nil when blank, float64 for numeric cells, bool for booleans and string
// otherwise.
type Table struct {
	Sheet  string
	Header []string
	Rows   [][]any
}

// ReadWorkbook loads the first worksheet of an XLSX or legacy XLS payload. Fully blank
// rows are dropped.
func ReadWorkbook(r io.Reader) (*Table, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWorkbook, err)
	}
	if isLegacyWorkbook(payload) {
		sheet, rows, err := readLegacy(payload)
		if err != nil {
			return nil, err
		}
		return tableFromText(sheet, rows), nil
	}

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWorkbook, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %w", ErrInvalidWorkbook, sheet, err)
	}

	table := &Table{Sheet: sheet}
	if len(rows) == 0 {
		return table, nil
	}
	table.Header = rows[0]

	for r := 1; r < len(rows); r++ {
		cells := make([]any, len(table.Header))
		blank := true
		for c := 0; c < len(cells) && c < len(rows[r]); c++ {
			raw := rows[r][c]
			if raw == "" {
				continue
			}
			cells[c] = typedCell(f, sheet, c+1, r+1, raw)
			blank = false
		}
		if !blank {
			table.Rows = append(table.Rows, cells)
		}
	}

	return table, nil
}

func typedCell(f *excelize.File, sheet string, col, row int, raw string) any {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return raw
	}
	cellType, err := f.GetCellType(sheet, axis)
	if err != nil {
		return raw
	}

	switch cellType {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	case excelize.CellTypeBool:
		return raw == "1" || raw == "TRUE" || raw == "true"
	}
	return raw
}

// Records validates the header of t and extracts every variation detail row.
// A table without a header row yields no records.
func Records(ctx context.Context, t *Table) ([]domain.VariationRecord, error) {
	if len(t.Header) == 0 {
		return nil, nil
	}

	schema, err := NewSchema(t.Header)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", t.Sheet, err)
	}

	records := make([]domain.VariationRecord, 0, len(t.Rows))
	skipped := 0
	for _, row := range t.Rows {
		rec, ok := schema.Extract(row)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	zerolog.Ctx(ctx).Debug().
		Str("sheet", t.Sheet).
		Int("rows", len(t.Rows)).
		Int("variations", len(records)).
		Int("skipped", skipped).
		Msg("extracted variation rows")

	return records, nil
}

// Parse reads an XLSX payload and returns its variation records.
func Parse(ctx context.Context, r io.Reader) ([]domain.VariationRecord, error) {
	table, err := ReadWorkbook(r)
	if err != nil {
		return nil, err
	}
	return Records(ctx, table)
}
