package ingest

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"

	"github.com/extrame/xls"
)

// legacySignature starts every OLE2 compound document, the container of BIFF (.xls)
// workbooks.
var legacySignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// plainNumber matches the text the xls reader produces for numeric cells.
var plainNumber = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?$`)

// readLegacy is swapped in tests.
var readLegacy = readLegacyRows

func isLegacyWorkbook(payload []byte) bool {
	return bytes.HasPrefix(payload, legacySignature)
}

// readLegacyRows returns the name and cell text of the first sheet of an .xls workbook.
// The reader panics on some malformed files; those are reported as invalid workbooks.
func readLegacyRows(payload []byte) (sheet string, rows [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			sheet, rows, err = "", nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(payload), "utf-8")
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidWorkbook, err)
	}
	if wb.NumSheets() == 0 {
		return "", nil, ErrNoSheets
	}
	ws := wb.GetSheet(0)
	if ws == nil {
		return "", nil, ErrNoSheets
	}

	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		var cells []string
		for c := 0; c <= row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		for len(cells) > 0 && cells[len(cells)-1] == "" {
			cells = cells[:len(cells)-1]
		}
		rows = append(rows, cells)
	}
	return ws.Name, rows, nil
}

// tableFromText builds a Table from cell text. Text that reads as a plain number
// ("1234.5", "-3", "1e3") becomes float64 like a numeric cell; "1.234" is therefore
// 1.234, not the pt-BR thousands reading.
func tableFromText(sheet string, rows [][]string) *Table {
	table := &Table{Sheet: sheet}
	if len(rows) == 0 {
		return table
	}
	table.Header = rows[0]

	for _, row := range rows[1:] {
		cells := make([]any, len(table.Header))
		blank := true
		for c := 0; c < len(cells) && c < len(row); c++ {
			if row[c] == "" {
				continue
			}
			cells[c] = textCell(row[c])
			blank = false
		}
		if !blank {
			table.Rows = append(table.Rows, cells)
		}
	}
	return table
}

func textCell(text string) any {
	if plainNumber.MatchString(text) {
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			return v
		}
	}
	return text
}
