package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/de-tools/variation-atlas/pkg/models/domain"
)

// Column labels of the marketplace "performance by variation" export.
const (
	ColumnItemID         = "ID do Item"
	ColumnVariationID    = "ID da Variação"
	ColumnProduct        = "Produto"
	ColumnVariationName  = "Nome da Variação"
	ColumnUnitsSold      = "Unidades (Pedido pago)"
	ColumnSalesAmount    = "Vendas (Pedido pago) (BRL)"
	ColumnConversionRate = "Taxa de conversão (Pedido pago)"
)

// Columns lists every column an export must carry, in report order.
var Columns = []string{
	ColumnItemID,
	ColumnVariationID,
	ColumnProduct,
	ColumnVariationName,
	ColumnUnitsSold,
	ColumnSalesAmount,
	ColumnConversionRate,
}

// summaryRowMarker is the variation id of item-level summary rows.
const summaryRowMarker = "-"

var ErrMissingColumn = errors.New("missing expected column")

// Schema maps the expected columns onto positions of a header row.
type Schema struct {
	itemID         int
	variationID    int
	product        int
	variationName  int
	unitsSold      int
	salesAmount    int
	conversionRate int
}

// NewSchema resolves every expected column in header. The first occurrence of a label
// wins. All missing labels are reported at once.
func NewSchema(header []string) (*Schema, error) {
	index := make(map[string]int, len(header))
	for i, label := range header {
		if _, ok := index[label]; !ok {
			index[label] = i
		}
	}

	var missing []string
	for _, column := range Columns {
		if _, ok := index[column]; !ok {
			missing = append(missing, strconv.Quote(column))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	return &Schema{
		itemID:         index[ColumnItemID],
		variationID:    index[ColumnVariationID],
		product:        index[ColumnProduct],
		variationName:  index[ColumnVariationName],
		unitsSold:      index[ColumnUnitsSold],
		salesAmount:    index[ColumnSalesAmount],
		conversionRate: index[ColumnConversionRate],
	}, nil
}

// Extract turns a data row into a VariationRecord. The second result is false for rows
// that are not variation detail rows (no variation id, or the "-" summary marker).
func (s *Schema) Extract(row []any) (domain.VariationRecord, bool) {
	variationID := cellText(cellAt(row, s.variationID))
	if variationID == "" || variationID == summaryRowMarker {
		return domain.VariationRecord{}, false
	}

	units := Normalize(cellAt(row, s.unitsSold))
	return domain.VariationRecord{
		ProductID:               cellText(cellAt(row, s.itemID)),
		ProductName:             textOr(cellAt(row, s.product), domain.UnknownLabel),
		VariationID:             variationID,
		VariationName:           textOr(cellAt(row, s.variationName), domain.UnknownLabel),
		UnitsSold:               units,
		SalesAmount:             Normalize(cellAt(row, s.salesAmount)),
		ConversionRate:          Normalize(cellAt(row, s.conversionRate)),
		ConsumptionWindowTotal:  units,
		ConsumptionDailyAverage: units / domain.ConsumptionWindowDays,
	}, true
}

func cellAt(row []any, i int) any {
	if i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}

// cellText renders a cell as text. Blank cells, empty strings and numeric zero are all
// treated as absent and yield "".
func cellText(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		if c == 0 {
			return ""
		}
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		if !c {
			return ""
		}
		return "true"
	default:
		return fmt.Sprint(c)
	}
}

func textOr(v any, fallback string) string {
	if s := cellText(v); s != "" {
		return s
	}
	return fallback
}
