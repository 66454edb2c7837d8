package export

import (
	"fmt"
	"io"

	"github.com/de-tools/variation-atlas/pkg/models/domain"
	"github.com/de-tools/variation-atlas/pkg/services/report"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet    = "Resumo"
	variationsSheet = "Variações"
)

var variationsHeader = []any{
	"ID do Item", "Produto", "ID da Variação", "Variação", "Consumo (Unidades 30d)",
	"Consumo Diário Médio", "Participação (%)", "Vendas (BRL)", "Taxa Conversão (%)",
}

// WriteXLSX writes a workbook with a summary sheet and one row per variation.
func WriteXLSX(w io.Writer, result domain.ProcessingResult) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(variationsSheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	summary := [][]any{
		{"Período da Análise", result.StartDate, result.EndDate},
		{},
		{"Anúncio", "ID do Item", "Total de Unidades", "Variações"},
	}
	for _, p := range result.AllProducts {
		summary = append(summary, []any{p.ProductName, p.ProductID, p.TotalUnitsSold, len(p.Variations)})
	}
	if err := setRows(f, summarySheet, summary); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A3", "D3", bold); err != nil {
		return err
	}

	rows := [][]any{variationsHeader}
	for _, p := range result.AllProducts {
		for _, v := range p.Variations {
			rows = append(rows, []any{
				v.ProductID,
				p.ProductName,
				v.VariationID,
				v.VariationName,
				v.ConsumptionWindowTotal,
				v.ConsumptionDailyAverage,
				report.Share(v.UnitsSold, p.TotalUnitsSold),
				v.SalesAmount,
				v.ConversionRate,
			})
		}
	}
	if err := setRows(f, variationsSheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(variationsSheet, "A1", "I1", bold); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(variationsSheet, "A", "I", 20); err != nil {
		return err
	}

	return f.Write(w)
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, axis, &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
