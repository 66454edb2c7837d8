package export

import (
	"fmt"
	"io"

	"github.com/de-tools/variation-atlas/pkg/models/domain"
	"github.com/de-tools/variation-atlas/pkg/services/report"
	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders the per product variation tables. Products without units are left
// out, as in the Markdown report.
func WritePDF(w io.Writer, result domain.ProcessingResult) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, tr("Relatório Estratégico de Performance de Variações"))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Período da Análise: %s a %s", result.StartDate, result.EndDate)))
	pdf.Ln(10)

	widths := []float64{80, 40, 36, 34, 40, 34}
	header := []string{"Variação", "Consumo (30d)", "Diário Médio", "Participação", "Vendas (BRL)", "Conversão"}

	for _, p := range result.AllProducts {
		if p.TotalUnitsSold <= 0 {
			continue
		}
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 7, tr(fmt.Sprintf("Anúncio: %s (ID: %s)", p.ProductName, p.ProductID)))
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, tr("Total de Unidades Vendidas (30 Dias): "+report.Fixed(p.TotalUnitsSold, 0)))
		pdf.Ln(8)

		pdf.SetFont("Arial", "B", 10)
		for i, h := range header {
			pdf.CellFormat(widths[i], 6, tr(h), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 10)
		for _, v := range p.Variations {
			pdf.CellFormat(widths[0], 6, tr(v.VariationName), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[1], 6, report.Fixed(v.ConsumptionWindowTotal, 0), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[2], 6, report.Fixed(v.ConsumptionDailyAverage, 2), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[3], 6, report.Fixed(report.Share(v.UnitsSold, p.TotalUnitsSold), 2)+"%", "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[4], 6, report.BRL(v.SalesAmount), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[5], 6, report.Fixed(v.ConversionRate, 2)+"%", "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.Ln(6)
	}

	return pdf.Output(w)
}
