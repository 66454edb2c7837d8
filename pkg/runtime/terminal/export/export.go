package export

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/de-tools/variation-atlas/pkg/adapters"
	"github.com/de-tools/variation-atlas/pkg/models/domain"
	"github.com/de-tools/variation-atlas/pkg/observability/metrics"
	"github.com/de-tools/variation-atlas/pkg/services/report"
)

const (
	FormatMarkdown = "markdown"
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatCharts   = "charts"
	FormatXLSX     = "xlsx"
	FormatPDF      = "pdf"
)

// Formats lists every supported output format.
var Formats = []string{FormatMarkdown, FormatTable, FormatJSON, FormatCharts, FormatXLSX, FormatPDF}

// IsBinary reports formats that should not be written to a terminal.
func IsBinary(format string) bool {
	return format == FormatXLSX || format == FormatPDF
}

// Write renders outcome in the given format.
func Write(w io.Writer, format string, outcome *domain.AnalysisOutcome) error {
	var err error
	switch strings.ToLower(format) {
	case FormatMarkdown, "md":
		_, err = io.WriteString(w, outcome.Report)
	case FormatTable:
		err = NewReporter(w).Handle(outcome)
	case FormatJSON:
		err = writeJSON(w, adapters.MapOutcomeToAPI(outcome))
	case FormatCharts:
		err = writeJSON(w, NewChartFile(outcome.Result))
	case FormatXLSX:
		err = WriteXLSX(w, outcome.Result)
	case FormatPDF:
		err = WritePDF(w, outcome.Result)
	default:
		return fmt.Errorf("unsupported format %q, expected one of %s", format, strings.Join(Formats, ", "))
	}

	if err != nil {
		metrics.IncExport(format, metrics.ResultError)
		return fmt.Errorf("failed to export %s: %w", format, err)
	}
	metrics.IncExport(format, metrics.ResultSuccess)
	return nil
}

func IsSupported(format string) bool {
	return slices.Contains(Formats, strings.ToLower(format)) || strings.EqualFold(format, "md")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// chartFileVariations is how many variations per product go into the chart file.
const chartFileVariations = 6

// ChartFile is the input of offline chart rendering jobs.
type ChartFile struct {
	StartDate        string             `json:"startDate"`
	EndDate          string             `json:"endDate"`
	TopAnnouncements []ChartFileProduct `json:"topAnnouncements"`
}

type ChartFileProduct struct {
	ItemID         string               `json:"itemId"`
	ProductName    string               `json:"productName"`
	TotalUnitsSold float64              `json:"totalUnitsSold"`
	Variations     []ChartFileVariation `json:"variations"`
}

type ChartFileVariation struct {
	VariationName string  `json:"variationName"`
	UnitsSold     float64 `json:"unitsSold"`
	Percentage    float64 `json:"percentage"`
}

func NewChartFile(result domain.ProcessingResult) ChartFile {
	file := ChartFile{
		StartDate:        result.StartDate,
		EndDate:          result.EndDate,
		TopAnnouncements: make([]ChartFileProduct, 0, len(result.TopProducts)),
	}
	for _, p := range result.TopProducts {
		variations := p.Variations
		if len(variations) > chartFileVariations {
			variations = variations[:chartFileVariations]
		}
		product := ChartFileProduct{
			ItemID:         p.ProductID,
			ProductName:    p.ProductName,
			TotalUnitsSold: p.TotalUnitsSold,
			Variations:     make([]ChartFileVariation, 0, len(variations)),
		}
		for _, v := range variations {
			product.Variations = append(product.Variations, ChartFileVariation{
				VariationName: v.VariationName,
				UnitsSold:     v.UnitsSold,
				Percentage:    report.Share(v.UnitsSold, p.TotalUnitsSold),
			})
		}
		file.TopAnnouncements = append(file.TopAnnouncements, product)
	}
	return file
}
