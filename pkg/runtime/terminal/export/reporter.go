package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/variation-atlas/pkg/models/domain"
	"github.com/de-tools/variation-atlas/pkg/services/report"
)

type TableConfig struct {
	NameWidth  int
	UnitsWidth int
	ShareWidth int
	SalesWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:  40,
		UnitsWidth: 12,
		ShareWidth: 10,
		SalesWidth: 18,
	}
}

// Reporter prints the top products as fixed width tables for the terminal.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(outcome *domain.AnalysisOutcome) error {
	funcMap := template.FuncMap{
		"formatRow": func(name, units, share, sales string) string {
			return fmt.Sprintf("| %-*s | %*s | %*s | %*s |",
				c.config.NameWidth, truncate(name, c.config.NameWidth),
				c.config.UnitsWidth, units,
				c.config.ShareWidth, share,
				c.config.SalesWidth, sales)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.UnitsWidth+2),
				strings.Repeat("-", c.config.ShareWidth+2),
				strings.Repeat("-", c.config.SalesWidth+2))
		},
		"units": func(v float64) string { return report.Fixed(v, 0) },
		"share": func(part, total float64) string { return report.Fixed(report.Share(part, total), 2) + "%" },
		"brl":   report.BRL,
	}

	tmpl := `
Run {{.RunID}}
Period: {{.Result.StartDate}} to {{.Result.EndDate}}
Products: {{len .Result.AllProducts}}
{{range .Result.TopProducts}}
=== {{.ProductName}} ({{.ProductID}}) ===
Total units: {{units .TotalUnitsSold}}

{{separator}}
{{formatRow "Variation" "Units" "Share" "Sales"}}
{{separator}}
{{$total := .TotalUnitsSold}}{{range .Variations}}{{formatRow .VariationName (units .UnitsSold) (share .UnitsSold $total) (brl .SalesAmount)}}
{{end}}{{separator}}
{{end}}`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, outcome)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
