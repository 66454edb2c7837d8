package report

import (
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"
	"text/template"

	"github.com/de-tools/variation-atlas/pkg/models/domain"
	"github.com/dustin/go-humanize"
)

const markdownTemplate = `# Relatório Estratégico de Performance de Variações

**Período da Análise:** {{.StartDate}} a {{.EndDate}}

Este relatório detalha a performance das variações de cada anúncio, com foco no consumo de unidades vendidas.

---

{{range .AllProducts}}{{if hasUnits .}}## Anúncio: {{.ProductName}} (ID: {{.ProductID}})

**Total de Unidades Vendidas (30 Dias):** {{fixed0 .TotalUnitsSold}}

| Variação | Consumo (Unidades 30d) | Consumo Diário Médio | Participação (%) | Vendas (BRL) | Taxa Conversão |
|:---------|:----------------------:|:-------------------:|:----------------:|:------------:|:---------------:|
{{$total := .TotalUnitsSold}}{{range .Variations}}| {{.VariationName}} | {{fixed0 .ConsumptionWindowTotal}} | {{fixed2 .ConsumptionDailyAverage}} | {{fixed2 (share .UnitsSold $total)}}% | {{brl .SalesAmount}} | {{fixed2 .ConversionRate}}% |
{{end}}
---

{{end}}{{end}}`

var markdown = template.Must(template.New("report").Funcs(template.FuncMap{
	"hasUnits": func(p domain.ProductAggregate) bool { return p.TotalUnitsSold > 0 },
	"fixed0":   func(v float64) string { return Fixed(v, 0) },
	"fixed2":   func(v float64) string { return Fixed(v, 2) },
	"share":    Share,
	"brl":      BRL,
}).Parse(markdownTemplate))

// WriteMarkdown renders the variation performance report. Products without units sold
// are left out; an empty result renders the preamble only.
func WriteMarkdown(w io.Writer, result domain.ProcessingResult) error {
	if err := markdown.Execute(w, result); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func RenderMarkdown(result domain.ProcessingResult) (string, error) {
	var b strings.Builder
	if err := WriteMarkdown(&b, result); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Share is part as a percentage of total; a zero total gives 0.
func Share(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}

// Fixed formats v with the given number of decimals. The exact binary value is rounded
// to the nearest decimal, so 2.675 gives "2.67"; exact halves such as 0.125 round away
// from zero.
func Fixed(v float64, places int) string {
	s := strconv.FormatFloat(v, 'f', places, 64)
	if places < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return s
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(places)), nil)
	scaled := new(big.Rat).SetFloat64(math.Abs(v))
	scaled.Mul(scaled, new(big.Rat).SetInt(scale))
	if scaled.Denom().Cmp(big.NewInt(2)) != 0 {
		return s
	}

	n := new(big.Int).Add(scaled.Num(), big.NewInt(1))
	digits := n.Rsh(n, 1).String()
	if places > 0 {
		if len(digits) <= places {
			digits = strings.Repeat("0", places-len(digits)+1) + digits
		}
		digits = digits[:len(digits)-places] + "." + digits[len(digits)-places:]
	}
	if v < 0 {
		digits = "-" + digits
	}
	return digits
}

// BRL formats an amount the pt-BR way: "R$ 1.234,56".
func BRL(v float64) string {
	return "R$ " + humanize.FormatFloat("#.###,##", v)
}
