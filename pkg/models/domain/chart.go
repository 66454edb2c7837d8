package domain

// OtherVariationsLabel names the bucket collecting variations beyond the charted ones.
const OtherVariationsLabel = "Outras Variações"

type ChartPoint struct {
	Name  string
	Value float64
}

// ChartSeries holds the bars of one product. Point values are units in grouped
// series and percentages of the product total in stacked series.
type ChartSeries struct {
	ProductID   string
	ProductName string
	TotalUnits  float64
	Points      []ChartPoint
}

type ChartData struct {
	Grouped []ChartSeries
	Stacked []ChartSeries
}
