package report

import "github.com/de-tools/variation-atlas/pkg/models/domain"

// ChartVariationsLimit is how many variations of a product get their own bar.
const ChartVariationsLimit = 5

// BuildChartData prepares grouped (units) and stacked (share of total) bar data for the
// top products. Variations beyond the first ChartVariationsLimit are summed into a single
// OtherVariationsLabel bar, present only when that sum is positive. Products with no units
// get 0% shares.
func BuildChartData(result domain.ProcessingResult) domain.ChartData {
	data := domain.ChartData{
		Grouped: make([]domain.ChartSeries, 0, len(result.TopProducts)),
		Stacked: make([]domain.ChartSeries, 0, len(result.TopProducts)),
	}

	for _, p := range result.TopProducts {
		head := p.Variations
		var otherUnits float64
		if len(head) > ChartVariationsLimit {
			for _, v := range head[ChartVariationsLimit:] {
				otherUnits += v.UnitsSold
			}
			head = head[:ChartVariationsLimit]
		}

		grouped := newSeries(p, len(head)+1)
		stacked := newSeries(p, len(head)+1)
		for _, v := range head {
			grouped.Points = append(grouped.Points, domain.ChartPoint{Name: v.VariationName, Value: v.UnitsSold})
			stacked.Points = append(stacked.Points, domain.ChartPoint{
				Name:  v.VariationName,
				Value: Share(v.UnitsSold, p.TotalUnitsSold),
			})
		}
		if otherUnits > 0 {
			grouped.Points = append(grouped.Points, domain.ChartPoint{Name: domain.OtherVariationsLabel, Value: otherUnits})
			stacked.Points = append(stacked.Points, domain.ChartPoint{
				Name:  domain.OtherVariationsLabel,
				Value: Share(otherUnits, p.TotalUnitsSold),
			})
		}

		data.Grouped = append(data.Grouped, grouped)
		data.Stacked = append(data.Stacked, stacked)
	}

	return data
}

func newSeries(p domain.ProductAggregate, capacity int) domain.ChartSeries {
	return domain.ChartSeries{
		ProductID:   p.ProductID,
		ProductName: p.ProductName,
		TotalUnits:  p.TotalUnitsSold,
		Points:      make([]domain.ChartPoint, 0, capacity),
	}
}
