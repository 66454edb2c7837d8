package adapters

import (
	"github.com/de-tools/variation-atlas/pkg/models/api"
	"github.com/de-tools/variation-atlas/pkg/models/domain"
)

func MapDomainResultToAPI(r domain.ProcessingResult) api.ProcessedData {
	return api.ProcessedData{
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		Announcements:    mapProducts(r.AllProducts),
		TopAnnouncements: mapProducts(r.TopProducts),
	}
}

func mapProducts(products []domain.ProductAggregate) []api.Announcement {
	out := make([]api.Announcement, 0, len(products))
	for _, p := range products {
		variations := make([]api.Variation, 0, len(p.Variations))
		for _, v := range p.Variations {
			variations = append(variations, api.Variation{
				ItemID:                  v.ProductID,
				VariationID:             v.VariationID,
				VariationName:           v.VariationName,
				UnitsSold:               v.UnitsSold,
				SalesBRL:                v.SalesAmount,
				ConversionRate:          v.ConversionRate,
				ConsumptionWindowTotal:  v.ConsumptionWindowTotal,
				ConsumptionDailyAverage: v.ConsumptionDailyAverage,
			})
		}
		out = append(out, api.Announcement{
			ItemID:         p.ProductID,
			ProductName:    p.ProductName,
			TotalUnitsSold: p.TotalUnitsSold,
			Variations:     variations,
		})
	}
	return out
}

func MapDomainChartsToAPI(c domain.ChartData) api.Charts {
	charts := api.Charts{
		Grouped: make([]api.GroupedSeries, 0, len(c.Grouped)),
		Stacked: make([]api.StackedSeries, 0, len(c.Stacked)),
	}
	for _, s := range c.Grouped {
		series := api.GroupedSeries{
			ItemID:      s.ProductID,
			ProductName: s.ProductName,
			TotalUnits:  s.TotalUnits,
			Variations:  make([]api.GroupedVariation, 0, len(s.Points)),
		}
		for _, p := range s.Points {
			series.Variations = append(series.Variations, api.GroupedVariation{Name: p.Name, Units: p.Value})
		}
		charts.Grouped = append(charts.Grouped, series)
	}
	for _, s := range c.Stacked {
		series := api.StackedSeries{
			ItemID:      s.ProductID,
			ProductName: s.ProductName,
			TotalUnits:  s.TotalUnits,
			Variations:  make([]api.StackedVariation, 0, len(s.Points)),
		}
		for _, p := range s.Points {
			series.Variations = append(series.Variations, api.StackedVariation{Name: p.Name, Percentage: p.Value})
		}
		charts.Stacked = append(charts.Stacked, series)
	}
	return charts
}

// MapOutcomeToAPI builds the success envelope of an analysis.
func MapOutcomeToAPI(o *domain.AnalysisOutcome) api.AnalysisResponse {
	data := MapDomainResultToAPI(o.Result)
	charts := MapDomainChartsToAPI(o.Charts)
	return api.AnalysisResponse{
		Success: true,
		RunID:   o.RunID,
		Data:    &data,
		Report:  o.Report,
		Charts:  &charts,
	}
}
