package analysis

import (
	"sort"

	"github.com/de-tools/variation-atlas/pkg/models/domain"
)

// TopProductsLimit is how many products make up the top ranking.
const TopProductsLimit = 5

// Aggregate groups records by product id in first-seen order. The product name is taken
// from the first record of each product. Duplicate variation ids are not merged.
func Aggregate(records []domain.VariationRecord) []domain.ProductAggregate {
	products := make([]domain.ProductAggregate, 0)
	index := make(map[string]int)

	for _, rec := range records {
		i, ok := index[rec.ProductID]
		if !ok {
			i = len(products)
			index[rec.ProductID] = i
			products = append(products, domain.ProductAggregate{
				ProductID:   rec.ProductID,
				ProductName: rec.ProductName,
			})
		}
		products[i].Variations = append(products[i].Variations, rec)
		products[i].TotalUnitsSold += rec.UnitsSold
	}

	return products
}

// Rank orders variations inside every product and the products themselves by units sold,
// highest first. Both sorts are stable. Empty dates are reported as "Unknown".
func Rank(products []domain.ProductAggregate, startDate, endDate string) domain.ProcessingResult {
	for i := range products {
		variations := products[i].Variations
		sort.SliceStable(variations, func(a, b int) bool {
			return variations[a].UnitsSold > variations[b].UnitsSold
		})
	}
	sort.SliceStable(products, func(a, b int) bool {
		return products[a].TotalUnitsSold > products[b].TotalUnitsSold
	})

	top := len(products)
	if top > TopProductsLimit {
		top = TopProductsLimit
	}

	return domain.ProcessingResult{
		StartDate:   orUnknown(startDate),
		EndDate:     orUnknown(endDate),
		AllProducts: products,
		TopProducts: products[:top:top],
	}
}

func orUnknown(s string) string {
	if s == "" {
		return domain.UnknownLabel
	}
	return s
}
