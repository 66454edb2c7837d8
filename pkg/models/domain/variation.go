package domain

// ConsumptionWindowDays is the fixed analysis window used for the daily consumption average.
// It does not follow the start/end dates supplied with a run.
const ConsumptionWindowDays = 30

// UnknownLabel replaces missing product names, variation names and dates.
const UnknownLabel = "Unknown"

// VariationRecord is one variation-level detail row of a performance export.
type VariationRecord struct {
	ProductID               string
	ProductName             string
	VariationID             string
	VariationName           string
	UnitsSold               float64
	SalesAmount             float64
	ConversionRate          float64 // percentage points
	ConsumptionWindowTotal  float64
	ConsumptionDailyAverage float64
}

// ProductAggregate rolls up every variation of one advertised product.
type ProductAggregate struct {
	ProductID      string
	ProductName    string
	TotalUnitsSold float64
	Variations     []VariationRecord
}

// ProcessingResult is the ranked output of a single analysis run.
type ProcessingResult struct {
	StartDate   string
	EndDate     string
	AllProducts []ProductAggregate
	TopProducts []ProductAggregate
}
