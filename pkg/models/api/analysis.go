package api

import "time"

type AnalysisRequest struct {
	FilePath  string `json:"filePath"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

type Variation struct {
	ItemID                  string  `json:"itemId"`
	VariationID             string  `json:"variationId"`
	VariationName           string  `json:"variationName"`
	UnitsSold               float64 `json:"unitsSold"`
	SalesBRL                float64 `json:"salesBRL"`
	ConversionRate          float64 `json:"conversionRate"`
	ConsumptionWindowTotal  float64 `json:"consumo30Days"`
	ConsumptionDailyAverage float64 `json:"consumoDailyAvg"`
}

type Announcement struct {
	ItemID         string      `json:"itemId"`
	ProductName    string      `json:"productName"`
	TotalUnitsSold float64     `json:"totalUnitsSold"`
	Variations     []Variation `json:"variations"`
}

type ProcessedData struct {
	StartDate        string         `json:"startDate"`
	EndDate          string         `json:"endDate"`
	Announcements    []Announcement `json:"announcements"`
	TopAnnouncements []Announcement `json:"topAnnouncements"`
}

type GroupedVariation struct {
	Name  string  `json:"name"`
	Units float64 `json:"units"`
}

type StackedVariation struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

type GroupedSeries struct {
	ItemID      string             `json:"itemId"`
	ProductName string             `json:"productName"`
	TotalUnits  float64            `json:"totalUnits"`
	Variations  []GroupedVariation `json:"variations"`
}

type StackedSeries struct {
	ItemID      string             `json:"itemId"`
	ProductName string             `json:"productName"`
	TotalUnits  float64            `json:"totalUnits"`
	Variations  []StackedVariation `json:"variations"`
}

type Charts struct {
	Grouped []GroupedSeries `json:"grouped"`
	Stacked []StackedSeries `json:"stacked"`
}

// AnalysisResponse is the envelope returned by analysis endpoints. On failure only
// Success and Error are set.
type AnalysisResponse struct {
	Success   bool           `json:"success"`
	RunID     string         `json:"runId,omitempty"`
	SourceKey string         `json:"sourceKey,omitempty"`
	Data      *ProcessedData `json:"data,omitempty"`
	Report    string         `json:"report,omitempty"`
	Charts    *Charts        `json:"charts,omitempty"`
	Error     string         `json:"error,omitempty"`
}

type AnalysisRun struct {
	ID         string    `json:"id"`
	SourceKey  string    `json:"sourceKey"`
	StartDate  string    `json:"startDate"`
	EndDate    string    `json:"endDate"`
	Status     string    `json:"status"`
	Products   int       `json:"products"`
	Variations int       `json:"variations"`
	TotalUnits float64   `json:"totalUnits"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Column struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
}
