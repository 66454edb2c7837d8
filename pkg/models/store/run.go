package store

import "time"

type AnalysisRun struct {
	ID         string
	SourceKey  string
	StartDate  string
	EndDate    string
	Status     string
	Products   int64
	Variations int64
	TotalUnits float64
	Error      *string
	CreatedAt  time.Time
}
