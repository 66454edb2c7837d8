package domain

import "time"

type AnalysisRequest struct {
	SourceKey string
	StartDate string
	EndDate   string
}

type AnalysisOutcome struct {
	RunID  string
	Result ProcessingResult
	Report string
	Charts ChartData
}

type RunStatus string

const (
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// AnalysisRun is the history entry kept for every analysis attempt.
type AnalysisRun struct {
	ID         string
	SourceKey  string
	StartDate  string
	EndDate    string
	Status     RunStatus
	Products   int
	Variations int
	TotalUnits float64
	Error      *string
	CreatedAt  time.Time
}
