package adapters

import (
	"github.com/de-tools/variation-atlas/pkg/models/api"
	"github.com/de-tools/variation-atlas/pkg/models/domain"
	"github.com/de-tools/variation-atlas/pkg/models/store"
)

func MapStoreRunToDomain(r *store.AnalysisRun) *domain.AnalysisRun {
	if r == nil {
		return nil
	}

	return &domain.AnalysisRun{
		ID:         r.ID,
		SourceKey:  r.SourceKey,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		Status:     domain.RunStatus(r.Status),
		Products:   int(r.Products),
		Variations: int(r.Variations),
		TotalUnits: r.TotalUnits,
		Error:      r.Error,
		CreatedAt:  r.CreatedAt,
	}
}

func MapDomainRunToStore(dr domain.AnalysisRun) store.AnalysisRun {
	return store.AnalysisRun{
		ID:         dr.ID,
		SourceKey:  dr.SourceKey,
		StartDate:  dr.StartDate,
		EndDate:    dr.EndDate,
		Status:     string(dr.Status),
		Products:   int64(dr.Products),
		Variations: int64(dr.Variations),
		TotalUnits: dr.TotalUnits,
		Error:      dr.Error,
		CreatedAt:  dr.CreatedAt,
	}
}

func MapDomainRunToAPI(dr domain.AnalysisRun) api.AnalysisRun {
	run := api.AnalysisRun{
		ID:         dr.ID,
		SourceKey:  dr.SourceKey,
		StartDate:  dr.StartDate,
		EndDate:    dr.EndDate,
		Status:     string(dr.Status),
		Products:   dr.Products,
		Variations: dr.Variations,
		TotalUnits: dr.TotalUnits,
		CreatedAt:  dr.CreatedAt,
	}
	if dr.Error != nil {
		run.Error = *dr.Error
	}
	return run
}
