package dto

import "github.com/ReplyPilot/review_pilot_app/internal/core/domain"

// SyncErrorResponse reports one failed location inside a sync pass.
type SyncErrorResponse struct {
	LocationResource string `json:"locationResource"`
	Reason           string `json:"reason"`
}

// SyncReportResponse summarises one sync pass.
type SyncReportResponse struct {
	AccountID       string              `json:"accountID"`
	SyncedLocations int                 `json:"syncedLocations"`
	NewReviews      int                 `json:"newReviews"`
	UpdatedReviews  int                 `json:"updatedReviews"`
	Errors          []SyncErrorResponse `json:"errors"`
}

// ToSyncReportResponse converts a domain.SyncReport to its response DTO
func ToSyncReportResponse(report *domain.SyncReport) SyncReportResponse {
	errs := make([]SyncErrorResponse, len(report.Errors))
	for i, e := range report.Errors {
		errs[i] = SyncErrorResponse{LocationResource: e.LocationResource, Reason: e.Reason}
	}
	return SyncReportResponse{
		AccountID:       report.AccountID,
		SyncedLocations: report.SyncedLocations,
		NewReviews:      report.NewReviews,
		UpdatedReviews:  report.UpdatedReviews,
		Errors:          errs,
	}
}
