package domain

// SyncError records a single failed location inside an otherwise successful
// sync run.
type SyncError struct {
	LocationResource string `json:"locationResource"`
	Reason           string `json:"reason"`
}

// SyncReport summarises one SyncCoordinator pass. Partial failures are
// collected here instead of aborting the run; only a total failure (e.g. the
// account list itself is unreachable) surfaces as an error.
type SyncReport struct {
	AccountID       string      `json:"accountID"`
	SyncedLocations int         `json:"syncedLocations"`
	NewReviews      int         `json:"newReviews"`
	UpdatedReviews  int         `json:"updatedReviews"`
	Errors          []SyncError `json:"errors"`
}
