package domain

import "time"

// ProviderAccount is a business-profile account as reported by the review
// provider, already validated and typed at the client boundary.
type ProviderAccount struct {
	ResourceName string `json:"resourceName"` // e.g. "accounts/1234567890"
	DisplayName  string `json:"displayName"`
	Role         string `json:"role"`
}

// ProviderLocation is a business listing as reported by the review provider.
type ProviderLocation struct {
	ResourceName string `json:"resourceName"` // e.g. "locations/987654321"
	Name         string `json:"name"`
	Address      string `json:"address"`
	Category     string `json:"category"`
}

// ProviderReview is a customer review as reported by the review provider.
// ExternalID is the canonical deduplication key: the provider review id, or a
// "<placeID>_<unixTime>" value derived by the client for sources that assign
// no native id.
type ProviderReview struct {
	ExternalID   string    `json:"externalID"`
	Author       string    `json:"author"`
	Rating       int       `json:"rating"` // 1..5, 0 for unrecognised provider values
	Comment      string    `json:"comment"`
	CreateTime   time.Time `json:"createTime"`
	HasReply     bool      `json:"hasReply"`
	ReplyComment string    `json:"replyComment,omitempty"`
	ReplyTime    time.Time `json:"replyTime,omitempty"`
}
