package dto

import (
	"time"

	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
)

// ListReviewsRequest narrows the stored-review listing. All fields optional.
type ListReviewsRequest struct {
	LocationID string `form:"locationID"`
	Replied    *bool  `form:"replied"`
	MinRating  int    `form:"minRating" binding:"omitempty,min=1,max=5"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=100"`
	PageToken  string `form:"pageToken"`
}

// ReviewResponse is the public shape of a stored review.
type ReviewResponse struct {
	ReviewID     string     `json:"reviewID"`
	LocationID   string     `json:"locationID"`
	Author       string     `json:"author"`
	Rating       int        `json:"rating"`
	Comment      string     `json:"comment"`
	ReviewDate   time.Time  `json:"reviewDate"`
	Replied      bool       `json:"replied"`
	ReplyContent *string    `json:"replyContent,omitempty"`
	ReplySource  *string    `json:"replySource,omitempty"`
	RepliedAt    *time.Time `json:"repliedAt,omitempty"`
}

// ListReviewsResponse is one page of stored reviews.
type ListReviewsResponse struct {
	Reviews       []ReviewResponse `json:"reviews"`
	NextPageToken string           `json:"nextPageToken,omitempty"`
}

// StyleSettingsRequest shapes a generated reply draft.
type StyleSettingsRequest struct {
	Tone           string `json:"tone"`
	Length         string `json:"length"`
	Signature      string `json:"signature"`
	CustomTemplate string `json:"customTemplate"`
	BusinessName   string `json:"businessName"`
}

// DraftRequest asks for a reply draft with the given style.
type DraftRequest struct {
	Style StyleSettingsRequest `json:"style"`
}

// DraftResponse is an ephemeral reply draft. It is never persisted.
type DraftResponse struct {
	ReviewID    string    `json:"reviewID"`
	Text        string    `json:"text"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// PublishReplyRequest publishes a drafted reply to the provider.
type PublishReplyRequest struct {
	Text   string `json:"text" binding:"required"`
	Source string `json:"source" binding:"required,oneof=ai manual"`
}

// ToStyleSettings converts the style request to its domain form
func (r StyleSettingsRequest) ToStyleSettings() domain.StyleSettings {
	return domain.StyleSettings{
		Tone:           r.Tone,
		Length:         r.Length,
		Signature:      r.Signature,
		CustomTemplate: r.CustomTemplate,
		BusinessName:   r.BusinessName,
	}
}

// ToReviewFilter converts the listing request to its domain form
func (r ListReviewsRequest) ToReviewFilter() domain.ReviewFilter {
	return domain.ReviewFilter{
		LocationID: r.LocationID,
		Replied:    r.Replied,
		MinRating:  r.MinRating,
		Limit:      r.Limit,
		PageToken:  r.PageToken,
	}
}

// ToReviewResponse converts a domain.Review to ReviewResponse DTO
func ToReviewResponse(review *domain.Review) ReviewResponse {
	resp := ReviewResponse{
		ReviewID:     review.ReviewID,
		LocationID:   review.LocationID,
		Author:       review.Author,
		Rating:       review.Rating,
		Comment:      review.Comment,
		ReviewDate:   review.ReviewDate,
		Replied:      review.Replied,
		ReplyContent: review.ReplyContent,
		RepliedAt:    review.RepliedAt,
	}
	if review.ReplySource != nil {
		src := string(*review.ReplySource)
		resp.ReplySource = &src
	}
	return resp
}

// ToListReviewsResponse converts a review page to its response DTO
func ToListReviewsResponse(reviews []domain.Review, nextToken string) ListReviewsResponse {
	res := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		res[i] = ToReviewResponse(&reviews[i])
	}
	return ListReviewsResponse{Reviews: res, NextPageToken: nextToken}
}

// ToDraftResponse converts a domain.ReplyDraft to DraftResponse DTO
func ToDraftResponse(draft *domain.ReplyDraft) DraftResponse {
	return DraftResponse{
		ReviewID:    draft.ReviewID,
		Text:        draft.Text,
		GeneratedAt: draft.GeneratedAt,
	}
}
