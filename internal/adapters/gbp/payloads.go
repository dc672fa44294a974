package gbp

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
)

// Wire schemas for both endpoint families. Fields that only one family emits
// (title vs locationName, storefrontAddress vs address) coexist here; the
// converters pick whichever is populated.

type accountsResponse struct {
	Accounts      []accountPayload `json:"accounts"`
	NextPageToken string           `json:"nextPageToken"`
}

type accountPayload struct {
	Name        string `json:"name"`
	AccountName string `json:"accountName"`
	Type        string `json:"type"`
	Role        string `json:"role"`
}

func (r accountsResponse) toDomain() []domain.ProviderAccount {
	out := make([]domain.ProviderAccount, 0, len(r.Accounts))
	for _, a := range r.Accounts {
		if a.Name == "" {
			continue // unusable without a resource name
		}
		role := a.Role
		if role == "" {
			role = a.Type
		}
		out = append(out, domain.ProviderAccount{
			ResourceName: a.Name,
			DisplayName:  a.AccountName,
			Role:         role,
		})
	}
	return out
}

type locationsResponse struct {
	Locations     []locationPayload `json:"locations"`
	NextPageToken string            `json:"nextPageToken"`
}

type locationPayload struct {
	Name              string          `json:"name"`
	Title             string          `json:"title"`        // v1
	LocationName      string          `json:"locationName"` // v4
	StorefrontAddress *addressPayload `json:"storefrontAddress"`
	Address           *addressPayload `json:"address"`
	Categories        *struct {
		PrimaryCategory *categoryPayload `json:"primaryCategory"`
	} `json:"categories"`
	PrimaryCategory *categoryPayload `json:"primaryCategory"`
}

type addressPayload struct {
	AddressLines       []string `json:"addressLines"`
	Locality           string   `json:"locality"`
	AdministrativeArea string   `json:"administrativeArea"`
	PostalCode         string   `json:"postalCode"`
}

type categoryPayload struct {
	DisplayName string `json:"displayName"`
}

func (p addressPayload) format() string {
	parts := append([]string{}, p.AddressLines...)
	for _, s := range []string{p.Locality, p.AdministrativeArea, p.PostalCode} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func (r locationsResponse) toDomain() []domain.ProviderLocation {
	out := make([]domain.ProviderLocation, 0, len(r.Locations))
	for _, l := range r.Locations {
		if l.Name == "" {
			continue
		}
		name := l.Title
		if name == "" {
			name = l.LocationName
		}
		addr := ""
		if l.StorefrontAddress != nil {
			addr = l.StorefrontAddress.format()
		} else if l.Address != nil {
			addr = l.Address.format()
		}
		category := ""
		if l.Categories != nil && l.Categories.PrimaryCategory != nil {
			category = l.Categories.PrimaryCategory.DisplayName
		} else if l.PrimaryCategory != nil {
			category = l.PrimaryCategory.DisplayName
		}
		out = append(out, domain.ProviderLocation{
			ResourceName: l.Name,
			Name:         name,
			Address:      addr,
			Category:     category,
		})
	}
	return out
}

type reviewsResponse struct {
	Reviews       []reviewPayload `json:"reviews"`
	NextPageToken string          `json:"nextPageToken"`
	TotalCount    int             `json:"totalReviewCount"`
}

type reviewPayload struct {
	ReviewID string `json:"reviewId"`
	Name     string `json:"name"`
	Reviewer struct {
		DisplayName string `json:"displayName"`
		IsAnonymous bool   `json:"isAnonymous"`
	} `json:"reviewer"`
	StarRating  string        `json:"starRating"`
	Comment     string        `json:"comment"`
	CreateTime  time.Time     `json:"createTime"`
	UpdateTime  time.Time     `json:"updateTime"`
	ReviewReply *replyPayload `json:"reviewReply"`
}

type replyPayload struct {
	Comment    string    `json:"comment"`
	UpdateTime time.Time `json:"updateTime"`
}

type replyRequest struct {
	Comment string `json:"comment"`
}

// starRatings maps the provider's enum onto integers. Anything else,
// including STAR_RATING_UNSPECIFIED, maps to 0.
var starRatings = map[string]int{
	"ONE":   1,
	"TWO":   2,
	"THREE": 3,
	"FOUR":  4,
	"FIVE":  5,
}

// RatingFromStar converts a provider star-rating string to 1..5, or 0 for
// unrecognised values.
func RatingFromStar(star string) int {
	return starRatings[star]
}

func (r reviewsResponse) toDomain(locationResource string) []domain.ProviderReview {
	out := make([]domain.ProviderReview, 0, len(r.Reviews))
	for _, p := range r.Reviews {
		author := p.Reviewer.DisplayName
		if author == "" || p.Reviewer.IsAnonymous {
			author = "Anonymous"
		}
		review := domain.ProviderReview{
			ExternalID: externalID(p, locationResource),
			Author:     author,
			Rating:     RatingFromStar(p.StarRating),
			Comment:    p.Comment,
			CreateTime: p.CreateTime,
		}
		if p.ReviewReply != nil && p.ReviewReply.Comment != "" {
			review.HasReply = true
			review.ReplyComment = p.ReviewReply.Comment
			review.ReplyTime = p.ReviewReply.UpdateTime
		}
		out = append(out, review)
	}
	return out
}

// externalID picks the canonical deduplication key. Sources that assign no
// native review id get a derived "<placeID>_<unixTime>" identifier, so the
// store only ever sees one scheme per location.
func externalID(p reviewPayload, locationResource string) string {
	if p.ReviewID != "" {
		return p.ReviewID
	}
	if p.Name != "" {
		return path.Base(p.Name)
	}
	return fmt.Sprintf("%s_%d", path.Base(locationResource), p.CreateTime.Unix())
}
