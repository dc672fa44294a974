// Package gbp is a typed client for the Google Business Profile review API.
// The provider exposes the same capability under two historical endpoint
// families; calls go to the current family first and fall back to the legacy
// one exactly once when the current family answers with a permission denial.
package gbp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ReplyPilot/review_pilot_app/internal/apperrors"
	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
	portssvc "github.com/ReplyPilot/review_pilot_app/internal/core/ports/services"
)

const (
	defaultTimeout        = 15 * time.Second
	defaultRetryBackoff   = 2 * time.Second
	maxRetryAfterHonoured = 10 * time.Second
	pageSize              = 50
)

// endpointFamily builds the concrete URLs of one API generation.
type endpointFamily struct {
	name         string
	accountsURL  func() string
	locationsURL func(accountResource string) string
	reviewsURL   func(accountResource, locationResource string) string
	replyURL     func(accountResource, locationResource, reviewID string) string
}

func defaultFamilies() []endpointFamily {
	const (
		accountMgmtBase  = "https://mybusinessaccountmanagement.googleapis.com/v1"
		businessInfoBase = "https://mybusinessbusinessinformation.googleapis.com/v1"
		legacyBase       = "https://mybusiness.googleapis.com/v4"
	)
	return []endpointFamily{
		{
			name:        "v1",
			accountsURL: func() string { return accountMgmtBase + "/accounts" },
			locationsURL: func(account string) string {
				return businessInfoBase + "/" + account + "/locations?readMask=name,title,storefrontAddress,categories"
			},
			reviewsURL: func(account, location string) string {
				return legacyBase + "/" + account + "/" + location + "/reviews"
			},
			replyURL: func(account, location, reviewID string) string {
				return legacyBase + "/" + account + "/" + location + "/reviews/" + reviewID + "/reply"
			},
		},
		{
			name:        "v4",
			accountsURL: func() string { return legacyBase + "/accounts" },
			locationsURL: func(account string) string {
				return legacyBase + "/" + account + "/locations"
			},
			reviewsURL: func(account, location string) string {
				return legacyBase + "/" + account + "/" + location + "/reviews"
			},
			replyURL: func(account, location, reviewID string) string {
				return legacyBase + "/" + account + "/" + location + "/reviews/" + reviewID + "/reply"
			},
		},
	}
}

// Client implements portssvc.ReviewProviderSvc over net/http.
type Client struct {
	httpClient   *http.Client
	families     []endpointFamily
	retryBackoff time.Duration
	logger       *slog.Logger
}

// Ensure Client implements the provider port.
var _ portssvc.ReviewProviderSvc = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-call HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client (tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// withEndpointFamilies replaces the endpoint strategy list (tests).
func withEndpointFamilies(families []endpointFamily) Option {
	return func(c *Client) { c.families = families }
}

// WithRetryBackoff overrides the wait before the single rate-limit retry.
func WithRetryBackoff(d time.Duration) Option {
	return func(c *Client) { c.retryBackoff = d }
}

// NewClient creates a provider client with the production endpoint families.
func NewClient(logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient:   &http.Client{Timeout: defaultTimeout},
		families:     defaultFamilies(),
		retryBackoff: defaultRetryBackoff,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListAccounts lists the business-profile accounts visible to the token.
func (c *Client) ListAccounts(ctx context.Context, accessToken string) ([]domain.ProviderAccount, error) {
	var accounts []domain.ProviderAccount
	err := c.withFallback(ctx, "listAccounts", func(f endpointFamily) error {
		var payload accountsResponse
		if err := c.getJSON(ctx, f.accountsURL(), accessToken, &payload); err != nil {
			return err
		}
		accounts = payload.toDomain()
		return nil
	})
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return []domain.ProviderAccount{}, nil
		}
		return nil, err
	}
	return accounts, nil
}

// ListLocations lists the listings under one provider account.
func (c *Client) ListLocations(ctx context.Context, accessToken string, accountResource string) ([]domain.ProviderLocation, error) {
	if accountResource == "" {
		return nil, apperrors.NewValidationError("account resource name is required")
	}
	var locations []domain.ProviderLocation
	err := c.withFallback(ctx, "listLocations", func(f endpointFamily) error {
		var payload locationsResponse
		if err := c.getJSON(ctx, f.locationsURL(accountResource), accessToken, &payload); err != nil {
			return err
		}
		locations = payload.toDomain()
		return nil
	})
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return []domain.ProviderLocation{}, nil
		}
		return nil, err
	}
	return locations, nil
}

// ListReviews lists the reviews of one listing, following page tokens so the
// caller sees the complete, provider-ordered set.
func (c *Client) ListReviews(ctx context.Context, accessToken string, accountResource, locationResource string) ([]domain.ProviderReview, error) {
	if locationResource == "" {
		return nil, apperrors.NewValidationError("location resource name is required")
	}
	var reviews []domain.ProviderReview
	err := c.withFallback(ctx, "listReviews", func(f endpointFamily) error {
		reviews = reviews[:0]
		pageToken := ""
		for {
			url := fmt.Sprintf("%s?pageSize=%d", f.reviewsURL(accountResource, locationResource), pageSize)
			if pageToken != "" {
				url += "&pageToken=" + pageToken
			}
			var payload reviewsResponse
			if err := c.getJSON(ctx, url, accessToken, &payload); err != nil {
				return err
			}
			reviews = append(reviews, payload.toDomain(locationResource)...)
			if payload.NextPageToken == "" {
				return nil
			}
			pageToken = payload.NextPageToken
		}
	})
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return []domain.ProviderReview{}, nil
		}
		return nil, err
	}
	return reviews, nil
}

// PostReply publishes the owner reply to a review. Unlike the list calls, a
// 404 here is a hard error: the review the caller holds no longer exists
// upstream.
func (c *Client) PostReply(ctx context.Context, accessToken string, accountResource, locationResource, externalReviewID, comment string) error {
	if locationResource == "" || externalReviewID == "" {
		return apperrors.NewValidationError("location and review identifiers are required")
	}
	if comment == "" {
		return apperrors.NewValidationError("reply comment must not be empty")
	}
	body := replyRequest{Comment: comment}
	return c.withFallback(ctx, "postReply", func(f endpointFamily) error {
		return c.doJSON(ctx, http.MethodPut, f.replyURL(accountResource, locationResource, externalReviewID), accessToken, body, nil)
	})
}

// withFallback runs the call against the endpoint families in order, moving
// to the next family only on a permission denial and at most once. Any other
// outcome, success or failure, is final.
func (c *Client) withFallback(ctx context.Context, op string, call func(f endpointFamily) error) error {
	var lastErr error
	for i, family := range c.families {
		lastErr = call(family)
		if lastErr == nil {
			return nil
		}
		if !apperrors.IsKind(lastErr, apperrors.KindPermissionDenied) || i > 0 {
			return lastErr
		}
		c.logger.Warn("provider denied endpoint family, falling back to legacy",
			slog.String("op", op),
			slog.String("family", family.name),
		)
	}
	return lastErr
}

func (c *Client) getJSON(ctx context.Context, url, accessToken string, out any) error {
	return c.doJSON(ctx, http.MethodGet, url, accessToken, nil, out)
}

// doJSON performs one HTTP exchange, retrying exactly once after a backoff
// window when the provider answers 429.
func (c *Client) doJSON(ctx context.Context, method, url, accessToken string, body, out any) error {
	err := c.doJSONOnce(ctx, method, url, accessToken, body, out)
	if !apperrors.IsKind(err, apperrors.KindRateLimited) {
		return err
	}

	backoff := c.retryBackoff
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if d, ok := retryAfterOf(appErr); ok && d <= maxRetryAfterHonoured {
			backoff = d
		}
	}
	c.logger.Warn("provider rate limited, retrying once",
		slog.String("url", url),
		slog.Duration("backoff", backoff),
	)
	select {
	case <-ctx.Done():
		return apperrors.NewProviderUnavailableError("request cancelled while backing off", ctx.Err())
	case <-time.After(backoff):
	}
	return c.doJSONOnce(ctx, method, url, accessToken, body, out)
}

func (c *Client) doJSONOnce(ctx context.Context, method, url, accessToken string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewProviderUnavailableError("failed to encode request body", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return apperrors.NewProviderUnavailableError("failed to build provider request", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts and transport failures are indistinguishable from the
		// caller's point of view: the provider is unavailable.
		return apperrors.NewProviderUnavailableError("provider request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.classifyStatus(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewProviderUnavailableError("provider returned a malformed response body", err)
	}
	return nil
}

// classifyStatus maps a non-2xx provider response onto the error taxonomy.
func (c *Client) classifyStatus(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	detail := providerErrorDetail(raw)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return apperrors.NewAuthExpiredError("provider rejected the access token", errors.New(detail))
	case http.StatusForbidden:
		return apperrors.NewPermissionDeniedError(
			"provider denied access; enable the Business Profile APIs for this project or check the granted OAuth scopes", errors.New(detail))
	case http.StatusNotFound:
		return apperrors.NewNotFoundError("provider resource not found")
	case http.StatusTooManyRequests:
		appErr := apperrors.NewRateLimitedError("provider rate limit exceeded", errors.New(detail))
		if d, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && d > 0 {
			withRetryAfter(appErr, time.Duration(d)*time.Second)
		}
		return appErr
	default:
		return apperrors.NewProviderUnavailableError(
			fmt.Sprintf("provider returned unexpected status %d: %s", resp.StatusCode, detail), nil)
	}
}

// providerErrorDetail extracts the human message from a Google error payload,
// falling back to the raw body for non-JSON responses.
func providerErrorDetail(raw []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return string(raw)
}

// retryAfter metadata rides along on rate-limit errors without widening the
// AppError type.
type retryAfterError struct {
	error
	after time.Duration
}

func withRetryAfter(appErr *apperrors.AppError, d time.Duration) {
	appErr.Err = retryAfterError{error: appErr.Err, after: d}
}

func retryAfterOf(appErr *apperrors.AppError) (time.Duration, bool) {
	var ra retryAfterError
	if errors.As(appErr.Err, &ra) {
		return ra.after, true
	}
	return 0, false
}
