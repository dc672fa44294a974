// Package replywebhook calls the external text-generation webhook that drafts
// review replies. It shapes the request and surfaces failures; all AI logic
// lives on the other side of the wire.
package replywebhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ReplyPilot/review_pilot_app/internal/apperrors"
	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
	portssvc "github.com/ReplyPilot/review_pilot_app/internal/core/ports/services"
)

const defaultTimeout = 30 * time.Second

// Generator implements portssvc.ReplyGeneratorSvc against a JSON webhook.
type Generator struct {
	httpClient *http.Client
	webhookURL string
}

var _ portssvc.ReplyGeneratorSvc = (*Generator)(nil)

// Option configures a Generator.
type Option func(*Generator)

// WithHTTPClient replaces the underlying HTTP client (tests).
func WithHTTPClient(h *http.Client) Option {
	return func(g *Generator) { g.httpClient = h }
}

// WithTimeout overrides the per-call HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) { g.httpClient.Timeout = d }
}

// NewGenerator creates a webhook-backed reply generator.
func NewGenerator(webhookURL string, opts ...Option) *Generator {
	g := &Generator{
		httpClient: &http.Client{Timeout: defaultTimeout},
		webhookURL: webhookURL,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// generateRequest is the webhook's input contract. Style fields pass through
// verbatim.
type generateRequest struct {
	ReviewText     string `json:"reviewText"`
	Rating         int    `json:"rating"`
	Author         string `json:"author"`
	BusinessName   string `json:"businessName"`
	Tone           string `json:"tone,omitempty"`
	Length         string `json:"length,omitempty"`
	Signature      string `json:"signature,omitempty"`
	CustomTemplate string `json:"customTemplate,omitempty"`
}

type generateResponse struct {
	Success bool   `json:"success"`
	Reply   string `json:"reply"`
	Error   string `json:"error,omitempty"`
}

// Generate requests a drafted reply for the review. A non-success response or
// an empty draft surfaces as KindGenerationFailed; the caller may retry
// manually, this adapter never does.
func (g *Generator) Generate(ctx context.Context, review domain.Review, style domain.StyleSettings) (string, error) {
	if g.webhookURL == "" {
		return "", apperrors.NewGenerationFailedError("reply webhook URL is not configured", nil)
	}

	payload := generateRequest{
		ReviewText:     review.Comment,
		Rating:         review.Rating,
		Author:         review.Author,
		BusinessName:   style.BusinessName,
		Tone:           style.Tone,
		Length:         style.Length,
		Signature:      style.Signature,
		CustomTemplate: style.CustomTemplate,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", apperrors.NewGenerationFailedError("failed to encode generation request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.webhookURL, bytes.NewReader(encoded))
	if err != nil {
		return "", apperrors.NewGenerationFailedError("failed to build generation request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", apperrors.NewGenerationFailedError("text service request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apperrors.NewGenerationFailedError(
			fmt.Sprintf("text service returned status %d", resp.StatusCode), nil)
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", apperrors.NewGenerationFailedError("text service returned a malformed response", err)
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "text service reported failure"
		}
		return "", apperrors.NewGenerationFailedError(msg, nil)
	}
	if result.Reply == "" {
		return "", apperrors.NewGenerationFailedError("text service returned an empty draft", nil)
	}
	return result.Reply, nil
}
