package services

import (
	"context"

	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
)

// ReplyGeneratorSvc requests a drafted reply from the external
// text-generation service. It is a request-shaping adapter: style settings
// pass through verbatim and no AI logic lives on this side of the wire.
type ReplyGeneratorSvc interface {
	// Generate returns the drafted reply text for a review, or
	// apperrors.KindGenerationFailed when the service fails or returns an
	// empty draft.
	Generate(ctx context.Context, review domain.Review, style domain.StyleSettings) (string, error)
}
