package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ReplyPilot/review_pilot_app/internal/core/domain"
	portssvc "github.com/ReplyPilot/review_pilot_app/internal/core/ports/services"
	"github.com/ReplyPilot/review_pilot_app/internal/dto"
	"github.com/ReplyPilot/review_pilot_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reviewHandler handles stored-review reads, drafting and publishing.
type reviewHandler struct {
	reviewService  portssvc.ReviewSvcFacade
	publishService portssvc.PublishSvcFacade
}

func newReviewHandler(rs portssvc.ReviewSvcFacade, ps portssvc.PublishSvcFacade) *reviewHandler {
	return &reviewHandler{reviewService: rs, publishService: ps}
}

// RegisterReviewRoutes registers review listing, drafting and publishing.
func RegisterReviewRoutes(rg *gin.RouterGroup, reviewService portssvc.ReviewSvcFacade, publishService portssvc.PublishSvcFacade) {
	h := newReviewHandler(reviewService, publishService)

	reviews := rg.Group("/reviews")
	{
		reviews.GET("", h.listReviews)
		reviews.POST("/:reviewID/draft", h.generateDraft)
		reviews.POST("/:reviewID/reply", h.publishReply)
	}
	rg.GET("/usage", h.currentUsage)
}

// listReviews godoc
// @Summary List stored reviews
// @Description Returns the caller's stored reviews newest first, with optional location, replied and rating filters and cursor paging
// @Tags reviews
// @Produce  json
// @Param   locationID query string false "Filter by location"
// @Param   replied query bool false "Filter by replied state"
// @Param   minRating query int false "Minimum star rating (1-5)"
// @Param   limit query int false "Page size (max 100)"
// @Param   pageToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListReviewsResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /reviews [get]
func (h *reviewHandler) listReviews(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.ListReviewsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind query for ListReviews", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	reviews, nextToken, err := h.reviewService.ListStoredReviews(c.Request.Context(), userID, req.ToReviewFilter())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListReviewsResponse(reviews, nextToken))
}

// generateDraft godoc
// @Summary Generate a reply draft for a review
// @Description Asks the text service for a drafted reply; the draft is returned to the caller and never persisted
// @Tags reviews
// @Accept  json
// @Produce  json
// @Param   reviewID path string true "Review ID"
// @Param   request body dto.DraftRequest true "Style settings"
// @Success 200 {object} dto.DraftResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Review not found"
// @Failure 502 {object} map[string]string "Draft generation failed"
// @Security BearerAuth
// @Router /reviews/{reviewID}/draft [post]
func (h *reviewHandler) generateDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	reviewID := c.Param("reviewID")

	var req dto.DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for GenerateDraft", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	draft, err := h.reviewService.GenerateDraft(c.Request.Context(), userID, reviewID, req.Style.ToStyleSettings())
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Draft generated", slog.String("review_id", reviewID))
	c.JSON(http.StatusOK, dto.ToDraftResponse(draft))
}

// publishReply godoc
// @Summary Publish a reply to a review
// @Description Posts the drafted text to the provider, marks the review replied and increments the caller's monthly usage counter
// @Tags reviews
// @Accept  json
// @Produce  json
// @Param   reviewID path string true "Review ID"
// @Param   request body dto.PublishReplyRequest true "Reply text and source"
// @Success 200 {object} dto.ReviewResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized or provider credential expired"
// @Failure 404 {object} map[string]string "Review not found"
// @Failure 409 {object} map[string]string "Review already replied"
// @Failure 502 {object} map[string]string "Provider unavailable"
// @Security BearerAuth
// @Router /reviews/{reviewID}/reply [post]
func (h *reviewHandler) publishReply(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	reviewID := c.Param("reviewID")

	var req dto.PublishReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PublishReply", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	review, err := h.publishService.PublishReply(c.Request.Context(), userID, reviewID, req.Text, domain.ReplySource(req.Source))
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Reply published", slog.String("review_id", reviewID), slog.String("source", req.Source))
	c.JSON(http.StatusOK, dto.ToReviewResponse(review))
}

// currentUsage godoc
// @Summary Get the current month's publish counter
// @Tags usage
// @Produce  json
// @Success 200 {object} dto.UsageResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /usage [get]
func (h *reviewHandler) currentUsage(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	counter, err := h.publishService.CurrentUsage(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUsageResponse(counter))
}
