package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/ReplyPilot/review_pilot_app/internal/core/ports/services"
	"github.com/ReplyPilot/review_pilot_app/internal/dto"
	"github.com/ReplyPilot/review_pilot_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// locationHandler handles location reads and lifecycle.
type locationHandler struct {
	locationService portssvc.LocationSvcFacade
}

func newLocationHandler(ls portssvc.LocationSvcFacade) *locationHandler {
	return &locationHandler{locationService: ls}
}

// registerLocationRoutes registers location listing, deactivation and stats.
func registerLocationRoutes(rg *gin.RouterGroup, locationService portssvc.LocationSvcFacade) {
	h := newLocationHandler(locationService)

	locations := rg.Group("/locations")
	{
		locations.GET("", h.listLocations)
		locations.DELETE("/:locationID", h.deactivateLocation)
		locations.GET("/:locationID/stats", h.getLocationStats)
	}
}

// listLocations godoc
// @Summary List the caller's active locations
// @Tags locations
// @Produce  json
// @Success 200 {array} dto.LocationResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /locations [get]
func (h *locationHandler) listLocations(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	locations, err := h.locationService.ListLocations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListLocationResponse(locations))
}

// deactivateLocation godoc
// @Summary Deactivate a location
// @Description Soft-deactivates the location; its review history stays stored
// @Tags locations
// @Produce  json
// @Param   locationID path string true "Location ID"
// @Success 204 "Deactivated"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Location not found"
// @Security BearerAuth
// @Router /locations/{locationID} [delete]
func (h *locationHandler) deactivateLocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	locationID := c.Param("locationID")

	if err := h.locationService.DeactivateLocation(c.Request.Context(), userID, locationID); err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Location deactivated", slog.String("location_id", locationID))
	c.Status(http.StatusNoContent)
}

// getLocationStats godoc
// @Summary Get stored review stats for a location
// @Description Review count, replied count and average rating computed over stored reviews
// @Tags locations
// @Produce  json
// @Param   locationID path string true "Location ID"
// @Success 200 {object} dto.LocationStatsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Location not found"
// @Security BearerAuth
// @Router /locations/{locationID}/stats [get]
func (h *locationHandler) getLocationStats(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	locationID := c.Param("locationID")

	stats, err := h.locationService.GetLocationStats(c.Request.Context(), userID, locationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToLocationStatsResponse(stats))
}
