package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/ReplyPilot/review_pilot_app/internal/core/ports/services"
	"github.com/ReplyPilot/review_pilot_app/internal/dto"
	"github.com/ReplyPilot/review_pilot_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// syncHandler handles sync pass requests.
type syncHandler struct {
	syncService portssvc.SyncSvcFacade
}

func newSyncHandler(ss portssvc.SyncSvcFacade) *syncHandler {
	return &syncHandler{syncService: ss}
}

// registerSyncRoutes registers the account sync route.
func registerSyncRoutes(rg *gin.RouterGroup, syncService portssvc.SyncSvcFacade) {
	h := newSyncHandler(syncService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("/:accountID/sync", h.runSync)
	}
}

// runSync godoc
// @Summary Run a sync pass for one connected account
// @Description Pulls locations and reviews from the provider and upserts them; per-location failures are reported inside the response
// @Tags sync
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.SyncReportResponse
// @Failure 401 {object} map[string]string "Unauthorized or provider credential expired"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 502 {object} map[string]string "Provider unavailable"
// @Security BearerAuth
// @Router /accounts/{accountID}/sync [post]
func (h *syncHandler) runSync(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	accountID := c.Param("accountID")

	report, err := h.syncService.RunSync(c.Request.Context(), userID, accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Sync pass finished",
		slog.String("account_id", accountID),
		slog.Int("synced_locations", report.SyncedLocations),
		slog.Int("failed_locations", len(report.Errors)),
	)
	c.JSON(http.StatusOK, dto.ToSyncReportResponse(report))
}
