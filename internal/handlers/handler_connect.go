package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/ReplyPilot/review_pilot_app/internal/core/ports/services"
	"github.com/ReplyPilot/review_pilot_app/internal/dto"
	"github.com/ReplyPilot/review_pilot_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// connectHandler handles the OAuth connect flow.
type connectHandler struct {
	connectService portssvc.ConnectSvcFacade
}

func newConnectHandler(cs portssvc.ConnectSvcFacade) *connectHandler {
	return &connectHandler{connectService: cs}
}

// registerConnectRoutes sets up the public OAuth connect route. The code
// exchange hits the provider, so the route is rate limited per client IP.
func registerConnectRoutes(rg *gin.Engine, connectService portssvc.ConnectSvcFacade) {
	h := newConnectHandler(connectService)

	// 5 connect attempts per minute per IP
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := limitergin.NewMiddleware(ipLimiter)

	auth := rg.Group("/api/v1/auth")
	{
		auth.GET("/google/url", h.authorizationURL)
		auth.POST("/google/connect", limitMiddleware, h.connectAccount)
	}
}

// authorizationURL godoc
// @Summary Get the provider consent URL
// @Description Returns the Google consent URL the frontend should redirect to, with a state nonce to verify on callback
// @Tags auth
// @Produce  json
// @Param   redirectUri query string true "OAuth redirect URI"
// @Success 200 {object} dto.AuthURLResponse
// @Failure 400 {object} map[string]string "Invalid redirect URI"
// @Router /auth/google/url [get]
func (h *connectHandler) authorizationURL(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AuthURLRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind query for AuthorizationURL", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	url, state, err := h.connectService.AuthorizationURL(req.RedirectURI)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AuthURLResponse{URL: url, State: state})
}

// connectAccount godoc
// @Summary Connect a Google Business Profile account
// @Description Exchanges an OAuth authorization code, stores the accounts and credentials of the consenting identity and returns a session token
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   request body dto.ConnectRequest true "Authorization code and redirect URI"
// @Success 200 {object} dto.ConnectResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Code exchange or identity validation failed"
// @Failure 404 {object} map[string]string "No business profile accounts visible"
// @Failure 429 {object} map[string]string "Too many attempts"
// @Router /auth/google/connect [post]
func (h *connectHandler) connectAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ConnectAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.connectService.ConnectAccount(c.Request.Context(), req.Code, req.RedirectURI)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Account connected", slog.String("user_id", result.User.UserID), slog.Int("accounts", len(result.Accounts)))
	c.JSON(http.StatusOK, dto.ToConnectResponse(result))
}
