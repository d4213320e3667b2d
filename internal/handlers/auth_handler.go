package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agenda-academica/academic-service/internal/config"
	"github.com/agenda-academica/academic-service/internal/services"
	"github.com/agenda-academica/academic-service/internal/utils"
	"github.com/agenda-academica/academic-service/internal/validator"
)

const refreshCookieName = "refresh_token"

// TokenResponse is returned by login and refresh. The refresh token travels
// only in the refresh_token cookie.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
	cookie      config.AuthConfig
}

func NewAuthHandler(authService services.AuthService, cookie config.AuthConfig, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
		cookie:      cookie,
	}
}

// Login exchanges username and password for a token pair
// @Summary Login
// @Description Verifies the credentials, returns an access token and sets the refresh_token cookie
// @Tags usuario
// @Accept json
// @Produce json
// @Param credentials body validator.LoginRequest true "Username and password"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /usuario/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req validator.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Login attempt", "username", req.Username)

	pair, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.issue(c, pair)
}

// Refresh rotates the token pair. The refresh token is read from the body
// and falls back to the cookie.
// @Summary Refresh tokens
// @Tags usuario
// @Accept json
// @Produce json
// @Param body body validator.RefreshRequest false "Refresh token"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} ErrorResponse
// @Router /usuario/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req validator.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}

	token := req.RefreshToken
	if token == "" {
		token, _ = c.Cookie(refreshCookieName)
	}

	pair, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.issue(c, pair)
}

func (h *AuthHandler) issue(c *gin.Context, pair *services.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		refreshCookieName,
		pair.RefreshToken,
		int(h.authService.RefreshTTL().Seconds()),
		"/",
		h.cookie.CookieDomain,
		h.cookie.CookieSecure,
		true,
	)

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   "bearer",
	})
}
