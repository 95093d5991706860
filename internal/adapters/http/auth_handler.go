package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/harmonysync/backend/internal/application/services"
	"github.com/harmonysync/backend/internal/infrastructure/logger"
)

// AuthHandler handles the OAuth handshake and session endpoints.
type AuthHandler struct {
	authService *services.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login redirects the browser to the Google authorization URL.
func (h *AuthHandler) Login(c echo.Context) error {
	url, err := h.authService.LoginURL(c.Request().Context())
	if err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, url)
}

// OAuth2Callback completes the handshake and stores the credential.
func (h *AuthHandler) OAuth2Callback(c echo.Context) error {
	state := c.QueryParam("state")
	code := c.QueryParam("code")

	if err := h.authService.HandleCallback(c.Request().Context(), state, code); err != nil {
		h.logger.Error("OAuth callback failed", "error", err)
		return err
	}

	return c.Redirect(http.StatusFound, "/")
}

// Logout discards the session credential and sends the user home.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context()); err != nil {
		h.logger.Error("Logout failed", "error", err)
		return err
	}

	return c.Redirect(http.StatusFound, "/")
}

// CheckAuth reports whether the session is authenticated. Unauthenticated
// sessions get a 401 with the same body shape so clients branch on either.
func (h *AuthHandler) CheckAuth(c echo.Context) error {
	ok, err := h.authService.IsAuthenticated(c.Request().Context())
	if err != nil {
		return err
	}

	if !ok {
		return c.JSON(http.StatusUnauthorized, AuthCheckResponse{Authenticated: false})
	}

	return c.JSON(http.StatusOK, AuthCheckResponse{Authenticated: true})
}
