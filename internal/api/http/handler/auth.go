package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmarkhas/tasklane-server/internal/api/http/middleware"
	"github.com/dmarkhas/tasklane-server/internal/logger"
	"github.com/dmarkhas/tasklane-server/internal/model"
	"github.com/dmarkhas/tasklane-server/internal/service"
)

// AuthHandler exposes the magic link flow over HTTP.
type AuthHandler struct {
	auth          *service.Auth
	secureCookies bool
	logger        *logger.Logger
}

// NewAuth creates a new AuthHandler. secureCookies should be true in
// production so session cookies only travel over TLS.
func NewAuth(auth *service.Auth, secureCookies bool, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, secureCookies: secureCookies, logger: logger}
}

type loginRequest struct {
	Email string `json:"email"`
}

// Login requests a magic link for an email address.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	if err := h.auth.IssueLink(c.Request().Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, model.ErrValidation):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
		case errors.Is(err, model.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "email not authorized"})
		default:
			return handleError(c, err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "magic link sent"})
}

// Verify consumes a magic link token and attaches the minted session as
// a cookie. Invalid, expired and already-used tokens all land on the
// same login error page.
func (h *AuthHandler) Verify(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.Redirect(http.StatusFound, "/login?error=missing_token")
	}

	session, err := h.auth.VerifyLink(c.Request().Context(), token)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			h.logger.Error("verify failed", "error", err.Error())
		}
		return c.Redirect(http.StatusFound, "/login?error=invalid_token")
	}

	h.setSessionCookie(c, session.Token, session.ExpiresAt)
	return c.Redirect(http.StatusFound, "/")
}

// Logout revokes the current session and clears the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	cookie, err := c.Cookie(middleware.SessionCookie)
	if err == nil && cookie.Value != "" {
		if err := h.auth.Logout(c.Request().Context(), cookie.Value); err != nil {
			return handleError(c, err)
		}
	}

	h.clearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies,
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies,
	})
}
