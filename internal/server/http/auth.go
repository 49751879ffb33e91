package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/scribe-blog/scribe/internal/common"
	"github.com/scribe-blog/scribe/internal/server/models"
	"github.com/scribe-blog/scribe/internal/server/services"
	"github.com/scribe-blog/scribe/internal/server/validate"
)

type AuthHandlers struct {
	auth       services.Auth
	refreshTTL time.Duration
}

func NewAuthHandlers(auth services.Auth, refreshTTL time.Duration) *AuthHandlers {
	return &AuthHandlers{auth: auth, refreshTTL: refreshTTL}
}

func (h *AuthHandlers) Register(c echo.Context) error {
	var payload models.RegisterInput

	if err := c.Bind(&payload); err != nil {
		return Message(c, http.StatusBadRequest, "Error decoding json")
	}

	if errs := validate.Struct(payload); errs != nil {
		return Invalid(c, errs)
	}

	user, err := h.auth.Register(c.Request().Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrDuplicateEmail):
			return Message(c, http.StatusConflict, "Email already in use")
		case errors.Is(err, common.ErrDuplicateUsername):
			return Message(c, http.StatusConflict, "Username already in use")
		default:
			c.Logger().Error(err)
			return Message(c, http.StatusInternalServerError, "Unexpected error when registering user")
		}
	}

	return JSON(c, http.StatusOK, Response{
		Message: "User succesfully registered",
		Data:    user,
	})
}

func (h *AuthHandlers) Login(c echo.Context) error {
	var payload models.LoginInput

	if err := c.Bind(&payload); err != nil {
		return Message(c, http.StatusBadRequest, "Error decoding json")
	}

	if errs := validate.Struct(payload); errs != nil {
		return Invalid(c, errs)
	}

	user, accessToken, refreshToken, err := h.auth.Login(c.Request().Context(), payload)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			return Message(c, http.StatusUnauthorized, "Invalid credentials")
		}
		c.Logger().Error(err)
		return Message(c, http.StatusInternalServerError, "Unexpected error when logging in")
	}

	h.setRefreshCookie(c, refreshToken, h.refreshTTL)

	return JSON(c, http.StatusOK, Response{
		Data: map[string]any{
			"access_token": accessToken,
			"user":         user,
		},
	})
}

func (h *AuthHandlers) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(common.RefreshCookieName)
	if err != nil {
		return Message(c, http.StatusUnauthorized, "You need to log in first")
	}

	user, accessToken, err := h.auth.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUnauthorized):
			return Message(c, http.StatusUnauthorized, "Unauthorized")
		case errors.Is(err, common.ErrNotFound):
			return Message(c, http.StatusNotFound, "User not found")
		default:
			c.Logger().Error(err)
			return Message(c, http.StatusInternalServerError, "Unexpected error when refreshing token")
		}
	}

	return JSON(c, http.StatusOK, Response{
		Data: map[string]any{
			"access_token": accessToken,
			"user":         user,
		},
	})
}

func (h *AuthHandlers) Logout(c echo.Context) error {
	cookie, err := c.Cookie(common.RefreshCookieName)
	if err != nil {
		return Message(c, http.StatusUnauthorized, "You need to log in first")
	}

	if err := h.auth.Logout(c.Request().Context(), cookie.Value); err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			return Message(c, http.StatusUnauthorized, "Unauthorized")
		}
		c.Logger().Error(err)
		return Message(c, http.StatusInternalServerError, "Unexpected error when logging out")
	}

	h.setRefreshCookie(c, "", -time.Hour)

	return Message(c, http.StatusOK, "Logged out")
}

func (h *AuthHandlers) setRefreshCookie(c echo.Context, value string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     common.RefreshCookieName,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
