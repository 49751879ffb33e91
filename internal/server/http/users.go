package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scribe-blog/scribe/internal/common"
	"github.com/scribe-blog/scribe/internal/imgx"
	"github.com/scribe-blog/scribe/internal/server/models"
	"github.com/scribe-blog/scribe/internal/server/services"
	"github.com/scribe-blog/scribe/internal/server/validate"
)

type UserHandlers struct {
	users services.Users
}

func NewUserHandlers(users services.Users) *UserHandlers {
	return &UserHandlers{users: users}
}

// Get serves public profiles; the email never leaves the server here. The
// caller's own record, email included, comes back from login and refresh.
func (h *UserHandlers) Get(c echo.Context) error {
	user, err := h.users.Get(c.Request().Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return Message(c, http.StatusNotFound, "User not found")
		}
		c.Logger().Error(err)
		return Message(c, http.StatusInternalServerError, "Unexpected error when getting user")
	}

	user.Email = ""

	return JSON(c, http.StatusOK, Response{Data: user})
}

func (h *UserHandlers) CheckUsername(c echo.Context) error {
	var payload models.CheckUsernameInput

	if err := c.Bind(&payload); err != nil {
		return Message(c, http.StatusBadRequest, "Error decoding json")
	}

	if errs := validate.Struct(payload); errs != nil {
		return Invalid(c, errs)
	}

	available, err := h.users.CheckUsername(c.Request().Context(), payload.Username)
	if err != nil {
		c.Logger().Error(err)
		return Message(c, http.StatusInternalServerError, "Unexpected error when checking username")
	}

	return JSON(c, http.StatusOK, Response{
		Data: map[string]bool{"available": available},
	})
}

// UpdateProfile handles the multipart profile edit. The avatar part is
// optional; when present it must be a png or jpeg under 2MB.
func (h *UserHandlers) UpdateProfile(c echo.Context) error {
	input := models.ProfileUpdateInput{
		Name: c.FormValue("name"),
		Bio:  c.FormValue("bio"),
	}

	if errs := validate.Struct(input); errs != nil {
		return Invalid(c, errs)
	}

	var avatar io.ReadSeeker
	if fh, err := c.FormFile("avatar"); err == nil {
		f, err := fh.Open()
		if err != nil {
			c.Logger().Error(err)
			return Message(c, http.StatusInternalServerError, "Unexpected error when reading avatar")
		}
		defer f.Close()
		avatar = f
	}

	user, err := h.users.UpdateProfile(c.Request().Context(),
		authId(c), c.Param("username"), input, avatar)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			return Message(c, http.StatusNotFound, "User not found")
		case errors.Is(err, common.ErrUnauthorized):
			return Message(c, http.StatusForbidden, "You are not allowed to edit this profile")
		case errors.Is(err, imgx.ErrType), errors.Is(err, imgx.ErrTooLarge):
			return Message(c, http.StatusBadRequest, "Avatar must be a png or jpeg under 2MB")
		default:
			c.Logger().Error(err)
			return Message(c, http.StatusInternalServerError, "Unexpected error when updating profile")
		}
	}

	return JSON(c, http.StatusOK, Response{Data: user})
}
