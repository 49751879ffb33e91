// Package http is the server's HTTP surface: an echo server speaking the
// uniform {data, message, errors} envelope every client call expects.
package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scribe-blog/scribe/internal/server/validate"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
}

func JSON(c echo.Context, code int, res Response) error {
	return c.JSON(code, res)
}

// Message is a small wrapper around JSON for message-only responses.
func Message(c echo.Context, code int, msg string) error {
	return JSON(c, code, Response{Message: msg})
}

// Invalid answers a failed input validation.
func Invalid(c echo.Context, errs *validate.InputError) error {
	return JSON(c, http.StatusBadRequest, Response{
		Message: "Some fields are invalid",
		Errors:  errs,
	})
}
