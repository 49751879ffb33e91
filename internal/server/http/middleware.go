package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/scribe-blog/scribe/internal/common"
	"github.com/scribe-blog/scribe/internal/server/auth"
)

// userIdKey is the context key the auth middleware stores the caller's id
// under.
const userIdKey = "user_id"

// AuthRequired gates a route group on a valid access token. An expired token
// answers with the exact message the client's refresh interceptor matches on;
// any other problem is just an invalid token.
func AuthRequired(secretKey []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(common.AuthHeaderName)
			if header == "" {
				return Message(c, http.StatusUnauthorized, "You need to login first")
			}

			tokenString := strings.TrimPrefix(header, "Bearer ")

			claims, err := auth.ParseToken(tokenString, secretKey)
			if err != nil {
				if errors.Is(err, common.ErrTokenExpired) {
					return Message(c, http.StatusUnauthorized, common.MsgTokenExpired)
				}
				return Message(c, http.StatusUnauthorized, "Invalid Token")
			}

			c.Set(userIdKey, claims.UserId)
			return next(c)
		}
	}
}

func authId(c echo.Context) int {
	id, _ := c.Get(userIdKey).(int)
	return id
}
