// Package auth mints and parses the HS256 tokens the API issues. Access and
// refresh tokens share the claim shape; refresh tokens additionally carry the
// UniqueId checked against the session store.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/scribe-blog/scribe/internal/common"
)

// Claims includes the registered claims plus the user id and, for refresh
// tokens, the unique session id.
type Claims struct {
	jwt.RegisteredClaims
	UserId   int    `json:"user_id"`
	UniqueId string `json:"unique_id,omitempty"`
}

func GenerateToken(claims Claims, secretKey []byte, validityDuration time.Duration) (string, error) {
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(validityDuration))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry. Expiry maps to
// common.ErrTokenExpired so the transport layer can answer with the exact
// message the client's refresh interceptor triggers on.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
