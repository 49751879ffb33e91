// Package common contains shared constants and sentinel errors used across
// Scribe components.
package common

const (
	// AuthHeaderName is the HTTP header used to carry the access token on
	// outbound API requests.
	AuthHeaderName = "Authorization"

	// RefreshCookieName is the cookie that transports the refresh token
	// between the client and the auth endpoints.
	RefreshCookieName = "refresh_token"

	// StorageKeyUser and StorageKeyAccessToken are the two keys every
	// client-side storage tier holds.
	StorageKeyUser        = "user"
	StorageKeyAccessToken = "access_token"

	// MsgTokenExpired is the exact message the server returns with a 401
	// when the access token is expired but still refreshable. The client
	// matches it literally to trigger the refresh protocol.
	MsgTokenExpired = "Token Expired"
)
