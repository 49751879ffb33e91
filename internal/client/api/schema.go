package api

import (
	"encoding/json"
	"errors"

	"github.com/scribe-blog/scribe/internal/client/models"
)

// Typed response schemas, decoded and checked at the transport boundary so a
// malformed server reply fails as a DecodeError instead of propagating zero
// values into session state.

// LoginResult is the payload of POST /auth/login.
type LoginResult struct {
	AccessToken string      `json:"access_token"`
	User        models.User `json:"user"`
}

// RefreshResult is the payload of POST /auth/refresh.
type RefreshResult struct {
	AccessToken string `json:"access_token"`
}

// DecodeLogin extracts and validates a login payload.
func DecodeLogin(data json.RawMessage) (*LoginResult, error) {
	var out LoginResult
	if err := unmarshalData(data, "login", &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, &DecodeError{Op: "login", Err: errors.New("missing access_token")}
	}
	if out.User.Id == 0 {
		return nil, &DecodeError{Op: "login", Err: errors.New("missing user")}
	}
	return &out, nil
}

func decodeRefresh(data json.RawMessage) (string, error) {
	var out RefreshResult
	if err := unmarshalData(data, "refresh", &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", &DecodeError{Op: "refresh", Err: errors.New("missing access_token")}
	}
	return out.AccessToken, nil
}

func unmarshalData(data json.RawMessage, op string, v any) error {
	if len(data) == 0 {
		return &DecodeError{Op: op, Err: errors.New("no data in response")}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}
