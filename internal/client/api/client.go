// Package api implements the HTTP client the rest of the Scribe client is
// built on. Every call goes out with the current access token attached and
// comes back through a response interceptor that transparently refreshes an
// expired token and replays the request once.
//
// The refresh-and-retry behavior is an explicit decorator (withAuthRefresh)
// around the base transport call, and concurrent expiries are coalesced into
// a single in-flight refresh whose result every waiter shares.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/scribe-blog/scribe/internal/common"
	"github.com/scribe-blog/scribe/internal/logging"
	"github.com/scribe-blog/scribe/internal/validate"
)

// TokenSource supplies the bearer token for outbound calls and persists
// replacements obtained through the refresh protocol. The session store is
// the only implementation outside of tests.
type TokenSource interface {
	// AccessToken returns the current token, durable tier first, then
	// ephemeral. Empty string means the call goes out unauthenticated.
	AccessToken(ctx context.Context) (string, error)

	// StoreAccessToken persists a freshly refreshed token into whichever
	// tier the current remember flag selects.
	StoreAccessToken(ctx context.Context, token string) error

	// Reset wipes both storage tiers. Called when a refresh fails.
	Reset(ctx context.Context) error
}

// Response is the decoded success envelope of an API call.
type Response struct {
	Status  int
	Message string
	Data    json.RawMessage
}

// Client wraps net/http with the auth interceptor pair. The cookie jar
// carries the refresh token between login and /auth/refresh.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     logging.Logger

	refresh     singleflight.Group
	onAuthReset func()
}

func New(baseURL string, tokens TokenSource, log logging.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: 15 * time.Second},
		tokens:  tokens,
		log:     log,
	}, nil
}

// SetTimeout overrides the per-request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.http.Timeout = d
}

// OnAuthReset registers the hook invoked after a failed refresh wiped the
// session. The composition root uses it to drop all in-memory state instead
// of relying on a process restart.
func (c *Client) OnAuthReset(fn func()) {
	c.onAuthReset = fn
}

// Do issues a JSON request. A nil body sends no payload.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
	}

	call := c.withAuthRefresh(func(ctx context.Context) (*Response, error) {
		return c.do(ctx, method, path, payload, "application/json")
	})
	return call(ctx)
}

// DoRaw issues a request with a prebuilt body and content type, e.g. a
// multipart profile update. The bytes are replayed as-is on a refresh retry.
func (c *Client) DoRaw(ctx context.Context, method, path string, body []byte, contentType string) (*Response, error) {
	call := c.withAuthRefresh(func(ctx context.Context) (*Response, error) {
		return c.do(ctx, method, path, body, contentType)
	})
	return call(ctx)
}

type callFunc func(ctx context.Context) (*Response, error)

// withAuthRefresh decorates a base call with the expiry protocol: a 401 whose
// message is exactly the token-expired sentinel triggers one refresh, then
// one replay. Anything else propagates unchanged, including a second expired
// 401 on the replayed request.
func (c *Client) withAuthRefresh(call callFunc) callFunc {
	return func(ctx context.Context) (*Response, error) {
		res, err := call(ctx)
		if !isTokenExpired(err) {
			return res, err
		}

		if err := c.refreshAccessToken(ctx); err != nil {
			return nil, err
		}

		return call(ctx)
	}
}

func isTokenExpired(err error) bool {
	var terr *TransportError
	return errors.As(err, &terr) &&
		terr.Status == http.StatusUnauthorized &&
		terr.Message == common.MsgTokenExpired
}

// refreshAccessToken exchanges the refresh cookie for a new access token and
// persists it. Concurrent callers share one in-flight exchange. On failure
// the session is wiped and the reset hook fires before the error propagates.
func (c *Client) refreshAccessToken(ctx context.Context) error {
	_, err, _ := c.refresh.Do("refresh", func() (any, error) {
		res, err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, "")
		if err != nil {
			return nil, err
		}

		token, err := decodeRefresh(res.Data)
		if err != nil {
			return nil, err
		}

		return nil, c.tokens.StoreAccessToken(ctx, token)
	})

	if err != nil {
		c.log.Warn(ctx, "token refresh failed, resetting session", "error", err)
		if rerr := c.tokens.Reset(ctx); rerr != nil {
			c.log.Error(ctx, "session reset failed", "error", rerr)
		}
		if c.onAuthReset != nil {
			c.onAuthReset()
		}
		return fmt.Errorf("refreshing access token: %w", err)
	}

	return nil
}

// envelopeBody mirrors the server's uniform {data, message, errors} envelope.
type envelopeBody struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Errors  validate.Errors `json:"errors"`
}

// do performs one HTTP round trip: attach token, send, decode envelope, map
// non-2xx to TransportError.
func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading access token: %w", err)
	}
	if token != "" {
		req.Header.Set(common.AuthHeaderName, "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Message: err.Error(), cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Message: err.Error(), cause: err}
	}

	var envelope envelopeBody
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &envelope); err != nil {
			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				return nil, &TransportError{
					Status:  resp.StatusCode,
					Message: http.StatusText(resp.StatusCode),
				}
			}
			return nil, &DecodeError{Op: method + " " + path, Err: err}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			Status:      resp.StatusCode,
			Message:     envelope.Message,
			FieldErrors: envelope.Errors,
		}
	}

	return &Response{
		Status:  resp.StatusCode,
		Message: envelope.Message,
		Data:    envelope.Data,
	}, nil
}
