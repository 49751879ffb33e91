package api

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/scribe-blog/scribe/internal/validate"
)

// Envelope tracks the state of a single API call for whoever issued it:
// loading flag, terminal status, server message, field errors and the raw
// result payload. One envelope per operation; create fresh, consume, discard.
//
// Loading is true from just before dispatch until the terminal outcome is
// known, including any transparent refresh and retry in between. Callers
// must not read Data or Errors while Loading is set. An Envelope is not safe
// for concurrent use.
type Envelope struct {
	Loading bool
	Status  int
	Message string
	Errors  validate.Errors
	Data    json.RawMessage
}

func NewEnvelope() *Envelope {
	return &Envelope{}
}

// Do runs the call through c and folds the outcome into the envelope.
// Transport failures land in Status/Message/Errors instead of escaping, so
// the caller can render them uniformly; only the error's presence is
// returned for flow control.
func (rr *Envelope) Do(ctx context.Context, c *Client, method, path string, body any) error {
	rr.Loading = true
	defer func() { rr.Loading = false }()

	res, err := c.Do(ctx, method, path, body)
	return rr.consume(res, err)
}

// DoRaw is Do for prebuilt bodies (multipart uploads).
func (rr *Envelope) DoRaw(ctx context.Context, c *Client, method, path string, body []byte, contentType string) error {
	rr.Loading = true
	defer func() { rr.Loading = false }()

	res, err := c.DoRaw(ctx, method, path, body, contentType)
	return rr.consume(res, err)
}

func (rr *Envelope) consume(res *Response, err error) error {
	if err != nil {
		var terr *TransportError
		if errors.As(err, &terr) {
			rr.Status = terr.Status
			rr.Message = terr.Message
			rr.Errors = terr.FieldErrors
		} else {
			rr.Message = err.Error()
		}
		return err
	}

	rr.Status = res.Status
	rr.Message = res.Message
	rr.Data = res.Data
	return nil
}

// Decode unmarshals the envelope's data payload into v.
func (rr *Envelope) Decode(v any) error {
	if len(rr.Data) == 0 {
		return &DecodeError{Op: "envelope", Err: errors.New("no data in response")}
	}
	if err := json.Unmarshal(rr.Data, v); err != nil {
		return &DecodeError{Op: "envelope", Err: err}
	}
	return nil
}

// Ok reports a terminal 2xx outcome.
func (rr *Envelope) Ok() bool {
	return !rr.Loading && rr.Status >= 200 && rr.Status <= 299
}
