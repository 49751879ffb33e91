package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribe-blog/scribe/internal/common"
	"github.com/scribe-blog/scribe/internal/logging"
)

// fakeTokens is an in-memory TokenSource recording every mutation.
type fakeTokens struct {
	mu     sync.Mutex
	token  string
	stored []string
	resets int
}

func (f *fakeTokens) AccessToken(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, nil
}

func (f *fakeTokens) StoreAccessToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	f.stored = append(f.stored, token)
	return nil
}

func (f *fakeTokens) Reset(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.resets++
	return nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestClient(t *testing.T, url string, tokens TokenSource) *Client {
	t.Helper()
	c, err := New(url, tokens, testLogger())
	require.NoError(t, err)
	return c
}

func writeEnvelope(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data, "message": message})
}

func TestDo_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, "", map[string]string{"ok": "1"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &fakeTokens{token: "tok-123"})

	_, err := c.Do(context.Background(), http.MethodGet, "/posts", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestDo_NoTokenMeansAnonymousCall(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, "", nil)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &fakeTokens{})

	_, err := c.Do(context.Background(), http.MethodGet, "/posts", nil)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestDo_NonOKCarriesFieldErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Some fields are invalid","errors":{"email":["Is not a valid email"]}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &fakeTokens{})

	_, err := c.Do(context.Background(), http.MethodPost, "/auth/register", map[string]string{})
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusBadRequest, terr.Status)
	assert.Equal(t, "Some fields are invalid", terr.Message)
	assert.Equal(t, []string{"Is not a valid email"}, terr.FieldErrors["email"])
}

func TestDo_NetworkFailureHasZeroStatus(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1", &fakeTokens{})

	_, err := c.Do(context.Background(), http.MethodGet, "/posts", nil)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Zero(t, terr.Status)
	assert.NotEmpty(t, terr.Message)
}

// expiringServer answers data requests with 401/"Token Expired" until the
// client presents a refreshed token, and counts refresh calls.
type expiringServer struct {
	*httptest.Server
	refreshCalls atomic.Int32
	dataCalls    atomic.Int32
}

func newExpiringServer(refreshStatus int) *expiringServer {
	s := &expiringServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			s.refreshCalls.Add(1)
			if refreshStatus != http.StatusOK {
				writeEnvelope(w, refreshStatus, "Unauthorized", nil)
				return
			}
			writeEnvelope(w, http.StatusOK, "", map[string]string{"access_token": "fresh"})
			return
		}

		s.dataCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			writeEnvelope(w, http.StatusUnauthorized, common.MsgTokenExpired, nil)
			return
		}
		writeEnvelope(w, http.StatusOK, "", map[string]string{"value": "payload"})
	}))
	return s
}

func TestWithAuthRefresh_RefreshesOnceAndReplays(t *testing.T) {
	srv := newExpiringServer(http.StatusOK)
	defer srv.Close()

	tokens := &fakeTokens{token: "stale"}
	c := newTestClient(t, srv.URL, tokens)

	res, err := c.Do(context.Background(), http.MethodGet, "/posts", nil)
	require.NoError(t, err)

	// The caller sees the replayed result, not the original 401.
	assert.Equal(t, http.StatusOK, res.Status)
	assert.JSONEq(t, `{"value":"payload"}`, string(res.Data))

	assert.EqualValues(t, 1, srv.refreshCalls.Load())
	assert.EqualValues(t, 2, srv.dataCalls.Load())
	assert.Equal(t, []string{"fresh"}, tokens.stored)
}

func TestWithAuthRefresh_SecondExpiredResponseIsTerminal(t *testing.T) {
	// The server keeps answering "Token Expired" even for the fresh token.
	var refreshCalls, dataCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			refreshCalls.Add(1)
			writeEnvelope(w, http.StatusOK, "", map[string]string{"access_token": "fresh"})
			return
		}
		dataCalls.Add(1)
		writeEnvelope(w, http.StatusUnauthorized, common.MsgTokenExpired, nil)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &fakeTokens{token: "stale"})

	_, err := c.Do(context.Background(), http.MethodGet, "/posts", nil)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusUnauthorized, terr.Status)
	assert.Equal(t, common.MsgTokenExpired, terr.Message)

	// One refresh, two data attempts, never a third.
	assert.EqualValues(t, 1, refreshCalls.Load())
	assert.EqualValues(t, 2, dataCalls.Load())
}

func TestWithAuthRefresh_OtherUnauthorizedIsNotRetried(t *testing.T) {
	var dataCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dataCalls.Add(1)
		writeEnvelope(w, http.StatusUnauthorized, "Invalid Token", nil)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &fakeTokens{token: "bogus"})

	_, err := c.Do(context.Background(), http.MethodGet, "/posts", nil)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "Invalid Token", terr.Message)
	assert.EqualValues(t, 1, dataCalls.Load())
}

func TestWithAuthRefresh_FailedRefreshResetsSession(t *testing.T) {
	srv := newExpiringServer(http.StatusUnauthorized)
	defer srv.Close()

	tokens := &fakeTokens{token: "stale"}
	c := newTestClient(t, srv.URL, tokens)

	var hookFired atomic.Bool
	c.OnAuthReset(func() { hookFired.Store(true) })

	_, err := c.Do(context.Background(), http.MethodGet, "/posts", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refreshing access token")

	assert.Equal(t, 1, tokens.resets)
	assert.True(t, hookFired.Load())
	assert.EqualValues(t, 1, srv.refreshCalls.Load())
}

func TestWithAuthRefresh_ConcurrentExpiriesShareOneRefresh(t *testing.T) {
	const callers = 5

	var arrived sync.WaitGroup
	arrived.Add(callers)

	var refreshCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			refreshCalls.Add(1)
			time.Sleep(20 * time.Millisecond)
			writeEnvelope(w, http.StatusOK, "", map[string]string{"access_token": "fresh"})
			return
		}

		if r.Header.Get("Authorization") != "Bearer fresh" {
			// Hold every first attempt until all callers are in flight so
			// their expiries hit the interceptor together.
			arrived.Done()
			arrived.Wait()
			writeEnvelope(w, http.StatusUnauthorized, common.MsgTokenExpired, nil)
			return
		}
		writeEnvelope(w, http.StatusOK, "", map[string]string{"value": "payload"})
	}))
	defer srv.Close()

	tokens := &fakeTokens{token: "stale"}
	c := newTestClient(t, srv.URL, tokens)

	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = c.Do(context.Background(), http.MethodGet, fmt.Sprintf("/posts/%d", i), nil)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "caller %d", i)
	}
	assert.EqualValues(t, 1, refreshCalls.Load(), "all concurrent expiries must share one refresh")
}

func TestDoRaw_ReplaysMultipartBodyAfterRefresh(t *testing.T) {
	var bodies []string
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			writeEnvelope(w, http.StatusOK, "", map[string]string{"access_token": "fresh"})
			return
		}

		buf := make([]byte, 64)
		n, _ := r.Body.Read(buf)
		mu.Lock()
		bodies = append(bodies, string(buf[:n]))
		mu.Unlock()

		if r.Header.Get("Authorization") != "Bearer fresh" {
			writeEnvelope(w, http.StatusUnauthorized, common.MsgTokenExpired, nil)
			return
		}
		writeEnvelope(w, http.StatusOK, "", nil)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &fakeTokens{token: "stale"})

	_, err := c.DoRaw(context.Background(), http.MethodPatch, "/users/ann", []byte("raw-payload"), "multipart/form-data; boundary=x")
	require.NoError(t, err)

	require.Len(t, bodies, 2)
	assert.Equal(t, bodies[0], bodies[1], "retry must resend the identical body")
}

func TestDo_MalformedSuccessBodyIsDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("not-json"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &fakeTokens{})

	_, err := c.Do(context.Background(), http.MethodGet, "/posts", nil)
	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
	assert.True(t, strings.HasPrefix(derr.Op, "GET"))
}
