package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type seen struct {
	mu      sync.Mutex
	headers []http.Header
}

func (s *seen) add(h http.Header) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.headers = append(s.headers, h.Clone())
}

func (s *seen) last() http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headers[len(s.headers)-1]
}

func newServer(t *testing.T, h http.HandlerFunc) (*httptest.Server, *seen) {
	t.Helper()
	s := &seen{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.add(r.Header)
		h(w, r)
	}))
	t.Cleanup(func() {
		srv.CloseClientConnections()
		srv.Close()
	})
	return srv, s
}

func closeIdle(t *testing.T, c *Client) {
	t.Helper()
	t.Cleanup(c.http.CloseIdleConnections)
}

func TestBearerHeaderOnlyWithToken(t *testing.T) {
	srv, seen := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	token := ""
	var mu sync.Mutex
	c := New(srv.URL, TokenFunc(func() string {
		mu.Lock()
		defer mu.Unlock()
		return token
	}), WithTransport(&http.Transport{}))
	closeIdle(t, c)

	require.NoError(t, c.GetJSON(context.Background(), "/ping", nil))
	require.Empty(t, seen.last().Get("Authorization"))

	mu.Lock()
	token = "static-admin-token-123456"
	mu.Unlock()
	require.NoError(t, c.GetJSON(context.Background(), "ping", nil))
	require.Equal(t, "Bearer static-admin-token-123456", seen.last().Get("Authorization"))

	_, err := uuid.Parse(seen.last().Get(RequestIDHeader))
	require.NoError(t, err)
}

func TestNilTokenSource(t *testing.T) {
	srv, seen := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c := New(srv.URL, nil, WithTransport(&http.Transport{}))
	closeIdle(t, c)
	require.NoError(t, c.PostJSON(context.Background(), "/x", map[string]string{"a": "b"}, nil))
	h := seen.last()
	require.Empty(t, h.Get("Authorization"))
	require.Equal(t, "application/json", h.Get("Content-Type"))
}

func TestPostJSONDecodes(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "echo": in["email"], "path": r.URL.Path})
	})
	c := New(srv.URL+"/api/subcontractors/", nil, WithTransport(&http.Transport{}))
	closeIdle(t, c)
	require.Equal(t, srv.URL+"/api/subcontractors", c.BaseURL())

	var out struct {
		Success bool   `json:"success"`
		Echo    string `json:"echo"`
		Path    string `json:"path"`
	}
	require.NoError(t, c.PostJSON(context.Background(), "/signup", map[string]string{"email": "a@b.co"}, &out))
	require.True(t, out.Success)
	require.Equal(t, "a@b.co", out.Echo)
	require.Equal(t, "/api/subcontractors/signup", out.Path)
}

func TestAPIError(t *testing.T) {
	cases := []struct {
		status int
		body   string
		msg    string
	}{
		{http.StatusConflict, `{"success":false,"message":"Email already exists"}`, "Email already exists"},
		{http.StatusUnauthorized, `{"error":"invalid token"}`, "invalid token"},
		{http.StatusInternalServerError, ``, ""},
		{http.StatusBadGateway, `<html></html>`, ""},
	}
	for _, tc := range cases {
		srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(tc.body))
		})
		c := New(srv.URL, nil, WithTransport(&http.Transport{}))
		closeIdle(t, c)

		err := c.PostJSON(context.Background(), "/signup", struct{}{}, nil)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr), tc.body)
		require.Equal(t, tc.status, apiErr.Status)
		require.Equal(t, tc.msg, apiErr.Message)
		require.Equal(t, tc.msg, ServerMessage(err))
	}
	require.Empty(t, ServerMessage(errors.New("boom")))
	require.Empty(t, ServerMessage(nil))
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	c := New(srv.URL, nil, WithTransport(&http.Transport{}), WithTimeout(50*time.Millisecond))
	closeIdle(t, c)
	t.Cleanup(func() { close(release) })

	err := c.GetJSON(context.Background(), "/slow", nil)
	require.Error(t, err)
	require.Empty(t, ServerMessage(err))
}

func TestDefaultBaseURL(t *testing.T) {
	c := New("  ", nil)
	require.Equal(t, DefaultBaseURL, c.BaseURL())
	require.Equal(t, DefaultBaseURL+"/signup", c.url("/signup"))
	require.Equal(t, DefaultBaseURL, c.url(""))
}
