package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/daybook/internal/client/models"
	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClientFor(t *testing.T, srv *httptest.Server) *HTTPClient {
	t.Helper()
	c, err := NewDaybookClient(srv.URL)
	require.NoError(t, err)
	return c
}

func TestLogin_StoresTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/login", r.URL.Path)
		_ = json.NewEncoder(w).Encode(tokenResponse{UserID: "u1", AccessToken: "acc", RefreshToken: "ref"})
	}))
	defer srv.Close()

	c := newClientFor(t, srv)
	ownerID, err := c.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u1", ownerID)
	assert.Equal(t, "acc", c.accessToken)
	assert.Equal(t, "ref", c.refreshToken)
}

func TestLogin_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "unauthorized"})
	}))
	defer srv.Close()

	c := newClientFor(t, srv)
	_, err := c.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestDo_RefreshesExpiredTokenAndReplays(t *testing.T) {
	var listCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/entries", func(w http.ResponseWriter, r *http.Request) {
		if listCalls.Add(1) == 1 {
			// first attempt: stale token
			assert.Equal(t, "Bearer stale", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(errorResponse{Error: common.ErrTokenExpired.Error()})
			return
		}
		assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]entryPayload{{Date: "2024-03-15", Content: "hello", UpdatedAt: time.Now()}})
	})
	mux.HandleFunc("/api/users/refresh", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "old-refresh", in["refresh_token"])
		_ = json.NewEncoder(w).Encode(tokenResponse{UserID: "u1", AccessToken: "fresh", RefreshToken: "new-refresh"})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newClientFor(t, srv)
	c.accessToken = "stale"
	c.refreshToken = "old-refresh"

	entries, err := c.ListEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2024-03-15", entries[0].Date)
	assert.Equal(t, "fresh", c.accessToken)
	assert.Equal(t, "new-refresh", c.refreshToken)
	assert.Equal(t, int32(2), listCalls.Load())
}

func TestListEntries_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode([]entryPayload{})
	}))
	defer srv.Close()

	c := newClientFor(t, srv)
	_, err := c.ListEntries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestUpsertEntry_PathCarriesDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/entries/2024-03-15", r.URL.Path)

		var p entryPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.Equal(t, "hello world", p.Content)
		assert.Equal(t, 2, p.WordCount)
	}))
	defer srv.Close()

	c := newClientFor(t, srv)
	err := c.UpsertEntry(context.Background(), models.Entry{Date: "2024-03-15", Content: "hello world", WordCount: 2})
	require.NoError(t, err)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/healthcheck", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))

	c := newClientFor(t, srv)
	assert.NoError(t, c.Ping(context.Background()))

	srv.Close()
	assert.Error(t, c.Ping(context.Background()))
}

func TestMapStatus_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "not found"})
	}))
	defer srv.Close()

	c := newClientFor(t, srv)
	_, err := c.TodayPrompt(context.Background())
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}
