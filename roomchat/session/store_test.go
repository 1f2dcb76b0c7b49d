package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/roomchat/roomchat-sdk-go/roomchat/rest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req rest.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(rest.ErrorResponse{Message: "Invalid username or password"})
			return
		}
		json.NewEncoder(w).Encode(rest.TokenResponse{
			AccessToken: "token-" + req.Username,
			User:        rest.User{ID: 1, Username: req.Username},
		})
	})
	mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(rest.StatusResponse{Message: "Logged out successfully"})
	})
	return httptest.NewServer(mux)
}

func TestLoginStoresIdentity(t *testing.T) {
	srv := newAuthServer(t)
	defer srv.Close()

	store := NewStore(rest.NewClient(srv.URL + "/api"))
	require.False(t, store.IsAuthenticated())

	id, err := store.Login(context.Background(), "carol", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "carol", id.Username)
	assert.Equal(t, "token-carol", id.Token)
	assert.True(t, store.IsAuthenticated())

	current, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, id, current)
}

func TestLoginFailureLeavesStoreEmpty(t *testing.T) {
	srv := newAuthServer(t)
	defer srv.Close()

	store := NewStore(rest.NewClient(srv.URL + "/api"))
	_, err := store.Login(context.Background(), "carol", "wrong")
	require.Error(t, err)
	assert.False(t, store.IsAuthenticated())
}

func TestLogoutClearsIdentity(t *testing.T) {
	srv := newAuthServer(t)
	defer srv.Close()

	store := NewStore(rest.NewClient(srv.URL + "/api"))
	_, err := store.Login(context.Background(), "carol", "hunter2")
	require.NoError(t, err)

	require.NoError(t, store.Logout(context.Background()))
	assert.False(t, store.IsAuthenticated())
}

func TestLogoutClearsIdentityEvenOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/login" {
			json.NewEncoder(w).Encode(rest.TokenResponse{AccessToken: "tok", User: rest.User{Username: "carol"}})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := NewStore(rest.NewClient(srv.URL + "/api"))
	_, err := store.Login(context.Background(), "carol", "x")
	require.NoError(t, err)

	err = store.Logout(context.Background())
	require.Error(t, err)
	assert.False(t, store.IsAuthenticated(), "identity must clear on every exit path")
}
