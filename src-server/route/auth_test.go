package route_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"eventbr/src-server/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDuplicateUsername(t *testing.T) {
	srv, client := newTestServer(t)

	register(t, client, srv.URL, "alice", "pw1")

	resp, body := doJSON(t, client, http.MethodPost, srv.URL+"/auth/register", map[string]string{
		"username": "alice",
		"password": "pw2",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "já existe")
}

func TestRegisterMissingFields(t *testing.T) {
	srv, client := newTestServer(t)

	resp, _ := doJSON(t, client, http.MethodPost, srv.URL+"/auth/register", map[string]string{
		"username": "alice",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	srv, client := newTestServer(t)

	register(t, client, srv.URL, "alice", "pw1")

	// register does not log in
	resp, _ := doJSON(t, client, http.MethodGet, srv.URL+"/state", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// generic rejection for wrong password and for unknown user
	resp, body := doJSON(t, client, http.MethodPost, srv.URL+"/auth/login", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, body2 := doJSON(t, client, http.MethodPost, srv.URL+"/auth/login", map[string]string{
		"username": "nobody",
		"password": "pw1",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, string(body), string(body2))

	login(t, client, srv.URL, "alice", "pw1")

	resp, body = doJSON(t, client, http.MethodGet, srv.URL+"/state", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var state struct {
		Username string `json:"username"`
		State    string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(body, &state))
	assert.Equal(t, "alice", state.Username)
	assert.Equal(t, "listing", state.State)
}

func TestLoginDevMode(t *testing.T) {
	srv, client, _ := newTestEnv(t, true)

	register(t, client, srv.URL, "alice", "pw1")

	// dev mode hands the session secret back in the body instead of a cookie
	resp, body := doJSON(t, client, http.MethodPost, srv.URL+"/auth/login", map[string]string{
		"username": "alice",
		"password": "pw1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp struct {
		SessionSecret string `json:"sessionSecret"`
	}
	require.NoError(t, json.Unmarshal(body, &loginResp))
	assert.NotEmpty(t, loginResp.SessionSecret)
	assert.Empty(t, resp.Header.Get("Set-Cookie"))
}

func TestSessionExpiry(t *testing.T) {
	srv, client, as := newTestEnv(t, false)

	register(t, client, srv.URL, "alice", "pw1")
	login(t, client, srv.URL, "alice", "pw1")

	// age the session past its lifetime
	_, err := as.BunDB.NewUpdate().
		Model((*model.Session)(nil)).
		Set("created_at = ?", time.Now().UTC().Add(-8*24*time.Hour).Unix()).
		Where("username = ?", "alice").
		Exec(context.Background())
	require.NoError(t, err)

	resp, body := doJSON(t, client, http.MethodGet, srv.URL+"/state", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "Session expired")

	// the stale row must be gone, not just rejected
	count, err := as.BunDB.NewSelect().
		Model((*model.Session)(nil)).
		Where("username = ?", "alice").
		Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestLogout(t *testing.T) {
	srv, client := newTestServer(t)

	register(t, client, srv.URL, "alice", "pw1")
	login(t, client, srv.URL, "alice", "pw1")

	resp, _ := doJSON(t, client, http.MethodDelete, srv.URL+"/auth", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, client, http.MethodGet, srv.URL+"/state", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAnonymousRejected(t *testing.T) {
	srv, client := newTestServer(t)

	for _, path := range []string{"/state", "/events"} {
		resp, _ := doJSON(t, client, http.MethodGet, srv.URL+path, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
	resp, _ := doJSON(t, client, http.MethodPost, srv.URL+"/events", validEventBody())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
