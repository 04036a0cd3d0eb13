package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupFlow(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/setup/status", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		SetupComplete bool `json:"setup_complete"`
	}
	decodeJSON(t, w, &status)
	assert.False(t, status.SetupComplete)

	api.bootstrap(t)

	w = api.do(t, http.MethodGet, "/api/setup/status", "", nil)
	decodeJSON(t, w, &status)
	assert.True(t, status.SetupComplete)

	// Setup is one-shot: a second bootstrap is refused outright.
	w = api.do(t, http.MethodPost, "/api/setup/admin", "", gin.H{
		"username": "intruder",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)
	api.bootstrap(t)

	w := api.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "mark",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token    string `json:"token"`
		Username string `json:"username"`
	}
	decodeJSON(t, w, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "mark", resp.Username)

	t.Run("wrong password", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
			"username": "mark",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
			"username": "ghost",
			"password": "whatever1",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("me", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/auth/me", resp.Token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var me struct {
			Username string `json:"username"`
		}
		decodeJSON(t, w, &me)
		assert.Equal(t, "mark", me.Username)
	})

	t.Run("me without token", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/api/folders", "/api/shares", "/api/stats", "/api/activity"} {
		w := api.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := api.do(t, http.MethodGet, "/api/folders", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
