package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsAndActivity(t *testing.T) {
	api := newTestAPI(t)
	token := api.bootstrap(t)

	folder, err := api.Catalog.CreateFolder("Wedding", nil)
	require.NoError(t, err)
	require.NoError(t, api.Activity.Log("gallery_view", "tok", folder.Name, "", "10.0.0.1", nil))

	w := api.do(t, http.MethodGet, "/api/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		FolderCount int64 `json:"folder_count"`
		FileCount   int64 `json:"file_count"`
	}
	decodeJSON(t, w, &stats)
	assert.Equal(t, int64(1), stats.FolderCount)
	assert.Zero(t, stats.FileCount)

	w = api.do(t, http.MethodGet, "/api/activity", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []struct {
		Action string `json:"action"`
	}
	decodeJSON(t, w, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, "gallery_view", entries[0].Action)

	t.Run("clear", func(t *testing.T) {
		w := api.do(t, http.MethodDelete, "/api/activity", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = api.do(t, http.MethodGet, "/api/activity", token, nil)
		decodeJSON(t, w, &entries)
		assert.Empty(t, entries)
	})
}
