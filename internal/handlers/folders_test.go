package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolderCRUD(t *testing.T) {
	api := newTestAPI(t)
	token := api.bootstrap(t)

	w := api.do(t, http.MethodPost, "/api/folders", token, gin.H{"name": "Wedding"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var root struct {
		ID uuid.UUID `json:"id"`
	}
	decodeJSON(t, w, &root)

	w = api.do(t, http.MethodPost, "/api/folders", token, gin.H{
		"name":      "Ceremony",
		"parent_id": root.ID.String(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("list children", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/folders?parent_id="+root.ID.String(), token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var folders []struct {
			Name string `json:"name"`
		}
		decodeJSON(t, w, &folders)
		require.Len(t, folders, 1)
		assert.Equal(t, "Ceremony", folders[0].Name)
	})

	t.Run("list all with paths", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/folders/all", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var folders []struct {
			Path string `json:"path"`
		}
		decodeJSON(t, w, &folders)
		paths := make([]string, 0, len(folders))
		for _, f := range folders {
			paths = append(paths, f.Path)
		}
		assert.Contains(t, paths, "Wedding")
		assert.Contains(t, paths, "Wedding/Ceremony")
	})

	t.Run("rename", func(t *testing.T) {
		w := api.do(t, http.MethodPut, "/api/folders/"+root.ID.String(), token, gin.H{"name": "Big Day"})
		require.Equal(t, http.StatusOK, w.Code)
		var f struct {
			Name string `json:"name"`
		}
		decodeJSON(t, w, &f)
		assert.Equal(t, "Big Day", f.Name)
	})

	t.Run("missing parent is a 404", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/folders", token, gin.H{
			"name":      "Orphan",
			"parent_id": uuid.NewString(),
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id is a 400", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/folders/not-a-uuid", token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete cascades", func(t *testing.T) {
		w := api.do(t, http.MethodDelete, "/api/folders/"+root.ID.String(), token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = api.do(t, http.MethodGet, "/api/folders/"+root.ID.String(), token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestFolderDownloadAuth(t *testing.T) {
	api := newTestAPI(t)
	token := api.bootstrap(t)

	folder, err := api.Catalog.CreateFolder("Wedding", nil)
	require.NoError(t, err)

	body, contentType := multipartUpload(t, folder.ID.String(), "shot.png")
	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	api.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	t.Run("no credentials", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/folders/"+folder.ID.String()+"/download", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bearer header", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/folders/"+folder.ID.String()+"/download", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	})

	t.Run("query token", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/folders/"+folder.ID.String()+"/download?token="+token, "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
