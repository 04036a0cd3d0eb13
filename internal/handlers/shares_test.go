package handlers

import (
	"net/http"
	"testing"

	"couples-gallery/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateShare(t *testing.T) {
	api := newTestAPI(t)
	token := api.bootstrap(t)

	folder, err := api.Catalog.CreateFolder("Wedding", nil)
	require.NoError(t, err)

	w := api.do(t, http.MethodPost, "/api/shares", token, gin.H{
		"folder_id":  folder.ID.String(),
		"token":      "our-big-day",
		"permission": "read",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var view struct {
		Token      string `json:"token"`
		FolderName string `json:"folder_name"`
		ShareURL   string `json:"share_url"`
	}
	decodeJSON(t, w, &view)
	assert.Equal(t, "our-big-day", view.Token)
	assert.Equal(t, "Wedding", view.FolderName)
	assert.Equal(t, "https://gallery.test/our-big-day", view.ShareURL)

	t.Run("duplicate token conflicts", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/shares", token, gin.H{
			"folder_id":  folder.ID.String(),
			"token":      "our-big-day",
			"permission": "edit",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("generated token when omitted", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/shares", token, gin.H{
			"folder_id":  folder.ID.String(),
			"permission": "edit",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var v struct {
			Token string `json:"token"`
		}
		decodeJSON(t, w, &v)
		assert.NotEmpty(t, v.Token)
	})

	t.Run("bad permission rejected", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/shares", token, gin.H{
			"folder_id":  folder.ID.String(),
			"permission": "owner",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing folder", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/shares", token, gin.H{
			"folder_id":  uuid.NewString(),
			"permission": "read",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdateAndDeleteShare(t *testing.T) {
	api := newTestAPI(t)
	token := api.bootstrap(t)

	folder, err := api.Catalog.CreateFolder("Wedding", nil)
	require.NoError(t, err)
	share := models.Share{FolderID: folder.ID, Token: "tok", Permission: models.PermissionRead}
	require.NoError(t, api.Shares.Create(&share))

	w := api.do(t, http.MethodPut, "/api/shares/"+share.ID.String(), token, gin.H{
		"permission": "edit",
	})
	require.Equal(t, http.StatusOK, w.Code)

	got, err := api.Shares.GetByID(share.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PermissionEdit, got.Permission)

	t.Run("delete", func(t *testing.T) {
		w := api.do(t, http.MethodDelete, "/api/shares/"+share.ID.String(), token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = api.do(t, http.MethodDelete, "/api/shares/"+share.ID.String(), token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestShareQRCode(t *testing.T) {
	api := newTestAPI(t)
	token := api.bootstrap(t)

	folder, err := api.Catalog.CreateFolder("Wedding", nil)
	require.NoError(t, err)
	share := models.Share{FolderID: folder.ID, Token: "qr-tok", Permission: models.PermissionRead}
	require.NoError(t, api.Shares.Create(&share))

	w := api.do(t, http.MethodGet, "/api/shares/"+share.ID.String()+"/qr", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, w.Body.Bytes()[:4])
}
