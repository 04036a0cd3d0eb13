package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"couples-gallery/internal/config"
	"couples-gallery/internal/repositories"
	"couples-gallery/internal/services"
	"couples-gallery/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testAPI struct {
	Router *gin.Engine
	Config config.Config

	Folders  *repositories.FolderRepository
	Files    *repositories.FileRepository
	Shares   *repositories.ShareRepository
	Activity *repositories.ActivityRepository
	Products *repositories.ProductRepository

	Catalog *services.CatalogService
	Library *services.LibraryService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repositories.AutoMigrate(db))

	stores, err := storage.NewStores(
		filepath.Join(dir, "files"),
		filepath.Join(dir, "thumbnails"),
		filepath.Join(dir, "previews"),
	)
	require.NoError(t, err)

	cfg := config.Config{
		JWTSecret:            "test-secret",
		JWTExpiryHour:        1,
		ShareDomain:          "https://gallery.test",
		PreviewMaxPx:         1500,
		OrderMinSubtotalCent: 1000,
	}
	log := zap.NewNop()

	admins := repositories.NewAdminRepository(db)
	folders := repositories.NewFolderRepository(db)
	files := repositories.NewFileRepository(db)
	shares := repositories.NewShareRepository(db)
	activity := repositories.NewActivityRepository(db)
	products := repositories.NewProductRepository(db)
	orders := repositories.NewOrderRepository(db)

	media := services.NewMediaService(stores, cfg.PreviewMaxPx, log)
	access := services.NewAccessService(folders)
	catalog := services.NewCatalogService(folders, files, shares, stores, log)
	library := services.NewLibraryService(folders, files, stores, media, access, log)
	archive := services.NewArchiveService(folders, files, stores, log)

	router := gin.New()
	AuthHandler{Admins: admins, Config: cfg, Log: log}.Register(router)
	FolderHandler{Catalog: catalog, Archive: archive, Config: cfg, Log: log}.Register(router)
	FileHandler{Library: library, Archive: archive, Stores: stores, Config: cfg, Log: log}.Register(router)
	ShareHandler{Shares: shares, Folders: folders, Config: cfg, Log: log}.Register(router)
	GalleryHandler{
		Shares:   shares,
		Folders:  folders,
		Activity: activity,
		Catalog:  catalog,
		Library:  library,
		Access:   access,
		Archive:  archive,
		Log:      log,
	}.Register(router)
	OrderHandler{
		Products: products,
		Orders:   orders,
		Shares:   shares,
		Activity: activity,
		Config:   cfg,
		Log:      log,
	}.Register(router)
	StatsHandler{Catalog: catalog, Activity: activity, Config: cfg}.Register(router)

	return &testAPI{
		Router:   router,
		Config:   cfg,
		Folders:  folders,
		Files:    files,
		Shares:   shares,
		Activity: activity,
		Products: products,
		Catalog:  catalog,
		Library:  library,
	}
}

func (api *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	api.Router.ServeHTTP(w, req)
	return w
}

// bootstrap creates the first admin through the setup endpoint and returns
// the issued token.
func (api *testAPI) bootstrap(t *testing.T) string {
	t.Helper()

	w := api.do(t, http.MethodPost, "/api/setup/admin", "", gin.H{
		"username": "mark",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// multipartUpload builds a multipart body with a folder_id field and a small
// PNG payload under the given filename.
func multipartUpload(t *testing.T, folderID, filename string) (*bytes.Buffer, string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 160, B: 90, A: 255})
		}
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if folderID != "" {
		require.NoError(t, mw.WriteField("folder_id", folderID))
	}
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, img))
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}
