package services

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"couples-gallery/internal/repositories"
	"couples-gallery/internal/storage"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	Folders *repositories.FolderRepository
	Files   *repositories.FileRepository
	Shares  *repositories.ShareRepository
	Stores  *storage.Stores

	Media   *MediaService
	Access  *AccessService
	Catalog *CatalogService
	Library *LibraryService
	Archive *ArchiveService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

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

	log := zap.NewNop()
	folders := repositories.NewFolderRepository(db)
	files := repositories.NewFileRepository(db)
	shares := repositories.NewShareRepository(db)

	media := NewMediaService(stores, 1500, log)
	access := NewAccessService(folders)

	return &testEnv{
		Folders: folders,
		Files:   files,
		Shares:  shares,
		Stores:  stores,
		Media:   media,
		Access:  access,
		Catalog: NewCatalogService(folders, files, shares, stores, log),
		Library: NewLibraryService(folders, files, stores, media, access, log),
		Archive: NewArchiveService(folders, files, stores, log),
	}
}

// pngBytes renders a solid-color PNG of the given size.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
