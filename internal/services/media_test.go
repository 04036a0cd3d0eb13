package services

import (
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSourceImage(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "src.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, w, h), 0o644))
	return path
}

func TestGenerateDerivedMedia(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()

	env.Media.Generate(writeSourceImage(t, 3000, 2000), id)

	key := DerivedKey(id)
	require.True(t, env.Stores.Thumbnails.Exists(key))
	require.True(t, env.Stores.Previews.Exists(key))

	thumb, err := env.Stores.Thumbnails.Open(key)
	require.NoError(t, err)
	defer thumb.Close()
	timg, err := jpeg.Decode(thumb)
	require.NoError(t, err)
	assert.LessOrEqual(t, timg.Bounds().Dx(), 300)
	assert.LessOrEqual(t, timg.Bounds().Dy(), 300)
	// Aspect ratio survives the downscale.
	assert.Equal(t, 300, timg.Bounds().Dx())
	assert.Equal(t, 200, timg.Bounds().Dy())

	prev, err := env.Stores.Previews.Open(key)
	require.NoError(t, err)
	defer prev.Close()
	pimg, err := jpeg.Decode(prev)
	require.NoError(t, err)
	assert.Equal(t, 1500, pimg.Bounds().Dx())
	assert.Equal(t, 1000, pimg.Bounds().Dy())
}

func TestGenerateNeverUpscales(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()

	env.Media.Generate(writeSourceImage(t, 120, 80), id)

	for _, store := range []interface {
		Open(string) (*os.File, error)
	}{env.Stores.Thumbnails, env.Stores.Previews} {
		f, err := store.Open(DerivedKey(id))
		require.NoError(t, err)
		img, err := jpeg.Decode(f)
		f.Close()
		require.NoError(t, err)
		assert.Equal(t, 120, img.Bounds().Dx())
		assert.Equal(t, 80, img.Bounds().Dy())
	}
}

func TestGenerateSwallowsBadInput(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))

	env.Media.Generate(bad, id)

	assert.False(t, env.Stores.Thumbnails.Exists(DerivedKey(id)))
	assert.False(t, env.Stores.Previews.Exists(DerivedKey(id)))
}

func TestGenerateTallImage(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()

	env.Media.Generate(writeSourceImage(t, 500, 1000), id)

	f, err := env.Stores.Thumbnails.Open(DerivedKey(id))
	require.NoError(t, err)
	defer f.Close()
	img, err := jpeg.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 150, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}
