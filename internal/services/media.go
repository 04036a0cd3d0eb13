package services

import (
	"image"
	"image/jpeg"
	"os"

	"couples-gallery/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	// decoders
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	thumbnailMaxPx   = 300
	thumbnailQuality = 85
	previewQuality   = 90
)

// MediaService derives thumbnail and preview JPEGs from uploaded images.
// Generation is best effort: a source that fails to decode simply yields no
// derived assets, and the owning upload still succeeds.
type MediaService struct {
	Thumbnails   *storage.Store
	Previews     *storage.Store
	PreviewMaxPx int
	Log          *zap.Logger
}

func NewMediaService(stores *storage.Stores, previewMaxPx int, log *zap.Logger) *MediaService {
	if previewMaxPx <= 0 {
		previewMaxPx = 1500
	}
	return &MediaService{
		Thumbnails:   stores.Thumbnails,
		Previews:     stores.Previews,
		PreviewMaxPx: previewMaxPx,
		Log:          log,
	}
}

// DerivedKey is the blob key for both derived assets of a file.
func DerivedKey(fileID uuid.UUID) string {
	return fileID.String() + ".jpg"
}

// Generate writes the thumbnail and preview for the original at srcPath.
// Errors are logged, never returned; callers must not fail an upload on them.
func (s *MediaService) Generate(srcPath string, fileID uuid.UUID) {
	src, err := decodeImage(srcPath)
	if err != nil {
		s.Log.Warn("derived media skipped, decode failed",
			zap.String("file_id", fileID.String()),
			zap.Error(err),
		)
		return
	}

	key := DerivedKey(fileID)
	if err := s.encodeScaled(s.Thumbnails, key, src, thumbnailMaxPx, thumbnailQuality); err != nil {
		s.Log.Warn("thumbnail generation failed",
			zap.String("file_id", fileID.String()),
			zap.Error(err),
		)
	}
	if err := s.encodeScaled(s.Previews, key, src, s.PreviewMaxPx, previewQuality); err != nil {
		s.Log.Warn("preview generation failed",
			zap.String("file_id", fileID.String()),
			zap.Error(err),
		)
	}
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, os.ErrInvalid
	}
	return img, nil
}

func (s *MediaService) encodeScaled(store *storage.Store, key string, src image.Image, maxPx, quality int) error {
	scaled := scaleDown(src, maxPx)

	tmp, err := os.CreateTemp(os.TempDir(), "derive-*.jpg")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := jpeg.Encode(tmp, scaled, &jpeg.Options{Quality: quality}); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	f, err := os.Open(tmp.Name())
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = store.Put(key, f)
	return err
}

// scaleDown bounds the longest edge to maxPx, preserving aspect ratio, and
// flattens any alpha onto RGB. Sources already within the bound are not
// upscaled, only re-encoded.
func scaleDown(src image.Image, maxPx int) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	nw, nh := w, h
	if w >= h {
		if w > maxPx {
			nw = maxPx
			nh = int(float64(h) * (float64(maxPx) / float64(w)))
		}
	} else {
		if h > maxPx {
			nh = maxPx
			nw = int(float64(w) * (float64(maxPx) / float64(h)))
		}
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	// White base so transparent regions flatten cleanly in JPEG.
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
