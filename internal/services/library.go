package services

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"couples-gallery/internal/models"
	"couples-gallery/internal/repositories"
	"couples-gallery/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FavouritesFolderName is the folder lazily created under a share root when a
// guest saves favourites.
const FavouritesFolderName = "Album Favourites"

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".heic": true, ".heif": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true,
	".webm": true, ".m4v": true,
}

// ClassifyFile maps a display name's extension to a file type class.
func ClassifyFile(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case imageExtensions[ext]:
		return models.FileTypeImage
	case videoExtensions[ext]:
		return models.FileTypeVideo
	default:
		return models.FileTypeOther
	}
}

// LibraryService owns file lifecycles: streaming uploads with synchronous
// derived-media generation, deletes, and the favourites copy flow.
type LibraryService struct {
	Folders *repositories.FolderRepository
	Files   *repositories.FileRepository
	Stores  *storage.Stores
	Media   *MediaService
	Access  *AccessService
	Log     *zap.Logger
}

func NewLibraryService(
	folders *repositories.FolderRepository,
	files *repositories.FileRepository,
	stores *storage.Stores,
	media *MediaService,
	access *AccessService,
	log *zap.Logger,
) *LibraryService {
	return &LibraryService{Folders: folders, Files: files, Stores: stores, Media: media, Access: access, Log: log}
}

// FileView is the wire shape of a file: the record plus derived URLs, which
// are constructed here and only for images.
type FileView struct {
	models.File
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	PreviewURL   string `json:"preview_url,omitempty"`
}

func NewFileView(f models.File) FileView {
	v := FileView{File: f}
	if f.FileType == models.FileTypeImage {
		v.ThumbnailURL = fmt.Sprintf("/api/files/%s/thumbnail", f.ID)
		v.PreviewURL = fmt.Sprintf("/api/files/%s/preview", f.ID)
	}
	return v
}

// Upload streams r into the originals store and records the file. The size
// stored is the byte count observed on disk, never a client-declared length.
// Image uploads get thumbnail/preview generation before returning; failures
// there are logged and swallowed.
func (s *LibraryService) Upload(folderID uuid.UUID, name string, r io.Reader) (*FileView, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: file name required", ErrInvalid)
	}
	if _, err := s.Folders.GetByID(folderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: folder", ErrNotFound)
		}
		return nil, err
	}

	fileID := uuid.New()
	// The stored name is the generated id plus the original extension; the
	// user-controlled display name never reaches the filesystem.
	storedName := fileID.String() + strings.ToLower(filepath.Ext(name))
	size, err := s.Stores.Originals.Put(storedName, r)
	if err != nil {
		return nil, err
	}

	file := &models.File{
		ID:         fileID,
		Name:       name,
		FolderID:   folderID,
		StoredName: storedName,
		FileType:   ClassifyFile(name),
		Size:       size,
	}

	if file.FileType == models.FileTypeImage {
		s.Media.Generate(s.Stores.Originals.Path(storedName), fileID)
	}

	if err := s.Files.Create(file); err != nil {
		// Keep the tree free of orphaned blobs if the record insert fails.
		_ = s.Stores.Originals.Delete(storedName)
		_ = s.Stores.Thumbnails.Delete(DerivedKey(fileID))
		_ = s.Stores.Previews.Delete(DerivedKey(fileID))
		return nil, err
	}

	view := NewFileView(*file)
	return &view, nil
}

func (s *LibraryService) GetFile(id uuid.UUID) (*models.File, error) {
	file, err := s.Files.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: file", ErrNotFound)
		}
		return nil, err
	}
	return file, nil
}

func (s *LibraryService) ListFolder(folderID uuid.UUID) ([]FileView, error) {
	files, err := s.Files.ListByFolder(folderID)
	if err != nil {
		return nil, err
	}
	views := make([]FileView, 0, len(files))
	for _, f := range files {
		views = append(views, NewFileView(f))
	}
	return views, nil
}

// DeleteFile removes the three blobs (missing ones are skipped) and then the
// record. A second call reports NotFound and leaves nothing behind.
func (s *LibraryService) DeleteFile(id uuid.UUID) error {
	file, err := s.GetFile(id)
	if err != nil {
		return err
	}
	deleteFileBlobs(s.Stores, file, s.Log)
	return s.Files.Delete(id)
}

// SaveFavourites copies the given files into an "Album Favourites" folder
// directly under the share root, creating it on first use. Copies are
// physical: fresh ids, fresh stored names, duplicated original and derived
// blobs, so they survive deletion of the sources. A file whose display name
// already exists in the favourites folder is skipped.
func (s *LibraryService) SaveFavourites(share *models.Share, fileIDs []uuid.UUID) ([]FileView, error) {
	if !AllowsEdit(share.Permission) {
		return nil, ErrForbidden
	}

	fav, err := s.ensureFavouritesFolder(share.FolderID)
	if err != nil {
		return nil, err
	}

	var saved []FileView
	for _, id := range fileIDs {
		src, err := s.GetFile(id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		if err := s.Access.RequireInSubtree(src.FolderID, share.FolderID); err != nil {
			return nil, err
		}

		exists, err := s.Files.ExistsByNameInFolder(src.Name, fav.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		copyID := uuid.New()
		copyStored := copyID.String() + strings.ToLower(filepath.Ext(src.StoredName))
		if err := s.Stores.Originals.Copy(src.StoredName, copyStored); err != nil {
			return nil, err
		}
		// Derived blobs may legitimately be absent (videos, failed decodes).
		if s.Stores.Thumbnails.Exists(DerivedKey(src.ID)) {
			if err := s.Stores.Thumbnails.Copy(DerivedKey(src.ID), DerivedKey(copyID)); err != nil {
				return nil, err
			}
		}
		if s.Stores.Previews.Exists(DerivedKey(src.ID)) {
			if err := s.Stores.Previews.Copy(DerivedKey(src.ID), DerivedKey(copyID)); err != nil {
				return nil, err
			}
		}

		dup := &models.File{
			ID:         copyID,
			Name:       src.Name,
			FolderID:   fav.ID,
			StoredName: copyStored,
			FileType:   src.FileType,
			Size:       src.Size,
		}
		if err := s.Files.Create(dup); err != nil {
			return nil, err
		}
		saved = append(saved, NewFileView(*dup))
	}
	return saved, nil
}

func (s *LibraryService) ensureFavouritesFolder(rootID uuid.UUID) (*models.Folder, error) {
	existing, err := s.Folders.FindByNameAndParent(FavouritesFolderName, rootID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	parent := rootID
	fav := &models.Folder{Name: FavouritesFolderName, ParentID: &parent}
	if err := s.Folders.Create(fav); err != nil {
		return nil, err
	}
	return fav, nil
}

// deleteFileBlobs best-effort removes a file's original, thumbnail and
// preview. Missing blobs are expected; real IO failures are logged and the
// caller proceeds, since the record delete must not be blocked by cleanup.
func deleteFileBlobs(stores *storage.Stores, f *models.File, log *zap.Logger) {
	derived := DerivedKey(f.ID)
	if err := stores.Originals.Delete(f.StoredName); err != nil {
		log.Warn("original blob cleanup failed", zap.String("key", f.StoredName), zap.Error(err))
	}
	if err := stores.Thumbnails.Delete(derived); err != nil {
		log.Warn("thumbnail cleanup failed", zap.String("key", derived), zap.Error(err))
	}
	if err := stores.Previews.Delete(derived); err != nil {
		log.Warn("preview cleanup failed", zap.String("key", derived), zap.Error(err))
	}
}
