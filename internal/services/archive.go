package services

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"

	"couples-gallery/internal/repositories"
	"couples-gallery/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ArchiveService streams a folder's files as a zip straight into the
// response writer. Entries use the STORE method: galleries are mostly
// already-compressed JPEG/video, so deflate would only burn CPU.
type ArchiveService struct {
	Folders *repositories.FolderRepository
	Files   *repositories.FileRepository
	Stores  *storage.Stores
	Log     *zap.Logger
}

func NewArchiveService(
	folders *repositories.FolderRepository,
	files *repositories.FileRepository,
	stores *storage.Stores,
	log *zap.Logger,
) *ArchiveService {
	return &ArchiveService{Folders: folders, Files: files, Stores: stores, Log: log}
}

// WriteFolderZip writes every file in the folder (non-recursive, matching the
// folder download in the UI) under its display name. Files whose blob has
// gone missing are skipped, not fatal. Returns the folder name for the
// Content-Disposition header.
func (s *ArchiveService) WriteFolderZip(w io.Writer, folderID uuid.UUID) (string, error) {
	folder, err := s.Folders.GetByID(folderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: folder", ErrNotFound)
		}
		return "", err
	}

	files, err := s.Files.ListByFolder(folderID)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w: no files in folder", ErrNotFound)
	}

	zw := zip.NewWriter(w)
	for _, f := range files {
		src, err := s.Stores.Originals.Open(f.StoredName)
		if err != nil {
			s.Log.Warn("zip entry skipped, blob missing",
				zap.String("file_id", f.ID.String()),
				zap.String("name", f.Name),
			)
			continue
		}

		entry, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Store})
		if err != nil {
			src.Close()
			return "", err
		}
		if _, err := io.Copy(entry, src); err != nil {
			src.Close()
			return "", err
		}
		src.Close()
	}

	if err := zw.Close(); err != nil {
		return "", err
	}
	return folder.Name, nil
}

// WriteFilesZip streams a zip of an explicit file selection, for the admin
// "download selected" action. Unknown ids and missing blobs are skipped the
// same way the folder zip skips them.
func (s *ArchiveService) WriteFilesZip(w io.Writer, fileIDs []uuid.UUID) error {
	if len(fileIDs) == 0 {
		return fmt.Errorf("%w: no files selected", ErrInvalid)
	}

	zw := zip.NewWriter(w)
	for _, id := range fileIDs {
		f, err := s.Files.GetByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return err
		}

		src, err := s.Stores.Originals.Open(f.StoredName)
		if err != nil {
			s.Log.Warn("zip entry skipped, blob missing",
				zap.String("file_id", f.ID.String()),
				zap.String("name", f.Name),
			)
			continue
		}

		entry, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Store})
		if err != nil {
			src.Close()
			return err
		}
		if _, err := io.Copy(entry, src); err != nil {
			src.Close()
			return err
		}
		src.Close()
	}

	return zw.Close()
}
