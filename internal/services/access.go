package services

import (
	"errors"

	"couples-gallery/internal/models"
	"couples-gallery/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccessService answers the one authorization question every public request
// hangs on: does this folder lie inside the share's subtree?
type AccessService struct {
	Folders *repositories.FolderRepository
}

func NewAccessService(folders *repositories.FolderRepository) *AccessService {
	return &AccessService{Folders: folders}
}

// IsDescendant reports whether folderID is shareRootID itself or sits below
// it. It walks parent pointers upward and is recomputed per request; folder
// moves are not supported, so the walk is always current without any
// invalidation machinery.
func (s *AccessService) IsDescendant(folderID, shareRootID uuid.UUID) (bool, error) {
	if folderID == shareRootID {
		return true, nil
	}
	current := folderID
	for {
		folder, err := s.Folders.GetByID(current)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		if folder.ParentID == nil {
			return false, nil
		}
		if *folder.ParentID == shareRootID {
			return true, nil
		}
		current = *folder.ParentID
	}
}

// RequireInSubtree is IsDescendant with the failure mapped to ErrForbidden,
// for call sites that gate an operation rather than branch on the answer.
func (s *AccessService) RequireInSubtree(folderID, shareRootID uuid.UUID) error {
	ok, err := s.IsDescendant(folderID, shareRootID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// AllowsEdit is the single capability predicate for write-tier operations.
// "full" is a reserved superset and currently gates exactly what "edit" does.
func AllowsEdit(permission string) bool {
	return permission == models.PermissionEdit || permission == models.PermissionFull
}

// ValidPermission reports whether a caller-supplied tier is one we store.
func ValidPermission(permission string) bool {
	switch permission {
	case models.PermissionRead, models.PermissionEdit, models.PermissionFull:
		return true
	}
	return false
}
