package services

import (
	"errors"
	"fmt"

	"couples-gallery/internal/models"
	"couples-gallery/internal/repositories"
	"couples-gallery/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CatalogService owns the folder tree: creation, listing with computed
// counts, breadcrumb paths, structural duplication and the cascade delete.
type CatalogService struct {
	Folders *repositories.FolderRepository
	Files   *repositories.FileRepository
	Shares  *repositories.ShareRepository
	Stores  *storage.Stores
	Log     *zap.Logger
}

func NewCatalogService(
	folders *repositories.FolderRepository,
	files *repositories.FileRepository,
	shares *repositories.ShareRepository,
	stores *storage.Stores,
	log *zap.Logger,
) *CatalogService {
	return &CatalogService{Folders: folders, Files: files, Shares: shares, Stores: stores, Log: log}
}

// FolderInfo is a folder plus its read-time counts; the counts are computed,
// never stored.
type FolderInfo struct {
	models.Folder
	FileCount      int64 `json:"file_count"`
	SubfolderCount int64 `json:"subfolder_count"`
}

type PathEntry struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func (s *CatalogService) CreateFolder(name string, parentID *uuid.UUID) (*models.Folder, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: folder name required", ErrInvalid)
	}
	if parentID != nil {
		if _, err := s.Folders.GetByID(*parentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: parent folder", ErrNotFound)
			}
			return nil, err
		}
	}

	folder := &models.Folder{Name: name, ParentID: parentID}
	if err := s.Folders.Create(folder); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *CatalogService) GetFolder(id uuid.UUID) (*FolderInfo, error) {
	folder, err := s.Folders.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: folder", ErrNotFound)
		}
		return nil, err
	}
	return s.withCounts(*folder)
}

func (s *CatalogService) ListFolders(parentID *uuid.UUID) ([]FolderInfo, error) {
	folders, err := s.Folders.ListByParent(parentID)
	if err != nil {
		return nil, err
	}
	infos := make([]FolderInfo, 0, len(folders))
	for _, f := range folders {
		info, err := s.withCounts(f)
		if err != nil {
			return nil, err
		}
		infos = append(infos, *info)
	}
	return infos, nil
}

func (s *CatalogService) RenameFolder(id uuid.UUID, name string) (*models.Folder, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: folder name required", ErrInvalid)
	}
	affected, err := s.Folders.Rename(id, name)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: folder", ErrNotFound)
	}
	return s.Folders.GetByID(id)
}

// DeleteFolderTree removes the folder together with every descendant folder,
// all of their files' blobs and records, and any shares rooted inside the
// subtree. The traversal uses an explicit worklist so arbitrarily deep trees
// cannot exhaust the call stack.
//
// Two passes over the collected subtree:
//  1. pre-order: delete each folder's file blobs (missing blobs skipped) and
//     file records;
//  2. reverse (deepest first): delete shares, then the folder record.
//
// Nothing here is transactional. An interruption leaves a valid intermediate
// state: blobs never outlive their records, parents never vanish before
// children, and every step is safe to retry.
func (s *CatalogService) DeleteFolderTree(id uuid.UUID) error {
	if _, err := s.Folders.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: folder", ErrNotFound)
		}
		return err
	}

	subtree, err := s.collectSubtree(id)
	if err != nil {
		return err
	}

	for _, folderID := range subtree {
		files, err := s.Files.ListByFolder(folderID)
		if err != nil {
			return err
		}
		for i := range files {
			deleteFileBlobs(s.Stores, &files[i], s.Log)
			if err := s.Files.Delete(files[i].ID); err != nil {
				return err
			}
		}
	}

	for i := len(subtree) - 1; i >= 0; i-- {
		if err := s.Shares.DeleteByFolder(subtree[i]); err != nil {
			return err
		}
		if err := s.Folders.Delete(subtree[i]); err != nil {
			return err
		}
	}

	s.Log.Info("folder tree deleted",
		zap.String("folder_id", id.String()),
		zap.Int("folders_removed", len(subtree)),
	)
	return nil
}

// collectSubtree returns the folder ids of the subtree rooted at id in
// pre-order (every parent before its children).
func (s *CatalogService) collectSubtree(id uuid.UUID) ([]uuid.UUID, error) {
	var order []uuid.UUID
	pending := []uuid.UUID{id}
	for len(pending) > 0 {
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		order = append(order, current)

		children, err := s.Folders.ListByParent(&current)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			pending = append(pending, child.ID)
		}
	}
	return order, nil
}

// DuplicateFolder deep-copies the folder structure: every descendant folder
// is recreated, files are never copied. When targetParentID is nil the copy
// lands next to the original and the top-level copy gets a " (Copy)" suffix;
// descendants always keep their names. The source subtree is snapshotted in
// full before any copy is created, so a target inside the source subtree
// duplicates what was there at the start rather than chasing its own output.
func (s *CatalogService) DuplicateFolder(id uuid.UUID, targetParentID *uuid.UUID) (*models.Folder, error) {
	src, err := s.Folders.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: folder", ErrNotFound)
		}
		return nil, err
	}

	inPlace := targetParentID == nil || equalParent(targetParentID, src.ParentID)
	name := src.Name
	if inPlace {
		name = src.Name + " (Copy)"
	}
	newParent := src.ParentID
	if targetParentID != nil {
		if _, err := s.Folders.GetByID(*targetParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: target folder", ErrNotFound)
			}
			return nil, err
		}
		newParent = targetParentID
	}

	childrenOf, err := s.snapshotChildren(src.ID)
	if err != nil {
		return nil, err
	}

	top := &models.Folder{Name: name, ParentID: newParent}
	if err := s.Folders.Create(top); err != nil {
		return nil, err
	}

	// Mirror the delete traversal, in the creation direction.
	type copyJob struct {
		srcID     uuid.UUID
		dstParent uuid.UUID
	}
	pending := []copyJob{{srcID: src.ID, dstParent: top.ID}}
	for len(pending) > 0 {
		job := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		for _, child := range childrenOf[job.srcID] {
			parent := job.dstParent
			dup := &models.Folder{Name: child.Name, ParentID: &parent}
			if err := s.Folders.Create(dup); err != nil {
				return nil, err
			}
			pending = append(pending, copyJob{srcID: child.ID, dstParent: dup.ID})
		}
	}

	return top, nil
}

// snapshotChildren lists every folder in the subtree rooted at id and returns
// the child lists keyed by parent, read before any mutation.
func (s *CatalogService) snapshotChildren(id uuid.UUID) (map[uuid.UUID][]models.Folder, error) {
	childrenOf := map[uuid.UUID][]models.Folder{}
	pending := []uuid.UUID{id}
	for len(pending) > 0 {
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		children, err := s.Folders.ListByParent(&current)
		if err != nil {
			return nil, err
		}
		childrenOf[current] = children
		for _, child := range children {
			pending = append(pending, child.ID)
		}
	}
	return childrenOf, nil
}

func equalParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// FolderPath walks parent links upward and returns the chain from root to the
// folder. A broken link terminates the walk instead of looping.
func (s *CatalogService) FolderPath(id uuid.UUID) ([]PathEntry, error) {
	var path []PathEntry
	current := &id
	for current != nil {
		folder, err := s.Folders.GetByID(*current)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return nil, err
		}
		path = append([]PathEntry{{ID: folder.ID, Name: folder.Name}}, path...)
		current = folder.ParentID
	}
	return path, nil
}

// FolderWithPath pairs a folder with its slash-joined full path, for the
// admin "everything at once" listing.
type FolderWithPath struct {
	models.Folder
	Path string `json:"path"`
}

func (s *CatalogService) AllFolderPaths() ([]FolderWithPath, error) {
	folders, err := s.Folders.ListAll()
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.Folder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}

	out := make([]FolderWithPath, 0, len(folders))
	for _, f := range folders {
		path := f.Name
		current := f.ParentID
		for current != nil {
			parent, ok := byID[*current]
			if !ok {
				break
			}
			path = parent.Name + "/" + path
			current = parent.ParentID
		}
		out = append(out, FolderWithPath{Folder: f, Path: path})
	}
	return out, nil
}

type Stats struct {
	FolderCount int64 `json:"folder_count"`
	FileCount   int64 `json:"file_count"`
	ShareCount  int64 `json:"share_count"`
	TotalSize   int64 `json:"total_size"`
}

func (s *CatalogService) Stats() (*Stats, error) {
	folderCount, err := s.Folders.Count()
	if err != nil {
		return nil, err
	}
	fileCount, err := s.Files.Count()
	if err != nil {
		return nil, err
	}
	shareCount, err := s.Shares.Count()
	if err != nil {
		return nil, err
	}
	totalSize, err := s.Files.TotalSize()
	if err != nil {
		return nil, err
	}
	return &Stats{
		FolderCount: folderCount,
		FileCount:   fileCount,
		ShareCount:  shareCount,
		TotalSize:   totalSize,
	}, nil
}

func (s *CatalogService) withCounts(f models.Folder) (*FolderInfo, error) {
	fileCount, err := s.Files.CountByFolder(f.ID)
	if err != nil {
		return nil, err
	}
	subfolderCount, err := s.Folders.CountChildren(f.ID)
	if err != nil {
		return nil, err
	}
	return &FolderInfo{Folder: f, FileCount: fileCount, SubfolderCount: subfolderCount}, nil
}
