package main

import (
	"flag"
	"io/fs"
	"os"
	"path/filepath"

	"couples-gallery/internal/config"
	"couples-gallery/internal/models"
	"couples-gallery/internal/repositories"
	"couples-gallery/internal/services"
	"couples-gallery/internal/storage"
	"couples-gallery/internal/utils"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// import walks a directory tree and mirrors it into the catalog: one folder
// per directory, one file per recognized image or video. Re-running is safe;
// folders and files that already exist under the same name are skipped.
func main() {
	src := flag.String("src", "", "directory tree to import")
	dryRun := flag.Bool("dry-run", false, "report what would be imported without writing")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	log, err := utils.NewLogger(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if *src == "" {
		log.Fatal("-src is required")
	}
	root, err := filepath.Abs(*src)
	if err != nil {
		log.Fatal("bad source path", zap.Error(err))
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		log.Fatal("source is not a directory", zap.String("src", root))
	}

	dbConn, err := repositories.Connect(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = dbConn.SQL.Close() }()

	if cfg.AutoMigrate {
		if err := repositories.AutoMigrate(dbConn.Gorm); err != nil {
			log.Fatal("failed to auto-migrate schema", zap.Error(err))
		}
	}

	stores, err := storage.NewStores(cfg.FilesDir, cfg.ThumbnailsDir(), cfg.PreviewsDir())
	if err != nil {
		log.Fatal("failed to prepare storage directories", zap.Error(err))
	}

	folders := repositories.NewFolderRepository(dbConn.Gorm)
	files := repositories.NewFileRepository(dbConn.Gorm)
	media := services.NewMediaService(stores, cfg.PreviewMaxPx, log)
	access := services.NewAccessService(folders)
	library := services.NewLibraryService(folders, files, stores, media, access, log)

	imp := importer{
		folders: folders,
		files:   files,
		library: library,
		log:     log,
		dryRun:  *dryRun,
		dirs:    map[string]uuid.UUID{},
	}

	rootFolder, err := imp.ensureFolder(filepath.Base(root), nil)
	if err != nil {
		log.Fatal("failed to create root folder", zap.Error(err))
	}
	imp.dirs[root] = rootFolder

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if d.IsDir() {
			return imp.visitDir(path)
		}
		imp.visitFile(path)
		return nil
	})
	if err != nil {
		log.Fatal("walk failed", zap.Error(err))
	}

	log.Info("import finished",
		zap.Int("folders_created", imp.foldersCreated),
		zap.Int("files_imported", imp.filesImported),
		zap.Int("skipped_existing", imp.skippedExisting),
		zap.Int("skipped_unrecognized", imp.skippedOther),
		zap.Bool("dry_run", *dryRun))
}

type importer struct {
	folders *repositories.FolderRepository
	files   *repositories.FileRepository
	library *services.LibraryService
	log     *zap.Logger
	dryRun  bool

	dirs map[string]uuid.UUID

	foldersCreated  int
	filesImported   int
	skippedExisting int
	skippedOther    int
}

func (imp *importer) ensureFolder(name string, parentID *uuid.UUID) (uuid.UUID, error) {
	if parentID != nil {
		if existing, err := imp.folders.FindByNameAndParent(name, *parentID); err == nil {
			return existing.ID, nil
		}
	} else {
		roots, err := imp.folders.ListByParent(nil)
		if err != nil {
			return uuid.Nil, err
		}
		for _, f := range roots {
			if f.Name == name {
				return f.ID, nil
			}
		}
	}

	if imp.dryRun {
		imp.foldersCreated++
		return uuid.New(), nil
	}

	folder := models.Folder{Name: name, ParentID: parentID}
	if err := imp.folders.Create(&folder); err != nil {
		return uuid.Nil, err
	}
	imp.foldersCreated++
	imp.log.Info("folder created", zap.String("name", name))
	return folder.ID, nil
}

func (imp *importer) visitDir(path string) error {
	parent, ok := imp.dirs[filepath.Dir(path)]
	if !ok {
		return filepath.SkipDir
	}

	id, err := imp.ensureFolder(filepath.Base(path), &parent)
	if err != nil {
		return err
	}
	imp.dirs[path] = id
	return nil
}

func (imp *importer) visitFile(path string) {
	name := filepath.Base(path)
	if services.ClassifyFile(name) == models.FileTypeOther {
		imp.skippedOther++
		return
	}

	folderID, ok := imp.dirs[filepath.Dir(path)]
	if !ok {
		return
	}

	exists, err := imp.files.ExistsByNameInFolder(name, folderID)
	if err != nil {
		imp.log.Warn("lookup failed", zap.String("file", path), zap.Error(err))
		return
	}
	if exists {
		imp.skippedExisting++
		return
	}

	if imp.dryRun {
		imp.filesImported++
		return
	}

	f, err := os.Open(path)
	if err != nil {
		imp.log.Warn("open failed", zap.String("file", path), zap.Error(err))
		return
	}
	defer f.Close()

	if _, err := imp.library.Upload(folderID, name, f); err != nil {
		imp.log.Warn("import failed", zap.String("file", path), zap.Error(err))
		return
	}
	imp.filesImported++
	imp.log.Info("file imported", zap.String("file", name))
}
