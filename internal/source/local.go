package source

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"phototagger/internal/asset"
)

// Local acquires images from the local filesystem: a pre-validated set of
// paths from drag-drop or file selection. No authentication and no picker
// UI are involved.
type Local struct {
	paths []string
}

// NewLocal creates the local adapter for the given file or directory paths.
func NewLocal(paths []string) *Local {
	return &Local{paths: paths}
}

func (l *Local) Provider() Provider { return ProviderLocal }
func (l *Local) RequiresAuth() bool { return false }

func (l *Local) CheckAuthenticated(ctx context.Context) (bool, error) { return true, nil }
func (l *Local) BeginLogin(ctx context.Context) (string, error)       { return "", nil }
func (l *Local) GetAccessToken(ctx context.Context) (string, error)   { return "", nil }

// OpenPicker returns the pre-selected path set as picker entries.
func (l *Local) OpenPicker(ctx context.Context, _ string) ([]PickedFile, error) {
	files := make([]PickedFile, 0, len(l.paths))
	for _, p := range l.paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("could not stat %s: %w", p, err)
		}
		files = append(files, PickedFile{
			ID:     p,
			Name:   filepath.Base(p),
			Folder: info.IsDir(),
		})
	}
	return files, nil
}

// ExpandFolders walks directories recursively, collecting image files.
// A nil selection expands the adapter's configured paths. Files are
// deduplicated by filename, first occurrence wins.
func (l *Local) ExpandFolders(ctx context.Context, selection []PickedFile) ([]PickedFile, error) {
	if selection == nil {
		var err error
		selection, err = l.OpenPicker(ctx, "")
		if err != nil {
			return nil, err
		}
	}

	var files []PickedFile
	seen := make(map[string]struct{})
	add := func(path, name string, size int64) {
		if !asset.IsImageName(name) {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		files = append(files, PickedFile{
			ID:        path,
			Name:      name,
			MimeType:  asset.MimeTypeFromName(name),
			SizeBytes: size,
		})
	}

	for _, item := range selection {
		if !item.Folder {
			var size int64
			if info, err := os.Stat(item.ID); err == nil {
				size = info.Size()
			}
			add(item.ID, item.Name, size)
			continue
		}
		err := filepath.WalkDir(item.ID, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			var size int64
			if info, err := d.Info(); err == nil {
				size = info.Size()
			}
			add(path, d.Name(), size)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("could not walk %s: %w", item.ID, err)
		}
	}
	return files, nil
}

func (l *Local) DownloadAll(ctx context.Context, files []PickedFile) ([]asset.Asset, error) {
	return downloadAll(ctx, ProviderLocal, files, func(_ context.Context, f PickedFile) ([]byte, error) {
		return os.ReadFile(f.ID) //nolint:gosec // path comes from the user's own selection
	})
}
