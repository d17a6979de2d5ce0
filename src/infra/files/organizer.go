package files

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/crivero/shoebox/src/features/config"
	"github.com/crivero/shoebox/src/media"
)

// PathParser renders the library-relative path for a cataloged file.
type PathParser interface {
	RenderPath(f *media.File) (string, error)
}

// FileOrganizer places cataloged files under the library root.
type FileOrganizer struct {
	config     *config.Manager
	pathParser PathParser
}

// NewFileOrganizer creates a new file organizer implementation.
func NewFileOrganizer(cfg *config.Manager, pathParser PathParser) *FileOrganizer {
	return &FileOrganizer{config: cfg, pathParser: pathParser}
}

// PlaceFile copies or moves a file to its library path, depending on
// the organize settings, and returns the new path.
func (o *FileOrganizer) PlaceFile(ctx context.Context, f *media.File) (string, error) {
	newPath, err := o.LibraryPath(f)
	if err != nil {
		return "", err
	}
	if newPath == f.Path {
		return newPath, nil
	}

	if err := os.MkdirAll(filepath.Dir(newPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	if err := copyFile(f.Path, newPath); err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}

	if o.config.Get().Organize.Move {
		if err := os.Remove(f.Path); err != nil {
			return "", fmt.Errorf("failed to remove original file after copy: %w", err)
		}
		if err := o.removeEmptyDirectories(filepath.Dir(f.Path)); err != nil {
			slog.Warn("Failed to clean up empty directories after move", "error", err)
		}
	}

	return newPath, nil
}

// LibraryPath renders the library path for a file without touching it.
func (o *FileOrganizer) LibraryPath(f *media.File) (string, error) {
	renderedPath, err := o.pathParser.RenderPath(f)
	if err != nil {
		return "", fmt.Errorf("failed to render path: %w", err)
	}
	return filepath.Join(o.config.Get().LibraryPath, renderedPath+filepath.Ext(f.Path)), nil
}

// removeEmptyDirectories recursively removes empty directories up the path
func (o *FileOrganizer) removeEmptyDirectories(dir string) error {
	root := o.config.Get().InboxPath
	for dir != root {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return nil
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("failed to read directory %s: %w", dir, err)
		}
		if len(entries) > 0 {
			break
		}

		if err := os.Remove(dir); err != nil {
			return fmt.Errorf("failed to remove empty directory %s: %w", dir, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir || parent == root {
			break
		}
		dir = parent
	}

	return nil
}

func copyFile(src, dst string) error {
	sourceFileStat, err := os.Stat(src)
	if err != nil {
		return err
	}

	if !sourceFileStat.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destination.Close()
	_, err = io.Copy(destination, source)
	return err
}
