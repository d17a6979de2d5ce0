package extracting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/crivero/shoebox/src/features/jobs"
)

// ScanStats summarizes one directory scan.
type ScanStats struct {
	Cataloged int `json:"cataloged"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}

// DirectoryScanTask implements jobs.Task for directory scans.
type DirectoryScanTask struct {
	service *Service
}

// NewDirectoryScanTask creates a new DirectoryScanTask.
func NewDirectoryScanTask(service *Service) *DirectoryScanTask {
	return &DirectoryScanTask{service: service}
}

// MetadataKeys returns the required metadata keys for a scan job.
func (e *DirectoryScanTask) MetadataKeys() []string {
	return []string{"path"}
}

// Execute walks the directory and catalogs every media file in it.
func (e *DirectoryScanTask) Execute(ctx context.Context, job *jobs.Job, progressUpdater func(int, string)) (map[string]any, error) {
	path := job.Metadata["path"].(string)
	logger := job.Logger

	logger.Info("Starting directory scan", "path", path)
	stats := ScanStats{}

	totalFiles := e.countMediaFiles(path)
	logger.Info("Found files to process", "total", totalFiles)

	processed := 0
	err := filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			logger.Error("Could not walk directory", "error", err, "path", p)
			return err
		}
		if info.IsDir() {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !e.service.IsMediaFile(p) {
			stats.Skipped++
			logger.Debug("Skipping non-media file", "path", p)
			return nil
		}

		if _, err := e.service.ExtractAndCatalog(ctx, p); err != nil {
			logger.Warn("Failed to catalog file", "path", p, "error", err)
			stats.Errors++
		} else {
			stats.Cataloged++
		}

		processed++
		if progressUpdater != nil && totalFiles > 0 {
			progress := (processed * 100) / totalFiles
			if progress > 100 {
				progress = 100
			}
			progressUpdater(progress, fmt.Sprintf("Processed: %s", filepath.Base(p)))
		}
		return nil
	})
	if err != nil {
		return map[string]any{"stats": stats}, err
	}

	finalMessage := fmt.Sprintf("Scan finished. %d cataloged, %d skipped, %d errors.",
		stats.Cataloged, stats.Skipped, stats.Errors)
	logger.Info(finalMessage)

	result := map[string]any{"stats": stats, "msg": finalMessage}
	if stats.Errors > 0 && stats.Cataloged == 0 {
		return result, fmt.Errorf("no files were successfully cataloged (%d errors)", stats.Errors)
	}
	if stats.Errors > 0 {
		return result, fmt.Errorf("partial scan: %d cataloged, %d failed", stats.Cataloged, stats.Errors)
	}
	return result, nil
}

// Cleanup does nothing for directory scans.
func (e *DirectoryScanTask) Cleanup(job *jobs.Job) error {
	return nil
}

func (e *DirectoryScanTask) countMediaFiles(root string) int {
	total := 0
	filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() && e.service.IsMediaFile(p) {
			total++
		}
		return nil
	})
	return total
}
