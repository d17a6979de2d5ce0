package extracting

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/crivero/shoebox/src/features/config"
	"github.com/crivero/shoebox/src/features/metrics"
	"github.com/crivero/shoebox/src/media"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Extractor reads and writes file metadata through the worker pool.
type Extractor interface {
	ExtractFile(ctx context.Context, path string) (*media.Tags, error)
	WriteTags(ctx context.Context, req *media.WriteRequest) error
	Version(ctx context.Context) (string, error)
}

// Catalog stores extracted records.
type Catalog interface {
	SaveFile(ctx context.Context, f *media.File) error
	GetFile(ctx context.Context, id string) (*media.File, error)
	GetFileByPath(ctx context.Context, path string) (*media.File, error)
	ListFiles(ctx context.Context, limit, offset int) ([]*media.File, error)
	CountFiles(ctx context.Context) (int, error)
	DeleteFile(ctx context.Context, id string) error
}

// Organizer places a cataloged file at its library path.
type Organizer interface {
	PlaceFile(ctx context.Context, f *media.File) (string, error)
}

// Service orchestrates extraction: worker calls, catalog persistence,
// and optional library organization.
type Service struct {
	extractor Extractor
	catalog   Catalog
	organizer Organizer
	config    *config.Manager
	recorder  *metrics.Recorder
}

// NewService creates a new extracting service.
func NewService(extractor Extractor, catalog Catalog, organizer Organizer, cfg *config.Manager, recorder *metrics.Recorder) *Service {
	return &Service{
		extractor: extractor,
		catalog:   catalog,
		organizer: organizer,
		config:    cfg,
		recorder:  recorder,
	}
}

// Extract reads the full tag record for one file without touching the
// catalog.
func (s *Service) Extract(ctx context.Context, path string) (*media.Tags, error) {
	start := time.Now()
	tags, err := s.extractor.ExtractFile(ctx, path)
	s.recorder.ObserveExtract(time.Since(start), err)
	if err != nil {
		return nil, err
	}
	s.recorder.AddWarnings(len(tags.Warnings))
	return tags, nil
}

// ExtractAndCatalog extracts one file, stores the result, and places
// the file in the library when organizing is enabled.
func (s *Service) ExtractAndCatalog(ctx context.Context, path string) (*media.File, error) {
	tags, err := s.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}

	file := fileFromTags(path, tags)

	if s.config.Get().Organize.Enabled && s.organizer != nil {
		newPath, err := s.organizer.PlaceFile(ctx, file)
		if err != nil {
			slog.Warn("Failed to organize file, cataloging in place", "path", path, "error", err)
		} else {
			file.Path = newPath
		}
	}

	if err := s.catalog.SaveFile(ctx, file); err != nil {
		return nil, fmt.Errorf("cataloging %s: %w", file.Path, err)
	}
	slog.Debug("File cataloged", "path", file.Path, "taken_at", file.TakenAt, "zone", file.Zone)
	return file, nil
}

// Write applies tag mutations through the worker and refreshes the
// catalog entry when the file is already cataloged.
func (s *Service) Write(ctx context.Context, req *media.WriteRequest) error {
	start := time.Now()
	err := s.extractor.WriteTags(ctx, req)
	s.recorder.ObserveWrite(time.Since(start), err)
	if err != nil {
		return err
	}
	if existing, lookupErr := s.catalog.GetFileByPath(ctx, req.Path); lookupErr == nil && existing != nil {
		if _, err := s.ExtractAndCatalog(ctx, req.Path); err != nil {
			slog.Warn("Failed to refresh catalog entry after write", "path", req.Path, "error", err)
		}
	}
	return nil
}

// GetFile returns one cataloged record.
func (s *Service) GetFile(ctx context.Context, id string) (*media.File, error) {
	return s.catalog.GetFile(ctx, id)
}

// ListFiles pages through the catalog.
func (s *Service) ListFiles(ctx context.Context, limit, offset int) ([]*media.File, error) {
	return s.catalog.ListFiles(ctx, limit, offset)
}

// ToolVersion reports the worker tool's version, which doubles as a
// health check.
func (s *Service) ToolVersion(ctx context.Context) (string, error) {
	return s.extractor.Version(ctx)
}

// IsMediaFile sniffs whether the file is an image or video worth
// extracting.
func (s *Service) IsMediaFile(path string) bool {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return false
	}
	for t := mt; t != nil; t = t.Parent() {
		if strings.HasPrefix(t.String(), "image/") || strings.HasPrefix(t.String(), "video/") {
			return true
		}
	}
	return false
}

// fileFromTags projects a full tag record onto the catalog schema.
func fileFromTags(path string, tags *media.Tags) *media.File {
	file := &media.File{
		ID:         uuid.New().String(),
		Path:       path,
		MIMEType:   tags.MIMEType(),
		Zone:       tags.Zone,
		ZoneSource: tags.ZoneSource,
		Warnings:   tags.Warnings,
		AddedAt:    time.Now(),
	}
	if dt, ok := tags.TakenAt(); ok {
		t := dt.Time
		file.TakenAt = &t
	}
	if lat, lon, ok := tags.Location(); ok {
		file.Latitude = &lat
		file.Longitude = &lon
	}
	if v, ok := tags.Get("Make"); ok {
		if s, ok := v.(string); ok {
			file.Make = s
		}
	}
	if v, ok := tags.Get("Model"); ok {
		if s, ok := v.(string); ok {
			file.Model = s
		}
	}
	if raw, err := json.Marshal(tags.Values); err == nil {
		file.RawJSON = string(raw)
	}
	return file
}
