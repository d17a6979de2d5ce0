package extracting

import (
	"context"
	"errors"
	"testing"

	"github.com/crivero/shoebox/src/features/config"
	"github.com/crivero/shoebox/src/features/metrics"
	"github.com/crivero/shoebox/src/media"
	"github.com/prometheus/client_golang/prometheus"
)

// MockExtractor returns canned tag records keyed by path.
type MockExtractor struct {
	records map[string]*media.Tags
	err     error
}

func (m *MockExtractor) ExtractFile(ctx context.Context, path string) (*media.Tags, error) {
	if m.err != nil {
		return nil, m.err
	}
	if tags, ok := m.records[path]; ok {
		return tags, nil
	}
	return nil, errors.New("no such record")
}

func (m *MockExtractor) WriteTags(ctx context.Context, req *media.WriteRequest) error {
	return m.err
}

func (m *MockExtractor) Version(ctx context.Context) (string, error) {
	return "13.10", m.err
}

// MockCatalog stores files in memory.
type MockCatalog struct {
	byID   map[string]*media.File
	byPath map[string]*media.File
	saves  int
}

func NewMockCatalog() *MockCatalog {
	return &MockCatalog{byID: make(map[string]*media.File), byPath: make(map[string]*media.File)}
}

func (m *MockCatalog) SaveFile(ctx context.Context, f *media.File) error {
	m.saves++
	m.byID[f.ID] = f
	m.byPath[f.Path] = f
	return nil
}

func (m *MockCatalog) GetFile(ctx context.Context, id string) (*media.File, error) {
	if f, ok := m.byID[id]; ok {
		return f, nil
	}
	return nil, errors.New("not found")
}

func (m *MockCatalog) GetFileByPath(ctx context.Context, path string) (*media.File, error) {
	if f, ok := m.byPath[path]; ok {
		return f, nil
	}
	return nil, errors.New("not found")
}

func (m *MockCatalog) ListFiles(ctx context.Context, limit, offset int) ([]*media.File, error) {
	files := make([]*media.File, 0, len(m.byID))
	for _, f := range m.byID {
		files = append(files, f)
	}
	return files, nil
}

func (m *MockCatalog) CountFiles(ctx context.Context) (int, error) {
	return len(m.byID), nil
}

func (m *MockCatalog) DeleteFile(ctx context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

// MockOrganizer records placements and returns a fixed library path.
type MockOrganizer struct {
	placed []string
	target string
	err    error
}

func (m *MockOrganizer) PlaceFile(ctx context.Context, f *media.File) (string, error) {
	m.placed = append(m.placed, f.Path)
	if m.err != nil {
		return "", m.err
	}
	return m.target, nil
}

func serviceFixture(organizeEnabled bool) (*Service, *MockExtractor, *MockCatalog, *MockOrganizer) {
	cfg := &config.Config{}
	cfg.Organize.Enabled = organizeEnabled
	extractor := &MockExtractor{records: make(map[string]*media.Tags)}
	catalog := NewMockCatalog()
	organizer := &MockOrganizer{target: "/library/2023/shot.jpg"}
	recorder := metrics.NewRecorder(prometheus.NewRegistry())
	return NewService(extractor, catalog, organizer, config.NewManager(cfg), recorder), extractor, catalog, organizer
}

func TestExtractAndCatalog_SavesProjectedRecord(t *testing.T) {
	service, extractor, catalog, _ := serviceFixture(false)
	extractor.records["/p/a.jpg"] = &media.Tags{
		SourceFile: "/p/a.jpg",
		Values: map[string]any{
			"Make":         "Canon",
			"Model":        "EOS R5",
			"MIMEType":     "image/jpeg",
			"GPSLatitude":  -33.5,
			"GPSLongitude": 151.2,
		},
		Zone:       "Australia/Sydney",
		ZoneSource: "OffsetTime",
		Warnings:   []string{"Warning: minor"},
	}

	file, err := service.ExtractAndCatalog(context.Background(), "/p/a.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if file.ID == "" {
		t.Error("file should get an ID")
	}
	if file.Make != "Canon" || file.Model != "EOS R5" || file.MIMEType != "image/jpeg" {
		t.Errorf("projection lost fields: %+v", file)
	}
	if file.Latitude == nil || *file.Latitude != -33.5 {
		t.Errorf("latitude = %v", file.Latitude)
	}
	if file.Zone != "Australia/Sydney" || file.ZoneSource != "OffsetTime" {
		t.Errorf("zone = %s (%s)", file.Zone, file.ZoneSource)
	}
	if catalog.saves != 1 {
		t.Errorf("saves = %d", catalog.saves)
	}
	if got, err := service.GetFile(context.Background(), file.ID); err != nil || got.Path != "/p/a.jpg" {
		t.Errorf("catalog lookup failed: %v, %v", got, err)
	}
}

func TestExtractAndCatalog_OrganizesWhenEnabled(t *testing.T) {
	service, extractor, _, organizer := serviceFixture(true)
	extractor.records["/inbox/a.jpg"] = &media.Tags{
		SourceFile: "/inbox/a.jpg",
		Values:     map[string]any{},
	}

	file, err := service.ExtractAndCatalog(context.Background(), "/inbox/a.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if len(organizer.placed) != 1 {
		t.Fatalf("organizer not called: %v", organizer.placed)
	}
	if file.Path != "/library/2023/shot.jpg" {
		t.Errorf("path = %q, want the organized path", file.Path)
	}
}

func TestExtractAndCatalog_OrganizerFailureCatalogsInPlace(t *testing.T) {
	service, extractor, catalog, organizer := serviceFixture(true)
	organizer.err = errors.New("disk full")
	extractor.records["/inbox/a.jpg"] = &media.Tags{
		SourceFile: "/inbox/a.jpg",
		Values:     map[string]any{},
	}

	file, err := service.ExtractAndCatalog(context.Background(), "/inbox/a.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if file.Path != "/inbox/a.jpg" {
		t.Errorf("path = %q, want the original path", file.Path)
	}
	if catalog.saves != 1 {
		t.Errorf("saves = %d", catalog.saves)
	}
}

func TestExtract_PropagatesExtractorError(t *testing.T) {
	service, extractor, catalog, _ := serviceFixture(false)
	extractor.err = errors.New("worker died")

	if _, err := service.ExtractAndCatalog(context.Background(), "/p/a.jpg"); err == nil {
		t.Fatal("expected an error")
	}
	if catalog.saves != 0 {
		t.Error("nothing should be cataloged on extract failure")
	}
}
