package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/crivero/shoebox/src/media"
	_ "github.com/mattn/go-sqlite3"
)

// SqliteCatalog is a SQLite implementation of the extracting.Catalog
// interface.
type SqliteCatalog struct {
	db *sql.DB
}

// NewSqliteCatalog creates a new SqliteCatalog.
func NewSqliteCatalog(path string) (*SqliteCatalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &SqliteCatalog{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS media_files (
			id TEXT PRIMARY KEY,
			path TEXT NOT NULL UNIQUE,
			mime_type TEXT,
			taken_at TEXT,
			zone TEXT,
			zone_source TEXT,
			latitude REAL,
			longitude REAL,
			make TEXT,
			model TEXT,
			warnings TEXT,
			raw_json TEXT,
			added_at TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_media_files_taken_at ON media_files(taken_at);
		CREATE INDEX IF NOT EXISTS idx_media_files_mime_type ON media_files(mime_type);
	`)
	return err
}

// SaveFile inserts a record, replacing any earlier record for the same
// path.
func (d *SqliteCatalog) SaveFile(ctx context.Context, f *media.File) error {
	warnings, err := json.Marshal(f.Warnings)
	if err != nil {
		return fmt.Errorf("encoding warnings: %w", err)
	}

	var takenAt any
	if f.TakenAt != nil {
		takenAt = f.TakenAt.Format(time.RFC3339Nano)
	}

	_, err = d.db.ExecContext(ctx, `
    INSERT INTO media_files (id, path, mime_type, taken_at, zone, zone_source,
      latitude, longitude, make, model, warnings, raw_json, added_at)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    ON CONFLICT(path) DO UPDATE SET
      mime_type = excluded.mime_type,
      taken_at = excluded.taken_at,
      zone = excluded.zone,
      zone_source = excluded.zone_source,
      latitude = excluded.latitude,
      longitude = excluded.longitude,
      make = excluded.make,
      model = excluded.model,
      warnings = excluded.warnings,
      raw_json = excluded.raw_json
  `, f.ID, f.Path, f.MIMEType, takenAt, f.Zone, f.ZoneSource,
		f.Latitude, f.Longitude, f.Make, f.Model, string(warnings), f.RawJSON,
		f.AddedAt.Format(time.RFC3339))
	return err
}

// GetFile returns one record by ID.
func (d *SqliteCatalog) GetFile(ctx context.Context, id string) (*media.File, error) {
	row := d.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	return scanFile(row)
}

// GetFileByPath returns one record by path.
func (d *SqliteCatalog) GetFileByPath(ctx context.Context, path string) (*media.File, error) {
	row := d.db.QueryRowContext(ctx, selectColumns+` WHERE path = ?`, path)
	return scanFile(row)
}

// ListFiles pages through the catalog, newest captures first.
func (d *SqliteCatalog) ListFiles(ctx context.Context, limit, offset int) ([]*media.File, error) {
	rows, err := d.db.QueryContext(ctx, selectColumns+`
    ORDER BY taken_at DESC, path ASC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*media.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// CountFiles returns the total number of cataloged files.
func (d *SqliteCatalog) CountFiles(ctx context.Context) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media_files`).Scan(&count)
	return count, err
}

// DeleteFile removes one record by ID.
func (d *SqliteCatalog) DeleteFile(ctx context.Context, id string) error {
	result, err := d.db.ExecContext(ctx, `DELETE FROM media_files WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("file not found: %s", id)
	}
	return nil
}

// Close closes the underlying database handle.
func (d *SqliteCatalog) Close() error {
	return d.db.Close()
}

const selectColumns = `
  SELECT id, path, mime_type, taken_at, zone, zone_source,
    latitude, longitude, make, model, warnings, raw_json, added_at
  FROM media_files`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (*media.File, error) {
	var f media.File
	var takenAt, warnings, addedAt sql.NullString
	var lat, lon sql.NullFloat64

	err := row.Scan(&f.ID, &f.Path, &f.MIMEType, &takenAt, &f.Zone, &f.ZoneSource,
		&lat, &lon, &f.Make, &f.Model, &warnings, &f.RawJSON, &addedAt)
	if err != nil {
		return nil, err
	}

	if takenAt.Valid && takenAt.String != "" {
		t, err := time.Parse(time.RFC3339Nano, takenAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing taken_at for %s: %w", f.Path, err)
		}
		f.TakenAt = &t
	}
	if lat.Valid {
		f.Latitude = &lat.Float64
	}
	if lon.Valid {
		f.Longitude = &lon.Float64
	}
	if warnings.Valid && warnings.String != "" {
		if err := json.Unmarshal([]byte(warnings.String), &f.Warnings); err != nil {
			return nil, fmt.Errorf("decoding warnings for %s: %w", f.Path, err)
		}
	}
	if addedAt.Valid && addedAt.String != "" {
		t, err := time.Parse(time.RFC3339, addedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing added_at for %s: %w", f.Path, err)
		}
		f.AddedAt = t
	}
	return &f, nil
}
