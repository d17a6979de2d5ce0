package media

import (
	"strings"
	"time"
)

// Tags is the decoded result of one metadata read: a mapping from tag
// name (group-qualified when the read requested group names) to a typed
// value. Values are one of: string, float64, bool, Binary, Date,
// TimeOfDay, DateTime, []any, map[string]any, or the raw decoded value
// when nothing richer applies.
type Tags struct {
	// SourceFile is the absolute path the record was read from. Set
	// once by the decoder and never modified.
	SourceFile string

	Values map[string]any

	// Zone and ZoneSource carry the file-level timezone decision: the
	// resolved zone name and the tag or heuristic that produced it.
	// Both are empty when no source yielded a zone.
	Zone       string
	ZoneSource string

	Errors   []string
	Warnings []string
}

// Get returns the value for name, ignoring any Group: prefix on the
// stored keys. An exact match wins over a degrouped one.
func (t *Tags) Get(name string) (any, bool) {
	if v, ok := t.Values[name]; ok {
		return v, true
	}
	for k, v := range t.Values {
		if baseTagName(k) == name {
			return v, true
		}
	}
	return nil, false
}

// TakenAt returns the best capture timestamp in the record, trying the
// usual tags in decreasing order of trust.
func (t *Tags) TakenAt() (DateTime, bool) {
	for _, name := range []string{
		"SubSecDateTimeOriginal",
		"DateTimeOriginal",
		"SubSecCreateDate",
		"CreateDate",
		"MediaCreateDate",
		"ModifyDate",
	} {
		if v, ok := t.Get(name); ok {
			if dt, ok := v.(DateTime); ok {
				return dt, true
			}
		}
	}
	return DateTime{}, false
}

// Location returns the decoded GPS coordinates, when present and valid.
func (t *Tags) Location() (lat, lon float64, ok bool) {
	la, ok1 := t.Get("GPSLatitude")
	lo, ok2 := t.Get("GPSLongitude")
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	laf, ok1 := la.(float64)
	lof, ok2 := lo.(float64)
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	return laf, lof, true
}

// MIMEType returns the record's MIMEType tag, if any.
func (t *Tags) MIMEType() string {
	if v, ok := t.Get("MIMEType"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func baseTagName(name string) string {
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// File is one cataloged media file: the subset of its extracted
// metadata the catalog indexes, plus bookkeeping.
type File struct {
	ID         string
	Path       string
	MIMEType   string
	TakenAt    *time.Time
	Zone       string
	ZoneSource string
	Latitude   *float64
	Longitude  *float64
	Make       string
	Model      string
	Warnings   []string
	RawJSON    string
	AddedAt    time.Time
}
