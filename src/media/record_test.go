package media

import (
	"testing"
	"time"
)

func TestTags_GetIgnoresGroupPrefix(t *testing.T) {
	tags := &Tags{Values: map[string]any{
		"EXIF:Make":  "Canon",
		"File:Model": "EOS R5",
	}}
	if v, ok := tags.Get("Make"); !ok || v != "Canon" {
		t.Errorf("Get(Make) = %v, %v", v, ok)
	}
	if v, ok := tags.Get("EXIF:Make"); !ok || v != "Canon" {
		t.Errorf("Get(EXIF:Make) = %v, %v", v, ok)
	}
	if _, ok := tags.Get("Absent"); ok {
		t.Error("Get(Absent) should miss")
	}
}

func TestTags_TakenAtPrefersOriginalOverModify(t *testing.T) {
	original := DateTime{Time: time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)}
	modified := DateTime{Time: time.Date(2024, 5, 5, 8, 0, 0, 0, time.UTC)}
	tags := &Tags{Values: map[string]any{
		"DateTimeOriginal": original,
		"ModifyDate":       modified,
	}}
	dt, ok := tags.TakenAt()
	if !ok || !dt.Time.Equal(original.Time) {
		t.Errorf("TakenAt = %v, %v; want the original timestamp", dt, ok)
	}
}

func TestTags_TakenAtMissing(t *testing.T) {
	tags := &Tags{Values: map[string]any{
		"ModifyDate": "0000:00:00 00:00:00", // undecoded, stayed a string
	}}
	if _, ok := tags.TakenAt(); ok {
		t.Error("a raw string must not count as a timestamp")
	}
}

func TestTags_Location(t *testing.T) {
	tags := &Tags{Values: map[string]any{
		"GPSLatitude":  -33.86785,
		"GPSLongitude": 151.20732,
	}}
	lat, lon, ok := tags.Location()
	if !ok || lat != -33.86785 || lon != 151.20732 {
		t.Errorf("Location = %v, %v, %v", lat, lon, ok)
	}

	if _, _, ok := (&Tags{Values: map[string]any{"GPSLatitude": -33.0}}).Location(); ok {
		t.Error("latitude alone is not a location")
	}
}
