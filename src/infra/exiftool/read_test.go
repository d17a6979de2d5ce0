package exiftool

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/crivero/shoebox/src/media"
)

func decodeRecord(t *testing.T, opts Options, record map[string]any, diagnostics ...string) *media.Tags {
	t.Helper()
	path, _ := record["SourceFile"].(string)
	task := newReadTask(path, opts)
	text, err := json.Marshal([]map[string]any{record})
	if err != nil {
		t.Fatalf("marshaling record: %v", err)
	}
	tags, err := task.Decode(string(text), diagnostics)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return tags
}

func TestDecode_RejectsMalformedJSON(t *testing.T) {
	task := newReadTask("/p/a.jpg", Options{})
	if _, err := task.Decode("not json", nil); !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

func TestDecode_RejectsMultipleRecords(t *testing.T) {
	task := newReadTask("/p/a.jpg", Options{})
	text := `[{"SourceFile":"/p/a.jpg"},{"SourceFile":"/p/b.jpg"}]`
	if _, err := task.Decode(text, nil); !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

func TestDecode_RejectsReplyForDifferentFile(t *testing.T) {
	task := newReadTask("/p/a.jpg", Options{})
	text := `[{"SourceFile":"/p/b.jpg"}]`
	if _, err := task.Decode(text, nil); !errors.Is(err, ErrIntegrity) {
		t.Errorf("expected ErrIntegrity, got %v", err)
	}
}

func TestDecode_NullSentinelsDropSilently(t *testing.T) {
	tags := decodeRecord(t, Options{}, map[string]any{
		"SourceFile": "/p/a.jpg",
		"Artist":     "undef",
		"Software":   " NULL ",
		"Title":      "undefined",
		"Keep":       "undeformed",
	})
	for _, name := range []string{"Artist", "Software", "Title"} {
		if _, ok := tags.Values[name]; ok {
			t.Errorf("%s should have been dropped", name)
		}
	}
	if v := tags.Values["Keep"]; v != "undeformed" {
		t.Errorf("Keep = %v, want the raw string back", v)
	}
	if len(tags.Warnings) != 0 {
		t.Errorf("null sentinels must not warn, got %v", tags.Warnings)
	}
}

func TestDecode_AllZeroTimestampPassesThrough(t *testing.T) {
	tags := decodeRecord(t, Options{}, map[string]any{
		"SourceFile": "/p/a.jpg",
		"ModifyDate": "0000:00:00 00:00:00",
		"CreateDate": "00",
	})
	if v := tags.Values["ModifyDate"]; v != "0000:00:00 00:00:00" {
		t.Errorf("ModifyDate = %#v, want the raw string", v)
	}
	if v := tags.Values["CreateDate"]; v != "00" {
		t.Errorf("CreateDate = %#v, want the raw string", v)
	}
	if len(tags.Warnings) != 0 {
		t.Errorf("all-zero values must not warn, got %v", tags.Warnings)
	}
}

func TestDecode_BinaryMarker(t *testing.T) {
	tags := decodeRecord(t, Options{}, map[string]any{
		"SourceFile":     "/p/a.jpg",
		"ThumbnailImage": "(Binary data 453120 bytes, use -b option to extract)",
	})
	b, ok := tags.Values["ThumbnailImage"].(media.Binary)
	if !ok {
		t.Fatalf("ThumbnailImage = %#v, want media.Binary", tags.Values["ThumbnailImage"])
	}
	if b.Bytes != 453120 {
		t.Errorf("Bytes = %d, want 453120", b.Bytes)
	}
}

func TestDecode_ValidSuffixBecomesBool(t *testing.T) {
	tags := decodeRecord(t, Options{}, map[string]any{
		"SourceFile":       "/p/a.jpg",
		"CalibrationValid": "Yes",
		"FocusValid":       "0",
	})
	if v, ok := tags.Values["CalibrationValid"].(bool); !ok || v != true {
		t.Errorf("CalibrationValid = %#v, want true", tags.Values["CalibrationValid"])
	}
	if v, ok := tags.Values["FocusValid"].(bool); !ok || v != false {
		t.Errorf("FocusValid = %#v, want false", tags.Values["FocusValid"])
	}
}

func TestDecode_NonTemporalAllowListSkipsDateParsing(t *testing.T) {
	tags := decodeRecord(t, Options{}, map[string]any{
		"SourceFile":        "/p/a.jpg",
		"DateDisplayFormat": "Y/M/D",
		"FirmwareVersion":   "1.2.3",
		"Timecode":          "00:00:12:07",
	})
	for name, want := range map[string]string{
		"DateDisplayFormat": "Y/M/D",
		"FirmwareVersion":   "1.2.3",
		"Timecode":          "00:00:12:07",
	} {
		if v := tags.Values[name]; v != want {
			t.Errorf("%s = %#v, want %q", name, v, want)
		}
	}
	if len(tags.Warnings) != 0 {
		t.Errorf("allow-listed tags must not warn, got %v", tags.Warnings)
	}
}

func TestDecode_MalformedTimestampWarnsAndKeepsRaw(t *testing.T) {
	tags := decodeRecord(t, Options{}, map[string]any{
		"SourceFile":       "/p/a.jpg",
		"DateTimeOriginal": "2021:13:40 27:77:99",
	})
	if v := tags.Values["DateTimeOriginal"]; v != "2021:13:40 27:77:99" {
		t.Errorf("DateTimeOriginal = %#v, want the raw string", v)
	}
	if len(tags.Warnings) != 1 || !strings.Contains(tags.Warnings[0], "DateTimeOriginal") {
		t.Errorf("expected one parse warning naming the tag, got %v", tags.Warnings)
	}
}

func TestDecode_ExplicitOffsetParses(t *testing.T) {
	tags := decodeRecord(t, Options{}, map[string]any{
		"SourceFile":       "/p/a.jpg",
		"DateTimeOriginal": "2023:06:15 14:30:00+02:00",
	})
	dt, ok := tags.Values["DateTimeOriginal"].(media.DateTime)
	if !ok {
		t.Fatalf("DateTimeOriginal = %#v, want media.DateTime", tags.Values["DateTimeOriginal"])
	}
	if !dt.ZoneExplicit {
		t.Error("offset-suffixed value should be ZoneExplicit")
	}
	_, offset := dt.Time.Zone()
	if offset != 2*3600 {
		t.Errorf("offset = %d, want +02:00", offset)
	}
}

func TestDecode_NestedStructValuesDecodeWithDottedNames(t *testing.T) {
	tags := decodeRecord(t, Options{}, map[string]any{
		"SourceFile": "/p/a.jpg",
		"RegionInfo": map[string]any{
			"AppliedToDimensions": map[string]any{
				"W": 4000.0,
				"H": "undef",
			},
			"RegionList": []any{
				map[string]any{"Name": "someone", "Type": "Face"},
			},
		},
	})
	info, ok := tags.Values["RegionInfo"].(map[string]any)
	if !ok {
		t.Fatalf("RegionInfo = %#v", tags.Values["RegionInfo"])
	}
	dims := info["AppliedToDimensions"].(map[string]any)
	if dims["W"] != 4000.0 {
		t.Errorf("W = %#v", dims["W"])
	}
	if _, ok := dims["H"]; ok {
		t.Error("null sentinel inside struct should be dropped")
	}
	list := info["RegionList"].([]any)
	if len(list) != 1 {
		t.Fatalf("RegionList = %#v", list)
	}
}

func TestDecode_GPSZeroZeroSuppressed(t *testing.T) {
	tags := decodeRecord(t, Options{IgnoreZeroZeroLatLon: true}, map[string]any{
		"SourceFile":      "/p/a.jpg",
		"GPSLatitude":     "0.00000000",
		"GPSLongitude":    "0.00000000",
		"GPSAltitude":     12.5,
		"GeolocationCity": "Null Island",
		"Make":            "Canon",
	})
	for _, name := range []string{"GPSLatitude", "GPSLongitude", "GPSAltitude", "GeolocationCity"} {
		if _, ok := tags.Values[name]; ok {
			t.Errorf("%s should have been suppressed", name)
		}
	}
	if tags.Values["Make"] != "Canon" {
		t.Error("non-GPS tags must survive suppression")
	}
	if len(tags.Warnings) != 1 || !strings.Contains(tags.Warnings[0], "(0, 0)") {
		t.Errorf("expected a (0, 0) warning, got %v", tags.Warnings)
	}
}

func TestDecode_GPSHemisphereRefFixesSign(t *testing.T) {
	tags := decodeRecord(t, Options{}, map[string]any{
		"SourceFile":      "/p/a.jpg",
		"GPSLatitude":     "33.86785000",
		"GPSLatitudeRef":  "South",
		"GPSLongitude":    "151.20732000",
		"GPSLongitudeRef": "East",
	})
	if lat := tags.Values["GPSLatitude"]; lat != -33.86785 {
		t.Errorf("GPSLatitude = %#v, want -33.86785", lat)
	}
	if lon := tags.Values["GPSLongitude"]; lon != 151.20732 {
		t.Errorf("GPSLongitude = %#v, want 151.20732", lon)
	}
}

func TestDecode_GPSTagTimestampsAssumedUTC(t *testing.T) {
	tags := decodeRecord(t, Options{}, map[string]any{
		"SourceFile":   "/p/a.jpg",
		"GPSLatitude":  10.0,
		"GPSLongitude": 20.0,
		"GPSDateTime":  "2023:06:15 12:30:00",
	})
	dt, ok := tags.Values["GPSDateTime"].(media.DateTime)
	if !ok {
		t.Fatalf("GPSDateTime = %#v", tags.Values["GPSDateTime"])
	}
	if dt.Time.Location().String() != "UTC" || dt.ZoneSource != "UTC" {
		t.Errorf("GPSDateTime zone = %s (source %s), want UTC", dt.Time.Location(), dt.ZoneSource)
	}
}

func TestDecode_VideoTimestampsDefaultToUTC(t *testing.T) {
	tags := decodeRecord(t, Options{DefaultVideosToUTC: true}, map[string]any{
		"SourceFile": "/p/clip.mp4",
		"MIMEType":   "video/mp4",
		"CreateDate": "2020:01:01 10:00:00",
	})
	dt, ok := tags.Values["CreateDate"].(media.DateTime)
	if !ok {
		t.Fatalf("CreateDate = %#v", tags.Values["CreateDate"])
	}
	if dt.Time.Location().String() != "UTC" {
		t.Errorf("zone = %s, want UTC", dt.Time.Location())
	}
	if dt.ZoneSource != "defaultVideosToUTC" {
		t.Errorf("zone source = %q, want defaultVideosToUTC", dt.ZoneSource)
	}
	if tags.Zone != "UTC" || tags.ZoneSource != "defaultVideosToUTC" {
		t.Errorf("record zone = %s (%s), want UTC (defaultVideosToUTC)", tags.Zone, tags.ZoneSource)
	}
	if dt.Time.Hour() != 10 {
		t.Errorf("wall clock changed: %v", dt.Time)
	}
}

func TestDecode_VideoUTCReexpressedInExplicitZone(t *testing.T) {
	// The camera wrote an offset tag, so the cascade knows the real
	// zone; the zoneless video timestamp is assumed UTC and then
	// converted to that zone, preserving the instant.
	tags := decodeRecord(t, Options{DefaultVideosToUTC: true, BackfillTimezones: true}, map[string]any{
		"SourceFile": "/p/clip.mov",
		"MIMEType":   "video/quicktime",
		"OffsetTime": "+02:00",
		"CreateDate": "2020:06:01 10:00:00",
	})
	dt, ok := tags.Values["CreateDate"].(media.DateTime)
	if !ok {
		t.Fatalf("CreateDate = %#v", tags.Values["CreateDate"])
	}
	_, offset := dt.Time.Zone()
	if offset != 2*3600 {
		t.Errorf("offset = %d, want +02:00", offset)
	}
	// 10:00 UTC is 12:00 at +02:00.
	if dt.Time.Hour() != 12 {
		t.Errorf("hour = %d, want 12", dt.Time.Hour())
	}
	if tags.Zone != "UTC+02:00" {
		t.Errorf("record zone = %q, want UTC+02:00", tags.Zone)
	}
}

func TestDecode_AttachesWorkerDiagnosticsAsWarnings(t *testing.T) {
	tags := decodeRecord(t, Options{}, map[string]any{
		"SourceFile": "/p/a.jpg",
	}, "Warning: Bad MakerNotes offset")
	if len(tags.Warnings) != 1 || tags.Warnings[0] != "Warning: Bad MakerNotes offset" {
		t.Errorf("warnings = %v", tags.Warnings)
	}
}

func TestArgs_ReflectOptions(t *testing.T) {
	task := newReadTask("/p/a.jpg", Options{
		GroupNames:    true,
		NumericTags:   []string{"Orientation"},
		Geolocation:   true,
		ImageHashType: "MD5",
		StructFormat:  2,
	})
	got := strings.Join(task.Args(), " ")
	want := "-json -struct -coordFormat %.8f -G -Orientation# -api geolocation -api imagehashtype=MD5 -api struct=2 /p/a.jpg"
	if got != want {
		t.Errorf("args = %q, want %q", got, want)
	}
}
