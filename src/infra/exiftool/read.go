package exiftool

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/crivero/shoebox/src/media"
)

// dateTimeNameRe matches tag names that usually carry temporal values.
var dateTimeNameRe = regexp.MustCompile(`(?i)when|date|time|subsec|creat|modif`)

// nonTemporalNames are tags whose names match dateTimeNameRe but whose
// values are firmware strings, display formats, or zone city names —
// never instants. They pass through undecoded.
var nonTemporalNames = map[string]bool{
	"DateStampMode":     true,
	"DateDisplayFormat": true,
	"FirmwareVersion":   true,
	"FirmwareRevision":  true,
	"TimeZoneCity":      true,
	"DaylightSavings":   true,
	"Timecode":          true,
}

// ReadTask decodes one file's JSON tag record. A task is built per
// request, used once, and discarded; its GPS and timezone derivations
// are computed at most once and cached on the task, never shared.
type ReadTask struct {
	path string
	opts Options

	raw       map[string]any
	ungrouped map[string]any

	warnings []string
	errors   []string

	gpsOnce bool
	gps     gpsResult

	tzOnce bool
	tz     *zoneChoice

	videoOnce bool
	video     bool
}

func newReadTask(path string, opts Options) *ReadTask {
	return &ReadTask{path: path, opts: opts}
}

// Args returns the command-line tokens for this read.
func (t *ReadTask) Args() []string {
	args := []string{"-json", "-struct", "-coordFormat", "%.8f"}
	if t.opts.GroupNames {
		args = append(args, "-G")
	}
	for _, tag := range t.opts.NumericTags {
		args = append(args, "-"+tag+"#")
	}
	if t.opts.Geolocation {
		args = append(args, "-api", "geolocation")
	}
	if t.opts.ImageHashType != "" {
		args = append(args, "-api", "imagehashtype="+t.opts.ImageHashType)
	}
	if t.opts.StructFormat > 0 {
		args = append(args, "-api", "struct="+strconv.Itoa(t.opts.StructFormat))
	}
	args = append(args, t.path)
	return args
}

// Decode turns the raw reply text plus the worker's attributed
// diagnostics into a typed record. A single bad leaf never aborts the
// record; only malformed JSON or a subject mismatch does.
func (t *ReadTask) Decode(text string, diagnostics []string) (*media.Tags, error) {
	var records []map[string]any
	if err := json.Unmarshal([]byte(text), &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(records) != 1 {
		return nil, fmt.Errorf("%w: expected one record, got %d", ErrDecode, len(records))
	}
	t.raw = records[0]

	// A reply naming a different file means the reply queue and the
	// request queue have come apart. That is never a data-quality
	// problem; fail the call.
	src, _ := t.raw["SourceFile"].(string)
	if filepath.ToSlash(src) != filepath.ToSlash(t.path) {
		return nil, fmt.Errorf("%w: reply for %q, requested %q", ErrIntegrity, src, t.path)
	}

	t.buildUngrouped()
	t.warnings = append(t.warnings, diagnostics...)

	gps := t.gpsInfo()

	names := make([]string, 0, len(t.raw))
	for name := range t.raw {
		if name != "SourceFile" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	values := make(map[string]any, len(names))
	for _, name := range names {
		base := baseName(name)
		if gps.present && !gps.valid && isGPSTag(base) {
			continue
		}
		if gps.present && gps.valid {
			if fixed, ok := gps.corrections[base]; ok {
				values[name] = fixed
				continue
			}
		}
		if v, keep := t.decodeLeaf(name, t.raw[name]); keep {
			values[name] = v
		}
	}

	tags := &media.Tags{
		SourceFile: t.path,
		Values:     values,
		Errors:     t.errors,
		Warnings:   t.warnings,
	}
	if z := t.timezone(); z != nil {
		tags.Zone = z.name
		tags.ZoneSource = z.src
	}
	return tags, nil
}

// buildUngrouped strips Group: prefixes into a parallel view used only
// for cross-tag lookups like MIMEType. Grouped keys win on collision
// order is not defined, which matches the tool's own behavior.
func (t *ReadTask) buildUngrouped() {
	t.ungrouped = make(map[string]any, len(t.raw))
	for name, v := range t.raw {
		t.ungrouped[baseName(name)] = v
	}
}

func (t *ReadTask) lookup(name string) (any, bool) {
	if v, ok := t.raw[name]; ok {
		return v, true
	}
	v, ok := t.ungrouped[name]
	return v, ok
}

func (t *ReadTask) lookupString(name string) (string, bool) {
	v, ok := t.lookup(name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// decodeLeaf decodes one value, recursing into structures and
// sequences. The bool result is false when the value decodes to
// absence and its key should be dropped.
func (t *ReadTask) decodeLeaf(name string, v any) (any, bool) {
	switch x := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(map[string]any, len(x))
		for _, k := range keys {
			if dv, keep := t.decodeLeaf(name+"."+k, x[k]); keep {
				out[k] = dv
			}
		}
		return out, true
	case []any:
		out := make([]any, 0, len(x))
		for i, e := range x {
			if dv, keep := t.decodeLeaf(fmt.Sprintf("%s.%d", name, i), e); keep {
				out = append(out, dv)
			}
		}
		return out, true
	case string:
		return t.decodeString(name, x)
	default:
		return v, true
	}
}

func (t *ReadTask) decodeString(name, s string) (any, bool) {
	base := baseName(name)
	if nullish(s) {
		return nil, false
	}
	if b, ok := parseBinaryMarker(s); ok {
		return b, true
	}
	if strings.HasSuffix(base, "Valid") {
		if bv, ok := parseBool(s); ok {
			return bv, true
		}
	}
	if nonTemporalNames[stripPath(base)] {
		return s, true
	}
	if dateTimeNameRe.MatchString(base) {
		// All-zero strings ("00", "0000:00:00 00:00:00") name no
		// instant and are returned untouched.
		if allZeroDigits(s) {
			return s, true
		}
		if dt, ok := parseDateTime(s, time.Local); ok {
			return t.applyZone(base, dt), true
		}
		if tod, ok := parseTimeOnly(s); ok {
			return tod, true
		}
		if d, ok := parseDateOnly(s); ok {
			return d, true
		}
		// Zone-offset tags (OffsetTime and friends) look temporal but
		// name no instant; keep them raw, the cascade reads them.
		if _, ok := parseZoneOffset(s); ok {
			return s, true
		}
		if looksTemporal(s) {
			t.warnf("failed to parse %s value %q", name, s)
		}
	}
	return s, true
}

// applyZone attaches or corrects the zone on a decoded date-time value
// according to the tag's provenance and the file-level inference.
func (t *ReadTask) applyZone(base string, dt media.DateTime) media.DateTime {
	utcTag := strings.HasPrefix(base, "GPS") || strings.Contains(base, "UTC")
	if !dt.ZoneExplicit {
		switch {
		case utcTag:
			dt = dt.AssumeZone(time.UTC, "UTC")
		case t.videoToUTC():
			dt = dt.AssumeZone(time.UTC, "defaultVideosToUTC")
		case t.opts.BackfillTimezones:
			if z := t.timezone(); z != nil {
				dt = dt.AssumeZone(z.loc, z.src)
			}
		}
	}
	// Video encoders that stamp zoneless UTC: once the value has been
	// assumed into UTC, re-express it in the file's real zone when the
	// cascade knows better. Same instant, different display zone.
	if dt.ZoneInferred && t.videoToUTC() && !utcTag {
		if z := t.timezone(); z != nil && z.name != dt.Time.Location().String() {
			dt = dt.ConvertZone(z.loc, z.src)
		}
	}
	return dt
}

func (t *ReadTask) videoToUTC() bool {
	return t.opts.DefaultVideosToUTC && t.isVideo()
}

func (t *ReadTask) isVideo() bool {
	if !t.videoOnce {
		t.videoOnce = true
		if mime, ok := t.lookupString("MIMEType"); ok {
			t.video = strings.HasPrefix(mime, "video/")
		}
	}
	return t.video
}

func (t *ReadTask) warnf(format string, args ...any) {
	t.warnings = append(t.warnings, fmt.Sprintf(format, args...))
}

// gpsResult is the once-per-task GPS derivation: whether coordinates
// are present and valid, the signed decimal values, and per-tag
// corrections substituted during decoding.
type gpsResult struct {
	present     bool
	valid       bool
	lat, lon    float64
	corrections map[string]float64
}

func (t *ReadTask) gpsInfo() gpsResult {
	if t.gpsOnce {
		return t.gps
	}
	t.gpsOnce = true
	t.gps = t.computeGPS()
	return t.gps
}

func (t *ReadTask) computeGPS() gpsResult {
	latRaw, okLat := t.lookup("GPSLatitude")
	lonRaw, okLon := t.lookup("GPSLongitude")
	if !okLat && !okLon {
		return gpsResult{}
	}
	res := gpsResult{present: true}
	lat, ok1 := parseCoordinate(latRaw)
	lon, ok2 := parseCoordinate(lonRaw)
	if !ok1 || !ok2 {
		t.warnf("unparseable GPS coordinates %v, %v", latRaw, lonRaw)
		return res
	}
	if ref, ok := t.lookupString("GPSLatitudeRef"); ok && strings.HasPrefix(strings.ToUpper(ref), "S") && lat > 0 {
		lat = -lat
	}
	if ref, ok := t.lookupString("GPSLongitudeRef"); ok && strings.HasPrefix(strings.ToUpper(ref), "W") && lon > 0 {
		lon = -lon
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		t.warnf("GPS coordinates out of range: %.8f, %.8f", lat, lon)
		return res
	}
	if lat == 0 && lon == 0 && t.opts.IgnoreZeroZeroLatLon {
		t.warnf("ignoring GPS coordinates at (0, 0)")
		return res
	}
	res.valid = true
	res.lat, res.lon = lat, lon
	res.corrections = map[string]float64{
		"GPSLatitude":  lat,
		"GPSLongitude": lon,
	}
	return res
}

func isGPSTag(base string) bool {
	return strings.HasPrefix(base, "GPS") || strings.HasPrefix(base, "Geolocation")
}

func baseName(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// stripPath drops any dotted struct path, leaving the final component.
func stripPath(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
