package exiftool

import (
	"fmt"
	"strings"
	"time"
)

// zoneChoice is a resolved timezone plus the tag or heuristic that
// produced it.
type zoneChoice struct {
	loc  *time.Location
	name string
	src  string
}

// explicitZoneTags, in decreasing trust order. These carry an offset or
// zone the camera wrote down itself.
var explicitZoneTags = []string{
	"TimeZone",
	"OffsetTime",
	"OffsetTimeOriginal",
	"OffsetTimeDigitized",
	"TimeZoneOffset",
}

// datestampPairs are (tag-in-UTC, tag-in-local) pairs whose wall-clock
// difference implies the local offset.
var datestampPairs = [][2]string{
	{"GPSDateTime", "DateTimeOriginal"},
	{"GPSDateTime", "CreateDate"},
	{"DateTimeUTC", "DateTimeOriginal"},
	{"DateTimeUTC", "CreateDate"},
}

// offsetSuffixTags are scanned as a last resort for a trailing offset
// embedded in a combined timestamp.
var offsetSuffixTags = []string{
	"SubSecDateTimeOriginal",
	"DateTimeOriginal",
	"SubSecCreateDate",
	"CreateDate",
	"MediaCreateDate",
	"ModifyDate",
}

// timezone resolves the file's zone at most once per task, trying
// sources in fixed priority order and stopping at the first hit. The
// GPS step runs first only when the preference flag asks for it;
// otherwise explicit tags win and GPS is tried after them.
func (t *ReadTask) timezone() *zoneChoice {
	if t.tzOnce {
		return t.tz
	}
	t.tzOnce = true
	t.tz = t.computeTimezone()
	return t.tz
}

func (t *ReadTask) computeTimezone() *zoneChoice {
	if t.opts.PreferTzFromGps {
		if z := t.zoneFromGPS(); z != nil {
			return z
		}
	}
	if z := t.zoneFromExplicitTags(); z != nil {
		return z
	}
	if !t.opts.PreferTzFromGps {
		if z := t.zoneFromGPS(); z != nil {
			return z
		}
	}
	if t.opts.InferTzFromDatestamps {
		if z := t.zoneFromDatestampPairs(); z != nil {
			return z
		}
	}
	if t.videoToUTC() {
		return &zoneChoice{loc: time.UTC, name: "UTC", src: "defaultVideosToUTC"}
	}
	if z := t.zoneFromUTCOffsetField(); z != nil {
		return z
	}
	return t.zoneFromTimestampSuffix()
}

func (t *ReadTask) zoneFromExplicitTags() *zoneChoice {
	for _, tag := range explicitZoneTags {
		v, ok := t.lookup(tag)
		if !ok {
			continue
		}
		if z := t.zoneFromValue(tag, v); z != nil {
			return z
		}
	}
	return nil
}

func (t *ReadTask) zoneFromValue(tag string, v any) *zoneChoice {
	switch x := v.(type) {
	case float64:
		// Numeric hours east of UTC, possibly fractional.
		secs := int(x * 3600)
		if secs < -14*3600 || secs > 14*3600 {
			return nil
		}
		loc := fixedZone(secs)
		return &zoneChoice{loc: loc, name: loc.String(), src: tag}
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil
		}
		if strings.ContainsRune(s, '/') {
			if loc, err := time.LoadLocation(s); err == nil {
				return &zoneChoice{loc: loc, name: s, src: tag}
			}
			return nil
		}
		if secs, ok := parseZoneOffset(s); ok {
			loc := fixedZone(secs)
			return &zoneChoice{loc: loc, name: loc.String(), src: tag}
		}
	case []any:
		// TimeZoneOffset may be a pair (DateTimeOriginal offset,
		// ModifyDate offset); the first applies to the capture time.
		if len(x) > 0 {
			return t.zoneFromValue(tag, x[0])
		}
	}
	return nil
}

func (t *ReadTask) zoneFromGPS() *zoneChoice {
	// The tool's own geolocation zone wins over a coordinate lookup
	// when it names a real zone.
	if s, ok := t.lookupString("GeolocationTimeZone"); ok && s != "" {
		if loc, err := time.LoadLocation(s); err == nil {
			return &zoneChoice{loc: loc, name: s, src: "GeolocationTimeZone"}
		}
	}
	gps := t.gpsInfo()
	if !gps.present || !gps.valid || t.opts.TimezoneLookup == nil {
		return nil
	}
	name, err := t.opts.TimezoneLookup(gps.lat, gps.lon)
	if err != nil {
		// A lookup failure costs this one source, not the record.
		t.warnf("timezone lookup for %.5f, %.5f failed: %v", gps.lat, gps.lon, err)
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.warnf("timezone lookup returned unknown zone %q", name)
		return nil
	}
	return &zoneChoice{loc: loc, name: name, src: "GPSLatitude/GPSLongitude"}
}

// zoneFromDatestampPairs derives the offset from a UTC-stamped tag and
// a local-stamped tag recorded at the same instant. Real offsets fall
// on 30-minute boundaries within ±14h; anything else is clock skew.
func (t *ReadTask) zoneFromDatestampPairs() *zoneChoice {
	for _, pair := range datestampPairs {
		utcRaw, ok := t.lookupString(pair[0])
		if !ok {
			continue
		}
		localRaw, ok := t.lookupString(pair[1])
		if !ok {
			continue
		}
		utcDT, ok := parseDateTime(strings.TrimSuffix(utcRaw, "Z"), time.UTC)
		if !ok {
			continue
		}
		localDT, ok := parseDateTime(localRaw, time.UTC)
		if !ok || localDT.ZoneExplicit {
			continue
		}
		delta := localDT.Time.Sub(utcDT.Time).Round(30 * time.Minute)
		if delta < -14*time.Hour || delta > 14*time.Hour {
			continue
		}
		loc := fixedZone(int(delta / time.Second))
		return &zoneChoice{
			loc:  loc,
			name: loc.String(),
			src:  fmt.Sprintf("offset between %s and %s", pair[1], pair[0]),
		}
	}
	return nil
}

func (t *ReadTask) zoneFromUTCOffsetField() *zoneChoice {
	v, ok := t.lookup("UTCOffset")
	if !ok {
		return nil
	}
	return t.zoneFromValue("UTCOffset", v)
}

func (t *ReadTask) zoneFromTimestampSuffix() *zoneChoice {
	for _, tag := range offsetSuffixTags {
		s, ok := t.lookupString(tag)
		if !ok {
			continue
		}
		m := zoneSuffixRe.FindString(strings.TrimSpace(s))
		if m == "" || !looksTemporal(s) {
			continue
		}
		if secs, ok := parseZoneOffset(m); ok {
			loc := fixedZone(secs)
			return &zoneChoice{loc: loc, name: loc.String(), src: tag}
		}
	}
	return nil
}
