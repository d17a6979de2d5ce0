package exiftool

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/crivero/shoebox/src/media"
)

// The tool's date dialect uses colons in the date part and an optional
// subsecond fraction and UTC offset. ISO-shaped variants show up in
// XMP and QuickTime tags, so both separators are accepted.
var dateTimeLayouts = []string{
	"2006:01:02 15:04:05.999999999Z07:00",
	"2006:01:02 15:04:05.999999999-0700",
	"2006:01:02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

var (
	zoneSuffixRe = regexp.MustCompile(`(Z|[+-]\d{2}:?\d{2})$`)
	dateOnlyRe   = regexp.MustCompile(`^(\d{4})[:-](\d{2})[:-](\d{2})$`)
	timeOnlyRe   = regexp.MustCompile(`^(\d{1,2}):(\d{2}):(\d{2})(\.\d+)?$`)
)

// parseDateTime decodes a full date-and-time string. Zoneless values
// are interpreted in loc; whether the zone was explicit in the text is
// recorded for the backfill rules.
func parseDateTime(s string, loc *time.Location) (media.DateTime, bool) {
	s = strings.TrimSpace(s)
	if s == "" || allZeroDigits(s) {
		return media.DateTime{}, false
	}
	explicit := zoneSuffixRe.MatchString(s)
	for _, layout := range dateTimeLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		// Layouts with an offset part also accept zoneless input in
		// some Go versions; trust the regexp, not the layout.
		return media.DateTime{Time: t, ZoneExplicit: explicit, Raw: s}, true
	}
	return media.DateTime{}, false
}

func parseDateOnly(s string) (media.Date, bool) {
	s = strings.TrimSpace(s)
	if allZeroDigits(s) {
		return media.Date{}, false
	}
	m := dateOnlyRe.FindStringSubmatch(s)
	if m == nil {
		return media.Date{}, false
	}
	d := media.Date{Year: atoi(m[1]), Month: atoi(m[2]), Day: atoi(m[3]), Raw: s}
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
		return media.Date{}, false
	}
	return d, true
}

func parseTimeOnly(s string) (media.TimeOfDay, bool) {
	s = strings.TrimSpace(s)
	if allZeroDigits(s) {
		return media.TimeOfDay{}, false
	}
	m := timeOnlyRe.FindStringSubmatch(s)
	if m == nil {
		return media.TimeOfDay{}, false
	}
	t := media.TimeOfDay{Hour: atoi(m[1]), Minute: atoi(m[2]), Second: atoi(m[3]), Raw: s}
	if t.Hour > 23 || t.Minute > 59 || t.Second > 60 {
		return media.TimeOfDay{}, false
	}
	if m[4] != "" {
		frac := m[4][1:]
		for len(frac) < 9 {
			frac += "0"
		}
		t.Nano = atoi(frac[:9])
	}
	return t, true
}

// allZeroDigits reports whether every digit in s is zero ("00",
// "0000:00:00 00:00:00"). Such strings name no instant and must never
// decode as one.
func allZeroDigits(s string) bool {
	sawDigit := false
	for _, r := range s {
		if r >= '1' && r <= '9' {
			return false
		}
		if r == '0' {
			sawDigit = true
		}
	}
	return sawDigit
}

// looksTemporal reports whether a string resembles a timestamp closely
// enough that a parse failure deserves a warning rather than a silent
// pass-through.
var temporalShapeRe = regexp.MustCompile(`\d{4}[:-]\d{2}|\d{1,2}:\d{2}`)

func looksTemporal(s string) bool {
	return temporalShapeRe.MatchString(s)
}

// parseZoneOffset decodes an explicit UTC-offset value: "+05:30",
// "-0700", "Z", "UTC+2", or bare numeric hours. Returns the offset in
// seconds.
var offsetRe = regexp.MustCompile(`^(?:UTC)?\s*([+-]?)(\d{1,2})(?::?(\d{2}))?$`)

func parseZoneOffset(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "Z" || strings.EqualFold(s, "UTC") || strings.EqualFold(s, "GMT") {
		return 0, true
	}
	m := offsetRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	hours := atoi(m[2])
	minutes := 0
	if m[3] != "" {
		minutes = atoi(m[3])
	}
	if hours > 14 || minutes > 59 {
		return 0, false
	}
	secs := hours*3600 + minutes*60
	if m[1] == "-" {
		secs = -secs
	}
	return secs, true
}

// fixedZone names a fixed-offset location the way the tool prints
// offsets: "UTC+05:30", "UTC-08:00", or "UTC" at zero.
func fixedZone(offsetSecs int) *time.Location {
	if offsetSecs == 0 {
		return time.UTC
	}
	sign := "+"
	abs := offsetSecs
	if abs < 0 {
		sign = "-"
		abs = -abs
	}
	name := fmt.Sprintf("UTC%s%02d:%02d", sign, abs/3600, abs%3600/60)
	return time.FixedZone(name, offsetSecs)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
