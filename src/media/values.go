package media

import (
	"fmt"
	"strings"
	"time"
)

// Binary marks a tag value the extraction tool elided as an opaque blob
// (previews, thumbnails, maker-note payloads).
type Binary struct {
	Bytes int64  // advertised payload size, -1 when unknown
	Note  string // the raw marker text
}

func (b Binary) String() string {
	if b.Bytes >= 0 {
		return fmt.Sprintf("(binary, %d bytes)", b.Bytes)
	}
	return "(binary)"
}

// Date is a calendar date with no time component, as found in
// date-only tags like GPSDateStamp.
type Date struct {
	Year  int
	Month int
	Day   int
	Raw   string
}

func (d Date) String() string {
	return fmt.Sprintf("%04d:%02d:%02d", d.Year, d.Month, d.Day)
}

// TimeOfDay is a wall-clock time with no date component, as found in
// time-only tags like GPSTimeStamp.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
	Nano   int
	Raw    string
}

func (t TimeOfDay) String() string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if t.Nano > 0 {
		frac := fmt.Sprintf("%09d", t.Nano)
		s += "." + strings.TrimRight(frac, "0")
	}
	return s
}

// DateTime is a decoded date-and-time tag value. The embedded zone may
// come from the raw text itself (ZoneExplicit), from inference
// (ZoneSource names the heuristic), or be absent entirely, in which
// case Time is interpreted in the decoder's local zone.
type DateTime struct {
	Time         time.Time
	ZoneExplicit bool   // offset or zone was present in the raw text
	ZoneInferred bool   // zone was attached after decoding
	ZoneSource   string // heuristic or tag that supplied an inferred zone
	Raw          string
}

// HasZone reports whether the value carries a known zone, explicit or
// inferred.
func (d DateTime) HasZone() bool {
	return d.ZoneExplicit || d.ZoneInferred
}

// AssumeZone reinterprets the wall-clock fields in loc, keeping the
// displayed date and time but shifting the absolute instant. Used when
// a zoneless value is known to have been recorded in a specific zone.
func (d DateTime) AssumeZone(loc *time.Location, source string) DateTime {
	t := d.Time
	d.Time = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
	d.ZoneInferred = true
	d.ZoneSource = source
	return d
}

// ConvertZone re-expresses the value in loc, preserving the absolute
// instant and changing only the displayed zone.
func (d DateTime) ConvertZone(loc *time.Location, source string) DateTime {
	d.Time = d.Time.In(loc)
	d.ZoneInferred = true
	d.ZoneSource = source
	return d
}

// String renders the value in the extraction tool's own dialect,
// including the offset when the zone is known.
func (d DateTime) String() string {
	layout := "2006:01:02 15:04:05"
	if d.Time.Nanosecond() > 0 {
		layout += ".999999999"
	}
	if d.HasZone() {
		layout += "-07:00"
	}
	return d.Time.Format(layout)
}
