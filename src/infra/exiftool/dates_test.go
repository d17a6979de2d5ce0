package exiftool

import (
	"testing"
	"time"
)

func TestParseDateTime_Layouts(t *testing.T) {
	tests := []struct {
		in       string
		explicit bool
		want     string
	}{
		{"2023:06:15 14:30:00", false, "2023-06-15T14:30:00"},
		{"2023:06:15 14:30:00.123456", false, "2023-06-15T14:30:00.123456"},
		{"2023:06:15 14:30:00+02:00", true, "2023-06-15T14:30:00"},
		{"2023:06:15 14:30:00Z", true, "2023-06-15T14:30:00"},
		{"2023-06-15T14:30:00", false, "2023-06-15T14:30:00"},
		{"2023:06:15 14:30:00-0700", true, "2023-06-15T14:30:00"},
		{"2023-06-15 14:30:00-07:00", true, "2023-06-15T14:30:00"},
	}
	for _, tt := range tests {
		dt, ok := parseDateTime(tt.in, time.UTC)
		if !ok {
			t.Errorf("parseDateTime(%q) failed", tt.in)
			continue
		}
		if dt.ZoneExplicit != tt.explicit {
			t.Errorf("parseDateTime(%q) explicit = %v, want %v", tt.in, dt.ZoneExplicit, tt.explicit)
		}
		if got := dt.Time.Format("2006-01-02T15:04:05.999999999"); got != tt.want {
			t.Errorf("parseDateTime(%q) = %s, want %s", tt.in, got, tt.want)
		}
		if dt.Raw != tt.in {
			t.Errorf("parseDateTime(%q) lost raw text: %q", tt.in, dt.Raw)
		}
	}
}

func TestParseDateTime_Rejections(t *testing.T) {
	for _, in := range []string{"", "0000:00:00 00:00:00", "not a date", "2023:06:15"} {
		if _, ok := parseDateTime(in, time.UTC); ok {
			t.Errorf("parseDateTime(%q) should fail", in)
		}
	}
}

func TestParseDateOnly(t *testing.T) {
	d, ok := parseDateOnly("2023:06:15")
	if !ok || d.Year != 2023 || d.Month != 6 || d.Day != 15 {
		t.Errorf("parseDateOnly = %+v, ok=%v", d, ok)
	}
	if d.String() != "2023:06:15" {
		t.Errorf("String = %q", d.String())
	}
	if _, ok := parseDateOnly("2023:13:15"); ok {
		t.Error("month 13 accepted")
	}
	if _, ok := parseDateOnly("0000:00:00"); ok {
		t.Error("all-zero date accepted")
	}
}

func TestParseTimeOnly(t *testing.T) {
	tod, ok := parseTimeOnly("14:30:05.5")
	if !ok || tod.Hour != 14 || tod.Minute != 30 || tod.Second != 5 {
		t.Fatalf("parseTimeOnly = %+v, ok=%v", tod, ok)
	}
	if tod.Nano != 500000000 {
		t.Errorf("Nano = %d, want 500000000", tod.Nano)
	}
	if _, ok := parseTimeOnly("25:00:00"); ok {
		t.Error("hour 25 accepted")
	}
}

func TestAllZeroDigits(t *testing.T) {
	for in, want := range map[string]bool{
		"00":                  true,
		"0000:00:00 00:00:00": true,
		"0001:00:00 00:00:00": false,
		"":                    false,
		"n/a":                 false,
	} {
		if got := allZeroDigits(in); got != want {
			t.Errorf("allZeroDigits(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseZoneOffset(t *testing.T) {
	tests := []struct {
		in   string
		secs int
		ok   bool
	}{
		{"+05:30", 5*3600 + 30*60, true},
		{"-0700", -7 * 3600, true},
		{"Z", 0, true},
		{"UTC", 0, true},
		{"GMT", 0, true},
		{"UTC+2", 2 * 3600, true},
		{"9", 9 * 3600, true},
		{"+15:00", 0, false},
		{"banana", 0, false},
	}
	for _, tt := range tests {
		secs, ok := parseZoneOffset(tt.in)
		if ok != tt.ok || (ok && secs != tt.secs) {
			t.Errorf("parseZoneOffset(%q) = %d, %v; want %d, %v", tt.in, secs, ok, tt.secs, tt.ok)
		}
	}
}

func TestFixedZoneNames(t *testing.T) {
	if fixedZone(0) != time.UTC {
		t.Error("zero offset should be time.UTC")
	}
	if name := fixedZone(5*3600 + 30*60).String(); name != "UTC+05:30" {
		t.Errorf("name = %q", name)
	}
	if name := fixedZone(-8 * 3600).String(); name != "UTC-08:00" {
		t.Errorf("name = %q", name)
	}
}

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{-33.86785, -33.86785, true},
		{"151.20732000", 151.20732, true},
		{"33.5 S", -33.5, true},
		{`33 deg 52' 4.26" S`, -(33 + 52.0/60 + 4.26/3600), true},
		{"not a coordinate", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseCoordinate(tt.in)
		if ok != tt.ok {
			t.Errorf("parseCoordinate(%v) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("parseCoordinate(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
