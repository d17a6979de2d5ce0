package exiftool

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/crivero/shoebox/src/media"
)

// nullish reports whether a raw string is one of the tool's "no value"
// sentinels. These decode to absence, silently.
func nullish(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "undef", "null", "undefined":
		return true
	}
	return false
}

// binaryMarkerRe matches the placeholder the tool substitutes for
// payloads it will not inline, e.g.
// "(Binary data 453120 bytes, use -b option to extract)".
var binaryMarkerRe = regexp.MustCompile(`^\(Binary data (\d+) bytes`)

func parseBinaryMarker(s string) (media.Binary, bool) {
	m := binaryMarkerRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return media.Binary{}, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		n = -1
	}
	return media.Binary{Bytes: n, Note: s}, true
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true, true
	case "false", "no", "0":
		return false, true
	}
	return false, false
}

// coordinateRe covers the two shapes coordinates take in replies: a
// signed decimal with an optional hemisphere suffix, or a DMS string
// like `12 deg 34' 56.70" N`.
var (
	coordinateRe = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)\s*([NSEW])?$`)
	dmsRe        = regexp.MustCompile(`^(\d+)\s+deg\s+(\d+)'\s+(\d+(?:\.\d+)?)"\s*([NSEW])?$`)
)

// parseCoordinate decodes one latitude or longitude value into signed
// decimal degrees. South and west hemispheres come back negative.
func parseCoordinate(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		s := strings.TrimSpace(x)
		if m := coordinateRe.FindStringSubmatch(s); m != nil {
			deg, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return 0, false
			}
			return applyHemisphere(deg, m[2]), true
		}
		if m := dmsRe.FindStringSubmatch(s); m != nil {
			deg, _ := strconv.ParseFloat(m[1], 64)
			min, _ := strconv.ParseFloat(m[2], 64)
			sec, _ := strconv.ParseFloat(m[3], 64)
			return applyHemisphere(deg+min/60+sec/3600, m[4]), true
		}
	}
	return 0, false
}

func applyHemisphere(deg float64, ref string) float64 {
	if ref == "S" || ref == "W" {
		return -deg
	}
	return deg
}
