package exiftool

// Options configures how read replies are requested and decoded. One
// Options value is shared by every task a Client builds; tasks never
// mutate it.
type Options struct {
	// GroupNames asks the tool for Group:Tag keys (-G). Decoding then
	// keeps the grouped keys and builds a degrouped view for cross-tag
	// lookups.
	GroupNames bool

	// NumericTags are emitted with the numeric-value override suffix
	// (-Tag#) so the tool skips its print conversion for them.
	NumericTags []string

	// Geolocation enables the tool's built-in reverse geolocation
	// tags (-api geolocation).
	Geolocation bool

	// ImageHashType, when set, requests a content hash tag
	// (-api imagehashtype=MD5|SHA256|...).
	ImageHashType string

	// StructFormat controls nested-tag expansion; the tool's -struct
	// flag is always passed, this selects the API level (0-2).
	StructFormat int

	// DefaultVideosToUTC treats zoneless timestamps in video files as
	// UTC. Many video encoders stamp UTC wall time without saying so.
	DefaultVideosToUTC bool

	// PreferTzFromGps tries GPS-derived zones before explicit
	// timezone tags.
	PreferTzFromGps bool

	// BackfillTimezones attaches the inferred file zone to date/time
	// values decoded without one.
	BackfillTimezones bool

	// InferTzFromDatestamps derives an offset from paired local/UTC
	// timestamp tags in the same record.
	InferTzFromDatestamps bool

	// IgnoreZeroZeroLatLon treats coordinates of exactly (0,0) as an
	// invalid placeholder rather than a spot in the Gulf of Guinea.
	IgnoreZeroZeroLatLon bool

	// TimezoneLookup resolves coordinates to an IANA zone name. Left
	// nil, GPS-derived zones are skipped.
	TimezoneLookup func(lat, lon float64) (string, error)
}
