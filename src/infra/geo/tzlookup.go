package geo

import (
	"fmt"

	"github.com/ringsaturn/tzf"
)

// Finder resolves coordinates to IANA timezone names using an embedded
// boundary dataset, so inference works offline.
type Finder struct {
	finder tzf.F
}

func NewFinder() (*Finder, error) {
	f, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("loading timezone boundaries: %w", err)
	}
	return &Finder{finder: f}, nil
}

// TimezoneName returns the IANA zone containing the coordinates, or an
// error when they fall outside every known boundary (open ocean,
// corrupt data).
func (f *Finder) TimezoneName(lat, lon float64) (string, error) {
	name := f.finder.GetTimezoneName(lon, lat)
	if name == "" {
		return "", fmt.Errorf("no timezone found for %.5f, %.5f", lat, lon)
	}
	return name, nil
}
