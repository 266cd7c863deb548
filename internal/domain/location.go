package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidCoords is returned when a coordinate is NaN or infinite.
var ErrInvalidCoords = errors.New("coordinates must be finite numbers")

// CoordKey normalizes a coordinate pair into a cache key. Coordinates are
// rounded to 6 decimal places, so jitter below that precision resolves to
// the same entry while meaningfully distinct locations stay separate.
func CoordKey(lat, lon float64) string {
	return fmt.Sprintf("%.6f,%.6f", lat, lon)
}

// CityKey normalizes a city name into a cache key.
func CityKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidCoords reports whether both coordinates are finite.
func ValidCoords(lat, lon float64) bool {
	return !math.IsNaN(lat) && !math.IsInf(lat, 0) &&
		!math.IsNaN(lon) && !math.IsInf(lon, 0)
}
