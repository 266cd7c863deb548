package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoordKey_RoundsToSixDecimals(t *testing.T) {
	assert.Equal(t, "6.927100,79.861200", CoordKey(6.9271, 79.8612))
	assert.Equal(t, CoordKey(6.9271, 79.8612), CoordKey(6.9271+1e-9, 79.8612),
		"jitter below the rounding threshold must map to the same key")
	assert.NotEqual(t, CoordKey(6.9271, 79.8612), CoordKey(6.9272, 79.8612))
}

func TestCityKey_Normalizes(t *testing.T) {
	assert.Equal(t, "colombo", CityKey("  Colombo "))
	assert.Equal(t, CityKey("COLOMBO"), CityKey("colombo"))
	assert.Equal(t, "", CityKey("   "))
}

func TestValidCoords(t *testing.T) {
	assert.True(t, ValidCoords(6.9271, 79.8612))
	assert.True(t, ValidCoords(0, 0))
	assert.False(t, ValidCoords(math.NaN(), 0))
	assert.False(t, ValidCoords(0, math.Inf(1)))
}

func TestIconURL(t *testing.T) {
	assert.Equal(t, "https://openweathermap.org/img/wn/10d@2x.png", IconURL("10d"))
}

func TestFormatShortDate(t *testing.T) {
	// 2026-03-15 00:00:00 UTC.
	assert.Equal(t, "Sun, Mar 15", FormatShortDate(1773532800))
}
