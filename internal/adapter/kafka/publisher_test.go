package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehara-rothila/SportsBookSL-front-sub004/internal/domain"
)

func TestSerializeSnapshot(t *testing.T) {
	fetchedAt := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	data := domain.WeatherData{
		City:      "Colombo",
		Coord:     domain.Coord{Lat: 6.9271, Lon: 79.8612},
		Current:   domain.CurrentWeather{Temp: 29.5},
		FetchedAt: fetchedAt,
	}
	key := domain.CoordKey(6.9271, 79.8612)

	msg, err := serializeSnapshot(key, data)
	require.NoError(t, err)

	assert.Equal(t, []byte(key), msg.Key)
	assert.Contains(t, string(msg.Value), `"city":"Colombo"`)
	assert.Contains(t, string(msg.Value), `"temp":29.5`)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "location_key", msg.Headers[0].Key)
	assert.Equal(t, []byte(key), msg.Headers[0].Value)
	assert.Equal(t, "fetched_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(fetchedAt.Format(time.RFC3339)), msg.Headers[1].Value)
}
