package domain

import (
	"context"
	"fmt"
	"time"
)

// Query identifies the location a provider call targets: either a
// coordinate pair or a free-text city name, never both.
type Query struct {
	Lat  float64
	Lon  float64
	City string
}

// ByCoords builds a coordinate query.
func ByCoords(lat, lon float64) Query {
	return Query{Lat: lat, Lon: lon}
}

// ByCity builds a city-name query.
func ByCity(name string) Query {
	return Query{City: name}
}

// Observation is a provider's current-conditions reading, already mapped
// out of the wire format but not yet combined into a WeatherData snapshot.
type Observation struct {
	CityName   string
	Coord      Coord
	HasCoord   bool // true when the provider disclosed coordinates
	Temp       float64
	FeelsLike  float64
	Humidity   float64
	Pressure   float64
	WindSpeed  float64
	Conditions []Condition
	ObservedAt time.Time
}

// ForecastSample is one 3-hour step of the provider's forecast list,
// in the list's original (chronological) order.
type ForecastSample struct {
	Time      time.Time
	Temp      float64
	Humidity  float64
	WindSpeed float64
	Pop       float64
	Condition Condition
}

// Provider abstracts the upstream weather API.
type Provider interface {
	// CurrentConditions fetches the instantaneous reading for a location.
	CurrentConditions(ctx context.Context, q Query) (Observation, error)

	// Forecast fetches the multi-day 3-hour-step forecast list for a location.
	Forecast(ctx context.Context, q Query) ([]ForecastSample, error)
}

// UpstreamError reports a failed provider call: a non-2xx status, a
// transport failure, or an undecodable body. Status is 0 when no HTTP
// response was received.
type UpstreamError struct {
	Endpoint string // "current" or "forecast"
	Status   int
	Body     string
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream %s request: status %d: %s", e.Endpoint, e.Status, e.Body)
	}
	return fmt.Sprintf("upstream %s request: %v", e.Endpoint, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
