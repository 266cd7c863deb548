package domain

import "time"

// Coord represents a WGS-84 latitude/longitude coordinate pair.
type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Condition describes a single weather condition reported by the provider.
type Condition struct {
	Main        string `json:"main,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// CurrentWeather holds the instantaneous conditions at fetch time.
type CurrentWeather struct {
	Temp       float64     `json:"temp"`
	FeelsLike  float64     `json:"feels_like"`
	Humidity   float64     `json:"humidity"`
	Pressure   float64     `json:"pressure"`
	WindSpeed  float64     `json:"wind_speed"`
	Conditions []Condition `json:"conditions,omitempty"`
	ObservedAt time.Time   `json:"observed_at"`
}

// DailyForecast is one calendar day aggregated from the provider's
// 3-hour forecast samples.
type DailyForecast struct {
	Date      time.Time `json:"date"` // midnight UTC of the bucketed day
	TempMin   float64   `json:"temp_min"`
	TempMax   float64   `json:"temp_max"`
	TempDay   float64   `json:"temp_day"` // sample closest to local noon
	Humidity  float64   `json:"humidity"` // arithmetic mean across the day
	WindSpeed float64   `json:"wind_speed"`
	Pop       float64   `json:"pop"` // max precipitation probability, 0-1
	Condition Condition `json:"condition"`
}

// HourlyForecast is a single 3-hour forecast sample kept for the
// next-24-hours strip.
type HourlyForecast struct {
	Time      time.Time `json:"time"`
	Temp      float64   `json:"temp"`
	Humidity  float64   `json:"humidity"`
	Pop       float64   `json:"pop"`
	Condition Condition `json:"condition"`
}

// HistoricDay is a synthesized past-day entry. Values are derived
// deterministically from the calendar date and the current temperature,
// not from real observations; see SynthesizeHistoric.
type HistoricDay struct {
	Date      time.Time `json:"date"`
	Temp      float64   `json:"temp"`
	TempMin   float64   `json:"temp_min"`
	TempMax   float64   `json:"temp_max"`
	Humidity  float64   `json:"humidity"`
	WindSpeed float64   `json:"wind_speed"`
	Condition string    `json:"condition"`
	Icon      string    `json:"icon"`
}

// WeatherData is the unified snapshot produced by normalizing the
// provider's current-conditions and forecast payloads for one location.
type WeatherData struct {
	City      string           `json:"city"`
	Coord     Coord            `json:"coord"`
	Current   CurrentWeather   `json:"current"`
	Daily     []DailyForecast  `json:"daily"`
	Hourly    []HourlyForecast `json:"hourly"`
	Historic  []HistoricDay    `json:"historic"`
	FetchedAt time.Time        `json:"fetched_at"`
}
