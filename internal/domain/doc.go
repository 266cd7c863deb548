// Package domain models normalized weather snapshots for facility widgets.
//
// # Data Source
//
// Readings come from the OpenWeatherMap REST API: the current-conditions
// endpoint (/data/2.5/weather) and the 5-day/3-hour forecast endpoint
// (/data/2.5/forecast). Both accept either a lat/lon pair or a free-text
// city name, plus an API key and metric units. The two payload shapes are
// combined into one [WeatherData] snapshot per location.
//
// # Location Keys
//
// Snapshots are cached under a normalized location identity:
//
//	Coordinates: "%.6f,%.6f" — 6 decimal places (~0.1m), so sub-precision
//	jitter between requests resolves to the same entry.
//	City names:  trimmed and lower-cased.
//
// A name-based fetch whose response discloses coordinates also back-fills
// the coordinate-keyed entry, so the two spellings of one physical place
// share a single upstream fetch.
//
// # Forecast Aggregation
//
// The forecast list is a flat chronological sequence of 3-hour samples.
// Samples are partitioned into calendar-day buckets on the UTC day boundary.
// Each bucket yields min/max temperature, arithmetic mean humidity and wind
// speed, the maximum precipitation probability, and a representative
// condition taken from the sample whose hour is closest to noon (first
// occurrence wins ties). The earliest 7 days are kept. The first 8 samples
// of the raw list become the hourly strip, which assumes the provider's
// list starts at or near "now".
//
// # Historic Synthesis
//
// The provider offers no free historical data, so [SynthesizeHistoric]
// fabricates a 7-day past series from the current temperature and the
// calendar date. The formula is pure arithmetic over (day, month), which
// keeps repeated renders on the same date identical across the session.
// The series is presentation filler, not observations.
package domain
