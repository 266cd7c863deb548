package domain

import (
	"sort"
	"time"
)

const (
	maxDailyDays    = 7
	maxHourlySteps  = 8
	dayKeyLayout    = "2006-01-02"
	representHourAt = 12 // pick the sample closest to noon for a day's face
)

// BuildWeatherData combines a current-conditions observation and the flat
// 3-hour forecast list into a single normalized snapshot. displayName, when
// non-empty, overrides the provider's city name (callers pass the facility
// name they are rendering for).
func BuildWeatherData(obs Observation, samples []ForecastSample, displayName string) WeatherData {
	city := obs.CityName
	if displayName != "" {
		city = displayName
	}

	return WeatherData{
		City:  city,
		Coord: obs.Coord,
		Current: CurrentWeather{
			Temp:       obs.Temp,
			FeelsLike:  obs.FeelsLike,
			Humidity:   obs.Humidity,
			Pressure:   obs.Pressure,
			WindSpeed:  obs.WindSpeed,
			Conditions: obs.Conditions,
			ObservedAt: obs.ObservedAt,
		},
		Daily:     BucketDaily(samples),
		Hourly:    TakeHourly(samples),
		Historic:  SynthesizeHistoric(obs.Temp),
		FetchedAt: clock.Now().UTC(),
	}
}

// BucketDaily partitions forecast samples into calendar-day buckets on the
// UTC day boundary and aggregates each bucket: min/max temperature, mean
// humidity and wind speed, max precipitation probability, and the condition
// of the representative sample (hour closest to noon, first occurrence
// winning ties). At most the earliest 7 days are returned, oldest first.
func BucketDaily(samples []ForecastSample) []DailyForecast {
	buckets := make(map[string][]ForecastSample)
	for _, s := range samples {
		key := s.Time.UTC().Format(dayKeyLayout)
		buckets[key] = append(buckets[key], s)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > maxDailyDays {
		keys = keys[:maxDailyDays]
	}

	daily := make([]DailyForecast, 0, len(keys))
	for _, k := range keys {
		daily = append(daily, aggregateDay(k, buckets[k]))
	}
	return daily
}

func aggregateDay(dayKey string, bucket []ForecastSample) DailyForecast {
	date, _ := time.Parse(dayKeyLayout, dayKey)

	rep := bucket[0]
	repDist := noonDistance(rep.Time)

	min := bucket[0].Temp
	max := bucket[0].Temp
	var sumHumidity, sumWind, maxPop float64

	for i, s := range bucket {
		if s.Temp < min {
			min = s.Temp
		}
		if s.Temp > max {
			max = s.Temp
		}
		sumHumidity += s.Humidity
		sumWind += s.WindSpeed
		if s.Pop > maxPop {
			maxPop = s.Pop
		}
		// Strict "<" keeps the first occurrence on ties.
		if i > 0 {
			if d := noonDistance(s.Time); d < repDist {
				rep = s
				repDist = d
			}
		}
	}

	n := float64(len(bucket))
	return DailyForecast{
		Date:      date,
		TempMin:   min,
		TempMax:   max,
		TempDay:   rep.Temp,
		Humidity:  sumHumidity / n,
		WindSpeed: sumWind / n,
		Pop:       maxPop,
		Condition: rep.Condition,
	}
}

func noonDistance(t time.Time) int {
	d := t.UTC().Hour() - representHourAt
	if d < 0 {
		return -d
	}
	return d
}

// TakeHourly keeps the first 8 forecast samples in their original order,
// covering roughly the next 24 hours at 3-hour resolution. The provider's
// list is assumed to start at or near "now".
func TakeHourly(samples []ForecastSample) []HourlyForecast {
	n := len(samples)
	if n > maxHourlySteps {
		n = maxHourlySteps
	}
	hourly := make([]HourlyForecast, 0, n)
	for _, s := range samples[:n] {
		hourly = append(hourly, HourlyForecast{
			Time:      s.Time,
			Temp:      s.Temp,
			Humidity:  s.Humidity,
			Pop:       s.Pop,
			Condition: s.Condition,
		})
	}
	return hourly
}
