package domain

import (
	"math"
	"time"
)

const historicDays = 7

// Fixed lists indexed by (day + month) % len to pick a synthesized day's
// condition and icon. Order matters: changing it changes rendered history.
var (
	historicConditions = []string{
		"clear sky",
		"few clouds",
		"scattered clouds",
		"light rain",
		"broken clouds",
	}
	historicIcons = []string{"01d", "02d", "03d", "10d", "04d"}
)

// SynthesizeHistoric fabricates a 7-day past series from the current
// temperature reading and the calendar date, one entry per day for the 7
// days preceding today, oldest first. The series is display filler for
// widgets that want a history strip the provider does not offer: the
// arithmetic is deterministic so repeated renders on the same date show
// identical values, and no meteorological accuracy is implied.
func SynthesizeHistoric(currentTemp float64) []HistoricDay {
	today := clock.Now().UTC().Truncate(24 * time.Hour)

	entries := make([]HistoricDay, 0, historicDays)
	for i := historicDays; i >= 1; i-- {
		date := today.AddDate(0, 0, -i)
		entries = append(entries, synthesizeDay(date, currentTemp))
	}
	return entries
}

func synthesizeDay(date time.Time, currentTemp float64) HistoricDay {
	day := date.Day()
	month := int(date.Month())

	base := math.Round(currentTemp) + float64((day*month)%5-2)
	idx := (day + month) % len(historicConditions)

	return HistoricDay{
		Date:      date,
		Temp:      base,
		TempMin:   base - 3,
		TempMax:   base + 4,
		Humidity:  float64(60 + (day+month)%30),
		WindSpeed: float64(3 + (day*month)%7),
		Condition: historicConditions[idx],
		Icon:      historicIcons[idx],
	}
}
