package domain

import (
	"fmt"
	"time"
)

// iconBaseURL is the OpenWeatherMap icon CDN.
const iconBaseURL = "https://openweathermap.org/img/wn"

// IconURL builds the CDN URL for a provider icon code, e.g. "10d".
func IconURL(code string) string {
	return fmt.Sprintf("%s/%s@2x.png", iconBaseURL, code)
}

// FormatShortDate renders a unix timestamp as a short display date,
// e.g. "Mon, Jan 2".
func FormatShortDate(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("Mon, Jan 2")
}
