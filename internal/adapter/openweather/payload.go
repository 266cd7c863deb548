package openweather

// OpenWeatherMap API response types. Only the field paths the normalizer
// depends on are mapped; everything else in the payloads is ignored.

type coordPayload struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type weatherCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type mainPayload struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  float64 `json:"pressure"`
	Humidity  float64 `json:"humidity"`
}

type windPayload struct {
	Speed float64 `json:"speed"`
	Deg   float64 `json:"deg"`
}

// currentResponse is the /data/2.5/weather payload. Coord is a pointer so
// a response that omits it (rare, but seen with some city queries) is
// distinguishable from coordinates at the origin.
type currentResponse struct {
	Coord   *coordPayload      `json:"coord"`
	Weather []weatherCondition `json:"weather"`
	Main    mainPayload        `json:"main"`
	Wind    windPayload        `json:"wind"`
	Dt      int64              `json:"dt"`
	Name    string             `json:"name"`
}

// forecastResponse is the /data/2.5/forecast payload: a flat chronological
// list of 3-hour samples plus city metadata.
type forecastResponse struct {
	List []forecastItem `json:"list"`
	City struct {
		Name  string        `json:"name"`
		Coord *coordPayload `json:"coord"`
	} `json:"city"`
}

type forecastItem struct {
	Dt      int64              `json:"dt"`
	Main    mainPayload        `json:"main"`
	Weather []weatherCondition `json:"weather"`
	Wind    windPayload        `json:"wind"`
	Pop     float64            `json:"pop"`
	DtTxt   string             `json:"dt_txt"`
}
