package models

import "time"

// WeatherResult is the current-conditions snapshot for one location, taken
// verbatim from the upstream response.
type WeatherResult struct {
	LocationName         string  `json:"location_name"`
	CountryCode          string  `json:"country_code"`
	ConditionMain        string  `json:"condition_main"`
	ConditionDescription string  `json:"condition_description"`
	TemperatureC         float64 `json:"temperature_c"`
	FeelsLikeC           float64 `json:"feels_like_c"`
	HumidityPercent      int     `json:"humidity_percent"`
	PressureHPa          int     `json:"pressure_hpa"`
	WindSpeedMs          float64 `json:"wind_speed_ms"`
}

// UIState is everything one page session shows. Empty strings stand for
// "nothing to show".
type UIState struct {
	CityInput           string         `json:"city_input"`
	Result              *WeatherResult `json:"result"`
	Loading             bool           `json:"loading"`
	LoadingSince        time.Time      `json:"loading_since,omitzero"`
	ErrorMessage        string         `json:"error_message,omitempty"`
	SuggestedCorrection string         `json:"suggested_correction,omitempty"`
	// FetchSeq is the sequence number of the most recently issued fetch.
	FetchSeq uint64 `json:"fetch_seq"`
}
