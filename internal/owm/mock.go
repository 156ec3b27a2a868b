package owm

import (
	"fmt"
	"strings"

	"github.com/Priyanshut972/Weatherapp/internal/models"
)

// Stable sample data so the page stays usable without an API key.
var sampleWeather = []models.WeatherResult{
	{LocationName: "London", CountryCode: "GB", ConditionMain: "Clouds", ConditionDescription: "broken clouds", TemperatureC: 15.3, FeelsLikeC: 14.6, HumidityPercent: 77, PressureHPa: 1012, WindSpeedMs: 4.1},
	{LocationName: "Budapest", CountryCode: "HU", ConditionMain: "Clear", ConditionDescription: "clear sky", TemperatureC: 22, FeelsLikeC: 21.4, HumidityPercent: 45, PressureHPa: 1018, WindSpeedMs: 2.6},
	{LocationName: "Las Vegas", CountryCode: "US", ConditionMain: "Clear", ConditionDescription: "clear sky", TemperatureC: 31.5, FeelsLikeC: 29.8, HumidityPercent: 12, PressureHPa: 1009, WindSpeedMs: 3.6},
	{LocationName: "New York", CountryCode: "US", ConditionMain: "Rain", ConditionDescription: "light rain", TemperatureC: 17.8, FeelsLikeC: 17.5, HumidityPercent: 84, PressureHPa: 1007, WindSpeedMs: 5.7},
	{LocationName: "San Francisco", CountryCode: "US", ConditionMain: "Mist", ConditionDescription: "mist", TemperatureC: 14.2, FeelsLikeC: 13.7, HumidityPercent: 90, PressureHPa: 1015, WindSpeedMs: 6.2},
	{LocationName: "Mumbai", CountryCode: "IN", ConditionMain: "Rain", ConditionDescription: "moderate rain", TemperatureC: 28.4, FeelsLikeC: 33.1, HumidityPercent: 88, PressureHPa: 1004, WindSpeedMs: 7.2},
	{LocationName: "Delhi", CountryCode: "IN", ConditionMain: "Haze", ConditionDescription: "haze", TemperatureC: 33, FeelsLikeC: 36.2, HumidityPercent: 52, PressureHPa: 1002, WindSpeedMs: 2.1},
	{LocationName: "Bengaluru", CountryCode: "IN", ConditionMain: "Clouds", ConditionDescription: "scattered clouds", TemperatureC: 24.5, FeelsLikeC: 24.9, HumidityPercent: 68, PressureHPa: 1013, WindSpeedMs: 3},
	{LocationName: "Tokyo", CountryCode: "JP", ConditionMain: "Clouds", ConditionDescription: "overcast clouds", TemperatureC: 19.9, FeelsLikeC: 19.6, HumidityPercent: 71, PressureHPa: 1016, WindSpeedMs: 3.9},
	{LocationName: "Paris", CountryCode: "FR", ConditionMain: "Rain", ConditionDescription: "shower rain", TemperatureC: 13.5, FeelsLikeC: 12.8, HumidityPercent: 81, PressureHPa: 1010, WindSpeedMs: 4.6},
}

// Matches like the live endpoint does for plain city names: whole name,
// case-insensitive, surrounding space ignored.
func (c *Client) mockCurrentWeather(cityName string) (models.WeatherResult, error) {
	q := strings.TrimSpace(cityName)
	for _, w := range sampleWeather {
		if strings.EqualFold(w.LocationName, q) {
			return w, nil
		}
	}
	return models.WeatherResult{}, fmt.Errorf("%w: no sample data for %q", ErrCityNotFound, cityName)
}
