package display

import (
	"fmt"
	"math"
	"strconv"

	"github.com/Priyanshut972/Weatherapp/internal/models"
)

const (
	IconSun   = "sun"
	IconCloud = "cloud"
	IconRain  = "rain"
)

// Icon maps a condition group to the symbol shown on the result panel.
func Icon(conditionMain string) string {
	switch conditionMain {
	case "Clear":
		return IconSun
	case "Clouds":
		return IconCloud
	case "Rain":
		return IconRain
	default:
		return IconSun
	}
}

// Glyph is the text rendering of an icon.
func Glyph(icon string) string {
	switch icon {
	case IconCloud:
		return "☁"
	case IconRain:
		return "☂"
	default:
		return "☀"
	}
}

// RoundC rounds half up, so 15.5 is 16 and -2.5 is -2.
func RoundC(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Panel holds the ready-to-print lines of the result panel.
type Panel struct {
	Location    string `json:"location"`
	Icon        string `json:"icon"`
	Glyph       string `json:"glyph"`
	Temperature string `json:"temperature"`
	Description string `json:"description"`
	Humidity    string `json:"humidity"`
	Wind        string `json:"wind"`
	FeelsLike   string `json:"feels_like"`
	Pressure    string `json:"pressure"`
}

func NewPanel(r models.WeatherResult) Panel {
	icon := Icon(r.ConditionMain)
	return Panel{
		Location:    r.LocationName + ", " + r.CountryCode,
		Icon:        icon,
		Glyph:       Glyph(icon),
		Temperature: fmt.Sprintf("%d°C", RoundC(r.TemperatureC)),
		Description: r.ConditionDescription,
		Humidity:    fmt.Sprintf("Humidity: %d%%", r.HumidityPercent),
		Wind:        "Wind: " + strconv.FormatFloat(r.WindSpeedMs, 'f', -1, 64) + " m/s",
		FeelsLike:   fmt.Sprintf("Feels like: %d°C", RoundC(r.FeelsLikeC)),
		Pressure:    fmt.Sprintf("Pressure: %d hPa", r.PressureHPa),
	}
}
