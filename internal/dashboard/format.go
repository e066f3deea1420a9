package dashboard

import (
	"fmt"
	"math"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Placeholder texts shown before data arrives.
const (
	LocatingLabel      = "Locating…"
	UnknownPlaceLabel  = "Unknown location"
	NoWeatherMessage   = "Search for a city to see the weather."
	NoAirQualityNotice = "Air quality is not available yet."
)

func displayTemp(k float64) int {
	return weather.DisplayCelsius(k)
}

func clock(epoch int64, loc *time.Location) string {
	if epoch == 0 {
		return ""
	}
	return time.Unix(epoch, 0).In(loc).Format("3:04 PM")
}

func hourLabel(epoch int64, loc *time.Location) string {
	return time.Unix(epoch, 0).In(loc).Format("3PM")
}

func windText(speed, deg float64) string {
	return fmt.Sprintf("%s %d m/s", weather.Cardinal(deg), int(math.Round(speed)))
}

func pressureText(hpa float64) string {
	return fmt.Sprintf("%d hPa", int(math.Round(hpa)))
}

// coordLabel names an unnamed place by its position.
func coordLabel(c weather.Coordinates) string {
	return fmt.Sprintf("%.2f, %.2f", c.Lat, c.Lon)
}

func placeLabel(name, country string) string {
	switch {
	case name == "":
		return ""
	case country == "":
		return name
	default:
		return name + ", " + country
	}
}
