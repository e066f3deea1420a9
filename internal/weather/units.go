package weather

import (
	"math"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// AbsoluteZeroC is 0 K expressed in Celsius.
const AbsoluteZeroC = -273.15

// KelvinToCelsius converts a provider-native temperature.
func KelvinToCelsius(k float64) float64 {
	return k + AbsoluteZeroC
}

// CelsiusToKelvin converts a Celsius reading to the provider-native unit.
func CelsiusToKelvin(c float64) float64 {
	return c - AbsoluteZeroC
}

// DisplayCelsius applies the display rule: whole degrees, half away from zero.
func DisplayCelsius(k float64) int {
	return int(math.Round(KelvinToCelsius(k)))
}

// PercentFromFraction rescales a [0,1] probability to [0,100].
func PercentFromFraction(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	p := f * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

var cardinals = [...]string{
	"N", "NNE", "NE", "ENE",
	"E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW",
	"W", "WNW", "NW", "NNW",
}

// Cardinal converts a wind direction in degrees to a 16-point compass label.
func Cardinal(deg float64) string {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return cardinals[int((deg+11.25)/22.5)%16]
}

// AirQualityLabel names the 1..5 air-pollution index.
func AirQualityLabel(index int) string {
	switch index {
	case 1:
		return "Good"
	case 2:
		return "Fair"
	case 3:
		return "Moderate"
	case 4:
		return "Poor"
	case 5:
		return "Very Poor"
	default:
		return "Unknown"
	}
}
