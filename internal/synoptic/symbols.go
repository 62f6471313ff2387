package synoptic

import "math"

// WindArrow maps a wind direction in degrees (0=N, 90=E) to one of eight
// cardinal arrow glyphs for map rendering.
func WindArrow(directionDeg float64) string {
	deg := math.Mod(directionDeg, 360)
	if deg < 0 {
		deg += 360
	}

	switch {
	case deg >= 337.5 || deg < 22.5:
		return "↑"
	case deg < 67.5:
		return "↗"
	case deg < 112.5:
		return "→"
	case deg < 157.5:
		return "↘"
	case deg < 202.5:
		return "↓"
	case deg < 247.5:
		return "↙"
	case deg < 292.5:
		return "←"
	default:
		return "↖"
	}
}

// WeatherSymbol maps a WMO weather code to a map glyph.
func WeatherSymbol(code int) string {
	switch code {
	case 0:
		return "☀"
	case 1, 2, 3:
		return "☁"
	case 45, 48:
		return "🌫"
	case 51, 53, 55, 61, 63, 65, 80, 81, 82:
		return "🌧"
	case 71, 73, 75, 77, 85, 86:
		return "❄"
	case 95, 96, 99:
		return "⛈"
	default:
		return "☁"
	}
}

// WeatherDescription converts a WMO weather code to a human-readable label.
func WeatherDescription(code int) string {
	if desc, ok := weatherCodes[code]; ok {
		return desc
	}
	return "Unknown"
}

var weatherCodes = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Slight snow",
	73: "Moderate snow",
	75: "Heavy snow",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}
