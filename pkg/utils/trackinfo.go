package utils

import (
	"strconv"
	"strings"
)

const milesToKm = 1.60934

// ParseTrackLengthMeters parses a human readable track length such as
// "4.3 km", "2.1 mi" or "3.4" (kilometers assumed) into meters.
func ParseTrackLengthMeters(value string) (float64, bool) {
	text := strings.ToLower(strings.TrimSpace(value))
	if text == "" {
		return 0, false
	}
	switch {
	case strings.Contains(text, "km"):
		if v, ok := parseFloat(strings.ReplaceAll(text, "km", "")); ok {
			return v * 1000, true
		}
	case strings.Contains(text, "mi"):
		if v, ok := parseFloat(strings.ReplaceAll(text, "mi", "")); ok {
			return v * milesToKm * 1000, true
		}
	default:
		if v, ok := parseFloat(text); ok {
			return v * 1000, true
		}
	}
	return 0, false
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v, err == nil
}
