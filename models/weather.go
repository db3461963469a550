package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Weather represents game-time conditions from the box score
type Weather struct {
	Temperature int    `json:"temperature"` // Fahrenheit
	Condition   string `json:"condition,omitempty"`
	WindSpeed   int    `json:"wind_speed"` // MPH
	WindDir     string `json:"wind_dir,omitempty"`
}

// BoxScoreNotes holds the free-text game notes of a box score, e.g.
// "72 degrees, partly cloudy.", "8 mph, Out to CF." and "38,112.".
// Game.Normalize turns them into Weather and Attendance.
type BoxScoreNotes struct {
	Weather    string `json:"weather,omitempty"`
	Wind       string `json:"wind,omitempty"`
	Attendance string `json:"attendance,omitempty"`
}

// ParseConditionLine splits a weather or wind note into its leading number
// and description: "8 mph, Out to CF." gives (8, "Out to CF").
func ParseConditionLine(line string) (int, string, error) {
	line = cutMarkup(line)
	head, desc, found := strings.Cut(line, ",")
	if !found {
		return 0, "", fmt.Errorf("condition %q has no description", line)
	}

	fields := strings.Fields(head)
	if len(fields) == 0 {
		return 0, "", fmt.Errorf("condition %q has no reading", line)
	}
	value, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, "", fmt.Errorf("invalid reading in %q: %w", line, err)
	}

	desc = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(desc), "."))
	return value, desc, nil
}

// ParseWeather reads the weather and wind notes together
func ParseWeather(weather, wind string) (*Weather, error) {
	temp, condition, err := ParseConditionLine(weather)
	if err != nil {
		return nil, fmt.Errorf("failed to parse weather: %w", err)
	}
	speed, dir, err := ParseConditionLine(wind)
	if err != nil {
		return nil, fmt.Errorf("failed to parse wind: %w", err)
	}
	return &Weather{Temperature: temp, Condition: condition, WindSpeed: speed, WindDir: dir}, nil
}

// ParseAttendance reads an attendance note such as "38,112.". A blank note
// is no attendance, not an error.
func ParseAttendance(note string) (*int, error) {
	note = strings.NewReplacer(":", "", ",", "", ".", "").Replace(cutMarkup(note))
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, nil
	}
	attendance, err := strconv.Atoi(note)
	if err != nil {
		return nil, fmt.Errorf("invalid attendance %q: %w", note, err)
	}
	if attendance < 0 {
		return nil, fmt.Errorf("invalid attendance %q", note)
	}
	return &attendance, nil
}

// cutMarkup drops anything from the first tag on; box score notes are
// often followed by a <br/>.
func cutMarkup(s string) string {
	s, _, _ = strings.Cut(s, "<")
	return strings.TrimSpace(s)
}
