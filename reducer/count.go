package reducer

import (
	"math"
	"strings"

	"pitch-engine/models"
)

// AdvanceCount returns the count after a pitch.
//
// Balls add a ball. Strikes add a strike, except that a plain foul (foul ball,
// foul bunt, foul pitchout) cannot be the third strike. A foul tip is a
// swinging strike and can end the at-bat. Balls in play and unknown codes
// leave the count alone.
func AdvanceCount(c models.Count, result models.PitchResult, description string) models.Count {
	switch result {
	case models.ResultBall:
		c.Balls = inc(c.Balls)
	case models.ResultStrike:
		if IsFoul(description) && c.Strikes >= 2 {
			return c
		}
		c.Strikes = inc(c.Strikes)
	}
	return c
}

func inc(v uint8) uint8 {
	if v == math.MaxUint8 {
		return v
	}
	return v + 1
}

// IsFoul reports whether a pitch description is a foul that cannot produce a
// third strike. Foul tips are excluded.
func IsFoul(description string) bool {
	d := strings.ToLower(strings.TrimSpace(description))
	if strings.HasPrefix(d, "foul tip") {
		return false
	}
	return strings.HasPrefix(d, "foul")
}

// IsSwing reports whether the batter offered at the pitch
func IsSwing(description string) bool {
	d := strings.ToLower(strings.TrimSpace(description))
	return strings.HasPrefix(d, "in play") ||
		strings.HasPrefix(d, "foul") ||
		strings.HasPrefix(d, "swinging") ||
		strings.Contains(d, "bunt")
}

var baserunningMarkers = []string{"stolen", "stealing", "pickoff", "picked off"}

// IsBaserunningPlay reports whether a runner event description is a steal,
// caught stealing or pickoff, i.e. a state change the batter is not charged with.
func IsBaserunningPlay(description string) bool {
	d := strings.ToLower(description)
	for _, marker := range baserunningMarkers {
		if strings.Contains(d, marker) {
			return true
		}
	}
	return false
}
