package reducer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pitch-engine/models"
)

// TestAdvanceCount tests count changes per pitch result
func TestAdvanceCount(t *testing.T) {
	tests := []struct {
		name        string
		count       models.Count
		result      models.PitchResult
		description string
		expected    models.Count
	}{
		{"ball", models.Count{}, models.ResultBall, "Ball", models.Count{Balls: 1}},
		{"ball in dirt", models.Count{Balls: 2, Strikes: 1}, models.ResultBall, "Ball In Dirt", models.Count{Balls: 3, Strikes: 1}},
		{"called strike", models.Count{}, models.ResultStrike, "Called Strike", models.Count{Strikes: 1}},
		{"swinging strike three", models.Count{Strikes: 2}, models.ResultStrike, "Swinging Strike", models.Count{Strikes: 3}},
		{"missed bunt", models.Count{Strikes: 1}, models.ResultStrike, "Missed Bunt", models.Count{Strikes: 2}},
		{"foul early", models.Count{Balls: 1}, models.ResultStrike, "Foul", models.Count{Balls: 1, Strikes: 1}},
		{"foul with two strikes", models.Count{Strikes: 2}, models.ResultStrike, "Foul", models.Count{Strikes: 2}},
		{"foul bunt with two strikes", models.Count{Strikes: 2}, models.ResultStrike, "Foul Bunt", models.Count{Strikes: 2}},
		{"foul pitchout with two strikes", models.Count{Strikes: 2}, models.ResultStrike, "Foul Pitchout", models.Count{Strikes: 2}},
		{"foul tip with two strikes", models.Count{Strikes: 2}, models.ResultStrike, "Foul Tip", models.Count{Strikes: 3}},
		{"in play", models.Count{Balls: 3, Strikes: 2}, models.ResultInPlay, "In play, out(s)", models.Count{Balls: 3, Strikes: 2}},
		{"unknown code", models.Count{Balls: 1}, models.PitchResult("Z"), "Automatic Ball", models.Count{Balls: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AdvanceCount(tt.count, tt.result, tt.description))
		})
	}
}

// TestAdvanceCountRepeatedFouls tests that any number of fouls stops at two strikes
func TestAdvanceCountRepeatedFouls(t *testing.T) {
	var count models.Count
	for i := 0; i < 25; i++ {
		next := AdvanceCount(count, models.ResultStrike, "Foul")
		assert.GreaterOrEqual(t, next.Strikes, count.Strikes)
		assert.LessOrEqual(t, next.Strikes, uint8(2))
		count = next
	}
	assert.Equal(t, models.Count{Strikes: 2}, count)
}

// TestAdvanceCountMonotonic tests that no pitch lowers balls or strikes
func TestAdvanceCountMonotonic(t *testing.T) {
	results := []models.PitchResult{models.ResultBall, models.ResultStrike, models.ResultInPlay, ""}
	descriptions := []string{"Ball", "Called Strike", "Foul", "Foul Tip", "In play, no out", "Hit By Pitch"}

	for balls := uint8(0); balls <= 4; balls++ {
		for strikes := uint8(0); strikes <= 3; strikes++ {
			for _, result := range results {
				for _, des := range descriptions {
					before := models.Count{Balls: balls, Strikes: strikes}
					after := AdvanceCount(before, result, des)
					assert.GreaterOrEqual(t, after.Balls, before.Balls)
					assert.GreaterOrEqual(t, after.Strikes, before.Strikes)
				}
			}
		}
	}
}

// TestIsSwing tests swing/take classification
func TestIsSwing(t *testing.T) {
	tests := []struct {
		description string
		swing       bool
	}{
		{"In play, run(s)", true},
		{"Foul", true},
		{"Foul Tip", true},
		{"Swinging Strike (Blocked)", true},
		{"Missed Bunt", true},
		{"Called Strike", false},
		{"Ball", false},
		{"Intent Ball", false},
		{"Hit By Pitch", false},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.swing, IsSwing(tt.description))
		})
	}
}

// TestIsBaserunningPlay tests responsibility classification of runner descriptions
func TestIsBaserunningPlay(t *testing.T) {
	tests := []struct {
		description string
		expected    bool
	}{
		{"Stolen Base 2B", true},
		{"Caught Stealing 3B", true},
		{"Pickoff 1B", true},
		{"Pickoff Caught Stealing 2B", true},
		{"Runner picked off first", true},
		{"Single", false},
		{"Wild Pitch", false},
		{"Groundout", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsBaserunningPlay(tt.description))
		})
	}
}
