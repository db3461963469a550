package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseConditionLine tests weather and wind note parsing
func TestParseConditionLine(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantValue int
		wantDesc  string
		wantErr   bool
	}{
		{"weather", "72 degrees, partly cloudy.", 72, "partly cloudy", false},
		{"wind with markup", "8 mph, Out to CF.<br/>", 8, "Out to CF", false},
		{"calm", "0 mph, None.", 0, "None", false},
		{"roof closed", "73 degrees, roof closed", 73, "roof closed", false},
		{"no description", "72 degrees", 0, "", true},
		{"no reading", ", sunny.", 0, "", true},
		{"text reading", "warm degrees, sunny.", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, desc, err := ParseConditionLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, value)
			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}

// TestParseAttendance tests attendance note parsing
func TestParseAttendance(t *testing.T) {
	tests := []struct {
		name    string
		note    string
		want    *int
		wantErr bool
	}{
		{"grouped", "38,112.", intPtr(38112), false},
		{"with label and markup", ": 2,104.<br/>", intPtr(2104), false},
		{"blank", "", nil, false},
		{"text", "sold out", nil, true},
		{"negative", "-5.", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAttendance(tt.note)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func intPtr(v int) *int {
	return &v
}

// TestGameNormalize tests filling game conditions from box score notes
func TestGameNormalize(t *testing.T) {
	t.Run("fills from notes", func(t *testing.T) {
		g := Game{ID: "g", Notes: &BoxScoreNotes{
			Weather:    "81 degrees, clear.",
			Wind:       "12 mph, L to R.",
			Attendance: "40,305.",
		}}

		require.NoError(t, g.Normalize())
		assert.Equal(t, &Weather{Temperature: 81, Condition: "clear", WindSpeed: 12, WindDir: "L to R"}, g.Weather)
		assert.Equal(t, intPtr(40305), g.Attendance)
	})

	t.Run("keeps structured values", func(t *testing.T) {
		weather := &Weather{Temperature: 65, Condition: "dome"}
		g := Game{Weather: weather, Attendance: intPtr(12), Notes: &BoxScoreNotes{
			Weather:    "not read",
			Attendance: "not read",
		}}

		require.NoError(t, g.Normalize())
		assert.Same(t, weather, g.Weather)
		assert.Equal(t, intPtr(12), g.Attendance)
	})

	t.Run("minors feed without weather", func(t *testing.T) {
		g := Game{Notes: &BoxScoreNotes{Attendance: "1,877."}}

		require.NoError(t, g.Normalize())
		assert.Nil(t, g.Weather)
		assert.Equal(t, intPtr(1877), g.Attendance)
	})

	t.Run("no notes", func(t *testing.T) {
		g := Game{}
		require.NoError(t, g.Normalize())
		assert.Nil(t, g.Weather)
		assert.Nil(t, g.Attendance)
	})

	t.Run("bad wind", func(t *testing.T) {
		g := Game{Notes: &BoxScoreNotes{Weather: "70 degrees, sunny.", Wind: "breezy"}}
		assert.Error(t, g.Normalize())
		assert.Nil(t, g.Weather)
	})
}

// TestEventValue tests unwrapping events built by pointer
func TestEventValue(t *testing.T) {
	pitch := PitchEvent{Result: ResultBall, Description: "Ball"}
	var missing *RunnerEvent

	tests := []struct {
		name   string
		event  Event
		want   Event
		wantOK bool
	}{
		{"value", pitch, pitch, true},
		{"pointer", &pitch, pitch, true},
		{"pickoff pointer", &PickoffEvent{Description: "Pickoff Attempt 1B"}, PickoffEvent{Description: "Pickoff Attempt 1B"}, true},
		{"typed nil pointer", missing, nil, false},
		{"nil", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EventValue(tt.event)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestGamePitchCount tests counting pitches built by value or pointer
func TestGamePitchCount(t *testing.T) {
	bottom := HalfInning{Items: []HalfInningItem{
		&PlateAppearance{Events: []Event{&PitchEvent{Result: ResultStrike}, RunnerEvent{Start: "", End: "1B"}}},
	}}
	g := Game{Innings: []Inning{{
		Num: 1,
		Top: HalfInning{Items: []HalfInningItem{
			&PlateAppearance{Events: []Event{PitchEvent{Result: ResultBall}, PickoffEvent{}, PitchEvent{Result: ResultInPlay}}},
			ActionEvent{Description: "Mound Visit."},
			(*PlateAppearance)(nil),
		}},
		Bottom: &bottom,
	}}}

	assert.Equal(t, 3, g.PitchCount())
}
