package models

// Event is one entry of a plate appearance's ordered event list.
// The set of implementations is closed: PitchEvent, RunnerEvent, ActionEvent
// and PickoffEvent.
type Event interface {
	eventKind() string
}

// PitchResult is the feed's single-letter pitch result code.
type PitchResult string

const (
	ResultBall   PitchResult = "B"
	ResultStrike PitchResult = "S"
	ResultInPlay PitchResult = "X"
)

// PitchEvent is a single pitch as decoded from the feed
type PitchEvent struct {
	ID          string      `json:"id,omitempty"`
	Result      PitchResult `json:"result"`
	Description string      `json:"description"`
	PitchType   string      `json:"pitch_type,omitempty"`
	// Measurements carries velocity, break and location readings untouched.
	Measurements map[string]float64 `json:"measurements,omitempty"`
}

// RunnerEvent records one runner's movement between bases.
type RunnerEvent struct {
	RunnerID string `json:"runner_id"`
	Start    string `json:"start"` // "", "1B", "2B", "3B"
	End      string `json:"end"`   // "", "1B", "2B", "3B", "score"
	Event    string `json:"event"`
	Scored   bool   `json:"scored,omitempty"`
}

// ActionEvent is a non-pitch occurrence (substitution, mound visit, challenge).
// The count snapshot is kept for consumers but has no effect on game state.
type ActionEvent struct {
	Balls       uint8  `json:"balls"`
	Strikes     uint8  `json:"strikes"`
	Outs        uint8  `json:"outs"`
	Description string `json:"description"`
	PlayerID    string `json:"player_id,omitempty"`
}

// PickoffEvent is a pickoff attempt. It never changes state by itself; a
// successful pickoff arrives as a separate RunnerEvent.
type PickoffEvent struct {
	Description string `json:"description"`
}

const (
	kindPitch   = "pitch"
	kindRunner  = "runner"
	kindAction  = "action"
	kindPickoff = "pickoff"
)

func (PitchEvent) eventKind() string   { return kindPitch }
func (RunnerEvent) eventKind() string  { return kindRunner }
func (ActionEvent) eventKind() string  { return kindAction }
func (PickoffEvent) eventKind() string { return kindPickoff }

// Scores reports whether the runner crossed the plate.
func (r RunnerEvent) Scores() bool {
	return r.Scored || r.End == EndScore
}

// EventValue unwraps events built by pointer so callers can match on the value
// types alone. It reports false for nil events, including typed nil pointers.
func EventValue(ev Event) (Event, bool) {
	switch e := ev.(type) {
	case nil:
		return nil, false
	case *PitchEvent:
		if e == nil {
			return nil, false
		}
		return *e, true
	case *RunnerEvent:
		if e == nil {
			return nil, false
		}
		return *e, true
	case *ActionEvent:
		if e == nil {
			return nil, false
		}
		return *e, true
	case *PickoffEvent:
		if e == nil {
			return nil, false
		}
		return *e, true
	}
	return ev, true
}
