package models

import "strings"

// Base labels used by runner events
const (
	BaseFirst  = "1B"
	BaseSecond = "2B"
	BaseThird  = "3B"
	EndScore   = "score"
)

// Half-inning labels
const (
	HalfTop    = "top"
	HalfBottom = "bottom"
)

// BaseState is the occupancy of the three bases packed into the low three bits:
// bit0 = first, bit1 = second, bit2 = third.
type BaseState uint8

const (
	OnFirst  BaseState = 1 << 0
	OnSecond BaseState = 1 << 1
	OnThird  BaseState = 1 << 2

	BasesEmpty  BaseState = 0
	BasesLoaded           = OnFirst | OnSecond | OnThird
)

// BaseBit maps a base label to its occupancy bit. The second return value is
// false for labels that are neither empty nor a base (including "score").
func BaseBit(label string) (BaseState, bool) {
	switch label {
	case BaseFirst:
		return OnFirst, true
	case BaseSecond:
		return OnSecond, true
	case BaseThird:
		return OnThird, true
	case "", EndScore:
		return 0, true
	default:
		return 0, false
	}
}

// Valid checks the occupancy fits in three bits
func (bs BaseState) Valid() bool {
	return bs <= BasesLoaded
}

// Occupied reports whether every base in mask holds a runner
func (bs BaseState) Occupied(mask BaseState) bool {
	return mask != 0 && bs&mask == mask
}

// Runners returns the number of runners on base
func (bs BaseState) Runners() int {
	count := 0
	for _, b := range []BaseState{OnFirst, OnSecond, OnThird} {
		if bs&b != 0 {
			count++
		}
	}
	return count
}

// String renders the occupancy as e.g. "1B,3B" or "empty"
func (bs BaseState) String() string {
	var parts []string
	if bs&OnFirst != 0 {
		parts = append(parts, BaseFirst)
	}
	if bs&OnSecond != 0 {
		parts = append(parts, BaseSecond)
	}
	if bs&OnThird != 0 {
		parts = append(parts, BaseThird)
	}
	if len(parts) == 0 {
		return "empty"
	}
	return strings.Join(parts, ",")
}

// Count represents balls and strikes
type Count struct {
	Balls   uint8 `json:"balls"`
	Strikes uint8 `json:"strikes"`
}

// PitchState is the reconstructed game state around a single pitch.
type PitchState struct {
	GameID string `json:"game_id,omitempty"`
	Inning int    `json:"inning"`
	Half   string `json:"half"` // "top" or "bottom"

	CountBefore Count     `json:"count_before"`
	CountAfter  Count     `json:"count_after"`
	OutsBefore  uint8     `json:"outs_before"`
	OutsAfter   uint8     `json:"outs_after"`
	Runs        uint8     `json:"runs"`
	BasesBefore BaseState `json:"bases_before"`
	BasesAfter  BaseState `json:"bases_after"`

	BatterResponsible bool `json:"batter_responsible"`
	Swing             bool `json:"swing"`

	Pitch PitchEvent `json:"pitch"`

	// Denormalized from the owning plate appearance
	AtBatNum  int    `json:"at_bat_num"`
	BatterID  string `json:"batter_id"`
	PitcherID string `json:"pitcher_id"`
	Stand     string `json:"stand,omitempty"`    // "L" or "R"
	PThrows   string `json:"p_throws,omitempty"` // absent on some legacy records
	AtBatDes  string `json:"at_bat_des,omitempty"`

	UmpireID string `json:"umpire_id,omitempty"` // home plate
}

// IsHalfInningOver checks if the pitch closed out the half-inning
func (ps *PitchState) IsHalfInningOver() bool {
	return ps.OutsAfter >= 3
}
