// Package reducer rebuilds pitch-by-pitch game state from a decoded
// play-by-play feed.
//
// Reduction is pure and total: it performs no I/O, never fails, and degrades
// feed inconsistencies to a best-effort state. Those inconsistencies can be
// observed through Reducer.Observe.
package reducer

import "fmt"

// AnomalyKind classifies a feed-shape inconsistency
type AnomalyKind string

const (
	// AnomalyBaseLabel is a base label that is not "", 1B, 2B, 3B (or "score" as an end).
	AnomalyBaseLabel AnomalyKind = "malformed_base_label"
	// AnomalyVacantStart is a runner leaving a base the tracker has as empty.
	AnomalyVacantStart AnomalyKind = "vacant_start_base"
	// AnomalyOccupancyRange is an occupancy update that left [0,7].
	AnomalyOccupancyRange AnomalyKind = "occupancy_out_of_range"
	// AnomalyUnknownEvent is an event or item of a type the reducer does not model.
	AnomalyUnknownEvent AnomalyKind = "unknown_event"
)

// Anomaly describes where and how the feed disagreed with itself
type Anomaly struct {
	Kind     AnomalyKind `json:"kind"`
	Inning   int         `json:"inning,omitempty"`
	Half     string      `json:"half,omitempty"`
	AtBatNum int         `json:"at_bat_num,omitempty"`
	Detail   string      `json:"detail"`
}

func (a Anomaly) String() string {
	return fmt.Sprintf("%s (inning %d %s, at-bat %d): %s", a.Kind, a.Inning, a.Half, a.AtBatNum, a.Detail)
}

// Reducer walks innings and emits PitchState values. The zero value is ready
// to use. A Reducer is not safe for concurrent use; give each goroutine its own.
type Reducer struct {
	// Observe, when set, is called for every feed anomaly encountered.
	Observe func(Anomaly)

	inning   int
	half     string
	atBatNum int
}

func (r *Reducer) report(kind AnomalyKind, format string, args ...interface{}) {
	if r == nil || r.Observe == nil {
		return
	}
	r.Observe(Anomaly{
		Kind:     kind,
		Inning:   r.inning,
		Half:     r.half,
		AtBatNum: r.atBatNum,
		Detail:   fmt.Sprintf(format, args...),
	})
}
