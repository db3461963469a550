package reducer

import (
	"sort"

	"pitch-engine/models"
)

const maxOuts = 3

// ReducePlateAppearance walks one at-bat starting from the given bases and
// outs. It returns one PitchState per pitch and the occupancy at the end of
// the at-bat.
func ReducePlateAppearance(pa models.PlateAppearance, basesIn models.BaseState, outsIn uint8) ([]models.PitchState, models.BaseState) {
	r := &Reducer{}
	return r.PlateAppearance(&pa, basesIn, outsIn)
}

// PlateAppearance reduces one at-bat.
//
// Runner events change state between pitches but the feed lists them after
// the pitch they followed, so each group of runner events patches the most
// recently emitted PitchState by index. A group is applied lead runner first,
// so a runner never moves onto a base before its occupant has left. The last
// pitch is then reconciled against the at-bat's authoritative out count.
func (r *Reducer) PlateAppearance(pa *models.PlateAppearance, basesIn models.BaseState, outsIn uint8) ([]models.PitchState, models.BaseState) {
	r.atBatNum = pa.Num
	defer func() { r.atBatNum = 0 }()

	var (
		count   models.Count
		bases   = basesIn
		outs    = outsIn
		runners []models.RunnerEvent
		pitches = make([]models.PitchState, 0, len(pa.Events))
	)

	for i, raw := range pa.Events {
		ev, ok := models.EventValue(raw)
		if !ok {
			r.report(AnomalyUnknownEvent, "event %d is nil", i)
			continue
		}

		switch e := ev.(type) {
		case models.PitchEvent:
			bases, outs = r.advanceRunners(runners, bases, outs, pitches)
			runners = runners[:0]

			before := count
			count = AdvanceCount(count, e.Result, e.Description)
			pitches = append(pitches, models.PitchState{
				Inning:            r.inning,
				Half:              r.half,
				CountBefore:       before,
				CountAfter:        count,
				OutsBefore:        outs,
				OutsAfter:         outs,
				BasesBefore:       bases,
				BasesAfter:        bases,
				BatterResponsible: true,
				Swing:             IsSwing(e.Description),
				Pitch:             e,
				AtBatNum:          pa.Num,
				BatterID:          pa.BatterID,
				PitcherID:         pa.PitcherID,
				Stand:             pa.Stand,
				PThrows:           pa.PThrows,
				AtBatDes:          pa.Result,
			})

		case models.RunnerEvent:
			runners = append(runners, e)

		case models.ActionEvent, models.PickoffEvent:
			// no modeled effect

		default:
			r.report(AnomalyUnknownEvent, "event %d has unsupported type %T", i, raw)
		}
	}
	bases, _ = r.advanceRunners(runners, bases, outs, pitches)

	if n := len(pitches); n > 0 {
		last := &pitches[n-1]
		last.OutsAfter = pa.OutsEnd
		if last.Pitch.Result == models.ResultInPlay {
			last.BatterResponsible = true
		}
	}

	return pitches, bases
}

// advanceRunners applies the runner events that followed one pitch and
// patches that pitch, when there is one, with the resulting state. The
// responsibility of the last event in feed order wins.
func (r *Reducer) advanceRunners(runners []models.RunnerEvent, bases models.BaseState, outs uint8, pitches []models.PitchState) (models.BaseState, uint8) {
	if len(runners) == 0 {
		return bases, outs
	}

	ordered := make([]models.RunnerEvent, len(runners))
	copy(ordered, runners)
	sort.SliceStable(ordered, func(i, j int) bool {
		return startRank(ordered[i]) > startRank(ordered[j])
	})

	var runs uint8
	for _, ev := range ordered {
		next, scored, out := r.applyRunnerEvent(bases, ev)
		bases = next
		runs += scored
		outs += out
		if outs > maxOuts {
			outs = maxOuts
		}
	}

	if n := len(pitches); n > 0 {
		last := &pitches[n-1]
		last.BasesAfter = bases
		last.Runs += runs
		last.OutsAfter = outs
		last.BatterResponsible = !IsBaserunningPlay(runners[len(runners)-1].Event)
	}
	return bases, outs
}

// startRank orders runners from third base back to the batter
func startRank(ev models.RunnerEvent) int {
	bit, ok := models.BaseBit(ev.Start)
	if !ok {
		return 0
	}
	return int(bit)
}
