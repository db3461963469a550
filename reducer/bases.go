package reducer

import "pitch-engine/models"

// ApplyRunnerEvent applies one runner movement to the base occupancy and
// returns the new occupancy, the runs it scored (0 or 1) and the outs it
// produced (0 or 1).
func ApplyRunnerEvent(bases models.BaseState, ev models.RunnerEvent) (models.BaseState, uint8, uint8) {
	var r *Reducer
	return r.applyRunnerEvent(bases, ev)
}

func (r *Reducer) applyRunnerEvent(bases models.BaseState, ev models.RunnerEvent) (next models.BaseState, runs, outs uint8) {
	if !bases.Valid() {
		r.report(AnomalyOccupancyRange, "incoming occupancy %d masked to three bases", bases)
		bases &= models.BasesLoaded
	}

	start, ok := models.BaseBit(ev.Start)
	if !ok || ev.Start == models.EndScore {
		r.report(AnomalyBaseLabel, "runner %s start base %q treated as none", ev.RunnerID, ev.Start)
		start = 0
	}
	end, ok := models.BaseBit(ev.End)
	if !ok {
		r.report(AnomalyBaseLabel, "runner %s end base %q treated as none", ev.RunnerID, ev.End)
		end = 0
	}

	if ev.Scores() {
		runs = 1
	} else if ev.End == "" {
		outs = 1
	}

	if start == end {
		return bases, runs, outs
	}

	if start != 0 && !bases.Occupied(start) {
		r.report(AnomalyVacantStart, "runner %s left %s but occupancy is %s", ev.RunnerID, ev.Start, bases)
		return (bases &^ start) | end, runs, outs
	}

	n := int(bases) - int(start) + int(end)
	if n > int(models.BasesLoaded) {
		r.report(AnomalyOccupancyRange, "runner %s %s->%s from %s overflows occupancy", ev.RunnerID, ev.Start, ev.End, bases)
		return (bases &^ start) | end, runs, outs
	}
	return models.BaseState(n), runs, outs
}
