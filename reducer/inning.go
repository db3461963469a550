package reducer

import "pitch-engine/models"

// ReduceHalfInning reduces one half-inning starting from empty bases and no outs
func ReduceHalfInning(h models.HalfInning) []models.PitchState {
	r := &Reducer{}
	return r.HalfInning(h)
}

// ReduceInning reduces the top half and, when present, the bottom half
func ReduceInning(in models.Inning) []models.PitchState {
	r := &Reducer{}
	return r.Inning(in)
}

// ReduceInnings concatenates the reductions of innings in order
func ReduceInnings(innings []models.Inning) []models.PitchState {
	r := &Reducer{}
	return r.Innings(innings)
}

// ReduceGame reduces every inning of a game and stamps game-level fields
func ReduceGame(g *models.Game) []models.PitchState {
	r := &Reducer{}
	return r.Game(g)
}

// HalfInning threads bases and outs across the plate appearances of one
// half-inning. Outs carry over from each at-bat's authoritative OutsEnd.
// Actions between at-bats have no effect.
func (r *Reducer) HalfInning(h models.HalfInning) []models.PitchState {
	var (
		bases   models.BaseState
		outs    uint8
		pitches []models.PitchState
	)

	for i, item := range h.Items {
		switch it := item.(type) {
		case *models.PlateAppearance:
			if it == nil {
				r.report(AnomalyUnknownEvent, "item %d is a nil plate appearance", i)
				continue
			}
			paPitches, next := r.PlateAppearance(it, bases, outs)
			pitches = append(pitches, paPitches...)
			bases = next
			outs = it.OutsEnd
		case models.ActionEvent, *models.ActionEvent:
			// substitutions, mound visits and challenges carry no state change
		default:
			r.report(AnomalyUnknownEvent, "item %d has unsupported type %T", i, item)
		}
	}

	return pitches
}

// Inning reduces both halves independently; no state crosses the boundary.
func (r *Reducer) Inning(in models.Inning) []models.PitchState {
	r.inning = in.Num
	defer func() {
		r.inning = 0
		r.half = ""
	}()

	r.half = models.HalfTop
	pitches := r.HalfInning(in.Top)

	if in.Bottom != nil {
		r.half = models.HalfBottom
		pitches = append(pitches, r.HalfInning(*in.Bottom)...)
	}
	return pitches
}

// Innings reduces innings in order
func (r *Reducer) Innings(innings []models.Inning) []models.PitchState {
	var pitches []models.PitchState
	for _, in := range innings {
		pitches = append(pitches, r.Inning(in)...)
	}
	return pitches
}

// Game reduces a whole game, stamping the game id and the home plate umpire
// onto every pitch.
func (r *Reducer) Game(g *models.Game) []models.PitchState {
	pitches := r.Innings(g.Innings)
	umpireID := models.PivotUmpires(g.Umpires).HomePlate.ID
	for i := range pitches {
		pitches[i].GameID = g.ID
		pitches[i].UmpireID = umpireID
	}
	return pitches
}
