package models

// Umpire positions as listed in the feed's umpire roster
const (
	UmpireHome   = "home"
	UmpireFirst  = "first"
	UmpireSecond = "second"
	UmpireThird  = "third"
	UmpireLeft   = "left"
	UmpireRight  = "right"
)

// Umpire is one entry of a game's umpire roster. ID is empty when the feed
// has no id for the umpire (common below the majors).
type Umpire struct {
	Position string `json:"position"`
	Name     string `json:"name"`
	ID       string `json:"id,omitempty"`
}

// UmpireCrew is the roster pivoted by position. Positions that were not
// staffed are left as zero values; four-man crews have no Left/Right.
type UmpireCrew struct {
	HomePlate Umpire `json:"home_plate"`
	First     Umpire `json:"first"`
	Second    Umpire `json:"second"`
	Third     Umpire `json:"third"`
	Left      Umpire `json:"left"`
	Right     Umpire `json:"right"`
}

// PivotUmpires arranges a roster by position. Unknown positions are ignored and
// a later entry for the same position replaces an earlier one.
func PivotUmpires(umpires []Umpire) UmpireCrew {
	var crew UmpireCrew
	for _, u := range umpires {
		switch u.Position {
		case UmpireHome:
			crew.HomePlate = u
		case UmpireFirst:
			crew.First = u
		case UmpireSecond:
			crew.Second = u
		case UmpireThird:
			crew.Third = u
		case UmpireLeft:
			crew.Left = u
		case UmpireRight:
			crew.Right = u
		}
	}
	return crew
}

// Size returns the number of staffed positions
func (c UmpireCrew) Size() int {
	size := 0
	for _, u := range []Umpire{c.HomePlate, c.First, c.Second, c.Third, c.Left, c.Right} {
		if u.Name != "" || u.ID != "" {
			size++
		}
	}
	return size
}
