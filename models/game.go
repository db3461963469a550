package models

import (
	"fmt"
	"time"
)

// PlateAppearance represents one batter's turn at bat with its events in feed order
type PlateAppearance struct {
	Num       int     `json:"num"`
	BatterID  string  `json:"batter_id"`
	PitcherID string  `json:"pitcher_id"`
	Stand     string  `json:"stand,omitempty"`    // "L" or "R"
	PThrows   string  `json:"p_throws,omitempty"` // "L" or "R"
	OutsEnd   uint8   `json:"outs_end"`           // authoritative outs after the PA
	Result    string  `json:"result,omitempty"`
	Events    []Event `json:"events"`
}

// HalfInningItem is a top-level entry of a half-inning: either a
// *PlateAppearance or an ActionEvent that happened between at-bats.
type HalfInningItem interface {
	itemKind() string
}

const (
	itemPA     = "pa"
	itemAction = "action"
)

func (*PlateAppearance) itemKind() string { return itemPA }
func (ActionEvent) itemKind() string      { return itemAction }

// HalfInning is one team's turn on offense
type HalfInning struct {
	Items []HalfInningItem `json:"items"`
}

// PlateAppearances returns the at-bats of the half-inning in order
func (h HalfInning) PlateAppearances() []*PlateAppearance {
	var pas []*PlateAppearance
	for _, item := range h.Items {
		if pa, ok := item.(*PlateAppearance); ok && pa != nil {
			pas = append(pas, pa)
		}
	}
	return pas
}

// Inning holds both halves. Bottom is nil when the home team did not bat.
type Inning struct {
	Num    int         `json:"num"`
	Top    HalfInning  `json:"top"`
	Bottom *HalfInning `json:"bottom,omitempty"`
}

// Game is a decoded feed for a single game
type Game struct {
	ID         string         `json:"id"`
	Level      Level          `json:"level,omitempty"`
	Date       time.Time      `json:"date"`
	Venue      string         `json:"venue,omitempty"`
	HomeTeamID string         `json:"home_team_id,omitempty"`
	AwayTeamID string         `json:"away_team_id,omitempty"`
	Weather    *Weather       `json:"weather,omitempty"`
	Attendance *int           `json:"attendance,omitempty"`
	Notes      *BoxScoreNotes `json:"box_score,omitempty"`
	Umpires    []Umpire       `json:"umpires,omitempty"`
	Innings    []Inning       `json:"innings"`
}

// Normalize fills Weather and Attendance from the box score notes when the
// feed did not supply them already.
func (g *Game) Normalize() error {
	if g.Notes == nil {
		return nil
	}
	if g.Weather == nil && (g.Notes.Weather != "" || g.Notes.Wind != "") {
		weather, err := ParseWeather(g.Notes.Weather, g.Notes.Wind)
		if err != nil {
			return err
		}
		g.Weather = weather
	}
	if g.Attendance == nil {
		attendance, err := ParseAttendance(g.Notes.Attendance)
		if err != nil {
			return fmt.Errorf("failed to parse attendance: %w", err)
		}
		g.Attendance = attendance
	}
	return nil
}

// PitchCount returns the number of pitch events in the game
func (g *Game) PitchCount() int {
	count := 0
	for _, in := range g.Innings {
		count += countPitches(in.Top)
		if in.Bottom != nil {
			count += countPitches(*in.Bottom)
		}
	}
	return count
}

func countPitches(h HalfInning) int {
	count := 0
	for _, pa := range h.PlateAppearances() {
		for _, ev := range pa.Events {
			ev, _ = EventValue(ev)
			if _, ok := ev.(PitchEvent); ok {
				count++
			}
		}
	}
	return count
}
