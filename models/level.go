package models

import "fmt"

// Level is a gameday level code as it appears in feed directory names
type Level string

const (
	LevelMajors  Level = "mlb"
	LevelTripleA Level = "aaa"
	LevelDoubleA Level = "aax"
	LevelHighA   Level = "afa"
	LevelSingleA Level = "afx"
	LevelLowA    Level = "asx"
	LevelRookie  Level = "rok"
	LevelWinter  Level = "win"
)

type levelInfo struct {
	name  string
	class string
}

// Levels lists every level from the majors down, winter ball last
var Levels = []Level{
	LevelMajors, LevelTripleA, LevelDoubleA, LevelHighA,
	LevelSingleA, LevelLowA, LevelRookie, LevelWinter,
}

var levelTable = map[Level]levelInfo{
	LevelMajors:  {name: "Majors", class: "MLB"},
	LevelTripleA: {name: "Triple A", class: "AAA"},
	LevelDoubleA: {name: "Double A", class: "AA"},
	LevelHighA:   {name: "High A", class: "A+"},
	LevelSingleA: {name: "Single A", class: "A"},
	LevelLowA:    {name: "Low A", class: "A-"},
	LevelRookie:  {name: "Rookie", class: "R"},
	LevelWinter:  {name: "Winter", class: "W"},
}

// ParseLevel validates a level code. An empty code defaults to the majors.
func ParseLevel(code string) (Level, error) {
	if code == "" {
		return LevelMajors, nil
	}
	l := Level(code)
	if _, ok := levelTable[l]; !ok {
		return "", fmt.Errorf("unknown level code %q", code)
	}
	return l, nil
}

// Name returns the long form, e.g. "Triple A"
func (l Level) Name() string {
	return levelTable[l].name
}

// Class returns the short form, e.g. "AAA"
func (l Level) Class() string {
	return levelTable[l].class
}

// Rank is 0 for the majors and increases down the minor leagues; -1 if unknown.
func (l Level) Rank() int {
	for i, lv := range Levels {
		if lv == l {
			return i
		}
	}
	return -1
}
