package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"pitch-engine/models"
)

// APIError represents an API error response
type APIError struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// writeJSONStatus writes data with a non-200 status code
func writeJSONStatus(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON: %v", err)
	}
}

// writeError writes an error response
func writeError(w http.ResponseWriter, message string, statusCode int) {
	writeJSONStatus(w, APIError{Error: message}, statusCode)
}

// writeErrorWithDetails writes an error response with additional details
func writeErrorWithDetails(w http.ResponseWriter, message, code string, details map[string]interface{}, statusCode int) {
	writeJSONStatus(w, APIError{
		Error:   message,
		Code:    code,
		Details: details,
	}, statusCode)
}

// PitchFilter narrows a game's pitch states to one inning and/or half
type PitchFilter struct {
	Inning int
	Half   string
}

// parsePitchFilter reads the inning and half query parameters
func parsePitchFilter(r *http.Request) (PitchFilter, error) {
	var filter PitchFilter

	if inningStr := r.URL.Query().Get("inning"); inningStr != "" {
		inning, err := strconv.Atoi(inningStr)
		if err != nil || inning < 1 {
			return filter, errInvalidParam("inning", inningStr)
		}
		filter.Inning = inning
	}

	switch half := r.URL.Query().Get("half"); half {
	case "", models.HalfTop, models.HalfBottom:
		filter.Half = half
	default:
		return filter, errInvalidParam("half", half)
	}

	return filter, nil
}

// Apply returns the pitches matching the filter, in order
func (f PitchFilter) Apply(pitches []models.PitchState) []models.PitchState {
	if f.Inning == 0 && f.Half == "" {
		return pitches
	}

	filtered := make([]models.PitchState, 0, len(pitches))
	for _, p := range pitches {
		if f.Inning != 0 && p.Inning != f.Inning {
			continue
		}
		if f.Half != "" && p.Half != f.Half {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

type paramError struct {
	name  string
	value string
}

func (e *paramError) Error() string {
	return "invalid " + e.name + ": " + strconv.Quote(e.value)
}

func errInvalidParam(name, value string) error {
	return &paramError{name: name, value: value}
}
