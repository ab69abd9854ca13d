package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ActivityPlan is one entry of a generated day. Time is "H:MM AM - H:MM PM".
type ActivityPlan struct {
	Time              string   `json:"time"`
	Activity          string   `json:"activity"`
	Location          string   `json:"location"`
	Description       string   `json:"description"`
	EstimatedCost     CostText `json:"estimatedCost"`
	ReservationNeeded Flag     `json:"reservationNeeded"`
}

// CostText is free-form cost text. Models send it as a string or as a bare
// number; numbers and booleans are kept verbatim.
type CostText string

func (c *CostText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*c = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = CostText(s)
	case len(b) > 0 && (b[0] == '{' || b[0] == '['):
		return fmt.Errorf("estimatedCost: unexpected %s", b[:1])
	default:
		*c = CostText(b)
	}
	return nil
}

// Flag is a bool that also accepts "yes"/"true" strings and non-zero numbers.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = false
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes", "y", "required":
			*f = true
		default:
			*f = false
		}
	case bytes.Equal(b, []byte("true")):
		*f = true
	case bytes.Equal(b, []byte("false")):
		*f = false
	default:
		var n float64
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("reservationNeeded: %w", err)
		}
		*f = n != 0
	}
	return nil
}

type DayPlan struct {
	Date       string         `json:"date"`
	Activities []ActivityPlan `json:"activities"`
}

// ItineraryDocument is the JSON shape the model is asked to return.
type ItineraryDocument struct {
	Destination string    `json:"destination"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	Days        []DayPlan `json:"days"`
}

// GeneratedItinerary carries either pretty-printed ItineraryDocument JSON or the
// model's raw text in Content. Readers must handle both.
type GeneratedItinerary struct {
	Destination string `json:"destination"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Content     string `json:"content"`
}

// ItineraryView is what the API returns for a stored itinerary.
type ItineraryView struct {
	GeneratedItinerary
	Structured bool      `json:"structured"`
	Days       []DayPlan `json:"days,omitempty"`
}

type MaterializeResponse struct {
	Inserted int        `json:"inserted"`
	Items    []TripItem `json:"items"`
}

type TripWithItineraryResponse struct {
	Trip      Trip          `json:"trip"`
	Itinerary ItineraryView `json:"itinerary"`
	Items     []TripItem    `json:"items"`
}
