package planner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func lisbonTrip() types.Trip {
	return types.Trip{
		Title:     "Anniversary",
		Location:  ptr("Lisbon"),
		StartDate: ptr("2025-06-01"),
		EndDate:   ptr("2025-06-03"),
		Budget:    ptr(1500.0),
	}
}

const itineraryJSON = `{
  "destination": "Lisbon, Portugal",
  "startDate": "2025-06-01",
  "endDate": "2025-06-03",
  "days": [
    {
      "date": "2025-06-01",
      "activities": [
        {"time": "9:00 AM - 10:30 AM", "activity": "Breakfast", "location": "Baixa", "description": "Pastries", "estimatedCost": "€20", "reservationNeeded": false},
        {"time": "7:00 PM - 9:00 PM", "activity": "Fado dinner", "location": "Alfama", "description": "Live music", "estimatedCost": "€90", "reservationNeeded": true}
      ]
    }
  ]
}`

func TestParseItinerary_Structured(t *testing.T) {
	gen, degraded := ParseItinerary(itineraryJSON, lisbonTrip())
	require.Nil(t, degraded)

	assert.Equal(t, "Lisbon, Portugal", gen.Destination)
	assert.Equal(t, "2025-06-01", gen.StartDate)
	assert.Equal(t, "2025-06-03", gen.EndDate)

	var want types.ItineraryDocument
	require.NoError(t, json.Unmarshal([]byte(itineraryJSON), &want))
	doc, ok := DecodeItineraryContent(gen.Content)
	require.True(t, ok)
	assert.Equal(t, want, doc)
	assert.Contains(t, gen.Content, "\n  \"days\"")
}

func TestParseItinerary_MissingFieldsFallBackToTrip(t *testing.T) {
	gen, degraded := ParseItinerary(`{"days": [{"date": "2025-06-01"}]}`, lisbonTrip())
	require.Nil(t, degraded)

	assert.Equal(t, "Lisbon", gen.Destination)
	assert.Equal(t, "2025-06-01", gen.StartDate)
	assert.Equal(t, "2025-06-03", gen.EndDate)

	doc, ok := DecodeItineraryContent(gen.Content)
	require.True(t, ok)
	require.Len(t, doc.Days, 1)
	assert.NotNil(t, doc.Days[0].Activities)
	assert.Empty(t, doc.Days[0].Activities)
}

func TestParseItinerary_LenientActivityFields(t *testing.T) {
	raw := `{"destination":"Paris","startDate":"2025-06-01","endDate":"2025-06-02","days":[{"date":"2025-06-01","activities":[` +
		`{"time":"9:00 AM - 11:00 AM","activity":"Louvre","location":"Rue de Rivoli","description":"Museum","estimatedCost":25,"reservationNeeded":"yes"}]}]}`

	gen, degraded := ParseItinerary(raw, lisbonTrip())
	require.Nil(t, degraded)
	assert.Equal(t, "Paris", gen.Destination)

	doc, ok := DecodeItineraryContent(gen.Content)
	require.True(t, ok)
	require.Len(t, doc.Days, 1)
	require.Len(t, doc.Days[0].Activities, 1)
	act := doc.Days[0].Activities[0]
	assert.Equal(t, types.CostText("25"), act.EstimatedCost)
	assert.True(t, bool(act.ReservationNeeded))

	items, skipped := BuildItems(doc)
	assert.Empty(t, skipped)
	require.Len(t, items, 1)
	assert.Equal(t, "Louvre", items[0].Title)
}

func TestParseItinerary_NotJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"prose", "Day 1: Arrive in Lisbon and walk around Alfama."},
		{"json wrapped in prose", "Here is your plan:\n" + itineraryJSON},
		{"markdown fence", "```json\n" + itineraryJSON + "\n```"},
		{"empty", ""},
		{"null", "null"},
		{"empty object", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, degraded := ParseItinerary(tt.raw, lisbonTrip())
			require.NotNil(t, degraded)
			assert.Equal(t, len(tt.raw), degraded.RawLength)
			assert.Equal(t, tt.raw, gen.Content)
			assert.Equal(t, "Lisbon", gen.Destination)
			assert.Equal(t, "2025-06-01", gen.StartDate)
			assert.Equal(t, "2025-06-03", gen.EndDate)
		})
	}
}

func TestParseItinerary_NotJSONWithoutTripDetails(t *testing.T) {
	gen, degraded := ParseItinerary("just text", types.Trip{Title: "Somewhere"})
	require.NotNil(t, degraded)
	assert.Equal(t, "", gen.Destination)
	assert.Equal(t, "", gen.StartDate)
	assert.Equal(t, "just text", gen.Content)
}

func TestNewItineraryView(t *testing.T) {
	gen, _ := ParseItinerary(itineraryJSON, lisbonTrip())
	view := NewItineraryView(gen)
	assert.True(t, view.Structured)
	require.Len(t, view.Days, 1)
	assert.Len(t, view.Days[0].Activities, 2)

	raw := NewItineraryView(types.GeneratedItinerary{Content: "Day 1: relax"})
	assert.False(t, raw.Structured)
	assert.Nil(t, raw.Days)
}
