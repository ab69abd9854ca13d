package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func fullTrip() types.Trip {
	trip := lisbonTrip()
	trip.Description = ptr("Tenth anniversary")
	trip.TravelPartner = ptr("Ana")
	return trip
}

func titleOnlyTrip() types.Trip {
	return types.Trip{
		Title:       "Weekend away",
		Description: ptr("   "),
		Location:    ptr(""),
	}
}

var detailLabels = []string{"Description:", "Location:", "Start Date:", "End Date:", "Budget:", "Travelling with:"}

func TestPromptBuilders_TripDetails(t *testing.T) {
	builders := []struct {
		name  string
		build func(types.Trip) string
	}{
		{"recommendations", BuildRecommendationsPrompt},
		{"category", func(trip types.Trip) string { return BuildCategoryPrompt(trip, types.CategoryFood) }},
		{"itinerary", BuildItineraryPrompt},
	}

	for _, b := range builders {
		t.Run(b.name+"/full trip", func(t *testing.T) {
			prompt := b.build(fullTrip())
			assert.Contains(t, prompt, "Title: Anniversary\n")
			assert.Contains(t, prompt, "Description: Tenth anniversary\n")
			assert.Contains(t, prompt, "Location: Lisbon\n")
			assert.Contains(t, prompt, "Start Date: 2025-06-01\n")
			assert.Contains(t, prompt, "End Date: 2025-06-03\n")
			assert.Contains(t, prompt, "Budget: 1500.00\n")
			assert.Contains(t, prompt, "Travelling with: Ana\n")
			assert.NotContains(t, prompt, "<nil>")
		})

		t.Run(b.name+"/title only", func(t *testing.T) {
			prompt := b.build(titleOnlyTrip())
			assert.Contains(t, prompt, "Title: Weekend away\n")
			for _, label := range detailLabels {
				assert.NotContains(t, prompt, label)
			}
			assert.NotContains(t, prompt, "<nil>")
			assert.NotContains(t, prompt, "%!")
		})
	}
}

func TestBuildRecommendationsPrompt(t *testing.T) {
	prompt := BuildRecommendationsPrompt(fullTrip())
	assert.Contains(t, prompt, "location-specific recommendations for Lisbon")
	for _, header := range []string{"Activities:\n- [Activity name]: [Brief description]", "Accommodations:\n- [Accommodation name]: [Brief description]", "Transportation:\n- [Transportation option]: [Brief description]"} {
		assert.Contains(t, prompt, header)
	}

	generic := BuildRecommendationsPrompt(titleOnlyTrip())
	assert.Contains(t, generic, "Please provide recommendations including:")
	assert.NotContains(t, generic, "location-specific")
}

func TestBuildCategoryPrompt(t *testing.T) {
	tests := []struct {
		category types.RecommendationCategory
		ask      string
	}{
		{types.CategoryActivity, "Suggest 3 activities"},
		{types.CategoryHotel, "Suggest 3 places to stay"},
		{types.CategoryFood, "Suggest 3 places to eat"},
		{types.RecommendationCategory("spa"), "Suggest 3 activities"},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			prompt := BuildCategoryPrompt(fullTrip(), tt.category)
			assert.Contains(t, prompt, "trip to Lisbon")
			assert.Contains(t, prompt, tt.ask)
			assert.Contains(t, prompt, "- [Name]: [Brief description]")
			assert.Contains(t, prompt, `starting with "- "`)
		})
	}

	assert.Contains(t, BuildCategoryPrompt(titleOnlyTrip(), types.CategoryHotel), "trip to the destination")
}

func TestBuildItineraryPrompt(t *testing.T) {
	t.Run("full trip", func(t *testing.T) {
		prompt := BuildItineraryPrompt(fullTrip())
		assert.Contains(t, prompt, `"destination": "Lisbon"`)
		assert.Contains(t, prompt, `"startDate": "2025-06-01"`)
		assert.Contains(t, prompt, `"endDate": "2025-06-03"`)
		assert.Contains(t, prompt, `"days": [`)
		assert.Contains(t, prompt, `"activities": [`)
		assert.Contains(t, prompt, `"time": "HH:MM AM - HH:MM PM"`)
		assert.Contains(t, prompt, `"reservationNeeded": true`)
		assert.Contains(t, prompt, "YYYY-MM-DD format")
		assert.Contains(t, prompt, `"HH:MM AM/PM - HH:MM AM/PM"`)
	})

	t.Run("title only", func(t *testing.T) {
		prompt := BuildItineraryPrompt(titleOnlyTrip())
		assert.Contains(t, prompt, `"destination": "the destination"`)
		assert.Contains(t, prompt, `"startDate": "YYYY-MM-DD"`)
		assert.Contains(t, prompt, `"endDate": "YYYY-MM-DD"`)
	})
}
