package planner

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const (
	RecommendationsSystemPrompt = "You are a knowledgeable travel expert who provides specific, practical recommendations for trips."
	ItinerarySystemPrompt       = "You are an expert travel planner. You respond only with a single valid JSON document that follows the requested structure exactly. Never add explanations, markdown or any text before or after the JSON."
)

// tripDetails renders the trip attributes that are present, one per line.
func tripDetails(trip types.Trip) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", trip.Title)
	writeOptional(&b, "Description", trip.Description)
	writeOptional(&b, "Location", trip.Location)
	writeOptional(&b, "Start Date", trip.StartDate)
	writeOptional(&b, "End Date", trip.EndDate)
	if trip.Budget != nil {
		fmt.Fprintf(&b, "Budget: %.2f\n", *trip.Budget)
	}
	writeOptional(&b, "Travelling with", trip.TravelPartner)
	return b.String()
}

func writeOptional(b *strings.Builder, label string, v *string) {
	if v == nil {
		return
	}
	if s := strings.TrimSpace(*v); s != "" {
		fmt.Fprintf(b, "%s: %s\n", label, s)
	}
}

func destination(trip types.Trip) string {
	if trip.Location != nil && strings.TrimSpace(*trip.Location) != "" {
		return strings.TrimSpace(*trip.Location)
	}
	return "the destination"
}

// BuildRecommendationsPrompt asks for activities, accommodations and
// transportation under category headers.
func BuildRecommendationsPrompt(trip types.Trip) string {
	dest := destination(trip)

	var b strings.Builder
	b.WriteString("As a travel expert, please suggest some trip items (activities, accommodations, and transportation) for a trip with the following details:\n\n")
	b.WriteString(tripDetails(trip))
	b.WriteString("\n")
	if dest != "the destination" {
		fmt.Fprintf(&b, "Please provide location-specific recommendations for %s, including:\n\n", dest)
	} else {
		b.WriteString("Please provide recommendations including:\n\n")
	}
	fmt.Fprintf(&b, `Activities:
- Local attractions and experiences specific to %[1]s
- Cultural activities and events
- Popular tourist spots and hidden gems

Accommodations:
- Hotels, resorts, or vacation rentals in good locations
- Options that fit different budgets
- Places with good reviews and amenities

Transportation:
- Best ways to get around %[1]s
- Local transportation options
- Transfer suggestions from airports or between attractions

Please provide recommendations in the following format:
Activities:
- [Activity name]: [Brief description]

Accommodations:
- [Accommodation name]: [Brief description]

Transportation:
- [Transportation option]: [Brief description]

Focus on providing specific, practical suggestions that would enhance the trip experience.`, dest)
	return b.String()
}

var categoryAsks = map[types.RecommendationCategory]string{
	types.CategoryActivity: "Suggest 3 activities or experiences for this trip: local attractions, cultural experiences and things couples enjoy doing together.",
	types.CategoryHotel:    "Suggest 3 places to stay for this trip: hotels, boutique stays or vacation rentals in good locations that fit the budget.",
	types.CategoryFood:     "Suggest 3 places to eat or food experiences for this trip: restaurants, cafes, markets or local specialities worth trying.",
}

// BuildCategoryPrompt asks for a single category in the bullet format. An
// unknown category falls back to activity.
func BuildCategoryPrompt(trip types.Trip, category types.RecommendationCategory) string {
	ask, ok := categoryAsks[category]
	if !ok {
		ask = categoryAsks[types.CategoryActivity]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are helping plan a trip to %s with the following details:\n\n", destination(trip))
	b.WriteString(tripDetails(trip))
	b.WriteString("\n")
	b.WriteString(ask)
	b.WriteString("\n\nRespond with one recommendation per line, each line starting with \"- \" and following exactly this format:\n")
	b.WriteString("- [Name]: [Brief description]\n\n")
	b.WriteString("Do not number the lines and do not add headings or any other text.")
	return b.String()
}

// BuildItineraryPrompt asks for the full day-by-day plan as a JSON document.
func BuildItineraryPrompt(trip types.Trip) string {
	dest := destination(trip)
	start, end := "YYYY-MM-DD", "YYYY-MM-DD"
	if trip.StartDate != nil && *trip.StartDate != "" {
		start = *trip.StartDate
	}
	if trip.EndDate != nil && *trip.EndDate != "" {
		end = *trip.EndDate
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a detailed day-by-day itinerary for a trip to %s with the following details:\n\n", dest)
	b.WriteString(tripDetails(trip))
	b.WriteString("\nReturn the itinerary as JSON with exactly this structure:\n")
	fmt.Fprintf(&b, `{
  "destination": %q,
  "startDate": %q,
  "endDate": %q,
  "days": [
    {
      "date": "YYYY-MM-DD",
      "activities": [
        {
          "time": "HH:MM AM - HH:MM PM",
          "activity": "Activity name",
          "location": "Where it takes place",
          "description": "What to expect",
          "estimatedCost": "Approximate cost",
          "reservationNeeded": true
        }
      ]
    }
  ]
}
`, dest, start, end)
	b.WriteString(`
Rules:
- Respond with the JSON document only. No markdown, no explanations.
- Every date must use the YYYY-MM-DD format.
- Every time must use the format "HH:MM AM/PM - HH:MM AM/PM", for example "9:00 AM - 10:30 AM".
- Include one entry in "days" for every day of the trip, with 3 to 5 activities each, including meals.
- "reservationNeeded" must be a boolean.`)
	return b.String()
}
