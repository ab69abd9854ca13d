package planner

import (
	"encoding/json"
	"errors"

	"github.com/FACorreiaa/go-trip-planner/internal/extract"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// ParseItinerary turns a model response into a GeneratedItinerary. The response
// must be a JSON document on its own; surrounding prose is not stripped. When it
// is not, Content holds the raw text verbatim, the metadata comes from the trip
// and a non-nil ParseDegradation describes why.
func ParseItinerary(raw string, trip types.Trip) (types.GeneratedItinerary, *types.ParseDegradation) {
	fallback := types.GeneratedItinerary{
		Destination: deref(trip.Location),
		StartDate:   deref(trip.StartDate),
		EndDate:     deref(trip.EndDate),
		Content:     raw,
	}

	doc, err := decodeItinerary(raw)
	if err != nil {
		return fallback, &types.ParseDegradation{Reason: err, RawLength: len(raw)}
	}

	if doc.Destination == "" {
		doc.Destination = fallback.Destination
	}
	if doc.StartDate == "" {
		doc.StartDate = fallback.StartDate
	}
	if doc.EndDate == "" {
		doc.EndDate = fallback.EndDate
	}
	if doc.Days == nil {
		doc.Days = []types.DayPlan{}
	}
	for i := range doc.Days {
		if doc.Days[i].Activities == nil {
			doc.Days[i].Activities = []types.ActivityPlan{}
		}
	}

	pretty, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fallback, &types.ParseDegradation{Reason: err, RawLength: len(raw)}
	}

	return types.GeneratedItinerary{
		Destination: doc.Destination,
		StartDate:   doc.StartDate,
		EndDate:     doc.EndDate,
		Content:     string(pretty),
	}, nil
}

// DecodeItineraryContent re-parses stored content. ok is false for raw-text
// itineraries, which have no day breakdown.
func DecodeItineraryContent(content string) (doc types.ItineraryDocument, ok bool) {
	doc, err := decodeItinerary(content)
	return doc, err == nil
}

var errEmptyItinerary = errors.New("itinerary document has no fields set")

func decodeItinerary(raw string) (types.ItineraryDocument, error) {
	res := extract.Strict[types.ItineraryDocument](raw)
	if !res.IsStructured() {
		return types.ItineraryDocument{}, res.Err
	}
	doc := res.Value
	if doc.Destination == "" && doc.StartDate == "" && doc.EndDate == "" && doc.Days == nil {
		return types.ItineraryDocument{}, errEmptyItinerary
	}
	return doc, nil
}

// NewItineraryView exposes the day breakdown when the content has one.
func NewItineraryView(gen types.GeneratedItinerary) types.ItineraryView {
	view := types.ItineraryView{GeneratedItinerary: gen}
	if doc, ok := DecodeItineraryContent(gen.Content); ok {
		view.Structured = true
		view.Days = doc.Days
	}
	return view
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
