package types

// RecommendationCategory is one of the single-category generation modes.
type RecommendationCategory string

const (
	CategoryActivity RecommendationCategory = "activity"
	CategoryHotel    RecommendationCategory = "hotel"
	CategoryFood     RecommendationCategory = "food"
)

var RecommendationCategories = []RecommendationCategory{CategoryActivity, CategoryHotel, CategoryFood}

func (c RecommendationCategory) Valid() bool {
	switch c {
	case CategoryActivity, CategoryHotel, CategoryFood:
		return true
	}
	return false
}

// ItemType is the trip item type a recommendation of this category becomes.
func (c RecommendationCategory) ItemType() ItemType {
	switch c {
	case CategoryHotel:
		return ItemTypeAccommodation
	case CategoryFood:
		return ItemTypeFood
	default:
		return ItemTypeActivity
	}
}

// Recommendation is a suggested item that has not been added to a trip.
type Recommendation struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type RecommendationsResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
}

// CategoryResult is one slot of a fan-out over all categories.
type CategoryResult struct {
	Recommendations []Recommendation `json:"recommendations"`
	Error           string           `json:"error,omitempty"`
}

type PromoteRecommendationRequest struct {
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Location    *string `json:"location,omitempty"`
}
