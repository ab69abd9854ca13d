package types

type Attraction struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	Type              string `json:"type"`
	EstimatedDuration string `json:"estimatedDuration,omitempty"`
	BestTimeToVisit   string `json:"bestTimeToVisit,omitempty"`
}

type PlacesRequest struct {
	Destination string `json:"destination"`
}

type PlacesResponse struct {
	Places []Attraction `json:"places"`
}
