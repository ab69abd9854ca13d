package types

import (
	"time"

	"github.com/google/uuid"
)

type ItemType string

const (
	ItemTypeActivity       ItemType = "activity"
	ItemTypeAccommodation  ItemType = "accommodation"
	ItemTypeTransportation ItemType = "transportation"
	ItemTypeFood           ItemType = "food"
)

// NormalizeItemType maps anything outside the known set to activity.
func NormalizeItemType(s string) ItemType {
	switch t := ItemType(s); t {
	case ItemTypeActivity, ItemTypeAccommodation, ItemTypeTransportation, ItemTypeFood:
		return t
	default:
		return ItemTypeActivity
	}
}

// TripItem datetimes use LocalDateTimeLayout on the wire.
type TripItem struct {
	ID            uuid.UUID `json:"id"`
	TripID        uuid.UUID `json:"trip_id"`
	Type          ItemType  `json:"type"`
	Title         string    `json:"title"`
	Description   *string   `json:"description,omitempty"`
	Location      *string   `json:"location,omitempty"`
	StartDatetime *string   `json:"start_datetime,omitempty"`
	EndDatetime   *string   `json:"end_datetime,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type TripItemRequest struct {
	Type          string  `json:"type"`
	Title         string  `json:"title"`
	Description   *string `json:"description,omitempty"`
	Location      *string `json:"location,omitempty"`
	StartDatetime *string `json:"start_datetime,omitempty"`
	EndDatetime   *string `json:"end_datetime,omitempty"`
}

// DaySchedule groups a trip's items by the calendar day they start on. Date is
// empty for the group of items without a start.
type DaySchedule struct {
	Day   int        `json:"day,omitempty"`
	Date  string     `json:"date,omitempty"`
	Items []TripItem `json:"items"`
}
