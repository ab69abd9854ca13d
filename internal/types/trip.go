package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DateLayout is the wire format for trip and itinerary day dates.
	DateLayout = "2006-01-02"
	// LocalDateTimeLayout is the wire format for trip item datetimes. No offset: the
	// value is a wall-clock time at the destination.
	LocalDateTimeLayout = "2006-01-02T15:04:05"
)

// Trip dates are YYYY-MM-DD strings on the wire.
type Trip struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description,omitempty"`
	Location      *string   `json:"location,omitempty"`
	Budget        *float64  `json:"budget,omitempty"`
	TravelPartner *string   `json:"travel_partner,omitempty"`
	StartDate     *string   `json:"start_date,omitempty"`
	EndDate       *string   `json:"end_date,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TripRequest is the body for both creating and replacing a trip.
type TripRequest struct {
	Title         string   `json:"title"`
	Description   *string  `json:"description,omitempty"`
	Location      *string  `json:"location,omitempty"`
	Budget        *float64 `json:"budget,omitempty"`
	TravelPartner *string  `json:"travel_partner,omitempty"`
	StartDate     *string  `json:"start_date,omitempty"`
	EndDate       *string  `json:"end_date,omitempty"`
}

type InvitePartnerRequest struct {
	Email string `json:"email"`
}

// TripInvite is recorded but never delivered; partners get no shared access.
type TripInvite struct {
	ID           uuid.UUID `json:"id"`
	TripID       uuid.UUID `json:"trip_id"`
	InvitedBy    uuid.UUID `json:"invited_by"`
	PartnerEmail string    `json:"partner_email"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

const InviteStatusPending = "pending"
