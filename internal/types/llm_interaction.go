package types

import (
	"github.com/google/uuid"
)

// LlmInteraction is one prompt/response exchange with the completion provider.
type LlmInteraction struct {
	UserID       uuid.UUID  `json:"user_id"`
	TripID       *uuid.UUID `json:"trip_id,omitempty"`
	Mode         string     `json:"mode"`
	Prompt       string     `json:"prompt"`
	ResponseText string     `json:"response_text"`
	ModelUsed    string     `json:"model_used"`
	LatencyMs    int        `json:"latency_ms"`
}
