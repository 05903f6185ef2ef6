package adinteraction

import (
	"context"
	"encoding/json"

	"station-dashboard/internal/models"
)

const MissingFieldsMessage = "Missing required fields"

type Input struct {
	AdvertID  string          `json:"advert_id"`
	EventType string          `json:"event_type"`
	UserID    string          `json:"user_id,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

type Output struct {
	Success bool `json:"success"`
}

type Store interface {
	Insert(ctx context.Context, ev models.AdInteraction) error
}
