package models

import "encoding/json"

type AdInteraction struct {
	AdvertID  string          `json:"advert_id" db:"advert_id"`
	EventType string          `json:"event_type" db:"event_type"`
	UserID    *string         `json:"user_id,omitempty" db:"user_id"`
	Metadata  json.RawMessage `json:"metadata,omitempty" db:"metadata"`
}
