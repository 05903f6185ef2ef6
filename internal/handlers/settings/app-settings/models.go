package appsettings

import (
	"context"
	"encoding/json"

	"station-dashboard/internal/models"
)

const MissingKeyOrValueMessage = "Missing key or value"

// Input is a POST body. Value stays raw so false, 0, "" and null survive as given.
type Input struct {
	Key   string
	Value json.RawMessage
}

// NotFoundOutput is the 404 body for an unknown key.
type NotFoundOutput struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

type Store interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	List(ctx context.Context) ([]models.Setting, error)
	Upsert(ctx context.Context, key string, value json.RawMessage) (*models.Setting, error)
}

type Auditor interface {
	Record(ctx context.Context, entry models.AuditEntry)
}
