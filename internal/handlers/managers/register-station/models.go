package registerstation

import (
	"context"

	"station-dashboard/internal/models"
)

type Input struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	StationID   int64  `json:"stationId"`
}

type Output struct {
	Profile *models.ManagerProfile `json:"profile"`
	Station *models.Station        `json:"station"`
}

type ManagerStore interface {
	Register(ctx context.Context, m *models.ManagerProfile) (*models.ManagerProfile, bool, error)
}

type StationStore interface {
	Get(ctx context.Context, id int64) (*models.Station, error)
}
