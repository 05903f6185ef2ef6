package managerstation

import (
	"context"
	"time"

	"station-dashboard/internal/models"
)

// Output is the verified manager's station with its current pump prices.
type Output struct {
	StationID int64      `json:"stationId"`
	Name      string     `json:"name"`
	Address   *string    `json:"address,omitempty"`
	City      *string    `json:"city,omitempty"`
	State     *string    `json:"state,omitempty"`
	IsActive  bool       `json:"isActive"`
	Prices    Prices     `json:"prices"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	Manager   string     `json:"manager"`
}

type Prices struct {
	PMS *float64 `json:"pms"`
	AGO *float64 `json:"ago"`
	DPK *float64 `json:"dpk"`
}

type ManagerStore interface {
	Get(ctx context.Context, id string) (*models.ManagerProfile, error)
}

type StationStore interface {
	Get(ctx context.Context, id int64) (*models.Station, error)
}

func toOutput(m *models.ManagerProfile, s *models.Station) Output {
	return Output{
		StationID: s.ID,
		Name:      s.Name,
		Address:   s.Address,
		City:      s.City,
		State:     s.State,
		IsActive:  s.IsActive,
		Prices:    Prices{PMS: s.PricePMS, AGO: s.PriceAGO, DPK: s.PriceDPK},
		UpdatedAt: s.UpdatedAt,
		Manager:   m.FullName,
	}
}
