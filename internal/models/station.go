package models

import "time"

type Station struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Address   *string    `json:"address,omitempty" db:"address"`
	City      *string    `json:"city,omitempty" db:"city"`
	State     *string    `json:"state,omitempty" db:"state"`
	PricePMS  *float64   `json:"price_pms" db:"price_pms"`
	PriceAGO  *float64   `json:"price_ago" db:"price_ago"`
	PriceDPK  *float64   `json:"price_dpk" db:"price_dpk"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// OfficialPrice is a row of official_prices, keyed by (state, brand).
type OfficialPrice struct {
	State     string    `json:"state"`
	Brand     string    `json:"brand"`
	PMSPrice  *float64  `json:"pms_price"`
	AGOPrice  *float64  `json:"ago_price"`
	DPKPrice  *float64  `json:"dpk_price"`
	LPGPrice  *float64  `json:"lpg_price"`
	UpdatedAt time.Time `json:"updated_at"`
}
