package liveprices

import "station-dashboard/internal/realtime"

type Broadcaster interface {
	Register() (<-chan realtime.PriceChange, func())
}
