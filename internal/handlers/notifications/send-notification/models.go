package sendnotification

import (
	"context"

	"station-dashboard/internal/common/logger"
	"station-dashboard/internal/fanout"
	"station-dashboard/internal/models"
	"station-dashboard/internal/segmentation"
)

const NoRecipientsMessage = "No users found for this selection"

type Input struct {
	Title         string   `json:"title"`
	Message       string   `json:"message"`
	Segment       string   `json:"segment,omitempty"`
	TargetState   string   `json:"targetState,omitempty"`
	TargetUserIDs []string `json:"targetUserIds,omitempty"`
	TargetStates  []string `json:"targetStates,omitempty"`
}

type Output struct {
	Success bool   `json:"success,omitempty"`
	Count   int    `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
}

type Resolver interface {
	Resolve(ctx context.Context, spec segmentation.TargetingSpec) ([]string, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, recipients []string, title, message string) (*fanout.Result, error)
}

type Auditor interface {
	Record(ctx context.Context, entry models.AuditEntry)
}

type ServiceDependencies struct {
	Resolver   Resolver
	Dispatcher Dispatcher
	Auditor    Auditor
	Logger     logger.Logger
}
