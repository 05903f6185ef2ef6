// Package sendnotification resolves a targeting request and fans one notification out per recipient.
package sendnotification

import (
	"context"

	"station-dashboard/internal/common/logger"
	"station-dashboard/internal/fanout"
	"station-dashboard/internal/models"
	"station-dashboard/internal/segmentation"
)

type Service struct {
	resolver   Resolver
	dispatcher Dispatcher
	auditor    Auditor
	logger     logger.Logger
}

func NewService(deps ServiceDependencies) *Service {
	return &Service{
		resolver:   deps.Resolver,
		dispatcher: deps.Dispatcher,
		auditor:    deps.Auditor,
		logger:     deps.Logger,
	}
}

func (s *Service) Execute(ctx context.Context, adminID string, input *Input) (*Output, error) {
	if err := fanout.ValidateMessage(input.Title, input.Message); err != nil {
		return nil, err
	}

	spec, err := segmentation.FromRequest(segmentation.Request{
		Segment:       input.Segment,
		TargetState:   input.TargetState,
		TargetUserIDs: input.TargetUserIDs,
		TargetStates:  input.TargetStates,
	})
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	recipients, err := s.resolver.Resolve(ctx, spec)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		s.logger.Info("No recipients matched", map[string]interface{}{
			"kind":   spec.Kind,
			"values": spec.Values,
		})
		return &Output{Message: NoRecipientsMessage}, nil
	}

	result, err := s.dispatcher.Dispatch(ctx, recipients, input.Title, input.Message)
	if err != nil {
		return nil, err
	}

	if s.auditor != nil {
		s.auditor.Record(ctx, models.AuditEntry{
			AdminID:     adminID,
			ActionType:  models.AuditSendNotification,
			TargetTable: "notifications",
			Details: map[string]interface{}{
				"title":  input.Title,
				"kind":   string(spec.Kind),
				"values": spec.Values,
				"count":  result.InsertedCount,
			},
		})
	}

	return &Output{Success: true, Count: result.InsertedCount}, nil
}
