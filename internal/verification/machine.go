// Package verification implements the manager identity-verification gate.
package verification

import (
	apperrors "station-dashboard/internal/common/errors"
	"station-dashboard/internal/models"
)

type Event string

const (
	EventUpload  Event = "upload photo"
	EventApprove Event = "approve"
	EventReject  Event = "reject"
)

// Next returns the status reached from by event.
//
//	none     -upload->  pending
//	rejected -upload->  pending
//	pending  -upload->  pending (photo replaced)
//	pending  -approve-> verified
//	pending  -reject->  rejected
//
// verified has no outgoing transitions. Anything not listed is TRANSITION_NOT_ALLOWED.
func Next(from models.VerificationStatus, event Event) (models.VerificationStatus, error) {
	switch event {
	case EventUpload:
		switch from {
		case models.VerificationNone, models.VerificationRejected, models.VerificationPending:
			return models.VerificationPending, nil
		}
	case EventApprove:
		if from == models.VerificationPending {
			return models.VerificationVerified, nil
		}
	case EventReject:
		if from == models.VerificationPending {
			return models.VerificationRejected, nil
		}
	}
	return from, apperrors.NewTransitionNotAllowedError(string(from), string(event))
}

func AllowsDashboard(status models.VerificationStatus) bool {
	return status == models.VerificationVerified
}

// DecisionEvent maps an admin decision path segment to its event.
func DecisionEvent(decision string) (Event, bool) {
	switch decision {
	case "approve":
		return EventApprove, true
	case "reject":
		return EventReject, true
	}
	return "", false
}
