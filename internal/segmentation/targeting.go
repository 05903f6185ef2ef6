// Package segmentation turns a targeting request into a concrete list of recipient ids.
package segmentation

import (
	"fmt"
	"strings"

	apperrors "station-dashboard/internal/common/errors"
)

type Kind string

const (
	KindAll       Kind = "all"
	KindByStates  Kind = "by_states"
	KindByUserIDs Kind = "by_user_ids"
	KindNone      Kind = "none"
)

// Named segments accepted by the send-notification endpoint.
const (
	SegmentAll           = "all"
	SegmentSpecificState = "specific-state"
	SegmentSpecificUser  = "specific-user"
)

// TargetingSpec selects recipients. Values holds the states or user ids for the
// ByStates and ByUserIDs kinds and is empty for All and None.
type TargetingSpec struct {
	Kind   Kind
	Values []string
}

func All() TargetingSpec {
	return TargetingSpec{Kind: KindAll}
}

// None matches no recipients.
func None() TargetingSpec {
	return TargetingSpec{Kind: KindNone}
}

func ByStates(states ...string) TargetingSpec {
	return TargetingSpec{Kind: KindByStates, Values: normalize(states)}
}

func ByUserIDs(ids ...string) TargetingSpec {
	return TargetingSpec{Kind: KindByUserIDs, Values: normalize(ids)}
}

// Validate rejects set-valued specs that carry no elements.
func (s TargetingSpec) Validate() error {
	switch s.Kind {
	case KindAll, KindNone:
		return nil
	case KindByStates:
		if len(s.Values) == 0 {
			return apperrors.NewValidationError("At least one target state is required")
		}
	case KindByUserIDs:
		if len(s.Values) == 0 {
			return apperrors.NewValidationError("At least one target user id is required")
		}
	default:
		return apperrors.NewValidationError(fmt.Sprintf("Unknown targeting kind %q", s.Kind))
	}
	return nil
}

// Request is the targeting part of a send-notification body.
type Request struct {
	Segment       string
	TargetState   string
	TargetUserIDs []string
	TargetStates  []string
}

// FromRequest applies the precedence explicit ids, then states, then named segment, then all.
// A non-empty list wins its slot even when every entry is blank; it then matches nobody
// rather than widening to a later rule.
func FromRequest(req Request) (TargetingSpec, error) {
	if len(req.TargetUserIDs) > 0 {
		return explicit(ByUserIDs(req.TargetUserIDs...)), nil
	}
	if len(req.TargetStates) > 0 {
		return explicit(ByStates(req.TargetStates...)), nil
	}

	switch strings.TrimSpace(req.Segment) {
	case "", SegmentAll:
		return All(), nil
	case SegmentSpecificState:
		if strings.TrimSpace(req.TargetState) == "" {
			return ByStates(), nil
		}
		return ByStates(req.TargetState), nil
	case SegmentSpecificUser:
		return ByUserIDs(), nil
	default:
		return TargetingSpec{}, apperrors.NewValidationError(fmt.Sprintf("Unknown segment %q", req.Segment))
	}
}

func explicit(spec TargetingSpec) TargetingSpec {
	if len(spec.Values) == 0 {
		return None()
	}
	return spec
}

// normalize trims, drops blanks and removes duplicates while keeping first-seen order.
func normalize(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
