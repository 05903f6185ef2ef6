package adinteraction

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"

	apperrors "station-dashboard/internal/common/errors"
	"station-dashboard/internal/models"
)

func (i Input) validate(maxEventTypeLen int) error {
	err := ozzo.ValidateStruct(&i,
		ozzo.Field(&i.AdvertID, ozzo.Required),
		ozzo.Field(&i.EventType, ozzo.Required, ozzo.Length(1, maxEventTypeLen)),
	)
	if err == nil {
		return nil
	}

	var fieldErrs ozzo.Errors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			var eo ozzo.Error
			if errors.As(fe, &eo) && eo.Code() == ozzo.ErrRequired.Code() {
				return apperrors.NewValidationError(MissingFieldsMessage)
			}
		}
	}
	return apperrors.NewValidationError(err.Error())
}

// falsy reports the JSON values a loose client treats as "not provided".
func falsy(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "false", "0", `""`:
		return true
	}
	return false
}

func (i Input) toEvent() models.AdInteraction {
	ev := models.AdInteraction{
		AdvertID:  strings.TrimSpace(i.AdvertID),
		EventType: strings.TrimSpace(i.EventType),
	}
	if uid := strings.TrimSpace(i.UserID); uid != "" {
		ev.UserID = &uid
	}
	if !falsy(i.Metadata) {
		ev.Metadata = i.Metadata
	}
	return ev
}

func parseInput(body []byte, maxEventTypeLen int) (*Input, error) {
	if strings.TrimSpace(string(body)) == "" {
		return nil, apperrors.NewValidationError(MissingFieldsMessage)
	}

	var raw struct {
		AdvertID  interface{}     `json:"advert_id"`
		EventType interface{}     `json:"event_type"`
		UserID    interface{}     `json:"user_id"`
		Metadata  json.RawMessage `json:"metadata"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, apperrors.NewValidationError("Request body must be a JSON object")
	}

	input := &Input{
		AdvertID:  scalar(raw.AdvertID),
		EventType: scalar(raw.EventType),
		UserID:    scalar(raw.UserID),
		Metadata:  raw.Metadata,
	}
	if err := input.validate(maxEventTypeLen); err != nil {
		return nil, err
	}
	return input, nil
}

// scalar accepts ids sent either as strings or as numbers.
func scalar(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
