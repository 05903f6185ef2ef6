package registerstation

import (
	"regexp"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"

	apperrors "station-dashboard/internal/common/errors"
	"station-dashboard/internal/common/validation"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,19}$`)

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"fullName":    {Type: "string"},
			"phoneNumber": {Type: "string"},
			"stationId":   {Type: "integer"},
		},
		Required: []string{"fullName", "phoneNumber", "stationId"},
	}
}

func (i *Input) normalize() {
	i.FullName = strings.TrimSpace(i.FullName)
	i.PhoneNumber = strings.TrimSpace(i.PhoneNumber)
}

func (i *Input) validate(cfg *Config) error {
	err := ozzo.ValidateStruct(i,
		ozzo.Field(&i.FullName, ozzo.Required, ozzo.RuneLength(2, cfg.MaxNameChars)),
		ozzo.Field(&i.PhoneNumber, ozzo.Required, ozzo.Match(phonePattern).Error("must be a valid phone number")),
		ozzo.Field(&i.StationID, ozzo.Required, ozzo.Min(int64(1))),
	)
	if err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	return nil
}
