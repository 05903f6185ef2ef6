package appsettings

import (
	"encoding/json"
	"regexp"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"

	apperrors "station-dashboard/internal/common/errors"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.\-]*$`)

func keyRules(maxLen int) []ozzo.Rule {
	return []ozzo.Rule{
		ozzo.Required.Error(MissingKeyOrValueMessage),
		ozzo.Length(1, maxLen),
		ozzo.Match(keyPattern).Error("must contain only letters, digits, '.', '_' or '-'"),
	}
}

// ValidateKey is used for both the GET query parameter and the POST body.
func ValidateKey(key string, maxLen int) error {
	if err := ozzo.Validate(key, keyRules(maxLen)...); err != nil {
		if err.Error() == MissingKeyOrValueMessage {
			return apperrors.NewValidationError(MissingKeyOrValueMessage)
		}
		return apperrors.NewValidationError("key " + err.Error())
	}
	return nil
}

// ParseInput decides presence on the raw members: only an absent value is missing.
func ParseInput(body []byte, maxKeyLen int) (*Input, error) {
	if strings.TrimSpace(string(body)) == "" {
		return nil, apperrors.NewValidationError(MissingKeyOrValueMessage)
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(body, &members); err != nil || members == nil {
		return nil, apperrors.NewValidationError("Request body must be a JSON object")
	}

	rawKey, hasKey := members["key"]
	value, hasValue := members["value"]
	if !hasKey || !hasValue {
		return nil, apperrors.NewValidationError(MissingKeyOrValueMessage)
	}

	var key string
	if err := json.Unmarshal(rawKey, &key); err != nil {
		return nil, apperrors.NewValidationError("key must be a string")
	}
	if err := ValidateKey(key, maxKeyLen); err != nil {
		return nil, err
	}

	return &Input{Key: key, Value: value}, nil
}
