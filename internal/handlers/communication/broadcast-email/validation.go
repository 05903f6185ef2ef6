package broadcastemail

import "station-dashboard/internal/common/validation"

// GetInputSchema leaves recipient entries untyped. A malformed entry is counted as a failed
// send instead of rejecting the batch, and a null or missing name falls back to the generic greeting.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"recipients": {
				Type:        "array",
				Description: "Recipients as {email, name}",
				Items:       &validation.Property{},
			},
			"subject": {
				Type:      "string",
				MaxLength: validation.IntPtr(300),
			},
			"message": {
				Type:      "string",
				MaxLength: validation.IntPtr(20000),
			},
		},
		AdditionalProperties: false,
	}
}
