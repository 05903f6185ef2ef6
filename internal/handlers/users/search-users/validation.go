package searchusers

import "station-dashboard/internal/common/validation"

func GetInputSchema(cfg *Config) validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"q": {
				Type:        "string",
				Description: "Matched against full name, email and phone number",
				MaxLength:   validation.IntPtr(cfg.MaxTermChars),
			},
		},
	}
}
