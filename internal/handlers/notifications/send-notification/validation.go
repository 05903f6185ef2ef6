package sendnotification

import "station-dashboard/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"title": {
				Type:        "string",
				Description: "Notification title",
				MaxLength:   validation.IntPtr(200),
			},
			"message": {
				Type:        "string",
				Description: "Notification body",
				MaxLength:   validation.IntPtr(5000),
			},
			"segment": {
				Type:        "string",
				Description: "Named segment: all, specific-state or specific-user",
			},
			"targetState": {
				Type:        "string",
				Description: "State for the specific-state segment",
			},
			"targetUserIds": {
				Type:        "array",
				Description: "Explicit recipient ids",
				Items:       &validation.Property{Type: "string"},
			},
			"targetStates": {
				Type:        "array",
				Description: "States matched against the profile city",
				Items:       &validation.Property{Type: "string"},
			},
		},
		AdditionalProperties: false,
	}
}
