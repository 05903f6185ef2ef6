package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "station-dashboard/internal/common/errors"
)

// JSONSchema is the subset of JSON Schema draft 7 used to describe request bodies.
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties"`
}

type Property struct {
	Type        string              `json:"type,omitempty"`
	Description string              `json:"description,omitempty"`
	Minimum     *float64            `json:"minimum,omitempty"`
	Maximum     *float64            `json:"maximum,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Pattern     *string             `json:"pattern,omitempty"`
	Format      string              `json:"format,omitempty"`
	MinLength   *int                `json:"minLength,omitempty"`
	MaxLength   *int                `json:"maxLength,omitempty"`
	MaxItems    *int                `json:"maxItems,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Required    []string            `json:"required,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Validator is a compiled request schema.
type Validator struct {
	schema *gojsonschema.Schema
}

func Compile(schema JSONSchema) (*Validator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// MustCompile panics on an invalid schema; schemas are package-level literals.
func MustCompile(schema JSONSchema) *Validator {
	v, err := Compile(schema)
	if err != nil {
		panic(err)
	}
	return v
}

func (v *Validator) ValidateBytes(body []byte) (*ValidationResult, error) {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, err
	}
	return toResult(result), nil
}

// Decode validates body against the schema and unmarshals it into out.
// Malformed JSON and schema violations come back as VALIDATION_FAILED errors.
func (v *Validator) Decode(body []byte, out interface{}) error {
	if len(strings.TrimSpace(string(body))) == 0 {
		return apperrors.NewValidationError("Request body is required")
	}
	if !json.Valid(body) {
		return apperrors.NewValidationError("Request body must be valid JSON")
	}

	result, err := v.ValidateBytes(body)
	if err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("Invalid request body: %v", err))
	}
	if !result.Valid {
		stdErr := apperrors.NewValidationError(result.Summary())
		stdErr.Metadata = map[string]interface{}{"errors": result.Errors}
		return stdErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("Invalid request body: %v", err))
	}
	return nil
}

// ValidateInput checks an already decoded object.
func ValidateInput(input map[string]interface{}, schema JSONSchema) *ValidationResult {
	v, err := Compile(schema)
	if err != nil {
		return &ValidationResult{Errors: []ValidationError{{Field: "(schema)", Message: err.Error(), Code: "INVALID_SCHEMA"}}}
	}
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(input))
	if err != nil {
		return &ValidationResult{Errors: []ValidationError{{Field: "(root)", Message: err.Error(), Code: "INVALID_INPUT"}}}
	}
	return toResult(result)
}

// Summary joins the first few errors into one human readable line.
func (r *ValidationResult) Summary() string {
	if r.Valid || len(r.Errors) == 0 {
		return ""
	}
	const maxShown = 3
	parts := make([]string, 0, maxShown)
	for i, e := range r.Errors {
		if i == maxShown {
			break
		}
		if e.Field == "" || e.Field == "(root)" {
			parts = append(parts, e.Message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return "Invalid request body: " + strings.Join(parts, "; ")
}

func toResult(result *gojsonschema.Result) *ValidationResult {
	out := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
			Code:    strings.ToUpper(e.Type()),
		})
	}
	return out
}

func IntPtr(i int) *int { return &i }
