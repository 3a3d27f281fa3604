package sources

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Format selects how raw payloads are decoded.
type Format int

const (
	// FormatAuto decodes JSON when the payload starts with '{' or '[',
	// YAML otherwise.
	FormatAuto Format = iota

	// FormatJSON decodes JSON.
	FormatJSON

	// FormatYAML decodes YAML.
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "auto"
	}
}

// validate is the shared validator instance.
var validate = validator.New()

// decode unmarshals data into a T and validates it when T is a struct or a
// pointer to one.
func decode[T any](data []byte, format Format) (T, error) {
	var v T
	if err := unmarshal(data, &v, format); err != nil {
		return v, err
	}
	if err := validateValue(v); err != nil {
		return v, fmt.Errorf("validation failed: %w", err)
	}
	return v, nil
}

func unmarshal(data []byte, v any, format Format) error {
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("expected JSON: %w", err)
		}
		return nil

	case FormatYAML:
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("expected YAML: %w", err)
		}
		return nil

	default:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
			return json.Unmarshal(data, v)
		}
		return yaml.Unmarshal(data, v)
	}
}

func validateValue(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	return validate.Struct(v)
}
