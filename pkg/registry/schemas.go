package registry

import (
	"errors"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateConfig checks a step's raw config payload against a factory's
// JSON schema. A nil schema accepts anything; a nil config validates as an
// empty object.
func ValidateConfig(schema map[string]any, config map[string]any) error {
	if schema == nil {
		return nil
	}

	if config == nil {
		config = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(config),
	)
	if err != nil {
		return err
	}

	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}

	return errors.New(strings.Join(details, "; "))
}
