package profile

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/NightNord/odis2vcp/constants"
)

// BuildProfileJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map describing a batch run profile.
func BuildProfileJSONSchema() map[string]any {
	pathList := map[string]any{
		"type":     "array",
		"minItems": 1,
		"items":    map[string]any{"type": "string", "minLength": 1},
	}

	props := map[string]any{
		"description":  map[string]any{"type": "string", "minLength": 1},
		"format":       map[string]any{"type": "string", "enum": constants.OutputFormats},
		"inputs":       pathList,
		"roots":        pathList,
		"include_exts": map[string]any{"type": "array", "items": map[string]any{"type": "string", "minLength": 1}},
		"skip_hidden":  map[string]any{"type": "boolean"},
		"report":       map[string]any{"type": "string"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"description"},
		// A batch needs something to convert: explicit inputs, scan roots, or both.
		"anyOf": []any{
			map[string]any{"required": []string{"inputs"}},
			map[string]any{"required": []string{"roots"}},
		},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
