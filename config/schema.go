package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/felixarntz/wpdlib/errors"
)

//go:embed manifest.schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	schemaErr      error
)

// Schema returns the JSON Schema manifests are checked against
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

func manifestSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	})
	return compiledSchema, schemaErr
}

// ValidateJSON checks a JSON manifest document against the schema
func ValidateJSON(data []byte) error {
	return validateDocument(gojsonschema.NewBytesLoader(data))
}

// ValidateDocument checks a decoded manifest document against the schema.
// YAML mappings with non-string keys are accepted.
func ValidateDocument(doc any) error {
	return validateDocument(gojsonschema.NewGoLoader(normalizeDocument(doc)))
}

func validateDocument(doc gojsonschema.JSONLoader) error {
	schema, err := manifestSchema()
	if err != nil {
		return errors.WrapFatal(err, "config", "ValidateDocument", "compile schema")
	}
	result, err := schema.Validate(doc)
	if err != nil {
		return errors.WrapInvalid(fmt.Errorf("%w: %v", errors.ErrParsingFailed, err),
			"config", "ValidateDocument", "load document")
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return errors.WrapInvalid(fmt.Errorf("%w: %s", errors.ErrSchemaMismatch, strings.Join(msgs, "; ")),
		"config", "ValidateDocument", "validate manifest")
}

// normalizeDocument turns map[any]any values into map[string]any so the
// document can be encoded as JSON.
func normalizeDocument(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeDocument(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeDocument(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeDocument(val)
		}
		return out
	}
	return v
}
