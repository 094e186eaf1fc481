package ir

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kaptinlin/jsonschema"

	"partdoc/internal/errors"
)

//go:embed ir_v1.schema.json
var schemaV1 []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		schema, schemaErr = compiler.Compile(schemaV1)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile IR schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// Marshal serializes the IR to indented JSON after validating it against
// the embedded v1 schema. A schema violation means an extraction bug, not
// bad user input.
func Marshal(doc IR) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.EInternal, "marshal IR", err)
	}
	if err := ValidateJSON(data); err != nil {
		return nil, err
	}
	return data, nil
}

// ValidateJSON checks raw IR JSON against the embedded v1 schema.
func ValidateJSON(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return errors.Wrap(errors.EInternal, "IR schema unavailable", err)
	}
	result := s.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}
	return errors.NewWithDetails(errors.EIRInvalid, "extracted IR does not conform to schema v1", map[string]string{
		"violations": fmt.Sprintf("%v", result.Errors),
	})
}

// Unmarshal parses and schema-checks persisted ir.json.
func Unmarshal(data []byte) (IR, error) {
	if err := ValidateJSON(data); err != nil {
		return IR{}, err
	}
	var doc IR
	if err := json.Unmarshal(data, &doc); err != nil {
		return IR{}, errors.Wrap(errors.EIRInvalid, "parse ir.json", err)
	}
	return doc, nil
}
