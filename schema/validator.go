// Package schema validates a template's render globals against a
// caller-supplied JSON Schema before interpretation begins, an optional
// guard rail absent from the core pipeline. Grounded on
// opal-lang-opal/core/types/validation.go's Validator.ValidateParams,
// trimmed to weave's narrower need (one schema, one value, no
// remote-$ref or custom-format machinery).
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/aledsdavies/weave/value"
)

// maxSchemaBytes bounds the marshaled size of a caller-supplied schema,
// mirroring the size guard in opal-lang-opal/core/types/validation.go.
const maxSchemaBytes = 1 << 20

// Validator compiles and caches a single JSON Schema, then checks
// render globals against it.
type Validator struct {
	compiled *jsonschema.Schema
}

// New compiles schemaDoc (a JSON Schema as a Go map, e.g. decoded from
// JSON text) into a reusable Validator.
func New(schemaDoc map[string]interface{}) (*Validator, error) {
	raw, err := json.Marshal(schemaDoc)
	if err != nil {
		return nil, fmt.Errorf("schema: marshal failed: %w", err)
	}
	if len(raw) > maxSchemaBytes {
		return nil, fmt.Errorf("schema: too large: %d bytes (max %d)", len(raw), maxSchemaBytes)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	const url = "weave://globals.json"
	if err := compiler.AddResource(url, strings.NewReader(string(raw))); err != nil {
		return nil, fmt.Errorf("schema: invalid schema: %w", err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("schema: compile failed: %w", err)
	}
	return &Validator{compiled: compiled}, nil
}

// Validate checks v's native JSON-ish form against the compiled schema.
func (val *Validator) Validate(v value.Value) error {
	if err := val.compiled.Validate(v.Native()); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			return fmt.Errorf("schema: globals failed validation: %w", ve)
		}
		return fmt.Errorf("schema: globals failed validation: %w", err)
	}
	return nil
}
