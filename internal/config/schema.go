package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

const schemaURL = "harness.schema.json"

//go:embed harness.schema.json
var schemaData []byte

var (
	configSchema *jsonschema.Schema
	compileOnce  sync.Once
	compileErr   error
)

func compileSchema() error {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaData))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal config schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add config schema resource: %w", err)
			return
		}
		configSchema, err = compiler.Compile(schemaURL)
		if err != nil {
			compileErr = fmt.Errorf("compile config schema: %w", err)
		}
	})
	return compileErr
}

// ValidateDocument checks a YAML config document against the embedded schema.
// An empty document is valid.
func ValidateDocument(data []byte) error {
	if err := compileSchema(); err != nil {
		return err
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}
	if raw == nil {
		return nil
	}

	// Round-trip through JSON so the validator sees JSON types only.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("config is not representable as JSON: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := configSchema.Validate(doc); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
