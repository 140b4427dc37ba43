// Package yamlfile loads the game catalog from YAML, checking its shape
// against an embedded JSON schema before decoding.
package yamlfile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"idlerpg/internal/domain/catalog"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

var ErrSchema = errors.New("catalog schema violation")

//go:embed catalog.schema.json
var schemaJSON []byte

const schemaURL = "https://idlerpg.local/catalog.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add catalog schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Load reads and parses the catalog at path.
func Load(path string) (*catalog.Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cat, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Parse validates raw against the schema, decodes it, fills ids and checks
// cross references. The returned catalog is ready for idle.New.
func Parse(raw []byte) (*catalog.Catalog, error) {
	if err := validateShape(raw); err != nil {
		return nil, err
	}
	var cat catalog.Catalog
	if err := yaml.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	cat.Index()
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

func validateShape(raw []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode catalog: %w", err)
	}
	// The validator expects encoding/json value types.
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return nil
}
