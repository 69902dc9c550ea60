package search

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed listing_schema.json
var listingSchemaJSON string

const listingSchemaURL = "listing_schema.json"

func compileListingSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(listingSchemaURL, strings.NewReader(listingSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add listing schema: %w", err)
	}
	schema, err := compiler.Compile(listingSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile listing schema: %w", err)
	}
	return schema, nil
}

// validateItem checks one raw array element against the listing schema.
func validateItem(schema *jsonschema.Schema, raw json.RawMessage) error {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("item is not valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
