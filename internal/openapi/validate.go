package openapi

import (
	"bytes"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidateAgainstMetaSchema checks raw against a caller-supplied OpenAPI
// meta-schema (JSON Schema draft-2020-12 shaped, as published for OpenAPI
// 3.1), delegating the structural walk to
// github.com/santhosh-tekuri/jsonschema/v5 rather than re-implementing
// oneOf/allOf/anyOf/not combinator checking twice in this codebase — the
// teacher (validate.go) takes exactly this approach for the same reason.
func ValidateAgainstMetaSchema(metaSchema, raw []byte) error {
	compiler := jsonschema.NewCompiler()
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(metaSchema))
	if err != nil {
		return fmt.Errorf("openapi: decoding meta-schema: %w", err)
	}
	const resourceURL = "openapi-meta-schema.json"
	if err := compiler.AddResource(resourceURL, doc); err != nil {
		return fmt.Errorf("openapi: loading meta-schema: %w", err)
	}
	schema, err := compiler.Compile(resourceURL)
	if err != nil {
		return fmt.Errorf("openapi: compiling meta-schema: %w", err)
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("openapi: decoding document: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("openapi: document does not conform to meta-schema: %w", err)
	}
	return nil
}
