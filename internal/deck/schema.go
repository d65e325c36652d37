package deck

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// templateSchemaDef is the JSON Schema the backend's template payload must
// conform to before it is trusted and cached.
const templateSchemaDef = `{
	"type": "object",
	"required": ["version", "title", "sections"],
	"properties": {
		"version": {"type": "integer", "minimum": 1},
		"title": {"type": "string"},
		"sections": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["title", "items"],
				"properties": {
					"title": {"type": "string"},
					"page_start": {"type": "integer", "minimum": 0},
					"page_end": {"type": "integer", "minimum": 0},
					"items": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["term"],
							"properties": {
								"term": {"type": "string", "minLength": 1},
								"definition": {"type": "string"},
								"source_excerpt": {"type": "string"},
								"page": {"type": "integer", "minimum": 0},
								"ordinal": {"type": "integer", "minimum": 0}
							}
						}
					}
				}
			}
		},
		"toc": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"title": {"type": "string"},
					"page_start": {"type": "integer"},
					"page_end": {"type": "integer"},
					"ordinal_first": {"type": "integer"}
				}
			}
		}
	}
}`

var (
	templateSchemaOnce sync.Once
	templateSchema     *jsonschema.Schema
	templateSchemaErr  error
)

// compiledTemplateSchema compiles the template schema on first use.
func compiledTemplateSchema() (*jsonschema.Schema, error) {
	templateSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(templateSchemaDef))
		if err != nil {
			templateSchemaErr = fmt.Errorf("parse template schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://deck-template.json", doc); err != nil {
			templateSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		templateSchema, templateSchemaErr = c.Compile("schema://deck-template.json")
	})
	return templateSchema, templateSchemaErr
}

// ParseTemplate validates raw JSON against the template schema, decodes it,
// and normalizes the result. Payloads that fail validation are rejected
// rather than cached in a half-usable state.
func ParseTemplate(raw json.RawMessage) (*Template, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("invalid template JSON: %w", err)
	}

	schema, err := compiledTemplateSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("template schema validation failed: %w", err)
	}

	var t Template
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode template: %w", err)
	}
	t.Normalize()
	return &t, nil
}
