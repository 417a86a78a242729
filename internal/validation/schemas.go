// Package validation checks inbound recipe payloads against embedded JSON
// schemas before they reach the catalog.
package validation

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

const recipeIngestionSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "RecipeIngestionRequest",
	"type": "object",
	"required": ["title", "instructions", "ingredients"],
	"additionalProperties": false,
	"properties": {
		"title": {
			"type": "string",
			"minLength": 1,
			"maxLength": 200
		},
		"instructions": {
			"type": "string",
			"minLength": 1
		},
		"dietary_tags": {
			"type": "array",
			"items": {
				"type": "string",
				"minLength": 1,
				"maxLength": 50
			},
			"uniqueItems": true
		},
		"ingredients": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["name"],
				"additionalProperties": false,
				"properties": {
					"name": {
						"type": "string",
						"minLength": 1,
						"maxLength": 100
					},
					"amount": {
						"type": "string",
						"maxLength": 50
					}
				}
			}
		}
	}
}`

const interactionSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "RecipeInteraction",
	"type": "object",
	"required": ["recipe_id", "interaction_type"],
	"properties": {
		"recipe_id": {
			"type": "integer",
			"minimum": 1
		},
		"interaction_type": {
			"type": "string",
			"enum": ["view", "favorite", "cook"]
		}
	}
}`

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

// SchemaValidator holds the compiled schemas for API request payloads.
type SchemaValidator struct {
	schemas map[string]*gojsonschema.Schema
}

func NewSchemaValidator() (*SchemaValidator, error) {
	sources := map[string]string{
		"recipe-ingestion": recipeIngestionSchema,
		"interaction":      interactionSchema,
	}

	sv := &SchemaValidator{schemas: make(map[string]*gojsonschema.Schema, len(sources))}
	for name, source := range sources {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		sv.schemas[name] = schema
	}
	return sv, nil
}

// ValidateRecipeIngestion validates a recipe ingestion payload.
func (sv *SchemaValidator) ValidateRecipeIngestion(data interface{}) *ValidationResult {
	return sv.validate("recipe-ingestion", data)
}

// ValidateInteraction validates an interaction payload.
func (sv *SchemaValidator) ValidateInteraction(data interface{}) *ValidationResult {
	return sv.validate("interaction", data)
}

func (sv *SchemaValidator) validate(schemaName string, data interface{}) *ValidationResult {
	schema, exists := sv.schemas[schemaName]
	if !exists {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "schema",
				Message: fmt.Sprintf("Schema '%s' not found", schemaName),
			}},
		}
	}

	var documentLoader gojsonschema.JSONLoader
	switch v := data.(type) {
	case string:
		documentLoader = gojsonschema.NewStringLoader(v)
	case []byte:
		documentLoader = gojsonschema.NewBytesLoader(v)
	default:
		jsonBytes, err := json.Marshal(data)
		if err != nil {
			return &ValidationResult{
				Valid: false,
				Errors: []ValidationError{{
					Field:   "data",
					Message: fmt.Sprintf("Failed to marshal data to JSON: %v", err),
				}},
			}
		}
		documentLoader = gojsonschema.NewBytesLoader(jsonBytes)
	}

	result, err := schema.Validate(documentLoader)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "validation",
				Message: err.Error(),
			}},
		}
	}

	validationResult := &ValidationResult{
		Valid:  result.Valid(),
		Errors: make([]ValidationError, 0),
	}
	for _, validationErr := range result.Errors() {
		validationResult.Errors = append(validationResult.Errors, ValidationError{
			Field:   validationErr.Field(),
			Message: validationErr.Description(),
		})
	}
	return validationResult
}
