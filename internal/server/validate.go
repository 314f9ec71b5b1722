// internal/server/validate.go
package server

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const queryRequestSchema = `{
	"type": "object",
	"required": ["query"],
	"properties": {
		"query": {"type": "string"},
		"conversation_history": {"type": "array"}
	},
	"additionalProperties": false
}`

var queryRequestLoader = gojsonschema.NewStringLoader(queryRequestSchema)

// validateQueryRequest checks the raw request body against the query schema
// before it is decoded.
func validateQueryRequest(body []byte) error {
	result, err := gojsonschema.Validate(queryRequestLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("request is not valid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var issues []string
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return fmt.Errorf("invalid request: %s", strings.Join(issues, "; "))
}
