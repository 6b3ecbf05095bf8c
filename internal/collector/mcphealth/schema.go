package mcphealth

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/indranilbora/agentpulse/pkg/logger"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

var schemaLog = logger.New("collector:mcphealth:schema")

//go:embed schemas/mcp_config_schema.json
var mcpConfigSchemaJSON string

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func getCompiledSchema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		compiledSchema, compileErr = compileSchema(mcpConfigSchemaJSON, "http://agentpulse.local/mcp-config-schema.json")
	})
	return compiledSchema, compileErr
}

func compileSchema(schemaJSON, schemaURL string) (*jsonschema.Schema, error) {
	schemaLog.Printf("compiling MCP config schema: %s", schemaURL)

	compiler := jsonschema.NewCompiler()

	var schemaDoc any
	if err := json.Unmarshal([]byte(schemaJSON), &schemaDoc); err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}
	if err := compiler.AddResource(schemaURL, schemaDoc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return schema, nil
}

// looksLikeMcpConfig performs a best-effort structural validation of a
// parsed MCP config document; a schema failure is logged and treated as a
// soft warning, never a hard rejection, since the document's "mcpServers"/
// "servers" shape is still usable even when other fields don't conform.
func looksLikeMcpConfig(doc map[string]any) bool {
	schema, err := getCompiledSchema()
	if err != nil {
		schemaLog.Printf("schema unavailable: %v", err)
		return true
	}
	if err := schema.Validate(doc); err != nil {
		schemaLog.Printf("document failed structural validation: %v", err)
	}
	_, hasMcpServers := doc["mcpServers"]
	_, hasServers := doc["servers"]
	return hasMcpServers || hasServers
}
