package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// manifestSchema 约束 algorithms.json 的结构，在进程启动时编译一次。
const manifestSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "entryPoint"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "name": {"type": "string"},
      "description": {"type": "string"},
      "entryPoint": {"type": "string", "minLength": 1},
      "defaultParameters": {
        "type": "object",
        "additionalProperties": {"type": "string"}
      }
    },
    "additionalProperties": false
  }
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("algorithms.schema.json", strings.NewReader(manifestSchema)); err != nil {
		panic(err)
	}
	return compiler.MustCompile("algorithms.schema.json")
}

func validateSchema(raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse json failed: %w", err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
