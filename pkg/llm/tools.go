package llm

import (
	"encoding/json"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
)

// GenerateSchema reflects the JSON schema of T
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T

	return reflector.Reflect(v)
}

// Tool describes a tool whose input schema is given by schema
func Tool(name, description string, schema *jsonschema.Schema) anthropic.ToolUnionParam {
	return anthropic.ToolUnionParam{
		OfTool: &anthropic.ToolParam{
			Name:        name,
			Description: anthropic.String(description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: schema.Properties,
				Required:   schema.Required,
			},
		},
	}
}

// ForceTool makes the model answer by calling the named tool
func ForceTool(name string) anthropic.ToolChoiceUnionParam {
	return anthropic.ToolChoiceUnionParam{
		OfTool: &anthropic.ToolChoiceToolParam{Name: name},
	}
}

// Text concatenates the text blocks of msg
func Text(msg *anthropic.Message) string {
	var b strings.Builder
	for _, block := range msg.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(variant.Text)
		}
	}
	return b.String()
}

// ToolInput returns the raw input of the first call to tool name in msg
func ToolInput(msg *anthropic.Message, name string) (json.RawMessage, bool) {
	for _, block := range msg.Content {
		if variant, ok := block.AsAny().(anthropic.ToolUseBlock); ok && variant.Name == name {
			return variant.Input, true
		}
	}
	return nil, false
}
