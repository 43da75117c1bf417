package agent

import (
	"sort"

	"todo-agent/internal/llm"
)

// ChatTools traduce los descriptores neutrales del registro al formato de
// function calling del proveedor. El loop nunca ve este wire shape.
func ChatTools(r *Registry) []llm.ToolDefinition {
	handlers := r.Handlers()
	out := make([]llm.ToolDefinition, 0, len(handlers))
	for _, h := range handlers {
		desc := h.Descriptor()
		out = append(out, llm.ToolDefinition{
			Name:        desc.Name,
			Description: desc.Description,
			Parameters:  parameterSchema(desc),
		})
	}
	return out
}

func parameterSchema(desc Descriptor) map[string]any {
	names := make([]string, 0, len(desc.Params))
	for name := range desc.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	properties := make(map[string]any, len(names))
	required := make([]string, 0, len(names))
	for _, name := range names {
		p := desc.Params[name]
		prop := map[string]any{"type": string(p.Type)}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		properties[name] = prop
		if p.Required {
			required = append(required, name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
