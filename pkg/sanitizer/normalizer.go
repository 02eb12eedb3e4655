package sanitizer

import (
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/caal-ai/templatize/pkg/domain"
)

// documentSchema is the minimal structural contract an export must meet
// before the engine will touch it. Anything beyond this stays schema-free.
const documentSchema = `{
	"type": "object",
	"required": ["nodes"],
	"properties": {
		"name": { "type": "string" },
		"nodes": {
			"type": "array",
			"items": { "type": "object" }
		},
		"connections": { "type": "object" },
		"settings": { "type": "object" }
	}
}`

var compiledDocumentSchema = jsonschema.MustCompileString("workflow-document.schema.json", documentSchema)

// Normalize extracts the portable fields of a raw workflow export into a
// clean working copy. The copy is deep: later rewriting never touches
// caller-held data. Missing optional fields default to empty collections.
//
// Returns a MalformedInputError when the input is not an object with a
// nodes collection.
func Normalize(input map[string]any) (*domain.WorkflowDocument, error) {
	if input == nil {
		return nil, &domain.MalformedInputError{Reason: "document is empty"}
	}

	if err := compiledDocumentSchema.Validate(map[string]any(input)); err != nil {
		return nil, &domain.MalformedInputError{Reason: schemaFailureReason(err)}
	}

	doc := &domain.WorkflowDocument{
		Name:        "",
		Nodes:       []domain.Node{},
		Connections: map[string]any{},
		Settings:    map[string]any{},
	}

	if name, ok := input["name"].(string); ok {
		doc.Name = name
	}

	rawNodes, _ := input["nodes"].([]any)
	for _, raw := range rawNodes {
		node, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		doc.Nodes = append(doc.Nodes, domain.Node(deepCopyMap(node)))
	}

	if connections, ok := input["connections"].(map[string]any); ok {
		doc.Connections = deepCopyMap(connections)
	}
	if settings, ok := input["settings"].(map[string]any); ok {
		doc.Settings = deepCopyMap(settings)
	}

	return doc, nil
}

func schemaFailureReason(err error) string {
	if verr, ok := err.(*jsonschema.ValidationError); ok {
		leaf := verr
		for len(leaf.Causes) > 0 {
			leaf = leaf.Causes[0]
		}
		return leaf.Message
	}
	return err.Error()
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		return deepCopyMap(value)
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		// Scalars (string, bool, float64, nil after JSON decoding) are
		// immutable; share them.
		return v
	}
}
