package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caal-ai/templatize/pkg/domain"
)

func TestNormalize_KeepsOnlyPortableFields(t *testing.T) {
	input := map[string]any{
		"name": "Calendar sync",
		"nodes": []any{
			map[string]any{"id": "1", "type": "n8n-nodes-base.httpRequest"},
		},
		"connections": map[string]any{"Start": map[string]any{}},
		"settings":    map[string]any{"executionOrder": "v1"},
		"meta":        map[string]any{"instanceId": "a1b2c3"},
		"versionId":   "9f8e7d",
		"pinData":     map[string]any{},
	}

	doc, err := Normalize(input)
	require.NoError(t, err)

	assert.Equal(t, "Calendar sync", doc.Name)
	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, "1", doc.Nodes[0].ID())
	assert.Equal(t, map[string]any{"Start": map[string]any{}}, doc.Connections)
	assert.Equal(t, map[string]any{"executionOrder": "v1"}, doc.Settings)

	text, err := marshalDocument(doc)
	require.NoError(t, err)
	assert.NotContains(t, text, "instanceId")
	assert.NotContains(t, text, "versionId")
	assert.NotContains(t, text, "pinData")
}

func TestNormalize_MissingOptionalFieldsDefaultToEmpty(t *testing.T) {
	doc, err := Normalize(map[string]any{"nodes": []any{}})
	require.NoError(t, err)

	assert.Equal(t, "", doc.Name)
	assert.NotNil(t, doc.Nodes)
	assert.Empty(t, doc.Nodes)
	assert.NotNil(t, doc.Connections)
	assert.NotNil(t, doc.Settings)
}

func TestNormalize_MalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]any
	}{
		{name: "nil document", input: nil},
		{name: "missing nodes", input: map[string]any{"name": "x"}},
		{name: "nodes not a list", input: map[string]any{"nodes": map[string]any{}}},
		{name: "nodes holds scalars", input: map[string]any{"nodes": []any{"not-a-node"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMalformedInput)
		})
	}
}

func TestNormalize_DeepCopyIsolatesCaller(t *testing.T) {
	params := map[string]any{"url": "http://example.com"}
	input := map[string]any{
		"nodes": []any{
			map[string]any{"id": "1", "parameters": params},
		},
	}

	doc, err := Normalize(input)
	require.NoError(t, err)

	doc.Nodes[0].Parameters()["url"] = "rewritten"

	assert.Equal(t, "http://example.com", params["url"], "caller-held data must never be mutated")
}
