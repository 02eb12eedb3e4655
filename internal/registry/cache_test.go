package registry

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caal-ai/templatize/pkg/domain"
)

func strPtr(s string) *string { return &s }

func TestCache_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry_cache.json")

	cache := NewCache(path, zerolog.Nop())
	cache.Set("wf1", Entry{RegistryID: strPtr("calendar-sync"), Version: strPtr("1.2.0")})
	cache.Set("wf2", Entry{})

	reloaded := NewCache(path, zerolog.Nop())

	entry, ok := reloaded.Get("wf1")
	require.True(t, ok)
	require.NotNil(t, entry.RegistryID)
	assert.Equal(t, "calendar-sync", *entry.RegistryID)

	custom, ok := reloaded.Get("wf2")
	require.True(t, ok)
	assert.Nil(t, custom.RegistryID, "custom workflows are cached with a nil registry id")
}

func TestCache_PruneDeleted(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), "cache.json"), zerolog.Nop())
	cache.Set("keep", Entry{RegistryID: strPtr("tool-a")})
	cache.Set("gone", Entry{RegistryID: strPtr("tool-b")})

	pruned := cache.PruneDeleted(map[string]struct{}{"keep": {}})

	assert.Equal(t, 1, pruned)
	_, ok := cache.Get("gone")
	assert.False(t, ok)
	_, ok = cache.Get("keep")
	assert.True(t, ok)
}

func TestParseStickyNoteTracking(t *testing.T) {
	tests := []struct {
		name       string
		nodes      []domain.Node
		registryID *string
		version    *string
	}{
		{
			name: "tracking note present",
			nodes: []domain.Node{
				{
					"type": "n8n-nodes-base.stickyNote",
					"parameters": map[string]any{
						"content": "## CAAL Registry Tracking\n**id:** calendar-sync\n**version:** v1.2.0\n",
					},
				},
			},
			registryID: strPtr("calendar-sync"),
			version:    strPtr("1.2.0"),
		},
		{
			name: "unrelated sticky note",
			nodes: []domain.Node{
				{
					"type": "n8n-nodes-base.stickyNote",
					"parameters": map[string]any{
						"content": "remember to rotate the key",
					},
				},
			},
		},
		{
			name: "no sticky notes",
			nodes: []domain.Node{
				{"type": "n8n-nodes-base.webhook"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := ParseStickyNoteTracking(tt.nodes)
			if tt.registryID == nil {
				assert.Nil(t, entry.RegistryID)
				return
			}
			require.NotNil(t, entry.RegistryID)
			assert.Equal(t, *tt.registryID, *entry.RegistryID)
			require.NotNil(t, entry.Version)
			assert.Equal(t, *tt.version, *entry.Version)
		})
	}
}

func TestNewSubmission_StripsDisplayHints(t *testing.T) {
	result := &domain.SanitizationResult{
		Sanitized: &domain.WorkflowDocument{Name: "Calendar sync"},
		Variables: []domain.Variable{
			{Name: "CALENDAR", Description: "Backend identifier for the calendar selection", DisplayHint: "My Calendar"},
		},
	}

	submission := NewSubmission(result)

	assert.NotEmpty(t, submission.SubmissionID)
	assert.Equal(t, "Calendar sync", submission.Name)
	require.Len(t, submission.Variables, 1)
	assert.Empty(t, submission.Variables[0].DisplayHint, "display hints never travel past the UI boundary")

	// The source result stays untouched.
	assert.Equal(t, "My Calendar", result.Variables[0].DisplayHint)
}
