package sanitizer

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caal-ai/templatize/pkg/domain"
)

func newTestEngine() *Engine {
	return NewEngine(EngineDependencies{Logger: zerolog.Nop()})
}

func TestEngine_CleanRewrite(t *testing.T) {
	engine := newTestEngine()

	input := map[string]any{
		"name": "Status poller",
		"nodes": []any{
			map[string]any{
				"id":   "1",
				"type": "n8n-nodes-base.httpRequest",
				"parameters": map[string]any{
					"url": "http://192.168.1.100:5000/api/status",
				},
				"credentials": map[string]any{
					"httpHeaderAuth": map[string]any{"id": "123456", "name": "My API Key"},
				},
			},
		},
	}

	result, err := engine.Sanitize(input)
	require.NoError(t, err)

	binding := result.Sanitized.Nodes[0].Credentials()["httpHeaderAuth"].(map[string]any)
	assert.Equal(t, map[string]any{"id": nil, "name": "${HTTP_HEADER_AUTH_CREDENTIAL}"}, binding)

	assert.Equal(t, []string{"http://192.168.1.100:5000"}, result.PrivateURLs)
	assert.Equal(t, []domain.CredentialSummary{
		{CredentialType: "httpHeaderAuth", Name: "My API Key"},
	}, result.Credentials)

	require.Len(t, result.Variables, 1)
	assert.Equal(t, "HTTP_HEADER_AUTH_CREDENTIAL", result.Variables[0].Name)

	assert.Zero(t, result.SecretCounts.Total())

	// The caller's document stays untouched.
	original := input["nodes"].([]any)[0].(map[string]any)["credentials"].(map[string]any)["httpHeaderAuth"].(map[string]any)
	assert.Equal(t, "123456", original["id"])
}

func TestEngine_BlockingSecret(t *testing.T) {
	engine := newTestEngine()

	input := map[string]any{
		"name": "leaky",
		"nodes": []any{
			map[string]any{
				"id":   "1",
				"type": "n8n-nodes-base.httpRequest",
				"parameters": map[string]any{
					"apiKey": "sk-abc123def456ghi789jkl012mno345",
				},
			},
		},
	}

	result, err := engine.Sanitize(input)
	require.Error(t, err)
	assert.Nil(t, result, "no document may be returned once a secret is detected")
	assert.ErrorIs(t, err, domain.ErrSecretDetected)

	var detected *domain.SecretDetectedError
	require.ErrorAs(t, err, &detected)
	assert.NotEmpty(t, detected.Categories)
	assert.NotContains(t, err.Error(), "sk-abc123")
}

func TestEngine_ResourceLocatorScenario(t *testing.T) {
	engine := newTestEngine()

	input := map[string]any{
		"name": "Calendar sync",
		"nodes": []any{
			map[string]any{
				"id":   "1",
				"type": "n8n-nodes-base.googleCalendar",
				"parameters": map[string]any{
					"calendar": map[string]any{
						"__rl":             true,
						"mode":             "list",
						"value":            "calendar-id-123",
						"cachedResultName": "My Calendar",
					},
				},
			},
		},
	}

	result, err := engine.Sanitize(input)
	require.NoError(t, err)

	calendar := result.Sanitized.Nodes[0].Parameters()["calendar"].(map[string]any)
	assert.Equal(t, map[string]any{"__rl": true, "mode": "id", "value": "${CALENDAR}"}, calendar)

	require.Len(t, result.Variables, 1)
	assert.Equal(t, "CALENDAR", result.Variables[0].Name)
	assert.Equal(t, "My Calendar", result.Variables[0].DisplayHint)

	// The cached label lives only in the variable's display hint.
	text, err := marshalDocument(result.Sanitized)
	require.NoError(t, err)
	assert.NotContains(t, text, "My Calendar")
}

func TestEngine_IdempotentOnSanitizedInput(t *testing.T) {
	engine := newTestEngine()

	input := map[string]any{
		"name": "Status poller",
		"nodes": []any{
			map[string]any{
				"id":   "1",
				"type": "n8n-nodes-base.httpRequest",
				"parameters": map[string]any{
					"url": "http://${GATEWAY_HOST}/api/status",
					"calendar": map[string]any{
						"__rl":  true,
						"mode":  "id",
						"value": "${CALENDAR}",
					},
				},
				"credentials": map[string]any{
					"httpHeaderAuth": map[string]any{"id": nil, "name": "${HTTP_HEADER_AUTH_CREDENTIAL}"},
				},
			},
		},
		"connections": map[string]any{},
		"settings":    map[string]any{},
	}

	first, err := engine.Sanitize(input)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first.Sanitized)
	require.NoError(t, err)

	roundTripped := map[string]any{}
	require.NoError(t, json.Unmarshal(firstJSON, &roundTripped))

	second, err := engine.Sanitize(roundTripped)
	require.NoError(t, err)

	secondJSON, err := json.Marshal(second.Sanitized)
	require.NoError(t, err)

	assert.Equal(t, string(firstJSON), string(secondJSON), "sanitizing sanitized output must be byte-identical")
	assert.Empty(t, second.PrivateURLs)
	assert.Empty(t, second.Credentials)
	assert.Zero(t, second.SecretCounts.Total())
}

func TestEngine_WebhookNotesWarning(t *testing.T) {
	engine := newTestEngine()

	input := map[string]any{
		"name": "Inbound hook",
		"nodes": []any{
			map[string]any{
				"id":   "1",
				"name": "Webhook In",
				"type": "n8n-nodes-base.webhook",
			},
			map[string]any{
				"id":    "2",
				"name":  "Documented Hook",
				"type":  "n8n-nodes-base.webhook",
				"notes": "Receives build events from CI.",
			},
		},
	}

	result, err := engine.Sanitize(input)
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Webhook In")
}
