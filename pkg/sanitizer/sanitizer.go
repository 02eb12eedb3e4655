// Package sanitizer decides whether a workflow export is safe to publish
// and, if so, transforms it into a portable, credential-free, host-free
// template. The engine is purely computational: no I/O, no shared state,
// identical input produces identical output.
package sanitizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/caal-ai/templatize/pkg/domain"
)

// Engine runs the sanitization pipeline:
// Normalizing -> Detecting -> (Blocked | Extracting) -> Scanning -> Done.
type Engine struct {
	logger zerolog.Logger
}

type EngineDependencies struct {
	Logger zerolog.Logger
}

func NewEngine(deps EngineDependencies) *Engine {
	return &Engine{
		logger: deps.Logger,
	}
}

// Sanitize processes one workflow document. On success the result holds the
// sanitized document, the variables contract, credential summaries, private
// origins and warnings. A SecretDetectedError or MalformedInputError aborts
// the whole invocation; no partial document is ever returned. The caller's
// input is never mutated.
func (e *Engine) Sanitize(input map[string]any) (*domain.SanitizationResult, error) {
	e.logger.Debug().Str("stage", "normalizing").Msg("sanitization started")

	doc, err := Normalize(input)
	if err != nil {
		return nil, err
	}

	e.logger.Debug().Str("stage", "detecting").Int("nodes", len(doc.Nodes)).Msg("scanning for hardcoded secrets")

	if err := DetectSecrets(doc); err != nil {
		var detected *domain.SecretDetectedError
		if errors.As(err, &detected) {
			e.logger.Warn().
				Strs("categories", detected.Categories).
				Msg("workflow rejected, hardcoded secrets present")
		}
		return nil, err
	}

	e.logger.Debug().Str("stage", "extracting").Msg("rewriting credential and locator references")

	extracted := ExtractReferences(doc)

	e.logger.Debug().Str("stage", "scanning").Msg("scanning for private-network origins")

	text, err := marshalDocument(doc)
	if err != nil {
		return nil, err
	}

	result := &domain.SanitizationResult{
		Sanitized:   doc,
		Credentials: extracted.Credentials,
		Variables:   extracted.Variables,
		PrivateURLs: ScanPrivateOrigins(text),
		Warnings:    webhookNotesWarnings(doc),
	}

	e.logger.Debug().
		Str("stage", "done").
		Int("variables", len(result.Variables)).
		Int("private_origins", len(result.PrivateURLs)).
		Msg("sanitization complete")

	return result, nil
}

// webhookNotesWarnings recommends describing webhook trigger nodes before
// sharing. Informational only; never blocks output.
func webhookNotesWarnings(doc *domain.WorkflowDocument) []string {
	var warnings []string
	for _, node := range doc.Nodes {
		if !strings.Contains(strings.ToLower(node.Type()), "webhook") {
			continue
		}
		if node.Notes() != "" {
			continue
		}
		name := node.Name()
		if name == "" {
			name = node.ID()
		}
		warnings = append(warnings, fmt.Sprintf(
			"webhook node %q has no notes; add a short description of the expected payload before sharing", name))
	}
	return warnings
}
