package controllers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	"github.com/caal-ai/templatize/internal/registry"
	"github.com/caal-ai/templatize/pkg/domain"
	"github.com/caal-ai/templatize/pkg/n8n"
	"github.com/caal-ai/templatize/pkg/sanitizer"
)

// SanitizeController exposes the sanitization engine and the n8n workflow
// listing over HTTP. The engine itself stays pure; all transport lives here.
type SanitizeController struct {
	engine *sanitizer.Engine
	n8n    *n8n.Client
	cache  *registry.Cache
}

type SanitizeControllerDependencies struct {
	Engine    *sanitizer.Engine
	N8nClient *n8n.Client
	Cache     *registry.Cache
}

func NewSanitizeController(deps SanitizeControllerDependencies) *SanitizeController {
	return &SanitizeController{
		engine: deps.Engine,
		n8n:    deps.N8nClient,
		cache:  deps.Cache,
	}
}

// WorkflowItem is one row of the workflow listing, annotated with cached
// registry info when the workflow was installed from the registry.
type WorkflowItem struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Active          bool    `json:"active"`
	RegistryID      *string `json:"registry_id"`
	RegistryVersion *string `json:"registry_version"`
}

// SanitizePreview pairs the full sanitization result (for operator review,
// display hints included) with the submission payload that would travel to
// the registry (display hints stripped).
type SanitizePreview struct {
	Result     *domain.SanitizationResult `json:"result"`
	Submission registry.Submission        `json:"submission"`
}

// Sanitize runs the engine over a workflow document posted as the request
// body.
func (c *SanitizeController) Sanitize(ctx fiber.Ctx) error {
	requestID := xid.New().String()

	var document map[string]any
	if err := json.Unmarshal(ctx.Body(), &document); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Request body is not a JSON object")
	}

	result, err := c.engine.Sanitize(document)
	if err != nil {
		return c.writeEngineError(ctx, requestID, err)
	}

	log.Info().
		Str("request_id", requestID).
		Str("workflow", result.Sanitized.Name).
		Int("variables", len(result.Variables)).
		Msg("workflow sanitized")

	return ctx.JSON(result)
}

// ListWorkflows lists the workflows on the configured n8n instance with
// their registry info, refreshing the cache for unknown workflows and
// pruning entries for deleted ones.
func (c *SanitizeController) ListWorkflows(ctx fiber.Ctx) error {
	if c.n8n == nil {
		return fiber.NewError(fiber.StatusBadRequest, "n8n is not configured")
	}

	summaries, err := c.n8n.ListWorkflows(ctx.RequestCtx())
	if err != nil {
		log.Error().Err(err).Msg("failed to list n8n workflows")
		return fiber.NewError(fiber.StatusBadGateway, "Failed to list workflows")
	}

	activeIDs := make(map[string]struct{}, len(summaries))
	for _, wf := range summaries {
		activeIDs[wf.ID] = struct{}{}
	}
	if pruned := c.cache.PruneDeleted(activeIDs); pruned > 0 {
		log.Info().Int("pruned", pruned).Msg("dropped cache entries for deleted workflows")
	}

	items := make([]WorkflowItem, 0, len(summaries))
	for _, wf := range summaries {
		entry, cached := c.cache.Get(wf.ID)
		if !cached {
			entry = c.refreshCacheEntry(ctx, wf.ID)
		}
		items = append(items, WorkflowItem{
			ID:              wf.ID,
			Name:            wf.Name,
			Active:          wf.Active,
			RegistryID:      entry.RegistryID,
			RegistryVersion: entry.Version,
		})
	}

	return ctx.JSON(fiber.Map{"workflows": items})
}

// GetWorkflow returns the full workflow document as n8n exports it.
func (c *SanitizeController) GetWorkflow(ctx fiber.Ctx) error {
	if c.n8n == nil {
		return fiber.NewError(fiber.StatusBadRequest, "n8n is not configured")
	}

	document, err := c.n8n.GetWorkflow(ctx.RequestCtx(), ctx.Params("id"))
	if err != nil {
		if n8n.IsNotFoundError(err) {
			return fiber.NewError(fiber.StatusNotFound, "Workflow not found")
		}
		log.Error().Err(err).Str("workflow_id", ctx.Params("id")).Msg("failed to fetch workflow")
		return fiber.NewError(fiber.StatusBadGateway, "Failed to fetch workflow")
	}

	return ctx.JSON(fiber.Map{"workflow": document})
}

// SanitizeWorkflow fetches a workflow from n8n, runs the engine and returns
// the submission preview.
func (c *SanitizeController) SanitizeWorkflow(ctx fiber.Ctx) error {
	if c.n8n == nil {
		return fiber.NewError(fiber.StatusBadRequest, "n8n is not configured")
	}

	requestID := xid.New().String()
	workflowID := ctx.Params("id")

	document, err := c.n8n.GetWorkflow(ctx.RequestCtx(), workflowID)
	if err != nil {
		if n8n.IsNotFoundError(err) {
			return fiber.NewError(fiber.StatusNotFound, "Workflow not found")
		}
		log.Error().Err(err).Str("workflow_id", workflowID).Msg("failed to fetch workflow")
		return fiber.NewError(fiber.StatusBadGateway, "Failed to fetch workflow")
	}

	result, err := c.engine.Sanitize(document)
	if err != nil {
		return c.writeEngineError(ctx, requestID, err)
	}

	log.Info().
		Str("request_id", requestID).
		Str("workflow_id", workflowID).
		Msg("workflow sanitized for submission")

	return ctx.JSON(SanitizePreview{
		Result:     result,
		Submission: registry.NewSubmission(result),
	})
}

func (c *SanitizeController) refreshCacheEntry(ctx fiber.Ctx, workflowID string) registry.Entry {
	entry := registry.Entry{}

	document, err := c.n8n.GetWorkflow(ctx.RequestCtx(), workflowID)
	if err != nil {
		// Mark as custom so the listing does not refetch on every call.
		log.Warn().Err(err).Str("workflow_id", workflowID).Msg("failed to fetch workflow for cache refresh")
		c.cache.Set(workflowID, entry)
		return entry
	}

	if doc, err := sanitizer.Normalize(document); err == nil {
		entry = registry.ParseStickyNoteTracking(doc.Nodes)
	}
	c.cache.Set(workflowID, entry)
	return entry
}

// writeEngineError maps the engine's two error kinds onto HTTP responses.
// Secret rejections carry the category names only, never matched content.
func (c *SanitizeController) writeEngineError(ctx fiber.Ctx, requestID string, err error) error {
	var detected *domain.SecretDetectedError
	if errors.As(err, &detected) {
		log.Warn().
			Str("request_id", requestID).
			Strs("categories", detected.Categories).
			Msg("workflow rejected")
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":      detected.Error(),
			"categories": detected.Categories,
		})
	}

	var malformed *domain.MalformedInputError
	if errors.As(err, &malformed) {
		return fiber.NewError(fiber.StatusBadRequest, malformed.Error())
	}

	log.Error().Err(err).Str("request_id", requestID).Msg("sanitization failed")
	return fiber.NewError(fiber.StatusInternalServerError, "Failed to sanitize workflow")
}
