// Package registry tracks which local workflows came from the tool
// registry. Workflows installed from the registry carry a tracking sticky
// note; the cache maps workflow IDs to the parsed registry info so listings
// do not have to refetch full workflow documents.
package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// Entry is the cached registry info for a single workflow. A nil RegistryID
// marks a verified custom workflow, which avoids refetching it.
type Entry struct {
	RegistryID *string `json:"registry_id"`
	Version    *string `json:"version"`
}

type cacheFile struct {
	Workflows map[string]Entry `json:"workflows"`
}

// Cache is a JSON-file-backed map of workflow ID to registry entry. Safe
// for concurrent use.
type Cache struct {
	mu        sync.Mutex
	path      string
	workflows map[string]Entry
	logger    zerolog.Logger
}

// NewCache loads the cache at path, starting empty when the file is absent
// or unreadable.
func NewCache(path string, logger zerolog.Logger) *Cache {
	c := &Cache{
		path:      path,
		workflows: map[string]Entry{},
		logger:    logger,
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("path", path).Msg("failed to read registry cache")
		}
		return c
	}

	var file cacheFile
	if err := json.Unmarshal(raw, &file); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("failed to parse registry cache")
		return c
	}
	if file.Workflows != nil {
		c.workflows = file.Workflows
	}

	return c
}

// Get returns the cached entry for a workflow.
func (c *Cache) Get(workflowID string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.workflows[workflowID]
	return entry, ok
}

// Set stores the entry for a workflow and persists the cache.
func (c *Cache) Set(workflowID string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.workflows[workflowID] = entry
	c.save()
}

// Remove drops the entry for a workflow, if present.
func (c *Cache) Remove(workflowID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.workflows[workflowID]; ok {
		delete(c.workflows, workflowID)
		c.save()
	}
}

// PruneDeleted removes entries for workflows no longer present on the
// instance and returns how many were dropped.
func (c *Cache) PruneDeleted(activeIDs map[string]struct{}) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	pruned := 0
	for id := range c.workflows {
		if _, active := activeIDs[id]; !active {
			delete(c.workflows, id)
			pruned++
		}
	}
	if pruned > 0 {
		c.save()
	}
	return pruned
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.workflows = map[string]Entry{}
	c.save()
}

// save persists the cache; callers must hold the mutex.
func (c *Cache) save() {
	if c.path == "" {
		return
	}

	raw, err := json.MarshalIndent(cacheFile{Workflows: c.workflows}, "", "  ")
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to encode registry cache")
		return
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		c.logger.Error().Err(err).Str("path", c.path).Msg("failed to create registry cache directory")
		return
	}
	if err := os.WriteFile(c.path, raw, 0o644); err != nil {
		c.logger.Error().Err(err).Str("path", c.path).Msg("failed to write registry cache")
	}
}
