package domain

// Resource locator structural markers, as written by the workflow editor's
// "from list / by id" selector widgets.
const (
	ResourceLocatorMarker = "__rl"

	ResourceLocatorModeList = "list"
	ResourceLocatorModeID   = "id"

	resourceLocatorCachedName = "cachedResultName"
)

// ResourceLocator is a parameter sub-object representing a saved dropdown
// selection: an opaque backend value plus a cached human-readable label.
type ResourceLocator struct {
	Path        string `json:"path"`
	Mode        string `json:"mode"`
	Value       string `json:"value"`
	CachedLabel string `json:"cached_label,omitempty"`
}

// IsListModeLocator reports whether a raw mapping is a resource locator in
// list mode, the only locator shape the rewriter touches.
func IsListModeLocator(m map[string]any) bool {
	marker, _ := m[ResourceLocatorMarker].(bool)
	if !marker {
		return false
	}
	mode, _ := m["mode"].(string)
	return mode == ResourceLocatorModeList
}

// LocatorCachedLabel returns the cached display label of a locator mapping,
// or "" when the editor never stored one.
func LocatorCachedLabel(m map[string]any) string {
	s, _ := m[resourceLocatorCachedName].(string)
	return s
}
