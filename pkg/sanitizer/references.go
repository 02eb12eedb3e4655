package sanitizer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/caal-ai/templatize/pkg/domain"
)

// ExtractResult carries everything the reference walk found and rewrote.
type ExtractResult struct {
	Variables   []domain.Variable
	Credentials []domain.CredentialSummary

	// locators records every rewritten occurrence with its dotted path and
	// original value; kept package-internal for verification.
	locators []domain.ResourceLocator
}

// ExtractReferences rewrites every credential binding and every list-mode
// resource locator in the document to ${VARNAME} placeholders, and returns
// the variables contract the installer must satisfy. The document is
// mutated in place; it must be the engine's own normalized copy.
//
// Traversal is depth-first over sorted keys, so derived names and variable
// ordering are reproducible for identical input.
func ExtractReferences(doc *domain.WorkflowDocument) ExtractResult {
	result := ExtractResult{}
	seen := map[string]bool{}

	for i := range doc.Nodes {
		params := doc.Nodes[i].Parameters()
		if params == nil {
			continue
		}
		path := fmt.Sprintf("nodes[%d].parameters", i)
		result.rewriteLocators(params, path, seen)
	}

	for i := range doc.Nodes {
		result.rewriteCredentials(doc.Nodes[i], seen)
	}

	return result
}

// rewriteLocators walks a parameter mapping depth-first, replacing each
// list-mode locator with a canonical id-mode shape in place.
func (r *ExtractResult) rewriteLocators(m map[string]any, path string, seen map[string]bool) {
	for _, key := range sortedKeys(m) {
		r.rewriteValue(m[key], path+"."+key, key, seen)
	}
}

// rewriteValue recurses through nested mappings and collections so a
// locator is found at any depth, arrays of arrays included. The variable
// name always derives from the nearest enclosing field key, never from an
// array index.
func (r *ExtractResult) rewriteValue(value any, path, fieldKey string, seen map[string]bool) {
	switch child := value.(type) {
	case map[string]any:
		if domain.IsListModeLocator(child) {
			r.recordLocator(child, path, fieldKey, seen)
			return
		}
		r.rewriteLocators(child, path, seen)
	case []any:
		for i, item := range child {
			r.rewriteValue(item, fmt.Sprintf("%s[%d]", path, i), fieldKey, seen)
		}
	}
}

func (r *ExtractResult) recordLocator(locator map[string]any, path, fieldKey string, seen map[string]bool) {
	varName := upperSnake(fieldKey)
	label := domain.LocatorCachedLabel(locator)

	value := ""
	if raw, ok := locator["value"]; ok && raw != nil {
		value = fmt.Sprintf("%v", raw)
	}
	r.locators = append(r.locators, domain.ResourceLocator{
		Path:        path,
		Mode:        domain.ResourceLocatorModeList,
		Value:       value,
		CachedLabel: label,
	})

	if !seen[varName] {
		seen[varName] = true
		r.Variables = append(r.Variables, domain.Variable{
			Name:        varName,
			Description: fmt.Sprintf("Backend identifier for the %s selection", fieldKey),
			DisplayHint: label,
		})
	}

	// Collapse to the canonical id-mode shape; the cached label never
	// survives into the sanitized document.
	for key := range locator {
		delete(locator, key)
	}
	locator[domain.ResourceLocatorMarker] = true
	locator["mode"] = domain.ResourceLocatorModeID
	locator["value"] = domain.Placeholder(varName)
}

// rewriteCredentials replaces every binding of a node with a placeholder
// binding. One Variable per distinct credential type tag; every occurrence
// is rewritten regardless.
func (r *ExtractResult) rewriteCredentials(node domain.Node, seen map[string]bool) {
	creds := node.Credentials()
	if len(creds) == 0 {
		return
	}

	for _, credType := range sortedKeys(creds) {
		varName := upperSnake(credType) + "_CREDENTIAL"

		// Bindings that are already placeholders carry nothing
		// account-specific and are not reported, only normalized.
		if binding, ok := domain.CredentialBindingFrom(creds[credType]); ok && !isPlaceholder(binding.Name) {
			r.Credentials = append(r.Credentials, domain.CredentialSummary{
				CredentialType: credType,
				Name:           binding.Name,
			})
		}

		if !seen[varName] {
			seen[varName] = true
			r.Variables = append(r.Variables, domain.Variable{
				Name:        varName,
				Description: fmt.Sprintf("Your %s credential name", credType),
			})
		}

		creds[credType] = map[string]any{
			"id":   nil,
			"name": domain.Placeholder(varName),
		}
	}
}

// upperSnake derives a variable name from a camel-case field key: an
// underscore before each internal uppercase letter, non-alphanumerics
// folded to underscores, then the whole string uppercased.
func upperSnake(key string) string {
	var b strings.Builder
	for i, r := range key {
		switch {
		case r >= 'A' && r <= 'Z':
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return strings.ToUpper(b.String())
}

func isPlaceholder(s string) bool {
	return strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
