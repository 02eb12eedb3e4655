package domain

import "fmt"

// Variable is one entry of the placeholder contract surfaced to the caller:
// the installer resolves every ${Name} token in the sanitized document with
// a value supplied at install time.
type Variable struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// DisplayHint echoes the original human-readable value for UI display
	// only. Callers must not forward it past their own UI boundary.
	DisplayHint string `json:"displayHint,omitempty"`
}

// Placeholder renders a variable name as its install-time token.
func Placeholder(name string) string {
	return fmt.Sprintf("${%s}", name)
}
