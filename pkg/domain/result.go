package domain

// SecretScanCounts tallies secret-pattern matches by category. A successful
// sanitization always carries all-zero counts; any non-zero count blocks
// the whole operation before a document is produced.
type SecretScanCounts struct {
	APIKeys   int `json:"api_keys"`
	Tokens    int `json:"tokens"`
	Passwords int `json:"passwords"`
}

// Total returns the number of matches across all categories.
func (c SecretScanCounts) Total() int {
	return c.APIKeys + c.Tokens + c.Passwords
}

// SanitizationResult is the output of one engine invocation. Constructed
// once, immutable after return, never persisted by the engine itself.
type SanitizationResult struct {
	Sanitized *WorkflowDocument `json:"sanitized"`

	// Credentials summarizes every binding found in the input, in document
	// order, with the original display names for caller review.
	Credentials []CredentialSummary `json:"credentials"`

	// Variables is the merged placeholder contract: one entry per distinct
	// derived name, locator-derived entries first.
	Variables []Variable `json:"variables"`

	// PrivateURLs lists deduplicated RFC 1918 origins still embedded in the
	// sanitized document, for operator-assisted parameterization.
	PrivateURLs []string `json:"private_urls"`

	SecretCounts SecretScanCounts `json:"secret_counts"`

	Warnings []string `json:"warnings"`
}
