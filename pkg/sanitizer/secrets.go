package sanitizer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/caal-ai/templatize/pkg/domain"
)

type secretCategory int

const (
	categoryAPIKeys secretCategory = iota
	categoryTokens
	categoryPasswords
)

// secretPattern is one signature the detector looks for. Name is the
// caller-facing pattern class used in the rejection message; the matched
// text itself never leaves the scan.
type secretPattern struct {
	name     string
	category secretCategory
	re       *regexp.Regexp
}

// literalPatterns match hardcoded secret material in the serialized
// document and in embedded script bodies.
var literalPatterns = []secretPattern{
	{
		name:     "API key assignment",
		category: categoryAPIKeys,
		re:       regexp.MustCompile(`(?i)["']?(api[_-]?key|apikey)["']?\s*[:=]\s*["'][A-Za-z0-9_\-]{12,}["']`),
	},
	{
		name:     "Vendor-prefixed API key",
		category: categoryAPIKeys,
		re:       regexp.MustCompile(`\bsk-[A-Za-z0-9_\-]{20,}`),
	},
	{
		name:     "AWS access key ID",
		category: categoryTokens,
		re:       regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`),
	},
	{
		name:     "GitHub token",
		category: categoryTokens,
		re:       regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{30,}\b`),
	},
	{
		name:     "Slack token",
		category: categoryTokens,
		re:       regexp.MustCompile(`\bxox[baprs]-[A-Za-z0-9\-]{10,}`),
	},
	{
		name:     "Bearer token",
		category: categoryTokens,
		re:       regexp.MustCompile(`(?i)\bbearer\s+[a-z0-9\-._~+/]{20,}=*`),
	},
	{
		name:     "Private key block",
		category: categoryTokens,
		re:       regexp.MustCompile(`-----BEGIN (?:[A-Z]+ )*PRIVATE KEY-----`),
	},
	{
		name:     "Secret assignment",
		category: categoryTokens,
		re:       regexp.MustCompile(`(?i)["']?(client[_-]?secret|auth[_-]?token|access[_-]?token)["']?\s*[:=]\s*["'][A-Za-z0-9_\-.=+/]{12,}["']`),
	},
	{
		name:     "Password assignment",
		category: categoryPasswords,
		re:       regexp.MustCompile(`(?i)["']?(password|passwd|pwd)["']?\s*[:=]\s*["'][^"']{6,}["']`),
	},
}

// expressionPatterns match templated expressions that reference environment
// variables or contextual fields whose name implies a secret. No literal
// value is exposed, but sharing such a reference leaks the operator's
// private variable naming and forces the installer to recreate it.
var expressionPatterns = []secretPattern{
	{
		name:     "Environment secret reference",
		category: categoryTokens,
		re:       regexp.MustCompile(`\$env(?:\.|\[\\?["'])[A-Za-z0-9_]*(?i:key|token|secret|password|api)[A-Za-z0-9_]*`),
	},
	{
		name:     "Context secret reference",
		category: categoryTokens,
		re:       regexp.MustCompile(`\$(?:json|vars|node)\.[A-Za-z0-9_]*(?i:key|token|secret|password|api)[A-Za-z0-9_]*`),
	},
}

// scriptParameterKeys are the parameter fields that carry embedded script
// bodies in code-type nodes.
var scriptParameterKeys = []string{"jsCode", "pythonCode", "functionCode", "code"}

type scanReport struct {
	counts   domain.SecretScanCounts
	patterns []string
}

func (r *scanReport) add(p secretPattern, n int) {
	if n == 0 {
		return
	}
	switch p.category {
	case categoryAPIKeys:
		r.counts.APIKeys += n
	case categoryTokens:
		r.counts.Tokens += n
	case categoryPasswords:
		r.counts.Passwords += n
	}
	for _, seen := range r.patterns {
		if seen == p.name {
			return
		}
	}
	r.patterns = append(r.patterns, p.name)
}

func (r *scanReport) merge(other scanReport) {
	r.counts.APIKeys += other.counts.APIKeys
	r.counts.Tokens += other.counts.Tokens
	r.counts.Passwords += other.counts.Passwords
	for _, name := range other.patterns {
		dup := false
		for _, seen := range r.patterns {
			if seen == name {
				dup = true
				break
			}
		}
		if !dup {
			r.patterns = append(r.patterns, name)
		}
	}
}

func scanText(text string, patterns []secretPattern) scanReport {
	var report scanReport
	for _, p := range patterns {
		report.add(p, len(p.re.FindAllStringIndex(text, -1)))
	}
	return report
}

// scanLiterals runs the literal signature set over the serialized document.
func scanLiterals(text string) scanReport {
	return scanText(text, literalPatterns)
}

// scanExpressions runs the templated-expression signature set.
func scanExpressions(text string) scanReport {
	return scanText(text, expressionPatterns)
}

// scanEmbeddedCode re-runs the literal signature set over every script body
// of code-type nodes, catching secrets hardcoded inside inline code that
// the generic key/value shapes would miss.
func scanEmbeddedCode(doc *domain.WorkflowDocument) scanReport {
	var report scanReport
	for _, node := range doc.Nodes {
		if !isCodeNode(node) {
			continue
		}
		params := node.Parameters()
		for _, key := range scriptParameterKeys {
			if body, ok := params[key].(string); ok && body != "" {
				report.merge(scanLiterals(body))
			}
		}
	}
	return report
}

func isCodeNode(node domain.Node) bool {
	t := strings.ToLower(node.Type())
	return strings.Contains(t, "code") || strings.Contains(t, "function")
}

// DetectSecrets runs all three scan passes over the normalized document and
// returns a SecretDetectedError when any pattern fires. The scan is
// read-only; a nil result means the document is clean.
func DetectSecrets(doc *domain.WorkflowDocument) error {
	text, err := marshalDocument(doc)
	if err != nil {
		return err
	}

	var report scanReport
	report.merge(scanLiterals(text))
	report.merge(scanEmbeddedCode(doc))
	report.merge(scanExpressions(text))

	if report.counts.Total() == 0 {
		return nil
	}

	return &domain.SecretDetectedError{
		Categories: report.patterns,
		Counts:     report.counts,
	}
}

func marshalDocument(doc *domain.WorkflowDocument) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("serializing workflow document: %w", err)
	}
	return string(raw), nil
}
