package registry

import (
	"github.com/google/uuid"

	"github.com/caal-ai/templatize/pkg/domain"
)

// Submission is the payload handed to the registry boundary: the sanitized
// template plus its install contract. Display hints are stripped here; they
// exist for the operator's UI only and never travel onward.
type Submission struct {
	SubmissionID string                     `json:"submission_id"`
	Name         string                     `json:"name"`
	Workflow     *domain.WorkflowDocument   `json:"workflow"`
	Variables    []domain.Variable          `json:"variables"`
	Credentials  []domain.CredentialSummary `json:"credentials"`
}

// NewSubmission builds a submission from a sanitization result.
func NewSubmission(result *domain.SanitizationResult) Submission {
	variables := make([]domain.Variable, len(result.Variables))
	for i, v := range result.Variables {
		v.DisplayHint = ""
		variables[i] = v
	}

	return Submission{
		SubmissionID: uuid.NewString(),
		Name:         result.Sanitized.Name,
		Workflow:     result.Sanitized,
		Variables:    variables,
		Credentials:  result.Credentials,
	}
}
