package domain

// CredentialBinding is a node's reference to a secret held in the workflow
// tool's own credential manager. After sanitization ID is always nil and
// Name is a ${VARNAME} placeholder.
type CredentialBinding struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}

// CredentialSummary reports one credential binding found in the input,
// keyed by its type tag and original display name. Surfaced to the caller
// for review; never part of the sanitized document.
type CredentialSummary struct {
	CredentialType string `json:"credential_type"`
	Name           string `json:"name"`
}

// CredentialBindingFrom interprets a raw mapping as a credential binding.
// Returns false when the value does not have the binding shape.
func CredentialBindingFrom(v any) (CredentialBinding, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return CredentialBinding{}, false
	}

	binding := CredentialBinding{}

	if id, ok := m["id"].(string); ok {
		binding.ID = &id
	}
	if name, ok := m["name"].(string); ok {
		binding.Name = name
	}

	return binding, binding.Name != "" || binding.ID != nil
}
