package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSecretDetected matches any SecretDetectedError via errors.Is.
	ErrSecretDetected = errors.New("hardcoded secret detected")

	// ErrMalformedInput matches any MalformedInputError via errors.Is.
	ErrMalformedInput = errors.New("malformed workflow document")
)

// SecretDetectedError rejects a document that contains hardcoded secret
// material. It names the pattern categories that matched; the matched text
// itself is never carried, logged, or echoed.
type SecretDetectedError struct {
	Categories []string
	Counts     SecretScanCounts
}

func (e *SecretDetectedError) Error() string {
	return fmt.Sprintf(
		"workflow contains hardcoded secrets (%s); move them into the workflow tool's credential manager and re-export",
		strings.Join(e.Categories, ", "),
	)
}

func (e *SecretDetectedError) Unwrap() error { return ErrSecretDetected }

// MalformedInputError rejects input that cannot be interpreted as a
// workflow document at all.
type MalformedInputError struct {
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed workflow document: %s", e.Reason)
}

func (e *MalformedInputError) Unwrap() error { return ErrMalformedInput }
