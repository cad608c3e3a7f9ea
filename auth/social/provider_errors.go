package social

import (
	"fmt"
	"strings"
)

// ProviderError carries the provider-side detail of a failed OAuth call so
// operators can see what the provider actually said. It is logged, never
// surfaced to clients.
type ProviderError struct {
	Provider    string
	Operation   string
	Status      int
	Code        string
	Description string
	Err         error
}

func (e *ProviderError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s failed", e.Provider, e.Operation)

	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, ": %s", e.Code)
	}
	if e.Description != "" {
		fmt.Fprintf(&b, ": %s", e.Description)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}

	return b.String()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
