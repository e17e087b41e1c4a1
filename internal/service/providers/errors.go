package providers

import (
	"fmt"

	"EquitySight/internal/domain/models"
)

// ProviderError wraps any upstream failure (transport, throttle marker,
// unparseable payload) so the cascade can keep trying the next source.
type ProviderError struct {
	Provider models.Provider
	Reason   string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Reason)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func newProviderError(p models.Provider, reason string, err error) *ProviderError {
	return &ProviderError{Provider: p, Reason: reason, Err: err}
}
