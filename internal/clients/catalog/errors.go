package catalog

import "fmt"

// ConfigError means a provider has no usable credential configured. It is
// returned before any network call is attempted.
type ConfigError struct {
	Provider string
	Missing  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s is not configured: missing %s", e.Provider, e.Missing)
}

// HTTPError means the provider answered with a non-2xx status. The caller
// decides whether to retry or surface it; clients never retry themselves.
type HTTPError struct {
	Provider   string
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s request failed with status %d", e.Provider, e.StatusCode)
}
