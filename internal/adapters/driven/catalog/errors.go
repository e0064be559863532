package catalog

import "fmt"

// APIError represents a catalog API error response: a non-200 status or a
// GraphQL-level error payload.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog: API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("catalog: API error: %s", e.Message)
}
