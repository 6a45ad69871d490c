package llm

import (
	"fmt"
)

// ServiceError reports a transport or upstream failure of a generation call.
// Message holds the text reported by the service, when there was one.
type ServiceError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	switch {
	case e.Message != "" && e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	default:
		return fmt.Sprintf("%s: status %d", e.Provider, e.StatusCode)
	}
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
