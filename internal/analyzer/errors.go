package analyzer

import (
	"errors"

	"github.com/sozercan/chart-mole/internal/llm"
)

var (
	// ErrEmptyUserInput and ErrEmptyDataset mark requests that are skipped
	// without contacting the model. Callers should ignore them silently.
	ErrEmptyUserInput = errors.New("empty user input")
	ErrEmptyDataset   = errors.New("empty dataset")

	ErrEmptyModelResponse = errors.New("no response received from AI model")

	// ErrInvalidOptions rejects per-request generation options before any
	// call is made.
	ErrInvalidOptions = errors.New("invalid analysis options")
)

const (
	emptyResponseMessage = "No response received from AI model"
	genericFailure       = "Failed to analyze data. Please try again."
)

// IsSkipped reports whether err means no request was issued.
func IsSkipped(err error) bool {
	return errors.Is(err, ErrEmptyUserInput) || errors.Is(err, ErrEmptyDataset)
}

// UserMessage maps an analysis error to the text shown to users. Skipped
// requests map to "".
func UserMessage(err error) string {
	if err == nil || IsSkipped(err) {
		return ""
	}
	if errors.Is(err, ErrEmptyModelResponse) {
		return emptyResponseMessage
	}
	if errors.Is(err, ErrInvalidOptions) {
		return err.Error()
	}

	var se *llm.ServiceError
	if errors.As(err, &se) {
		if se.Message != "" {
			return se.Message
		}
		if se.Err != nil {
			return se.Err.Error()
		}
	}
	return genericFailure
}
