package llm

import (
	"context"
	"errors"
	"fmt"
)

// Client abstracts the text-generation backend used for analysis,
// keyword extraction and rewriting.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyPrompt is returned when a caller passes an empty or
// whitespace-only prompt.
var ErrEmptyPrompt = errors.New("prompt cannot be empty")

// TimeoutError is returned after the retry budget for timeouts is exhausted.
type TimeoutError struct {
	Attempts int
	Model    string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf(
		"llm request timed out after %d attempts: model %q may still be loading or too large; try a smaller model or raise OLLAMA_TIMEOUT_SECONDS",
		e.Attempts, e.Model,
	)
}

// UnavailableError indicates the LLM process is not reachable at all.
// Connection failures are not retried: the service is either up or not.
type UnavailableError struct {
	URL string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("cannot connect to llm service at %s: ensure ollama is running (ollama serve)", e.URL)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// ModelErrorKind distinguishes a missing model from a broken one.
type ModelErrorKind int

const (
	// ModelNotFound maps HTTP 404 from the backend.
	ModelNotFound ModelErrorKind = iota
	// ModelInternal maps HTTP 500 from the backend.
	ModelInternal
)

// ModelError is returned for model-specific HTTP failures.
type ModelError struct {
	Kind  ModelErrorKind
	Model string
}

func (e *ModelError) Error() string {
	switch e.Kind {
	case ModelNotFound:
		return fmt.Sprintf("model %q not found: pull it first with `ollama pull %s`", e.Model, e.Model)
	default:
		return fmt.Sprintf("llm internal error with model %q: restart ollama or re-pull the model", e.Model)
	}
}

// ServiceError covers non-2xx statuses that are neither 404 nor 500.
type ServiceError struct {
	Status int
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("llm service error: HTTP %d", e.Status)
}
