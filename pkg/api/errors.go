package api

import "fmt"

// InvalidPromptError reports a structurally malformed conversation, such as
// an unrecognized message role. It is raised before any network call.
type InvalidPromptError struct {
	Message string
}

// Error implements the error interface.
func (e *InvalidPromptError) Error() string {
	return "invalid prompt: " + e.Message
}

// NewInvalidPromptError creates an InvalidPromptError with a formatted message.
func NewInvalidPromptError(format string, args ...any) *InvalidPromptError {
	return &InvalidPromptError{Message: fmt.Sprintf(format, args...)}
}

// UnsupportedFunctionalityError reports a requested feature the backend
// message format cannot represent, such as a non-image file part.
type UnsupportedFunctionalityError struct {
	Functionality string
	Message       string
}

// Error implements the error interface.
func (e *UnsupportedFunctionalityError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("unsupported functionality %q: %s", e.Functionality, e.Message)
	}
	return fmt.Sprintf("unsupported functionality %q", e.Functionality)
}

// NewUnsupportedFunctionalityError creates an UnsupportedFunctionalityError.
func NewUnsupportedFunctionalityError(functionality, message string) *UnsupportedFunctionalityError {
	return &UnsupportedFunctionalityError{Functionality: functionality, Message: message}
}

// TooManyValuesError reports an embedding batch exceeding the backend's
// per-call ceiling. It is raised before any network call.
type TooManyValuesError struct {
	ModelID string
	Limit   int
	Got     int
}

// Error implements the error interface.
func (e *TooManyValuesError) Error() string {
	return fmt.Sprintf("too many values for a single embedding call: model %s accepts at most %d values per call, got %d",
		e.ModelID, e.Limit, e.Got)
}

// APICallError wraps any failure from the underlying backend client. The
// request summary is size-capped so large prompts never leak into error
// logs or telemetry.
type APICallError struct {
	Operation      string
	URL            string
	RequestSummary string
	Cause          error
}

// Error implements the error interface.
func (e *APICallError) Error() string {
	return fmt.Sprintf("%s: request to %s failed: %v", e.Operation, e.URL, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *APICallError) Unwrap() error {
	return e.Cause
}

// NewAPICallError creates an APICallError.
func NewAPICallError(operation, url, requestSummary string, cause error) *APICallError {
	return &APICallError{
		Operation:      operation,
		URL:            url,
		RequestSummary: requestSummary,
		Cause:          cause,
	}
}
