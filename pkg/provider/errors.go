package provider

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rhuss/bruecke/pkg/api"
)

// maxRequestSummary caps how much of an outbound request body an error may
// carry, so large prompts never leak into logs or telemetry.
const maxRequestSummary = 512

// Truncate limits a string to maxLen characters for log and error output.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// WrapCallError wraps a backend client failure into the standardized call
// error carrying the operation name, target URL, and a size-capped summary
// of the outbound request.
func WrapCallError(operation, url string, requestBody []byte, cause error) *api.APICallError {
	return api.NewAPICallError(operation, url, Truncate(string(requestBody), maxRequestSummary), cause)
}

// HTTPStatusError turns a non-2xx backend response into an error with the
// backend's own message when the body parses as the shared error shape.
func HTTPStatusError(resp *http.Response) error {
	message := ExtractErrorMessage(resp.Body)
	if message == "" {
		return fmt.Errorf("backend returned HTTP %d", resp.StatusCode)
	}
	return fmt.Errorf("backend returned HTTP %d: %s", resp.StatusCode, message)
}

// ExtractErrorMessage tries to parse an error response body and returns
// the backend's message, or "" when none is recognizable. At most 4KiB of
// the body is read.
func ExtractErrorMessage(body io.Reader) string {
	if body == nil {
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var errResp ChatErrorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}

	// Some dialects report {"message": "..."} at the top level.
	var flat struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &flat); err == nil && flat.Message != "" {
		return flat.Message
	}

	return ""
}
