package orchestration

import (
	"net/http"
	"time"

	"github.com/rhuss/bruecke/pkg/api"
	"github.com/rhuss/bruecke/pkg/provider"
)

// toResult maps a non-streaming orchestration response into the unified
// result. The request id and module diagnostics surface as provider
// metadata; the generation outcome nests under orchestration_result.
func toResult(resp *completionResponse, headers http.Header, reqBody []byte, warnings []api.Warning) *api.Result {
	or := resp.OrchestrationResult

	result := &api.Result{
		Usage:            provider.UsageFromChat(or.Usage),
		Warnings:         warnings,
		ProviderMetadata: providerMetadata(resp.RequestID, resp.ModuleResults),
		Request:          api.RequestInfo{Body: reqBody},
		Response: api.ResponseInfo{
			ID:        or.ID,
			ModelID:   or.Model,
			Timestamp: time.Unix(or.Created, 0).UTC(),
			Headers:   headers,
		},
	}

	if len(or.Choices) == 0 {
		result.FinishReason = api.FinishReason{Unified: api.FinishError}
		return result
	}

	choice := or.Choices[0]
	text := ""
	if choice.Message.Content != nil {
		text = *choice.Message.Content
	}
	result.Content = provider.ContentBlocks(text, choice.Message.ToolCalls)
	result.FinishReason = provider.MapFinishReason(choice.FinishReason)
	return result
}

// providerMetadata builds the metadata map carried on results and finish
// events. Empty values yield nil so callers can test for presence.
func providerMetadata(requestID string, moduleResults map[string]any) map[string]any {
	if requestID == "" && len(moduleResults) == 0 {
		return nil
	}
	meta := make(map[string]any)
	if requestID != "" {
		meta["requestId"] = requestID
	}
	if len(moduleResults) > 0 {
		meta["moduleResults"] = moduleResults
	}
	return meta
}
