package chatcompl

import (
	"net/http"
	"time"

	"github.com/rhuss/bruecke/pkg/api"
	"github.com/rhuss/bruecke/pkg/provider"
)

// toResult maps a non-streaming backend response into the unified result.
// Only choices[0] is used; content blocks keep their order, text first,
// then one tool-call block per backend tool call.
func toResult(resp *chatCompletionResponse, headers http.Header, reqBody []byte, warnings []api.Warning) *api.Result {
	result := &api.Result{
		Usage:    provider.UsageFromChat(resp.Usage),
		Warnings: warnings,
		Request:  api.RequestInfo{Body: reqBody},
		Response: api.ResponseInfo{
			ID:        resp.ID,
			ModelID:   resp.Model,
			Timestamp: time.Unix(resp.Created, 0).UTC(),
			Headers:   headers,
		},
	}

	if len(resp.Choices) == 0 {
		// The backend produced no output at all.
		result.FinishReason = api.FinishReason{Unified: api.FinishError}
		return result
	}

	choice := resp.Choices[0]
	text := ""
	if choice.Message.Content != nil {
		text = *choice.Message.Content
	}
	result.Content = provider.ContentBlocks(text, choice.Message.ToolCalls)
	result.FinishReason = provider.MapFinishReason(choice.FinishReason)
	return result
}
