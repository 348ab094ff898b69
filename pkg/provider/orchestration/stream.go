package orchestration

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rhuss/bruecke/pkg/provider"
)

// parseSSEStream reads orchestration SSE chunks and drives the stream
// normalizer. The request id and the last seen module diagnostics carry
// into the terminal finish event as provider metadata.
func parseSSEStream(ctx context.Context, body io.Reader, norm *provider.Normalizer, operation, url string, reqBody []byte) {
	scanner := bufio.NewScanner(body)

	var requestID string
	var moduleResults map[string]any

	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimPrefix(line, "data: ")

		if payload == "[DONE]" {
			norm.Finish(providerMetadata(requestID, moduleResults))
			return
		}

		var chunk completionChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			slog.Warn("skipping malformed SSE chunk",
				"error", err.Error(),
				"data", provider.Truncate(payload, 200),
			)
			continue
		}

		if chunk.RequestID != "" {
			requestID = chunk.RequestID
		}
		if len(chunk.ModuleResults) > 0 {
			moduleResults = chunk.ModuleResults
		}

		applyChunk(&chunk.OrchestrationResult, norm)
	}

	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return
		}
		norm.Error(provider.WrapCallError(operation, url, reqBody, err))
		return
	}

	norm.Finish(providerMetadata(requestID, moduleResults))
}

func applyChunk(chunk *orchestrationChunk, norm *provider.Normalizer) {
	norm.Metadata(chunk.ID, chunk.Model, time.Unix(chunk.Created, 0).UTC())

	if chunk.Usage != nil {
		norm.SetUsage(provider.UsageFromChat(chunk.Usage))
	}

	if len(chunk.Choices) == 0 {
		return
	}
	choice := chunk.Choices[0]

	for _, tc := range choice.Delta.ToolCalls {
		norm.ToolCallDelta(tc.Index, tc.ID, tc.Function.Name, tc.Function.Arguments)
	}

	if choice.Delta.Content != nil {
		norm.TextDelta(*choice.Delta.Content)
	}

	if choice.FinishReason != nil && *choice.FinishReason != "" {
		norm.SetFinishReason(*choice.FinishReason)
	}
}
