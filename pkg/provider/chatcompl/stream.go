package chatcompl

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

// parseSSEStream reads Chat Completions SSE chunks and drives the stream
// normalizer. It always leaves the normalizer in a terminal state: Finish
// on success, Error on a read failure. Context cancellation stops reading
// without a terminal event; the caller abandoned the stream.
//
// SSE format expected:
//
//	data: {"id":"...","choices":[...]}\n
//	\n
//	data: [DONE]\n
//	\n
//
// Malformed chunks are logged and skipped.
func parseSSEStream(ctx context.Context, body io.Reader, norm *provider.Normalizer, operation, url string, reqBody []byte) {
	scanner := bufio.NewScanner(body)

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
			norm.Finish(nil)
			return
		}

		var chunk chatCompletionChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			slog.Warn("skipping malformed SSE chunk",
				"error", err.Error(),
				"data", provider.Truncate(payload, 200),
			)
			continue
		}

		applyChunk(&chunk, norm)
	}

	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return
		}
		norm.Error(provider.WrapCallError(operation, url, reqBody, err))
		return
	}

	norm.Finish(nil)
}

// applyChunk feeds one native chunk into the normalizer.
func applyChunk(chunk *chatCompletionChunk, norm *provider.Normalizer) {
	norm.Metadata(chunk.ID, chunk.Model, time.Unix(chunk.Created, 0).UTC())

	// Usage can arrive on any chunk, including a usage-only terminal one
	// sent with stream_options.include_usage.
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
