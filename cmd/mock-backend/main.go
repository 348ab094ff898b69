// Command mock-backend runs a deterministic dual-dialect model-serving
// backend for local development and conformance testing. It serves the raw
// Chat Completions dialect (/chat/completions, /embeddings) and the
// orchestration dialect (/completion), both with SSE streaming, and returns
// predictable responses based on request content.
//
// Configuration:
//
//	MOCK_PORT - Listen port (default: 9090)
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rhuss/bruecke/pkg/observability"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(echo.WrapMiddleware(observability.MetricsMiddleware))

	e.POST("/chat/completions", handleChatCompletions)
	e.POST("/embeddings", handleEmbeddings)
	e.POST("/completion", handleOrchestration)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok\n")
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock backend starting", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			slog.Error("mock backend failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock backend shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	e.Shutdown(shutdownCtx)
}

// --- Request types ---

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Tools    []any         `json:"tools,omitempty"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type orchestrationRequest struct {
	OrchestrationConfig struct {
		ModuleConfigurations struct {
			LLM struct {
				ModelName string `json:"model_name"`
			} `json:"llm_module_config"`
			Templating struct {
				Template []chatMessage `json:"template"`
				Tools    []any         `json:"tools,omitempty"`
			} `json:"templating_module_config"`
		} `json:"module_configurations"`
		Stream bool `json:"stream"`
	} `json:"orchestration_config"`
	InputParams map[string]any `json:"input_params,omitempty"`
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// --- Response types ---

type chatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Index        int     `json:"index"`
	Message      chatMsg `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type chatMsg struct {
	Role      string     `json:"role"`
	Content   *string    `json:"content"`
	ToolCalls []toolCall `json:"tool_calls,omitempty"`
}

type toolCall struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Function funcCall `json:"function"`
}

type funcCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// --- Chat Completions dialect ---

func handleChatCompletions(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSONBlob(http.StatusBadRequest,
			[]byte(`{"error":{"message":"invalid request","type":"invalid_request_error"}}`))
	}

	if req.Stream {
		return streamChat(c, &req)
	}

	resp := classifyAndRespond(&req)
	resp.Model = modelOrDefault(req.Model)
	return c.JSON(http.StatusOK, resp)
}

func classifyAndRespond(req *chatRequest) chatResponse {
	if len(req.Tools) > 0 {
		return toolCallResponse()
	}
	return makeTextResponse(replyFor(lastUserMessage(req.Messages)))
}

// replyFor generates a deterministic answer for well-known prompts.
func replyFor(prompt string) string {
	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(lower, "count from 1 to 5"):
		return "1, 2, 3, 4, 5"
	case strings.Contains(lower, "hallo"):
		return "Guten Tag!"
	default:
		return "Hello, nice day!"
	}
}

func toolCallResponse() chatResponse {
	return chatResponse{
		ID:      "chatcmpl-mock-tool",
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Choices: []chatChoice{
			{
				Index: 0,
				Message: chatMsg{
					Role: "assistant",
					ToolCalls: []toolCall{
						{
							ID:   "call_mock_1",
							Type: "function",
							Function: funcCall{
								Name:      "get_weather",
								Arguments: `{"location":"San Francisco","unit":"celsius"}`,
							},
						},
					},
				},
				FinishReason: "tool_calls",
			},
		},
		Usage: chatUsage{PromptTokens: 20, CompletionTokens: 15, TotalTokens: 35},
	}
}

func makeTextResponse(text string) chatResponse {
	return chatResponse{
		ID:      "chatcmpl-mock-text",
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Choices: []chatChoice{
			{
				Index: 0,
				Message: chatMsg{
					Role:    "assistant",
					Content: &text,
				},
				FinishReason: "stop",
			},
		},
		Usage: chatUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}
}

func streamChat(c echo.Context, req *chatRequest) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	model := modelOrDefault(req.Model)
	tokens := tokenize(replyFor(lastUserMessage(req.Messages)))

	writeChunk(w, "chatcmpl-mock-stream", model, map[string]any{"role": "assistant"}, nil, nil)
	for _, token := range tokens {
		writeChunk(w, "chatcmpl-mock-stream", model, map[string]any{"content": token}, nil, nil)
	}
	finish := "stop"
	writeChunk(w, "chatcmpl-mock-stream", model, map[string]any{}, &finish, &chatUsage{
		PromptTokens:     10,
		CompletionTokens: len(tokens),
		TotalTokens:      10 + len(tokens),
	})
	fmt.Fprintf(w, "data: [DONE]\n\n")
	w.Flush()
	return nil
}

// --- Orchestration dialect ---

func handleOrchestration(c echo.Context) error {
	var req orchestrationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSONBlob(http.StatusBadRequest,
			[]byte(`{"error":{"message":"invalid orchestration request"}}`))
	}

	model := modelOrDefault(req.OrchestrationConfig.ModuleConfigurations.LLM.ModelName)
	template := req.OrchestrationConfig.ModuleConfigurations.Templating.Template

	if req.OrchestrationConfig.Stream {
		return streamOrchestration(c, model, template)
	}

	var result chatResponse
	if len(req.OrchestrationConfig.ModuleConfigurations.Templating.Tools) > 0 {
		result = toolCallResponse()
	} else {
		result = makeTextResponse(replyFor(lastUserMessage(template)))
	}
	result.Model = model

	return c.JSON(http.StatusOK, map[string]any{
		"request_id":           "req-mock-1",
		"module_results":       map[string]any{"templating": template},
		"orchestration_result": result,
	})
}

func streamOrchestration(c echo.Context, model string, template []chatMessage) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	tokens := tokenize(replyFor(lastUserMessage(template)))

	writeOrchChunk(w, model, map[string]any{"role": "assistant"}, nil, nil)
	for _, token := range tokens {
		writeOrchChunk(w, model, map[string]any{"content": token}, nil, nil)
	}
	finish := "stop"
	writeOrchChunk(w, model, map[string]any{}, &finish, &chatUsage{
		PromptTokens:     10,
		CompletionTokens: len(tokens),
		TotalTokens:      10 + len(tokens),
	})
	fmt.Fprintf(w, "data: [DONE]\n\n")
	w.Flush()
	return nil
}

// --- Embeddings ---

func handleEmbeddings(c echo.Context) error {
	var req embeddingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSONBlob(http.StatusBadRequest,
			[]byte(`{"error":{"message":"invalid embedding request"}}`))
	}

	data := make([]map[string]any, len(req.Input))
	for i, value := range req.Input {
		// Deterministic two-dimensional embedding derived from the input.
		data[i] = map[string]any{
			"object":    "embedding",
			"index":     i,
			"embedding": []float32{float32(len(value)), float32(i)},
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"object": "list",
		"model":  modelOrDefault(req.Model),
		"data":   data,
		"usage": map[string]any{
			"prompt_tokens": len(req.Input) * 2,
			"total_tokens":  len(req.Input) * 2,
		},
	})
}

// --- SSE helpers ---

func writeChunk(w *echo.Response, id, model string, delta map[string]any, finish *string, usage *chatUsage) {
	chunk := map[string]any{
		"id":      id,
		"object":  "chat.completion.chunk",
		"created": time.Now().Unix(),
		"model":   model,
		"choices": []any{
			map[string]any{"index": 0, "delta": delta, "finish_reason": finish},
		},
	}
	if usage != nil {
		chunk["usage"] = usage
	}
	writeSSE(w, chunk)
}

func writeOrchChunk(w *echo.Response, model string, delta map[string]any, finish *string, usage *chatUsage) {
	inner := map[string]any{
		"id":      "chatcmpl-mock-orch",
		"object":  "chat.completion.chunk",
		"created": time.Now().Unix(),
		"model":   model,
		"choices": []any{
			map[string]any{"index": 0, "delta": delta, "finish_reason": finish},
		},
	}
	if usage != nil {
		inner["usage"] = usage
	}
	writeSSE(w, map[string]any{
		"request_id":           "req-mock-1",
		"orchestration_result": inner,
	})
}

func writeSSE(w *echo.Response, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshaling SSE chunk failed", "error", err)
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	w.Flush()
}

// --- Helpers ---

func modelOrDefault(model string) string {
	if model == "" {
		return "mock-model"
	}
	return model
}

func tokenize(text string) []string {
	words := strings.SplitAfter(text, " ")
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if word != "" {
			tokens = append(tokens, word)
		}
	}
	return tokens
}

func lastUserMessage(messages []chatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != "user" {
			continue
		}
		switch v := messages[i].Content.(type) {
		case string:
			return v
		case []any:
			// Multimodal content array: find the first text part.
			for _, part := range v {
				if m, ok := part.(map[string]any); ok {
					if t, _ := m["type"].(string); t == "text" {
						if text, ok := m["text"].(string); ok {
							return text
						}
					}
				}
			}
		}
	}
	return ""
}
