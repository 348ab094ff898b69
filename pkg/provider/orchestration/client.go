package orchestration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rhuss/bruecke/pkg/api"
	"github.com/rhuss/bruecke/pkg/debug"
	"github.com/rhuss/bruecke/pkg/provider"
)

// Generate performs one non-streaming call against /completion and maps
// the nested orchestration result into the unified result.
func (s *Strategy) Generate(ctx context.Context, call *provider.Call) (*api.Result, error) {
	req, warnings, err := buildRequest(call)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("orchestration: marshal request: %w", err)
	}

	url := s.dest.BaseURL + "/completion"
	debug.Log("providers", "request", "method", "POST", "url", url,
		"model", call.ModelID, "stream", false)

	httpResp, err := s.do(ctx, url, body, false)
	if err != nil {
		return nil, provider.WrapCallError(s.Name(), url, body, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, provider.WrapCallError(s.Name(), url, body, provider.HTTPStatusError(httpResp))
	}

	var complResp completionResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&complResp); err != nil {
		return nil, provider.WrapCallError(s.Name(), url, body,
			fmt.Errorf("parse backend response: %w", err))
	}

	return toResult(&complResp, httpResp.Header, body, warnings), nil
}

// Stream opens a streaming call against /completion and transforms the SSE
// chunk sequence into the unified event protocol. Context cancellation
// controls the request lifetime; the client timeout is not applied.
func (s *Strategy) Stream(ctx context.Context, call *provider.Call) (*provider.StreamResponse, error) {
	req, warnings, err := buildRequest(call)
	if err != nil {
		return nil, err
	}
	req.OrchestrationConfig.Stream = true

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("orchestration: marshal request: %w", err)
	}

	url := s.dest.BaseURL + "/completion"
	debug.Log("providers", "request", "method", "POST", "url", url,
		"model", call.ModelID, "stream", true)

	httpResp, err := s.do(ctx, url, body, true)
	if err != nil {
		return nil, provider.WrapCallError(s.Name(), url, body, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		defer httpResp.Body.Close()
		return nil, provider.WrapCallError(s.Name(), url, body, provider.HTTPStatusError(httpResp))
	}

	norm := provider.NewNormalizer(32)
	go func() {
		defer norm.Close()
		defer httpResp.Body.Close()
		norm.Start(warnings)
		parseSSEStream(ctx, httpResp.Body, norm, s.Name(), url, body)
	}()

	return &provider.StreamResponse{
		Events:  norm.Events(),
		Request: api.RequestInfo{Body: body},
	}, nil
}

func (s *Strategy) do(ctx context.Context, url string, body []byte, streaming bool) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if streaming {
		httpReq.Header.Set("Accept", "text/event-stream")
	}
	if s.dest.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.dest.APIKey)
	}

	client := s.client
	if streaming {
		client = &http.Client{Transport: s.client.Transport}
	}
	return client.Do(httpReq)
}
