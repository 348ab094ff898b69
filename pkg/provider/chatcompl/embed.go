package chatcompl

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rhuss/bruecke/pkg/api"
	"github.com/rhuss/bruecke/pkg/debug"
	"github.com/rhuss/bruecke/pkg/provider"
)

// Embed performs one embedding call against /embeddings. Oversized batches
// are rejected before any network I/O. Returned embeddings are re-sorted by
// index so they always match the input order.
func (s *Strategy) Embed(ctx context.Context, call *provider.EmbedCall) (*api.EmbedResult, error) {
	if call.MaxPerCall > 0 && len(call.Values) > call.MaxPerCall {
		return nil, &api.TooManyValuesError{
			ModelID: call.ModelID,
			Limit:   call.MaxPerCall,
			Got:     len(call.Values),
		}
	}

	req := embeddingRequest{
		Model:  call.ModelID,
		Input:  call.Values,
		Params: call.Params,
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("chatcompl: marshal request: %w", err)
	}

	url := s.dest.BaseURL + "/embeddings"
	debug.Log("providers", "request", "method", "POST", "url", url,
		"model", call.ModelID, "values", len(call.Values))

	httpResp, err := s.do(ctx, url, body, false)
	if err != nil {
		return nil, provider.WrapCallError("embed", url, body, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, provider.WrapCallError("embed", url, body, provider.HTTPStatusError(httpResp))
	}

	var embResp embeddingResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&embResp); err != nil {
		return nil, provider.WrapCallError("embed", url, body,
			fmt.Errorf("parse backend response: %w", err))
	}

	// The backend may return data out of order; index is authoritative.
	sort.Slice(embResp.Data, func(i, j int) bool {
		return embResp.Data[i].Index < embResp.Data[j].Index
	})

	embeddings := make([][]float32, 0, len(embResp.Data))
	for _, d := range embResp.Data {
		embeddings = append(embeddings, d.Embedding)
	}

	result := &api.EmbedResult{Embeddings: embeddings}
	if embResp.Usage != nil {
		tokens := embResp.Usage.PromptTokens
		if tokens == 0 {
			tokens = embResp.Usage.TotalTokens
		}
		result.Usage = api.EmbeddingUsage{Tokens: tokens}
	}
	return result, nil
}
