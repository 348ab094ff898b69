package chatcompl

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/rhuss/bruecke/pkg/api"
	"github.com/rhuss/bruecke/pkg/provider"
)

func TestEmbed(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	s := newTestStrategy(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		// Data returned out of order: index is authoritative.
		io.WriteString(w, `{
			"object": "list",
			"model": "text-embed-1",
			"data": [
				{"index": 1, "embedding": [0.3, 0.4]},
				{"index": 0, "embedding": [0.1, 0.2]}
			],
			"usage": {"prompt_tokens": 8, "total_tokens": 8}
		}`)
	})

	result, err := s.Embed(context.Background(), &provider.EmbedCall{
		ModelID:    "text-embed-1",
		Values:     []string{"first", "second"},
		MaxPerCall: 2048,
		Params:     map[string]any{"dimensions": 2},
	})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	if gotPath != "/embeddings" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody["model"] != "text-embed-1" {
		t.Errorf("request model = %v", gotBody["model"])
	}
	if gotBody["dimensions"] != float64(2) {
		t.Errorf("dimensions = %v, want passthrough", gotBody["dimensions"])
	}
	input, ok := gotBody["input"].([]any)
	if !ok || len(input) != 2 || input[0] != "first" {
		t.Errorf("input = %v", gotBody["input"])
	}

	if len(result.Embeddings) != 2 {
		t.Fatalf("embeddings = %d, want 2", len(result.Embeddings))
	}
	if result.Embeddings[0][0] != 0.1 || result.Embeddings[1][0] != 0.3 {
		t.Errorf("embeddings not re-sorted by index: %v", result.Embeddings)
	}
	if result.Usage.Tokens != 8 {
		t.Errorf("usage tokens = %d", result.Usage.Tokens)
	}
}

func TestEmbedTooManyValues(t *testing.T) {
	requests := 0
	s := newTestStrategy(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	_, err := s.Embed(context.Background(), &provider.EmbedCall{
		ModelID:    "text-embed-1",
		Values:     []string{"a", "b", "c"},
		MaxPerCall: 2,
	})
	if err == nil {
		t.Fatal("expected error for oversized batch")
	}

	var tooMany *api.TooManyValuesError
	if !errors.As(err, &tooMany) {
		t.Fatalf("error = %T, want *api.TooManyValuesError", err)
	}
	if tooMany.Limit != 2 || tooMany.Got != 3 || tooMany.ModelID != "text-embed-1" {
		t.Errorf("error = %+v", tooMany)
	}
	if requests != 0 {
		t.Errorf("backend was called %d times, the batch check must run before I/O", requests)
	}
}

func TestEmbedBackendError(t *testing.T) {
	s := newTestStrategy(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"message":"unknown model"}}`)
	})

	_, err := s.Embed(context.Background(), &provider.EmbedCall{
		ModelID:    "nope",
		Values:     []string{"a"},
		MaxPerCall: 2048,
	})
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	var callErr *api.APICallError
	if !errors.As(err, &callErr) {
		t.Fatalf("error = %T, want *api.APICallError", err)
	}
	if !containsAll(callErr.Error(), "400", "unknown model") {
		t.Errorf("error = %q", callErr)
	}
}
