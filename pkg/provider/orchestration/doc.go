// Package orchestration implements the provider strategy for the
// orchestration dialect. Requests wrap the conversation and model
// parameters into an orchestration_config with per-module configuration
// blocks (llm, templating, masking, filtering, grounding, translation);
// responses nest a chat-completion-shaped orchestration_result.
//
// The module blocks are shaped and passed through as-is. Their semantics
// live server-side.
package orchestration
