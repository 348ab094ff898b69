// Package model exposes the provider-agnostic model facades consumed by
// application code. A LanguageModel holds one model's identity and settings,
// selects a backend strategy per call, and instruments calls with metrics.
// An EmbeddingModel does the same for embedding calls. The Provider factory
// assembles facades from resolved configuration.
package model
