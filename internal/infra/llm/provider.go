// Package llm — LLMProvider interface.
// Adapters (Groq, Ollama) implement this interface so the orchestrator is
// never coupled to a specific completion-service vendor.
package llm

import "context"

// LLMProvider is the model-agnostic interface for completion operations.
// Streaming is deliberately excluded: the turn contract is one request, one
// synthesized answer.
type LLMProvider interface {
	// ChatCompletion performs a non-streaming chat completion.
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// ModelInfo returns static metadata about the provider/model.
	ModelInfo() ModelMeta

	// HealthCheck returns nil if the provider is reachable and operational.
	HealthCheck(ctx context.Context) error
}
