package domain

// GenerateRequest describes a single LLM completion request. Shared between
// the generation use case and the runtime transport.
type GenerateRequest struct {
	Model       string
	Prompt      string
	Temperature float64
	MaxTokens   int
	Stop        []string
}
