package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/moneta/internal/model"
)

// NewProvider creates an LLM provider based on configuration. An empty
// provider name returns nil, which disables generation: the ask command
// refuses to run without a generator rather than fabricating answers.
func NewProvider(config model.LLMConfig, httpCfg model.HTTPConfig) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config, httpCfg)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}
