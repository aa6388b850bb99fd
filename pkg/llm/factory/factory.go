package factory

import (
	"fmt"
	"time"

	"health-portal-be/pkg/llm"
	"health-portal-be/pkg/llm/ollama"
	"health-portal-be/pkg/llm/openai"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string, timeout time.Duration) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, modelName, timeout), nil
	case "openai":
		if baseURL == "" {
			return nil, fmt.Errorf("openai-compatible provider requires a base URL")
		}
		return openai.NewProvider(apiKey, baseURL, modelName, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
