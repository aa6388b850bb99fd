package factory

import (
	"testing"
	"time"

	"health-portal-be/pkg/llm/ollama"
	"health-portal-be/pkg/llm/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider("ollama", "llama3", "", "", time.Second)
	require.NoError(t, err)
	assert.IsType(t, &ollama.OllamaProvider{}, p)

	p, err = NewLLMProvider("openai", "shivaay", "https://example.test/v1", "k", time.Second)
	require.NoError(t, err)
	assert.IsType(t, &openai.Provider{}, p)

	_, err = NewLLMProvider("openai", "shivaay", "", "k", time.Second)
	assert.Error(t, err)

	_, err = NewLLMProvider("gemini", "x", "", "", time.Second)
	assert.Error(t, err)
}
