// Package response turns an assembled context and the user's message into a
// single LLM call.
package response

import (
	"context"
	"fmt"
	"time"

	"health-portal-be/internal/constant"
	"health-portal-be/internal/metrics"
	"health-portal-be/pkg/llm"
	"health-portal-be/pkg/stm"
)

const (
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 800
)

// Generator is stateless; every call carries its full context.
type Generator struct {
	llmProvider llm.LLMProvider
	temperature float64
	maxTokens   int
}

func NewGenerator(llmProvider llm.LLMProvider, temperature float64, maxTokens int) *Generator {
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Generator{
		llmProvider: llmProvider,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// BuildMessages lays out the request: system instruction, optional medical
// summary, prior turns in order, then the new user message.
func BuildMessages(userText string, history []stm.Turn, medicalSummary string) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+3)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: constant.AssistantSystemPrompt})
	if medicalSummary != "" {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: constant.MedicalSummaryPrefix + medicalSummary})
	}
	for _, turn := range history {
		messages = append(messages, llm.Message{Role: string(turn.Role), Content: turn.Text})
	}
	return append(messages, llm.Message{Role: llm.RoleUser, Content: userText})
}

// Generate returns the raw (uncleaned) reply. Errors are not retried.
func (g *Generator) Generate(ctx context.Context, userText string, history []stm.Turn, medicalSummary string) (string, error) {
	return g.chat(ctx, "chat", BuildMessages(userText, history, medicalSummary))
}

// Complete sends a one-off prompt under the assistant system instruction.
// Used for report summaries and explanations.
func (g *Generator) Complete(ctx context.Context, purpose, prompt string) (string, error) {
	return g.chat(ctx, purpose, BuildMessages(prompt, nil, ""))
}

func (g *Generator) chat(ctx context.Context, purpose string, messages []llm.Message) (string, error) {
	start := time.Now()
	reply, err := g.llmProvider.Chat(ctx, messages,
		llm.WithTemperature(g.temperature),
		llm.WithMaxTokens(g.maxTokens),
	)
	metrics.LLMLatency.WithLabelValues(purpose).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("llm %s: %w", purpose, err)
	}
	return reply, nil
}
