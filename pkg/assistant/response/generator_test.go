package response

import (
	"context"
	"errors"
	"testing"

	"health-portal-be/internal/constant"
	"health-portal-be/pkg/llm"
	"health-portal-be/pkg/stm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProvider struct {
	messages []llm.Message
	options  llm.Options
	reply    string
	err      error
}

func (p *recordingProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.messages = history
	for _, o := range options {
		o(&p.options)
	}
	return p.reply, p.err
}

func (p *recordingProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}

func TestBuildMessages(t *testing.T) {
	history := []stm.Turn{
		{Role: stm.RoleUser, Text: "I have a headache"},
		{Role: stm.RoleAssistant, Text: "How long?"},
	}

	got := BuildMessages("Two days", history, "Report: CBC\nSummary: Normal")

	require.Len(t, got, 5)
	assert.Equal(t, llm.Message{Role: "system", Content: constant.AssistantSystemPrompt}, got[0])
	assert.Equal(t, llm.Message{Role: "system", Content: "Patient Medical Summary:\nReport: CBC\nSummary: Normal"}, got[1])
	assert.Equal(t, llm.Message{Role: "user", Content: "I have a headache"}, got[2])
	assert.Equal(t, llm.Message{Role: "assistant", Content: "How long?"}, got[3])
	assert.Equal(t, llm.Message{Role: "user", Content: "Two days"}, got[4])
}

func TestBuildMessages_NoSummaryNoHistory(t *testing.T) {
	got := BuildMessages("Hello", nil, "")

	require.Len(t, got, 2)
	assert.Equal(t, "system", got[0].Role)
	assert.Equal(t, llm.Message{Role: "user", Content: "Hello"}, got[1])
}

func TestGenerate_PassesSamplingOptions(t *testing.T) {
	p := &recordingProvider{reply: "**Hi** there"}
	g := NewGenerator(p, 0, 0)

	out, err := g.Generate(context.Background(), "Hello", nil, "")
	require.NoError(t, err)

	assert.Equal(t, "**Hi** there", out, "generator returns raw text")
	assert.InDelta(t, 0.3, p.options.Temperature, 1e-9)
	assert.Equal(t, 800, p.options.MaxTokens)
}

func TestGenerate_Error(t *testing.T) {
	p := &recordingProvider{err: errors.New("timeout")}
	g := NewGenerator(p, 0.3, 800)

	_, err := g.Generate(context.Background(), "Hello", nil, "")
	assert.ErrorContains(t, err, "timeout")
}
