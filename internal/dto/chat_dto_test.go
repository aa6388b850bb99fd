package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSendMessageRequest_Resolve(t *testing.T) {
	cases := []struct {
		name     string
		req      SendMessageRequest
		wantConv string
		wantText string
	}{
		{"current fields", SendMessageRequest{ConversationId: "c1", Message: "Hello"}, "c1", "Hello"},
		{"legacy fields", SendMessageRequest{ConvId: "c2", Text: "Hi"}, "c2", "Hi"},
		{"current wins", SendMessageRequest{ConversationId: "c1", ConvId: "c2", Message: "a", Text: "b"}, "c1", "a"},
		{"blank message falls back", SendMessageRequest{ConversationId: "c1", Message: "  ", Text: "Hello"}, "c1", "Hello"},
		{"blank conversation falls back", SendMessageRequest{ConversationId: " ", ConvId: "c2", Message: "x"}, "c2", "x"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantConv, tc.req.ResolvedConversationId())
			assert.Equal(t, tc.wantText, tc.req.ResolvedText())
		})
	}
}
