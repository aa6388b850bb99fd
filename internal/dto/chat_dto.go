package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type StartConversationRequest struct {
	Title string `json:"title"`
}

type StartConversationResponse struct {
	ConversationId uuid.UUID `json:"conversationId"`
	ConvId         uuid.UUID `json:"convId"`
	UserId         string    `json:"userId"`
	Title          string    `json:"title"`
	CreatedAt      time.Time `json:"createdAt"`
}

type ConversationResponse struct {
	Id            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	LastMessage   string     `json:"lastMessage,omitempty"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type MessageResponse struct {
	Id             uuid.UUID `json:"id"`
	ConversationId uuid.UUID `json:"conversationId"`
	Role           string    `json:"role"`
	Sender         string    `json:"sender"`
	Text           string    `json:"text"`
	Kind           string    `json:"kind"`
	Timestamp      time.Time `json:"timestamp"`
}

// SendMessageRequest accepts both the current field names and the ones older
// clients send (convId, text).
type SendMessageRequest struct {
	ConversationId string `json:"conversationId"`
	ConvId         string `json:"convId"`
	Message        string `json:"message"`
	Text           string `json:"text"`
	IsVoice        bool   `json:"isVoice"`
}

// Blank values fall through to the legacy field.
func (r *SendMessageRequest) ResolvedConversationId() string {
	if strings.TrimSpace(r.ConversationId) != "" {
		return r.ConversationId
	}
	return r.ConvId
}

func (r *SendMessageRequest) ResolvedText() string {
	if strings.TrimSpace(r.Message) != "" {
		return r.Message
	}
	return r.Text
}

// SendMessageResponse carries both turns; the top level fields mirror the
// assistant reply for clients that only read a single message.
type SendMessageResponse struct {
	ConversationId uuid.UUID         `json:"conversationId"`
	Messages       []MessageResponse `json:"messages"`
	Id             uuid.UUID         `json:"id"`
	Message        string            `json:"message"`
	Text           string            `json:"text"`
	Timestamp      time.Time         `json:"timestamp"`
}
