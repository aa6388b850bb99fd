package entity

import (
	"time"

	"github.com/google/uuid"
)

type MessageSender string

const (
	SenderUser      MessageSender = "USER"
	SenderAssistant MessageSender = "ASSISTANT"
)

func (s MessageSender) Valid() bool {
	return s == SenderUser || s == SenderAssistant
}

type MessageKind string

const (
	MessageKindText  MessageKind = "TEXT"
	MessageKindVoice MessageKind = "VOICE"
)

func (k MessageKind) Valid() bool {
	return k == MessageKindText || k == MessageKindVoice
}

// Message is immutable once created. Id is a UUIDv7 so id order follows
// generation order when two messages share a timestamp.
type Message struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	Sender         MessageSender
	Content        string
	Kind           MessageKind
	CreatedAt      time.Time
}
