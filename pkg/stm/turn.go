package stm

import "health-portal-be/internal/entity"

// Role is the speaker of a turn as the LLM sees it.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Sender maps the role onto the persisted sender enum.
func (r Role) Sender() entity.MessageSender {
	if r == RoleAssistant {
		return entity.SenderAssistant
	}
	return entity.SenderUser
}

// RoleFromSender is the inverse of Sender. ok is false for unknown senders.
func RoleFromSender(s entity.MessageSender) (Role, bool) {
	switch s {
	case entity.SenderUser:
		return RoleUser, true
	case entity.SenderAssistant:
		return RoleAssistant, true
	default:
		return "", false
	}
}

type Turn struct {
	Role Role
	Text string
}
