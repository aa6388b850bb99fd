package entity

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	Id        uuid.UUID
	UserId    string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy reports whether userId owns the conversation. Owner never changes
// after creation.
func (c *Conversation) OwnedBy(userId string) bool {
	return c != nil && c.UserId == userId
}
