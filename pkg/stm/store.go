package stm

import (
	"context"
	"fmt"

	"health-portal-be/internal/entity"
	"health-portal-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// MessageStore is the durable side of the cache.
type MessageStore interface {
	// FindRecent returns at most limit messages, newest first.
	FindRecent(ctx context.Context, conversationId uuid.UUID, limit int) ([]*entity.Message, error)
	Append(ctx context.Context, message *entity.Message) error
}

type repositoryStore struct {
	uowFactory unitofwork.RepositoryFactory
}

// NewMessageStore backs the cache with the message repository.
func NewMessageStore(uowFactory unitofwork.RepositoryFactory) MessageStore {
	return &repositoryStore{uowFactory: uowFactory}
}

func (s *repositoryStore) FindRecent(ctx context.Context, conversationId uuid.UUID, limit int) ([]*entity.Message, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.MessageRepository().FindRecent(ctx, conversationId, limit)
}

func (s *repositoryStore) Append(ctx context.Context, message *entity.Message) error {
	if !message.Sender.Valid() {
		return fmt.Errorf("unknown message sender %q", message.Sender)
	}
	if !message.Kind.Valid() {
		return fmt.Errorf("unknown message kind %q", message.Kind)
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.MessageRepository().Create(ctx, message)
}
