package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"health-portal-be/internal/dto"
	"health-portal-be/internal/entity"
	"health-portal-be/internal/metrics"
	"health-portal-be/internal/pkg/apperror"
	"health-portal-be/internal/pkg/logger"
	"health-portal-be/internal/repository/specification"
	"health-portal-be/internal/repository/unitofwork"
	"health-portal-be/pkg/assistant/assembler"
	"health-portal-be/pkg/events"
	"health-portal-be/pkg/keylock"
	"health-portal-be/pkg/markdown"
	pktNats "health-portal-be/pkg/nats"
	"health-portal-be/pkg/stm"

	"github.com/google/uuid"
)

const (
	chatLogModule  = "ChatService"
	titleMaxLength = 60
)

var errEmptyReply = errors.New("reply is empty after markdown cleanup")

type IChatService interface {
	StartConversation(ctx context.Context, userId string, req *dto.StartConversationRequest) (*dto.StartConversationResponse, error)
	GetConversations(ctx context.Context, userId string) ([]*dto.ConversationResponse, error)
	GetMessages(ctx context.Context, userId string, conversationId string) ([]*dto.MessageResponse, error)
	DeleteConversation(ctx context.Context, userId string, conversationId string) error
	SendMessage(ctx context.Context, userId string, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
}

// ReplyGenerator produces the assistant's raw reply for one turn.
type ReplyGenerator interface {
	Generate(ctx context.Context, userText string, history []stm.Turn, medicalSummary string) (string, error)
}

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	memory         *stm.Cache
	assembler      *assembler.Assembler
	generator      ReplyGenerator
	publisher      pktNats.EventPublisher
	logger         logger.ILogger
	turnLocks      *keylock.KeyLock
	serializeTurns bool
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	memory *stm.Cache,
	assembler *assembler.Assembler,
	generator ReplyGenerator,
	publisher pktNats.EventPublisher,
	log logger.ILogger,
	serializeTurns bool,
) IChatService {
	if publisher == nil {
		publisher = pktNats.NopPublisher{}
	}
	return &chatService{
		uowFactory:     uowFactory,
		memory:         memory,
		assembler:      assembler,
		generator:      generator,
		publisher:      publisher,
		logger:         log,
		turnLocks:      keylock.New(),
		serializeTurns: serializeTurns,
	}
}

func (c *chatService) StartConversation(ctx context.Context, userId string, req *dto.StartConversationRequest) (*dto.StartConversationResponse, error) {
	if userId == "" {
		return nil, apperror.Validation("userId is required")
	}

	now := time.Now()
	conversation := entity.Conversation{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     truncateTitle(req.Title),
		CreatedAt: now,
		UpdatedAt: now,
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ConversationRepository().Create(ctx, &conversation); err != nil {
		return nil, apperror.Internal("Failed to start conversation", err)
	}

	return &dto.StartConversationResponse{
		ConversationId: conversation.Id,
		ConvId:         conversation.Id,
		UserId:         conversation.UserId,
		Title:          conversation.Title,
		CreatedAt:      conversation.CreatedAt,
	}, nil
}

func (c *chatService) GetConversations(ctx context.Context, userId string) ([]*dto.ConversationResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, apperror.Internal("Failed to load conversations", err)
	}

	ids := make([]uuid.UUID, 0, len(conversations))
	for _, conv := range conversations {
		ids = append(ids, conv.Id)
	}
	latest, err := uow.MessageRepository().FindLatest(ctx, ids)
	if err != nil {
		return nil, apperror.Internal("Failed to load conversations", err)
	}

	result := make([]*dto.ConversationResponse, 0, len(conversations))
	for _, conv := range conversations {
		res := &dto.ConversationResponse{
			Id:        conv.Id,
			Title:     conv.Title,
			CreatedAt: conv.CreatedAt,
			UpdatedAt: conv.UpdatedAt,
		}
		if last, ok := latest[conv.Id]; ok {
			res.LastMessage = last.Content
			at := last.CreatedAt
			res.LastMessageAt = &at
		}
		result = append(result, res)
	}
	return result, nil
}

func (c *chatService) GetMessages(ctx context.Context, userId string, conversationId string) ([]*dto.MessageResponse, error) {
	conversation, err := c.ownedConversation(ctx, userId, conversationId)
	if err != nil {
		return nil, err
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversation.Id},
		specification.ChronologicalMessages{},
	)
	if err != nil {
		return nil, apperror.Internal("Failed to load messages", err)
	}

	result := make([]*dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		result = append(result, toMessageResponse(m))
	}
	return result, nil
}

func (c *chatService) DeleteConversation(ctx context.Context, userId string, conversationId string) error {
	conversation, err := c.ownedConversation(ctx, userId, conversationId)
	if err != nil {
		return err
	}

	unlock := c.lockTurn(conversation.Id)
	defer unlock()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return apperror.Internal("Failed to delete conversation", err)
	}
	defer uow.Rollback()

	if err := uow.MessageRepository().DeleteByConversationId(ctx, conversation.Id); err != nil {
		return apperror.Internal("Failed to delete conversation", err)
	}
	if err := uow.ConversationRepository().Delete(ctx, conversation.Id); err != nil {
		return apperror.Internal("Failed to delete conversation", err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.Internal("Failed to delete conversation", err)
	}

	c.memory.Evict(conversation.Id)
	return nil
}

// SendMessage runs one chat turn. The context window is assembled before the
// user's message is appended, so the model sees that message exactly once.
func (c *chatService) SendMessage(ctx context.Context, userId string, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	text := strings.TrimSpace(req.ResolvedText())
	if userId == "" || req.ResolvedConversationId() == "" || text == "" {
		metrics.ChatTurnsTotal.WithLabelValues("rejected").Inc()
		return nil, apperror.Validation("Missing required fields")
	}

	conversation, err := c.ownedConversation(ctx, userId, req.ResolvedConversationId())
	if err != nil {
		metrics.ChatTurnsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	unlock := c.lockTurn(conversation.Id)
	defer unlock()

	if _, err := c.memory.EnsureLoaded(ctx, conversation.Id); err != nil {
		metrics.ChatTurnsTotal.WithLabelValues("hydration_failed").Inc()
		return nil, apperror.Internal("Failed to load conversation history", err)
	}

	turnContext, err := c.assembler.Assemble(ctx, conversation.Id, userId)
	if err != nil {
		metrics.ChatTurnsTotal.WithLabelValues("hydration_failed").Inc()
		return nil, apperror.Internal("Failed to load medical context", err)
	}

	kind := entity.MessageKindText
	if req.IsVoice {
		kind = entity.MessageKindVoice
	}
	userMessage, err := c.memory.Append(ctx, conversation.Id, stm.RoleUser, text, kind)
	if err != nil {
		return nil, apperror.Internal("Failed to record message", err)
	}

	raw, err := c.generator.Generate(ctx, text, turnContext.History, turnContext.MedicalSummary)
	if err != nil {
		metrics.ChatTurnsTotal.WithLabelValues("generation_failed").Inc()
		c.logger.Error(chatLogModule, "Reply generation failed", map[string]interface{}{
			"conversation_id": conversation.Id.String(),
			"error":           err.Error(),
		})
		return nil, apperror.Internal("Failed to generate a reply. Please try again.", err)
	}

	reply := markdown.Clean(raw)
	if reply == "" {
		metrics.ChatTurnsTotal.WithLabelValues("generation_failed").Inc()
		c.logger.Error(chatLogModule, "Reply was empty after cleanup", map[string]interface{}{
			"conversation_id": conversation.Id.String(),
			"raw_length":      len(raw),
		})
		return nil, apperror.Internal("Failed to generate a reply. Please try again.", errEmptyReply)
	}
	assistantMessage, err := c.memory.Append(ctx, conversation.Id, stm.RoleAssistant, reply, entity.MessageKindText)
	if err != nil {
		return nil, apperror.Internal("Failed to record reply", err)
	}
	metrics.ChatTurnsTotal.WithLabelValues("ok").Inc()

	c.touch(ctx, conversation, text)
	if err := c.publisher.Publish(ctx, events.ChatTurnCompleted(userId, conversation.Id.String())); err != nil {
		c.logger.Warn(chatLogModule, "Failed to publish turn event", map[string]interface{}{"error": err.Error()})
	}

	return &dto.SendMessageResponse{
		ConversationId: conversation.Id,
		Messages: []dto.MessageResponse{
			*toMessageResponse(userMessage),
			*toMessageResponse(assistantMessage),
		},
		Id:        assistantMessage.Id,
		Message:   assistantMessage.Content,
		Text:      assistantMessage.Content,
		Timestamp: assistantMessage.CreatedAt,
	}, nil
}

func (c *chatService) ownedConversation(ctx context.Context, userId string, rawId string) (*entity.Conversation, error) {
	id, err := uuid.Parse(rawId)
	if err != nil {
		return nil, apperror.Validation("Invalid conversation id")
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Internal("Failed to load conversation", err)
	}
	if conversation == nil {
		return nil, apperror.NotFound("Conversation not found")
	}
	if !conversation.OwnedBy(userId) {
		return nil, apperror.Forbidden("Not authorized to access this conversation")
	}
	return conversation, nil
}

func (c *chatService) lockTurn(conversationId uuid.UUID) func() {
	if !c.serializeTurns {
		return func() {}
	}
	return c.turnLocks.Lock(conversationId.String())
}

// touch bumps updated_at and names untitled conversations after their first
// message. Failures only cost list ordering.
func (c *chatService) touch(ctx context.Context, conversation *entity.Conversation, firstText string) {
	title := ""
	if conversation.Title == "" {
		title = truncateTitle(firstText)
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ConversationRepository().Touch(ctx, conversation.Id, title); err != nil {
		c.logger.Warn(chatLogModule, "Failed to touch conversation", map[string]interface{}{
			"conversation_id": conversation.Id.String(),
			"error":           err.Error(),
		})
	}
}

func truncateTitle(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= titleMaxLength {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:titleMaxLength])) + "..."
}

func toMessageResponse(m *entity.Message) *dto.MessageResponse {
	role := stm.RoleUser
	if r, ok := stm.RoleFromSender(m.Sender); ok {
		role = r
	}
	return &dto.MessageResponse{
		Id:             m.Id,
		ConversationId: m.ConversationId,
		Role:           string(role),
		Sender:         string(m.Sender),
		Text:           m.Content,
		Kind:           string(m.Kind),
		Timestamp:      m.CreatedAt,
	}
}
