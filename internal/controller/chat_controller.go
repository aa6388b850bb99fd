package controller

import (
	"health-portal-be/internal/dto"
	"health-portal-be/internal/pkg/serverutils"
	"health-portal-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	StartConversation(ctx *fiber.Ctx) error
	GetConversations(ctx *fiber.Ctx) error
	GetMessages(ctx *fiber.Ctx) error
	DeleteConversation(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/conversations", c.StartConversation)
	h.Post("/start", c.StartConversation)
	h.Get("/conversations", c.GetConversations)
	h.Get("/conversations/:conversationId/messages", c.GetMessages)
	h.Get("/messages/:conversationId", c.GetMessages)
	h.Delete("/conversations/:conversationId", c.DeleteConversation)
	h.Post("/message", c.SendMessage)
	h.Post("/send", c.SendMessage)
}

func (c *chatController) StartConversation(ctx *fiber.Ctx) error {
	userId := serverutils.GetUserId(ctx)

	var req dto.StartConversationRequest
	// Body is optional here.
	_ = ctx.BodyParser(&req)

	res, err := c.chatService.StartConversation(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Conversation started", res))
}

func (c *chatController) GetConversations(ctx *fiber.Ctx) error {
	res, err := c.chatService.GetConversations(ctx.UserContext(), serverutils.GetUserId(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get conversations", res))
}

func (c *chatController) GetMessages(ctx *fiber.Ctx) error {
	res, err := c.chatService.GetMessages(ctx.UserContext(), serverutils.GetUserId(ctx), ctx.Params("conversationId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get messages", res))
}

func (c *chatController) DeleteConversation(ctx *fiber.Ctx) error {
	err := c.chatService.DeleteConversation(ctx.UserContext(), serverutils.GetUserId(ctx), ctx.Params("conversationId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Conversation deleted", nil))
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := c.chatService.SendMessage(ctx.UserContext(), serverutils.GetUserId(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send message", res))
}
