package controller

import (
	"health-portal-be/internal/dto"
	"health-portal-be/internal/pkg/serverutils"
	"health-portal-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IReminderController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetPending(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Complete(ctx *fiber.Ctx) error
}

type reminderController struct {
	reminderService service.IReminderService
}

func NewReminderController(reminderService service.IReminderService) IReminderController {
	return &reminderController{
		reminderService: reminderService,
	}
}

func (c *reminderController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/reminders")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.GetPending)
	h.Post("/create", c.Create)
	h.Delete("/delete/:reminderId", c.Delete)
	h.Put("/complete/:reminderId", c.Complete)
}

func (c *reminderController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateReminderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := c.reminderService.Create(ctx.UserContext(), serverutils.GetUserId(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Reminder created", res))
}

func (c *reminderController) GetPending(ctx *fiber.Ctx) error {
	res, err := c.reminderService.GetPending(ctx.UserContext(), serverutils.GetUserId(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get reminders", res))
}

func (c *reminderController) Delete(ctx *fiber.Ctx) error {
	if err := c.reminderService.Delete(ctx.UserContext(), serverutils.GetUserId(ctx), ctx.Params("reminderId")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Reminder deleted", nil))
}

func (c *reminderController) Complete(ctx *fiber.Ctx) error {
	res, err := c.reminderService.Complete(ctx.UserContext(), serverutils.GetUserId(ctx), ctx.Params("reminderId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Reminder marked as done", res))
}
