package controller

import (
	"health-portal-be/internal/dto"
	"health-portal-be/internal/pkg/serverutils"
	"health-portal-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAppointmentController interface {
	RegisterRoutes(r fiber.Router)
	Book(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type appointmentController struct {
	appointmentService service.IAppointmentService
}

func NewAppointmentController(appointmentService service.IAppointmentService) IAppointmentController {
	return &appointmentController{
		appointmentService: appointmentService,
	}
}

func (c *appointmentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/appointments")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.GetAll)
	h.Post("/book", c.Book)
	h.Put("/cancel/:appointmentId", c.Cancel)
	h.Delete("/:appointmentId", c.Delete)
}

func (c *appointmentController) Book(ctx *fiber.Ctx) error {
	var req dto.BookAppointmentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := c.appointmentService.Book(ctx.UserContext(), serverutils.GetUserId(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Appointment booked successfully", res))
}

func (c *appointmentController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.appointmentService.GetAll(ctx.UserContext(), serverutils.GetUserId(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get appointments", res))
}

func (c *appointmentController) Cancel(ctx *fiber.Ctx) error {
	res, err := c.appointmentService.Cancel(ctx.UserContext(), serverutils.GetUserId(ctx), ctx.Params("appointmentId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Appointment cancelled successfully", res))
}

func (c *appointmentController) Delete(ctx *fiber.Ctx) error {
	if err := c.appointmentService.Delete(ctx.UserContext(), serverutils.GetUserId(ctx), ctx.Params("appointmentId")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Appointment deleted successfully", nil))
}
