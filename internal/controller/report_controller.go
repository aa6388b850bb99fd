package controller

import (
	"fmt"
	"io"

	"health-portal-be/internal/dto"
	"health-portal-be/internal/pkg/apperror"
	"health-portal-be/internal/pkg/serverutils"
	"health-portal-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IReportController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Explain(ctx *fiber.Ctx) error
	Download(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type reportController struct {
	reportService service.IReportService
}

func NewReportController(reportService service.IReportService) IReportController {
	return &reportController{
		reportService: reportService,
	}
}

func (c *reportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/reports")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.GetAll)
	h.Post("/upload", c.Upload)
	h.Post("/explain", c.Explain)
	h.Get("/download/:reportId", c.Download)
	h.Delete("/:reportId", c.Delete)
}

func (c *reportController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("report")
	if err != nil {
		return apperror.Validation("Report file is required")
	}
	if fileHeader.Size > service.MaxReportSize {
		return apperror.Validation("File is too large (Max 10MB).")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperror.Internal("Failed to read upload", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return apperror.Internal("Failed to read upload", err)
	}

	res, err := c.reportService.Upload(ctx.UserContext(), serverutils.GetUserId(ctx), &dto.UploadReportRequest{
		ReportName: ctx.FormValue("reportName"),
		FileName:   fileHeader.Filename,
		Content:    content,
	})
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Report uploaded and summarized", res))
}

func (c *reportController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.reportService.GetAll(ctx.UserContext(), serverutils.GetUserId(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get reports", res))
}

func (c *reportController) Explain(ctx *fiber.Ctx) error {
	var req dto.ExplainReportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := c.reportService.Explain(ctx.UserContext(), serverutils.GetUserId(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success explain report", res))
}

func (c *reportController) Download(ctx *fiber.Ctx) error {
	file, err := c.reportService.Download(ctx.UserContext(), serverutils.GetUserId(ctx), ctx.Params("reportId"))
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.FileName))
	return ctx.Send(file.Content)
}

func (c *reportController) Delete(ctx *fiber.Ctx) error {
	if err := c.reportService.Delete(ctx.UserContext(), serverutils.GetUserId(ctx), ctx.Params("reportId")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Report deleted", nil))
}
