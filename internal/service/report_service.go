package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"health-portal-be/internal/constant"
	"health-portal-be/internal/dto"
	"health-portal-be/internal/entity"
	"health-portal-be/internal/metrics"
	"health-portal-be/internal/pkg/apperror"
	"health-portal-be/internal/pkg/logger"
	"health-portal-be/internal/repository/specification"
	"health-portal-be/internal/repository/unitofwork"
	"health-portal-be/pkg/events"
	"health-portal-be/pkg/markdown"
	pktNats "health-portal-be/pkg/nats"
	"health-portal-be/pkg/pdf"
	"health-portal-be/pkg/storage"

	"github.com/google/uuid"
)

const (
	reportLogModule  = "ReportService"
	MaxReportSize    = 10 << 20
	downloadPathBase = "/api/reports/download/"
)

type IReportService interface {
	Upload(ctx context.Context, userId string, req *dto.UploadReportRequest) (*dto.ReportResponse, error)
	GetAll(ctx context.Context, userId string) ([]*dto.ReportResponse, error)
	Explain(ctx context.Context, userId string, req *dto.ExplainReportRequest) (*dto.ExplainReportResponse, error)
	Download(ctx context.Context, userId string, reportId string) (*dto.ReportFile, error)
	Delete(ctx context.Context, userId string, reportId string) error
}

// TextCompleter runs a single prompt through the assistant model.
type TextCompleter interface {
	Complete(ctx context.Context, purpose, prompt string) (string, error)
}

type reportService struct {
	uowFactory  unitofwork.RepositoryFactory
	files       storage.FileStorage
	completer   TextCompleter
	publisher   pktNats.EventPublisher
	logger      logger.ILogger
	extractText func([]byte) (string, error)
}

func NewReportService(
	uowFactory unitofwork.RepositoryFactory,
	files storage.FileStorage,
	completer TextCompleter,
	publisher pktNats.EventPublisher,
	log logger.ILogger,
) IReportService {
	if publisher == nil {
		publisher = pktNats.NopPublisher{}
	}
	return &reportService{
		uowFactory:  uowFactory,
		files:       files,
		completer:   completer,
		publisher:   publisher,
		logger:      log,
		extractText: pdf.ExtractText,
	}
}

func (s *reportService) Upload(ctx context.Context, userId string, req *dto.UploadReportRequest) (*dto.ReportResponse, error) {
	if len(req.Content) == 0 {
		return nil, apperror.Validation("Report file is required")
	}
	if len(req.Content) > MaxReportSize {
		return nil, apperror.Validation("File is too large (Max 10MB).")
	}
	if !pdf.IsPDF(req.Content) {
		return nil, apperror.Validation("File type not supported. Only PDF is allowed.")
	}

	text, err := s.extractText(req.Content)
	if err != nil {
		s.logger.Warn(reportLogModule, "PDF parse failed", map[string]interface{}{"error": err.Error()})
		return nil, apperror.Validation("Failed to parse PDF file.")
	}
	if len([]rune(text)) < constant.MinReportTextLength {
		return nil, apperror.Validation("PDF seems to be empty or unreadable.")
	}

	name := strings.TrimSpace(req.ReportName)
	if name == "" {
		name = strings.TrimSpace(req.FileName)
	}
	if name == "" {
		name = constant.UnnamedReport
	}

	id := uuid.New()
	key := fmt.Sprintf("%s/%s.pdf", userId, id)
	if err := s.files.Save(ctx, key, req.Content); err != nil {
		return nil, apperror.Internal("Failed to upload file.", err)
	}

	summary, outcome := s.summarize(ctx, text)
	now := time.Now()
	report := entity.MedicalReport{
		Id:         id,
		UserId:     userId,
		ReportName: name,
		ReportUrl:  downloadPathBase + id.String(),
		StorageKey: key,
		Summary:    summary,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.MedicalReportRepository().Create(ctx, &report); err != nil {
		_ = s.files.Delete(context.WithoutCancel(ctx), key)
		return nil, apperror.Internal("Failed to save report", err)
	}
	metrics.ReportsUploaded.WithLabelValues(outcome).Inc()

	if err := s.publisher.Publish(ctx, events.ReportUploaded(userId, report.Id.String(), report.ReportName)); err != nil {
		s.logger.Warn(reportLogModule, "Failed to publish upload event", map[string]interface{}{"error": err.Error()})
	}

	return toReportResponse(&report), nil
}

// summarize never fails; a model error yields the fallback text.
func (s *reportService) summarize(ctx context.Context, text string) (string, string) {
	runes := []rune(text)
	if len(runes) > constant.ReportSummaryInputLimit {
		runes = runes[:constant.ReportSummaryInputLimit]
	}

	raw, err := s.completer.Complete(ctx, "report_summary", fmt.Sprintf(constant.ReportSummaryPrompt, string(runes)))
	if err != nil {
		s.logger.Error(reportLogModule, "AI summary failed", map[string]interface{}{"error": err.Error()})
		return constant.ReportSummaryFallback, "fallback"
	}

	summary := markdown.Clean(raw)
	if summary == "" {
		return constant.ReportSummaryFallback, "fallback"
	}
	return summary, "ai"
}

func (s *reportService) GetAll(ctx context.Context, userId string) ([]*dto.ReportResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	reports, err := uow.MedicalReportRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, apperror.Internal("Failed to load reports", err)
	}

	result := make([]*dto.ReportResponse, 0, len(reports))
	for _, r := range reports {
		result = append(result, toReportResponse(r))
	}
	return result, nil
}

func (s *reportService) Explain(ctx context.Context, userId string, req *dto.ExplainReportRequest) (*dto.ExplainReportResponse, error) {
	if strings.TrimSpace(req.ReportId) == "" {
		return nil, apperror.Validation("Report ID is required")
	}

	report, err := s.ownedReport(ctx, userId, req.ReportId)
	if err != nil {
		return nil, err
	}
	if len([]rune(report.Summary)) < constant.MinSummaryLength {
		return nil, apperror.Validation("Report does not have enough content to explain")
	}

	language := req.Language
	instruction, ok := constant.ExplainLanguageInstructions[language]
	if !ok {
		language = "en"
		instruction = constant.ExplainLanguageInstructions[language]
	}

	raw, err := s.completer.Complete(ctx, "report_explain", fmt.Sprintf(constant.ReportExplainPrompt, instruction, report.Summary))
	if err != nil {
		return nil, apperror.Internal("Failed to generate explanation. Please try again.", err)
	}

	return &dto.ExplainReportResponse{
		ReportId:    report.Id,
		Language:    language,
		Explanation: markdown.Clean(raw),
	}, nil
}

func (s *reportService) Download(ctx context.Context, userId string, reportId string) (*dto.ReportFile, error) {
	report, err := s.ownedReport(ctx, userId, reportId)
	if err != nil {
		// Other users' reports are indistinguishable from missing ones here.
		if apperror.KindOf(err) == apperror.KindForbidden {
			return nil, apperror.NotFound("Report not found")
		}
		return nil, err
	}

	rc, err := s.files.Open(ctx, report.StorageKey)
	if err != nil {
		return nil, apperror.Internal("Failed to download file", err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, apperror.Internal("Failed to download file", err)
	}

	return &dto.ReportFile{
		FileName: EnsurePdfExtension(report.ReportName),
		Content:  content,
	}, nil
}

func (s *reportService) Delete(ctx context.Context, userId string, reportId string) error {
	report, err := s.ownedReport(ctx, userId, reportId)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.MedicalReportRepository().Delete(ctx, report.Id); err != nil {
		return apperror.Internal("Failed to delete report", err)
	}

	if err := s.files.Delete(ctx, report.StorageKey); err != nil {
		s.logger.Warn(reportLogModule, "Stored file left behind", map[string]interface{}{
			"storage_key": report.StorageKey,
			"error":       err.Error(),
		})
	}
	return nil
}

func (s *reportService) ownedReport(ctx context.Context, userId string, rawId string) (*entity.MedicalReport, error) {
	id, err := uuid.Parse(rawId)
	if err != nil {
		return nil, apperror.NotFound("Report not found")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	report, err := uow.MedicalReportRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Internal("Failed to load report", err)
	}
	if report == nil {
		return nil, apperror.NotFound("Report not found")
	}
	if report.UserId != userId {
		return nil, apperror.Forbidden("Unauthorized access to report")
	}
	return report, nil
}

// EnsurePdfExtension appends ".pdf" unless the name already ends with it.
func EnsurePdfExtension(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "report.pdf"
	}
	if strings.HasSuffix(strings.ToLower(name), ".pdf") {
		return name
	}
	return name + ".pdf"
}

func toReportResponse(r *entity.MedicalReport) *dto.ReportResponse {
	return &dto.ReportResponse{
		Id:         r.Id,
		FileName:   r.ReportName,
		ReportName: r.ReportName,
		FileUrl:    downloadPathBase + r.Id.String(),
		Summary:    r.Summary,
		UploadDate: r.CreatedAt,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
