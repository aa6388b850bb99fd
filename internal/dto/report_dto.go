package dto

import (
	"time"

	"github.com/google/uuid"
)

type ReportResponse struct {
	Id         uuid.UUID `json:"id"`
	FileName   string    `json:"fileName"`
	ReportName string    `json:"reportName"`
	FileUrl    string    `json:"fileUrl"`
	Summary    string    `json:"summary"`
	UploadDate time.Time `json:"uploadDate"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// UploadReportRequest is assembled by the controller from the multipart form.
type UploadReportRequest struct {
	ReportName string
	FileName   string
	Content    []byte
}

type ExplainReportRequest struct {
	ReportId string `json:"reportId"`
	Language string `json:"language"`
}

type ExplainReportResponse struct {
	ReportId    uuid.UUID `json:"reportId"`
	Language    string    `json:"language"`
	Explanation string    `json:"explanation"`
}

// ReportFile is an opened report ready to stream to the client.
type ReportFile struct {
	FileName string
	Content  []byte
}
