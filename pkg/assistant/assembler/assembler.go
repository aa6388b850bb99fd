// Package assembler builds the bounded context handed to the response
// generator: the recent conversation window plus the user's latest report
// summaries.
package assembler

import (
	"context"
	"fmt"
	"strings"

	"health-portal-be/internal/constant"
	"health-portal-be/internal/entity"
	"health-portal-be/internal/repository/specification"
	"health-portal-be/internal/repository/unitofwork"
	"health-portal-be/pkg/stm"

	"github.com/google/uuid"
)

const (
	DefaultWindowSize   = 6
	DefaultSummaryLimit = 3
)

// WindowReader is satisfied by *stm.Cache.
type WindowReader interface {
	RecentWindow(conversationId uuid.UUID, limit int) []stm.Turn
}

// SummaryProvider returns the user's reports, newest first.
type SummaryProvider interface {
	RecentSummaries(ctx context.Context, userId string, limit int) ([]*entity.MedicalReport, error)
}

type Context struct {
	History        []stm.Turn
	MedicalSummary string
}

type Assembler struct {
	window       WindowReader
	summaries    SummaryProvider
	windowSize   int
	summaryLimit int
}

type Option func(*Assembler)

func WithWindowSize(n int) Option {
	return func(a *Assembler) {
		if n > 0 {
			a.windowSize = n
		}
	}
}

func WithSummaryLimit(n int) Option {
	return func(a *Assembler) {
		if n > 0 {
			a.summaryLimit = n
		}
	}
}

func NewAssembler(window WindowReader, summaries SummaryProvider, opts ...Option) *Assembler {
	a := &Assembler{
		window:       window,
		summaries:    summaries,
		windowSize:   DefaultWindowSize,
		summaryLimit: DefaultSummaryLimit,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble has no side effects. Callers run it before appending the inbound
// message so the message is never part of its own history.
func (a *Assembler) Assemble(ctx context.Context, conversationId uuid.UUID, userId string) (*Context, error) {
	history := a.window.RecentWindow(conversationId, a.windowSize)

	reports, err := a.summaries.RecentSummaries(ctx, userId, a.summaryLimit)
	if err != nil {
		return nil, fmt.Errorf("load report summaries: %w", err)
	}

	return &Context{
		History:        history,
		MedicalSummary: FormatSummaries(reports),
	}, nil
}

// FormatSummaries renders one block per report, blocks separated by a blank
// line. Empty input yields "".
func FormatSummaries(reports []*entity.MedicalReport) string {
	blocks := make([]string, 0, len(reports))
	for _, r := range reports {
		if r == nil {
			continue
		}
		name := r.ReportName
		if strings.TrimSpace(name) == "" {
			name = constant.UnnamedReport
		}
		summary := r.Summary
		if strings.TrimSpace(summary) == "" {
			summary = constant.NoSummaryAvailable
		}
		blocks = append(blocks, fmt.Sprintf("Report: %s\nSummary: %s", name, summary))
	}
	return strings.Join(blocks, "\n\n")
}

type reportSummaryProvider struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewReportSummaryProvider(uowFactory unitofwork.RepositoryFactory) SummaryProvider {
	return &reportSummaryProvider{uowFactory: uowFactory}
}

func (p *reportSummaryProvider) RecentSummaries(ctx context.Context, userId string, limit int) ([]*entity.MedicalReport, error) {
	uow := p.uowFactory.NewUnitOfWork(ctx)
	return uow.MedicalReportRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit},
	)
}
