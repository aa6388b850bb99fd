package assembler

import (
	"context"
	"errors"
	"testing"

	"health-portal-be/internal/entity"
	"health-portal-be/pkg/stm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	turns     []stm.Turn
	lastLimit int
}

func (w *fakeWindow) RecentWindow(conversationId uuid.UUID, limit int) []stm.Turn {
	w.lastLimit = limit
	if len(w.turns) > limit {
		return append([]stm.Turn(nil), w.turns[len(w.turns)-limit:]...)
	}
	return append([]stm.Turn(nil), w.turns...)
}

type fakeSummaries struct {
	reports   []*entity.MedicalReport
	err       error
	lastLimit int
	lastUser  string
}

func (s *fakeSummaries) RecentSummaries(ctx context.Context, userId string, limit int) ([]*entity.MedicalReport, error) {
	s.lastLimit = limit
	s.lastUser = userId
	if s.err != nil {
		return nil, s.err
	}
	if len(s.reports) > limit {
		return s.reports[:limit], nil
	}
	return s.reports, nil
}

func TestAssemble_UsesWindowAndSummaries(t *testing.T) {
	window := &fakeWindow{}
	for _, text := range []string{"1", "2", "3", "4", "5", "6", "7", "8"} {
		window.turns = append(window.turns, stm.Turn{Role: stm.RoleUser, Text: text})
	}
	summaries := &fakeSummaries{reports: []*entity.MedicalReport{
		{ReportName: "CBC", Summary: "Hemoglobin low"},
	}}

	a := NewAssembler(window, summaries)
	got, err := a.Assemble(context.Background(), uuid.New(), "user_1")
	require.NoError(t, err)

	assert.Equal(t, 6, window.lastLimit)
	assert.Equal(t, 3, summaries.lastLimit)
	assert.Equal(t, "user_1", summaries.lastUser)
	assert.Len(t, got.History, 6)
	assert.Equal(t, "3", got.History[0].Text)
	assert.Equal(t, "Report: CBC\nSummary: Hemoglobin low", got.MedicalSummary)
}

func TestAssemble_IsIdempotent(t *testing.T) {
	window := &fakeWindow{turns: []stm.Turn{
		{Role: stm.RoleUser, Text: "hi"},
		{Role: stm.RoleAssistant, Text: "hello"},
	}}
	summaries := &fakeSummaries{}

	a := NewAssembler(window, summaries)
	id := uuid.New()
	first, err := a.Assemble(context.Background(), id, "u")
	require.NoError(t, err)
	second, err := a.Assemble(context.Background(), id, "u")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "", first.MedicalSummary)
}

func TestAssemble_SummaryFailure(t *testing.T) {
	a := NewAssembler(&fakeWindow{}, &fakeSummaries{err: errors.New("db down")})
	_, err := a.Assemble(context.Background(), uuid.New(), "u")
	assert.Error(t, err)
}

func TestAssemble_Options(t *testing.T) {
	window := &fakeWindow{}
	summaries := &fakeSummaries{}
	a := NewAssembler(window, summaries, WithWindowSize(2), WithSummaryLimit(1))

	_, err := a.Assemble(context.Background(), uuid.New(), "u")
	require.NoError(t, err)
	assert.Equal(t, 2, window.lastLimit)
	assert.Equal(t, 1, summaries.lastLimit)
}

func TestFormatSummaries(t *testing.T) {
	tests := []struct {
		name    string
		reports []*entity.MedicalReport
		want    string
	}{
		{name: "none", reports: nil, want: ""},
		{
			name:    "fallback labels",
			reports: []*entity.MedicalReport{{ReportName: "", Summary: ""}},
			want:    "Report: Unnamed\nSummary: No summary available",
		},
		{
			name: "newest first, blank line between blocks",
			reports: []*entity.MedicalReport{
				{ReportName: "Lipid Panel", Summary: "LDL high"},
				{ReportName: "CBC", Summary: "Normal"},
			},
			want: "Report: Lipid Panel\nSummary: LDL high\n\nReport: CBC\nSummary: Normal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSummaries(tt.reports))
		})
	}
}
